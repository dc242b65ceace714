package vertex

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GCP scope for Vertex AI
const vertexAIScope = "https://www.googleapis.com/auth/cloud-platform"

// authProvider supplies OAuth2 tokens for the raw-predict endpoint based on
// the configured auth type. The token source is created lazily on first use
// and refreshes itself thereafter.
type authProvider struct {
	config      *Config
	tokenSource oauth2.TokenSource
	mu          sync.Mutex
}

func newAuthProvider(config *Config) *authProvider {
	return &authProvider{config: config}
}

// token returns a valid OAuth2 token, initializing the source if needed.
func (a *authProvider) token(ctx context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tokenSource == nil {
		source, err := a.buildTokenSource(ctx)
		if err != nil {
			return nil, err
		}
		a.tokenSource = source
	}

	token, err := a.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return token, nil
}

func (a *authProvider) buildTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	switch a.config.AuthType {
	case AuthTypeBearerToken:
		return oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: a.config.BearerToken,
			TokenType:   "Bearer",
			// Static tokens never expire from our side
			Expiry: time.Now().Add(100 * 365 * 24 * time.Hour),
		}), nil

	case AuthTypeServiceAccount:
		var credentialsJSON []byte
		switch {
		case a.config.ServiceAccountJSON != "":
			credentialsJSON = []byte(a.config.ServiceAccountJSON)
		case a.config.ServiceAccountFile != "":
			data, err := os.ReadFile(a.config.ServiceAccountFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read service account file: %w", err)
			}
			credentialsJSON = data
		default:
			return nil, fmt.Errorf("no service account credentials provided")
		}

		creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, vertexAIScope)
		if err != nil {
			return nil, fmt.Errorf("failed to create credentials from JSON: %w", err)
		}
		return creds.TokenSource, nil

	case AuthTypeApplicationDefault, "":
		creds, err := google.FindDefaultCredentials(ctx, vertexAIScope)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
		return creds.TokenSource, nil

	default:
		return nil, fmt.Errorf("unsupported auth type: %s", a.config.AuthType)
	}
}

// authHeaders returns the Authorization header for a raw-predict request.
func (a *authProvider) authHeaders(ctx context.Context) (map[string]string, error) {
	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{"Authorization": "Bearer " + token.AccessToken}, nil
}
