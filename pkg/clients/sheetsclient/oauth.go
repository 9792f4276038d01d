package sheetsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

const (
	AuthPort       = 3000
	authTimeout    = 5 * time.Minute
	callbackPath   = "/oauth/callback"
	tokenDirName   = ".studio-scheduler/tokens"
	tokenFilePerms = 0600
	tokenDirPerms  = 0700
)

// isOAuthClient reports whether the credentials JSON is a desktop OAuth client
// ("installed" or "web") rather than a service account or authorised user
func isOAuthClient(data []byte) bool {
	var probe struct {
		Installed json.RawMessage `json:"installed"`
		Web       json.RawMessage `json:"web"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Installed != nil || probe.Web != nil
}

// oauthConfig builds the OAuth2 config for the local callback flow
func oauthConfig(data []byte) (*oauth2.Config, error) {
	cfg, err := google.ConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to create google config: %w", err)
	}
	cfg.RedirectURL = fmt.Sprintf("http://localhost:%d%s", AuthPort, callbackPath)
	return cfg, nil
}

// tokenSource returns a token source for the environment, reusing the cached
// token when it is still valid or refreshable and otherwise running the
// browser authorization flow. Refreshed tokens are written back to disk.
func tokenSource(ctx context.Context, cfg *oauth2.Config, env string) (oauth2.TokenSource, error) {
	token, err := LoadTokenFromFile(env)
	if err != nil {
		fmt.Printf("Warning: failed to load token from file: %v\n", err)
	}

	if token == nil || (!token.Valid() && token.RefreshToken == "") {
		token, err = authorize(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := SaveTokenToFile(env, token); err != nil {
			fmt.Printf("Warning: failed to save token to file: %v\n", err)
		}
	}

	return &persistingTokenSource{
		base: cfg.TokenSource(ctx, token),
		env:  env,
		last: token.AccessToken,
	}, nil
}

// persistingTokenSource saves the token whenever the underlying source refreshes it
type persistingTokenSource struct {
	base oauth2.TokenSource
	env  string
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token, delete %s to sign in again: %w", tokenHint(s.env), err)
	}
	if token.AccessToken != s.last {
		s.last = token.AccessToken
		if err := SaveTokenToFile(s.env, token); err != nil {
			fmt.Printf("Warning: failed to save refreshed token: %v\n", err)
		}
	}
	return token, nil
}

// authorize prints the consent URL and exchanges the code received on the local callback
func authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	fmt.Println("No valid token found - starting OAuth flow")

	authURL := cfg.AuthCodeURL("state", oauth2.AccessTypeOffline)
	fmt.Printf("\nVisit this URL to authorize the application:\n%s\n\n", authURL)

	code, err := listenForAuthCallback(ctx, fmt.Sprintf("localhost:%d", AuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code: %w", err)
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return token, nil
}

// listenForAuthCallback serves the OAuth redirect on addr and returns the authorization code
func listenForAuthCallback(ctx context.Context, addr string) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return serveAuthCallback(ctx, listener)
}

func serveAuthCallback(ctx context.Context, listener net.Listener) (string, error) {
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			select {
			case errChan <- errors.New("no authorization code received"):
			default:
			}
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Authorization Successful</title></head>
<body><h1>Authorization successful!</h1><p>You can close this window and return to the terminal.</p></body></html>`)

		select {
		case codeChan <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errChan <- fmt.Errorf("server error: %w", err):
			default:
			}
		}
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	var code string
	var authErr error

	select {
	case code = <-codeChan:
	case authErr = <-errChan:
	case <-timeoutCtx.Done():
		authErr = fmt.Errorf("authorization timeout after %v", authTimeout)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)

	if authErr != nil {
		return "", authErr
	}
	return code, nil
}

// getTokenFilePath returns the path to the token file for the given environment
func getTokenFilePath(env string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, tokenDirName, fmt.Sprintf("token-%s.json", env)), nil
}

func tokenHint(env string) string {
	path, err := getTokenFilePath(env)
	if err != nil {
		return "the cached token"
	}
	return path
}

// LoadTokenFromFile loads the cached token for the environment.
// Returns nil without error if none has been saved yet.
func LoadTokenFromFile(env string) (*oauth2.Token, error) {
	tokenPath, err := getTokenFilePath(env)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(tokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}

// SaveTokenToFile writes the token for the environment, readable by the owner only
func SaveTokenToFile(env string, token *oauth2.Token) error {
	tokenPath, err := getTokenFilePath(env)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(tokenPath), tokenDirPerms); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(tokenPath, data, tokenFilePerms); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// DeleteTokenFile removes the cached token for the environment
func DeleteTokenFile(env string) error {
	tokenPath, err := getTokenFilePath(env)
	if err != nil {
		return err
	}
	if err := os.Remove(tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}
