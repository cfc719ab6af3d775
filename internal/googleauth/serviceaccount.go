package googleauth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenURL = "https://oauth2.googleapis.com/token"

// TokenSource exchanges a service-account JWT assertion for short-lived
// OAuth2 access tokens, caching each token until shortly before expiry.
type TokenSource struct {
	clientEmail string
	privateKey  *rsa.PrivateKey
	scopes      []string
	subject     string // optional mailbox to impersonate (domain-wide delegation)
	httpClient  *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewTokenSource builds a token source from PEM-encoded service account
// credentials. subject may be empty when no impersonation is needed.
func NewTokenSource(clientEmail, privateKeyPEM, subject string, scopes []string) (*TokenSource, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}
	return &TokenSource{
		clientEmail: clientEmail,
		privateKey:  key,
		scopes:      scopes,
		subject:     subject,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Token returns a valid access token, refreshing it when expired
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Now().Before(ts.expires.Add(-1*time.Minute)) {
		return ts.token, nil
	}

	assertion, err := ts.signAssertion()
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed: status %d, body %s", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned empty access token")
	}

	ts.token = payload.AccessToken
	ts.expires = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return ts.token, nil
}

func (ts *TokenSource) signAssertion() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   ts.clientEmail,
		"scope": strings.Join(ts.scopes, " "),
		"aud":   tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	if ts.subject != "" {
		claims["sub"] = ts.subject
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(ts.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}
	return signed, nil
}
