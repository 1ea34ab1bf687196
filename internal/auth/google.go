package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
)

// DefaultTokenInfoURL is Google's ID token introspection endpoint
const DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier validates Google ID tokens against the tokeninfo endpoint
type GoogleVerifier struct {
	clientID     string
	tokenInfoURL string
	httpClient   *http.Client
}

// NewGoogleVerifier creates a verifier that accepts tokens issued to clientID
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID:     clientID,
		tokenInfoURL: DefaultTokenInfoURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithTokenInfoURL points the verifier at another tokeninfo endpoint
func (v *GoogleVerifier) WithTokenInfoURL(u string) *GoogleVerifier {
	v.tokenInfoURL = u
	return v
}

// Verify implements Verifier
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*domain.Identity, error) {
	endpoint := fmt.Sprintf("%s?id_token=%s", v.tokenInfoURL, url.QueryEscape(idToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, string(body))
	}

	var tokenInfo struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
		Aud     string `json:"aud"` // Client ID
		Exp     string `json:"exp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return nil, err
	}

	if tokenInfo.Aud != v.clientID {
		return nil, fmt.Errorf("%w: invalid audience %s", ErrInvalidToken, tokenInfo.Aud)
	}
	if tokenInfo.Email == "" {
		return nil, ErrNoEmailClaim
	}

	return &domain.Identity{
		Email:   tokenInfo.Email,
		Name:    tokenInfo.Name,
		Picture: tokenInfo.Picture,
		Subject: tokenInfo.Sub,
	}, nil
}
