package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Google OAuth endpoints.
const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserinfoURL = "https://www.googleapis.com/oauth2/v1/userinfo"

	stateTTL = 10 * time.Minute
)

// TokenResponse is the token endpoint's reply to a code exchange.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// UserInfo is the subset of the Google profile the app needs.
type UserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleOAuth drives the authorization-code flow against Google. Endpoint
// URLs are fields so tests can point the client at a local server.
type GoogleOAuth struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	AuthURL     string
	TokenURL    string
	UserinfoURL string

	stateKey   []byte
	httpClient *http.Client
}

// NewGoogleOAuth creates an OAuth client. stateSecret signs the anti-CSRF
// state parameter. Outbound calls are bounded by a 10 second timeout.
func NewGoogleOAuth(clientID, clientSecret, redirectURI, stateSecret string) *GoogleOAuth {
	return &GoogleOAuth{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		AuthURL:      googleAuthURL,
		TokenURL:     googleTokenURL,
		UserinfoURL:  googleUserinfoURL,
		stateKey:     []byte(stateSecret),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SignState issues a short-lived HS256 token carried through the redirect
// round-trip as the state parameter.
func (g *GoogleOAuth) SignState() (string, error) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(stateTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.stateKey)
}

// VerifyState validates the state parameter returned by the provider.
func (g *GoogleOAuth) VerifyState(state string) error {
	token, err := jwt.Parse(state, func(token *jwt.Token) (interface{}, error) {
		return g.stateKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return fmt.Errorf("invalid oauth state: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid oauth state")
	}
	return nil
}

// AuthCodeURL builds the URL the browser is sent to for consent.
func (g *GoogleOAuth) AuthCodeURL(state string) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {g.ClientID},
		"redirect_uri":  {g.RedirectURI},
		"scope":         {"openid email profile"},
		"access_type":   {"offline"},
		"prompt":        {"select_account"},
		"state":         {state},
	}
	return g.AuthURL + "?" + params.Encode()
}

// Exchange trades an authorization code for an access token. A provider
// error payload is surfaced as an error, not a zero token.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (TokenResponse, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {g.ClientID},
		"client_secret": {g.ClientSecret},
		"redirect_uri":  {g.RedirectURI},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return TokenResponse{}, fmt.Errorf("decode token response: %w", err)
	}
	if tr.Error != "" {
		desc := tr.ErrorDescription
		if desc == "" {
			desc = tr.Error
		}
		return TokenResponse{}, fmt.Errorf("authentication failed: %s", desc)
	}
	if tr.AccessToken == "" {
		return TokenResponse{}, fmt.Errorf("token response missing access_token")
	}
	return tr, nil
}

// FetchUserInfo retrieves the profile for an access token. The GET is
// idempotent, so a transport failure is retried once.
func (g *GoogleOAuth) FetchUserInfo(ctx context.Context, accessToken string) (UserInfo, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		info, err := g.fetchUserInfoOnce(ctx, accessToken)
		if err == nil {
			return info, nil
		}
		lastErr = err
	}
	return UserInfo{}, lastErr
}

func (g *GoogleOAuth) fetchUserInfoOnce(ctx context.Context, accessToken string) (UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserinfoURL, nil)
	if err != nil {
		return UserInfo{}, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return UserInfo{}, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return UserInfo{}, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, body)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return UserInfo{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" {
		return UserInfo{}, fmt.Errorf("userinfo missing email")
	}
	return info, nil
}

// RandomPassword generates the unusable local password assigned to accounts
// auto-provisioned from a Google profile.
func RandomPassword() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "google_auth_" + time.Now().Format("20060102150405")
	}
	return "google_auth_" + hex.EncodeToString(b)
}
