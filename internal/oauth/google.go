package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lnuais/member_service/internal/helper/utils"
	"github.com/lnuais/member_service/internal/session"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	ErrInvalidState = errors.New("invalid or expired oauth state")
	ErrInvalidCode  = errors.New("invalid authorization code")
)

const (
	stateKeyPrefix = "oauthstate:"
	stateTTL       = 10 * time.Minute
)

// Identity is what the provider vouches for after a successful handshake.
type Identity struct {
	Sub     string
	Email   string
	Name    string
	Picture string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Google wraps the oauth2 handshake with Google. The CSRF state is kept in
// the shared store with a short TTL and consumed exactly once.
type Google struct {
	conf   *oauth2.Config
	states session.Store
	client *http.Client
}

func NewGoogle(cfg GoogleConfig, states session.Store) *Google {
	return &Google{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		states: states,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthURL returns the consent-screen URL with a fresh one-time state.
func (g *Google) AuthURL(ctx context.Context) (string, error) {
	state, err := utils.RandomToken(24)
	if err != nil {
		return "", errors.New("failed to generate oauth state")
	}

	if err := g.states.Set(ctx, stateKeyPrefix+state, []byte("1"), stateTTL); err != nil {
		return "", errors.New("failed to store oauth state")
	}

	return g.conf.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account")), nil
}

// Exchange validates the callback state, trades the code for a token and
// fetches the userinfo record.
func (g *Google) Exchange(ctx context.Context, code, state string) (*Identity, error) {
	if err := g.consumeState(ctx, state); err != nil {
		return nil, err
	}

	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, ErrInvalidCode
	}

	return g.fetchUserInfo(ctx, token.AccessToken)
}

func (g *Google) consumeState(ctx context.Context, state string) error {
	if state == "" {
		return ErrInvalidState
	}

	val, err := g.states.Get(ctx, stateKeyPrefix+state)
	if err != nil {
		return errors.New("failed to read oauth state")
	}
	if val == nil {
		return ErrInvalidState
	}
	return g.states.Delete(ctx, stateKeyPrefix+state)
}

func (g *Google) fetchUserInfo(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v3/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var info struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Sub == "" || info.Email == "" {
		return nil, errors.New("google userinfo missing sub or email")
	}

	return &Identity{
		Sub:     info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
