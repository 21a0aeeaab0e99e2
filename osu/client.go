package osu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"osu-rank-bot/config"

	"github.com/disgoorg/json"
	"github.com/lmittmann/tint"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	// ErrUserNotFound is returned for any non-OK user lookup, including an
	// unknown account. Callers treat it as "skip this member".
	ErrUserNotFound = errors.New("osu user not found")
)

const (
	defaultAPIURL   = "https://osu.ppy.sh/api/v2"
	defaultTokenURL = "https://osu.ppy.sh/oauth/token"
	defaultAuthURL  = "https://osu.ppy.sh/oauth/authorize"
)

// Client talks to the osu! API v2. Application-level requests use a
// client-credentials bearer token; the token source caches the token for its
// issued lifetime and renews it lazily, so there is a single in-memory token
// slot per Client.
type Client struct {
	apiURL     string
	apiClient  *http.Client
	authConfig *oauth2.Config
}

func New(cfg config.OsuConfig) *Client {
	return newClient(cfg, defaultAPIURL, defaultTokenURL, defaultAuthURL)
}

func newClient(cfg config.OsuConfig, apiURL, tokenURL, authURL string) *Client {
	credentials := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{"public"},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return &Client{
		apiURL:    apiURL,
		apiClient: oauth2.NewClient(context.Background(), credentials.TokenSource(context.Background())),
		authConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
}

// User is the public part of an osu! account the bot cares about.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Country   struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"country"`
	Statistics struct {
		GlobalRank  *int    `json:"global_rank"`
		CountryRank *int    `json:"country_rank"`
		PP          float64 `json:"pp"`
		Accuracy    float64 `json:"hit_accuracy"`
		PlayCount   int     `json:"play_count"`
	} `json:"statistics"`
}

// GlobalRank returns the user's global rank for the fetched ruleset, 0 when
// the account has none.
func (u *User) GlobalRank() int {
	if u.Statistics.GlobalRank == nil {
		return 0
	}
	return *u.Statistics.GlobalRank
}

// FetchUser looks up an account by ID or username for a ruleset. Any non-OK
// response maps to ErrUserNotFound.
func (c *Client) FetchUser(ctx context.Context, user string, mode Gamemode) (*User, error) {
	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/users/%s/%s", c.apiURL, user, mode.URLName()), nil)
	if err != nil {
		return nil, err
	}
	rs, err := c.apiClient.Do(rq)
	if err != nil {
		slog.Error("osu: error while running a user request", slog.String("osu.user", user), tint.Err(err))
		return nil, err
	}
	defer rs.Body.Close()
	return decodeUser(rs, user)
}

// AuthCodeURL builds the consent URL handed to a registering member. The
// state carries the pending-verification identity.
func (c *Client) AuthCodeURL(state string) string {
	return c.authConfig.AuthCodeURL(state)
}

// FetchAuthenticatedUser exchanges an authorization code from the callback
// and reads the account it belongs to.
func (c *Client) FetchAuthenticatedUser(ctx context.Context, code string, mode Gamemode) (*User, error) {
	token, err := c.authConfig.Exchange(ctx, code)
	if err != nil {
		slog.Error("osu: error while exchanging an authorization code", tint.Err(err))
		return nil, err
	}
	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/me/%s", c.apiURL, mode.URLName()), nil)
	if err != nil {
		return nil, err
	}
	rs, err := c.authConfig.Client(ctx, token).Do(rq)
	if err != nil {
		slog.Error("osu: error while running a me request", tint.Err(err))
		return nil, err
	}
	defer rs.Body.Close()
	return decodeUser(rs, "me")
}

func decodeUser(rs *http.Response, user string) (*User, error) {
	if rs.StatusCode != http.StatusOK {
		if rs.StatusCode != http.StatusNotFound {
			slog.Warn("osu: received an unexpected code from a user response",
				slog.Int("status.code", rs.StatusCode),
				slog.String("osu.user", user))
		}
		return nil, ErrUserNotFound
	}
	var osuUser *User
	if err := json.NewDecoder(rs.Body).Decode(&osuUser); err != nil {
		slog.Error("osu: error while decoding a user response", slog.String("osu.user", user), tint.Err(err))
		return nil, err
	}
	return osuUser, nil
}
