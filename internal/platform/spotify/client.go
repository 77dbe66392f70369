package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	spotifyauth "golang.org/x/oauth2/spotify"
)

var (
	// ErrTokenExpired reports a call rejected because the access token is
	// no longer valid. The guard refreshes and retries on it.
	ErrTokenExpired = errors.New("spotify: access token expired")
	// ErrReauthRequired reports an expiry that survived one refresh
	// attempt; the user has to authenticate again.
	ErrReauthRequired = errors.New("spotify: re-authentication required")
)

// Credential is the token triple owned by the calling session. The guard
// updates it in place after a successful refresh; persisting the new value
// back to session storage is the owner's job.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// PlaylistHit is one playlist search result.
type PlaylistHit struct {
	SpotifyID   string `json:"spotify_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	URI         string `json:"uri"`
}

func (h PlaylistHit) HasImage() bool {
	return h.ImageURL != ""
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	oauth      *oauth2.Config
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: "https://api.spotify.com/v1",
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     spotifyauth.Endpoint,
		},
	}
}

type searchResponse struct {
	Playlists struct {
		Items []*struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description"`
			URI         string `json:"uri"`
			Images      []struct {
				URL string `json:"url"`
			} `json:"images"`
		} `json:"items"`
	} `json:"playlists"`
}

// SearchPlaylists runs a playlist search with the given bearer token.
// A 401 surfaces as ErrTokenExpired so the guard can refresh and retry.
func (c *Client) SearchPlaylists(ctx context.Context, accessToken, query string, limit int) ([]PlaylistHit, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "playlist")
	q.Set("limit", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("playlist search: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrTokenExpired
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var res searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]PlaylistHit, 0, len(res.Playlists.Items))
	for _, item := range res.Playlists.Items {
		// the search endpoint pads result pages with nulls
		if item == nil || item.ID == "" {
			continue
		}
		hit := PlaylistHit{
			SpotifyID:   item.ID,
			Name:        item.Name,
			Description: item.Description,
			URI:         item.URI,
		}
		if len(item.Images) > 0 {
			hit.ImageURL = item.Images[0].URL
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Refresh exchanges a refresh token for a new credential. Spotify does not
// always rotate the refresh token; the caller keeps the old one when the
// response omits it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Credential, error) {
	src := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token exchange: %w", err)
	}

	cred := &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}
	if cred.RefreshToken == "" {
		cred.RefreshToken = refreshToken
	}
	return cred, nil
}

// SetBaseURL points API calls at a different host. Tests use it with
// httptest servers.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// SetTokenURL points the refresh exchange at a different token endpoint.
func (c *Client) SetTokenURL(u string) {
	c.oauth.Endpoint = oauth2.Endpoint{TokenURL: u}
}
