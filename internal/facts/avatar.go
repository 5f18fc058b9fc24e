package facts

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// AvatarClient fetches a random profile thumbnail for new accounts.
// Registration proceeds without one when the upstream is unreachable.
type AvatarClient struct {
	base string
	http *http.Client
}

func NewAvatarClient(baseURL string) *AvatarClient {
	return &AvatarClient{
		base: baseURL,
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *AvatarClient) Avatar(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/?inc=picture", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		Results []struct {
			Picture struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"picture"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].Picture.Thumbnail, nil
}
