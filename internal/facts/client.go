// Package facts wraps the external enrichment APIs the game calls out to:
// numbersapi.com for number trivia and randomuser.me for avatar thumbnails.
// Both are best-effort; callers treat failures as "no enrichment".
package facts

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var factTypes = []string{"math", "trivia", "year"}

// Client fetches number facts with a TTL cache in front so a popular answer
// does not hammer the upstream API. Concurrent misses for the same number are
// collapsed through singleflight.
type Client struct {
	base  string
	http  *http.Client
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[int]cachedFact
}

type cachedFact struct {
	fact      string
	expiresAt time.Time
}

func NewClient(baseURL string, ttl time.Duration) *Client {
	return &Client{
		base:  baseURL,
		http:  &http.Client{Timeout: 5 * time.Second},
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[int]cachedFact),
	}
}

// Fact returns a short trivia string about number. The fact type (math,
// trivia, year) is picked at random on each upstream fetch.
func (c *Client) Fact(ctx context.Context, number int) (string, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[number]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.fact, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(fmt.Sprint(number), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[number]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.fact, nil
		}
		c.mu.RUnlock()

		fact, err := c.fetch(ctx, number)
		if err != nil {
			return "", err
		}

		expiry := now.Add(c.ttlWithJitter())
		c.mu.Lock()
		c.cache[number] = cachedFact{fact: fact, expiresAt: expiry}
		c.mu.Unlock()
		return fact, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// randIntn guards rnd, which is shared across concurrent singleflight
// fetches for distinct numbers.
func (c *Client) randIntn(n int) int {
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.rnd.Intn(n)
}

func (c *Client) fetch(ctx context.Context, number int) (string, error) {
	factType := factTypes[c.randIntn(len(factTypes))]
	url := fmt.Sprintf("%s/%d/%s", c.base, number, factType)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("facts api: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int(int64(c.ttl) / 10)
	return c.ttl + time.Duration(c.randIntn(jitterMax+1))
}
