package accrual

import (
	"io"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// RegistryClient fetches accrual rates from an external scheme registry
// over HTTP, caching results for the lifetime of the process and fetching
// distinct, uncached scheme ids concurrently. Grounded on the teacher's
// internal/schemeregistry package, generalized behind the Provider
// interface and given an explicit constructor instead of package-level
// state so a request boundary can wire it up once at startup.
type RegistryClient struct {
	baseURL string
	client  *http.Client
	cache   sync.Map
}

// NewRegistryClient builds a client against baseURL with a 2-second
// per-request timeout, per spec §5/§6.
func NewRegistryClient(baseURL string) *RegistryClient {
	return &RegistryClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 2 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type schemeResponse struct {
	SchemeID    string  `json:"scheme_id"`
	AccrualRate float64 `json:"accrual_rate"`
}

func (c *RegistryClient) GetAccrualRates(schemeIDs []string) map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal, len(schemeIDs))

	var toFetch []string
	for _, id := range schemeIDs {
		if rate, ok := c.cache.Load(id); ok {
			result[id] = rate.(decimal.Decimal)
		} else {
			toFetch = append(toFetch, id)
		}
	}

	if len(toFetch) == 0 {
		return result
	}

	if len(toFetch) == 1 {
		rate := c.fetchRate(toFetch[0])
		c.cache.Store(toFetch[0], rate)
		result[toFetch[0]] = rate
		return result
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, id := range toFetch {
		wg.Add(1)
		go func(schemeID string) {
			defer wg.Done()
			rate := c.fetchRate(schemeID)
			c.cache.Store(schemeID, rate)
			mu.Lock()
			result[schemeID] = rate
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return result
}

func (c *RegistryClient) fetchRate(schemeID string) decimal.Decimal {
	resp, err := c.client.Get(c.baseURL + "/schemes/" + schemeID)
	if err != nil {
		return DefaultRate
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return DefaultRate
	}

	var sr schemeResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return DefaultRate
	}
	return decimal.NewFromFloat(sr.AccrualRate)
}
