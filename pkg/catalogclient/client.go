package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnavailable     = errors.New("catalog unavailable")
)

type Product struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Image      string    `json:"image"`
	Category   string    `json:"category"`
	Brand      string    `json:"brand"`
	Price      int64     `json:"price"`
	SalePrice  int64     `json:"salePrice"`
	TotalStock int       `json:"totalStock"`
}

// UnitPrice is what the customer pays for one item.
func (p Product) UnitPrice() int64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[[]byte]
}

func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	var st gobreaker.Settings
	st.Name = name
	st.Timeout = 15 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 3 && failureRatio >= 0.6
	}
	// a 404 is an answer, not a failure of the catalog
	st.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrProductNotFound)
	}
	return gobreaker.NewCircuitBreaker[[]byte](st)
}

func NewClient(catalogURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(catalogURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		cb: NewCircuitBreaker("catalog"),
	}
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	body, err := c.get(ctx, "/shop/products/"+id.String())
	if err != nil {
		return nil, err
	}
	var p Product
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return &p, nil
}

// GetProducts returns the known products among ids; unknown ids are absent from the map.
func (c *Client) GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Product, error) {
	out := make(map[uuid.UUID]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	body, err := c.get(ctx, "/shop/products/batch?ids="+url.QueryEscape(strings.Join(parts, ",")))
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Product `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	for _, p := range resp.Data {
		out[p.ID] = p
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	body, err := c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("do request: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrProductNotFound
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("catalog responded with status: %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, err
}
