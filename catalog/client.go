// Package catalog is the read-side client for the remote product catalog.
// Every call is an independent HTTP round trip; there is no caching and no
// state beyond the configured base address.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	models "storefront/model"
)

var (
	// ErrUnavailable means the transport call did not complete with a
	// success status. Reads are always safe to re-issue.
	ErrUnavailable = errors.New("catalog unavailable")
	// ErrProductNotFound means the catalog had no product for the id.
	ErrProductNotFound = errors.New("product not found")
	// ErrMalformed means the response body could not be parsed into the
	// expected envelope shape.
	ErrMalformed = errors.New("catalog response malformed")
)

// Sort selects the catalog-side ordering of a product listing.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortPriceAsc  Sort = "price-asc"
	SortPriceDesc Sort = "price-desc"
	SortRating    Sort = "rating"
)

// Filter narrows and pages a product listing. Zero values are omitted from
// the query string.
type Filter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Sort     Sort
	Page     int
	Limit    int
}

// Meta is the pagination block the catalog returns alongside listings.
type Meta struct {
	Page      int `json:"page"`
	Limit     int `json:"limit"`
	Total     int `json:"total"`
	TotalPage int `json:"totalPage"`
}

// ListResult is an ordered page of products plus its pagination metadata.
type ListResult struct {
	Products []models.Product
	Meta     *Meta
}

// envelope is the catalog's response wrapper. Data is kept raw because its
// shape differs between listing and single-product endpoints.
type envelope struct {
	Status     bool            `json:"status"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type listData struct {
	Result []models.Product `json:"result"`
	Meta   *Meta            `json:"meta,omitempty"`
}

// Client issues catalog reads over HTTP.
type Client struct {
	baseURL    string
	http       *http.Client
	log        *zap.Logger
	maxElapsed time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRetry enables exponential-backoff retries on transport failures, giving
// up once maxElapsed has passed. Not-found and malformed responses are never
// retried.
func WithRetry(maxElapsed time.Duration) Option {
	return func(c *Client) { c.maxElapsed = maxElapsed }
}

// NewClient returns a client for the catalog at baseURL, e.g.
// "https://shop.example.com/api".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListProducts fetches one page of products matching the filter.
func (c *Client) ListProducts(ctx context.Context, f Filter) (*ListResult, error) {
	return c.list(ctx, f.query())
}

// SearchProducts fetches products matching a free-text term. Same contract as
// ListProducts otherwise.
func (c *Client) SearchProducts(ctx context.Context, term string) (*ListResult, error) {
	q := url.Values{}
	q.Set("searchTerm", term)
	return c.list(ctx, q)
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	op := func() (*models.Product, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/"+url.PathEscape(id), nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrUnavailable, err))
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// The read contract treats any non-success status on a
			// single-product fetch as "not found".
			return nil, backoff.Permanent(fmt.Errorf("%w: %s (status %d)", ErrProductNotFound, id, resp.StatusCode))
		}
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrMalformed, err))
		}
		var p models.Product
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrMalformed, err))
		}
		if p.ID == "" {
			return nil, backoff.Permanent(fmt.Errorf("%w: missing product id", ErrMalformed))
		}
		return &p, nil
	}
	return retry(ctx, c, op)
}

func (c *Client) list(ctx context.Context, q url.Values) (*ListResult, error) {
	op := func() (*ListResult, error) {
		u := c.baseURL + "/products"
		if enc := q.Encode(); enc != "" {
			u += "?" + enc
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrUnavailable, err))
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
		}
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrMalformed, err))
		}
		var data listData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrMalformed, err))
		}
		return &ListResult{Products: data.Result, Meta: data.Meta}, nil
	}
	return retry(ctx, c, op)
}

// retry runs op once, or under the client's backoff policy when one is set.
func retry[T any](ctx context.Context, c *Client, op func() (T, error)) (T, error) {
	if c.maxElapsed <= 0 {
		v, err := op()
		return v, unwrapPermanent(err)
	}
	bo := backoff.NewExponentialBackOff()
	v, err := backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil {
			c.log.Warn("catalog read failed", zap.Error(err))
		}
		return v, err
	}, backoff.WithBackOff(bo), backoff.WithMaxElapsedTime(c.maxElapsed))
	return v, unwrapPermanent(err)
}

// unwrapPermanent strips the backoff marker so callers match on the catalog
// sentinels with errors.Is.
func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Unwrap()
	}
	return err
}

func (f Filter) query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Sort != "" {
		q.Set("sort", string(f.Sort))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}
