package flickr_search

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://www.flickr.com/services/rest/"
	DefaultTimeout  = 30 * time.Second
	DefaultCacheTTL = 10 * time.Minute
)

var (
	ErrEmptyQuery    = errors.New("query must not be empty")
	ErrInvalidPaging = errors.New("page and per_page must be positive")
	ErrMissingAPIKey = errors.New("api key must be provided")
)

// StatusError is returned when the REST endpoint answers with a non-2xx code.
type StatusError struct {
	Method string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected http status %d", e.Method, e.Code)
}

// APIError is returned when a response decodes but its stat is not "ok".
type APIError struct {
	Method string
	Stat   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: api returned stat=%q", e.Method, e.Stat)
}

// Client talks to the Flickr REST endpoint using format=rest (XML) responses.
type Client struct {
	APIKey         string
	Endpoint       string
	StaticEndpoint string
	HTTPClient     *http.Client
	Logger         *zap.Logger
	Cache          Cache
	CacheTTL       time.Duration
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.Endpoint = endpoint }
}

func WithStaticEndpoint(endpoint string) Option {
	return func(c *Client) { c.StaticEndpoint = endpoint }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.Logger = l }
}

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.Cache = cache
		c.CacheTTL = ttl
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		APIKey:     apiKey,
		Endpoint:   DefaultEndpoint,
		HTTPClient: newHTTPClient(DefaultTimeout),
		Logger:     zap.NewNop(),
		CacheTTL:   DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs flickr.photos.search for one page of results. page is 1-based.
func (c *Client) Search(ctx context.Context, text string, page, perPage int) (*Rsp, error) {
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if page < 1 || perPage < 1 {
		return nil, ErrInvalidPaging
	}
	c.logger().Info("search",
		zap.String("text", text),
		zap.Int("page", page),
		zap.Int("per_page", perPage),
	)
	q := url.Values{}
	q.Set("text", text)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("media", "photos")

	var rsp *Rsp
	err := c.call(ctx, "flickr.photos.search", q, func(body []byte) (bool, error) {
		var err error
		rsp, err = DecodeRsp(bytes.NewReader(body))
		if err != nil {
			return false, err
		}
		return rsp.OK(), nil
	})
	if err != nil {
		return nil, err
	}
	c.logger().Debug("search result", zap.Stringer("rsp", rsp))
	return rsp, nil
}

// GetInfo runs flickr.photos.getInfo. A stat other than "ok" is an *APIError.
func (c *Client) GetInfo(ctx context.Context, photoID string) (*PhotoInfo, error) {
	q := url.Values{}
	q.Set("photo_id", photoID)

	var rsp *InfoRsp
	err := c.call(ctx, "flickr.photos.getInfo", q, func(body []byte) (bool, error) {
		var err error
		rsp, err = DecodeInfoRsp(bytes.NewReader(body))
		if err != nil {
			return false, err
		}
		return rsp.OK(), nil
	})
	if err != nil {
		return nil, err
	}
	if !rsp.OK() || rsp.Photo == nil {
		return nil, &APIError{Method: "flickr.photos.getInfo", Stat: stringOf(rsp.Stat)}
	}
	return rsp.Photo, nil
}

// call fetches the method's XML body, from the cache when possible, and hands
// it to decode. Bodies that decode as successful responses are cached.
func (c *Client) call(ctx context.Context, method string, q url.Values, decode func([]byte) (bool, error)) error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	q.Set("method", method)
	q.Set("format", "rest")
	key := cacheKey(q)

	if body, ok := c.cached(ctx, key); ok {
		if _, err := decode(body); err == nil {
			c.logger().Debug("cache hit", zap.String("method", method))
			return nil
		}
	}

	q.Set("api_key", c.APIKey)
	body, err := c.fetch(ctx, method, q)
	if err != nil {
		return err
	}
	ok, err := decode(body)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if ok {
		c.store(ctx, key, body)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, method string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", method, err)
	}
	return body, nil
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.Cache == nil {
		return nil, false
	}
	body, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		c.logger().Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return body, ok
}

func (c *Client) store(ctx context.Context, key string, body []byte) {
	if c.Cache == nil {
		return
	}
	if err := c.Cache.Set(ctx, key, body, c.CacheTTL); err != nil {
		c.logger().Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// cacheKey must be computed before api_key is added to q.
func cacheKey(q url.Values) string {
	sum := sha256.Sum256([]byte(q.Encode()))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
