// Package derivative fetches model views, object trees and property
// collections from the model-derivative HTTP API.
package derivative

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ukaji3/modelsheet-go/internal/metrics"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/parser"
	"go.uber.org/zap"
)

// ErrNotReady indicates the derivative is still being processed.
var ErrNotReady = errors.New("derivative not ready")

// ErrNoCredentials indicates the client id or secret is missing.
var ErrNoCredentials = errors.New("missing client credentials")

const (
	tokenPath      = "/authentication/v2/token"
	viewsPath      = "/modelderivative/v2/designdata/{urn}/metadata"
	hierarchyPath  = "/modelderivative/v2/designdata/{urn}/metadata/{guid}"
	propertiesPath = "/modelderivative/v2/designdata/{urn}/metadata/{guid}/properties"

	// tokenSkew is subtracted from token lifetimes so a cached token is
	// never used right at its expiry.
	tokenSkew = time.Minute
)

// APIError is a non-success response from the API.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}

// Config configures the client.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Scope        string
	Timeout      time.Duration
	RetryCount   int
	RetryWait    time.Duration
}

// Client talks to the model-derivative API. It is safe for concurrent use.
type Client struct {
	http   *resty.Client
	cfg    Config
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// NewClient creates a client. Responses with status 202 are retried
// cfg.RetryCount times, cfg.RetryWait apart.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Scope == "" {
		cfg.Scope = "data:read"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r != nil && r.StatusCode() == http.StatusAccepted
		})

	return &Client{
		http:   cli,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// URN returns the encoded object URN used by derivative endpoints.
func URN(bucket, object string) string {
	id := fmt.Sprintf("urn:adsk.objects:os.object:%s/%s", bucket, object)
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

// Token returns a two-legged access token, fetching a new one when the
// cached token is missing or about to expire.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expires) {
		return c.token, nil
	}
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", ErrNoCredentials
	}

	timer := metrics.NewTimer()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
			"scope":      c.cfg.Scope,
		}).
		SetResult(&tokenResponse{}).
		Post(tokenPath)
	if err != nil {
		metrics.RecordAPICall("token", "error", timer.Duration())
		return "", fmt.Errorf("token request: %w", err)
	}
	metrics.RecordAPICall("token", strconv.Itoa(resp.StatusCode()), timer.Duration())
	if !resp.IsSuccess() {
		return "", &APIError{Op: "token", Status: resp.StatusCode(), Body: resp.String()}
	}

	tok, ok := resp.Result().(*tokenResponse)
	if !ok || tok.AccessToken == "" {
		return "", &APIError{Op: "token", Status: resp.StatusCode(), Body: "empty access token"}
	}

	c.token = tok.AccessToken
	c.expires = c.now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenSkew)
	c.logger.Debug("access token refreshed", zap.Int("expires_in", tok.ExpiresIn))
	return c.token, nil
}

// Views lists the metadata views of a translated model.
func (c *Client) Views(ctx context.Context, urn string) ([]models.ModelView, error) {
	body, err := c.get(ctx, "views", viewsPath, map[string]string{"urn": urn})
	if err != nil {
		return nil, err
	}
	return parser.ParseViews(body)
}

// Hierarchy fetches the object tree of one view.
func (c *Client) Hierarchy(ctx context.Context, urn, guid string) (models.Hierarchy, error) {
	body, err := c.get(ctx, "hierarchy", hierarchyPath, map[string]string{"urn": urn, "guid": guid})
	if err != nil {
		return models.Hierarchy{}, err
	}
	return parser.ParseHierarchy(body)
}

// Properties fetches the flat property collection of one view.
func (c *Client) Properties(ctx context.Context, urn, guid string) (models.PropertyCollection, error) {
	body, err := c.get(ctx, "properties", propertiesPath, map[string]string{"urn": urn, "guid": guid})
	if err != nil {
		return nil, err
	}
	return parser.ParseProperties(body)
}

func (c *Client) get(ctx context.Context, op, path string, params map[string]string) ([]byte, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	timer := metrics.NewTimer()
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParams(params).
		Get(path)
	if err != nil {
		metrics.RecordAPICall(op, "error", timer.Duration())
		return nil, fmt.Errorf("%s request: %w", op, err)
	}
	metrics.RecordAPICall(op, strconv.Itoa(resp.StatusCode()), timer.Duration())

	switch {
	case resp.StatusCode() == http.StatusAccepted:
		return nil, fmt.Errorf("%s: %w", op, ErrNotReady)
	case !resp.IsSuccess():
		return nil, &APIError{Op: op, Status: resp.StatusCode(), Body: resp.String()}
	}
	return resp.Body(), nil
}
