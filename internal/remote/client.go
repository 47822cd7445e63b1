package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"feedboard/internal/models"
	"feedboard/internal/providers"
	"feedboard/internal/structures"
)

const defaultTimeout = 5 * time.Second

const maxResponseBodySize = 1 << 20 // 1 MB

// API is the surface the session, synchronizer and poller depend on.
type API interface {
	FetchConfig(ctx context.Context, token string) (models.Document, error)
	UpdateConfig(ctx context.Context, token string, doc models.Document) (models.Document, error)
	Channels(ctx context.Context, token string) ([]models.Channel, error)
	Stats(ctx context.Context) (*models.StatsSnapshot, error)
}

// Client talks to the bot's HTTP API. It classifies every failure into a
// *Error and performs no retries; retry policy belongs to callers.
type Client struct {
	http    *http.Client
	baseURL string
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) API {
	timeout := conf.Remote.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(conf.Remote.BaseURL, "/"),
		logger:  logger,
		metrics: metrics,
	}
}

// FetchConfig retrieves the configuration document. Doubles as the
// credential-verification probe: the bot has no dedicated auth endpoint.
func (c *Client) FetchConfig(ctx context.Context, token string) (models.Document, error) {
	var doc models.Document
	if err := c.do(ctx, http.MethodGet, "/api/config", token, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateConfig submits a full or partial document and returns the bot's
// updated authoritative document.
func (c *Client) UpdateConfig(ctx context.Context, token string, doc models.Document) (models.Document, error) {
	var updated models.Document
	if err := c.do(ctx, http.MethodPost, "/api/config", token, doc, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Client) Channels(ctx context.Context, token string) ([]models.Channel, error) {
	var list models.ChannelList
	if err := c.do(ctx, http.MethodGet, "/api/discord/channels", token, nil, &list); err != nil {
		return nil, err
	}
	return list.Channels, nil
}

// Stats needs no credential.
func (c *Client) Stats(ctx context.Context) (*models.StatsSnapshot, error) {
	var snap models.StatsSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/stats", "", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Detail: "encode request body", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindNetwork, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// No response reached us: connectivity, DNS or timeout.
		c.logger.Warnf(providers.TypeApp, "remote %s %s unreachable: %s", method, path, err)
		return &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.ObserveRemoteDuration(path, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Err: err}
	}

	if cerr := classifyStatus(resp.StatusCode, raw); cerr != nil {
		c.metrics.IncRemoteErrors(path, cerr.Kind.String())
		return cerr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			c.metrics.IncRemoteErrors(path, KindServer.String())
			return &Error{Kind: KindServer, Status: resp.StatusCode, Detail: "malformed body", Err: err}
		}
	}
	return nil
}

func classifyStatus(status int, raw []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}
	detail := serverDetail(raw)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Kind: KindAuth, Status: status, Detail: detail}
	case status >= 500:
		return &Error{Kind: KindServer, Status: status, Detail: detail}
	default:
		return &Error{Kind: KindValidation, Status: status, Detail: detail}
	}
}

func serverDetail(raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		return eb.Message
	}
	return ""
}
