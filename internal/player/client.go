package player

import (
	"bytes"
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
)

// ErrNoClient is returned by methods invoked on a nil *Client.
var ErrNoClient = errors.New("client is nil")

// Fetcher pulls snapshots from the backend. It is implemented by *Client and
// can be replaced in tests.
type Fetcher interface {
	FetchSnapshot(ctx context.Context, full bool) (Partial, error)
}

// Commander sends fire-and-forget requests to the backend.
type Commander interface {
	SendCommand(ctx context.Context, cmd Command) error
	ReportSettings(ctx context.Context, states map[string]bool) error
}

// Ensure Client implements Fetcher and Commander at compile time.
var (
	_ Fetcher   = (*Client)(nil)
	_ Commander = (*Client)(nil)
)

// Command is a playback control request.
type Command string

// Supported playback commands.
const (
	CommandPlayPause Command = "play-pause"
	CommandNext      Command = "next"
	CommandPrevious  Command = "prev"
)

// Client talks to the now-playing backend over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	clientID  string
}

const (
	defaultBackend   = "127.0.0.1:8183"
	defaultUserAgent = "marquee/0.1"
	requestTimeout   = 5 * time.Second

	clientIDHeader = "X-Marquee-Client"
	streamPath     = "/playback-stream"
)

// NewClient builds a Client for the given backend address. Bare host:port
// values are treated as http URLs.
func NewClient(backend string) (*Client, error) {
	base, err := parseBaseURL(backend)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		clientID:  uuid.NewString(),
	}, nil
}

// ClientID identifies this kiosk to the backend.
func (c *Client) ClientID() string {
	if c == nil {
		return ""
	}
	return c.clientID
}

// FetchSnapshot retrieves the current player state. When full is false the
// backend may answer with only the fields that changed since the last request
// of this client.
func (c *Client) FetchSnapshot(ctx context.Context, full bool) (Partial, error) {
	if c == nil {
		return Partial{}, ErrNoClient
	}
	values := url.Values{}
	if full {
		values.Set("full", "true")
	}
	rel := &url.URL{Path: "/playback-info", RawQuery: values.Encode()}
	body, err := c.doURL(ctx, http.MethodGet, rel, nil)
	if err != nil {
		return Partial{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		// No content: nothing changed since the last request.
		return Partial{Type: TypeHeartbeat}, nil
	}
	return DecodePartial(body)
}

// SendCommand asks the backend to change playback.
func (c *Client) SendCommand(ctx context.Context, cmd Command) error {
	if c == nil {
		return ErrNoClient
	}
	name := strings.TrimSpace(string(cmd))
	if name == "" {
		return fmt.Errorf("command is empty")
	}
	rel := &url.URL{Path: "/modify-playback/" + url.PathEscape(name)}
	_, err := c.doURL(ctx, http.MethodPost, rel, nil)
	return err
}

// ReportSettings publishes the kiosk's preference state.
func (c *Client) ReportSettings(ctx context.Context, states map[string]bool) error {
	if c == nil {
		return ErrNoClient
	}
	payload, err := json.Marshal(states)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = c.doURL(ctx, http.MethodPost, &url.URL{Path: "/settings/current"}, payload)
	return err
}

// StreamURL returns the websocket endpoint for push delivery.
func (c *Client) StreamURL() string {
	if c == nil {
		return ""
	}
	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = streamPath
	return u.String()
}

// Header returns the headers sent with every request, for reuse by the
// websocket dialer.
func (c *Client) Header() http.Header {
	h := http.Header{}
	h.Set("User-Agent", c.userAgent)
	h.Set(clientIDHeader, c.clientID)
	return h
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, payload []byte) ([]byte, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = c.Header()
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func parseBaseURL(backend string) (*url.URL, error) {
	trimmed := strings.TrimSpace(backend)
	if trimmed == "" {
		trimmed = defaultBackend
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse backend url %q: %w", backend, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
