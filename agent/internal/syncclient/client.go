// Package syncclient talks to the record API on behalf of the agent. Calls
// that fail while the client is offline are parked in a persistent queue
// and replayed once connectivity returns.
package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrQueued       = errors.New("currently offline, request queued for later")
	ErrUnauthorized = errors.New("authentication required")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API request failed (%d)", e.Status)
	}
	return e.Message
}

// Tokens holds the bearer token. Clear is the logout path taken on a 401.
type Tokens interface {
	Token() string
	Clear() error
}

type State string

const (
	StateQueued   State = "queued"
	StateInFlight State = "in_flight"
	StateSynced   State = "synced"
	StateReQueued State = "re_queued"
)

// Event reports a queue entry changing state during replay.
type Event struct {
	Entry Entry
	State State
	Err   error
}

type Client struct {
	base   string
	http   *http.Client
	tokens Tokens
	queue  *Queue
	log    zerolog.Logger
	notify func(Event)
	now    func() time.Time

	mu     sync.Mutex
	online bool
	// drainMu keeps two replays from interleaving.
	drainMu sync.Mutex
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }
func WithLogger(l zerolog.Logger) Option    { return func(c *Client) { c.log = l } }
func WithNotifier(f func(Event)) Option     { return func(c *Client) { c.notify = f } }
func WithOnline(online bool) Option         { return func(c *Client) { c.online = online } }

// New builds a client for baseURL (for example http://127.0.0.1:3000/api).
// It starts flagged online.
func New(baseURL string, tokens Tokens, queue *Queue, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: 15 * time.Second},
		tokens: tokens,
		queue:  queue,
		log:    zerolog.Nop(),
		notify: func(Event) {},
		now:    time.Now,
		online: true,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *Client) Queue() *Queue { return c.queue }

// SetOnline records connectivity. Going from offline to online replays the
// queue before returning, and only then does it report true.
func (c *Client) SetOnline(ctx context.Context, online bool) (replayed bool) {
	c.mu.Lock()
	was := c.online
	c.online = online
	c.mu.Unlock()
	if online && !was {
		c.log.Info().Int("queued", c.queue.Len()).Msg("back online")
		c.Drain(ctx)
		return true
	}
	if !online && was {
		c.log.Warn().Msg("offline")
	}
	return false
}

// Do sends body as JSON and decodes the answer into out (when non-nil).
// A failure while offline queues the request and returns ErrQueued.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	data, err := encode(body)
	if err != nil {
		return err
	}
	err = c.send(ctx, method, endpoint, data, out)
	if err == nil || c.Online() {
		return err
	}
	e := Entry{ID: uuid.NewString(), Endpoint: endpoint, Method: method, Data: data, Timestamp: c.now().UTC()}
	if qerr := c.queue.Push(ctx, e); qerr != nil {
		c.log.Error().Err(qerr).Str("endpoint", endpoint).Msg("queue request")
	}
	c.log.Info().Str("id", e.ID).Str("method", method).Str("endpoint", endpoint).Err(err).Msg("request queued")
	c.notify(Event{Entry: e, State: StateQueued, Err: err})
	return ErrQueued
}

// Send is Do without the offline fallback. Requests carrying credentials go
// through it so they are never written to the queue.
func (c *Client) Send(ctx context.Context, method, endpoint string, body, out any) error {
	data, err := encode(body)
	if err != nil {
		return err
	}
	return c.send(ctx, method, endpoint, data, out)
}

func encode(body any) (json.RawMessage, error) {
	if body == nil {
		return nil, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return b, nil
}

// Drain replays every queued entry once, front to back. Failures go back on
// the queue in the order they were met. It returns how many were synced.
func (c *Client) Drain(ctx context.Context) (synced, requeued int) {
	c.drainMu.Lock()
	defer c.drainMu.Unlock()

	pending, err := c.queue.Take(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("clear queue")
	}
	for _, e := range pending {
		c.notify(Event{Entry: e, State: StateInFlight})
		if err := c.send(ctx, e.Method, e.Endpoint, e.Data, nil); err != nil {
			requeued++
			if qerr := c.queue.Push(ctx, e); qerr != nil {
				c.log.Error().Err(qerr).Str("id", e.ID).Msg("re-queue request")
			}
			c.log.Warn().Err(err).Str("id", e.ID).Str("endpoint", e.Endpoint).Msg("failed to sync offline request")
			c.notify(Event{Entry: e, State: StateReQueued, Err: err})
			continue
		}
		synced++
		c.log.Info().Str("id", e.ID).Str("endpoint", e.Endpoint).Msg("offline changes synchronized")
		c.notify(Event{Entry: e, State: StateSynced})
	}
	return synced, requeued
}

// Health asks the server whether it is up. It never queues.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.send(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}
	if out.Status != "healthy" {
		return fmt.Errorf("server reports %q", out.Status)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, data json.RawMessage, out any) error {
	var rd io.Reader
	if len(data) > 0 && method != http.MethodGet {
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+endpoint, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.tokens != nil {
			if err := c.tokens.Clear(); err != nil {
				c.log.Warn().Err(err).Msg("clear token")
			}
		}
		return ErrUnauthorized
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}
