package syncclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"jkwi-ims/store/blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	mu  sync.Mutex
	tok string
}

func (m *memTokens) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok
}

func (m *memTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = ""
	return nil
}

type fakeAPI struct {
	down atomic.Bool
	mu   sync.Mutex
	seen []string
	auth []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.down.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.seen = append(f.seen, r.Method+" "+r.URL.Path+" "+asString(body["n"]))
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/health":
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	case "/api/fail":
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"error":"bad things"}`))
	case "/api/secret":
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"invalid token"}`))
	default:
		_, _ = w.Write([]byte(`{"success":true}`))
	}
}

func (f *fakeAPI) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func newClient(t *testing.T, opts ...Option) (*Client, *fakeAPI, blob.Store) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	blobs := blob.NewMemory()
	q, err := LoadQueue(context.Background(), blobs)
	require.NoError(t, err)
	return New(srv.URL+"/api", &memTokens{tok: "t0k"}, q, opts...), api, blobs
}

func TestDoOnline(t *testing.T) {
	c, api, _ := newClient(t)
	var out struct {
		Success bool `json:"success"`
	}
	require.NoError(t, c.Do(context.Background(), http.MethodPost, "/members", map[string]any{"n": 1}, &out))
	assert.True(t, out.Success)
	assert.Equal(t, []string{"POST /api/members 1"}, api.requests())
	assert.Equal(t, "Bearer t0k", api.auth[0])
}

func TestDoOnlineFailureIsNotQueued(t *testing.T) {
	c, _, _ := newClient(t)
	err := c.Do(context.Background(), http.MethodPost, "/fail", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "bad things", apiErr.Error())
	assert.Zero(t, c.Queue().Len())
}

func TestUnauthorizedClearsToken(t *testing.T) {
	c, _, _ := newClient(t)
	err := c.Do(context.Background(), http.MethodGet, "/secret", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, c.token())
	assert.Zero(t, c.Queue().Len())
}

func TestOfflineQueueAndReplay(t *testing.T) {
	var events []Event
	c, api, blobs := newClient(t, WithOnline(false), WithNotifier(func(e Event) { events = append(events, e) }))
	ctx := context.Background()
	api.down.Store(true)

	require.ErrorIs(t, c.Do(ctx, http.MethodPost, "/members", map[string]any{"n": 1}, nil), ErrQueued)
	require.ErrorIs(t, c.Do(ctx, http.MethodPost, "/fail", map[string]any{"n": 2}, nil), ErrQueued)
	require.ErrorIs(t, c.Do(ctx, http.MethodPost, "/members", map[string]any{"n": 3}, nil), ErrQueued)
	require.Equal(t, 3, c.Queue().Len())

	raw, err := blobs.Get(ctx, QueueKey)
	require.NoError(t, err)
	var persisted []Entry
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Len(t, persisted, 3)
	assert.Equal(t, "/members", persisted[0].Endpoint)
	assert.NotEmpty(t, persisted[0].ID)

	api.down.Store(false)
	events = nil
	c.SetOnline(ctx, true)

	assert.Equal(t, []string{
		"POST /api/members 1",
		"POST /api/fail 2",
		"POST /api/members 3",
	}, api.requests())

	left := c.Queue().Entries()
	require.Len(t, left, 1)
	assert.Equal(t, "/fail", left[0].Endpoint)

	var states []State
	for _, e := range events {
		states = append(states, e.State)
	}
	assert.Equal(t, []State{StateInFlight, StateSynced, StateInFlight, StateReQueued, StateInFlight, StateSynced}, states)

	reloaded, err := LoadQueue(ctx, blobs)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
}

func TestSetOnlineOnlyDrainsOnTransition(t *testing.T) {
	c, api, _ := newClient(t)
	ctx := context.Background()
	require.NoError(t, c.Queue().Push(ctx, Entry{ID: "x", Endpoint: "/members", Method: http.MethodPost}))

	assert.False(t, c.SetOnline(ctx, true))
	assert.Empty(t, api.requests())
	assert.Equal(t, 1, c.Queue().Len())

	assert.False(t, c.SetOnline(ctx, false))
	assert.True(t, c.SetOnline(ctx, true))
	assert.Len(t, api.requests(), 1)
	assert.Zero(t, c.Queue().Len())
}

func TestSendNeverQueues(t *testing.T) {
	c, api, blobs := newClient(t, WithOnline(false))
	ctx := context.Background()
	api.down.Store(true)

	err := c.Send(ctx, http.MethodPost, "/login", map[string]string{"username": "u", "password": "hunter2"}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.NotErrorIs(t, err, ErrQueued)
	assert.Zero(t, c.Queue().Len())

	if raw, err := blobs.Get(ctx, QueueKey); err == nil {
		assert.NotContains(t, string(raw), "hunter2")
	}

	api.down.Store(false)
	var out struct {
		Success bool `json:"success"`
	}
	require.NoError(t, c.Send(ctx, http.MethodPost, "/login", nil, &out))
	assert.True(t, out.Success)
}

func TestHealth(t *testing.T) {
	c, api, _ := newClient(t)
	require.NoError(t, c.Health(context.Background()))
	api.down.Store(true)
	assert.Error(t, c.Health(context.Background()))
}

func TestMonitorTracksHealth(t *testing.T) {
	c, api, _ := newClient(t, WithOnline(false))
	api.down.Store(true)
	var syncs atomic.Int32
	m := &Monitor{
		Client:         c,
		HealthInterval: 10 * time.Millisecond,
		SyncInterval:   15 * time.Millisecond,
		Sync: func(ctx context.Context) error {
			syncs.Add(1)
			return errors.New("ignored")
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	time.Sleep(40 * time.Millisecond)
	assert.False(t, c.Online())
	assert.Zero(t, syncs.Load())

	api.down.Store(false)
	require.Eventually(t, c.Online, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return syncs.Load() > 0 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
