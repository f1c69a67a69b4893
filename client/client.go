// Package client is the authenticated HTTP pipeline for the storefront
// API. Every request carries the bearer token from the persisted
// session. The first 401 on a call triggers a single token refresh;
// calls that hit 401 while a refresh is in flight are parked in FIFO
// order and replayed exactly once with the new token. A failed or
// timed-out refresh rejects all parked calls, clears the persisted
// session, and fires the logout hook.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"shopfront/models"
	"shopfront/storage"
)

// DefaultRefreshTimeout bounds the refresh call. A refresh that exceeds
// it is treated as a refresh failure and forces logout, so a hung
// refresh endpoint can never park requests forever.
const DefaultRefreshTimeout = 15 * time.Second

var ErrNoRefreshToken = errors.New("client: no refresh token stored")

// APIError is a non-2xx response surfaced to the caller.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Client) { c.refreshTimeout = d }
}

// WithLogoutHook installs the unrecoverable-failure exit: it runs after
// a failed refresh, once the session has been cleared.
func WithLogoutHook(fn func()) Option {
	return func(c *Client) { c.onLogout = fn }
}

// WithTokenHook runs after a successful refresh has persisted the
// rotated token pair, so in-memory session state can pick it up.
func WithTokenHook(fn func(access, refresh string)) Option {
	return func(c *Client) { c.onTokens = fn }
}

// Client is constructed once at startup and passed to every caller.
// There is no package-level instance.
type Client struct {
	baseURL        string
	http           *http.Client
	store          storage.Store
	refreshTimeout time.Duration
	onLogout       func()
	onTokens       func(access, refresh string)

	mu         sync.Mutex
	refreshing bool
	parked     []*parkedCall
}

type parkedCall struct {
	ctx    context.Context
	method string
	path   string
	query  url.Values
	body   interface{}
	done   chan callResult
}

type callResult struct {
	status  int
	payload []byte
	err     error
}

func New(baseURL string, store storage.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &http.Client{Timeout: 30 * time.Second},
		store:          store,
		refreshTimeout: DefaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the persisted session, if any.
func (c *Client) Session(ctx context.Context) (models.Session, bool) {
	var sess models.Session
	ok, err := storage.LoadJSON(ctx, c.store, storage.KeySession, &sess)
	if err != nil || !ok || sess.User == nil {
		return models.Session{}, false
	}
	return sess, true
}

func (c *Client) saveSession(ctx context.Context, sess models.Session) error {
	return storage.SaveJSON(ctx, c.store, storage.KeySession, sess)
}

func (c *Client) clearSession(ctx context.Context) {
	if err := c.store.Delete(ctx, storage.KeySession); err != nil {
		log.Printf("WARNING: could not clear stored session: %v", err)
	}
}

// get/post/put/del run an authenticated call through the pipeline.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, true)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, true)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, true)
}

func (c *Client) del(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out, true)
}

// public runs a call outside the refresh pipeline; a 401 here (wrong
// password on login, for instance) is a plain error, not an expired
// token.
func (c *Client) public(ctx context.Context, method, path string, body, out interface{}) error {
	return c.do(ctx, method, path, nil, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, authed bool) error {
	token := ""
	if sess, ok := c.Session(ctx); ok {
		token = sess.AccessToken
	}

	status, payload, err := c.send(ctx, method, path, query, body, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && authed {
		// Park this call and collapse concurrent 401s into one refresh.
		res := c.refreshAndReplay(ctx, method, path, query, body)
		if res.err != nil {
			return res.err
		}
		status, payload = res.status, res.payload
	}

	return decode(status, payload, out)
}

// send performs one HTTP round trip. The body is re-marshalled on every
// attempt so replays never reuse a consumed reader.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body interface{}, token string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, payload, nil
}

// refreshAndReplay parks the call, runs the refresh protocol if no
// refresh is already in flight, and returns the replay's result.
func (c *Client) refreshAndReplay(ctx context.Context, method, path string, query url.Values, body interface{}) callResult {
	call := &parkedCall{
		ctx:    ctx,
		method: method,
		path:   path,
		query:  query,
		body:   body,
		done:   make(chan callResult, 1),
	}

	c.mu.Lock()
	c.parked = append(c.parked, call)
	leader := !c.refreshing
	if leader {
		c.refreshing = true
	}
	c.mu.Unlock()

	if leader {
		newAccess, err := c.refresh(ctx)
		c.finishRefresh(ctx, newAccess, err)
	}

	select {
	case res := <-call.done:
		return res
	case <-ctx.Done():
		// The call cannot be withdrawn from the queue; it will still be
		// replayed, but this caller stops waiting.
		return callResult{err: ctx.Err()}
	}
}

// refresh exchanges the stored refresh token for a new token pair and
// persists it. The call is bounded by the refresh timeout.
func (c *Client) refresh(ctx context.Context) (string, error) {
	sess, ok := c.Session(ctx)
	if !ok || sess.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
	defer cancel()

	status, payload, err := c.send(rctx, http.MethodPost, "/api/auth/refresh",
		nil, map[string]string{"refresh_token": sess.RefreshToken}, "")
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}

	var tokens struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := decode(status, payload, &tokens); err != nil {
		return "", err
	}

	sess.AccessToken = tokens.Token
	sess.RefreshToken = tokens.RefreshToken
	if err := c.saveSession(ctx, sess); err != nil {
		return "", err
	}
	if c.onTokens != nil {
		c.onTokens(tokens.Token, tokens.RefreshToken)
	}
	return tokens.Token, nil
}

// finishRefresh clears the in-flight flag in every outcome, then either
// replays the parked calls in FIFO arrival order with the new token, or
// rejects them all, clears the session, and fires the logout hook.
func (c *Client) finishRefresh(ctx context.Context, newAccess string, refreshErr error) {
	c.mu.Lock()
	parked := c.parked
	c.parked = nil
	c.refreshing = false
	c.mu.Unlock()

	if refreshErr != nil {
		for _, call := range parked {
			call.done <- callResult{err: refreshErr}
		}
		if !errors.Is(refreshErr, ErrNoRefreshToken) {
			c.clearSession(ctx)
			if c.onLogout != nil {
				c.onLogout()
			}
		}
		return
	}

	// Each parked call is replayed exactly once; a second 401 is handed
	// back untouched, never re-entering the refresh protocol.
	for _, call := range parked {
		status, payload, err := c.send(call.ctx, call.method, call.path, call.query, call.body, newAccess)
		call.done <- callResult{status: status, payload: payload, err: err}
	}
}

// decode maps a response to out, or to an APIError carrying the
// server's error message.
func decode(status int, payload []byte, out interface{}) error {
	if status >= 200 && status < 300 {
		if out == nil || len(payload) == 0 {
			return nil
		}
		return json.Unmarshal(payload, out)
	}

	var body struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(status)
	if err := json.Unmarshal(payload, &body); err == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{Status: status, Message: msg}
}
