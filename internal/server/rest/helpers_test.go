package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/orbiter/internal/cryptox"
	"github.com/dmitrijs2005/orbiter/internal/logging"
	"github.com/dmitrijs2005/orbiter/internal/server/auth"
	"github.com/dmitrijs2005/orbiter/internal/server/users"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testEnv struct {
	router  *gin.Engine
	metrics *Metrics
	codec   *auth.Codec
	users   *users.Service
	repo    *users.MemoryRepository
}

type envOption func(*RouterConfig)

func withPrefix(p string) envOption         { return func(c *RouterConfig) { c.Prefix = p } }
func withStore(p Pinger) envOption          { return func(c *RouterConfig) { c.Store = p } }
func withLogger(l logging.Logger) envOption { return func(c *RouterConfig) { c.Logger = l } }

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := users.NewMemoryRepository()
	codec := auth.NewCodec(testSecret)
	svc, err := users.NewService(repo, cryptox.NewBcryptHasher(bcrypt.MinCost), codec)
	require.NoError(t, err)

	metrics := NewMetrics(prometheus.NewRegistry())

	cfg := RouterConfig{
		Users:   svc,
		Codec:   codec,
		Store:   stubPinger{},
		Logger:  logging.Nop(),
		Metrics: metrics,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &testEnv{
		router:  NewRouter(cfg),
		metrics: metrics,
		codec:   codec,
		users:   svc,
		repo:    repo,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

var errPingFailed = errors.New("dial tcp: connection refused")
