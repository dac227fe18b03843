package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/vibe_commerce/internal/models"
	"github.com/Skotchmaster/vibe_commerce/internal/mykafka"
	"github.com/Skotchmaster/vibe_commerce/internal/repo"
	"github.com/Skotchmaster/vibe_commerce/internal/repo/repotest"
	"github.com/Skotchmaster/vibe_commerce/internal/service"
	"github.com/Skotchmaster/vibe_commerce/pkg/logging"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	Repo     *repo.GormRepo
	P        *CatalogHTTP
	C        *CartHTTP
	O        *OrderHTTP
	Products []models.Product
	ready    error
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := repotest.NewGormRepo(t)
	base := time.Now().UTC().Truncate(time.Millisecond)
	products := []models.Product{
		{Name: "A", Price: decimal.RequireFromString("10.00"), Image: "🅰️", Description: "first", CreatedAt: base},
		{Name: "USB-C Cable", Price: decimal.RequireFromString("12.99"), Image: "🔌", Description: "Fast charging cable", CreatedAt: base.Add(time.Millisecond)},
	}
	require.NoError(t, r.CreateProducts(context.Background(), products))

	carts := &service.CartService{Repo: r, Catalog: r, Events: mykafka.NopProducer{}}
	env := &testEnv{
		T:        t,
		E:        echo.New(),
		Repo:     r,
		P:        &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		C:        &CartHTTP{Svc: carts},
		O:        &OrderHTTP{Svc: &service.OrderService{Repo: r, Carts: carts, Events: mykafka.NopProducer{}}},
		Products: products,
	}
	env.E.HTTPErrorHandler = ErrorHandler
	Register(env.E, &Deps{
		CatalogHandler: env.P,
		CartHandler:    env.C,
		OrderHandler:   env.O,
		Ready:          func(context.Context) error { return env.ready },
	})
	return env
}

func (env *testEnv) newRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	quiet := logging.NewWithWriter(io.Discard, "error")
	return req.WithContext(logging.IntoContext(req.Context(), quiet))
}

// doJSONRequest builds a context for calling a handler directly.
func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	rec := httptest.NewRecorder()
	c := env.E.NewContext(env.newRequest(method, path, body), rec)
	return rec, c
}

// serve runs the request through the router, middleware and error handler.
func (env *testEnv) serve(method, path string, body interface{}) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, env.newRequest(method, path, body))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
	return he
}

