package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fieldhub/handler"
	"github.com/dmitrymomot/fieldhub/pkg/logger"
)

type nameRequest struct {
	Name string
}

func bindQueryName(r *http.Request, v any) error {
	req, ok := v.(*nameRequest)
	if !ok {
		return errors.New("unexpected request type")
	}
	req.Name = r.URL.Query().Get("name")
	if req.Name == "" {
		return handler.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestWrap(t *testing.T) {
	t.Parallel()

	greet := func(ctx handler.Context, req nameRequest) handler.Response {
		return handler.JSON(http.StatusOK, map[string]string{"hello": req.Name})
	}

	t.Run("binds and renders", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(greet, handler.WithBinders[handler.Context, nameRequest](bindQueryName))

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/?name=acme", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, map[string]any{"hello": "acme"}, decodeBody(t, rec))
	})

	t.Run("binder HTTPError keeps status", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(greet, handler.WithBinders[handler.Context, nameRequest](bindQueryName))

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]any{"error": "name is required"}, decodeBody(t, rec))
	})

	t.Run("nil response is a server error", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(handler.Context, handler.NoRequest) handler.Response { return nil })

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, map[string]any{"error": "Internal Server Error"}, decodeBody(t, rec))
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()
		var seen error
		h := handler.Wrap(
			func(handler.Context, handler.NoRequest) handler.Response { return nil },
			handler.WithErrorHandler[handler.Context, handler.NoRequest](func(ctx handler.Context, err error) {
				seen = err
				ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
			}),
		)

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, seen, handler.ErrNilResponse)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		mark := func(name string) handler.Decorator[handler.Context, handler.NoRequest] {
			return func(next handler.HandlerFunc[handler.Context, handler.NoRequest]) handler.HandlerFunc[handler.Context, handler.NoRequest] {
				return func(ctx handler.Context, req handler.NoRequest) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.Wrap(
			func(handler.Context, handler.NoRequest) handler.Response { return handler.JSON(http.StatusOK, struct{}{}) },
			handler.WithDecorators(mark("outer"), mark("inner")),
		)

		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"outer", "inner"}, order)
	})
}

type appContext struct {
	handler.Context
	tenant string
}

func TestWrap_CustomContext(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(
		func(ctx *appContext, _ handler.NoRequest) handler.Response {
			return handler.JSON(http.StatusOK, map[string]string{"tenant": ctx.tenant})
		},
		handler.WithContextFactory[*appContext, handler.NoRequest](func(w http.ResponseWriter, r *http.Request) *appContext {
			return &appContext{Context: handler.NewContext(w, r), tenant: "acme"}
		}),
	)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, map[string]any{"tenant": "acme"}, decodeBody(t, rec))
}

func TestContext_DelegatesToRequest(t *testing.T) {
	t.Parallel()

	type key struct{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), key{}, "v"))

	ctx := handler.NewContext(httptest.NewRecorder(), req)
	assert.Equal(t, "v", ctx.Value(key{}))
	assert.Same(t, req, ctx.Request())
	assert.NoError(t, ctx.Err())
}

func TestNoStore(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(
		func(handler.Context, handler.NoRequest) handler.Response { return handler.JSON(http.StatusOK, struct{}{}) },
		handler.WithDecorators(handler.NoStore[handler.Context, handler.NoRequest]()),
	)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestJSONErrorHandler_HidesInternalErrors(t *testing.T) {
	t.Parallel()

	eh := handler.JSONErrorHandler[handler.Context](logger.Noop())
	rec := httptest.NewRecorder()
	eh(handler.NewContext(rec, httptest.NewRequest(http.MethodGet, "/", nil)), errors.New("dial tcp 10.0.0.1:5432: refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": "Internal Server Error"}, decodeBody(t, rec))
}

func TestError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, handler.Error(http.StatusUnauthorized, "認証が必要です").Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, map[string]any{"error": "認証が必要です"}, decodeBody(t, rec))
}
