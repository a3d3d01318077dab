package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore/internal/middleware"
	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorTestEcho(buf *bytes.Buffer, err error) *echo.Echo {
	e := echo.New()
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(zerolog.New(buf), nil))
	e.GET("/fail", func(c echo.Context) error {
		return writeError(c, err)
	})
	return e
}

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, l := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(l, &entry))
		out = append(out, entry)
	}
	return out
}

func TestWriteError_InternalLogsWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	e := newErrorTestEcho(&buf, errors.New("connection reset"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())

	rid := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, rid)

	var found bool
	for _, entry := range logEntries(t, &buf) {
		if entry["message"] != "unhandled error" {
			continue
		}
		found = true
		assert.Equal(t, "error", entry["level"])
		assert.Equal(t, "connection reset", entry["error"])
		assert.Equal(t, rid, entry["request_id"])
	}
	assert.True(t, found, "log=%s", buf.String())
}

func TestWriteError_HTTPErrorNotLogged(t *testing.T) {
	var buf bytes.Buffer
	e := newErrorTestEcho(&buf, usecase.NewHTTPError(http.StatusNotFound, "book not found"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	for _, entry := range logEntries(t, &buf) {
		assert.NotEqual(t, "unhandled error", entry["message"])
	}
}
