package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, Health(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGetUserID(t *testing.T) {
	e := echo.New()
	newCtx := func(v any) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if v != nil {
			c.Set("user_id", v)
		}
		return c
	}

	tests := []struct {
		name    string
		value   any
		want    uint64
		wantErr bool
	}{
		{"uint64", uint64(7), 7, false},
		{"int", 7, 7, false},
		{"float64 from json claims", float64(7), 7, false},
		{"numeric string", "7", 7, false},
		{"garbage string", "abc", 0, true},
		{"missing", nil, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := getUserID(newCtx(tc.value))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPathID(t *testing.T) {
	e := echo.New()
	newCtx := func(raw string) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)
		return c
	}

	id, err := pathID(newCtx("42"), "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	_, err = pathID(newCtx("0"), "id")
	assert.Error(t, err)
	_, err = pathID(newCtx("abc"), "id")
	assert.Error(t, err)
}
