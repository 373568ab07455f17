package response

import (
	"encoding/json/v2"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/floraapp/flora-gateway/internal/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	JSON(w, http.StatusOK, map[string]string{"nome": "Ipê"}, logger)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	result := decode(t, w)
	assert.Equal(t, Version, result.Version)
	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
	assert.Nil(t, result.Error)
}

func TestJSON_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestStatusCodeBoundary(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		expectedSuccess bool
	}{
		{"200 OK", 200, true},
		{"201 Created", 201, true},
		{"399 Custom Success", 399, true},
		{"400 Bad Request", 400, false},
		{"404 Not Found", 404, false},
		{"502 Bad Gateway", 502, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.status, nil, nil)

			assert.Equal(t, tt.expectedSuccess, decode(t, w).Success, "Status %d should have Success=%v", tt.status, tt.expectedSuccess)
		})
	}
}

func TestErrorWriters(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		write      func(http.ResponseWriter)
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "not found",
			write:      func(w http.ResponseWriter) { NotFound(w, "route not found", logger) },
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "route not found",
		},
		{
			name:       "method not allowed",
			write:      func(w http.ResponseWriter) { MethodNotAllowed(w, logger) },
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "BAD_REQUEST",
			wantMsg:    "method not allowed",
		},
		{
			name:       "internal",
			write:      func(w http.ResponseWriter) { InternalError(w, "internal server error", nil) },
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL",
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.wantStatus, w.Code)
			result := decode(t, w)
			assert.False(t, result.Success)
			assert.Nil(t, result.Data)
			require.NotNil(t, result.Error)
			assert.Equal(t, tt.wantCode, result.Error.Code)
			assert.Equal(t, tt.wantMsg, result.Error.Message)
		})
	}
}

func TestHandleError(t *testing.T) {
	t.Run("domain error keeps code and status", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleError(w, domainerrors.NotFoundf("plant %d not found", 9), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		result := decode(t, w)
		require.NotNil(t, result.Error)
		assert.Equal(t, "NOT_FOUND", result.Error.Code)
		assert.Equal(t, "plant 9 not found", result.Error.Message)
	})

	t.Run("upstream maps to bad gateway", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleError(w, domainerrors.Wrap(errors.New("dial tcp: refused"), domainerrors.CodeUpstream, "failed to fetch origins"), nil)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleError(w, errors.New("secret detail"), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "secret detail")
	})
}

func TestEnvelope_OmitZero(t *testing.T) {
	data, err := json.Marshal(Envelope{Version: Version, Success: true, Data: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1,"success":true,"data":[]}`, string(data))

	data, err = json.Marshal(Envelope{Version: Version, Error: &ErrorBody{Code: "NOT_FOUND", Message: "x"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1,"success":false,"error":{"code":"NOT_FOUND","message":"x"}}`, string(data))
}
