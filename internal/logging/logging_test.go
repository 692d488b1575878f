package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zerolog.Level
	}{
		{in: "trace", expected: zerolog.TraceLevel},
		{in: " DEBUG ", expected: zerolog.DebugLevel},
		{in: "warning", expected: zerolog.WarnLevel},
		{in: "error", expected: zerolog.ErrorLevel},
		{in: "off", expected: zerolog.Disabled},
		{in: "", expected: zerolog.InfoLevel},
		{in: "nonsense", expected: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.expected, ParseLevel(tt.in))
		})
	}
}

func TestNew_Filters_By_Level_And_Tags_Room(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Room: "lobby"}, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	var entry map[string]any
	req.NoError(json.Unmarshal(buf.Bytes(), &entry))
	req.Equal("shown", entry["message"])
	req.Equal("lobby", entry["room"])
}

func TestGinMiddleware_Sets_Request_ID(t *testing.T) {
	req := require.New(t)
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(GinMiddleware(New(Config{}, &buf)))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	req.Equal(http.StatusOK, w.Code)
	req.NotEmpty(w.Header().Get(headerRequestID))
	req.Contains(buf.String(), `"path":"/ping"`)
}
