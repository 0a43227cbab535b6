package lib

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLogFormatter(t *testing.T) {
	line := JsonLogFormatter(gin.LogFormatterParams{
		TimeStamp:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		StatusCode:   http.StatusBadRequest,
		Latency:      time.Millisecond,
		ClientIP:     "127.0.0.1",
		Method:       http.MethodPost,
		Path:         "/documents",
		ErrorMessage: "empty body",
		Keys:         map[string]any{RequestIDKey: "abc"},
	})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, "2024-01-02T03:04:05", decoded["time"])
	assert.Equal(t, float64(http.StatusBadRequest), decoded["status"])
	assert.Equal(t, "/documents", decoded["path"])
	assert.Equal(t, "abc", decoded[RequestIDKey])
	assert.Equal(t, "empty body", decoded["error"])
	assert.Equal(t, byte('\n'), line[len(line)-1])
}
