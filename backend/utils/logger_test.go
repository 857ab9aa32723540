package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LoggerConfig{Format: "json", Output: &buf})
	logger.Printf("user %d has %d flashcard(s) due", 7, 3)
	logger.Println("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry struct {
		Time    string `json:"time"`
		Service string `json:"service"`
		Message string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Skillforge", entry.Service)
	assert.Equal(t, "user 7 has 3 flashcard(s) due", entry.Message)
	assert.NotEmpty(t, entry.Time)
}

func TestInitLoggerText(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(LoggerConfig{Output: &buf}).Println("hello")
	assert.True(t, strings.HasPrefix(buf.String(), logPrefix))
	assert.Contains(t, buf.String(), "hello")
}

func TestColors(t *testing.T) {
	assert.Equal(t, colorRed, StatusColor(503))
	assert.Equal(t, colorYellow, StatusColor(404))
	assert.Equal(t, colorGreen, StatusColor(201))
	assert.Equal(t, colorWhite, StatusColor(101))
	assert.Equal(t, colorBlue, MethodColor("GET"))
	assert.Equal(t, colorWhite, MethodColor("OPTIONS"))
	assert.Equal(t, "plain", Colorize("", "plain"))
	assert.Equal(t, colorRed+"x"+colorReset, Colorize(colorRed, "x"))
}
