package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"DEBUG", LevelDebug},
		{"Warning", LevelWarn},
		{"dEbUg", LevelDebug},
		{"", LevelInfo},
		{"trace", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("Json"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat(""))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})
	log.Info("hello", "port", 8091)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.EqualValues(t, 8091, entry["port"])
}

func TestRoute_DebugFlag(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelInfo, Format: FormatText, Output: &buf})

	Route(context.Background(), log, false, "mock", "/vab-mock-server/login")
	assert.Empty(t, buf.String(), "route lines are debug-level when the debug flag is off")

	Route(context.Background(), log, true, "real", "/profile")
	assert.Contains(t, buf.String(), "[real] /profile")
	assert.Contains(t, buf.String(), "route=real")
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(Config{Output: &buf}), "request")
	log.Info("x")
	assert.Contains(t, buf.String(), "component=request")

	assert.NotNil(t, Component(nil, "request"))
}

func TestRedactJSON(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		paths []string
		want  string
	}{
		{
			name:  "token",
			body:  `{"code":200,"data":{"accessToken":"admin-accessToken"}}`,
			paths: []string{"data.accessToken"},
			want:  `{"code":200,"data":{"accessToken":"[REDACTED]"}}`,
		},
		{
			name:  "missing path",
			body:  `{"code":200,"data":null}`,
			paths: []string{"data.accessToken"},
			want:  `{"code":200,"data":null}`,
		},
		{
			name:  "not json",
			body:  `<html>`,
			paths: []string{"data.accessToken"},
			want:  `<html>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, string(RedactJSON([]byte(tt.body), tt.paths...)))
		})
	}
}

func TestNop(t *testing.T) {
	assert.False(t, Nop().Enabled(context.Background(), LevelError))
	assert.NotNil(t, OrNop(nil))
}
