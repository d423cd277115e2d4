package logging_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getseam/seam/internal/logging"
)

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(false, true, &buf)

	logger.Info("processed %d files", 3)
	logger.Warn("placeholder left literal")
	logger.Error("write failed")

	out := buf.String()
	assert.Contains(t, out, "✓ processed 3 files\n")
	assert.Contains(t, out, "⚠ placeholder left literal\n")
	assert.Contains(t, out, "✗ write failed\n")
}

func TestDebugSuppressedByDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(false, true, &buf)

	logger.Debug("cache hit for %s", "API_KEY")
	assert.Empty(t, buf.String())
	assert.False(t, logger.DebugEnabled())
}

func TestDebugEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(true, true, &buf)

	logger.Debug("cache hit for %s", "API_KEY")
	assert.Contains(t, buf.String(), "[DEBUG] cache hit for API_KEY\n")
	assert.True(t, logger.DebugEnabled())
}

func TestColorDisabledStripsEscapes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(false, true, &buf)

	logger.Info("hello")
	assert.NotContains(t, buf.String(), "\033[")
}

func TestSecretNeverPrintsItsValue(t *testing.T) {
	t.Parallel()

	s := logging.Secret("hunter2")

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", s))
}

func TestRedact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		secrets []string
		want    string
	}{
		{
			name:    "single occurrence",
			input:   "export TOKEN=abc123\n",
			secrets: []string{"abc123"},
			want:    "export TOKEN=[REDACTED]\n",
		},
		{
			name:    "every occurrence",
			input:   "a=hunter2 b=hunter2",
			secrets: []string{"hunter2"},
			want:    "a=[REDACTED] b=[REDACTED]",
		},
		{
			name:    "short values stay visible to avoid shredding output",
			input:   "port=443",
			secrets: []string{"443"},
			want:    "port=443",
		},
		{
			name:    "empty secret list",
			input:   "nothing to hide",
			secrets: nil,
			want:    "nothing to hide",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logging.Redact(tt.input, tt.secrets))
		})
	}
}
