package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	SetLevel("warn")
	assert.Equal(t, zerolog.WarnLevel, Log.GetLevel())

	SetLevel("not-a-level")
	assert.Equal(t, zerolog.InfoLevel, Log.GetLevel())
}

func TestNew_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Info().Str("product_id", "P-1001").Msg("updated")

	assert.Contains(t, buf.String(), `"product_id":"P-1001"`)
	assert.Contains(t, buf.String(), `"message":"updated"`)
}

func TestModeLevel(t *testing.T) {
	assert.Equal(t, "debug", ModeLevel("debug"))
	assert.Equal(t, "info", ModeLevel("release"))
}
