package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsole(&buf)

	n.Success("applied %d keywords", 12)
	n.Info("operation cancelled")
	n.Warn("cache disabled")
	n.Error("request failed: %v", "timeout")

	out := buf.String()
	assert.Contains(t, out, "applied 12 keywords")
	assert.Contains(t, out, "operation cancelled")
	assert.Contains(t, out, "cache disabled")
	assert.Contains(t, out, "request failed: timeout")
	assert.Equal(t, 4, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestDiscard(t *testing.T) {
	// Compile-time interface checks plus no-panic smoke test.
	var n Notifier = Discard{}
	n.Success("x")
	n.Info("x")
	n.Warn("x")
	n.Error("x")
	_ = n
}
