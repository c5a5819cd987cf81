package gravatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLNormalizesEmail(t *testing.T) {
	assert.Equal(t, URL("foo@bar.com", 50), URL("  Foo@BAR.com ", 50))
	assert.NotEqual(t, URL("foo@bar.com", 50), URL("baz@bar.com", 50))
}

func TestURLSize(t *testing.T) {
	assert.Contains(t, URL("foo@bar.com", 80), "?s=80")
	// non-positive size falls back to the default
	assert.Contains(t, URL("foo@bar.com", 0), "?s=50")
}
