package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURLDeterministic(t *testing.T) {
	a := GravatarURL("a@x.com")
	b := GravatarURL("a@x.com")
	assert.Equal(t, a, b)

	assert.True(t, strings.HasPrefix(a, "https://gravatar.com/avatar/"))
	assert.Contains(t, a, "s=200")
	assert.Contains(t, a, "r=pg")
	assert.Contains(t, a, "d=mm")
}

func TestGravatarURLNormalizesEmail(t *testing.T) {
	assert.Equal(t, GravatarURL("a@x.com"), GravatarURL("  A@X.COM  "))
	assert.NotEqual(t, GravatarURL("a@x.com"), GravatarURL("b@x.com"))
}
