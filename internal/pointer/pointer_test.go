package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeRoundTrip(t *testing.T) {
	for _, tok := range []string{"a/b", "m~n", "~1", "plain", ""} {
		assert.Equal(t, tok, Unescape(Escape(tok)))
	}
	assert.Equal(t, "a~1b", Escape("a/b"))
	assert.Equal(t, "m~0n", Escape("m~n"))
	// ~01 must decode to ~1, not /
	assert.Equal(t, "~1", Unescape("~01"))
}

func TestJoinRenderSplit(t *testing.T) {
	assert.Equal(t, "/a", Join("", "a"))
	assert.Equal(t, "/a", Join("/", "a"))
	assert.Equal(t, "/a/b~1c", Join("/a", "b/c"))
	assert.Equal(t, "/", Render(nil))
	assert.Equal(t, "/x/0", Render([]string{"x", "0"}))

	toks, err := Split("/a~1b/~0/0")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b", "~", "0"}, toks)

	toks, err = Split("/")
	require.NoError(t, err)
	assert.Empty(t, toks)

	_, err = Split("nope")
	assert.Error(t, err)
}

func TestFragments(t *testing.T) {
	p, err := FromFragment("/$defs/a%20b")
	require.NoError(t, err)
	assert.Equal(t, "/$defs/a b", p)

	_, err = FromFragment("/%zz")
	assert.Error(t, err)

	assert.Equal(t, "", ToFragment("/"))
	assert.Equal(t, "/a", ToFragment("/a"))
}

func TestPathStack(t *testing.T) {
	var p Path
	assert.Equal(t, "/", p.String())
	p.Push("items")
	p.PushIndex(3)
	p.Push("a/b", "c")
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, "/items/3/a~1b/c", p.String())
	p.Pop(2)
	assert.Equal(t, "/items/3", p.String())
}
