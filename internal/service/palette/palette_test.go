package palette

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexColor = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func TestFromName_Deterministic(t *testing.T) {
	a := FromName("Yarn Tales")
	b := FromName("  yarn tales ")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a.Primary, FromName("The Peace Lily").Primary)

	for _, c := range []string{a.Primary, a.Secondary, a.Accent, a.Background, a.Text} {
		assert.Regexp(t, hexColor, c)
	}
}

func TestFromName_Empty(t *testing.T) {
	assert.Equal(t, Default(), FromName(""))
}

func TestFromColors(t *testing.T) {
	p := FromColors([]string{"#FFFFFF", "#000000", "#808080", "#E91E63"}, "shop")
	r, g, b, ok := parseHex(p.Primary)
	require.True(t, ok)
	// pink stays red-dominant
	assert.Greater(t, int(r), int(g))
	assert.Greater(t, int(r), int(b))
}

func TestFromColors_FallsBackToName(t *testing.T) {
	assert.Equal(t, FromName("shop"), FromColors([]string{"#FFFFFF", "bad"}, "shop"))
	assert.Equal(t, FromName("shop"), FromColors(nil, "shop"))
}

func TestHSLRoundTrip(t *testing.T) {
	assert.Equal(t, "#FF0000", hslToHex(0, 1, 0.5))
	assert.Equal(t, "#00FF00", hslToHex(120, 1, 0.5))
	assert.Equal(t, "#0000FF", hslToHex(240, 1, 0.5))
	assert.Equal(t, "#FF0000", hslToHex(360, 1, 0.5))

	h, s, l := rgbToHSL(0, 0, 255)
	assert.InDelta(t, 240, h, 0.01)
	assert.InDelta(t, 1, s, 0.01)
	assert.InDelta(t, 0.5, l, 0.01)
}

func TestParseHex(t *testing.T) {
	r, g, b, ok := parseHex("#abc")
	require.True(t, ok)
	assert.Equal(t, []uint8{0xAA, 0xBB, 0xCC}, []uint8{r, g, b})

	r, g, b, ok = parseHex("E91E63")
	require.True(t, ok)
	assert.Equal(t, []uint8{0xE9, 0x1E, 0x63}, []uint8{r, g, b})

	for _, bad := range []string{"zzzzzz", "bad", "abc", "#abcd", ""} {
		_, _, _, ok = parseHex(bad)
		assert.False(t, ok, bad)
	}
}
