package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	tests := map[string]int{
		"1,234":     1234,
		"1.2K":      1200,
		"3M":        3000000,
		"12.5k":     12500,
		"987":       987,
		" 4,5 K ":   45000,
		"":          0,
		"many":      0,
		"K":         0,
		"1.5B":      1500000000,
		"1,234,567": 1234567,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseCount(in), in)
	}
}

func TestParseMetaDescription(t *testing.T) {
	mc, ok := parseMetaDescription("1,234 Followers, 56 Following, 78 Posts - See Instagram photos and videos from The Peace Lily (@thepeacelily.in)")
	require.True(t, ok)
	assert.Equal(t, 1234, mc.Followers)
	assert.Equal(t, 56, mc.Following)
	assert.Equal(t, 78, mc.Posts)
	assert.Equal(t, "The Peace Lily", mc.DisplayName)

	mc, ok = parseMetaDescription("12.5K Followers, 300 Following, 1,020 Posts - See Instagram photos and videos from Yarn Tales (@yarn.tales)")
	require.True(t, ok)
	assert.Equal(t, 12500, mc.Followers)
	assert.Equal(t, 1020, mc.Posts)

	_, ok = parseMetaDescription("Handmade crochet with love")
	assert.False(t, ok)
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "The Peace Lily", cleanTitle("The Peace Lily (@thepeacelily.in) • Instagram photos and videos"))
	assert.Equal(t, "Yarn Tales", cleanTitle("Yarn Tales (@yarn.tales)"))
	assert.Equal(t, "Shop", cleanTitle("  Shop  "))
}
