package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 255))
	assert.Len(t, Truncate(strings.Repeat("a", 300), 255), 255)

	// "é" is two bytes; cutting in the middle drops the whole rune
	s := strings.Repeat("a", 254) + "é"
	assert.Equal(t, strings.Repeat("a", 254), Truncate(s, 255))
}

func TestSnapshot_Bounded(t *testing.T) {
	long := strings.Repeat("ü", 300) // 600 bytes
	snap := Snapshot{
		Title:    long,
		Artist:   long,
		Album:    "short",
		ArtURL:   "file:///" + long,
		Position: 3,
		Duration: 9,
		Playing:  true,
	}

	got := snap.Bounded()

	assert.Len(t, got.Title, 254)
	assert.Len(t, got.Artist, 254)
	assert.Equal(t, "short", got.Album)
	assert.Len(t, got.ArtURL, 510)
	assert.True(t, strings.HasPrefix(got.ArtURL, "file:///"))
	assert.Equal(t, 3.0, got.Position)
	assert.Equal(t, 9.0, got.Duration)
	assert.True(t, got.Playing)
	// the receiver is left alone
	assert.Equal(t, long, snap.Title)
}
