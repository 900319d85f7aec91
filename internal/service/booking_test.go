package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingRef(t *testing.T) {
	ref := newBookingRef()

	require.True(t, strings.HasPrefix(ref, "BOOK-"), "ref %q should start with BOOK-", ref)
	suffix := strings.TrimPrefix(ref, "BOOK-")
	assert.Len(t, suffix, 8)
	for _, c := range suffix {
		assert.Contains(t, "0123456789abcdef", string(c))
	}
}

func TestNewBookingRef_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		ref := newBookingRef()
		require.False(t, seen[ref], "duplicate ref %s", ref)
		seen[ref] = true
	}
}
