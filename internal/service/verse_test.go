package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReference(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"exact reference", "John 3:16", "John 3:16"},
		{"exact with range", "John 3:16-18", "John 3:16-18"},
		{"exact with spaced range", "John 3:16 - 18", "John 3:16-18"},
		{"embedded in sentence", "I love John 3:16 so much", "John 3:16"},
		{"ordinal book", "1 John 4:9", "1 John 4:9"},
		{"abbreviated book with period", "Jn. 3:16", "Jn 3:16"},
		{"verse word form", "John 3 verse 16", "John 3:16"},
		{"verse word case insensitive", "John 3 VERSE 16", "John 3:16"},
		{"space separated", "jn 3 16", "jn 3:16"},
		{"ordinal space separated", "2 Kings 5 14", "2 Kings 5:14"},
		{"bare chapter", "John 3", "John 3"},
		{"no match uses first three words", "the quick brown fox jumps", "the quick brown"},
		{"short input passes through", "hello there", "hello there"},
		{"surrounding whitespace trimmed", "  John 3:16  ", "John 3:16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractReference(tt.input))
		})
	}
}

func TestResolveReturnsPassageText(t *testing.T) {
	client := &fakePassageClient{text: "For God so loved the world"}
	resolver := NewVerseResolver(client, testLogger())

	got := resolver.Resolve(context.Background(), "I was reading John 3:16 today")
	assert.Equal(t, "For God so loved the world", got)

	// The client sees the extracted lookup, not the raw input.
	require.Len(t, client.lookups, 1)
	assert.Equal(t, "John 3:16", client.lookups[0])
}

func TestResolveFailureYieldsFixedString(t *testing.T) {
	client := &fakePassageClient{err: errors.New("504 upstream")}
	resolver := NewVerseResolver(client, testLogger())

	got := resolver.Resolve(context.Background(), "John 3:16")
	assert.Equal(t, passageUnavailable, got)
}
