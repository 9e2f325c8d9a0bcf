package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftChatsUp(t *testing.T) {
	tests := []struct {
		name     string
		chats    PointChats
		index    int
		expected PointChats
	}{
		{
			name:     "nil map passes through",
			chats:    nil,
			index:    0,
			expected: nil,
		},
		{
			name: "keys at and above index shift up",
			chats: PointChats{
				"0": {{Role: "user", Content: "a"}},
				"1": {{Role: "user", Content: "b"}},
				"2": {{Role: "user", Content: "c"}},
			},
			index: 1,
			expected: PointChats{
				"0": {{Role: "user", Content: "a"}},
				"2": {{Role: "user", Content: "b"}},
				"3": {{Role: "user", Content: "c"}},
			},
		},
		{
			name: "insert at zero shifts everything",
			chats: PointChats{
				"0": {{Role: "user", Content: "a"}},
				"1": {{Role: "user", Content: "b"}},
			},
			index: 0,
			expected: PointChats{
				"1": {{Role: "user", Content: "a"}},
				"2": {{Role: "user", Content: "b"}},
			},
		},
		{
			name: "inserted index has no history afterward",
			chats: PointChats{
				"0": {{Role: "user", Content: "a"}},
				"1": {{Role: "user", Content: "b"}},
			},
			index: 1,
			expected: PointChats{
				"0": {{Role: "user", Content: "a"}},
				"2": {{Role: "user", Content: "b"}},
			},
		},
		{
			name: "non-numeric keys carry through unchanged",
			chats: PointChats{
				"0":      {{Role: "user", Content: "a"}},
				"legacy": {{Role: "user", Content: "x"}},
			},
			index: 0,
			expected: PointChats{
				"1":      {{Role: "user", Content: "a"}},
				"legacy": {{Role: "user", Content: "x"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShiftChatsUp(tt.chats, tt.index)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestShiftChatsDown(t *testing.T) {
	tests := []struct {
		name     string
		chats    PointChats
		index    int
		expected PointChats
	}{
		{
			name:     "nil map passes through",
			chats:    nil,
			index:    0,
			expected: nil,
		},
		{
			name: "removed index is discarded and higher keys shift down",
			chats: PointChats{
				"0": {{Role: "user", Content: "a"}},
				"1": {{Role: "user", Content: "b"}},
				"2": {{Role: "user", Content: "c"}},
			},
			index: 1,
			expected: PointChats{
				"0": {{Role: "user", Content: "a"}},
				"1": {{Role: "user", Content: "c"}},
			},
		},
		{
			name: "keys below index untouched",
			chats: PointChats{
				"0": {{Role: "user", Content: "a"}},
				"3": {{Role: "user", Content: "d"}},
			},
			index: 2,
			expected: PointChats{
				"0": {{Role: "user", Content: "a"}},
				"2": {{Role: "user", Content: "d"}},
			},
		},
		{
			name: "non-numeric keys carry through unchanged",
			chats: PointChats{
				"1":      {{Role: "user", Content: "b"}},
				"legacy": {{Role: "user", Content: "x"}},
			},
			index: 1,
			expected: PointChats{
				"legacy": {{Role: "user", Content: "x"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShiftChatsDown(tt.chats, tt.index)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestShiftChatsRoundTrip(t *testing.T) {
	chats := PointChats{
		"0": {{Role: "user", Content: "a"}},
		"1": {{Role: "user", Content: "b"}},
		"2": {{Role: "user", Content: "c"}},
	}

	// Shifting up for an insert at 1 then down for a removal at 1 restores
	// the original keying.
	up := ShiftChatsUp(chats, 1)
	down := ShiftChatsDown(up, 1)
	assert.Equal(t, chats, down)
}

func TestInsertPoint(t *testing.T) {
	points := []PathwayPoint{
		{Title: "first"},
		{Title: "second"},
	}

	tests := []struct {
		name       string
		index      int
		wantTitles []string
	}{
		{"at start", 0, []string{"new", "first", "second"}},
		{"in middle", 1, []string{"first", "new", "second"}},
		{"at end", 2, []string{"first", "second", "new"}},
		{"past end clamps", 10, []string{"first", "second", "new"}},
		{"negative clamps to start", -3, []string{"new", "first", "second"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InsertPoint(points, tt.index, PathwayPoint{Title: "new"})
			require.Len(t, got, 3)
			for i, title := range tt.wantTitles {
				assert.Equal(t, title, got[i].Title)
			}
			// Input slice must not be mutated.
			assert.Equal(t, "first", points[0].Title)
			assert.Equal(t, "second", points[1].Title)
		})
	}
}

func TestRemovePoint(t *testing.T) {
	points := []PathwayPoint{
		{Title: "first"},
		{Title: "second"},
		{Title: "third"},
	}

	got, err := RemovePoint(points, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "third", got[1].Title)

	_, err = RemovePoint(points, 3)
	assert.Error(t, err)

	_, err = RemovePoint(points, -1)
	assert.Error(t, err)
}

func TestPathwayPointComplete(t *testing.T) {
	var p PathwayPoint

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p.Complete("user-a", first)

	require.Len(t, p.Completions, 1)
	assert.Equal(t, first, p.Completions["user-a"].Timestamp)

	// Re-completing overwrites the timestamp without erroring.
	second := first.Add(24 * time.Hour)
	p.Complete("user-a", second)
	require.Len(t, p.Completions, 1)
	assert.Equal(t, second, p.Completions["user-a"].Timestamp)

	// Other users get independent markers.
	p.Complete("user-b", first)
	assert.Len(t, p.Completions, 2)
	assert.Equal(t, second, p.Completions["user-a"].Timestamp)
}
