package models

import (
	"time"
)

// EntryType identifies which payload shape an entry's content carries and
// which editor applies on the client.
type EntryType string

const (
	EntryTypeChat    EntryType = "chat"
	EntryTypeLink    EntryType = "link"
	EntryTypeVideo   EntryType = "video"
	EntryTypeText    EntryType = "text"
	EntryTypeAudio   EntryType = "audio"
	EntryTypeSong    EntryType = "song"
	EntryTypePoem    EntryType = "poem"
	EntryTypeQuote   EntryType = "quote"
	EntryTypeTwitter EntryType = "twitter"
	EntryTypeYouTube EntryType = "youtube"
	EntryTypeImage   EntryType = "image"
	EntryTypePathway EntryType = "pathway"
)

// entryTypes is the closed set of valid entry types.
var entryTypes = map[EntryType]bool{
	EntryTypeChat:    true,
	EntryTypeLink:    true,
	EntryTypeVideo:   true,
	EntryTypeText:    true,
	EntryTypeAudio:   true,
	EntryTypeSong:    true,
	EntryTypePoem:    true,
	EntryTypeQuote:   true,
	EntryTypeTwitter: true,
	EntryTypeYouTube: true,
	EntryTypeImage:   true,
	EntryTypePathway: true,
}

// IsValidEntryType reports whether t is one of the known entry types.
func IsValidEntryType(t EntryType) bool {
	return entryTypes[t]
}

// Entry is a single content item owned by one user. Content is a serialized
// payload whose structure depends on Type; use ParsePayload to decode it.
type Entry struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Type          EntryType `json:"type"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	BibleVerses   []string  `json:"bible_verses"`
	RelatedVerses []string  `json:"related_verses"`
	AudioURLs     []string  `json:"audio_urls,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`

	// AIConversations is the append-only whole-entry Q&A history.
	AIConversations []AIConversation `json:"ai_conversations,omitempty"`

	// Messages holds the ordered turns for type=chat entries.
	Messages []ChatMessage `json:"messages,omitempty"`

	// AudioSegments maps segment keys to per-segment metadata. Updates merge
	// this map key-wise instead of replacing it.
	AudioSegments map[string]any `json:"audio_segments,omitempty"`

	// PointChats maps a stringified pathway point index to that point's
	// conversation. Keys are positional: inserting a point rewrites them.
	PointChats PointChats `json:"point_chats,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AIConversation is one question/answer exchange persisted on an entry.
// Failed marks answers that are apology placeholders for a provider error,
// so they are distinguishable from a genuine "I don't know".
type AIConversation struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	AudioURL  string    `json:"audio_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Failed    bool      `json:"failed,omitempty"`
}

// ChatMessage is one role-tagged turn of a chat entry or a pathway point chat.
type ChatMessage struct {
	Role          string   `json:"role"`
	Content       string   `json:"content"`
	AudioURL      string   `json:"audio_url,omitempty"`
	Category      string   `json:"category,omitempty"`
	RelatedVerses []string `json:"related_verses,omitempty"`
}

// PointChats maps stringified point indices to ordered conversation turns.
type PointChats map[string][]ChatMessage
