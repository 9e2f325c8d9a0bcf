package models

import (
	"encoding/json"
	"strings"
)

// Payload is the decoded form of an entry's content string. Exactly one
// variant is populated, selected by the entry type.
type Payload struct {
	Text    *TextPayload    `json:"text,omitempty"`
	Song    *SongPayload    `json:"song,omitempty"`
	Pathway *PathwayPayload `json:"pathway,omitempty"`
	Embed   *EmbedPayload   `json:"embed,omitempty"`
}

// TextPayload is plain text content (text, quote, poem, audio transcript).
type TextPayload struct {
	Text string `json:"text"`
}

// SongPayload holds song verses plus free-form comments.
type SongPayload struct {
	Verses   []string `json:"verses"`
	Comments string   `json:"comments,omitempty"`
}

// PathwayPayload holds the ordered study points of a pathway entry.
type PathwayPayload struct {
	Points []PathwayPoint `json:"pathwayPoints"`
}

// EmbedPayload is raw embed markup (twitter, youtube, link, video).
type EmbedPayload struct {
	Markup string `json:"markup"`
}

// ParsePayload decodes an entry's content string according to its type.
// Malformed serialized content never fails: it degrades to treating the raw
// string as plain text (or a single song verse) so renderers stay stable.
func ParsePayload(entryType EntryType, content string) Payload {
	switch entryType {
	case EntryTypeSong:
		var song SongPayload
		if err := json.Unmarshal([]byte(content), &song); err != nil {
			return Payload{Song: &SongPayload{Verses: []string{content}}}
		}
		if song.Verses == nil {
			song.Verses = []string{}
		}
		return Payload{Song: &song}

	case EntryTypePathway:
		var pathway PathwayPayload
		if err := json.Unmarshal([]byte(content), &pathway); err != nil {
			return Payload{Pathway: &PathwayPayload{Points: []PathwayPoint{}}}
		}
		if pathway.Points == nil {
			pathway.Points = []PathwayPoint{}
		}
		return Payload{Pathway: &pathway}

	case EntryTypeTwitter, EntryTypeYouTube, EntryTypeLink, EntryTypeVideo:
		return Payload{Embed: &EmbedPayload{Markup: content}}

	default:
		return Payload{Text: &TextPayload{Text: content}}
	}
}

// EncodePathway serializes a pathway payload back into a content string.
func EncodePathway(p *PathwayPayload) (string, error) {
	if p.Points == nil {
		p.Points = []PathwayPoint{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EncodeSong serializes a song payload back into a content string.
func EncodeSong(p *SongPayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IsBlank reports whether a content string has no meaningful text.
func IsBlank(content string) bool {
	return strings.TrimSpace(content) == ""
}
