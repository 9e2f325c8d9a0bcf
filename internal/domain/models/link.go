package models

import "time"

// EntryLink is a stored association between two entries. Rows are directed
// (source -> target) but every caller treats the relation as undirected, so
// duplicate checks canonicalize the pair before insert.
type EntryLink struct {
	ID            string    `json:"id"`
	SourceEntryID string    `json:"source_entry_id"`
	TargetEntryID string    `json:"target_entry_id"`
	UserID        string    `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// CanonicalPair returns the link's entry ids in sorted order, giving an
// undirected identity for the edge regardless of stored direction.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// OtherSide returns the entry id on the opposite side of the link from entryID.
func (l *EntryLink) OtherSide(entryID string) string {
	if l.SourceEntryID == entryID {
		return l.TargetEntryID
	}
	return l.SourceEntryID
}
