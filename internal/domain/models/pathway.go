package models

import (
	"fmt"
	"strconv"
	"time"
)

// PathwayPoint is an ordered step in a multi-stage study.
type PathwayPoint struct {
	Title            string                `json:"title"`
	Description      string                `json:"description,omitempty"`
	PrimaryVerse     string                `json:"primaryVerse,omitempty"`
	AdditionalVerses []string              `json:"additionalVerses,omitempty"`
	Notes            string                `json:"notes,omitempty"`
	Completions      map[string]Completion `json:"completions,omitempty"`
}

// Completion marks one user's completion of a point. Re-completing overwrites
// the timestamp; it never errors and never touches other users' markers.
type Completion struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Complete records a completion for userID, overwriting any prior marker.
func (p *PathwayPoint) Complete(userID string, at time.Time) {
	if p.Completions == nil {
		p.Completions = make(map[string]Completion)
	}
	p.Completions[userID] = Completion{UserID: userID, Timestamp: at}
}

// InsertPoint splices point into points at index, shifting later points up.
// Index is clamped to [0, len(points)].
func InsertPoint(points []PathwayPoint, index int, point PathwayPoint) []PathwayPoint {
	if index < 0 {
		index = 0
	}
	if index > len(points) {
		index = len(points)
	}
	out := make([]PathwayPoint, 0, len(points)+1)
	out = append(out, points[:index]...)
	out = append(out, point)
	out = append(out, points[index:]...)
	return out
}

// RemovePoint removes the point at index, shifting later points down.
func RemovePoint(points []PathwayPoint, index int) ([]PathwayPoint, error) {
	if index < 0 || index >= len(points) {
		return nil, fmt.Errorf("point index %d out of range [0,%d)", index, len(points))
	}
	out := make([]PathwayPoint, 0, len(points)-1)
	out = append(out, points[:index]...)
	out = append(out, points[index+1:]...)
	return out, nil
}

// ShiftChatsUp renames every chat-history key >= index to key+1, leaving keys
// below index untouched. It must run before a point is spliced in at index so
// history stays attached to the correct point. The new point's key is absent
// (empty history) afterward.
func ShiftChatsUp(chats PointChats, index int) PointChats {
	if chats == nil {
		return nil
	}
	out := make(PointChats, len(chats))
	for key, history := range chats {
		i, err := strconv.Atoi(key)
		if err != nil {
			// Non-positional key, carry it through unchanged.
			out[key] = history
			continue
		}
		if i >= index {
			out[strconv.Itoa(i+1)] = history
		} else {
			out[key] = history
		}
	}
	return out
}

// ShiftChatsDown drops the chat history at index and renames every key above
// it to key-1. Inverse of ShiftChatsUp, used when a point is removed.
func ShiftChatsDown(chats PointChats, index int) PointChats {
	if chats == nil {
		return nil
	}
	out := make(PointChats, len(chats))
	for key, history := range chats {
		i, err := strconv.Atoi(key)
		if err != nil {
			out[key] = history
			continue
		}
		switch {
		case i == index:
			// Removed point's history is discarded.
		case i > index:
			out[strconv.Itoa(i-1)] = history
		default:
			out[key] = history
		}
	}
	return out
}
