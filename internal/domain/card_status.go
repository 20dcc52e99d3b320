package domain

import (
	"strings"
	"time"
)

// CardStatusID identifies one of the fixed card statuses.
type CardStatusID int

// Card statuses. The numeric values are persisted and must not change.
const (
	StatusToDo       CardStatusID = 1
	StatusInProgress CardStatusID = 2
	StatusDone       CardStatusID = 3
)

var cardStatuses = []struct {
	id   CardStatusID
	key  string
	name string
}{
	{StatusToDo, "ToDo", "To Do"},
	{StatusInProgress, "InProgress", "In Progress"},
	{StatusDone, "Done", "Done"},
}

// CardStatusIDs returns every defined status in id order.
func CardStatusIDs() []CardStatusID {
	ids := make([]CardStatusID, 0, len(cardStatuses))
	for _, s := range cardStatuses {
		ids = append(ids, s.id)
	}
	return ids
}

// Valid reports whether s is a defined status.
func (s CardStatusID) Valid() bool {
	return s >= StatusToDo && s <= StatusDone
}

// String returns the display name, e.g. "In Progress".
func (s CardStatusID) String() string {
	for _, cs := range cardStatuses {
		if cs.id == s {
			return cs.name
		}
	}
	return "Unknown"
}

// Key returns the enumeration name, e.g. "InProgress".
func (s CardStatusID) Key() string {
	for _, cs := range cardStatuses {
		if cs.id == s {
			return cs.key
		}
	}
	return ""
}

// ParseCardStatusKey matches key case-insensitively against the enumeration
// names (ToDo, InProgress, Done). Callers strip whitespace beforehand when
// they want "in progress" to match.
func ParseCardStatusKey(key string) (CardStatusID, bool) {
	for _, cs := range cardStatuses {
		if strings.EqualFold(cs.key, key) {
			return cs.id, true
		}
	}
	return 0, false
}

// CardStatus is the persisted reference row for a status. Rows are seeded once
// and are read-only afterwards.
type CardStatus struct {
	ID         CardStatusID `json:"id"`
	Name       string       `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	ModifiedAt time.Time    `json:"modified_at"`
}

// SetCreatedAt implements audit.Auditable.
func (s *CardStatus) SetCreatedAt(t time.Time) { s.CreatedAt = t }

// SetModifiedAt implements audit.Auditable.
func (s *CardStatus) SetModifiedAt(t time.Time) { s.ModifiedAt = t }

// CreationTime implements audit.Auditable.
func (s *CardStatus) CreationTime() time.Time { return s.CreatedAt }
