package entities

import "time"

// Stats holds lifetime answer counters for a memory item.
// Both counters only ever grow.
type Stats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Attempts returns the total number of recorded answers.
func (s Stats) Attempts() int {
	return s.Correct + s.Incorrect
}

// Accuracy returns the fraction of correct answers in [0, 1].
// An item that has never been attempted has accuracy 0, so it is
// weighted like an item the user always gets wrong.
func (s Stats) Accuracy() float64 {
	if s.Attempts() == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts())
}

// ItemKind is the legacy content marker carried over from older library
// exports. It only feeds the coarse word/definition filter; an empty
// kind is treated as word-like.
type ItemKind string

const (
	KindWord       ItemKind = "word"
	KindDefinition ItemKind = "definition"
)

// MemoryItem is a single flashcard: a key plus the answers associated with it.
type MemoryItem struct {
	ID         string    `json:"id"`                   // unique identifier, assigned at creation
	Key        string    `json:"key"`                  // primary prompt, the "front" of the card
	Pairs      []string  `json:"pairs"`                // valid answers: translations, meanings or a description
	ImageURL   string    `json:"imageUrl,omitempty"`   // optional illustration, passed through to presentation
	IsActive   bool      `json:"isActive"`             // inactive items never enter a quiz pool
	CategoryID string    `json:"categoryId,omitempty"` // empty means uncategorized
	Kind       ItemKind  `json:"kind,omitempty"`       // legacy word/definition marker
	Stats      Stats     `json:"stats"`                // lifetime answer counters
	CreatedAt  time.Time `json:"createdAt"`            // immutable creation timestamp
}

// HasPairs reports whether the item has at least one usable answer.
// Items without pairs are ineligible for question generation.
func (m *MemoryItem) HasPairs() bool {
	return len(m.Pairs) > 0
}

// WordLike reports whether the item may participate in matching rounds.
func (m *MemoryItem) WordLike() bool {
	return m.Kind != KindDefinition
}

// Category groups memory items in the library.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
