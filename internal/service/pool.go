package service

import (
	"fmt"

	"memotrain/internal/domain/entities"
)

// MinPoolSize is the smallest candidate pool a session can start from.
// Below it there are not enough items to build distractors.
const MinPoolSize = 4

// FilterKind is the coarse content filter applied before a session.
type FilterKind string

const (
	FilterMix        FilterKind = "mix"
	FilterWord       FilterKind = "word"
	FilterDefinition FilterKind = "definition"
)

// FilterSpec describes the user's pool selection for a session.
// An explicit empty category set means "nothing selected", not "everything".
type FilterSpec struct {
	Kind          FilterKind
	AllCategories bool
	CategoryIDs   []string
}

// InsufficientPoolError reports a candidate pool too small to start a
// quiz session. It is raised at setup time, before any question is shown.
type InsufficientPoolError struct {
	Found    int
	Required int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("not enough active items: found %d, need at least %d", e.Found, e.Required)
}

// ResolvePool filters the full collection down to the quiz candidates
// for the given spec. The input is never mutated.
func ResolvePool(items []*entities.MemoryItem, spec FilterSpec) []*entities.MemoryItem {
	var allowed map[string]struct{}
	if !spec.AllCategories {
		allowed = make(map[string]struct{}, len(spec.CategoryIDs))
		for _, id := range spec.CategoryIDs {
			allowed[id] = struct{}{}
		}
	}

	pool := make([]*entities.MemoryItem, 0, len(items))
	for _, item := range items {
		if !item.IsActive {
			continue
		}

		switch spec.Kind {
		case FilterWord:
			if !item.WordLike() {
				continue
			}
		case FilterDefinition:
			if item.WordLike() {
				continue
			}
		}

		if allowed != nil {
			if _, ok := allowed[item.CategoryID]; !ok {
				continue
			}
		}

		pool = append(pool, item)
	}

	return pool
}

// ValidatePool checks the minimum population precondition for starting
// a session.
func ValidatePool(pool []*entities.MemoryItem) error {
	if len(pool) < MinPoolSize {
		return &InsufficientPoolError{Found: len(pool), Required: MinPoolSize}
	}
	return nil
}
