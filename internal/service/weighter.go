package service

import (
	"math/rand"
	"time"

	"memotrain/internal/domain/entities"
)

// baseWeight keeps mastered items in rotation: even a perfect item
// retains this floor chance of resurfacing.
const baseWeight = 0.4

// ItemWeight computes the sampling weight for an item from its lifetime
// accuracy. Weights lie in (0.4, 1.4]: a never-attempted item gets the
// maximum 1.4, same as an always-wrong one.
func ItemWeight(item *entities.MemoryItem) float64 {
	return baseWeight + (1 - item.Stats.Accuracy())
}

// Weighter performs difficulty-biased random draws from a quiz pool.
// Draws are independent: the same item may come up several rounds in a row.
type Weighter struct {
	rng *rand.Rand
}

// NewWeighter creates a Weighter. A nil rng gets a time-seeded source;
// tests pass a fixed seed instead.
func NewWeighter(rng *rand.Rand) *Weighter {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Weighter{rng: rng}
}

// Pick draws one item, biased toward low historical accuracy. The pool
// is shuffled first so ties in weight carry no positional bias.
func (w *Weighter) Pick(pool []*entities.MemoryItem) *entities.MemoryItem {
	if len(pool) == 0 {
		return nil
	}

	shuffled := append([]*entities.MemoryItem(nil), pool...)
	w.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var total float64
	for _, item := range shuffled {
		total += ItemWeight(item)
	}

	draw := w.rng.Float64() * total
	var cum float64
	for _, item := range shuffled {
		cum += ItemWeight(item)
		if cum >= draw {
			return item
		}
	}

	// Rounding can leave the draw past the final cumulative step.
	return shuffled[len(shuffled)-1]
}
