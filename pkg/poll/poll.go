// Package poll implements the client side of the board's synchronization
// contract. There is no push channel: consumers re-fetch the full board on
// a fixed cadence and diff it against their last observation.
package poll

import (
	"time"

	"calcboard/pkg/models"
)

// DefaultInterval is the reference poll cadence.
const DefaultInterval = 2 * time.Second

// Delta describes what changed between two observations of the board.
type Delta struct {
	// New holds messages whose ids were absent from the previous
	// snapshot, in board order. These are the candidates for an
	// "entrance" presentation.
	New []models.Message
	// DisruptScroll recommends whether the consumer should jump to the
	// end of the list. It is only true when new messages arrived while
	// the consumer reported being at the end; a reader scrolled back
	// through history is never yanked to the bottom.
	DisruptScroll bool
}

// Tracker retains the ids a consumer has observed so each poll can be
// reduced to the newly arrived messages. It is not safe for concurrent
// use; each polling consumer owns its own Tracker.
type Tracker struct {
	seen     map[string]struct{}
	lastTail string
	atEnd    bool
	primed   bool
}

// NewTracker returns an empty Tracker. The first Observe primes the seen
// set without reporting the whole board as new.
func NewTracker() *Tracker {
	return &Tracker{seen: map[string]struct{}{}, atEnd: true}
}

// SetAtEnd records whether the consumer is currently positioned at the
// end of the list. This drives the DisruptScroll recommendation only; it
// never changes which messages count as new.
func (t *Tracker) SetAtEnd(atEnd bool) { t.atEnd = atEnd }

// LastTail returns the id of the last message observed at the tail of the
// board, or "" before the first observation of a non-empty board.
func (t *Tracker) LastTail() string { return t.lastTail }

// Observe diffs the polled board against the previous snapshot and
// updates the tracker state. Deleted messages simply drop out of the seen
// set; they are not reported.
func (t *Tracker) Observe(b models.Board) Delta {
	next := make(map[string]struct{}, len(b.Messages))
	var fresh []models.Message
	for _, m := range b.Messages {
		next[m.ID] = struct{}{}
		if _, ok := t.seen[m.ID]; !ok {
			fresh = append(fresh, m)
		}
	}

	tail := ""
	if n := len(b.Messages); n > 0 {
		tail = b.Messages[n-1].ID
	}

	primed := t.primed
	t.primed = true
	t.seen = next
	prevTail := t.lastTail
	t.lastTail = tail

	// First observation establishes the baseline; nothing is "new".
	if !primed {
		return Delta{}
	}
	// Tail unchanged means no arrivals worth announcing, even if earlier
	// ids changed under us (edits mutate in place and keep their ids).
	if tail == prevTail || len(fresh) == 0 {
		return Delta{}
	}
	return Delta{New: fresh, DisruptScroll: t.atEnd}
}
