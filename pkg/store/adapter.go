package store

import "calcboard/pkg/models"

// Adapter is the storage collaborator contract: whole-value load and
// replace, nothing finer grained. Load returns an empty board when no
// prior data exists.
type Adapter interface {
	Load() (models.Board, error)
	Store(models.Board) error
}

// pebbleAdapter exposes the package-level pebble handle as an Adapter so
// consumers can be tested against stub adapters.
type pebbleAdapter struct{}

func (pebbleAdapter) Load() (models.Board, error) { return LoadBoard() }
func (pebbleAdapter) Store(b models.Board) error  { return SaveBoard(b) }

// NewAdapter returns an Adapter backed by the opened pebble DB.
func NewAdapter() Adapter { return pebbleAdapter{} }
