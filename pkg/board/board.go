package board

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"calcboard/pkg/logger"
	"calcboard/pkg/models"
	"calcboard/pkg/store"
)

// seq reduces id collisions when multiple messages share the same
// nanosecond timestamp.
var seq uint64

// newID returns a time-derived id that sorts in creation order.
func newID() string {
	ts := time.Now().UTC().UnixNano()
	s := atomic.AddUint64(&seq, 1)
	return fmt.Sprintf("%020d-%06d", ts, s)
}

// Store owns the message board. Every operation is one full
// load -> transform -> persist cycle against the storage adapter; the
// mutex serializes those cycles so concurrent mutations cannot overwrite
// each other's writes (the unit of atomicity is the whole board).
type Store struct {
	mu      sync.Mutex
	adapter store.Adapter
}

// New returns a Store over the given storage adapter.
func New(adapter store.Adapter) *Store {
	return &Store{adapter: adapter}
}

func (s *Store) load() (models.Board, error) {
	b, err := s.adapter.Load()
	if err != nil {
		return models.Board{}, &StorageError{Op: "read", Err: err}
	}
	return b, nil
}

func (s *Store) persist(b models.Board) error {
	if err := s.adapter.Store(b); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

// List returns the full board. A read failure degrades to an empty board:
// the poll path favors availability over surfacing transient storage
// trouble to every client.
func (s *Store) List() models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.load()
	if err != nil {
		logger.Warn("board_list_degraded", "error", err)
		return models.Board{Messages: []models.Message{}}
	}
	return b.Clone()
}

// Create appends a new message authored by name. Both fields are required.
func (s *Store) Create(name, message string) (models.Message, error) {
	if name == "" {
		return models.Message{}, &ValidationError{Field: "name"}
	}
	if message == "" {
		return models.Message{}, &ValidationError{Field: "message"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.load()
	if err != nil {
		return models.Message{}, err
	}
	m := models.Message{
		ID:        newID(),
		Name:      name,
		Message:   message,
		Timestamp: time.Now().UTC().UnixNano(),
	}
	b.Messages = append(b.Messages, m)
	if err := s.persist(b); err != nil {
		return models.Message{}, err
	}
	logger.Info("message_created", "id", m.ID, "name", name)
	return m.Clone(), nil
}

// Edit replaces the body of the message with the given id. Only the
// original author (exact name match) may edit; id, timestamp and
// reactions are untouched.
func (s *Store) Edit(id, name, message string) (models.Message, error) {
	if id == "" {
		return models.Message{}, &ValidationError{Field: "id"}
	}
	if name == "" {
		return models.Message{}, &ValidationError{Field: "name"}
	}
	if message == "" {
		return models.Message{}, &ValidationError{Field: "message"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.load()
	if err != nil {
		return models.Message{}, err
	}
	i := b.Find(id)
	if i < 0 {
		return models.Message{}, ErrNotFound
	}
	if b.Messages[i].Name != name {
		return models.Message{}, ErrUnauthorized
	}
	b.Messages[i].Message = message
	b.Messages[i].Edited = true
	b.Messages[i].EditedAt = time.Now().UTC().UnixNano()
	if err := s.persist(b); err != nil {
		return models.Message{}, err
	}
	logger.Info("message_edited", "id", id, "name", name)
	return b.Messages[i].Clone(), nil
}

// Delete removes the message with the given id. Only the original author
// may delete; the order of the remaining messages is unchanged.
func (s *Store) Delete(id, name string) error {
	if id == "" {
		return &ValidationError{Field: "id"}
	}
	if name == "" {
		return &ValidationError{Field: "name"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.load()
	if err != nil {
		return err
	}
	i := b.Find(id)
	if i < 0 {
		return ErrNotFound
	}
	if b.Messages[i].Name != name {
		return ErrUnauthorized
	}
	b.Messages = append(b.Messages[:i], b.Messages[i+1:]...)
	if err := s.persist(b); err != nil {
		return err
	}
	logger.Info("message_deleted", "id", id, "name", name)
	return nil
}

// ToggleReaction flips name's reaction symbol on the message with the
// given id. Anyone may react to any message, their own included. Toggling
// off the last name removes the symbol key entirely, so no empty sets are
// ever persisted. Returns the message's full updated reactions map.
func (s *Store) ToggleReaction(id, symbol, name string) (map[string][]string, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id"}
	}
	if symbol == "" {
		return nil, &ValidationError{Field: "reaction"}
	}
	if name == "" {
		return nil, &ValidationError{Field: "name"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.load()
	if err != nil {
		return nil, err
	}
	i := b.Find(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	m := &b.Messages[i]
	if m.HasReaction(symbol, name) {
		names := m.Reactions[symbol]
		kept := make([]string, 0, len(names)-1)
		for _, n := range names {
			if n != name {
				kept = append(kept, n)
			}
		}
		if len(kept) == 0 {
			delete(m.Reactions, symbol)
			if len(m.Reactions) == 0 {
				m.Reactions = nil
			}
		} else {
			m.Reactions[symbol] = kept
		}
	} else {
		if m.Reactions == nil {
			m.Reactions = map[string][]string{}
		}
		m.Reactions[symbol] = append(m.Reactions[symbol], name)
	}
	if err := s.persist(b); err != nil {
		return nil, err
	}
	logger.Info("reaction_toggled", "id", id, "reaction", symbol, "name", name)
	out := m.Clone().Reactions
	if out == nil {
		out = map[string][]string{}
	}
	return out, nil
}

// ClearAll unconditionally empties the board. There is deliberately no
// ownership check: with a name-only trust model every caller is an admin,
// and the asymmetry with Edit/Delete is intentional.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(models.Board{Messages: []models.Message{}}); err != nil {
		return err
	}
	logger.Info("board_cleared")
	return nil
}
