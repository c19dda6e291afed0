package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"calcboard/pkg/logger"
	"calcboard/pkg/models"
)

// The whole board is persisted as a single JSON document under one key.
// There are no partial updates at this layer; Store replaces the value.
const boardKey = "board:v1"

var (
	db     *pebble.DB
	dbPath string
)

// Open opens (or creates) a Pebble database at the given path and keeps
// a global handle for simple usage in this package.
func Open(path string) error {
	var err error
	logger.Info("opening_pebble_db", "path", path)
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return err
	}
	dbPath = path
	logger.Info("pebble_opened", "path", path)
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

// LoadBoard reads the persisted board. A missing key is not an error: it
// yields an empty board, matching first-run behavior.
func LoadBoard() (models.Board, error) {
	if db == nil {
		return models.Board{}, fmt.Errorf("pebble not opened; call store.Open first")
	}
	val, closer, err := db.Get([]byte(boardKey))
	if errors.Is(err, pebble.ErrNotFound) {
		return models.Board{Messages: []models.Message{}}, nil
	}
	if err != nil {
		logger.Error("load_board_failed", "error", err)
		return models.Board{}, err
	}
	defer closer.Close()
	var b models.Board
	if err := json.Unmarshal(val, &b); err != nil {
		logger.Error("load_board_decode_failed", "error", err)
		return models.Board{}, fmt.Errorf("invalid stored board: %w", err)
	}
	if b.Messages == nil {
		b.Messages = []models.Message{}
	}
	return b, nil
}

// SaveBoard replaces the persisted board with the given value. The write
// is synced so a crash cannot lose an acknowledged mutation.
func SaveBoard(b models.Board) error {
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}
	if err := db.Set([]byte(boardKey), data, pebble.Sync); err != nil {
		logger.Error("save_board_failed", "error", err)
		return err
	}
	logger.Debug("board_saved", "messages", len(b.Messages))
	return nil
}
