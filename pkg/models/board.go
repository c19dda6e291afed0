package models

// Board is the ordered message collection. Insertion order is chronological
// order is display order; the entire board is the unit of persistence.
type Board struct {
	Messages []Message `json:"messages"`
}

// Find returns the index of the message with the given id, or -1.
func (b *Board) Find(id string) int {
	for i := range b.Messages {
		if b.Messages[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone deep-copies the board.
func (b Board) Clone() Board {
	out := Board{Messages: make([]Message, 0, len(b.Messages))}
	for _, m := range b.Messages {
		out.Messages = append(out.Messages, m.Clone())
	}
	return out
}
