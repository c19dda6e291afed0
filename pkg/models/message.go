package models

// Message is the sole persisted entity. Field names match the wire and
// storage contract exactly; the whole board is serialized as one document.
type Message struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	// Reactions maps a reaction symbol to the names that applied it. A
	// symbol key is absent unless at least one name is present.
	Reactions map[string][]string `json:"reactions,omitempty"`
	Edited    bool                `json:"edited"`
	EditedAt  int64               `json:"editedAt,omitempty"`
}

// HasReaction reports whether name has applied symbol to the message.
func (m *Message) HasReaction(symbol, name string) bool {
	for _, n := range m.Reactions[symbol] {
		if n == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand messages across API
// boundaries without aliasing the stored reaction slices.
func (m Message) Clone() Message {
	out := m
	if m.Reactions != nil {
		out.Reactions = make(map[string][]string, len(m.Reactions))
		for k, v := range m.Reactions {
			out.Reactions[k] = append([]string(nil), v...)
		}
	}
	return out
}
