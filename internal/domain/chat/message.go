package chat

import (
	"errors"
	"time"
)

var (
	ErrEmptyText     = errors.New("chat: message text is empty")
	ErrNoCounterpart = errors.New("chat: no counterpart selected")
)

// Message is a single record from the flat message store. Messages carry no
// identifier; identity is the (sender, receiver, timestamp, text) tuple.
// Timestamps are ISO-8601 strings assigned at send time.
type Message struct {
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Involves reports whether the phone number is either party of the message.
func (m Message) Involves(phone string) bool {
	return m.Sender == phone || m.Receiver == phone
}

// Counterpart returns the other party relative to the given phone number.
func (m Message) Counterpart(phone string) string {
	if m.Sender == phone {
		return m.Receiver
	}
	return m.Sender
}

// Time parses the ISO-8601 timestamp. A malformed or missing timestamp maps
// to the zero time, which sorts before any well-formed one.
func (m Message) Time() time.Time {
	t, err := time.Parse(time.RFC3339, m.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Same reports identity by the full field tuple. Used to reconcile
// optimistic local entries against a fresh fetch of the store.
func (m Message) Same(other Message) bool {
	return m.Sender == other.Sender &&
		m.Receiver == other.Receiver &&
		m.Timestamp == other.Timestamp &&
		m.Text == other.Text
}
