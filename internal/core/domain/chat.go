package domain

import "time"

// ChatMessage is one question/answer turn in the append-only history
// log. Messages are immutable once created; the log supports no
// updates or deletes.
type ChatMessage struct {
	// ID is the unique message identifier.
	ID string

	// Question is the user's question text.
	Question string

	// Answer is the grounded answer text.
	Answer string

	// Sources is the distinct set of source filenames among the
	// retrieved chunks, in first-seen retrieval order.
	Sources []string

	// Timestamp is when the message was recorded.
	Timestamp time.Time
}
