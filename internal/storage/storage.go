package storage

import "time"

// Message is a single inbound message observed by the webhook endpoint.
// It is intentionally simple to allow future DB implementations.
// Messages are expected to be appended in arrival order.
type Message struct {
	ReceivedAt time.Time
	SenderID   string
	MsgType    string
	Content    string
}

// Recorder abstracts persistence of the inbound message log.
// Implementations can be file-based, database, etc.
// Load should return messages in arrival order.
// Append should atomically add a new message.
// Implementations must be safe for concurrent use.
type Recorder interface {
	Append(msg Message) error
	Load() ([]Message, error)
}
