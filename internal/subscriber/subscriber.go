package subscriber

// Store tracks the opaque per-user ids issued by the messaging platform.
// Add is idempotent; ids are never removed. All returns the distinct ids
// in first-seen order. Implementations must be safe for concurrent use.
type Store interface {
	Add(id string) error
	All() ([]string, error)
}
