package essay

// Record is a single submitted essay.
// Records are immutable once written and keep their submission order;
// the last appended record is the latest one. Duplicates are allowed.
type Record struct {
	Title       string
	Author      string
	Chapter     string
	SubmittedAt string
}

// Store abstracts persistence of essay records.
// List returns records most recent first. Latest returns the newest
// record, or nil when nothing has been submitted yet.
// Implementations must be safe for concurrent use.
type Store interface {
	Append(title, author, chapter string) (Record, error)
	List() ([]Record, error)
	Latest() (*Record, error)
}
