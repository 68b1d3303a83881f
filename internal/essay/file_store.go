package essay

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const submittedAtLayout = "2006-01-02 15:04:05"

var header = []string{"title", "author", "chapter", "submitted_at"}

// FileStore keeps essay records in a CSV file with a header row.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileStore{path: path}, nil
}

func (s *FileStore) Append(title, author, chapter string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := Record{
		Title:       title,
		Author:      author,
		Chapter:     chapter,
		SubmittedAt: time.Now().Format(submittedAtLayout),
	}
	records, err := s.loadUnlocked()
	if err != nil {
		return Record{}, err
	}
	records = append(records, rec)
	if err := s.saveUnlocked(records); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *FileStore) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.loadUnlocked()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
	}
	return out, nil
}

func (s *FileStore) Latest() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.loadUnlocked()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	rec := records[len(records)-1]
	return &rec, nil
}

func (s *FileStore) loadUnlocked() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return []Record{}, nil
	}
	var records []Record
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == header[0] {
			continue
		}
		if len(row) < 4 {
			continue
		}
		records = append(records, Record{Title: row[0], Author: row[1], Chapter: row[2], SubmittedAt: row[3]})
	}
	return records, nil
}

func (s *FileStore) saveUnlocked(records []Record) error {
	f, err := os.OpenFile(s.path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write([]string{rec.Title, rec.Author, rec.Chapter, rec.SubmittedAt}); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
