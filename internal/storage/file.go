package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const receivedAtLayout = "2006-01-02 15:04:05"

var header = []string{"received_at", "sender_id", "msg_type", "content"}

// FileRecorder appends messages to a CSV file, one row per message.
type FileRecorder struct {
	path string
	mu   sync.Mutex
}

func NewFileRecorder(path string) (*FileRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to init log file: %w", err)
	}
	if st, err := f.Stat(); err == nil && st.Size() == 0 {
		w := csv.NewWriter(f)
		_ = w.Write(header)
		w.Flush()
	}
	_ = f.Close()
	return &FileRecorder{path: path}, nil
}

func (r *FileRecorder) Append(msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open append: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	w := csv.NewWriter(f)
	row := []string{msg.ReceivedAt.Format(receivedAtLayout), msg.SenderID, msg.MsgType, msg.Content}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("encode append: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush append: %w", err)
	}
	return nil
}

func (r *FileRecorder) Load() ([]Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("open read: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1
	rows, err := rd.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var msgs []Message
	for _, row := range rows {
		if len(row) < 4 || row[0] == header[0] {
			continue
		}
		ts, err := time.Parse(receivedAtLayout, row[0])
		if err != nil {
			continue
		}
		msgs = append(msgs, Message{ReceivedAt: ts, SenderID: row[1], MsgType: row[2], Content: row[3]})
	}
	return msgs, nil
}
