package wechat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"essay-panel/internal/essay"
)

type fakeTokens struct {
	calls int
	err   error
}

func (f *fakeTokens) Token(_ context.Context) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "tok", nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendText(_ context.Context, _, openID, _ string) error {
	f.sent = append(f.sent, openID)
	return f.err
}

func TestDispatcher_EmptySet(t *testing.T) {
	tokens := &fakeTokens{}
	api := &fakeSender{}
	d := NewDispatcher(tokens, api)

	delivered, failed := d.PushToAll(context.Background(), "content", nil)
	if delivered != 0 || failed != 0 {
		t.Fatalf("want (0,0), got (%d,%d)", delivered, failed)
	}
	if tokens.calls != 0 || len(api.sent) != 0 {
		t.Fatalf("network touched for empty set: tokens=%d sends=%d", tokens.calls, len(api.sent))
	}
}

func TestDispatcher_AllSucceed(t *testing.T) {
	api := &fakeSender{}
	d := NewDispatcher(&fakeTokens{}, api)

	ids := []string{"a", "b", "c"}
	delivered, failed := d.PushToAll(context.Background(), "content", ids)
	if delivered != 3 || failed != 0 {
		t.Fatalf("want (3,0), got (%d,%d)", delivered, failed)
	}
	if len(api.sent) != 3 {
		t.Fatalf("want 3 sends, got %v", api.sent)
	}
}

func TestDispatcher_AllFail(t *testing.T) {
	api := &fakeSender{err: errors.New("rejected")}
	d := NewDispatcher(&fakeTokens{}, api)

	delivered, failed := d.PushToAll(context.Background(), "content", []string{"a", "b", "c"})
	if delivered != 0 || failed != 3 {
		t.Fatalf("want (0,3), got (%d,%d)", delivered, failed)
	}
	// every recipient is still attempted
	if len(api.sent) != 3 {
		t.Fatalf("batch aborted early: %v", api.sent)
	}
}

func TestDispatcher_NoToken(t *testing.T) {
	api := &fakeSender{}
	d := NewDispatcher(&fakeTokens{err: errors.New("fetch failed")}, api)

	delivered, failed := d.PushToAll(context.Background(), "content", []string{"a", "b"})
	if delivered != 0 || failed != 2 {
		t.Fatalf("want (0,2), got (%d,%d)", delivered, failed)
	}
	if len(api.sent) != 0 {
		t.Fatalf("sent without a token: %v", api.sent)
	}
}

func TestFormatPush(t *testing.T) {
	rec := essay.Record{Title: "Go Concurrency", Author: "R. Pike", Chapter: "3", SubmittedAt: "2025-01-02 10:00:00"}
	body := FormatPush(rec)

	for _, want := range []string{"【最新论文推送】", "《Go Concurrency》", "R. Pike", "3", "2025-01-02 10:00:00"} {
		if !strings.Contains(body, want) {
			t.Fatalf("push body missing %q:\n%s", want, body)
		}
	}
}
