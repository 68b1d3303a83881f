package wechat

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeFetcher struct {
	calls int
	token Token
	err   error
}

func (f *fakeFetcher) FetchToken(_ context.Context) (Token, error) {
	f.calls++
	if f.err != nil {
		return Token{}, f.err
	}
	return f.token, nil
}

func TestTokenCache_FetchOnce(t *testing.T) {
	f := &fakeFetcher{token: Token{AccessToken: "t1", ExpiresIn: 7200}}
	tc := NewTokenCache(f)

	got, err := tc.Token(context.Background())
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if got != "t1" {
		t.Fatalf("want t1, got %s", got)
	}
	if _, err := tc.Token(context.Background()); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if f.calls != 1 {
		t.Fatalf("want 1 fetch, got %d", f.calls)
	}
}

func TestTokenCache_SafetyMargin(t *testing.T) {
	f := &fakeFetcher{token: Token{AccessToken: "t1", ExpiresIn: 7200}}
	tc := NewTokenCache(f)

	base := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	now := base
	tc.now = func() time.Time { return now }

	if _, err := tc.Token(context.Background()); err != nil {
		t.Fatalf("initial fetch: %v", err)
	}

	// 7200s minus the 300s margin: still cached one second before
	now = base.Add(6899 * time.Second)
	if _, err := tc.Token(context.Background()); err != nil {
		t.Fatalf("within window: %v", err)
	}
	if f.calls != 1 {
		t.Fatalf("refetched inside the window: %d", f.calls)
	}

	now = base.Add(6901 * time.Second)
	f.token = Token{AccessToken: "t2", ExpiresIn: 7200}
	got, err := tc.Token(context.Background())
	if err != nil {
		t.Fatalf("after expiry: %v", err)
	}
	if got != "t2" {
		t.Fatalf("stale token after expiry: %s", got)
	}
	if f.calls != 2 {
		t.Fatalf("want exactly one refetch, got %d fetches", f.calls)
	}
}

func TestTokenCache_FetchErrorNotCached(t *testing.T) {
	f := &fakeFetcher{err: errors.New("network down")}
	tc := NewTokenCache(f)

	if _, err := tc.Token(context.Background()); err == nil {
		t.Fatalf("want error on failed fetch")
	}
	if f.calls != 1 {
		t.Fatalf("want 1 fetch, got %d", f.calls)
	}

	// the next call retries instead of serving a cached failure
	f.err = nil
	f.token = Token{AccessToken: "t1", ExpiresIn: 7200}
	got, err := tc.Token(context.Background())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got != "t1" {
		t.Fatalf("want t1, got %s", got)
	}
	if f.calls != 2 {
		t.Fatalf("want 2 fetches, got %d", f.calls)
	}
}
