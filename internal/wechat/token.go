package wechat

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"essay-panel/internal/metrics"
)

// expiryMargin is subtracted from the provider TTL so a cached token is
// refreshed before it can expire mid-flight.
const expiryMargin = 300 * time.Second

type tokenFetcher interface {
	FetchToken(ctx context.Context) (Token, error)
}

// TokenCache hands out a valid access token, fetching a fresh one only
// when the cached token has passed its safety margin. A failed fetch is
// returned to the caller without retry; the next call fetches again.
type TokenCache struct {
	fetcher tokenFetcher

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	now func() time.Time
}

func NewTokenCache(fetcher tokenFetcher) *TokenCache {
	return &TokenCache{fetcher: fetcher, now: time.Now}
}

// Token returns the cached access token, refreshing it when expired.
func (tc *TokenCache) Token(ctx context.Context) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.token != "" && tc.now().Before(tc.expiresAt) {
		return tc.token, nil
	}

	t, err := tc.fetcher.FetchToken(ctx)
	if err != nil {
		metrics.TokenFetches.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to fetch access token: %w", err)
	}
	metrics.TokenFetches.WithLabelValues("success").Inc()

	tc.token = t.AccessToken
	tc.expiresAt = tc.now().Add(time.Duration(t.ExpiresIn)*time.Second - expiryMargin)
	log.Infof("access token refreshed, valid until %s", tc.expiresAt.Format(time.RFC3339))
	return tc.token, nil
}
