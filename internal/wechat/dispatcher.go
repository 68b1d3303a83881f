package wechat

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"essay-panel/internal/essay"
	"essay-panel/internal/metrics"
)

type tokenSource interface {
	Token(ctx context.Context) (string, error)
}

type textSender interface {
	SendText(ctx context.Context, accessToken, openID, content string) error
}

// Dispatcher fans a notification out to every known subscriber.
type Dispatcher struct {
	tokens tokenSource
	api    textSender
}

func NewDispatcher(tokens tokenSource, api textSender) *Dispatcher {
	return &Dispatcher{tokens: tokens, api: api}
}

// FormatPush renders the notification body for one essay record.
func FormatPush(rec essay.Record) string {
	return fmt.Sprintf("【最新论文推送】\n\n标题: 《%s》\n作者: %s\n章节: %s\n提交时间: %s",
		rec.Title, rec.Author, rec.Chapter, rec.SubmittedAt)
}

// PushToAll sends content to every id, counting delivered and failed
// sends. A failed send never aborts the batch; an empty id set sends
// nothing and performs no network calls.
func (d *Dispatcher) PushToAll(ctx context.Context, content string, ids []string) (delivered, failed int) {
	if len(ids) == 0 {
		log.Warnf("push requested with no known subscribers")
		return 0, 0
	}

	log.Infof("pushing to %d subscribers", len(ids))
	for _, id := range ids {
		if err := d.sendOne(ctx, id, content); err != nil {
			log.Errorf("push to %s failed: %v", id, err)
			failed++
			continue
		}
		delivered++
	}

	metrics.PushMessages.WithLabelValues("delivered").Add(float64(delivered))
	metrics.PushMessages.WithLabelValues("failed").Add(float64(failed))
	log.Infof("push finished: delivered=%d failed=%d", delivered, failed)
	return delivered, failed
}

// sendOne resolves a token and delivers to a single subscriber. A missing
// token counts as that subscriber's failure, not the batch's.
func (d *Dispatcher) sendOne(ctx context.Context, id, content string) error {
	token, err := d.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("no access token: %w", err)
	}
	return d.api.SendText(ctx, token, id, content)
}
