package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"essay-panel/internal/essay"
	"essay-panel/internal/metrics"
	"essay-panel/internal/storage"
	"essay-panel/internal/subscriber"
	"essay-panel/internal/wechat"
)

const recentMessageLimit = 10

type pusher interface {
	PushToAll(ctx context.Context, content string, ids []string) (delivered, failed int)
}

type webhookProcessor interface {
	Verify(signature, timestamp, nonce string) bool
	Process(body []byte) ([]byte, string)
}

// Handler serves the admin panel and the platform webhook endpoints.
type Handler struct {
	essays essay.Store
	subs   subscriber.Store
	msgs   storage.Recorder
	push   pusher
	hook   webhookProcessor

	startTime time.Time
}

// NewHandler wires the handler's collaborators. msgs may be nil when the
// message audit log is disabled.
func NewHandler(essays essay.Store, subs subscriber.Store, msgs storage.Recorder, push pusher, hook webhookProcessor) *Handler {
	return &Handler{
		essays:    essays,
		subs:      subs,
		msgs:      msgs,
		push:      push,
		hook:      hook,
		startTime: time.Now(),
	}
}

// MainPage renders the panel with the essay list and any flash messages
// carried in the query string by a previous redirect.
func (h *Handler) MainPage(w http.ResponseWriter, r *http.Request) {
	essays, err := h.essays.List()
	if err != nil {
		log.Errorf("failed to list essays: %v", err)
	}
	subs, err := h.subs.All()
	if err != nil {
		log.Errorf("failed to list subscribers: %v", err)
	}

	renderPanel(w, panelData{
		Essays:          essays,
		SubscriberCount: len(subs),
		FormMessage:     formFlash(r.URL.Query().Get("form_status")),
		PushMessage:     pushFlash(r.URL.Query().Get("push_status")),
		RecentMessages:  h.recentMessages(recentMessageLimit),
	})
}

// SubmitEssay appends a record from the panel form and redirects back
// with a status flag.
func (h *Handler) SubmitEssay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Errorf("failed to parse submit form: %v", err)
		http.Redirect(w, r, "/?form_status=error", http.StatusSeeOther)
		return
	}
	title := strings.TrimSpace(r.PostFormValue("title"))
	author := strings.TrimSpace(r.PostFormValue("author"))
	chapter := strings.TrimSpace(r.PostFormValue("chapter"))
	if title == "" || author == "" || chapter == "" {
		http.Redirect(w, r, "/?form_status=error", http.StatusSeeOther)
		return
	}

	rec, err := h.essays.Append(title, author, chapter)
	if err != nil {
		log.Errorf("failed to save essay: %v", err)
		http.Redirect(w, r, "/?form_status=error", http.StatusSeeOther)
		return
	}
	metrics.EssaysSubmitted.Inc()
	log.Infof("essay %q by %s saved", rec.Title, rec.Author)
	http.Redirect(w, r, "/?form_status=success", http.StatusSeeOther)
}

// PushAllEssays sends the latest essay to every subscriber and redirects
// back with the outcome.
func (h *Handler) PushAllEssays(w http.ResponseWriter, r *http.Request) {
	latest, err := h.essays.Latest()
	if err != nil {
		log.Errorf("failed to load latest essay: %v", err)
		http.Redirect(w, r, "/?push_status=error", http.StatusSeeOther)
		return
	}
	if latest == nil {
		log.Warnf("push requested but no essay has been submitted yet")
		http.Redirect(w, r, "/?push_status=no_essay", http.StatusSeeOther)
		return
	}

	ids, err := h.subs.All()
	if err != nil {
		log.Errorf("failed to load subscribers: %v", err)
		http.Redirect(w, r, "/?push_status=error", http.StatusSeeOther)
		return
	}

	delivered, failed := h.push.PushToAll(r.Context(), wechat.FormatPush(*latest), ids)
	if delivered > 0 {
		http.Redirect(w, r, "/?push_status=success", http.StatusSeeOther)
		return
	}
	log.Warnf("push delivered nothing: failed=%d", failed)
	http.Redirect(w, r, "/?push_status=error", http.StatusSeeOther)
}

// WeChatVerify answers the platform's endpoint-ownership handshake.
func (h *Handler) WeChatVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if h.hook.Verify(q.Get("signature"), q.Get("timestamp"), q.Get("nonce")) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(q.Get("echostr")))
		return
	}
	log.Warnf("webhook signature verification failed")
	http.Error(w, "signature verification failed", http.StatusBadRequest)
}

// WeChatMessage processes one inbound platform callback and writes the
// reply payload. It always answers 200 with well-formed XML.
func (h *Handler) WeChatMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("failed to read webhook body: %v", err)
		body = nil
	}
	reply, contentType := h.hook.Process(body)
	w.Header().Set("Content-Type", contentType)
	w.Write(reply)
}

// Status reports service health.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "essay-panel",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startTime).String(),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) recentMessages(limit int) []storage.Message {
	if h.msgs == nil {
		return nil
	}
	msgs, err := h.msgs.Load()
	if err != nil {
		log.Errorf("failed to load message log: %v", err)
		return nil
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]storage.Message, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		out = append(out, msgs[i])
	}
	return out
}

func formFlash(status string) *flash {
	switch status {
	case "success":
		return &flash{Text: "Essay submitted successfully.", Level: "success"}
	case "error":
		return &flash{Text: "Essay submission failed, check the input or file permissions.", Level: "error"}
	}
	return nil
}

func pushFlash(status string) *flash {
	switch status {
	case "success":
		return &flash{Text: "Latest essay pushed to all subscribers.", Level: "success"}
	case "error":
		return &flash{Text: "Push failed, check the account credentials or network.", Level: "error"}
	case "no_essay":
		return &flash{Text: "Push finished, but there is no essay to deliver yet.", Level: "warn"}
	}
	return nil
}
