package wechat

import (
	"encoding/xml"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"essay-panel/internal/metrics"
	"essay-panel/internal/storage"
	"essay-panel/internal/subscriber"
)

// ContentTypeXML is the content type of webhook replies.
const ContentTypeXML = "application/xml"

// Reply strings sent back to subscribers. The platform renders them verbatim.
const (
	replyTextFormat   = "您已发送消息：[%s]。\n\n当前系统专注于论文信息收集和展示，如有需要，请访问Web页面进行操作。"
	replySubscribe    = "欢迎关注！您的 OpenID 已记录，我们将及时向您推送最新的论文信息摘要。请访问Web页面提交论文信息。"
	replyOtherEvent   = "当前系统已记录您的ID。发送任意消息可重新触发推送。"
	replyUnsupported  = "当前系统仅支持文本消息。"
	replyParseFailure = "处理失败"
)

// Webhook verifies and processes inbound platform callbacks.
type Webhook struct {
	token string
	subs  subscriber.Store
	rec   storage.Recorder

	now func() time.Time
}

// NewWebhook creates a processor around the shared handshake token.
// rec may be nil to disable the message audit log.
func NewWebhook(token string, subs subscriber.Store, rec storage.Recorder) *Webhook {
	return &Webhook{token: token, subs: subs, rec: rec, now: time.Now}
}

// Verify checks the handshake signature of a verification request.
func (h *Webhook) Verify(signature, timestamp, nonce string) bool {
	return CheckSignature(h.token, signature, timestamp, nonce)
}

// Process parses one inbound message, registers its sender and builds the
// reply payload. Malformed payloads yield a fixed failure reply, never an
// error: the platform expects a well-formed response within a short
// timeout and treats anything else as an integration fault.
func (h *Webhook) Process(body []byte) ([]byte, string) {
	var in InboundMessage
	if err := xml.Unmarshal(body, &in); err != nil {
		log.Errorf("failed to parse webhook payload: %v", err)
		metrics.WebhookMessages.WithLabelValues("invalid").Inc()
		return h.reply("temp", "temp", replyParseFailure), ContentTypeXML
	}
	if in.ToUserName == "" || in.FromUserName == "" || in.MsgType == "" {
		log.Errorf("webhook payload missing required fields")
		metrics.WebhookMessages.WithLabelValues("invalid").Inc()
		return h.reply("temp", "temp", replyParseFailure), ContentTypeXML
	}

	// every sender becomes a push subscriber, whatever they sent
	if err := h.subs.Add(in.FromUserName); err != nil {
		log.Errorf("failed to record subscriber %s: %v", in.FromUserName, err)
	}
	h.recordMessage(in)
	metrics.WebhookMessages.WithLabelValues(in.MsgType).Inc()

	var content string
	switch in.MsgType {
	case "text":
		content = fmt.Sprintf(replyTextFormat, in.Content)
	case "event":
		if in.Event == "subscribe" {
			content = replySubscribe
		} else {
			content = replyOtherEvent
		}
	default:
		content = replyUnsupported
	}
	return h.reply(in.FromUserName, in.ToUserName, content), ContentTypeXML
}

func (h *Webhook) reply(toUser, fromUser, content string) []byte {
	out, err := encodeTextReply(toUser, fromUser, h.now().Unix(), content)
	if err != nil {
		log.Errorf("failed to encode reply: %v", err)
		return []byte{}
	}
	return out
}

func (h *Webhook) recordMessage(in InboundMessage) {
	if h.rec == nil {
		return
	}
	content := in.Content
	if in.MsgType == "event" {
		content = in.Event
	}
	msg := storage.Message{ReceivedAt: h.now(), SenderID: in.FromUserName, MsgType: in.MsgType, Content: content}
	if err := h.rec.Append(msg); err != nil {
		log.Errorf("failed to record inbound message: %v", err)
	}
}
