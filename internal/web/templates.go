package web

import (
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"

	"essay-panel/internal/essay"
	"essay-panel/internal/storage"
)

// flash is a one-shot status box rendered after a redirect.
type flash struct {
	Text  string
	Level string // "success", "error" or "warn"
}

type panelData struct {
	Essays          []essay.Record
	SubscriberCount int
	FormMessage     *flash
	PushMessage     *flash
	RecentMessages  []storage.Message
}

func renderPanel(w http.ResponseWriter, data panelData) {
	tmpl := template.Must(template.New("panel").Parse(getPanelTemplate()))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		log.Errorf("error rendering panel template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func getPanelTemplate() string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Essay Panel</title>
    <style>
        body { font-family: 'Inter', sans-serif; background-color: #f7f9fc; color: #1f2937; margin: 0; }
        .container { max-width: 900px; margin: 0 auto; padding: 2rem 1rem; }
        .card { background: #ffffff; border-radius: 12px; box-shadow: 0 4px 6px rgba(0,0,0,0.1); padding: 1.5rem; margin-bottom: 2rem; }
        h1 { color: #1d4ed8; text-align: center; }
        h2 { margin-top: 0; }
        label { display: block; font-size: 0.875rem; margin-bottom: 0.25rem; }
        input[type=text] { width: 100%; padding: 0.5rem; margin-bottom: 1rem; border: 1px solid #d1d5db; border-radius: 6px; box-sizing: border-box; }
        button { padding: 0.5rem 1.5rem; color: #fff; font-weight: 600; border: none; border-radius: 8px; cursor: pointer; }
        .submit-btn { background: #2563eb; width: 100%; }
        .push-btn { background: #16a34a; }
        .flash { margin-top: 1rem; padding: 0.75rem; border-radius: 8px; border: 1px solid; }
        .flash.success { background: #dcfce7; color: #15803d; border-color: #4ade80; }
        .flash.error { background: #fee2e2; color: #b91c1c; border-color: #f87171; }
        .flash.warn { background: #fef9c3; color: #a16207; border-color: #facc15; }
        ol.essays { padding-left: 1.5rem; }
        ol.essays li { background: #fff; border-left: 4px solid #3b82f6; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); padding: 1rem; margin-bottom: 0.75rem; }
        .essay-title { font-weight: 700; }
        .essay-meta { font-size: 0.875rem; color: #4b5563; }
        .essay-time { font-size: 0.75rem; color: #9ca3af; }
        .empty { color: #6b7280; text-align: center; padding: 1rem 0; }
        table.messages { width: 100%; border-collapse: collapse; font-size: 0.875rem; }
        table.messages th, table.messages td { text-align: left; padding: 0.375rem 0.5rem; border-bottom: 1px solid #e5e7eb; }
        .muted { color: #6b7280; font-size: 0.875rem; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Essay Panel</h1>
        </header>

        <div class="card">
            <h2>A. Submit an essay</h2>
            <form action="/submit_essay" method="post">
                <div>
                    <label for="title">Title</label>
                    <input type="text" id="title" name="title" required>
                </div>
                <div>
                    <label for="author">Author</label>
                    <input type="text" id="author" name="author" required>
                </div>
                <div>
                    <label for="chapter">Chapter</label>
                    <input type="text" id="chapter" name="chapter" required>
                </div>
                <button type="submit" class="submit-btn">Submit</button>
            </form>
            {{if .FormMessage}}<div class="flash {{.FormMessage.Level}}">{{.FormMessage.Text}}</div>{{end}}
        </div>

        <div class="card">
            <h2>B. Collected essays</h2>
            {{if .Essays}}
            <ol class="essays">
                {{range .Essays}}
                <li>
                    <p class="essay-title">{{.Title}}</p>
                    <p class="essay-meta">Author: {{.Author}} &middot; Chapter: {{.Chapter}}</p>
                    <p class="essay-time">Submitted: {{.SubmittedAt}}</p>
                </li>
                {{end}}
            </ol>
            {{else}}
            <p class="empty">No essays collected yet.</p>
            {{end}}
        </div>

        <div class="card">
            <h2>C. Push to subscribers</h2>
            <p class="muted">Sends the latest essay to all {{.SubscriberCount}} known subscribers. The page reloads when the push finishes.</p>
            <form action="/push_all_essays" method="post">
                <button type="submit" class="push-btn">Push latest essay</button>
            </form>
            {{if .PushMessage}}<div class="flash {{.PushMessage.Level}}">{{.PushMessage.Text}}</div>{{end}}
        </div>

        {{if .RecentMessages}}
        <div class="card">
            <h2>D. Recent inbound messages</h2>
            <table class="messages">
                <tr><th>Received</th><th>Sender</th><th>Type</th><th>Content</th></tr>
                {{range .RecentMessages}}
                <tr><td>{{.ReceivedAt.Format "2006-01-02 15:04:05"}}</td><td>{{.SenderID}}</td><td>{{.MsgType}}</td><td>{{.Content}}</td></tr>
                {{end}}
            </table>
        </div>
        {{end}}
    </div>
</body>
</html>`
}
