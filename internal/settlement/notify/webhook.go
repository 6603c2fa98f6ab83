package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookNotifier posta mensagens num webhook de canal de chat
// (payload {"content": "..."}, compatível com webhooks do Discord).
// É colaborador best-effort: quem chama ignora falha.
type WebhookNotifier struct {
	URL  string
	HTTP *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:  url,
		HTTP: &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *WebhookNotifier) Post(ctx context.Context, message string) error {
	body, _ := json.Marshal(map[string]string{"content": message})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("webhook http %d", res.StatusCode)
	}
	return nil
}
