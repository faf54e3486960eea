package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"middleware-formguard/forms"
	"middleware-formguard/middleware/dupguard/domain"
)

// WebhookNotifier faz POST de um JSON para cada duplicada bloqueada.
// O envio é assíncrono; falhas só vão para o log.
type WebhookNotifier struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
	Log     *slog.Logger

	wg sync.WaitGroup
}

type webhookPayload struct {
	Event     string                  `json:"event"`
	SessionID string                  `json:"sessionId"`
	FormID    int                     `json:"formId"`
	Outcome   forms.ValidationOutcome `json:"outcome"`
	Values    url.Values              `json:"values"`
	At        time.Time               `json:"at"`
}

func (n *WebhookNotifier) DuplicateBlocked(_ context.Context, ev domain.DuplicateEvent) {
	body, err := json.Marshal(webhookPayload{
		Event:     "duplicate_blocked",
		SessionID: ev.SessionID,
		FormID:    ev.FormID,
		Outcome:   ev.Outcome,
		Values:    ev.Values,
		At:        ev.At.UTC(),
	})
	if err != nil {
		n.logger().Warn("webhook encode failed", "err", err)
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.post(body); err != nil {
			n.logger().Warn("webhook delivery failed", "url", n.URL, "form_id", ev.FormID, "err", err)
		}
	}()
}

// Wait espera os envios em andamento (usado no shutdown e nos testes).
func (n *WebhookNotifier) Wait() { n.wg.Wait() }

func (n *WebhookNotifier) post(body []byte) error {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (n *WebhookNotifier) logger() *slog.Logger {
	if n.Log != nil {
		return n.Log
	}
	return slog.Default()
}
