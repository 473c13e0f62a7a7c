package deliver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rmcnabb/farewatch/pkg/errors"
)

// Webhook POSTs the report as JSON to a configured URL.
type Webhook struct {
	URL string

	HTTPClient *http.Client
}

// NewWebhook creates a webhook deliverer.
func NewWebhook(url string) (*Webhook, error) {
	if url == "" {
		return nil, errors.New(errors.ErrCodeConfigMissing, "webhook delivery needs a URL")
	}
	return &Webhook{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type webhookPayload struct {
	RunID   string `json:"run_id"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (w *Webhook) Deliver(ctx context.Context, r Report) error {
	body, err := json.Marshal(webhookPayload{
		RunID:   r.RunID,
		Subject: r.Subject,
		HTML:    string(r.HTML),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDelivery, err, "post webhook")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.New(errors.ErrCodeDelivery, "webhook returned status %d", resp.StatusCode)
	}
	return nil
}

var _ Deliverer = (*Webhook)(nil)
