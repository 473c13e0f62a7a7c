package deliver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rmcnabb/farewatch/pkg/errors"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// Brevo delivers reports as transactional email through the Brevo API.
type Brevo struct {
	APIKey string
	From   string
	To     []string

	// Endpoint overrides the API URL, mainly for tests.
	Endpoint string

	HTTPClient *http.Client
}

// NewBrevo creates an email deliverer. The sender and at least one
// recipient are required; the key is checked at delivery time.
func NewBrevo(apiKey, from string, to []string) (*Brevo, error) {
	if from == "" || len(to) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "email delivery needs a sender and recipients")
	}
	return &Brevo{
		APIKey:     apiKey,
		From:       from,
		To:         to,
		Endpoint:   brevoEndpoint,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type brevoRecipient struct {
	Email string `json:"email"`
}

type brevoMessage struct {
	Sender      brevoRecipient   `json:"sender"`
	To          []brevoRecipient `json:"to"`
	Subject     string           `json:"subject"`
	HTMLContent string           `json:"htmlContent"`
}

func (b *Brevo) Deliver(ctx context.Context, r Report) error {
	if b.APIKey == "" {
		return errors.New(errors.ErrCodeConfigMissing, "BREVO_API_KEY is not set")
	}

	msg := brevoMessage{
		Sender:      brevoRecipient{Email: b.From},
		Subject:     r.Subject,
		HTMLContent: string(r.HTML),
	}
	for _, addr := range b.To {
		msg.To = append(msg.To, brevoRecipient{Email: addr})
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", b.APIKey)

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDelivery, err, "send email")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.New(errors.ErrCodeDelivery, "email API returned status %d", resp.StatusCode)
	}
	return nil
}

var _ Deliverer = (*Brevo)(nil)

// String identifies the deliverer in logs.
func (b *Brevo) String() string {
	return fmt.Sprintf("brevo(%d recipients)", len(b.To))
}
