// Package notify tells customers about their sales. Delivery is best
// effort: callers log failures and carry on.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

// LogNotifier only records that a sale would have been announced.
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifySale(_ context.Context, sale models.Sale, customer models.Customer) error {
	n.log.WithFields(logrus.Fields{
		"sale_id": sale.ID,
		"phone":   customer.PhoneNumber,
		"total":   sale.TotalAmount.StringFixed(2),
		"balance": customer.TotalCredit.StringFixed(2),
	}).Info("sale notification")
	return nil
}

// Message is the JSON body posted to the webhook.
type Message struct {
	SaleID        string `json:"sale_id"`
	To            string `json:"to"`
	CustomerName  string `json:"customer_name"`
	TotalAmount   string `json:"total_amount"`
	CreditEarned  string `json:"credit_earned"`
	CreditUsed    string `json:"credit_used"`
	CreditBalance string `json:"credit_balance"`
	Body          string `json:"body"`
	CreatedAt     string `json:"created_at"`
}

type WebhookConfig struct {
	URL        string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// WebhookNotifier posts a Message to a message relay such as a WhatsApp
// gateway. Non-2xx responses are retried up to MaxRetries times.
type WebhookNotifier struct {
	cfg    WebhookConfig
	client *http.Client
	log    logrus.FieldLogger
}

func NewWebhookNotifier(cfg WebhookConfig, log logrus.FieldLogger) *WebhookNotifier {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	return &WebhookNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

func (n *WebhookNotifier) NotifySale(ctx context.Context, sale models.Sale, customer models.Customer) error {
	payload, err := json.Marshal(NewMessage(sale, customer))
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= n.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.cfg.RetryDelay):
			}
		}
		lastErr = n.deliver(ctx, payload)
		if lastErr == nil {
			return nil
		}
		n.log.WithError(lastErr).WithFields(logrus.Fields{
			"sale_id": sale.ID,
			"attempt": attempt + 1,
		}).Debug("notification attempt failed")
	}
	return fmt.Errorf("deliver notification for sale %s: %w", sale.ID, lastErr)
}

func (n *WebhookNotifier) deliver(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+n.cfg.Token)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}

func NewMessage(sale models.Sale, customer models.Customer) Message {
	body := fmt.Sprintf("Hi %s, thank you for your purchase. Invoice %s: total Rs %s, credits earned %s, credit balance %s.",
		customer.IndividualName, sale.ID, sale.TotalAmount.StringFixed(2),
		sale.CreditEarned.StringFixed(2), customer.TotalCredit.StringFixed(2))
	return Message{
		SaleID:        sale.ID.String(),
		To:            customer.PhoneNumber,
		CustomerName:  customer.IndividualName,
		TotalAmount:   sale.TotalAmount.StringFixed(2),
		CreditEarned:  sale.CreditEarned.StringFixed(2),
		CreditUsed:    sale.CreditUsed.StringFixed(2),
		CreditBalance: customer.TotalCredit.StringFixed(2),
		Body:          body,
		CreatedAt:     sale.CreatedAt.Format(time.RFC3339),
	}
}
