package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/loyalty-billing-service/internal/models"
)

func sampleSale() (models.Sale, models.Customer) {
	sale := models.Sale{
		ID:           uuid.New(),
		TotalAmount:  decimal.RequireFromString("110"),
		CreditEarned: decimal.RequireFromString("8"),
		CreditUsed:   decimal.Zero,
		CreatedAt:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	customer := models.Customer{
		PhoneNumber:    "9876543210",
		IndividualName: "Asha",
		TotalCredit:    decimal.RequireFromString("58"),
	}
	return sale, customer
}

func TestWebhookNotifierDelivers(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	log, _ := test.NewNullLogger()
	n := NewWebhookNotifier(WebhookConfig{URL: srv.URL, Token: "secret"}, log)
	sale, customer := sampleSale()

	require.NoError(t, n.NotifySale(context.Background(), sale, customer))
	assert.Equal(t, "9876543210", got.To)
	assert.Equal(t, "110.00", got.TotalAmount)
	assert.Equal(t, "58.00", got.CreditBalance)
	assert.Contains(t, got.Body, sale.ID.String())
}

func TestWebhookNotifierRetriesThenFails(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	log, _ := test.NewNullLogger()
	n := NewWebhookNotifier(WebhookConfig{URL: srv.URL, MaxRetries: 2, RetryDelay: time.Millisecond}, log)
	sale, customer := sampleSale()

	err := n.NotifySale(context.Background(), sale, customer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestLogNotifier(t *testing.T) {
	log, hook := test.NewNullLogger()
	n := NewLogNotifier(log)
	sale, customer := sampleSale()

	require.NoError(t, n.NotifySale(context.Background(), sale, customer))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "110.00", hook.LastEntry().Data["total"])
}
