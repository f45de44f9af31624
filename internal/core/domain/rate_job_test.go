package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestJobSignature_OrderIndependent(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	a := domain.JobSignature([]string{"EUR/USD", "GBP/USD"}, start)
	b := domain.JobSignature([]string{"GBP/USD", "EUR/USD"}, start)

	assert.Equal(t, a, b)
	assert.Equal(t, "EUR/USD,GBP/USD:2024-01-15", a)
}

func TestJobSignature_DoesNotMutateInput(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	pairs := []string{"GBP/USD", "EUR/USD"}

	domain.JobSignature(pairs, start)

	assert.Equal(t, []string{"GBP/USD", "EUR/USD"}, pairs)
}

func TestJobSignature_DistinguishesRangeStart(t *testing.T) {
	pairs := []string{"EUR/USD"}
	a := domain.JobSignature(pairs, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	b := domain.JobSignature(pairs, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC))

	assert.NotEqual(t, a, b)
}

func TestJobStatus_Lifecycle(t *testing.T) {
	assert.True(t, domain.JobStatusPending.IsActive())
	assert.True(t, domain.JobStatusProcessing.IsActive())
	assert.False(t, domain.JobStatusCompleted.IsActive())
	assert.False(t, domain.JobStatusFailed.IsActive())

	assert.True(t, domain.JobStatusCompleted.IsTerminal())
	assert.True(t, domain.JobStatusFailed.IsTerminal())
	assert.False(t, domain.JobStatusPending.IsTerminal())
	assert.False(t, domain.JobStatusProcessing.IsTerminal())
}

func TestMissingRateGap_Pair(t *testing.T) {
	gap := domain.MissingRateGap{CurrencyCode: "EUR", BaseCurrencyCode: "USD"}
	assert.Equal(t, "EUR/USD", gap.Pair())
}
