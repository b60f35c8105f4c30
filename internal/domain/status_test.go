package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current BookingStatus
		paid    float64
		grand   float64
		want    BookingStatus
	}{
		{"preliminary without payments stays", StatusPreliminary, 0, 400, StatusPreliminary},
		{"no_deposit without payments stays", StatusNoDeposit, 0, 400, StatusNoDeposit},
		{"first partial payment", StatusPreliminary, 150, 400, StatusDepositPaid},
		{"partial from no_deposit", StatusNoDeposit, 1, 400, StatusDepositPaid},
		{"exact full payment", StatusDepositPaid, 400, 400, StatusFullyPaid},
		{"overpayment", StatusPreliminary, 500, 400, StatusFullyPaid},
		{"full drops back to partial", StatusFullyPaid, 150, 400, StatusDepositPaid},
		{"all payments removed from deposit_paid", StatusDepositPaid, 0, 400, StatusNoDeposit},
		{"all payments removed from fully_paid", StatusFullyPaid, 0, 400, StatusNoDeposit},
		{"cancelled ignores payments", StatusCancelled, 400, 400, StatusCancelled},
		{"completed ignores removal", StatusCompleted, 0, 400, StatusCompleted},
		{"rescheduled keeps on partial", StatusRescheduled, 100, 400, StatusRescheduled},
		{"rescheduled keeps on zero", StatusRescheduled, 0, 400, StatusRescheduled},
		{"rescheduled becomes fully paid", StatusRescheduled, 400, 400, StatusFullyPaid},
		{"cent precision below total", StatusPreliminary, 399.99, 400, StatusDepositPaid},
		{"float noise counts as full", StatusDepositPaid, 0.1 + 0.2, 0.3, StatusFullyPaid},
		{"zero grand total is fully paid", StatusPreliminary, 0, 0, StatusFullyPaid},
		{"zero grand total stays fully paid", StatusFullyPaid, 0, 0, StatusFullyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStatus(tt.current, tt.paid, tt.grand))
		})
	}
}

func TestNextStatus_Idempotent(t *testing.T) {
	for _, s := range AllStatuses {
		for _, paid := range []float64{0, 150, 400} {
			once := NextStatus(s, paid, 400)
			assert.Equal(t, once, NextStatus(once, paid, 400), "status=%s paid=%v", s, paid)
		}
	}
}

func TestBookingStatus_Predicates(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusRescheduled.IsTerminal())

	assert.True(t, StatusRescheduled.IsManualTarget())
	assert.False(t, StatusFullyPaid.IsManualTarget())
	assert.False(t, StatusNoDeposit.IsManualTarget())

	assert.True(t, StatusDepositPaid.IsValid())
	assert.False(t, BookingStatus("confirmed").IsValid())
}
