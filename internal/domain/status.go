package domain

import "github.com/m04kA/SMC-VenueCRM/pkg/money"

// NextStatus derives the status after a payment or add-on change.
// Amounts are compared in cents.
func NextStatus(current BookingStatus, totalPaid, grandTotal float64) BookingStatus {
	if current.IsTerminal() {
		return current
	}

	paid := money.ToCents(totalPaid)
	grand := money.ToCents(grandTotal)

	switch {
	case paid >= grand:
		return StatusFullyPaid
	case current == StatusRescheduled:
		// a manual reschedule holds until the booking is paid in full
		return current
	case paid > 0:
		return StatusDepositPaid
	case paid == 0 && (current == StatusFullyPaid || current == StatusDepositPaid):
		return StatusNoDeposit
	default:
		return current
	}
}
