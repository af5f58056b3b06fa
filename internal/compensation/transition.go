package compensation

import (
	"time"

	"salescrm/internal/model"
)

// BecameConfirmed reports whether writing next over previous is the first entry into CONFIRMED.
// previous is nil when the sale is being created.
func BecameConfirmed(previous *string, next string) bool {
	if next != model.SaleStatusConfirmed {
		return false
	}
	return previous == nil || *previous != model.SaleStatusConfirmed
}

// ApplyTransition moves sale from previous to its current Status and stamps ConfirmedAt on the
// first confirmation. ConfirmedAt is never overwritten once set.
func ApplyTransition(previous *string, sale *model.Sale, now time.Time) bool {
	confirmed := BecameConfirmed(previous, sale.Status)
	if sale.Status == model.SaleStatusConfirmed && sale.ConfirmedAt == nil {
		stamped := now
		sale.ConfirmedAt = &stamped
	}
	return confirmed
}
