package compensation

import (
	"testing"
	"time"

	"salescrm/internal/model"

	"github.com/stretchr/testify/assert"
)

func status(s string) *string { return &s }

func TestBecameConfirmed(t *testing.T) {
	cases := []struct {
		name     string
		previous *string
		next     string
		want     bool
	}{
		{"created confirmed", nil, model.SaleStatusConfirmed, true},
		{"created draft", nil, model.SaleStatusDraft, false},
		{"draft to confirmed", status(model.SaleStatusDraft), model.SaleStatusConfirmed, true},
		{"pending to confirmed", status(model.SaleStatusPending), model.SaleStatusConfirmed, true},
		{"cancelled to confirmed", status(model.SaleStatusCancelled), model.SaleStatusConfirmed, true},
		{"confirmed resave", status(model.SaleStatusConfirmed), model.SaleStatusConfirmed, false},
		{"confirmed to cancelled", status(model.SaleStatusConfirmed), model.SaleStatusCancelled, false},
		{"draft to pending", status(model.SaleStatusDraft), model.SaleStatusPending, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BecameConfirmed(tc.previous, tc.next))
		})
	}
}

func TestApplyTransitionStampsOnce(t *testing.T) {
	first := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	sale := &model.Sale{Status: model.SaleStatusConfirmed}

	assert.True(t, ApplyTransition(status(model.SaleStatusDraft), sale, first))
	if assert.NotNil(t, sale.ConfirmedAt) {
		assert.Equal(t, first, *sale.ConfirmedAt)
	}

	// leave and come back: the stamp survives
	sale.Status = model.SaleStatusCancelled
	assert.False(t, ApplyTransition(status(model.SaleStatusConfirmed), sale, first.Add(time.Hour)))
	sale.Status = model.SaleStatusConfirmed
	assert.True(t, ApplyTransition(status(model.SaleStatusCancelled), sale, first.Add(2*time.Hour)))
	assert.Equal(t, first, *sale.ConfirmedAt)
}

func TestApplyTransitionLeavesUnconfirmedAlone(t *testing.T) {
	sale := &model.Sale{Status: model.SaleStatusPending}
	assert.False(t, ApplyTransition(nil, sale, time.Now()))
	assert.Nil(t, sale.ConfirmedAt)
}
