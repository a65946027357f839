package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/core/services"
)

func TestOrderStateOf(t *testing.T) {
	t.Run("no signatures", func(t *testing.T) {
		assert.Equal(t, domain.OrderOpen, services.OrderStateOf(nil))
	})

	t.Run("draft and verified stay open", func(t *testing.T) {
		sigs := []domain.Signature{
			{SignatureID: "s1", StatusKind: domain.SignatureDraft},
			{SignatureID: "s2", StatusKind: domain.SignatureVerified},
		}
		assert.Equal(t, domain.OrderOpen, services.OrderStateOf(sigs))
	})

	t.Run("any active booked locks", func(t *testing.T) {
		sigs := []domain.Signature{
			{SignatureID: "s1", StatusKind: domain.SignatureDraft},
			{SignatureID: "s2", StatusKind: domain.SignatureBooked},
			{SignatureID: "s3", StatusKind: domain.SignatureVerified},
		}
		assert.Equal(t, domain.OrderLocked, services.OrderStateOf(sigs))
	})

	t.Run("deleted booked is ignored", func(t *testing.T) {
		sigs := []domain.Signature{
			{SignatureID: "s1", StatusKind: domain.SignatureBooked, SoftDelete: domain.SoftDelete{Deleted: true}},
		}
		assert.Equal(t, domain.OrderOpen, services.OrderStateOf(sigs))
	})

	t.Run("multiple booked still locked", func(t *testing.T) {
		sigs := []domain.Signature{
			{SignatureID: "s1", StatusKind: domain.SignatureBooked},
			{SignatureID: "s2", StatusKind: domain.SignatureBooked},
		}
		assert.Equal(t, domain.OrderLocked, services.OrderStateOf(sigs))
	})
}
