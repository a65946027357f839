package services

import "github.com/dejan-marlovic/relief-finance/internal/core/domain"

// OrderStateOf derives the lock state of a payment order from its
// signature set. The state is never stored: it is recomputed from the same
// transactional read as any guarded write, so concurrent writers cannot
// observe a stale Open. Once an active booked signature exists the order is
// Locked, and no operation in this engine transitions it back.
func OrderStateOf(signatures []domain.Signature) domain.OrderState {
	for _, s := range signatures {
		if !s.Deleted && s.StatusKind == domain.SignatureBooked {
			return domain.OrderLocked
		}
	}
	return domain.OrderOpen
}
