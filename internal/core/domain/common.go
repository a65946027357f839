package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// SoftDelete marks an entity as tombstoned. A deleted entity is invisible
// to every consistency rule but its row is retained for history.
type SoftDelete struct {
	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// MarkDeleted sets the tombstone flag and timestamp.
func (s *SoftDelete) MarkDeleted(at time.Time) {
	s.Deleted = true
	s.DeletedAt = &at
}
