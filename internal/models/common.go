package models

import "time"

// AuditFields holds standard audit columns shared by all tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}

// SoftDelete holds the tombstone columns shared by all tables.
type SoftDelete struct {
	Deleted   bool       `db:"deleted"`
	DeletedAt *time.Time `db:"deleted_at"`
}
