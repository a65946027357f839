package domain

// Organization is a payee on payment order lines.
type Organization struct {
	OrganizationID string `json:"organizationID"` // Primary Key (UUID)
	Name           string `json:"name"`
	AccountNumber  string `json:"accountNumber"`
	AuditFields
	SoftDelete
}
