package domain

// Project is the owning unit for budgets and funding transactions.
type Project struct {
	ProjectID string `json:"projectID"` // Primary Key (UUID)
	Name      string `json:"name"`
	Country   string `json:"country"`
	AuditFields
	SoftDelete
}
