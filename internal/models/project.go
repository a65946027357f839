package models

// Project represents a relief project row.
type Project struct {
	ProjectID string `db:"project_id"`
	Name      string `db:"name"`
	Country   string `db:"country"`
	AuditFields
	SoftDelete
}

// Organization represents a payee organization row.
type Organization struct {
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	AccountNumber  string `db:"account_number"`
	AuditFields
	SoftDelete
}
