package domain

// User is an operator account, referenced by audit fields and signatures.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	AuditFields
	SoftDelete
}
