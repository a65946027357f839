package services

// WriteOp identifies the kind of mutation being validated.
type WriteOp string

const (
	OpCreate WriteOp = "CREATE"
	OpUpdate WriteOp = "UPDATE"
	OpDelete WriteOp = "DELETE"
)
