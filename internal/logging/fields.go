package logging

// Common field names for structured logging.
const (
	FieldModule     = "module"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldUserID     = "user_id"
	FieldUsername   = "username"
	FieldExpenseID  = "expense_id"
	FieldCollection = "collection"
	FieldCount      = "count"
	FieldToken      = "op_token"
	FieldMethod     = "method"
	FieldAddress    = "address"
	FieldBackend    = "backend"
)
