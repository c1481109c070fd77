package models

// ValidationError reports rejected client input. Nothing is written when it
// is returned.
type ValidationError struct {
	Message string
	Allowed []string
}

func (e *ValidationError) Error() string {
	return e.Message
}
