// Package response holds the envelope returned by every write operation.
package response

// Outcome reports whether a write succeeded. Message is always safe to show
// to the caller, it never carries internal fault details.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK reports a successful write.
func OK(message string) Outcome {
	return Outcome{Success: true, Message: message}
}

// Fail reports a refused or failed write with a message safe to show.
func Fail(message string) Outcome {
	return Outcome{Success: false, Message: message}
}
