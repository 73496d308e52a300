package model

import "time"

// Status is the lifecycle state of an Entry. Transitions move forward only:
// Pending -> Processed -> Verified.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusProcessed Status = "Processed"
	StatusVerified  Status = "Verified"
)

// Result is the confirmed outcome recorded when an entry is verified.
type Result string

const (
	ResultPositive Result = "Positive"
	ResultNegative Result = "Negative"
)

// ParseResult maps a string onto a Result. Only the two enumerated values
// are representable; anything else yields false.
func ParseResult(s string) (Result, bool) {
	switch Result(s) {
	case ResultPositive, ResultNegative:
		return Result(s), true
	}
	return "", false
}

// Entry is one diagnostic test record tied to a patient.
type Entry struct {
	ID           int       `json:"id"`
	PatientID    string    `json:"patient_id"`
	TechnicianID *string   `json:"technician_id,omitempty"`
	SupervisorID *string   `json:"supervisor_id,omitempty"`
	TestName     string    `json:"test_name"`
	Status       Status    `json:"status"`
	Result       *Result   `json:"result,omitempty"` // Pointer: nil until verified
	CreatedAt    time.Time `json:"created_at"`
}
