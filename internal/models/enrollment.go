package models

import "time"

// Enrollment grants a user access to a course's lessons
type Enrollment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user"`
	CourseID  int       `json:"course"`
	CreatedAt time.Time `json:"created_at"`
}

// Status messages returned by enrollment and progress endpoints
const (
	StatusEnrolled          = "enrolled"
	StatusEnrolledForFree   = "enrolled for free"
	StatusAlreadyEnrolled   = "already enrolled"
	StatusPaymentSuccessful = "payment successful"
	StatusCompleted         = "completed"
	StatusAlreadyCompleted  = "already completed"
)

// StatusResponse is the body of state-transition endpoints
type StatusResponse struct {
	Status string `json:"status"`
}
