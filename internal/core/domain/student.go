package domain

import "time"

// Student is a library member record. IdentityID links it to the
// credential the student logs in with.
type Student struct {
	ID            string    `json:"id"`
	IdentityID    string    `json:"identityId"`
	Username      string    `json:"username"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	StudentNumber string    `json:"studentId"`
	Department    string    `json:"department"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
