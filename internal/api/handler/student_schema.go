package handler

import "time"

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=admin student"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

type meResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Role    string `json:"role"`
}

type createStudentRequest struct {
	Username   string `json:"username"   validate:"required,min=3"`
	Password   string `json:"password"   validate:"required,min=6,max=72"`
	FirstName  string `json:"firstName"  validate:"required"`
	LastName   string `json:"lastName"   validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	StudentID  string `json:"studentId"  validate:"required"`
	Department string `json:"department" validate:"required"`
}

type updateStudentRequest struct {
	Username   string `json:"username"   validate:"required,min=3"`
	FirstName  string `json:"firstName"  validate:"required"`
	LastName   string `json:"lastName"   validate:"required"`
	StudentID  string `json:"studentId"  validate:"required"`
	Department string `json:"department" validate:"required"`
}

type listStudentsQuery struct {
	Department string `query:"department"`
	Search     string `query:"search"`
	Page       int    `query:"page"  validate:"omitempty,min=1,max=100000"`
	Limit      int    `query:"limit" validate:"omitempty,min=1"`
}

// Response-only types owned by the transport layer, so the JSON contract does
// not follow changes to the domain types.

type studentResponse struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identityId"`
	Username   string    `json:"username"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	StudentID  string    `json:"studentId"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type studentEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Student studentResponse `json:"student"`
}

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type listStudentsResponse struct {
	Success    bool               `json:"success"`
	Students   []studentResponse  `json:"students"`
	Pagination paginationResponse `json:"pagination"`
}
