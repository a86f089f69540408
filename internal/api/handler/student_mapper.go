package handler

import (
	"github.com/iset-tozeur/library-backend/internal/core/domain"
	"github.com/iset-tozeur/library-backend/internal/core/ports"
)

// --- Request → Service input ---

func toCreateStudentInput(req createStudentRequest) ports.CreateStudentInput {
	return ports.CreateStudentInput{
		Username:      req.Username,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		StudentNumber: req.StudentID,
		Department:    req.Department,
	}
}

func toUpdateStudentInput(id string, req updateStudentRequest) ports.UpdateStudentInput {
	return ports.UpdateStudentInput{
		ID:            id,
		Username:      req.Username,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		StudentNumber: req.StudentID,
		Department:    req.Department,
	}
}

// --- Service result → HTTP response ---

func toStudentResponse(s *domain.Student) studentResponse {
	return studentResponse{
		ID:         s.ID,
		IdentityID: s.IdentityID,
		Username:   s.Username,
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		Email:      s.Email,
		StudentID:  s.StudentNumber,
		Department: s.Department,
		CreatedAt:  s.CreatedAt.UTC(),
		UpdatedAt:  s.UpdatedAt.UTC(),
	}
}

func toListStudentsResponse(r *ports.ListStudentsResult) listStudentsResponse {
	items := make([]studentResponse, 0, len(r.Items))
	for _, s := range r.Items {
		items = append(items, toStudentResponse(s))
	}
	return listStudentsResponse{
		Success:  true,
		Students: items,
		Pagination: paginationResponse{
			Page:       r.Page,
			Limit:      r.Limit,
			Total:      r.Total,
			TotalPages: r.TotalPages,
		},
	}
}
