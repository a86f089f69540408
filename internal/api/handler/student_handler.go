package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iset-tozeur/library-backend/internal/core/ports"
)

// StudentHandler handles HTTP requests for student records.
type StudentHandler struct {
	service ports.StudentService
}

func NewStudentHandler(service ports.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

// Create handles POST /api/students.
//
// @Summary      Create a student
// @Description  Creates the student's login credential (role student) and the student record.
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createStudentRequest  true  "Student details"
// @Success      201   {object}  studentEnvelope
// @Failure      400   {object}  httperr.Response
// @Failure      401   {object}  httperr.Response
// @Failure      403   {object}  httperr.Response
// @Failure      409   {object}  httperr.Response
// @Failure      422   {object}  httperr.Response
// @Router       /api/students [post]
func (h *StudentHandler) Create(c echo.Context) error {
	var req createStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	student, err := h.service.CreateStudent(c.Request().Context(), toCreateStudentInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, studentEnvelope{
		Success: true,
		Message: "Student created",
		Student: toStudentResponse(student),
	})
}

// List handles GET /api/students.
//
// @Summary      List students
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        department  query     string  false  "Exact department"
// @Param        search      query     string  false  "Partial match on name, username or email"
// @Param        page        query     int     false  "Page number (default 1, max 100000)"
// @Param        limit       query     int     false  "Page size (default 20, max 100)"
// @Success      200         {object}  listStudentsResponse
// @Failure      401         {object}  httperr.Response
// @Router       /api/students [get]
func (h *StudentHandler) List(c echo.Context) error {
	var q listStudentsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	result, err := h.service.ListStudents(c.Request().Context(), ports.ListStudentsInput{
		Department: q.Department,
		Search:     q.Search,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListStudentsResponse(result))
}

// Get handles GET /api/students/:id.
//
// @Summary      Get a student
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {object}  studentEnvelope
// @Failure      401  {object}  httperr.Response
// @Failure      404  {object}  httperr.Response
// @Router       /api/students/{id} [get]
func (h *StudentHandler) Get(c echo.Context) error {
	student, err := h.service.GetStudent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studentEnvelope{Success: true, Student: toStudentResponse(student)})
}

// Update handles PUT /api/students/:id.
//
// @Summary      Update a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Student ID"
// @Param        body  body      updateStudentRequest  true  "Profile fields"
// @Success      200   {object}  studentEnvelope
// @Failure      403   {object}  httperr.Response
// @Failure      404   {object}  httperr.Response
// @Failure      422   {object}  httperr.Response
// @Router       /api/students/{id} [put]
func (h *StudentHandler) Update(c echo.Context) error {
	var req updateStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	student, err := h.service.UpdateStudent(c.Request().Context(), toUpdateStudentInput(c.Param("id"), req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studentEnvelope{
		Success: true,
		Message: "Student updated",
		Student: toStudentResponse(student),
	})
}

// Delete handles DELETE /api/students/:id.
//
// @Summary      Delete a student
// @Tags         students
// @Security     BearerAuth
// @Param        id   path  string  true  "Student ID"
// @Success      204
// @Failure      403  {object}  httperr.Response
// @Failure      404  {object}  httperr.Response
// @Router       /api/students/{id} [delete]
func (h *StudentHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteStudent(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
