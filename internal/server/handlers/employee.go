// Package handlers turns HTTP requests into employee service calls.
package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/UnknownOlympus/staffbook/internal/models"
	"github.com/UnknownOlympus/staffbook/internal/server/mw"
	"github.com/UnknownOlympus/staffbook/internal/services/employees"
	"github.com/gin-gonic/gin"
)

const (
	msgCreated     = "Employee Created Successfully!"
	msgUpdated     = "Employee Updated Successfully!"
	msgDeleted     = "Employee Deleted"
	msgEmailExists = "Email already exists"
)

// EmployeeService is the set of operations the handlers need, scoped by the caller's user id.
type EmployeeService interface {
	Create(ctx context.Context, userID string, input models.EmployeeInput) (models.Employee, error)
	List(ctx context.Context, userID string) ([]models.Employee, error)
	Get(ctx context.Context, userID, identifier string) (models.Employee, error)
	Update(ctx context.Context, userID, identifier string, patch models.EmployeePatch) (models.Employee, error)
	Delete(ctx context.Context, userID, identifier string) (models.Employee, error)
}

type EmployeeHandler struct {
	log   *slog.Logger
	staff EmployeeService
}

func NewEmployeeHandler(log *slog.Logger, staff EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{log: log, staff: staff}
}

// Create handles POST /create.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var input models.EmployeeInput
	if err := bindBody(c, &input); err != nil {
		h.fail(c, "create", err)
		return
	}

	created, err := h.staff.Create(c.Request.Context(), mw.UserID(c), input)
	if err != nil {
		h.fail(c, "create", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msgCreated, "newEmployee": created})
}

// List handles GET /get.
func (h *EmployeeHandler) List(c *gin.Context) {
	list, err := h.staff.List(c.Request.Context(), mw.UserID(c))
	if err != nil {
		h.fail(c, "view", err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Get handles GET /get/:id.
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.staff.Get(c.Request.Context(), mw.UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, "view", err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// Update handles PATCH /update/:id.
func (h *EmployeeHandler) Update(c *gin.Context) {
	var patch models.EmployeePatch
	if err := bindBody(c, &patch); err != nil {
		h.fail(c, "update", err)
		return
	}

	updated, err := h.staff.Update(c.Request.Context(), mw.UserID(c), c.Param("id"), patch)
	if err != nil {
		h.fail(c, "update", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgUpdated, "updatedEmployee": updated})
}

// Delete handles DELETE /delete/:id.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	deleted, err := h.staff.Delete(c.Request.Context(), mw.UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, "delete", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgDeleted, "employee": deleted})
}

// bindBody decodes a JSON body into dst. An empty body leaves dst zeroed.
func bindBody(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// fail writes the response for err. verb names the action in the not-found message.
func (h *EmployeeHandler) fail(c *gin.Context, verb string, err error) {
	switch {
	case errors.Is(err, employees.ErrEmailExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgEmailExists})
	case errors.Is(err, employees.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Employee not found or you do not have permission to " + verb + " this employee",
		})
	default:
		h.log.DebugContext(c.Request.Context(), "Request failed",
			sl.Err(err), slog.String("route", c.FullPath()), slog.String("request_id", mw.RequestID(c)))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
