package repository

import (
	"context"
	"errors"
	"time"

	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/models"
)

var (
	// ErrEmployeeNotFound is returned when no employee matches the lookup filter.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrEmailTaken is returned when the store rejects a write because of the unique email index.
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidID is returned for identifiers the store cannot represent.
	ErrInvalidID = errors.New("invalid employee id")
)

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
// Every lookup by identifier also filters by the owning user.
type EmployeeRepoIface interface {
	CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	ListEmployees(ctx context.Context, userID string) ([]models.Employee, error)
	GetEmployee(ctx context.Context, identifier, userID string) (models.Employee, error)
	FindEmployeeByEmail(ctx context.Context, email string) (models.Employee, error)
	UpdateEmployee(ctx context.Context, identifier, userID string, patch models.EmployeePatch) (models.Employee, error)
	DeleteEmployee(ctx context.Context, identifier, userID string) (models.Employee, error)
}

func NewEmployeeRepository(db Database, metrics *metrics.Metrics) EmployeeRepoIface {
	return &Repository{db: db, metrics: metrics}
}

func (r *Repository) observe(queryType string, startTime time.Time) {
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}
