// Package employees implements the user-scoped employee operations on top of the repository.
package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/models"
	"github.com/UnknownOlympus/staffbook/internal/repository"
)

var (
	// ErrEmailExists is returned when the email already belongs to another employee.
	ErrEmailExists = errors.New("Email already exists") //nolint:staticcheck,revive // client facing message
	// ErrNotFound is returned when the employee does not exist or is owned by someone else.
	ErrNotFound = errors.New("employee not found")
)

type Staff struct {
	log     *slog.Logger
	repo    repository.EmployeeRepoIface
	metrics *metrics.Metrics
}

func NewStaff(log *slog.Logger, repo repository.EmployeeRepoIface, metrics *metrics.Metrics) *Staff {
	return &Staff{log: log, repo: repo, metrics: metrics}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		sl.Op(opn),
		slog.String("division", "employee"),
	)
}

// Create stores a new employee owned by userID. The email must not be used by any employee, whoever owns it.
func (s *Staff) Create(ctx context.Context, userID string, input models.EmployeeInput) (models.Employee, error) {
	const opn = "Employee.Create"
	log := s.initLogger(opn).With(slog.String("user_id", userID))

	if err := s.ensureEmailFree(ctx, input.Email, ""); err != nil {
		s.record("create", err)
		log.InfoContext(ctx, "Employee was not created", sl.Err(err))
		return models.Employee{}, err
	}

	if err := input.Validate(); err != nil {
		s.record("create", err)
		log.DebugContext(ctx, "Rejected invalid employee", sl.Err(err))
		return models.Employee{}, err
	}

	created, err := s.repo.CreateEmployee(ctx, models.NewEmployee(userID, input))
	if err != nil {
		err = s.mapRepoError(err)
		s.record("create", err)
		log.ErrorContext(ctx, "Failed to create employee", sl.Err(err))
		return models.Employee{}, err
	}

	s.record("create", nil)
	log.InfoContext(ctx, "Employee created", slog.String("employee_id", created.ID))

	return created, nil
}

// List returns every employee owned by userID. The result is never nil.
func (s *Staff) List(ctx context.Context, userID string) ([]models.Employee, error) {
	const opn = "Employee.List"
	log := s.initLogger(opn).With(slog.String("user_id", userID))

	employees, err := s.repo.ListEmployees(ctx, userID)
	if err != nil {
		s.record("list", err)
		log.ErrorContext(ctx, "Failed to list employees", sl.Err(err))
		return nil, err
	}

	if employees == nil {
		employees = []models.Employee{}
	}

	s.record("list", nil)
	log.DebugContext(ctx, "Employees listed", slog.Int("count", len(employees)))

	return employees, nil
}

// Get returns the employee with the given identifier if it is owned by userID.
func (s *Staff) Get(ctx context.Context, userID, identifier string) (models.Employee, error) {
	const opn = "Employee.Get"
	log := s.initLogger(opn).With(slog.String("user_id", userID), slog.String("employee_id", identifier))

	employee, err := s.repo.GetEmployee(ctx, identifier, userID)
	if err != nil {
		err = s.mapRepoError(err)
		s.record("get", err)
		log.DebugContext(ctx, "Employee lookup failed", sl.Err(err))
		return models.Employee{}, err
	}

	s.record("get", nil)

	return employee, nil
}

// Update applies a partial update to an employee owned by userID.
// Keeping the current email is allowed; taking another employee's email is not.
func (s *Staff) Update(
	ctx context.Context,
	userID, identifier string,
	patch models.EmployeePatch,
) (models.Employee, error) {
	const opn = "Employee.Update"
	log := s.initLogger(opn).With(slog.String("user_id", userID), slog.String("employee_id", identifier))

	current, err := s.repo.GetEmployee(ctx, identifier, userID)
	if err != nil {
		err = s.mapRepoError(err)
		s.record("update", err)
		log.DebugContext(ctx, "Employee lookup failed", sl.Err(err))
		return models.Employee{}, err
	}

	if patch.Email != nil {
		if err = s.ensureEmailFree(ctx, *patch.Email, current.ID); err != nil {
			s.record("update", err)
			log.InfoContext(ctx, "Employee was not updated", sl.Err(err))
			return models.Employee{}, err
		}
	}

	if err = patch.Validate(); err != nil {
		s.record("update", err)
		log.DebugContext(ctx, "Rejected invalid employee patch", sl.Err(err))
		return models.Employee{}, err
	}

	updated, err := s.repo.UpdateEmployee(ctx, current.ID, userID, patch)
	if err != nil {
		err = s.mapRepoError(err)
		s.record("update", err)
		log.ErrorContext(ctx, "Failed to update employee", sl.Err(err))
		return models.Employee{}, err
	}

	s.record("update", nil)
	log.InfoContext(ctx, "Employee updated")

	return updated, nil
}

// Delete removes an employee owned by userID and returns it as it was before removal.
func (s *Staff) Delete(ctx context.Context, userID, identifier string) (models.Employee, error) {
	const opn = "Employee.Delete"
	log := s.initLogger(opn).With(slog.String("user_id", userID), slog.String("employee_id", identifier))

	deleted, err := s.repo.DeleteEmployee(ctx, identifier, userID)
	if err != nil {
		err = s.mapRepoError(err)
		s.record("delete", err)
		log.DebugContext(ctx, "Employee was not deleted", sl.Err(err))
		return models.Employee{}, err
	}

	s.record("delete", nil)
	log.InfoContext(ctx, "Employee deleted")

	return deleted, nil
}

// ensureEmailFree fails with ErrEmailExists when email belongs to an employee other than selfID.
func (s *Staff) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.FindEmployeeByEmail(ctx, email)
	if errors.Is(err, repository.ErrEmployeeNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	if existing.ID == selfID {
		return nil
	}

	s.metrics.EmailConflicts.Inc()

	return ErrEmailExists
}

func (s *Staff) mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrEmployeeNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repository.ErrEmailTaken):
		s.metrics.EmailConflicts.Inc()
		return ErrEmailExists
	default:
		return err
	}
}

func (s *Staff) record(operation string, err error) {
	result := metrics.ResultSuccess

	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = metrics.ResultNotFound
	case errors.Is(err, ErrEmailExists):
		result = metrics.ResultConflict
	default:
		result = metrics.ResultFailure
	}

	s.metrics.EmployeeOperations.WithLabelValues(operation, result).Inc()
}
