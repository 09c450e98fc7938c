package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/staffbook/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// CreateEmployee inserts a new employee. An identifier is generated when the employee has none.
func (r *Repository) CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer r.observe("create_employee", time.Now())

	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	if employee.Courses == nil {
		employee.Courses = []string{}
	}

	query := `
		INSERT INTO employees (id, user_id, name, email, mobile, designation, gender, courses, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, user_id, name, email, mobile, designation, gender, courses, image, created_at, updated_at;
	`

	created, err := scanEmployee(r.db.QueryRow(ctx, query,
		employee.ID,
		employee.UserID,
		employee.Name,
		employee.Email,
		employee.Mobile,
		employee.Designation,
		employee.Gender,
		employee.Courses,
		employee.Image,
	))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to save employee: %w", translateError(err))
	}

	return created, nil
}

// ListEmployees returns every employee owned by userID, oldest first.
func (r *Repository) ListEmployees(ctx context.Context, userID string) ([]models.Employee, error) {
	defer r.observe("list_employees", time.Now())

	query := `
		SELECT id, user_id, name, email, mobile, designation, gender, courses, image, created_at, updated_at
		FROM employees WHERE user_id = $1 ORDER BY created_at;
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]models.Employee, 0)
	for rows.Next() {
		employee, scanErr := scanEmployee(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", scanErr)
		}
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// GetEmployee retrieves an employee by identifier and owner in one lookup.
func (r *Repository) GetEmployee(ctx context.Context, identifier, userID string) (models.Employee, error) {
	defer r.observe("get_employee", time.Now())

	if err := validateID(identifier); err != nil {
		return models.Employee{}, err
	}

	query := `
		SELECT id, user_id, name, email, mobile, designation, gender, courses, image, created_at, updated_at
		FROM employees WHERE id = $1 AND user_id = $2;
	`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, identifier, userID))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to get employee by id: %w", translateError(err))
	}

	return employee, nil
}

// FindEmployeeByEmail looks an email up across all owners.
func (r *Repository) FindEmployeeByEmail(ctx context.Context, email string) (models.Employee, error) {
	defer r.observe("find_employee_by_email", time.Now())

	query := `
		SELECT id, user_id, name, email, mobile, designation, gender, courses, image, created_at, updated_at
		FROM employees WHERE email = $1 LIMIT 1;
	`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to find employee by email: %w", translateError(err))
	}

	return employee, nil
}

// UpdateEmployee merges the non-nil patch fields into the employee matching identifier and owner.
func (r *Repository) UpdateEmployee(
	ctx context.Context,
	identifier, userID string,
	patch models.EmployeePatch,
) (models.Employee, error) {
	defer r.observe("update_employee", time.Now())

	if err := validateID(identifier); err != nil {
		return models.Employee{}, err
	}

	query := `
		UPDATE employees
		SET name = COALESCE($3, name),
			email = COALESCE($4, email),
			mobile = COALESCE($5, mobile),
			designation = COALESCE($6, designation),
			gender = COALESCE($7, gender),
			courses = COALESCE($8, courses),
			image = COALESCE($9, image),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, email, mobile, designation, gender, courses, image, created_at, updated_at;
	`

	updated, err := scanEmployee(r.db.QueryRow(ctx, query,
		identifier,
		userID,
		patch.Name,
		patch.Email,
		patch.Mobile,
		patch.Designation,
		patch.Gender,
		patch.Courses,
		patch.Image,
	))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to update employee data: %w", translateError(err))
	}

	return updated, nil
}

// DeleteEmployee removes the employee matching identifier and owner and returns the removed row.
func (r *Repository) DeleteEmployee(ctx context.Context, identifier, userID string) (models.Employee, error) {
	defer r.observe("delete_employee", time.Now())

	if err := validateID(identifier); err != nil {
		return models.Employee{}, err
	}

	query := `
		DELETE FROM employees WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, email, mobile, designation, gender, courses, image, created_at, updated_at;
	`

	deleted, err := scanEmployee(r.db.QueryRow(ctx, query, identifier, userID))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to delete employee: %w", translateError(err))
	}

	return deleted, nil
}

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var employee models.Employee

	err := row.Scan(
		&employee.ID,
		&employee.UserID,
		&employee.Name,
		&employee.Email,
		&employee.Mobile,
		&employee.Designation,
		&employee.Gender,
		&employee.Courses,
		&employee.Image,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)
	if err != nil {
		return models.Employee{}, err
	}

	return employee, nil
}

func validateID(identifier string) error {
	if _, err := uuid.Parse(identifier); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, identifier)
	}

	return nil
}

// translateError maps driver errors onto the repository sentinels, keeping the original in the chain.
func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrEmployeeNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %w", ErrEmailTaken, err)
	}

	return err
}
