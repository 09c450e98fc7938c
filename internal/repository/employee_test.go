package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/models"
	"github.com/UnknownOlympus/staffbook/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var employeeColumns = []string{
	"id", "user_id", "name", "email", "mobile", "designation", "gender", "courses", "image", "created_at", "updated_at",
}

const (
	testEmployeeID = "7f1b3c1e-5a6d-4a55-9b0e-2f0c8d6a9e11"
	testUserID     = "user-1"
)

func newRepo(t *testing.T) (pgxmock.PgxPoolIface, repository.EmployeeRepoIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, repository.NewEmployeeRepository(mock, metrics.NewMetrics(prometheus.NewRegistry()))
}

func sampleEmployee() models.Employee {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	return models.Employee{
		ID:          testEmployeeID,
		UserID:      testUserID,
		Name:        "Test User",
		Email:       "test@test.com",
		Mobile:      "0961234567",
		Designation: "HR",
		Gender:      "F",
		Courses:     []string{"MCA"},
		Image:       "https://cdn.test/avatar.png",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func employeeRows(employees ...models.Employee) *pgxmock.Rows {
	rows := pgxmock.NewRows(employeeColumns)
	for _, e := range employees {
		rows.AddRow(e.ID, e.UserID, e.Name, e.Email, e.Mobile, e.Designation, e.Gender, e.Courses, e.Image,
			e.CreatedAt, e.UpdatedAt)
	}

	return rows
}

func TestCreateEmployee_Success(t *testing.T) {
	t.Parallel()

	mock, repo := newRepo(t)
	expected := sampleEmployee()

	mock.ExpectQuery("INSERT INTO employees").
		WithArgs(expected.ID, expected.UserID, expected.Name, expected.Email, expected.Mobile, expected.Designation,
			expected.Gender, expected.Courses, expected.Image).
		WillReturnRows(employeeRows(expected))

	input := expected
	input.CreatedAt, input.UpdatedAt = time.Time{}, time.Time{}

	actual, err := repo.CreateEmployee(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, expected, actual)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEmployee_GeneratesID(t *testing.T) {
	t.Parallel()

	mock, repo := newRepo(t)
	expected := sampleEmployee()

	mock.ExpectQuery("INSERT INTO employees").
		WithArgs(pgxmock.AnyArg(), expected.UserID, expected.Name, expected.Email, expected.Mobile,
			expected.Designation, expected.Gender, []string{}, expected.Image).
		WillReturnRows(employeeRows(expected))

	input := expected
	input.ID = ""
	input.Courses = nil

	_, err := repo.CreateEmployee(context.Background(), input)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEmployee_UniqueViolation(t *testing.T) {
	t.Parallel()

	mock, repo := newRepo(t)
	employee := sampleEmployee()

	mock.ExpectQuery("INSERT INTO employees").
		WithArgs(employee.ID, employee.UserID, employee.Name, employee.Email, employee.Mobile, employee.Designation,
			employee.Gender, employee.Courses, employee.Image).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := repo.CreateEmployee(context.Background(), employee)

	require.ErrorIs(t, err, repository.ErrEmailTaken)
	require.ErrorContains(t, err, "failed to save employee")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEmployee_QueryError(t *testing.T) {
	t.Parallel()

	mock, repo := newRepo(t)
	employee := sampleEmployee()

	mock.ExpectQuery("INSERT INTO employees").WillReturnError(assert.AnError)

	_, err := repo.CreateEmployee(context.Background(), employee)

	require.EqualError(t, err, "failed to save employee: "+assert.AnError.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmployees(t *testing.T) {
	t.Parallel()

	t.Run("success - rows", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		first := sampleEmployee()
		second := sampleEmployee()
		second.ID = "a9c8f7e6-1d2c-4b3a-8f9e-0a1b2c3d4e5f"
		second.Email = "second@test.com"

		mock.ExpectQuery("SELECT (.+) FROM employees WHERE user_id = \\$1").
			WithArgs(testUserID).
			WillReturnRows(employeeRows(first, second))

		employees, err := repo.ListEmployees(context.Background(), testUserID)

		require.NoError(t, err)
		assert.Equal(t, []models.Employee{first, second}, employees)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - empty is not nil", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM employees WHERE user_id = \\$1").
			WithArgs("nobody").
			WillReturnRows(employeeRows())

		employees, err := repo.ListEmployees(context.Background(), "nobody")

		require.NoError(t, err)
		assert.NotNil(t, employees)
		assert.Empty(t, employees)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - query error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM employees WHERE user_id = \\$1").
			WithArgs(testUserID).
			WillReturnError(assert.AnError)

		_, err := repo.ListEmployees(context.Background(), testUserID)

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to list employees")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - row error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM employees WHERE user_id = \\$1").
			WithArgs(testUserID).
			WillReturnRows(employeeRows(sampleEmployee()).RowError(0, assert.AnError))

		_, err := repo.ListEmployees(context.Background(), testUserID)

		require.ErrorIs(t, err, assert.AnError)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetEmployee(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)
		expected := sampleEmployee()

		mock.ExpectQuery("SELECT (.+) FROM employees WHERE id = \\$1 AND user_id = \\$2").
			WithArgs(expected.ID, expected.UserID).
			WillReturnRows(employeeRows(expected))

		actual, err := repo.GetEmployee(context.Background(), expected.ID, expected.UserID)

		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - not found or foreign owner", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM employees WHERE id = \\$1 AND user_id = \\$2").
			WithArgs(testEmployeeID, "someone-else").
			WillReturnError(pgx.ErrNoRows)

		actual, err := repo.GetEmployee(context.Background(), testEmployeeID, "someone-else")

		require.ErrorIs(t, err, repository.ErrEmployeeNotFound)
		assert.Equal(t, models.Employee{}, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - malformed id never reaches the database", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		_, err := repo.GetEmployee(context.Background(), "not-a-uuid", testUserID)

		require.ErrorIs(t, err, repository.ErrInvalidID)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindEmployeeByEmail(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)
		expected := sampleEmployee()

		mock.ExpectQuery("SELECT (.+) FROM employees WHERE email = \\$1").
			WithArgs(expected.Email).
			WillReturnRows(employeeRows(expected))

		actual, err := repo.FindEmployeeByEmail(context.Background(), expected.Email)

		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - no match", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM employees WHERE email = \\$1").
			WithArgs("free@test.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindEmployeeByEmail(context.Background(), "free@test.com")

		require.ErrorIs(t, err, repository.ErrEmployeeNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateEmployee(t *testing.T) {
	t.Parallel()

	name := "Renamed User"
	email := "renamed@test.com"
	patch := models.EmployeePatch{Name: &name, Email: &email}

	t.Run("success - partial merge", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		expected := sampleEmployee()
		expected.Name = name
		expected.Email = email

		mock.ExpectQuery("UPDATE employees").
			WithArgs(testEmployeeID, testUserID, &name, &email, (*string)(nil), (*string)(nil), (*string)(nil),
				(*[]string)(nil), (*string)(nil)).
			WillReturnRows(employeeRows(expected))

		actual, err := repo.UpdateEmployee(context.Background(), testEmployeeID, testUserID, patch)

		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - no matching owner", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery("UPDATE employees").WillReturnError(pgx.ErrNoRows)

		_, err := repo.UpdateEmployee(context.Background(), testEmployeeID, "someone-else", patch)

		require.ErrorIs(t, err, repository.ErrEmployeeNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - unique email violation", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery("UPDATE employees").WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.UpdateEmployee(context.Background(), testEmployeeID, testUserID, patch)

		require.ErrorIs(t, err, repository.ErrEmailTaken)
		require.ErrorContains(t, err, "failed to update employee data")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - malformed id", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		_, err := repo.UpdateEmployee(context.Background(), "42", testUserID, patch)

		require.ErrorIs(t, err, repository.ErrInvalidID)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteEmployee(t *testing.T) {
	t.Parallel()

	t.Run("success - returns snapshot", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)
		expected := sampleEmployee()

		mock.ExpectQuery("DELETE FROM employees WHERE id = \\$1 AND user_id = \\$2").
			WithArgs(expected.ID, expected.UserID).
			WillReturnRows(employeeRows(expected))

		actual, err := repo.DeleteEmployee(context.Background(), expected.ID, expected.UserID)

		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure - foreign owner", func(t *testing.T) {
		t.Parallel()
		mock, repo := newRepo(t)

		mock.ExpectQuery("DELETE FROM employees WHERE id = \\$1 AND user_id = \\$2").
			WithArgs(testEmployeeID, "someone-else").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.DeleteEmployee(context.Background(), testEmployeeID, "someone-else")

		require.ErrorIs(t, err, repository.ErrEmployeeNotFound)
		require.ErrorContains(t, err, "failed to delete employee")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
