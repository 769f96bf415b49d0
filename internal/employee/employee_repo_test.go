package employee_test

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"go-empower/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepoTest(t *testing.T) (employee.Repository, sqlmock.Sqlmock, *gorm.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	return employee.NewRepository(gdb), mock, gdb
}

// sqlLike matches statements containing every fragment in order.
func sqlLike(fragments ...string) string {
	quoted := make([]string, len(fragments))
	for i, f := range fragments {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return strings.Join(quoted, ".*")
}

var employeeColumns = []string{
	"id", "name", "email", "phone", "department", "position",
	"status", "join_date", "salary", "avatar", "created_at",
}

func TestRepository_Insert(t *testing.T) {
	repo, mock, _ := setupRepoTest(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(sqlLike(`INSERT INTO "employees"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	empl := &employee.Employee{Name: "Jane Doe", Department: "Engineering"}
	err := repo.Insert(ctx, empl)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, empl.ID)
	assert.False(t, empl.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_WithTx(t *testing.T) {
	repo, mock, gdb := setupRepoTest(t)
	ctx := context.Background()

	sqlDB, err := gdb.DB()
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(sqlLike(`INSERT INTO "employees"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := sqlDB.BeginTx(ctx, nil)
	assert.NoError(t, err)

	err = repo.WithTx(tx).Insert(ctx, &employee.Employee{Name: "Jane Doe"})
	assert.NoError(t, err)
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListRecent(t *testing.T) {
	repo, mock, _ := setupRepoTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(employeeColumns).
		AddRow(uuid.NewString(), "Newest", "n@example.com", "", "Sales", "", "Active", "", "", "/placeholder.svg", now).
		AddRow(uuid.NewString(), "Older", "o@example.com", "", "Sales", "", "Active", "", "", "/placeholder.svg", now.Add(-time.Hour))
	mock.ExpectQuery(sqlLike(`SELECT * FROM "employees"`, `ORDER BY created_at DESC`, `LIMIT`)).
		WillReturnRows(rows)

	got, err := repo.ListRecent(ctx, 5)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Newest", got[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo, mock, _ := setupRepoTest(t)
	id := uuid.NewString()

	mock.ExpectQuery(sqlLike(`SELECT * FROM "employees" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(employeeColumns))

	_, err := repo.FindByID(context.Background(), id)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_Count(t *testing.T) {
	ctx := context.Background()

	t.Run("with filter", func(t *testing.T) {
		repo, mock, _ := setupRepoTest(t)
		mock.ExpectQuery(sqlLike(`SELECT count(*) FROM "employees" WHERE status = $1`)).
			WithArgs(employee.StatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		n, err := repo.Count(ctx, employee.Filter{employee.FieldStatus: employee.StatusActive})

		assert.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("unknown field", func(t *testing.T) {
		repo, mock, _ := setupRepoTest(t)

		_, err := repo.Count(ctx, employee.Filter{"grade": "A"})

		var fieldErr *employee.UnknownFieldError
		assert.ErrorAs(t, err, &fieldErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_AverageNumericField(t *testing.T) {
	repo, mock, _ := setupRepoTest(t)

	mock.ExpectQuery(sqlLike(`SELECT`, `salary`, `FROM "employees"`)).
		WillReturnRows(sqlmock.NewRows([]string{"salary"}).
			AddRow("50000").
			AddRow("60000").
			AddRow("negotiable").
			AddRow(nil))

	avg, err := repo.AverageNumericField(context.Background(), employee.FieldSalary)

	assert.NoError(t, err)
	assert.Equal(t, 55000.0, avg)
}

func TestRepository_DistinctValues(t *testing.T) {
	repo, mock, _ := setupRepoTest(t)

	mock.ExpectQuery(sqlLike(`SELECT DISTINCT`, `department`, `FROM "employees" WHERE department <> ''`)).
		WillReturnRows(sqlmock.NewRows([]string{"department"}).AddRow("Engineering").AddRow("Sales"))

	values, err := repo.DistinctValues(context.Background(), employee.FieldDepartment)

	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"Engineering", "Sales"}, values)
}

func TestRepository_CountByField(t *testing.T) {
	repo, mock, _ := setupRepoTest(t)

	mock.ExpectQuery(sqlLike(`SELECT department AS value, COUNT(*) AS count FROM "employees"`, `GROUP BY`, `ORDER BY count DESC, value ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"value", "count"}).
			AddRow("Engineering", 4).
			AddRow("Sales", 2))

	groups, err := repo.CountByField(context.Background(), employee.FieldDepartment)

	assert.NoError(t, err)
	assert.Equal(t, []employee.FieldCount{{Value: "Engineering", Count: 4}, {Value: "Sales", Count: 2}}, groups)
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("applies changes and reloads", func(t *testing.T) {
		repo, mock, _ := setupRepoTest(t)
		id := uuid.NewString()

		mock.ExpectBegin()
		mock.ExpectExec(sqlLike(`UPDATE "employees" SET "status"=$1 WHERE id = $2`)).
			WithArgs(employee.StatusInactive, id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectQuery(sqlLike(`SELECT * FROM "employees" WHERE id = $1`)).
			WillReturnRows(sqlmock.NewRows(employeeColumns).
				AddRow(id, "Jane Doe", "", "", "Sales", "", employee.StatusInactive, "", "", "", time.Now()))

		got, err := repo.Update(ctx, id, map[string]any{"status": employee.StatusInactive})

		assert.NoError(t, err)
		assert.Equal(t, employee.StatusInactive, got.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock, _ := setupRepoTest(t)

		mock.ExpectBegin()
		mock.ExpectExec(sqlLike(`UPDATE "employees" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		_, err := repo.Update(ctx, uuid.NewString(), map[string]any{"name": "Ghost"})

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mock, _ := setupRepoTest(t)
		id := uuid.NewString()

		mock.ExpectBegin()
		mock.ExpectExec(sqlLike(`DELETE FROM "employees" WHERE id = $1`)).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(ctx, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock, _ := setupRepoTest(t)

		mock.ExpectBegin()
		mock.ExpectExec(sqlLike(`DELETE FROM "employees"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		assert.ErrorIs(t, repo.Delete(ctx, uuid.NewString()), gorm.ErrRecordNotFound)
	})
}
