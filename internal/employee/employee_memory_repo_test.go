package employee_test

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-empower/internal/employee"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memoryRepository is an in-memory employee.Repository. Transactions are not
// modelled: WithTx returns the same store.
type memoryRepository struct {
	mu   sync.Mutex
	rows []employee.Employee

	// onCount runs after Count has read the store, before it returns.
	onCount func(filter employee.Filter)
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{}
}

func (r *memoryRepository) WithTx(*sql.Tx) employee.Repository {
	return r
}

func (r *memoryRepository) Insert(ctx context.Context, empl *employee.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if empl.ID == uuid.Nil {
		empl.ID = uuid.New()
	}
	if empl.CreatedAt.IsZero() {
		empl.CreatedAt = time.Now().UTC()
	}
	r.rows = append(r.rows, *empl)
	return nil
}

func (r *memoryRepository) ListAll(ctx context.Context) ([]employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]employee.Employee(nil), r.rows...), nil
}

func (r *memoryRepository) ListRecent(ctx context.Context, n int) ([]employee.Employee, error) {
	rows, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if n < len(rows) {
		rows = rows[:n]
	}
	return rows, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.rows {
		if e.ID.String() == id {
			found := e
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepository) Count(ctx context.Context, filter employee.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	var n int64
	var err error
	for _, e := range r.rows {
		match := true
		for field, want := range filter {
			got, ferr := fieldValue(e, field)
			if ferr != nil {
				err = ferr
				break
			}
			if got != want {
				match = false
			}
		}
		if err != nil {
			break
		}
		if match {
			n++
		}
	}
	r.mu.Unlock()

	if err != nil {
		return 0, err
	}
	if r.onCount != nil {
		r.onCount(filter)
	}
	return n, nil
}

func (r *memoryRepository) DistinctValues(ctx context.Context, field string) ([]string, error) {
	groups, err := r.CountByField(ctx, field)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(groups))
	for _, g := range groups {
		values = append(values, g.Value)
	}
	return values, nil
}

func (r *memoryRepository) AverageNumericField(ctx context.Context, field string) (float64, error) {
	rows, err := r.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	var sum float64
	var n int
	for _, e := range rows {
		raw, err := fieldValue(e, field)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (r *memoryRepository) CountByField(ctx context.Context, field string) ([]employee.FieldCount, error) {
	rows, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	for _, e := range rows {
		v, err := fieldValue(e, field)
		if err != nil {
			return nil, err
		}
		if v != "" {
			counts[v]++
		}
	}

	groups := make([]employee.FieldCount, 0, len(counts))
	for v, c := range counts {
		groups = append(groups, employee.FieldCount{Value: v, Count: c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Value < groups[j].Value
	})
	return groups, nil
}

func (r *memoryRepository) Update(ctx context.Context, id string, changes map[string]any) (*employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID.String() != id {
			continue
		}
		for col, v := range changes {
			setColumn(&r.rows[i], col, v.(string))
		}
		updated := r.rows[i]
		return &updated, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID.String() == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func fieldValue(e employee.Employee, field string) (string, error) {
	switch field {
	case employee.FieldName:
		return e.Name, nil
	case employee.FieldEmail:
		return e.Email, nil
	case employee.FieldPhone:
		return e.Phone, nil
	case employee.FieldDepartment:
		return e.Department, nil
	case employee.FieldPosition:
		return e.Position, nil
	case employee.FieldStatus:
		return e.Status, nil
	case employee.FieldJoinDate:
		return e.JoinDate, nil
	case employee.FieldSalary:
		return e.Salary, nil
	case employee.FieldAvatar:
		return e.Avatar, nil
	default:
		return "", &employee.UnknownFieldError{Field: field}
	}
}

func setColumn(e *employee.Employee, col, v string) {
	switch col {
	case "name":
		e.Name = v
	case "email":
		e.Email = v
	case "phone":
		e.Phone = v
	case "department":
		e.Department = v
	case "position":
		e.Position = v
	case "status":
		e.Status = v
	case "join_date":
		e.JoinDate = v
	case "salary":
		e.Salary = v
	case "avatar":
		e.Avatar = v
	}
}
