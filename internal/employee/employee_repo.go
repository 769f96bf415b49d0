package employee

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Insert(ctx context.Context, empl *Employee) error
	ListAll(ctx context.Context) ([]Employee, error)
	ListRecent(ctx context.Context, n int) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	DistinctValues(ctx context.Context, field string) ([]string, error)
	AverageNumericField(ctx context.Context, field string) (float64, error)
	CountByField(ctx context.Context, field string) ([]FieldCount, error)
	Update(ctx context.Context, id string, changes map[string]any) (*Employee, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// conn returns a session bound to ctx and, when set, to the caller's transaction.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Insert(ctx context.Context, empl *Employee) error {
	if empl.ID == uuid.Nil {
		empl.ID = uuid.New()
	}
	if empl.CreatedAt.IsZero() {
		empl.CreatedAt = time.Now().UTC()
	}
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) ListAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).Find(&empls).Error
	return empls, err
}

func (r *repository) ListRecent(ctx context.Context, n int) ([]Employee, error) {
	var empls []Employee
	if n <= 0 {
		return empls, nil
	}
	err := r.conn(ctx).
		Order("created_at DESC").
		Limit(n).
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		Where("id = ?", id).
		Take(&empl).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) Count(ctx context.Context, filter Filter) (int64, error) {
	q := r.conn(ctx).Model(&Employee{})

	// Sorted so the generated SQL is stable.
	fields := make([]string, 0, len(filter))
	for f := range filter {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		col, err := columnFor(f)
		if err != nil {
			return 0, err
		}
		q = q.Where(col+" = ?", filter[f])
	}

	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *repository) DistinctValues(ctx context.Context, field string) ([]string, error) {
	col, err := columnFor(field)
	if err != nil {
		return nil, err
	}

	var values []string
	err = r.conn(ctx).
		Model(&Employee{}).
		Distinct(col).
		Where(col + " <> ''").
		Pluck(col, &values).Error
	return values, err
}

// AverageNumericField reads the raw strings and averages the numeric ones in Go,
// so a single malformed value never fails the aggregate.
func (r *repository) AverageNumericField(ctx context.Context, field string) (float64, error) {
	col, err := columnFor(field)
	if err != nil {
		return 0, err
	}

	var raw []sql.NullString
	if err := r.conn(ctx).Model(&Employee{}).Pluck(col, &raw).Error; err != nil {
		return 0, err
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if v.Valid {
			values = append(values, v.String)
		}
	}
	return averageNumeric(values), nil
}

func (r *repository) CountByField(ctx context.Context, field string) ([]FieldCount, error) {
	col, err := columnFor(field)
	if err != nil {
		return nil, err
	}

	var groups []FieldCount
	err = r.conn(ctx).
		Model(&Employee{}).
		Select(col + " AS value, COUNT(*) AS count").
		Where(col + " <> ''").
		Group(col).
		Order("count DESC, value ASC").
		Scan(&groups).Error
	return groups, err
}

// Update applies changes keyed by column name. Last write wins; a missing row
// is reported as gorm.ErrRecordNotFound.
func (r *repository) Update(ctx context.Context, id string, changes map[string]any) (*Employee, error) {
	db := r.conn(ctx)
	res := db.Model(&Employee{}).
		Where("id = ?", id).
		Updates(changes)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).
		Where("id = ?", id).
		Delete(&Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
