package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "Active"
	StatusOnLeave  = "On Leave"
	StatusInactive = "Inactive"

	DefaultAvatar = "/placeholder.svg"
)

// Employee is one denormalized record; department and position are plain
// strings copied onto each row.
type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string
	Email      string
	Phone      string
	Department string `gorm:"index"`
	Position   string
	Status     string `gorm:"index"`
	JoinDate   string
	Salary     string
	Avatar     string
	CreatedAt  time.Time `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}

// Wire field names accepted in filters, aggregates and patches, mapped to
// their storage columns.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldDepartment = "department"
	FieldPosition   = "position"
	FieldStatus     = "status"
	FieldJoinDate   = "joinDate"
	FieldSalary     = "salary"
	FieldAvatar     = "avatar"
)

var fieldColumns = map[string]string{
	FieldName:       "name",
	FieldEmail:      "email",
	FieldPhone:      "phone",
	FieldDepartment: "department",
	FieldPosition:   "position",
	FieldStatus:     "status",
	FieldJoinDate:   "join_date",
	FieldSalary:     "salary",
	FieldAvatar:     "avatar",
}

// columnFor resolves a wire field name to its column.
func columnFor(field string) (string, error) {
	col, ok := fieldColumns[field]
	if !ok {
		return "", &UnknownFieldError{Field: field}
	}
	return col, nil
}

// UnknownFieldError is returned for any field outside the Employee field set.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return "unknown employee field: " + e.Field
}

// Filter is an equality predicate over wire field names; empty matches all.
type Filter map[string]string

// FieldCount is one group of CountByField.
type FieldCount struct {
	Value string
	Count int64
}
