package employee

import "time"

type CreateEmployeeRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Department string `json:"department" binding:"required"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Salary     string `json:"salary"`
	StartDate  string `json:"startDate"`
	Avatar     string `json:"avatar"`
	Status     string `json:"status"`
}

type EmployeeResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Status     string    `json:"status"`
	JoinDate   string    `json:"joinDate"`
	Salary     string    `json:"salary"`
	Avatar     string    `json:"avatar"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateEmployeeResponse struct {
	Message  string           `json:"message"`
	Employee EmployeeResponse `json:"employee"`
}

type StatsResponse struct {
	TotalEmployees  int64   `json:"totalEmployees"`
	ActiveToday     int64   `json:"activeToday"`
	AvgSalary       float64 `json:"avgSalary"`
	OnLeave         int64   `json:"onLeave"`
	DepartmentCount int     `json:"departmentCount"`
}

type DepartmentSummaryResponse struct {
	Name          string `json:"name"`
	EmployeeCount int64  `json:"employeeCount"`
}
