package payroll

import "time"

type Period struct {
	ID               string     `json:"id"`
	CompanyID        string     `json:"companyId"`
	Year             int        `json:"year"`
	Month            int        `json:"month"`
	PeriodStart      time.Time  `json:"periodStart"`
	PeriodEnd        time.Time  `json:"periodEnd"`
	Status           string     `json:"status"`
	RejectReason     string     `json:"rejectReason,omitempty"`
	PaymentReference string     `json:"paymentReference,omitempty"`
	TotalGross       float64    `json:"totalGross"`
	TotalNet         float64    `json:"totalNet"`
	TotalOvertimePay float64    `json:"totalOvertimePay"`
	CreatedAt        time.Time  `json:"createdAt"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
}

// Line is one allowance or deduction detail row inside an item.
type Line struct {
	TemplateID string  `json:"templateId"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
}

type Item struct {
	ID               string    `json:"id"`
	PeriodID         string    `json:"periodId"`
	EmployeeID       string    `json:"employeeId"`
	EmployeeName     string    `json:"employeeName,omitempty"`
	ConfigID         string    `json:"configId"`
	SalaryType       string    `json:"salaryType"`
	BaseSalary       float64   `json:"baseSalary"`
	OvertimeMinutes  int       `json:"overtimeMinutes"`
	OvertimePay      float64   `json:"overtimePay"`
	Allowances       []Line    `json:"allowances"`
	Deductions       []Line    `json:"deductions"`
	AllowanceTotal   float64   `json:"allowanceTotal"`
	DeductionTotal   float64   `json:"deductionTotal"`
	Gross            float64   `json:"gross"`
	Net              float64   `json:"netSalary"`
	AdjustmentAmount float64   `json:"adjustmentAmount"`
	AdjustmentReason string    `json:"adjustmentReason,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// WorkRecord carries the per-employee units worked inside a period, used to
// price daily, hourly and shift-based salary types and overtime.
type WorkRecord struct {
	EmployeeID      string  `json:"employeeId"`
	DaysWorked      float64 `json:"daysWorked"`
	HoursWorked     float64 `json:"hoursWorked"`
	ShiftsWorked    float64 `json:"shiftsWorked"`
	OvertimeMinutes int     `json:"overtimeMinutes"`
}

type Summary struct {
	TotalGross       float64 `json:"totalGross"`
	TotalNet         float64 `json:"totalNet"`
	TotalOvertimePay float64 `json:"totalOvertimePay"`
	EmployeeCount    int     `json:"employeeCount"`
	AdjustedCount    int     `json:"adjustedCount"`
}

type RegisterRow struct {
	EmployeeID   string
	EmployeeName string
	SalaryType   string
	BaseSalary   float64
	OvertimePay  float64
	Allowances   float64
	Deductions   float64
	Gross        float64
	Net          float64
}
