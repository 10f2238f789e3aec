package compensation

import (
	"time"

	"github.com/shopspring/decimal"

	"gymhub/internal/domain/clock"
	"gymhub/internal/domain/money"
)

// Profile is the pay configuration owned by a staff record.
type Profile struct {
	Mode                  Mode             `json:"mode"`
	FixedSalary           *money.Amount    `json:"fixedSalary,omitempty"`
	HourlyRate            *money.Amount    `json:"hourlyRate,omitempty"`
	CommissionRatePercent *decimal.Decimal `json:"commissionRatePercent,omitempty"`
}

// Rates are the profile values that take part in a calculation.
type Rates struct {
	HourlyRate            *money.Amount
	CommissionRatePercent decimal.Decimal
}

type Adjustment struct {
	Label  string       `json:"label"`
	Amount money.Amount `json:"amount"`
}

type Input struct {
	HoursWorked *decimal.Decimal
	FixedSalary *money.Amount
	Bonuses     []Adjustment
	Deductions  []Adjustment
}

type Breakdown struct {
	HoursWorked           *decimal.Decimal `json:"hoursWorked,omitempty"`
	HourlyRate            *money.Amount    `json:"hourlyRate,omitempty"`
	HourlyTotal           money.Amount     `json:"hourlyTotal"`
	FixedSalary           money.Amount     `json:"fixedSalary"`
	CommissionBase        money.Amount     `json:"commissionBase"`
	CommissionRatePercent decimal.Decimal  `json:"commissionRatePercent"`
	CommissionTotal       money.Amount     `json:"commissionTotal"`
	BonusTotal            money.Amount     `json:"bonusTotal"`
	DeductionTotal        money.Amount     `json:"deductionTotal"`
	NetPay                money.Amount     `json:"netPay"`
	Warnings              []string         `json:"warnings,omitempty"`
}

type SalaryRecord struct {
	ID          string       `json:"id"`
	StaffID     string       `json:"staffId"`
	StaffName   string       `json:"staffName"`
	PeriodStart clock.Date   `json:"periodStart"`
	PeriodEnd   clock.Date   `json:"periodEnd"`
	Bonuses     []Adjustment `json:"bonuses"`
	Deductions  []Adjustment `json:"deductions"`
	Breakdown
	Status     Status     `json:"status"`
	Notes      string     `json:"notes,omitempty"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	PaidBy     string     `json:"paidBy,omitempty"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// SalaryInput is the editable part of a salary record.
type SalaryInput struct {
	PeriodStart    clock.Date       `json:"periodStart"`
	PeriodEnd      clock.Date       `json:"periodEnd"`
	HoursWorked    *decimal.Decimal `json:"hoursWorked,omitempty"`
	UseRosterHours bool             `json:"useRosterHours,omitempty"`
	FixedSalary    *money.Amount    `json:"fixedSalary,omitempty"`
	Bonuses        []Adjustment     `json:"bonuses,omitempty"`
	Deductions     []Adjustment     `json:"deductions,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

type GenerateInput struct {
	StaffID string `json:"staffId"`
	SalaryInput
}

// Payee is the staff member a salary record pays.
type Payee struct {
	ID       string
	FullName string
	Email    string
	Position string
	Profile  Profile
}

type Filter struct {
	StaffID string
	Status  Status
	Search  string
	Period  clock.Range
	Limit   int
	Offset  int
}

func (r SalaryRecord) Locked() bool {
	return r.Status == StatusPaid
}
