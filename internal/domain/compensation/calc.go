package compensation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/money"
)

var (
	maxPercent = decimal.NewFromInt(100)
	// matches salary_records.hours_worked NUMERIC(10,2)
	maxHours = decimal.RequireFromString("99999999.99")
)

// Compute derives every pay figure from rates and period inputs. Absent inputs count
// as zero and a negative net is reported as a warning, never clamped. A figure that
// does not fit in an amount fails with a validation error naming it.
func Compute(rates Rates, in Input) (Breakdown, error) {
	out := Breakdown{
		HoursWorked:           in.HoursWorked,
		HourlyRate:            rates.HourlyRate,
		CommissionRatePercent: rates.CommissionRatePercent,
	}

	var err error
	if in.HoursWorked != nil && rates.HourlyRate != nil {
		if out.HourlyTotal, err = rates.HourlyRate.Mul(*in.HoursWorked); err != nil {
			return Breakdown{}, outOfRange("hourlyTotal")
		}
	}
	if in.FixedSalary != nil {
		out.FixedSalary = *in.FixedSalary
	}

	if out.CommissionBase, err = money.Sum(out.HourlyTotal, out.FixedSalary); err != nil {
		return Breakdown{}, outOfRange("commissionBase")
	}
	if rates.CommissionRatePercent.IsPositive() {
		if out.CommissionTotal, err = out.CommissionBase.Percent(rates.CommissionRatePercent); err != nil {
			return Breakdown{}, outOfRange("commissionTotal")
		}
	}

	if out.BonusTotal, err = sumLines(in.Bonuses); err != nil {
		return Breakdown{}, outOfRange("bonuses")
	}
	if out.DeductionTotal, err = sumLines(in.Deductions); err != nil {
		return Breakdown{}, outOfRange("deductions")
	}

	if out.NetPay, err = money.Sum(out.HourlyTotal, out.FixedSalary, out.CommissionTotal, out.BonusTotal, -out.DeductionTotal); err != nil {
		return Breakdown{}, outOfRange("netPay")
	}
	if out.NetPay.Negative() {
		out.Warnings = append(out.Warnings, WarningNegativeNet)
	}
	return out, nil
}

func sumLines(lines []Adjustment) (money.Amount, error) {
	amounts := make([]money.Amount, len(lines))
	for i, line := range lines {
		amounts[i] = line.Amount
	}
	return money.Sum(amounts...)
}

func outOfRange(field string) error {
	return apperr.Invalid(field, "exceeds the supported amount range")
}

// ValidHours reports whether hours fits the stored precision: non-negative,
// at most 99999999.99 and no more than two decimal places.
func ValidHours(hours decimal.Decimal) bool {
	return !hours.IsNegative() && !hours.GreaterThan(maxHours) && hours.Equal(hours.Truncate(2))
}

// Rates returns the figures relevant to the profile's mode. Commission is a top-up on
// whatever base pay the profile earns, so commission staff keep their hourly rate.
func (p Profile) Rates() Rates {
	var r Rates
	switch p.Mode {
	case ModeHourly:
		r.HourlyRate = p.HourlyRate
	case ModeCommission:
		r.HourlyRate = p.HourlyRate
		if p.CommissionRatePercent != nil {
			r.CommissionRatePercent = *p.CommissionRatePercent
		}
	}
	return r
}

func (p Profile) Validate() error {
	var issues apperr.Issues
	if !p.Mode.Valid() {
		issues.Add("compensation.mode", "must be one of fixed, hourly, commission")
	}
	switch p.Mode {
	case ModeFixed:
		if p.FixedSalary == nil {
			issues.Add("compensation.fixedSalary", "is required for fixed pay")
		}
	case ModeHourly:
		if p.HourlyRate == nil {
			issues.Add("compensation.hourlyRate", "is required for hourly pay")
		}
	case ModeCommission:
		if p.CommissionRatePercent == nil {
			issues.Add("compensation.commissionRatePercent", "is required for commission pay")
		}
	}
	if p.FixedSalary != nil && p.FixedSalary.Negative() {
		issues.Add("compensation.fixedSalary", "must not be negative")
	}
	if p.HourlyRate != nil && p.HourlyRate.Negative() {
		issues.Add("compensation.hourlyRate", "must not be negative")
	}
	if pct := p.CommissionRatePercent; pct != nil && (pct.IsNegative() || pct.GreaterThan(maxPercent)) {
		issues.Add("compensation.commissionRatePercent", "must be between 0 and 100")
	}
	return issues.Err()
}

// NewAdjustment builds a bonus or deduction line; malformed lines never enter a record.
func NewAdjustment(label string, amount money.Amount) (Adjustment, error) {
	label = strings.TrimSpace(label)
	var issues apperr.Issues
	if label == "" {
		issues.Add("label", "is required")
	}
	if amount <= 0 {
		issues.Add("amount", "must be greater than zero")
	}
	if err := issues.Err(); err != nil {
		return Adjustment{}, err
	}
	return Adjustment{Label: label, Amount: amount}, nil
}

func normalizeAdjustments(field string, lines []Adjustment, issues *apperr.Issues) []Adjustment {
	out := make([]Adjustment, 0, len(lines))
	for i, line := range lines {
		adj, err := NewAdjustment(line.Label, line.Amount)
		if err != nil {
			var ve *apperr.ValidationError
			if errors.As(err, &ve) {
				for _, issue := range ve.Issues {
					issues.Add(fmt.Sprintf("%s[%d].%s", field, i, issue.Field), issue.Reason)
				}
			}
			continue
		}
		out = append(out, adj)
	}
	return out
}

func validateInput(in SalaryInput, issues *apperr.Issues) Input {
	if in.PeriodStart.IsZero() {
		issues.Add("periodStart", "is required")
	}
	if in.PeriodEnd.IsZero() {
		issues.Add("periodEnd", "is required")
	}
	if !in.PeriodStart.IsZero() && !in.PeriodEnd.IsZero() && in.PeriodEnd.Before(in.PeriodStart) {
		issues.Add("periodEnd", "must be on or after periodStart")
	}
	if in.HoursWorked != nil && !ValidHours(*in.HoursWorked) {
		issues.Add("hoursWorked", "must be between 0 and 99999999.99 with at most two decimal places")
	}
	if in.FixedSalary != nil && in.FixedSalary.Negative() {
		issues.Add("fixedSalary", "must not be negative")
	}
	return Input{
		HoursWorked: in.HoursWorked,
		FixedSalary: in.FixedSalary,
		Bonuses:     normalizeAdjustments("bonuses", in.Bonuses, issues),
		Deductions:  normalizeAdjustments("deductions", in.Deductions, issues),
	}
}
