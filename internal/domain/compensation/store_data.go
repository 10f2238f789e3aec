package compensation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/money"
	"gymhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const salaryColumns = `
    r.id, r.staff_id, COALESCE(s.full_name, ''), r.period_start, r.period_end,
    r.hours_worked::text, r.hourly_rate, r.hourly_total, r.fixed_salary, r.commission_base,
    r.commission_rate::text, r.commission_total, r.bonuses, r.deductions, r.bonus_total,
    r.deduction_total, r.net_pay, r.status, r.notes, COALESCE(r.approved_by, ''), r.approved_at,
    COALESCE(r.paid_by, ''), r.paid_at, r.version, r.created_at, r.updated_at`

func (s *Store) List(ctx context.Context, filter Filter) ([]SalaryRecord, error) {
	query := "SELECT " + salaryColumns + " FROM salary_records r LEFT JOIN staff s ON s.id = r.staff_id WHERE 1=1"
	var args []any
	if filter.StaffID != "" {
		args = append(args, filter.StaffID)
		query += fmt.Sprintf(" AND r.staff_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	if !filter.Period.From.IsZero() {
		args = append(args, filter.Period.From)
		query += fmt.Sprintf(" AND r.period_end >= $%d", len(args))
	}
	if !filter.Period.To.IsZero() {
		args = append(args, filter.Period.To)
		query += fmt.Sprintf(" AND r.period_start <= $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (s.full_name ILIKE $%d OR r.notes ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY r.created_at, r.id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("salary.list", err)
	}
	defer rows.Close()

	var out []SalaryRecord
	for rows.Next() {
		rec, err := scanSalary(rows)
		if err != nil {
			return nil, apperr.Persistence("salary.list", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("salary.list", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (SalaryRecord, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+salaryColumns+" FROM salary_records r LEFT JOIN staff s ON s.id = r.staff_id WHERE r.id = $1", id)
	rec, err := scanSalary(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return SalaryRecord{}, apperr.NotFound(entityName, id)
	}
	if err != nil {
		return SalaryRecord{}, apperr.Persistence("salary.get", err)
	}
	return rec, nil
}

func (s *Store) Create(ctx context.Context, rec SalaryRecord) error {
	bonuses, deductions, err := adjustmentsJSON(rec)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO salary_records (
      id, staff_id, period_start, period_end, hours_worked, hourly_rate, hourly_total, fixed_salary,
      commission_base, commission_rate, commission_total, bonuses, deductions, bonus_total,
      deduction_total, net_pay, status, notes, version, created_at, updated_at
    ) VALUES ($1,$2,$3,$4,$5::numeric,$6,$7,$8,$9,$10::numeric,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
  `, rec.ID, rec.StaffID, rec.PeriodStart, rec.PeriodEnd, decimalArg(rec.HoursWorked), amountArg(rec.HourlyRate),
		int64(rec.HourlyTotal), int64(rec.FixedSalary), int64(rec.CommissionBase), rec.CommissionRatePercent.String(),
		int64(rec.CommissionTotal), bonuses, deductions, int64(rec.BonusTotal), int64(rec.DeductionTotal),
		int64(rec.NetPay), string(rec.Status), rec.Notes, rec.Version, rec.CreatedAt, rec.UpdatedAt)
	return apperr.Persistence("salary.create", err)
}

func (s *Store) Update(ctx context.Context, rec SalaryRecord, expectedVersion int) error {
	bonuses, deductions, err := adjustmentsJSON(rec)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE salary_records SET
      period_start = $3, period_end = $4, hours_worked = $5::numeric, hourly_rate = $6, hourly_total = $7,
      fixed_salary = $8, commission_base = $9, commission_rate = $10::numeric, commission_total = $11,
      bonuses = $12, deductions = $13, bonus_total = $14, deduction_total = $15, net_pay = $16,
      status = $17, notes = $18, approved_by = NULLIF($19, ''), approved_at = $20,
      paid_by = NULLIF($21, ''), paid_at = $22, version = $23, updated_at = $24
    WHERE id = $1 AND version = $2
  `, rec.ID, expectedVersion, rec.PeriodStart, rec.PeriodEnd, decimalArg(rec.HoursWorked), amountArg(rec.HourlyRate),
		int64(rec.HourlyTotal), int64(rec.FixedSalary), int64(rec.CommissionBase), rec.CommissionRatePercent.String(),
		int64(rec.CommissionTotal), bonuses, deductions, int64(rec.BonusTotal), int64(rec.DeductionTotal),
		int64(rec.NetPay), string(rec.Status), rec.Notes, rec.ApprovedBy, rec.ApprovedAt, rec.PaidBy, rec.PaidAt,
		rec.Version, rec.UpdatedAt)
	if err != nil {
		return apperr.Persistence("salary.update", err)
	}
	if tag.RowsAffected() == 0 {
		return s.missingOrStale(ctx, rec.ID)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string, expectedVersion int) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM salary_records WHERE id = $1 AND ($2 <= 0 OR version = $2)", id, expectedVersion)
	if err != nil {
		return apperr.Persistence("salary.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return s.missingOrStale(ctx, id)
	}
	return nil
}

func (s *Store) missingOrStale(ctx context.Context, id string) error {
	var exists bool
	if err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM salary_records WHERE id = $1)", id).Scan(&exists); err != nil {
		return apperr.Persistence("salary.exists", err)
	}
	if !exists {
		return apperr.NotFound(entityName, id)
	}
	return apperr.Conflict(entityName, id)
}

func scanSalary(row pgx.Row) (SalaryRecord, error) {
	var rec SalaryRecord
	var hours, rate *string
	var hourlyRate *int64
	var hourlyTotal, fixed, base, commission, bonusTotal, deductionTotal, net int64
	var bonuses, deductions []byte
	var status string
	var approvedAt, paidAt *time.Time
	if err := row.Scan(&rec.ID, &rec.StaffID, &rec.StaffName, &rec.PeriodStart, &rec.PeriodEnd,
		&hours, &hourlyRate, &hourlyTotal, &fixed, &base,
		&rate, &commission, &bonuses, &deductions, &bonusTotal,
		&deductionTotal, &net, &status, &rec.Notes, &rec.ApprovedBy, &approvedAt,
		&rec.PaidBy, &paidAt, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return SalaryRecord{}, err
	}

	if hours != nil {
		d, err := decimal.NewFromString(*hours)
		if err != nil {
			return SalaryRecord{}, err
		}
		rec.HoursWorked = &d
	}
	if rate != nil {
		d, err := decimal.NewFromString(*rate)
		if err != nil {
			return SalaryRecord{}, err
		}
		rec.CommissionRatePercent = d
	}
	if hourlyRate != nil {
		a := money.Amount(*hourlyRate)
		rec.HourlyRate = &a
	}
	if err := json.Unmarshal(bonuses, &rec.Bonuses); err != nil {
		return SalaryRecord{}, err
	}
	if err := json.Unmarshal(deductions, &rec.Deductions); err != nil {
		return SalaryRecord{}, err
	}
	rec.HourlyTotal = money.Amount(hourlyTotal)
	rec.FixedSalary = money.Amount(fixed)
	rec.CommissionBase = money.Amount(base)
	rec.CommissionTotal = money.Amount(commission)
	rec.BonusTotal = money.Amount(bonusTotal)
	rec.DeductionTotal = money.Amount(deductionTotal)
	rec.NetPay = money.Amount(net)
	rec.Status = Status(status)
	rec.ApprovedAt = approvedAt
	rec.PaidAt = paidAt
	if rec.NetPay.Negative() {
		rec.Warnings = []string{WarningNegativeNet}
	}
	return rec, nil
}

func adjustmentsJSON(rec SalaryRecord) ([]byte, []byte, error) {
	bonuses, err := json.Marshal(nonNil(rec.Bonuses))
	if err != nil {
		return nil, nil, err
	}
	deductions, err := json.Marshal(nonNil(rec.Deductions))
	if err != nil {
		return nil, nil, err
	}
	return bonuses, deductions, nil
}

func nonNil(lines []Adjustment) []Adjustment {
	if lines == nil {
		return []Adjustment{}
	}
	return lines
}

func decimalArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func amountArg(a *money.Amount) any {
	if a == nil {
		return nil
	}
	return int64(*a)
}
