package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/compensation"
	"gymhub/internal/domain/money"
	"gymhub/internal/platform/querier"
)

const uniqueViolation = "23505"

type StaffDataStore struct {
	DB querier.Querier
}

func NewStaffStore(db querier.Querier) *StaffDataStore {
	return &StaffDataStore{DB: db}
}

const staffColumns = `id, full_name, email, COALESCE(phone, ''), COALESCE(position, ''), role,
    pay_mode, fixed_salary, hourly_rate, commission_rate::text, active, version, created_at, updated_at`

func (s *StaffDataStore) List(ctx context.Context, filter StaffFilter) ([]Staff, error) {
	query := "SELECT " + staffColumns + " FROM staff WHERE 1=1"
	var args []any
	if filter.Role != "" {
		args = append(args, filter.Role)
		query += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		query += fmt.Sprintf(" AND active = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (full_name ILIKE $%d OR email ILIKE $%d OR position ILIKE $%d)", len(args), len(args), len(args))
	}
	query += " ORDER BY created_at, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("staff.list", err)
	}
	defer rows.Close()

	var out []Staff
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, apperr.Persistence("staff.list", err)
		}
		out = append(out, staff)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("staff.list", err)
	}
	return out, nil
}

func (s *StaffDataStore) Get(ctx context.Context, id string) (Staff, error) {
	staff, err := scanStaff(s.DB.QueryRow(ctx, "SELECT "+staffColumns+" FROM staff WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Staff{}, apperr.NotFound(staffEntity, id)
	}
	if err != nil {
		return Staff{}, apperr.Persistence("staff.get", err)
	}
	return staff, nil
}

func (s *StaffDataStore) Create(ctx context.Context, staff Staff) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO staff (id, full_name, email, phone, position, role, pay_mode, fixed_salary, hourly_rate,
      commission_rate, active, version, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10::numeric,$11,$12,$13,$14)
  `, staff.ID, staff.FullName, staff.Email, staff.Phone, staff.Position, staff.Role,
		string(staff.Profile.Mode), amountArg(staff.Profile.FixedSalary), amountArg(staff.Profile.HourlyRate),
		decimalArg(staff.Profile.CommissionRatePercent), staff.Active, staff.Version, staff.CreatedAt, staff.UpdatedAt)
	return uniqueEmail("staff.create", err)
}

func (s *StaffDataStore) Update(ctx context.Context, staff Staff, expectedVersion int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE staff SET full_name = $3, email = $4, phone = $5, position = $6, role = $7, pay_mode = $8,
      fixed_salary = $9, hourly_rate = $10, commission_rate = $11::numeric, active = $12, version = $13, updated_at = $14
    WHERE id = $1 AND version = $2
  `, staff.ID, expectedVersion, staff.FullName, staff.Email, staff.Phone, staff.Position, staff.Role,
		string(staff.Profile.Mode), amountArg(staff.Profile.FixedSalary), amountArg(staff.Profile.HourlyRate),
		decimalArg(staff.Profile.CommissionRatePercent), staff.Active, staff.Version, staff.UpdatedAt)
	if err != nil {
		return uniqueEmail("staff.update", err)
	}
	if tag.RowsAffected() == 0 {
		return missingOrStale(ctx, s.DB, "staff", staffEntity, staff.ID)
	}
	return nil
}

func (s *StaffDataStore) Delete(ctx context.Context, id string, expectedVersion int) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM staff WHERE id = $1 AND ($2 <= 0 OR version = $2)", id, expectedVersion)
	if err != nil {
		return apperr.Persistence("staff.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return missingOrStale(ctx, s.DB, "staff", staffEntity, id)
	}
	return nil
}

type MemberDataStore struct {
	DB querier.Querier
}

func NewMemberStore(db querier.Querier) *MemberDataStore {
	return &MemberDataStore{DB: db}
}

const memberColumns = "id, full_name, email, COALESCE(phone, ''), status, joined_at, version, created_at, updated_at"

func (s *MemberDataStore) List(ctx context.Context, filter MemberFilter) ([]Member, error) {
	query := "SELECT " + memberColumns + " FROM members WHERE 1=1"
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (full_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", len(args), len(args), len(args))
	}
	query += " ORDER BY created_at, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("member.list", err)
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, apperr.Persistence("member.list", err)
		}
		out = append(out, member)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("member.list", err)
	}
	return out, nil
}

func (s *MemberDataStore) Get(ctx context.Context, id string) (Member, error) {
	member, err := scanMember(s.DB.QueryRow(ctx, "SELECT "+memberColumns+" FROM members WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, apperr.NotFound(memberEntity, id)
	}
	if err != nil {
		return Member{}, apperr.Persistence("member.get", err)
	}
	return member, nil
}

func (s *MemberDataStore) Create(ctx context.Context, m Member) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO members (id, full_name, email, phone, status, joined_at, version, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, m.ID, m.FullName, m.Email, m.Phone, string(m.Status), m.JoinedAt, m.Version, m.CreatedAt, m.UpdatedAt)
	return apperr.Persistence("member.create", err)
}

func (s *MemberDataStore) Update(ctx context.Context, m Member, expectedVersion int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE members SET full_name = $3, email = $4, phone = $5, status = $6, joined_at = $7, version = $8, updated_at = $9
    WHERE id = $1 AND version = $2
  `, m.ID, expectedVersion, m.FullName, m.Email, m.Phone, string(m.Status), m.JoinedAt, m.Version, m.UpdatedAt)
	if err != nil {
		return apperr.Persistence("member.update", err)
	}
	if tag.RowsAffected() == 0 {
		return missingOrStale(ctx, s.DB, "members", memberEntity, m.ID)
	}
	return nil
}

func (s *MemberDataStore) Delete(ctx context.Context, id string, expectedVersion int) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM members WHERE id = $1 AND ($2 <= 0 OR version = $2)", id, expectedVersion)
	if err != nil {
		return apperr.Persistence("member.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return missingOrStale(ctx, s.DB, "members", memberEntity, id)
	}
	return nil
}

func scanStaff(row pgx.Row) (Staff, error) {
	var staff Staff
	var mode string
	var fixed, hourly *int64
	var rate *string
	if err := row.Scan(&staff.ID, &staff.FullName, &staff.Email, &staff.Phone, &staff.Position, &staff.Role,
		&mode, &fixed, &hourly, &rate, &staff.Active, &staff.Version, &staff.CreatedAt, &staff.UpdatedAt); err != nil {
		return Staff{}, err
	}
	staff.Profile.Mode = compensation.Mode(mode)
	if fixed != nil {
		a := money.Amount(*fixed)
		staff.Profile.FixedSalary = &a
	}
	if hourly != nil {
		a := money.Amount(*hourly)
		staff.Profile.HourlyRate = &a
	}
	if rate != nil {
		d, err := decimal.NewFromString(*rate)
		if err != nil {
			return Staff{}, err
		}
		staff.Profile.CommissionRatePercent = &d
	}
	return staff, nil
}

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	var status string
	if err := row.Scan(&m.ID, &m.FullName, &m.Email, &m.Phone, &status, &m.JoinedAt, &m.Version, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return Member{}, err
	}
	m.Status = MemberStatus(status)
	return m, nil
}

// missingOrStale tells a vanished row from a version mismatch after a conditional write touched nothing.
func missingOrStale(ctx context.Context, db querier.Querier, table, entity, id string) error {
	var exists bool
	if err := db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM "+table+" WHERE id = $1)", id).Scan(&exists); err != nil {
		return apperr.Persistence(entity+".exists", err)
	}
	if !exists {
		return apperr.NotFound(entity, id)
	}
	return apperr.Conflict(entity, id)
}

func uniqueEmail(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Invalid("email", "is already in use")
	}
	return apperr.Persistence(op, err)
}

func amountArg(a *money.Amount) any {
	if a == nil {
		return nil
	}
	return int64(*a)
}

func decimalArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
