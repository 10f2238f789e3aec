package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/money"
	"gymhub/internal/platform/querier"
)

type PlanDataStore struct {
	DB querier.Querier
}

func NewPlanStore(db querier.Querier) *PlanDataStore {
	return &PlanDataStore{DB: db}
}

const planColumns = "id, name, COALESCE(description, ''), price, duration_days, active, version, created_at, updated_at"

func (s *PlanDataStore) List(ctx context.Context, filter PlanFilter) ([]Plan, error) {
	query := "SELECT " + planColumns + " FROM plans"
	if filter.ActiveOnly {
		query += " WHERE active"
	}
	query += " ORDER BY created_at, id"
	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, apperr.Persistence("plan.list", err)
	}
	defer rows.Close()

	var out []Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, apperr.Persistence("plan.list", err)
		}
		out = append(out, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("plan.list", err)
	}
	return out, nil
}

func (s *PlanDataStore) Get(ctx context.Context, id string) (Plan, error) {
	plan, err := scanPlan(s.DB.QueryRow(ctx, "SELECT "+planColumns+" FROM plans WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Plan{}, apperr.NotFound(planEntity, id)
	}
	if err != nil {
		return Plan{}, apperr.Persistence("plan.get", err)
	}
	return plan, nil
}

func (s *PlanDataStore) Create(ctx context.Context, p Plan) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO plans (id, name, description, price, duration_days, active, version, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, p.ID, p.Name, p.Description, int64(p.Price), p.DurationDays, p.Active, p.Version, p.CreatedAt, p.UpdatedAt)
	return apperr.Persistence("plan.create", err)
}

func (s *PlanDataStore) Update(ctx context.Context, p Plan, expectedVersion int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE plans SET name = $3, description = $4, price = $5, duration_days = $6, active = $7, version = $8, updated_at = $9
    WHERE id = $1 AND version = $2
  `, p.ID, expectedVersion, p.Name, p.Description, int64(p.Price), p.DurationDays, p.Active, p.Version, p.UpdatedAt)
	if err != nil {
		return apperr.Persistence("plan.update", err)
	}
	if tag.RowsAffected() == 0 {
		return missingOrStale(ctx, s.DB, "plans", planEntity, p.ID)
	}
	return nil
}

type RequestDataStore struct {
	DB querier.Querier
}

func NewRequestStore(db querier.Querier) *RequestDataStore {
	return &RequestDataStore{DB: db}
}

const requestColumns = `
    r.id, r.member_id, COALESCE(m.full_name, ''), r.plan_id, COALESCE(p.name, ''), r.requested_at, r.status,
    COALESCE(r.note, ''), COALESCE(r.decided_by, ''), r.decided_at, r.version, r.created_at, r.updated_at`

const requestFrom = ` FROM booking_requests r
    LEFT JOIN members m ON m.id = r.member_id
    LEFT JOIN plans p ON p.id = r.plan_id`

func (s *RequestDataStore) List(ctx context.Context, filter RequestFilter) ([]BookingRequest, error) {
	query := "SELECT " + requestColumns + requestFrom + " WHERE 1=1"
	var args []any
	if filter.MemberID != "" {
		args = append(args, filter.MemberID)
		query += fmt.Sprintf(" AND r.member_id = $%d", len(args))
	}
	if filter.PlanID != "" {
		args = append(args, filter.PlanID)
		query += fmt.Sprintf(" AND r.plan_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	if !filter.Period.From.IsZero() {
		args = append(args, filter.Period.From.Time)
		query += fmt.Sprintf(" AND r.requested_at >= $%d", len(args))
	}
	if !filter.Period.To.IsZero() {
		args = append(args, filter.Period.To.AddDays(1).Time)
		query += fmt.Sprintf(" AND r.requested_at < $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (m.full_name ILIKE $%d OR p.name ILIKE $%d OR r.note ILIKE $%d)", len(args), len(args), len(args))
	}
	query += " ORDER BY r.created_at, r.id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("plan_request.list", err)
	}
	defer rows.Close()

	var out []BookingRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, apperr.Persistence("plan_request.list", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("plan_request.list", err)
	}
	return out, nil
}

func (s *RequestDataStore) Get(ctx context.Context, id string) (BookingRequest, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx, "SELECT "+requestColumns+requestFrom+" WHERE r.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return BookingRequest{}, apperr.NotFound(requestEntity, id)
	}
	if err != nil {
		return BookingRequest{}, apperr.Persistence("plan_request.get", err)
	}
	return req, nil
}

func (s *RequestDataStore) Create(ctx context.Context, r BookingRequest) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO booking_requests (id, member_id, plan_id, requested_at, status, note, version, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, r.ID, r.MemberID, r.PlanID, r.RequestedAt, string(r.Status), r.Note, r.Version, r.CreatedAt, r.UpdatedAt)
	return apperr.Persistence("plan_request.create", err)
}

func (s *RequestDataStore) Update(ctx context.Context, r BookingRequest, expectedVersion int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE booking_requests SET status = $3, note = $4, decided_by = NULLIF($5, ''), decided_at = $6, version = $7, updated_at = $8
    WHERE id = $1 AND version = $2
  `, r.ID, expectedVersion, string(r.Status), r.Note, r.DecidedBy, r.DecidedAt, r.Version, r.UpdatedAt)
	if err != nil {
		return apperr.Persistence("plan_request.update", err)
	}
	if tag.RowsAffected() == 0 {
		return missingOrStale(ctx, s.DB, "booking_requests", requestEntity, r.ID)
	}
	return nil
}

func (s *RequestDataStore) Delete(ctx context.Context, id string, expectedVersion int) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM booking_requests WHERE id = $1 AND ($2 <= 0 OR version = $2)", id, expectedVersion)
	if err != nil {
		return apperr.Persistence("plan_request.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return missingOrStale(ctx, s.DB, "booking_requests", requestEntity, id)
	}
	return nil
}

func scanPlan(row pgx.Row) (Plan, error) {
	var p Plan
	var price int64
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.DurationDays, &p.Active, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Plan{}, err
	}
	p.Price = money.Amount(price)
	return p, nil
}

func scanRequest(row pgx.Row) (BookingRequest, error) {
	var r BookingRequest
	var status string
	var decidedAt *time.Time
	if err := row.Scan(&r.ID, &r.MemberID, &r.MemberName, &r.PlanID, &r.PlanName, &r.RequestedAt, &status,
		&r.Note, &r.DecidedBy, &decidedAt, &r.Version, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return BookingRequest{}, err
	}
	r.Status = Status(status)
	r.DecidedAt = decidedAt
	return r, nil
}

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
