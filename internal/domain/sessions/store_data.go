package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/clock"
	"gymhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const sessionColumns = `
    t.id, t.trainer_id, COALESCE(s.full_name, ''), t.member_id, COALESCE(m.full_name, ''), t.session_date,
    t.start_minute, t.duration_minutes, COALESCE(t.session_type, ''), COALESCE(t.location, ''),
    COALESCE(t.notes, ''), t.status, t.version, t.created_at, t.updated_at`

const sessionFrom = ` FROM trainer_sessions t
    LEFT JOIN staff s ON s.id = t.trainer_id
    LEFT JOIN members m ON m.id = t.member_id`

func (st *Store) List(ctx context.Context, filter Filter) ([]TrainerSession, error) {
	query := "SELECT " + sessionColumns + sessionFrom + " WHERE 1=1"
	var args []any
	if filter.TrainerID != "" {
		args = append(args, filter.TrainerID)
		query += fmt.Sprintf(" AND t.trainer_id = $%d", len(args))
	}
	if filter.MemberID != "" {
		args = append(args, filter.MemberID)
		query += fmt.Sprintf(" AND t.member_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if !filter.Period.From.IsZero() {
		args = append(args, filter.Period.From)
		query += fmt.Sprintf(" AND t.session_date >= $%d", len(args))
	}
	if !filter.Period.To.IsZero() {
		args = append(args, filter.Period.To)
		query += fmt.Sprintf(" AND t.session_date <= $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (s.full_name ILIKE $%d OR m.full_name ILIKE $%d OR t.session_type ILIKE $%d OR t.location ILIKE $%d OR t.notes ILIKE $%d)", n, n, n, n, n)
	}
	query += " ORDER BY t.created_at, t.id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := st.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("session.list", err)
	}
	defer rows.Close()

	var out []TrainerSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, apperr.Persistence("session.list", err)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("session.list", err)
	}
	return out, nil
}

func (st *Store) Get(ctx context.Context, id string) (TrainerSession, error) {
	session, err := scanSession(st.DB.QueryRow(ctx, "SELECT "+sessionColumns+sessionFrom+" WHERE t.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return TrainerSession{}, apperr.NotFound(entityName, id)
	}
	if err != nil {
		return TrainerSession{}, apperr.Persistence("session.get", err)
	}
	return session, nil
}

func (st *Store) Create(ctx context.Context, s TrainerSession) error {
	_, err := st.DB.Exec(ctx, `
    INSERT INTO trainer_sessions (id, trainer_id, member_id, session_date, start_minute, duration_minutes,
      session_type, location, notes, status, version, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
  `, s.ID, s.TrainerID, s.MemberID, s.Date, int(s.Time), s.Duration, s.Type, s.Location, s.Notes,
		string(s.Status), s.Version, s.CreatedAt, s.UpdatedAt)
	return apperr.Persistence("session.create", err)
}

func (st *Store) Update(ctx context.Context, s TrainerSession, expectedVersion int) error {
	tag, err := st.DB.Exec(ctx, `
    UPDATE trainer_sessions SET session_date = $3, start_minute = $4, duration_minutes = $5, session_type = $6,
      location = $7, notes = $8, status = $9, version = $10, updated_at = $11
    WHERE id = $1 AND version = $2
  `, s.ID, expectedVersion, s.Date, int(s.Time), s.Duration, s.Type, s.Location, s.Notes,
		string(s.Status), s.Version, s.UpdatedAt)
	if err != nil {
		return apperr.Persistence("session.update", err)
	}
	if tag.RowsAffected() == 0 {
		return st.missingOrStale(ctx, s.ID)
	}
	return nil
}

func (st *Store) Delete(ctx context.Context, id string, expectedVersion int) error {
	tag, err := st.DB.Exec(ctx, "DELETE FROM trainer_sessions WHERE id = $1 AND ($2 <= 0 OR version = $2)", id, expectedVersion)
	if err != nil {
		return apperr.Persistence("session.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return st.missingOrStale(ctx, id)
	}
	return nil
}

func (st *Store) missingOrStale(ctx context.Context, id string) error {
	var exists bool
	if err := st.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM trainer_sessions WHERE id = $1)", id).Scan(&exists); err != nil {
		return apperr.Persistence("session.exists", err)
	}
	if !exists {
		return apperr.NotFound(entityName, id)
	}
	return apperr.Conflict(entityName, id)
}

func scanSession(row pgx.Row) (TrainerSession, error) {
	var s TrainerSession
	var minute int
	var status string
	if err := row.Scan(&s.ID, &s.TrainerID, &s.TrainerName, &s.MemberID, &s.MemberName, &s.Date,
		&minute, &s.Duration, &s.Type, &s.Location, &s.Notes, &status, &s.Version, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return TrainerSession{}, err
	}
	s.Time = clock.TimeOfDay(minute)
	s.Status = Status(status)
	return s, nil
}
