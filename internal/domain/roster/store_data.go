package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

const shiftColumns = `
    r.id, r.staff_id, COALESCE(s.full_name, ''), r.shift_type, r.shift_date, r.start_minute, r.end_minute,
    r.breaks, r.status, COALESCE(r.notes, ''), COALESCE(r.approved_by, ''), r.approved_at, r.version,
    r.created_at, r.updated_at`

const shiftFrom = " FROM roster_shifts r LEFT JOIN staff s ON s.id = r.staff_id"

// storedBreak keeps breaks as minute pairs inside the JSONB column.
type storedBreak struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (st *Store) List(ctx context.Context, filter Filter) ([]Shift, error) {
	query := "SELECT " + shiftColumns + shiftFrom + " WHERE 1=1"
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
		query += fmt.Sprintf(" AND r.shift_date >= $%d", len(args))
	}
	if !filter.Period.To.IsZero() {
		args = append(args, filter.Period.To)
		query += fmt.Sprintf(" AND r.shift_date <= $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (s.full_name ILIKE $%d OR r.shift_type ILIKE $%d OR r.notes ILIKE $%d)", n, n, n)
	}
	query += " ORDER BY r.created_at, r.id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := st.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("roster.list", err)
	}
	defer rows.Close()

	var out []Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, apperr.Persistence("roster.list", err)
		}
		out = append(out, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("roster.list", err)
	}
	return out, nil
}

func (st *Store) Get(ctx context.Context, id string) (Shift, error) {
	shift, err := scanShift(st.DB.QueryRow(ctx, "SELECT "+shiftColumns+shiftFrom+" WHERE r.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Shift{}, apperr.NotFound(entityName, id)
	}
	if err != nil {
		return Shift{}, apperr.Persistence("roster.get", err)
	}
	return shift, nil
}

func (st *Store) Create(ctx context.Context, s Shift) error {
	breaks, err := breaksJSON(s.Breaks)
	if err != nil {
		return err
	}
	_, err = st.DB.Exec(ctx, `
    INSERT INTO roster_shifts (id, staff_id, shift_type, shift_date, start_minute, end_minute, breaks, status,
      notes, version, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
  `, s.ID, s.StaffID, string(s.ShiftType), s.Date, int(s.StartTime), int(s.EndTime), breaks, string(s.Status),
		s.Notes, s.Version, s.CreatedAt, s.UpdatedAt)
	return apperr.Persistence("roster.create", err)
}

func (st *Store) Update(ctx context.Context, s Shift, expectedVersion int) error {
	breaks, err := breaksJSON(s.Breaks)
	if err != nil {
		return err
	}
	tag, err := st.DB.Exec(ctx, `
    UPDATE roster_shifts SET staff_id = $3, shift_type = $4, shift_date = $5, start_minute = $6, end_minute = $7,
      breaks = $8, status = $9, notes = $10, approved_by = NULLIF($11, ''), approved_at = $12, version = $13,
      updated_at = $14
    WHERE id = $1 AND version = $2
  `, s.ID, expectedVersion, s.StaffID, string(s.ShiftType), s.Date, int(s.StartTime), int(s.EndTime), breaks,
		string(s.Status), s.Notes, s.ApprovedBy, s.ApprovedAt, s.Version, s.UpdatedAt)
	if err != nil {
		return apperr.Persistence("roster.update", err)
	}
	if tag.RowsAffected() == 0 {
		return st.missingOrStale(ctx, s.ID)
	}
	return nil
}

func (st *Store) Delete(ctx context.Context, id string, expectedVersion int) error {
	tag, err := st.DB.Exec(ctx, "DELETE FROM roster_shifts WHERE id = $1 AND ($2 <= 0 OR version = $2)", id, expectedVersion)
	if err != nil {
		return apperr.Persistence("roster.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return st.missingOrStale(ctx, id)
	}
	return nil
}

func (st *Store) missingOrStale(ctx context.Context, id string) error {
	var exists bool
	if err := st.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM roster_shifts WHERE id = $1)", id).Scan(&exists); err != nil {
		return apperr.Persistence("roster.exists", err)
	}
	if !exists {
		return apperr.NotFound(entityName, id)
	}
	return apperr.Conflict(entityName, id)
}

func scanShift(row pgx.Row) (Shift, error) {
	var s Shift
	var shiftType, status string
	var start, end int
	var breaks []byte
	var approvedAt *time.Time
	if err := row.Scan(&s.ID, &s.StaffID, &s.StaffName, &shiftType, &s.Date, &start, &end,
		&breaks, &status, &s.Notes, &s.ApprovedBy, &approvedAt, &s.Version, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return Shift{}, err
	}
	var stored []storedBreak
	if len(breaks) > 0 {
		if err := json.Unmarshal(breaks, &stored); err != nil {
			return Shift{}, err
		}
	}
	s.Breaks = make([]Break, 0, len(stored))
	for _, b := range stored {
		s.Breaks = append(s.Breaks, Break{Start: clock.TimeOfDay(b.Start), End: clock.TimeOfDay(b.End)})
	}
	s.ShiftType = ShiftType(shiftType)
	s.Status = Status(status)
	s.StartTime = clock.TimeOfDay(start)
	s.EndTime = clock.TimeOfDay(end)
	s.ApprovedAt = approvedAt
	return s, nil
}

func breaksJSON(breaks []Break) ([]byte, error) {
	stored := make([]storedBreak, 0, len(breaks))
	for _, b := range breaks {
		stored = append(stored, storedBreak{Start: int(b.Start), End: int(b.End)})
	}
	return json.Marshal(stored)
}
