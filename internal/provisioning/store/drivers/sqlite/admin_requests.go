package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
)

type adminRequestsRepo struct {
	db dbtx
}

const adminRequestColumns = `id, name, email, status, reason, requested_at, processed_at, processed_by`

func (r *adminRequestsRepo) CreateAdminRequest(ctx context.Context, req domain.AdminRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_requests (id, name, email, status, requested_at)
		VALUES (?, ?, ?, ?, ?)`,
		req.ID, req.Name, req.Email, string(req.Status), toMillis(req.RequestedAt),
	)
	return mapConstraint(err)
}

func (r *adminRequestsRepo) GetAdminRequestByID(ctx context.Context, id string) (domain.AdminRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+adminRequestColumns+` FROM admin_requests WHERE id = ?`, id)
	return scanAdminRequest(row.Scan)
}

func (r *adminRequestsRepo) HasPendingAdminRequest(ctx context.Context, email string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admin_requests WHERE email = ? AND status = 'pending'`,
		email).Scan(&count)
	return count > 0, err
}

func (r *adminRequestsRepo) ListAdminRequests(ctx context.Context) ([]domain.AdminRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+adminRequestColumns+` FROM admin_requests ORDER BY requested_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AdminRequest
	for rows.Next() {
		req, err := scanAdminRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// MarkAdminRequestProcessed sets the decision, reviewer and timestamp in one
// conditional statement; a request already out of pending is left untouched.
func (r *adminRequestsRepo) MarkAdminRequestProcessed(
	ctx context.Context,
	id string,
	status domain.AdminRequestStatus,
	processedBy, reason string,
	processedAt time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE admin_requests
		SET status = ?, reason = ?, processed_by = ?, processed_at = ?
		WHERE id = ? AND status = 'pending'`,
		string(status), nullIfEmpty(reason), processedBy, toMillis(processedAt), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := r.GetAdminRequestByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrNotFound
		}
		return err
	}
	return store.ErrStaleStatus
}

func (r *adminRequestsRepo) DeleteTerminalAdminRequestsBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM admin_requests WHERE status != 'pending' AND processed_at < ?`,
		toMillis(cutoff))
	return err
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func scanAdminRequest(scan func(dest ...any) error) (domain.AdminRequest, error) {
	var (
		req         domain.AdminRequest
		status      string
		reason      sql.NullString
		requestedAt int64
		processedAt sql.NullInt64
		processedBy sql.NullString
	)
	err := scan(&req.ID, &req.Name, &req.Email, &status, &reason,
		&requestedAt, &processedAt, &processedBy)
	if err != nil {
		return domain.AdminRequest{}, mapNotFound(err)
	}
	req.Status = domain.AdminRequestStatus(status)
	if reason.Valid {
		req.Reason = reason.String
	}
	req.RequestedAt = fromMillis(requestedAt)
	req.ProcessedAt = mapNullMillis(processedAt)
	req.ProcessedBy = mapNullString(processedBy)
	return req, nil
}
