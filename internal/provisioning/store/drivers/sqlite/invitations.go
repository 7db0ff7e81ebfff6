package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
)

type invitationsRepo struct {
	db dbtx
}

const invitationColumns = `id, email, role, business_id, token_hash, status, expires_at, invited_by, created_at, updated_at`

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	now := toMillis(time.Now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations (id, email, role, business_id, token_hash, status, expires_at, invited_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Email, string(inv.Role), inv.BusinessID, inv.TokenHash,
		string(inv.Status), toMillis(inv.ExpiresAt), inv.InvitedBy, now, now,
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	return scanInvitation(row)
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token_hash = ?`, hash)
	return scanInvitation(row)
}

func (r *invitationsRepo) MarkInvitationAccepted(ctx context.Context, id string) error {
	return r.flipStatus(ctx, id, domain.InvitationAccepted)
}

func (r *invitationsRepo) MarkInvitationRevoked(ctx context.Context, id string) error {
	return r.flipStatus(ctx, id, domain.InvitationRevoked)
}

// flipStatus performs the conditional pending→terminal transition. Terminal
// states are immutable, so the WHERE clause is the whole invariant.
func (r *invitationsRepo) flipStatus(ctx context.Context, id string, to domain.InvitationStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET status = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`,
		string(to), toMillis(time.Now()), id,
	)
	if err != nil {
		return err
	}
	return r.mapConditional(ctx, res, id)
}

func (r *invitationsRepo) RotateInvitationToken(ctx context.Context, id, newHash string, newExpiry time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET token_hash = ?, expires_at = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`,
		newHash, toMillis(newExpiry), toMillis(time.Now()), id,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return r.mapConditional(ctx, res, id)
}

func (r *invitationsRepo) ListInvitationsByBusiness(ctx context.Context, businessID string) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE business_id = ? ORDER BY created_at DESC`,
		businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitationRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) DeleteTerminalInvitationsBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM invitations WHERE status != 'pending' AND updated_at < ?`,
		toMillis(cutoff))
	return err
}

// mapConditional distinguishes "row missing" from "row no longer pending"
// after a zero-row conditional update.
func (r *invitationsRepo) mapConditional(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := r.GetInvitationByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrNotFound
		}
		return err
	}
	return store.ErrStaleStatus
}

func scanInvitation(row *sql.Row) (domain.Invitation, error) {
	var (
		inv       domain.Invitation
		role      string
		status    string
		expiresAt int64
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&inv.ID, &inv.Email, &role, &inv.BusinessID, &inv.TokenHash,
		&status, &expiresAt, &inv.InvitedBy, &createdAt, &updatedAt)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	inv.Role = domain.Role(role)
	inv.Status = domain.InvitationStatus(status)
	inv.ExpiresAt = fromMillis(expiresAt)
	inv.CreatedAt = fromMillis(createdAt)
	inv.UpdatedAt = fromMillis(updatedAt)
	return inv, nil
}

func scanInvitationRows(rows *sql.Rows) (domain.Invitation, error) {
	var (
		inv       domain.Invitation
		role      string
		status    string
		expiresAt int64
		createdAt int64
		updatedAt int64
	)
	err := rows.Scan(&inv.ID, &inv.Email, &role, &inv.BusinessID, &inv.TokenHash,
		&status, &expiresAt, &inv.InvitedBy, &createdAt, &updatedAt)
	if err != nil {
		return domain.Invitation{}, err
	}
	inv.Role = domain.Role(role)
	inv.Status = domain.InvitationStatus(status)
	inv.ExpiresAt = fromMillis(expiresAt)
	inv.CreatedAt = fromMillis(createdAt)
	inv.UpdatedAt = fromMillis(updatedAt)
	return inv, nil
}
