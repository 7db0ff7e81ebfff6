package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
)

type businessesRepo struct {
	db dbtx
}

func (r *businessesRepo) CreateBusiness(ctx context.Context, b domain.Business) error {
	now := toMillis(time.Now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO businesses (id, name, max_admins, max_members, current_admins, current_members, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.MaxAdmins, b.MaxMembers, b.CurrentAdmins, b.CurrentMembers, now, now,
	)
	return mapConstraint(err)
}

func (r *businessesRepo) GetBusinessByID(ctx context.Context, id string) (domain.Business, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, max_admins, max_members, current_admins, current_members, created_at, updated_at
		FROM businesses WHERE id = ?`, id)

	var (
		b         domain.Business
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&b.ID, &b.Name, &b.MaxAdmins, &b.MaxMembers,
		&b.CurrentAdmins, &b.CurrentMembers, &createdAt, &updatedAt)
	if err != nil {
		return domain.Business{}, mapNotFound(err)
	}
	b.CreatedAt = fromMillis(createdAt)
	b.UpdatedAt = fromMillis(updatedAt)
	return b, nil
}

// ReserveAdminSlot is the check-and-increment: the WHERE clause carries both
// the per-business limit and the global ceiling, so concurrent writers from
// independent processes cannot push the counter past either.
func (r *businessesRepo) ReserveAdminSlot(ctx context.Context, businessID string, globalCeiling int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE businesses
		SET current_admins = current_admins + 1, updated_at = ?
		WHERE id = ? AND current_admins < MIN(max_admins, ?)`,
		toMillis(time.Now()), businessID, globalCeiling,
	)
	if err != nil {
		return err
	}
	return r.mapReservation(ctx, res, businessID)
}

func (r *businessesRepo) ReserveMemberSlot(ctx context.Context, businessID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE businesses
		SET current_members = current_members + 1, updated_at = ?
		WHERE id = ? AND current_members < max_members`,
		toMillis(time.Now()), businessID,
	)
	if err != nil {
		return err
	}
	return r.mapReservation(ctx, res, businessID)
}

func (r *businessesRepo) ReleaseAdminSlot(ctx context.Context, businessID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE businesses
		SET current_admins = MAX(current_admins - 1, 0), updated_at = ?
		WHERE id = ?`,
		toMillis(time.Now()), businessID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *businessesRepo) ReleaseMemberSlot(ctx context.Context, businessID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE businesses
		SET current_members = MAX(current_members - 1, 0), updated_at = ?
		WHERE id = ?`,
		toMillis(time.Now()), businessID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// mapReservation distinguishes "business missing" from "quota full" after a
// zero-row conditional update.
func (r *businessesRepo) mapReservation(ctx context.Context, res sql.Result, businessID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := r.GetBusinessByID(ctx, businessID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrNotFound
		}
		return err
	}
	return store.ErrQuotaExceeded
}
