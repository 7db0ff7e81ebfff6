package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
)

type systemRepo struct {
	db dbtx
}

// ClaimBootstrap is the transactional count+insert behind the first-user
// path: the marker row can only appear while the users table is empty, and
// the primary key makes a second claim impossible. Two concurrent empty
// system signups race on this statement and exactly one wins.
func (r *systemRepo) ClaimBootstrap(ctx context.Context, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO system_state (id, initialized_at)
		SELECT 1, ?
		WHERE NOT EXISTS (SELECT 1 FROM users)
		  AND NOT EXISTS (SELECT 1 FROM system_state)`,
		toMillis(at),
	)
	if err != nil {
		if mapped := mapConstraint(err); errors.Is(mapped, store.ErrAlreadyExists) {
			return store.ErrAlreadyExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *systemRepo) IsInitialized(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM system_state`).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
