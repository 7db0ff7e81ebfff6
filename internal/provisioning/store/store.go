package store

import (
	"context"
	"errors"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrQuotaExceeded is returned by the conditional slot reservations when
	// the check-and-increment matched no row because the counter is at its
	// effective limit.
	ErrQuotaExceeded = errors.New("store: quota exceeded")

	// ErrStaleStatus is returned by conditional status flips when the row
	// exists but is no longer in the state the transition requires.
	ErrStaleStatus = errors.New("store: stale status")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep concerns tidy; transactions are
// scoped through WithTx so multi-step provisioning operations commit or roll
// back as a unit.
type Store interface {
	Users() Users
	Businesses() Businesses
	Invitations() Invitations
	AdminRequests() AdminRequests
	System() System

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user by unique email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// UpdateUserRole sets the role and bumps updated_at. Counter upkeep is
	// the caller's job, in the same transaction.
	UpdateUserRole(ctx context.Context, userID string, role domain.Role) error

	// SetUserActive flips the active flag. Users are never hard-deleted.
	SetUserActive(ctx context.Context, userID string, active bool) error

	// CountActiveByRole recounts active users of a role within a business.
	// Ground truth for the quota counters.
	CountActiveByRole(ctx context.Context, businessID string, role domain.Role) (int, error)

	// IsEmpty returns true if there are no users at all.
	IsEmpty(ctx context.Context) (bool, error)
}

type Businesses interface {
	// CreateBusiness inserts a new business with zeroed counters.
	CreateBusiness(ctx context.Context, b domain.Business) error

	// GetBusinessByID returns a business with its quota counters.
	GetBusinessByID(ctx context.Context, id string) (domain.Business, error)

	// ReserveAdminSlot performs the check-and-increment for an admin seat in
	// a single conditional UPDATE: current_admins must be below both
	// max_admins and the global ceiling. Returns ErrQuotaExceeded with no
	// mutation when the slot cannot be taken, ErrNotFound for an unknown
	// business.
	ReserveAdminSlot(ctx context.Context, businessID string, globalCeiling int) error

	// ReserveMemberSlot is the member-seat counterpart (no global ceiling).
	ReserveMemberSlot(ctx context.Context, businessID string) error

	// ReleaseAdminSlot decrements current_admins with a floor of zero.
	ReleaseAdminSlot(ctx context.Context, businessID string) error

	// ReleaseMemberSlot decrements current_members with a floor of zero.
	ReleaseMemberSlot(ctx context.Context, businessID string) error
}

type Invitations interface {
	// CreateInvitation writes a new invitation (token_hash is the SHA-256
	// fingerprint of the opaque token, never the token itself).
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByID returns an invitation by id.
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetInvitationByTokenHash returns an invitation by token fingerprint
	// regardless of status; status and expiry are the caller's business.
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// MarkInvitationAccepted flips pending→accepted conditionally. Returns
	// ErrStaleStatus when the row exists but is no longer pending.
	MarkInvitationAccepted(ctx context.Context, id string) error

	// MarkInvitationRevoked flips pending→revoked conditionally, same
	// semantics as MarkInvitationAccepted.
	MarkInvitationRevoked(ctx context.Context, id string) error

	// RotateInvitationToken swaps in a fresh token hash and expiry on a
	// still-pending invitation. The invitation's identity is unchanged and
	// the old token stops resolving.
	RotateInvitationToken(ctx context.Context, id, newHash string, newExpiry time.Time) error

	// ListInvitationsByBusiness returns invitations newest first.
	ListInvitationsByBusiness(ctx context.Context, businessID string) ([]domain.Invitation, error)

	// DeleteTerminalInvitationsBefore is housekeeping: it removes rows in a
	// terminal state whose last update predates cutoff. It never touches
	// pending rows, so expiry stays lazily evaluated.
	DeleteTerminalInvitationsBefore(ctx context.Context, cutoff time.Time) error
}

type AdminRequests interface {
	// CreateAdminRequest inserts a new pending request.
	CreateAdminRequest(ctx context.Context, req domain.AdminRequest) error

	// GetAdminRequestByID returns a request by id.
	GetAdminRequestByID(ctx context.Context, id string) (domain.AdminRequest, error)

	// HasPendingAdminRequest reports whether a pending request exists for
	// the email.
	HasPendingAdminRequest(ctx context.Context, email string) (bool, error)

	// ListAdminRequests returns all requests newest first.
	ListAdminRequests(ctx context.Context) ([]domain.AdminRequest, error)

	// MarkAdminRequestProcessed flips pending→terminal conditionally,
	// setting status, reason, processed_by and processed_at in one
	// statement. Returns ErrStaleStatus when the row exists but was already
	// processed.
	MarkAdminRequestProcessed(ctx context.Context, id string, status domain.AdminRequestStatus, processedBy, reason string, processedAt time.Time) error

	// DeleteTerminalAdminRequestsBefore is housekeeping for old processed
	// rows.
	DeleteTerminalAdminRequestsBefore(ctx context.Context, cutoff time.Time) error
}

// System holds the bootstrap claim: a unique-constrained single-row marker
// whose insert is the one legal Uninitialized→Initialized transition.
type System interface {
	// ClaimBootstrap atomically claims the first-user path. The insert only
	// succeeds while no user row exists and no prior claim was recorded;
	// otherwise it returns ErrAlreadyExists. Call inside the same
	// transaction that creates the bootstrap user.
	ClaimBootstrap(ctx context.Context, at time.Time) error

	// IsInitialized reports whether the claim row exists.
	IsInitialized(ctx context.Context) (bool, error)
}
