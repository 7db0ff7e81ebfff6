package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/notify"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
	"github.com/crewdeskhq/crewdesk/pkg/idx"
	"github.com/crewdeskhq/crewdesk/pkg/slogx"
)

var (
	ErrDuplicateRequest = errors.New("a pending request already exists for this email")
	ErrAlreadyProcessed = errors.New("request already processed")
	ErrNoSuchAccount    = errors.New("no active account matches the request email")
)

// AdminRequestService owns the self-service path to the Admin role: anyone
// may submit a request, a reviewer with admins:manage resolves it. Approval
// elevates the existing account with that email and settles the quota
// ledger in the same transaction.
type AdminRequestService struct {
	Store  store.Store
	Quota  *QuotaService
	Notify notify.Dispatcher
}

// Submit files a new pending request. One pending request per email.
func (s *AdminRequestService) Submit(ctx context.Context, name, email string) (domain.AdminRequest, error) {
	log := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return domain.AdminRequest{}, ErrValidation
	}

	pending, err := s.Store.AdminRequests().HasPendingAdminRequest(ctx, email)
	if err != nil {
		return domain.AdminRequest{}, err
	}
	if pending {
		return domain.AdminRequest{}, ErrDuplicateRequest
	}

	req := domain.AdminRequest{
		ID:          idx.New().String(),
		Name:        name,
		Email:       email,
		Status:      domain.AdminRequestPending,
		RequestedAt: time.Now(),
	}
	if err := s.Store.AdminRequests().CreateAdminRequest(ctx, req); err != nil {
		log.Error("failed to create admin request", slog.Any("error", err))
		return domain.AdminRequest{}, err
	}

	log.Info("admin request submitted", slog.String("request_id", req.ID))
	return req, nil
}

// List returns all requests, newest first. Reviewer-only.
func (s *AdminRequestService) List(ctx context.Context, actor domain.User) ([]domain.AdminRequest, error) {
	if !actor.Role.Can(domain.PermManageAdmins) {
		return nil, ErrPermissionDenied
	}
	return s.Store.AdminRequests().ListAdminRequests(ctx)
}

// Process resolves a pending request. Approval re-reads the target account,
// reserves an admin seat in its business, elevates the role and releases the
// old seat, all in one transaction with the pending→terminal flip. Rejection
// records the reviewer's reason and touches nothing else.
//
// A request whose email matches no active account cannot be approved; it
// stays pending so the reviewer can retry after the account exists.
func (s *AdminRequestService) Process(
	ctx context.Context,
	actorID, requestID string,
	approve bool,
	reason string,
) (domain.AdminRequest, error) {
	log := slogx.FromContext(ctx)

	if actorID == "" || requestID == "" {
		return domain.AdminRequest{}, ErrValidation
	}

	var result domain.AdminRequest
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now()

		// 1. Re-read the reviewer; the token only carries identity.
		actor, err := tx.Users().GetUserByID(ctx, actorID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPermissionDenied
			}
			return err
		}
		if !actor.Active || !actor.Role.Can(domain.PermManageAdmins) {
			return ErrPermissionDenied
		}

		req, err := tx.AdminRequests().GetAdminRequestByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if req.Status.Terminal() {
			return ErrAlreadyProcessed
		}

		status := domain.AdminRequestRejected
		if approve {
			status = domain.AdminRequestApproved

			// 2. The request email must resolve to an active, business-bound
			// account. SuperAdmins and already-Admins have nothing to gain.
			target, err := tx.Users().GetUserByEmail(ctx, req.Email)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrNoSuchAccount
				}
				return err
			}
			if !target.Active || target.BusinessID == nil {
				return ErrNoSuchAccount
			}
			if target.Role == domain.RoleAdmin || target.Role == domain.RoleSuperAdmin {
				return ErrValidation
			}

			// 3. Quota settles at decision time, not submission time: take
			// the admin seat first, then hand back the old one.
			if err := s.Quota.ReserveIn(ctx, tx, *target.BusinessID, domain.RoleAdmin); err != nil {
				return err
			}
			if err := tx.Users().UpdateUserRole(ctx, target.ID, domain.RoleAdmin); err != nil {
				return err
			}
			if err := s.Quota.ReleaseIn(ctx, tx, *target.BusinessID, target.Role); err != nil {
				return err
			}
		}

		// 4. Flip pending→terminal. Stale means a concurrent reviewer won.
		if err := tx.AdminRequests().MarkAdminRequestProcessed(ctx, req.ID, status, actor.ID, reason, now); err != nil {
			if errors.Is(err, store.ErrStaleStatus) {
				return ErrAlreadyProcessed
			}
			return err
		}

		req.Status = status
		req.Reason = reason
		req.ProcessedAt = &now
		req.ProcessedBy = &actor.ID
		result = req
		return nil
	})
	if err != nil {
		return domain.AdminRequest{}, err
	}

	s.Notify.AdminRequestResolved(ctx, result)

	log.Info("admin request processed",
		slog.String("request_id", result.ID),
		slog.String("status", string(result.Status)),
	)
	return result, nil
}
