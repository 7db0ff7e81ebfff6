package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/crewdeskhq/crewdesk/internal/provisioning/domain"
	"github.com/crewdeskhq/crewdesk/internal/provisioning/store"
	"github.com/crewdeskhq/crewdesk/pkg/idx"
	"github.com/crewdeskhq/crewdesk/pkg/slogx"
)

// BusinessService creates and reads workspaces. Only SuperAdmin may create;
// every other provisioning flow targets a business that already exists.
type BusinessService struct {
	Store store.Store

	// Defaults applied when a creation request leaves a limit at zero.
	DefaultMaxAdmins  int
	DefaultMaxMembers int
}

// Create provisions a new business with zeroed seat counters.
func (s *BusinessService) Create(ctx context.Context, actor domain.User, name string, maxAdmins, maxMembers int) (domain.Business, error) {
	log := slogx.FromContext(ctx)

	if actor.Role != domain.RoleSuperAdmin {
		return domain.Business{}, ErrPermissionDenied
	}

	name = strings.TrimSpace(name)
	if name == "" || maxAdmins < 0 || maxMembers < 0 {
		return domain.Business{}, ErrValidation
	}
	if maxAdmins == 0 {
		maxAdmins = s.DefaultMaxAdmins
	}
	if maxMembers == 0 {
		maxMembers = s.DefaultMaxMembers
	}

	now := time.Now()
	b := domain.Business{
		ID:         idx.New().String(),
		Name:       name,
		MaxAdmins:  maxAdmins,
		MaxMembers: maxMembers,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.Businesses().CreateBusiness(ctx, b); err != nil {
		log.Error("failed to create business", slog.Any("error", err))
		return domain.Business{}, err
	}

	log.Info("business created", slog.String("business_id", b.ID))
	return b, nil
}

// Get returns a business by id.
func (s *BusinessService) Get(ctx context.Context, id string) (domain.Business, error) {
	b, err := s.Store.Businesses().GetBusinessByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Business{}, ErrNotFound
		}
		return domain.Business{}, err
	}
	return b, nil
}
