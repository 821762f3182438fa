package identity

import (
	"context"
	"log/slog"

	"vitacare/internal/audit"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
)

// Service manages role membership. Role changes are restricted to admins;
// verification services call through here after their own checks.
type Service struct {
	store     RoleStore
	logger    *slog.Logger
	publisher audit.Publisher

	bootstrapped bool
}

type ServiceOption func(*Service)

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) ServiceOption {
	return func(s *Service) { s.publisher = publisher }
}

func NewService(store RoleStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap grants the admin role to the configured platform administrator.
// Until this runs, every operation that needs an admin fails closed.
func (s *Service) Bootstrap(ctx context.Context, admin domain.Principal) error {
	if admin.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "admin principal is required")
	}
	if err := s.store.Grant(ctx, admin, domain.RoleAdmin); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "bootstrap admin")
	}
	s.bootstrapped = true
	s.logger.Info("admin bootstrapped", slog.String("principal", admin.String()))
	return nil
}

// GrantRole assigns a role to a principal. Only admins may change membership.
func (s *Service) GrantRole(ctx context.Context, caller, subject domain.Principal, role domain.Role) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := s.store.Grant(ctx, subject, role); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "grant role")
	}
	s.emit(ctx, caller, subject, audit.ActionRoleGranted, string(role))
	return nil
}

// RevokeRole removes a role from a principal. Revoking a role the principal
// does not hold is a no-op.
func (s *Service) RevokeRole(ctx context.Context, caller, subject domain.Principal, role domain.Role) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := s.store.Revoke(ctx, subject, role); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "revoke role")
	}
	s.emit(ctx, caller, subject, audit.ActionRoleRevoked, string(role))
	return nil
}

// WithdrawRole removes a role as a system side effect of a lifecycle change,
// such as an insurer suspending itself. Callers authorize the triggering
// operation; no admin check applies here.
func (s *Service) WithdrawRole(ctx context.Context, subject domain.Principal, role domain.Role) error {
	if err := s.store.Revoke(ctx, subject, role); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "withdraw role")
	}
	s.emit(ctx, subject, subject, audit.ActionRoleRevoked, string(role))
	return nil
}

// HasRole reports whether a principal holds the given role.
func (s *Service) HasRole(ctx context.Context, principal domain.Principal, role domain.Role) (bool, error) {
	ok, err := s.store.Has(ctx, principal, role)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "check role")
	}
	return ok, nil
}

// Members lists every principal that holds the given role.
func (s *Service) Members(ctx context.Context, role domain.Role) ([]domain.Principal, error) {
	members, err := s.store.Members(ctx, role)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list role members")
	}
	return members, nil
}

func (s *Service) requireAdmin(ctx context.Context, caller domain.Principal) error {
	if !s.bootstrapped {
		return dErrors.New(dErrors.CodeNotInitialized, "platform administrator is not configured")
	}
	ok, err := s.store.Has(ctx, caller, domain.RoleAdmin)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check admin role")
	}
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not an administrator")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, actor, subject domain.Principal, action, detail string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, audit.Event{
		Actor:   actor,
		Subject: subject,
		Action:  action,
		Detail:  detail,
	}); err != nil {
		s.logger.Warn("audit emit failed", slog.String("action", action), slog.String("error", err.Error()))
	}
}
