package identity

import (
	"context"
	"fmt"

	platformredis "vitacare/internal/platform/redis"
	"vitacare/pkg/domain"
)

// RedisRoleStore backs role membership with Redis sets so multiple instances
// share one view of who holds which role.
type RedisRoleStore struct {
	client *platformredis.Client
}

func NewRedisRoleStore(client *platformredis.Client) *RedisRoleStore {
	return &RedisRoleStore{client: client}
}

func roleKey(role domain.Role) string {
	return fmt.Sprintf("vitacare:role:%s", role)
}

func (s *RedisRoleStore) Grant(ctx context.Context, principal domain.Principal, role domain.Role) error {
	if err := s.client.SAdd(ctx, roleKey(role), principal.String()).Err(); err != nil {
		return fmt.Errorf("grant role %s: %w", role, err)
	}
	return nil
}

func (s *RedisRoleStore) Revoke(ctx context.Context, principal domain.Principal, role domain.Role) error {
	if err := s.client.SRem(ctx, roleKey(role), principal.String()).Err(); err != nil {
		return fmt.Errorf("revoke role %s: %w", role, err)
	}
	return nil
}

func (s *RedisRoleStore) Has(ctx context.Context, principal domain.Principal, role domain.Role) (bool, error) {
	ok, err := s.client.SIsMember(ctx, roleKey(role), principal.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check role %s: %w", role, err)
	}
	return ok, nil
}

func (s *RedisRoleStore) Members(ctx context.Context, role domain.Role) ([]domain.Principal, error) {
	raw, err := s.client.SMembers(ctx, roleKey(role)).Result()
	if err != nil {
		return nil, fmt.Errorf("list role %s members: %w", role, err)
	}
	out := make([]domain.Principal, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.Principal(r))
	}
	return out, nil
}
