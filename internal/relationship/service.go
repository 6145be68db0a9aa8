// Package relationship owns the follow/endorse edges of the social graph.
// Edges are single-field records {email} in per-user arrays; a toggle
// appends when absent and removes when present. Follow edges are mirrored
// (target's followers, actor's following) and both sides commit in one
// store transaction so a crash cannot leave an asymmetric graph.
package relationship

import (
	"context"
	"time"

	"github.com/recruiterhub/backend/internal/app"
	"github.com/recruiterhub/backend/internal/identity"
	"github.com/recruiterhub/backend/internal/notification"
	"github.com/recruiterhub/backend/internal/treestore"
)

const (
	KindFollowers = "followers"
	KindFollowing = "following"
	KindEndorsers = "endorsers"
)

// Edge is one relationship record. Membership is keyed on the email field
// alone; a record is never duplicated because a denormalized display field
// drifted.
type Edge struct {
	Email string `json:"email"`
}

type Service struct {
	appCtx        *app.AppContext
	store         *treestore.Store
	notifications *notification.Service
}

func NewService(appCtx *app.AppContext, notifications *notification.Service) *Service {
	return &Service{appCtx: appCtx, store: appCtx.Store, notifications: notifications}
}

// ToggleFollow flips the actor→target follow edge and its mirror. On the
// append branch only, a follow notification is emitted for the target;
// unfollowing never retracts it.
func (s *Service) ToggleFollow(ctx context.Context, actor identity.Session, targetEmail string) error {
	safeActor := actor.SafeEmail()
	safeTarget := identity.SafeKey(targetEmail)

	var followed bool
	err := s.store.Transaction(ctx, func(tx *treestore.Store) error {
		appended, err := toggleEdge(ctx, tx, safeTarget+"/"+KindFollowers, safeActor)
		if err != nil {
			return err
		}
		followed = appended
		// mirror edge; same branch by construction
		_, err = toggleEdge(ctx, tx, safeActor+"/"+KindFollowing, safeTarget)
		return err
	})
	if err != nil {
		return err
	}

	s.bumpCount(ctx, safeTarget, KindFollowers, followed)
	s.bumpCount(ctx, safeActor, KindFollowing, followed)

	if followed {
		if err := s.notifications.EmitFollow(ctx, actor.Email, targetEmail); err != nil {
			s.appCtx.Logger.Error("follow notification failed", "actor", safeActor, "target", safeTarget, "err", err)
		}
	}
	return nil
}

// ToggleEndorse flips the actor's endorsement of the target. No mirror
// list and no notification.
func (s *Service) ToggleEndorse(ctx context.Context, actor identity.Session, targetEmail string) error {
	safeTarget := identity.SafeKey(targetEmail)

	appended, err := toggleEdge(ctx, s.store, safeTarget+"/"+KindEndorsers, actor.SafeEmail())
	if err != nil {
		return err
	}
	s.bumpCount(ctx, safeTarget, KindEndorsers, appended)
	return nil
}

// Followers lists who follows the user; empty when absent.
func (s *Service) Followers(ctx context.Context, email string) ([]Edge, error) {
	return s.edges(ctx, email, KindFollowers)
}

// Following lists who the user follows; empty when absent.
func (s *Service) Following(ctx context.Context, email string) ([]Edge, error) {
	return s.edges(ctx, email, KindFollowing)
}

// Endorsers lists who endorsed the user; empty when absent.
func (s *Service) Endorsers(ctx context.Context, email string) ([]Edge, error) {
	return s.edges(ctx, email, KindEndorsers)
}

// IsFollowing reports whether actor currently follows target.
func (s *Service) IsFollowing(ctx context.Context, actorEmail, targetEmail string) (bool, error) {
	following, err := s.Following(ctx, actorEmail)
	if err != nil {
		return false, err
	}
	safeTarget := identity.SafeKey(targetEmail)
	for _, e := range following {
		if e.Email == safeTarget {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the size of one of the user's edge lists.
// Cache-first: Redis with 1h TTL, tree fallback, cache refresh on miss.
func (s *Service) Count(ctx context.Context, email, kind string) (int64, error) {
	safe := identity.SafeKey(email)
	key := s.appCtx.RedisCache.KeyForConnectionCount(safe, kind)

	if cached, ok, _ := s.appCtx.RedisCache.GetCount(ctx, key); ok {
		return cached, nil
	}

	edges, err := s.edges(ctx, email, kind)
	if err != nil {
		return 0, err
	}
	count := int64(len(edges))
	_ = s.appCtx.RedisCache.UpdateCount(ctx, key, count)
	return count, nil
}

func (s *Service) edges(ctx context.Context, email, kind string) ([]Edge, error) {
	v, err := s.store.Get(ctx, identity.SafeKey(email)+"/"+kind)
	if err != nil {
		return nil, err
	}
	rows, _ := treestore.Records(v)
	edges := make([]Edge, 0, len(rows))
	for _, row := range rows {
		if e := treestore.Str(row, "email"); e != "" {
			edges = append(edges, Edge{Email: e})
		}
	}
	return edges, nil
}

// bumpCount nudges the cached count after a toggle; cache errors are
// invisible to callers.
func (s *Service) bumpCount(ctx context.Context, safeEmail, kind string, appended bool) {
	key := s.appCtx.RedisCache.KeyForConnectionCount(safeEmail, kind)
	if appended {
		_, _ = s.appCtx.RedisCache.Incr(ctx, key)
	} else {
		_, _ = s.appCtx.RedisCache.Decr(ctx, key)
	}
	_ = s.appCtx.RedisCache.Client.Expire(ctx, key, time.Hour).Err()
}

// toggleEdge appends {email} when absent, removes it when present.
// A missing list is the empty list: the append branch always runs.
func toggleEdge(ctx context.Context, store *treestore.Store, path, email string) (bool, error) {
	v, err := store.Get(ctx, path)
	if err != nil {
		return false, err
	}
	rows, _ := treestore.Records(v)

	updated := make([]any, 0, len(rows)+1)
	removed := false
	for _, row := range rows {
		if !removed && treestore.Str(row, "email") == email {
			removed = true
			continue
		}
		updated = append(updated, row)
	}
	if removed {
		return false, store.Set(ctx, path, updated)
	}

	updated = append(updated, map[string]any{"email": email})
	return true, store.Set(ctx, path, updated)
}
