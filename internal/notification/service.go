package notification

import (
	"context"
	"sort"
	"time"

	"github.com/recruiterhub/backend/internal/app"
	"github.com/recruiterhub/backend/internal/identity"
	"github.com/recruiterhub/backend/internal/profile"
	"github.com/recruiterhub/backend/internal/shared/timefmt"
	"github.com/recruiterhub/backend/internal/treestore"
)

// Service appends notification records to recipients' subtrees and reads
// them back joined with live data. Emission happens only from the append
// branch of a toggle; removing an edge or a like never retracts a record.
//
// Dedup contract: at most one record per (source email, type, text) for
// follows, plus postID for likes. A like/unlike/like cycle therefore emits
// exactly once.
type Service struct {
	appCtx   *app.AppContext
	store    *treestore.Store
	profiles *profile.Service

	// Now is the clock for stamping records; overridable in tests.
	Now func() time.Time
}

func NewService(appCtx *app.AppContext, profiles *profile.Service) *Service {
	return &Service{
		appCtx:   appCtx,
		store:    appCtx.Store,
		profiles: profiles,
		Now:      time.Now,
	}
}

// EmitFollow records "<username> followed you" for the notified user.
func (s *Service) EmitFollow(ctx context.Context, followerEmail, notifiedEmail string) error {
	follower, err := s.profiles.User(ctx, followerEmail)
	if err != nil {
		return err
	}
	if follower == nil {
		s.appCtx.Logger.Warn("follow notification skipped, unknown follower", "follower", followerEmail)
		return nil
	}

	return s.emit(ctx, notifiedEmail, Record{
		Email: identity.SafeKey(followerEmail),
		Type:  TypeFollow,
		Text:  follower.Username + " followed you",
		Date:  timefmt.Format(s.Now()),
	})
}

// EmitLike records "<username> liked your post" for the post owner.
// postURL doubles as the post reference in the record.
func (s *Service) EmitLike(ctx context.Context, likerEmail, notifiedEmail, postURL string) error {
	liker, err := s.profiles.User(ctx, likerEmail)
	if err != nil {
		return err
	}
	if liker == nil {
		s.appCtx.Logger.Warn("like notification skipped, unknown liker", "liker", likerEmail)
		return nil
	}

	return s.emit(ctx, notifiedEmail, Record{
		Email:  identity.SafeKey(likerEmail),
		Type:   TypeLike,
		Text:   liker.Username + " liked your post",
		Date:   timefmt.Format(s.Now()),
		PostID: postURL,
	})
}

// emit appends rec unless an equal-keyed record already exists.
func (s *Service) emit(ctx context.Context, notifiedEmail string, rec Record) error {
	path := identity.SafeKey(notifiedEmail) + "/Notifications"

	v, err := s.store.Get(ctx, path)
	if err != nil {
		return err
	}
	rows, _ := treestore.Records(v)

	for _, row := range rows {
		if treestore.Str(row, "email") == rec.Email &&
			treestore.Str(row, "type") == rec.Type &&
			treestore.Str(row, "text") == rec.Text &&
			treestore.Str(row, "postID") == rec.PostID {
			return nil // already notified for this state transition
		}
	}

	element := map[string]any{
		"email": rec.Email,
		"type":  rec.Type,
		"text":  rec.Text,
		"date":  rec.Date,
	}
	if rec.PostID != "" {
		element["postID"] = rec.PostID
	}

	updated := make([]any, 0, len(rows)+1)
	for _, row := range rows {
		updated = append(updated, row)
	}
	updated = append(updated, element)
	return s.store.Set(ctx, path, updated)
}

// List returns the user's notifications, newest first. Follow entries are
// cross-referenced against the user's current following list; malformed
// rows are skipped.
func (s *Service) List(ctx context.Context, email string) ([]Notification, error) {
	safe := identity.SafeKey(email)

	v, err := s.store.Get(ctx, safe+"/Notifications")
	if err != nil {
		return nil, err
	}
	rows, ok := treestore.Records(v)
	if !ok {
		return nil, nil
	}

	following, err := s.followingSet(ctx, safe)
	if err != nil {
		return nil, err
	}

	out := make([]Notification, 0, len(rows))
	for _, row := range rows {
		rec := Record{
			Email:  treestore.Str(row, "email"),
			Type:   treestore.Str(row, "type"),
			Text:   treestore.Str(row, "text"),
			Date:   treestore.Str(row, "date"),
			PostID: treestore.Str(row, "postID"),
		}
		if rec.Email == "" || rec.Type == "" {
			continue
		}

		n := Notification{Record: rec}
		if rec.Type == TypeFollow {
			n.FollowState = StateNotFollowing
			if following[rec.Email] {
				n.FollowState = StateFollowing
			}
		}

		user, err := s.profiles.User(ctx, rec.Email)
		if err != nil {
			return nil, err
		}
		if user == nil {
			continue
		}
		n.User = user
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return timefmt.Parse(out[i].Date).After(timefmt.Parse(out[j].Date))
	})
	return out, nil
}

func (s *Service) followingSet(ctx context.Context, safeEmail string) (map[string]bool, error) {
	v, err := s.store.Get(ctx, safeEmail+"/following")
	if err != nil {
		return nil, err
	}
	rows, _ := treestore.Records(v)
	set := make(map[string]bool, len(rows))
	for _, row := range rows {
		if e := treestore.Str(row, "email"); e != "" {
			set[identity.SafeKey(e)] = true
		}
	}
	return set, nil
}
