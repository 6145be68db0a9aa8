// Package engagement owns posts and their embedded like and comment
// arrays. Likes toggle like relationship edges; comments strictly append.
package engagement

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/recruiterhub/backend/internal/app"
	"github.com/recruiterhub/backend/internal/identity"
	"github.com/recruiterhub/backend/internal/notification"
	"github.com/recruiterhub/backend/internal/relationship"
	"github.com/recruiterhub/backend/internal/shared/timefmt"
	"github.com/recruiterhub/backend/internal/treestore"

	svcErr "github.com/recruiterhub/backend/internal/errors"
)

type Service struct {
	appCtx        *app.AppContext
	store         *treestore.Store
	notifications *notification.Service
	relationships *relationship.Service

	// Now is the clock for stamping posts and comments; overridable in tests.
	Now func() time.Time
}

func NewService(appCtx *app.AppContext, notifications *notification.Service, relationships *relationship.Service) *Service {
	return &Service{
		appCtx:        appCtx,
		store:         appCtx.Store,
		notifications: notifications,
		relationships: relationships,
		Now:           time.Now,
	}
}

// NewPost appends a post to the owner's Posts array.
func (s *Service) NewPost(ctx context.Context, owner identity.Session, input NewPostInput) error {
	path := owner.SafeEmail() + "/Posts"

	v, err := s.store.Get(ctx, path)
	if err != nil {
		return err
	}
	rows, _ := treestore.Records(v)

	postType := input.Type
	if postType != PostTypePhoto {
		postType = PostTypeVideo
	}

	element := map[string]any{
		"url":         input.URL,
		"thumbnail":   input.Thumbnail,
		"caption":     input.Caption,
		"likes":       []any{},
		"comments":    []any{},
		"date":        timefmt.Format(s.Now()),
		"type":        postType,
		"taggedUsers": []any{},
	}

	updated := make([]any, 0, len(rows)+1)
	for _, row := range rows {
		updated = append(updated, row)
	}
	updated = append(updated, element)
	return s.store.Set(ctx, path, updated)
}

// Posts returns all of a user's posts in array order; empty when absent.
func (s *Service) Posts(ctx context.Context, email string) ([]Post, error) {
	safe := identity.SafeKey(email)

	v, err := s.store.Get(ctx, safe+"/Posts")
	if err != nil {
		return nil, err
	}
	rows, _ := treestore.Records(v)

	posts := make([]Post, 0, len(rows))
	for i, row := range rows {
		posts = append(posts, decodePost(safe, i, row))
	}
	return posts, nil
}

// PostByURL finds a post by its media URL; (nil, nil) when no post
// matches.
func (s *Service) PostByURL(ctx context.Context, email, url string) (*Post, error) {
	posts, err := s.Posts(ctx, email)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].URL == url {
			return &posts[i], nil
		}
	}
	return nil, nil
}

// DeletePost splices out the post at index. Every later post's index
// shifts down by one; references addressed by the old indices now point
// at different posts. That is the documented cost of index-as-identity.
func (s *Service) DeletePost(ctx context.Context, owner identity.Session, index int) error {
	path := owner.SafeEmail() + "/Posts"

	v, err := s.store.Get(ctx, path)
	if err != nil {
		return err
	}
	rows, ok := treestore.Records(v)
	if !ok || index < 0 || index >= len(rows) {
		return svcErr.ErrFetchFailed
	}

	updated := make([]any, 0, len(rows)-1)
	for i, row := range rows {
		if i == index {
			continue
		}
		updated = append(updated, row)
	}
	return s.store.Set(ctx, path, updated)
}

// ToggleLike flips the liker's like on the owner's post. The append
// branch emits a deduplicated like notification to the owner; the remove
// branch emits nothing and retracts nothing.
func (s *Service) ToggleLike(ctx context.Context, liker identity.Session, ownerEmail string, index int) error {
	safeOwner := identity.SafeKey(ownerEmail)
	path := fmt.Sprintf("%s/Posts/%d/likes", safeOwner, index)
	safeLiker := liker.SafeEmail()

	v, err := s.store.Get(ctx, path)
	if err != nil {
		return err
	}
	rows, _ := treestore.Records(v)

	updated := make([]any, 0, len(rows)+1)
	removed := false
	for _, row := range rows {
		if !removed && treestore.Str(row, "email") == safeLiker {
			removed = true
			continue
		}
		updated = append(updated, row)
	}

	key := s.appCtx.RedisCache.KeyForLikeCount(safeOwner, index)
	if removed {
		if err := s.store.Set(ctx, path, updated); err != nil {
			return err
		}
		_, _ = s.appCtx.RedisCache.Decr(ctx, key)
		_ = s.appCtx.RedisCache.Client.Expire(ctx, key, time.Hour).Err()
		return nil
	}

	updated = append(updated, map[string]any{
		"email":    safeLiker,
		"name":     liker.Name,
		"username": liker.Username,
	})
	if err := s.store.Set(ctx, path, updated); err != nil {
		return err
	}
	_, _ = s.appCtx.RedisCache.Incr(ctx, key)
	_ = s.appCtx.RedisCache.Client.Expire(ctx, key, time.Hour).Err()

	postURL, err := s.store.Get(ctx, fmt.Sprintf("%s/Posts/%d/url", safeOwner, index))
	if err != nil {
		return err
	}
	url, _ := postURL.(string)
	if err := s.notifications.EmitLike(ctx, liker.Email, ownerEmail, url); err != nil {
		s.appCtx.Logger.Error("like notification failed", "liker", safeLiker, "owner", safeOwner, "err", err)
	}
	return nil
}

// AddComment strictly appends; no toggle, no dedup. The comment's index
// is its resulting array position.
func (s *Service) AddComment(ctx context.Context, commenter identity.Session, ownerEmail string, index int, text string) error {
	path := fmt.Sprintf("%s/Posts/%d/comments", identity.SafeKey(ownerEmail), index)

	v, err := s.store.Get(ctx, path)
	if err != nil {
		return err
	}
	rows, _ := treestore.Records(v)

	updated := make([]any, 0, len(rows)+1)
	for _, row := range rows {
		updated = append(updated, row)
	}
	updated = append(updated, map[string]any{
		"email":   commenter.SafeEmail(),
		"comment": text,
		"date":    timefmt.Format(s.Now()),
	})
	return s.store.Set(ctx, path, updated)
}

// Likes reads one post's like array; empty when absent.
func (s *Service) Likes(ctx context.Context, email string, index int) ([]Like, error) {
	v, err := s.store.Get(ctx, fmt.Sprintf("%s/Posts/%d/likes", identity.SafeKey(email), index))
	if err != nil {
		return nil, err
	}
	rows, _ := treestore.Records(v)
	return decodeLikes(rows), nil
}

// LikeCount is cache-first like the connection counts.
func (s *Service) LikeCount(ctx context.Context, email string, index int) (int64, error) {
	safe := identity.SafeKey(email)
	key := s.appCtx.RedisCache.KeyForLikeCount(safe, index)

	if cached, ok, _ := s.appCtx.RedisCache.GetCount(ctx, key); ok {
		return cached, nil
	}

	likes, err := s.Likes(ctx, email, index)
	if err != nil {
		return 0, err
	}
	count := int64(len(likes))
	_ = s.appCtx.RedisCache.UpdateCount(ctx, key, count)
	return count, nil
}

// Comments reads one post's comment array; empty when absent.
func (s *Service) Comments(ctx context.Context, email string, index int) ([]Comment, error) {
	v, err := s.store.Get(ctx, fmt.Sprintf("%s/Posts/%d/comments", identity.SafeKey(email), index))
	if err != nil {
		return nil, err
	}
	rows, _ := treestore.Records(v)
	return decodeComments(rows), nil
}

// Feed assembles the viewer's feed from everyone they follow: one fetch
// per followed user, joined, merged newest first. Zero followed users is
// an empty feed, not a hang.
func (s *Service) Feed(ctx context.Context, viewer identity.Session) ([]Post, error) {
	following, err := s.relationships.Following(ctx, viewer.Email)
	if err != nil {
		return nil, err
	}

	results := make([][]Post, len(following))
	var wg sync.WaitGroup
	for i, edge := range following {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			posts, err := s.Posts(ctx, email)
			if err != nil {
				s.appCtx.Logger.Warn("feed fetch failed", "user", email, "err", err)
				return
			}
			results[i] = posts
		}(i, edge.Email)
	}
	wg.Wait()

	feed := make([]Post, 0)
	for _, posts := range results {
		feed = append(feed, posts...)
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return timefmt.Parse(feed[i].Date).After(timefmt.Parse(feed[j].Date))
	})
	return feed, nil
}

// --- decoding ---

func decodePost(owner string, index int, row map[string]any) Post {
	likes, _ := treestore.Records(row["likes"])
	comments, _ := treestore.Records(row["comments"])
	return Post{
		Index:     index,
		Owner:     owner,
		URL:       treestore.Str(row, "url"),
		Thumbnail: treestore.Str(row, "thumbnail"),
		Caption:   treestore.Str(row, "caption"),
		Date:      treestore.Str(row, "date"),
		Type:      treestore.Str(row, "type"),
		Likes:     decodeLikes(likes),
		Comments:  decodeComments(comments),
	}
}

func decodeLikes(rows []map[string]any) []Like {
	likes := make([]Like, 0, len(rows))
	for _, row := range rows {
		likes = append(likes, Like{
			Username: treestore.Str(row, "username"),
			Email:    treestore.Str(row, "email"),
			Name:     treestore.Str(row, "name"),
		})
	}
	return likes
}

func decodeComments(rows []map[string]any) []Comment {
	comments := make([]Comment, 0, len(rows))
	for i, row := range rows {
		comments = append(comments, Comment{
			Index: i,
			Email: treestore.Str(row, "email"),
			Text:  treestore.Str(row, "comment"),
			Date:  treestore.Str(row, "date"),
		})
	}
	return comments
}
