package profile

import (
	"context"
	"fmt"

	"github.com/recruiterhub/backend/internal/app"
	"github.com/recruiterhub/backend/internal/identity"
	"github.com/recruiterhub/backend/internal/treestore"
	"github.com/recruiterhub/backend/internal/utils/pagination"

	svcErr "github.com/recruiterhub/backend/internal/errors"
)

// Service owns user profiles, the global user directory, and the scouting
// attribute bags (measurables, references, game logs). Everything lives
// under the user's safe-key subtree except the directory, which is the
// global "users" array.
type Service struct {
	appCtx *app.AppContext
	store  *treestore.Store
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx, store: appCtx.Store}
}

// UserExists reports whether a profile subtree exists for the email.
func (s *Service) UserExists(ctx context.Context, email string) (bool, error) {
	v, err := s.store.Get(ctx, identity.SafeKey(email))
	if err != nil {
		return false, err
	}
	_, ok := treestore.Dict(v)
	return ok, nil
}

// Taken reports whether the email or username is already present in the
// user directory. Registration refuses both collisions.
func (s *Service) Taken(ctx context.Context, email, username string) (bool, error) {
	entries, err := s.AllUsers(ctx)
	if err != nil {
		return false, err
	}
	safe := identity.SafeKey(email)
	for _, e := range entries {
		if e.Email == safe || e.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// InsertNewUser writes the profile fields under the user's subtree and
// appends a directory row. Both writes commit together.
func (s *Service) InsertNewUser(ctx context.Context, user User) error {
	safe := identity.SafeKey(user.Email)

	return s.store.Transaction(ctx, func(tx *treestore.Store) error {
		for field, value := range fieldMap(user) {
			if err := tx.Set(ctx, safe+"/"+field, value); err != nil {
				return fmt.Errorf("failed to write profile field %q: %w", field, err)
			}
		}

		entry := map[string]any{
			"name":     user.DisplayName(),
			"email":    safe,
			"username": user.Username,
		}

		v, err := tx.Get(ctx, "users")
		if err != nil {
			return err
		}
		directory, _ := treestore.Records(v)
		updated := make([]any, 0, len(directory)+1)
		for _, row := range directory {
			updated = append(updated, row)
		}
		updated = append(updated, entry)
		return tx.Set(ctx, "users", updated)
	})
}

// UpdateUser rewrites the editable profile fields. Profile picture and
// profile type have their own setters.
func (s *Service) UpdateUser(ctx context.Context, user User) error {
	safe := identity.SafeKey(user.Email)
	fields := fieldMap(user)
	delete(fields, "profilePicUrl")
	delete(fields, "profileType")

	return s.store.Transaction(ctx, func(tx *treestore.Store) error {
		for field, value := range fields {
			if err := tx.Set(ctx, safe+"/"+field, value); err != nil {
				return fmt.Errorf("failed to write profile field %q: %w", field, err)
			}
		}
		return nil
	})
}

// SetProfilePic overwrites the stored picture URL.
func (s *Service) SetProfilePic(ctx context.Context, email, url string) error {
	return s.store.Set(ctx, identity.SafeKey(email)+"/profilePicUrl", url)
}

// User decodes a full profile. Returns (nil, nil) when the subtree is
// missing or lacks the required fields; callers render an empty profile.
func (s *Service) User(ctx context.Context, email string) (*User, error) {
	safe := identity.SafeKey(email)
	v, err := s.store.Get(ctx, safe)
	if err != nil {
		return nil, err
	}
	info, ok := treestore.Dict(v)
	if !ok {
		return nil, nil
	}

	user := User{
		Email:         safe,
		Username:      treestore.Str(info, "username"),
		FirstName:     treestore.Str(info, "firstname"),
		LastName:      treestore.Str(info, "lastname"),
		Positions:     treestore.Str(info, "positions"),
		HeightFeet:    treestore.Int(info, "heightFeet"),
		HeightInches:  treestore.Int(info, "heightInches"),
		HighSchool:    treestore.Str(info, "highschool"),
		State:         treestore.Str(info, "state"),
		Weight:        treestore.Int(info, "weight"),
		Arm:           treestore.Str(info, "arm"),
		Bats:          treestore.Str(info, "bats"),
		GradYear:      treestore.Int(info, "gradYear"),
		Phone:         treestore.Str(info, "phone"),
		ProfileType:   treestore.Str(info, "profileType"),
		Title:         treestore.Str(info, "title"),
		ProfilePicURL: treestore.Str(info, "profilePicUrl"),
	}
	if user.Username == "" {
		return nil, nil
	}
	if user.ProfileType == "" {
		user.ProfileType = "player"
	}
	if user.Title == "" {
		user.Title = "player"
	}
	return &user, nil
}

// ProfileType reads just the profile type field.
func (s *Service) ProfileType(ctx context.Context, email string) (string, error) {
	v, err := s.store.Get(ctx, identity.SafeKey(email)+"/profileType")
	if err != nil {
		return "", err
	}
	t, _ := v.(string)
	return t, nil
}

// AllUsers reads the global directory. A missing directory is a fetch
// failure: it only happens before the first registration.
func (s *Service) AllUsers(ctx context.Context) ([]DirectoryEntry, error) {
	v, err := s.store.Get(ctx, "users")
	if err != nil {
		return nil, err
	}
	rows, ok := treestore.Records(v)
	if !ok {
		return nil, svcErr.ErrFetchFailed
	}
	entries := make([]DirectoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, DirectoryEntry{
			Name:     treestore.Str(row, "name"),
			Email:    treestore.Str(row, "email"),
			Username: treestore.Str(row, "username"),
		})
	}
	return entries, nil
}

// DirectoryPage returns one page of the directory plus the token for the
// next page ("" on the last page). An empty token starts at the top.
func (s *Service) DirectoryPage(ctx context.Context, token string, limit int) ([]DirectoryEntry, string, error) {
	cursor, err := pagination.Decode(token)
	if err != nil {
		return nil, "", err
	}

	entries, err := s.AllUsers(ctx)
	if err != nil {
		return nil, "", err
	}
	if limit <= 0 {
		limit = 50
	}

	start := cursor.Offset
	if start < 0 || start > len(entries) {
		start = len(entries)
	}
	end := start + limit
	if end > len(entries) {
		end = len(entries)
	}

	next := ""
	if end < len(entries) {
		next, _ = pagination.Encode(pagination.Cursor{Offset: end})
	}
	return entries[start:end], next, nil
}

// DeleteUser removes a directory row by position. Later rows shift down;
// the user's subtree itself is not touched.
func (s *Service) DeleteUser(ctx context.Context, index int) error {
	v, err := s.store.Get(ctx, "users")
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
	return s.store.Set(ctx, "users", updated)
}

// fieldMap flattens a User into its persisted field names.
func fieldMap(u User) map[string]any {
	return map[string]any{
		"username":      u.Username,
		"firstname":     u.FirstName,
		"lastname":      u.LastName,
		"positions":     u.Positions,
		"heightFeet":    u.HeightFeet,
		"heightInches":  u.HeightInches,
		"highschool":    u.HighSchool,
		"state":         u.State,
		"weight":        u.Weight,
		"arm":           u.Arm,
		"bats":          u.Bats,
		"gradYear":      u.GradYear,
		"phone":         u.Phone,
		"profileType":   u.ProfileType,
		"title":         u.Title,
		"profilePicUrl": u.ProfilePicURL,
	}
}
