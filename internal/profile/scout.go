package profile

import (
	"context"
	"encoding/json"

	"github.com/recruiterhub/backend/internal/identity"
	"github.com/recruiterhub/backend/internal/treestore"

	svcErr "github.com/recruiterhub/backend/internal/errors"
)

// Scouting data: measurables, references, pitcher/batter game logs.
// All of it is the same array-of-dictionaries storage as the rest of the
// tree; deletes are by index except references, which match the whole
// record.

// ScoutInfo decodes the measurables bag. (nil, nil) when absent.
func (s *Service) ScoutInfo(ctx context.Context, email string) (*ScoutInfo, error) {
	v, err := s.store.Get(ctx, identity.SafeKey(email)+"/scoutInfo")
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	var info ScoutInfo
	if err := recode(v, &info); err != nil {
		return nil, svcErr.ErrFetchFailed
	}
	return &info, nil
}

// UpdateScoutInfo overwrites the self-reported measurables. Verified
// values, when present, are preserved by the per-field splice.
func (s *Service) UpdateScoutInfo(ctx context.Context, email string, info ScoutInfo) error {
	base := identity.SafeKey(email) + "/scoutInfo"
	fields := map[string]float64{
		"fastball":  info.Fastball,
		"curveball": info.Curveball,
		"slider":    info.Slider,
		"changeup":  info.Changeup,
		"sixty":     info.Sixty,
		"infield":   info.Infield,
		"outfield":  info.Outfield,
		"exitVelo":  info.ExitVelo,
	}
	return s.store.Transaction(ctx, func(tx *treestore.Store) error {
		for field, value := range fields {
			if err := tx.Set(ctx, base+"/"+field, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// References lists a user's references; empty when absent.
func (s *Service) References(ctx context.Context, email string) ([]Reference, error) {
	var refs []Reference
	if err := s.readList(ctx, identity.SafeKey(email)+"/References", &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// AddReference appends a reference record.
func (s *Service) AddReference(ctx context.Context, email string, ref Reference) error {
	return s.appendToList(ctx, identity.SafeKey(email)+"/References", map[string]any{
		"name":  ref.Name,
		"phone": ref.Phone,
		"email": ref.Email,
	})
}

// DeleteReference removes the first record matching all three fields.
func (s *Service) DeleteReference(ctx context.Context, email string, ref Reference) error {
	path := identity.SafeKey(email) + "/References"
	v, err := s.store.Get(ctx, path)
	if err != nil {
		return err
	}
	rows, ok := treestore.Records(v)
	if !ok {
		return svcErr.ErrFetchFailed
	}
	updated := make([]any, 0, len(rows))
	removed := false
	for _, row := range rows {
		if !removed &&
			treestore.Str(row, "name") == ref.Name &&
			treestore.Str(row, "phone") == ref.Phone &&
			treestore.Str(row, "email") == ref.Email {
			removed = true
			continue
		}
		updated = append(updated, row)
	}
	if !removed {
		return svcErr.ErrFetchFailed
	}
	return s.store.Set(ctx, path, updated)
}

// PitcherGameLogs lists pitching lines; empty when absent.
func (s *Service) PitcherGameLogs(ctx context.Context, email string) ([]PitcherGameLog, error) {
	var logs []PitcherGameLog
	if err := s.readList(ctx, identity.SafeKey(email)+"/PitcherGameLogs", &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// AddPitcherGameLog appends a pitching line.
func (s *Service) AddPitcherGameLog(ctx context.Context, email string, log PitcherGameLog) error {
	return s.appendToList(ctx, identity.SafeKey(email)+"/PitcherGameLogs", toDict(log))
}

// DeletePitcherGameLog removes the line at index; later lines shift down.
func (s *Service) DeletePitcherGameLog(ctx context.Context, email string, index int) error {
	return s.deleteAt(ctx, identity.SafeKey(email)+"/PitcherGameLogs", index)
}

// BatterGameLogs lists batting lines; empty when absent.
func (s *Service) BatterGameLogs(ctx context.Context, email string) ([]BatterGameLog, error) {
	var logs []BatterGameLog
	if err := s.readList(ctx, identity.SafeKey(email)+"/BatterGameLogs", &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// AddBatterGameLog appends a batting line.
func (s *Service) AddBatterGameLog(ctx context.Context, email string, log BatterGameLog) error {
	return s.appendToList(ctx, identity.SafeKey(email)+"/BatterGameLogs", toDict(log))
}

// DeleteBatterGameLog removes the line at index; later lines shift down.
func (s *Service) DeleteBatterGameLog(ctx context.Context, email string, index int) error {
	return s.deleteAt(ctx, identity.SafeKey(email)+"/BatterGameLogs", index)
}

// --- helpers ---

func (s *Service) readList(ctx context.Context, path string, out any) error {
	v, err := s.store.Get(ctx, path)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if err := recode(v, out); err != nil {
		return svcErr.ErrFetchFailed
	}
	return nil
}

func (s *Service) appendToList(ctx context.Context, path string, element map[string]any) error {
	v, err := s.store.Get(ctx, path)
	if err != nil {
		return err
	}
	rows, _ := treestore.Records(v)
	updated := make([]any, 0, len(rows)+1)
	for _, row := range rows {
		updated = append(updated, row)
	}
	updated = append(updated, element)
	return s.store.Set(ctx, path, updated)
}

func (s *Service) deleteAt(ctx context.Context, path string, index int) error {
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

// recode round-trips an untyped subtree into a typed struct or slice.
func recode(v any, out any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// toDict round-trips a typed value into the tree's dictionary form.
func toDict(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}
