// Package treestore is the denormalized JSON tree behind every feature
// service. It exposes the three operations the backend contract consists of:
// a one-shot read of a subtree by path, an unconditional overwrite of a
// subtree by path, and a live-updating observation of a path.
//
// Paths are '/'-separated; the first segment selects a top-level document
// (one row in the nodes table) and the rest descend into it. Numeric
// segments index arrays. A write below the top level re-reads the document,
// splices the subtree in, and overwrites the whole document: last write
// wins. There is no locking between a caller's read and its subsequent
// write; near-simultaneous toggles on the same subtree can clobber each
// other exactly as they could against the original backend.
package treestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/recruiterhub/backend/internal/db"
	svcErr "github.com/recruiterhub/backend/internal/errors"
)

type Store struct {
	db      *gorm.DB
	watch   *registry
	pending *[]event // non-nil inside Transaction: events held until commit
}

// New creates a Store bound to the given DB connection.
func New(database *gorm.DB) *Store {
	return &Store{db: database, watch: newRegistry()}
}

// Get reads the subtree at path. A missing document or missing subpath
// returns (nil, nil): callers cannot tell "no data" from "legitimately
// empty", and every toggle treats both as the empty collection.
func (s *Store) Get(ctx context.Context, path string) (any, error) {
	key, rest, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	root, found, err := s.loadRoot(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return valueAt(root, rest), nil
}

// Set overwrites the subtree at path with value. Writing nil at the top
// level deletes the document. Observers overlapping the path are notified
// with the value at their own path.
func (s *Store) Set(ctx context.Context, path string, value any) error {
	key, rest, err := splitPath(path)
	if err != nil {
		return err
	}

	root, _, err := s.loadRoot(ctx, key)
	if err != nil {
		return err
	}

	if len(rest) == 0 {
		root = value
	} else {
		root = spliceAt(root, rest, value)
	}

	if root == nil {
		if err := s.db.WithContext(ctx).Delete(&db.Node{}, "node_key = ?", key).Error; err != nil {
			return fmt.Errorf("failed to delete node %q: %w", key, err)
		}
	} else {
		raw, err := json.Marshal(root)
		if err != nil {
			return fmt.Errorf("failed to encode node %q: %w", key, err)
		}
		node := db.Node{Key: key, Doc: raw}
		err = s.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "node_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"doc", "updated_at"}),
			}).
			Create(&node).Error
		if err != nil {
			return fmt.Errorf("failed to write node %q: %w", key, err)
		}
	}

	ev := event{key: key, root: root}
	if s.pending != nil {
		*s.pending = append(*s.pending, ev)
		return nil
	}
	s.watch.notify(ev)
	return nil
}

// Transaction runs fn against a Store whose writes all commit or all roll
// back together. The dual-write mirrors (follow edges, conversation
// projections) run through here so a crash cannot leave one side written.
// Observer notifications are held until commit.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	var events []event
	err := s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Store{db: gtx, watch: s.watch, pending: &events})
	})
	if err != nil {
		return err
	}
	for _, ev := range events {
		s.watch.notify(ev)
	}
	return nil
}

// loadRoot fetches and decodes a top-level document.
func (s *Store) loadRoot(ctx context.Context, key string) (any, bool, error) {
	var node db.Node
	err := s.db.WithContext(ctx).First(&node, "node_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: node %q: %v", svcErr.ErrFetchFailed, key, err)
	}

	var root any
	if err := json.Unmarshal(node.Doc, &root); err != nil {
		return nil, false, fmt.Errorf("%w: node %q is malformed", svcErr.ErrFetchFailed, key)
	}
	return root, true, nil
}

// splitPath validates a path and splits off the top-level key.
func splitPath(path string) (string, []string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "", nil, fmt.Errorf("empty path")
	}
	segs := strings.Split(trimmed, "/")
	return segs[0], segs[1:], nil
}

// valueAt descends into a decoded document. Missing or mismatched
// segments yield nil.
func valueAt(root any, segs []string) any {
	cur := root
	for _, seg := range segs {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[seg]
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			cur = node[idx]
		default:
			return nil
		}
	}
	return cur
}

// spliceAt writes value at segs inside root, creating intermediate
// containers as needed. A numeric segment forces an array and extends it
// with nils up to the index.
func spliceAt(root any, segs []string, value any) any {
	if len(segs) == 0 {
		return value
	}
	seg := segs[0]

	if idx, err := strconv.Atoi(seg); err == nil && idx >= 0 {
		arr, _ := root.([]any)
		for len(arr) <= idx {
			arr = append(arr, nil)
		}
		arr[idx] = spliceAt(arr[idx], segs[1:], value)
		return arr
	}

	m, ok := root.(map[string]any)
	if !ok {
		m = map[string]any{}
	}
	m[seg] = spliceAt(m[seg], segs[1:], value)
	return m
}
