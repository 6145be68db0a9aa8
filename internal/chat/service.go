// Package chat owns conversations: an append-only message list stored
// under the conversation id, mirrored into each participant's projection
// row for one-sided inbox reads. The mirrors are denormalized on purpose;
// keeping them in step is this package's whole job.
package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/recruiterhub/backend/internal/app"
	"github.com/recruiterhub/backend/internal/identity"
	"github.com/recruiterhub/backend/internal/shared/timefmt"
	"github.com/recruiterhub/backend/internal/treestore"

	svcErr "github.com/recruiterhub/backend/internal/errors"
)

type Service struct {
	appCtx *app.AppContext
	store  *treestore.Store

	// Now is the clock for stamping messages; overridable in tests.
	Now func() time.Time
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx, store: appCtx.Store, Now: time.Now}
}

// CreateConversation mints a conversation from its first message and
// writes all three documents together: the sender's projection row, the
// recipient's projection row, and the message list under the new id.
// The id is derived from the first message's id.
func (s *Service) CreateConversation(ctx context.Context, sender identity.Session, otherEmail, otherName string, first Message) (string, error) {
	first = s.stamp(sender, otherName, first)
	conversationID := "conversation_" + first.ID

	safeSender := sender.SafeEmail()
	safeOther := identity.SafeKey(otherEmail)

	latest := map[string]any{
		"date":    first.Date,
		"message": first.Content,
		"is_read": false,
	}

	err := s.store.Transaction(ctx, func(tx *treestore.Store) error {
		// sender's row names the recipient
		if err := appendProjection(ctx, tx, safeSender, map[string]any{
			"id":               conversationID,
			"other_user_email": safeOther,
			"name":             otherName,
			"latest_message":   latest,
		}); err != nil {
			return err
		}

		// recipient's row names the sender
		if err := appendProjection(ctx, tx, safeOther, map[string]any{
			"id":               conversationID,
			"other_user_email": safeSender,
			"name":             sender.Name,
			"latest_message":   latest,
		}); err != nil {
			return err
		}

		return tx.Set(ctx, conversationID, map[string]any{
			"messages": []any{messageDict(first)},
		})
	})
	if err != nil {
		return "", err
	}
	return conversationID, nil
}

// SendMessage appends to the conversation's message list, then refreshes
// latest_message on both parties' projection rows. A missing row is
// synthesized on the fly: the projections are best-effort mirrors, not
// the source of truth. All writes commit together.
func (s *Service) SendMessage(ctx context.Context, sender identity.Session, conversationID, otherEmail, otherName string, msg Message) error {
	msg = s.stamp(sender, otherName, msg)

	safeSender := sender.SafeEmail()
	safeOther := identity.SafeKey(otherEmail)

	latest := map[string]any{
		"date":    msg.Date,
		"message": msg.Content,
		"is_read": false,
	}

	return s.store.Transaction(ctx, func(tx *treestore.Store) error {
		v, err := tx.Get(ctx, conversationID+"/messages")
		if err != nil {
			return err
		}
		rows, _ := treestore.Records(v)
		updated := make([]any, 0, len(rows)+1)
		for _, row := range rows {
			updated = append(updated, row)
		}
		updated = append(updated, messageDict(msg))
		if err := tx.Set(ctx, conversationID+"/messages", updated); err != nil {
			return err
		}

		if err := upsertProjection(ctx, tx, safeSender, conversationID, safeOther, otherName, latest); err != nil {
			return err
		}
		return upsertProjection(ctx, tx, safeOther, conversationID, safeSender, sender.Name, latest)
	})
}

// Conversations lists a user's projection rows. A missing node is the
// distinguished "no conversations yet" state; a present but malformed
// node is a fetch failure. Malformed rows are skipped.
func (s *Service) Conversations(ctx context.Context, email string) ([]Conversation, error) {
	v, err := s.store.Get(ctx, identity.SafeKey(email)+"/conversations")
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, svcErr.ErrConversationsEmpty
	}
	rows, ok := treestore.Records(v)
	if !ok {
		return nil, svcErr.ErrFetchFailed
	}

	out := make([]Conversation, 0, len(rows))
	for _, row := range rows {
		c, ok := decodeConversation(row)
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// ConversationExists looks for an existing conversation between sender
// and recipient by scanning the RECIPIENT's projection rows for the
// sender. Returns the conversation id, or ErrFetchFailed when none
// exists and the caller should mint a new one.
func (s *Service) ConversationExists(ctx context.Context, sender identity.Session, recipientEmail string) (string, error) {
	v, err := s.store.Get(ctx, identity.SafeKey(recipientEmail)+"/conversations")
	if err != nil {
		return "", err
	}
	rows, ok := treestore.Records(v)
	if !ok {
		return "", svcErr.ErrFetchFailed
	}

	safeSender := sender.SafeEmail()
	for _, row := range rows {
		if treestore.Str(row, "other_user_email") == safeSender {
			if id := treestore.Str(row, "id"); id != "" {
				return id, nil
			}
			return "", svcErr.ErrFetchFailed
		}
	}
	return "", svcErr.ErrFetchFailed
}

// Messages reads a conversation's message list, skipping malformed rows.
func (s *Service) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	v, err := s.store.Get(ctx, conversationID+"/messages")
	if err != nil {
		return nil, err
	}
	rows, ok := treestore.Records(v)
	if !ok {
		return nil, svcErr.ErrFetchFailed
	}

	out := make([]Message, 0, len(rows))
	for _, row := range rows {
		m := Message{
			ID:          treestore.Str(row, "id"),
			Type:        treestore.Str(row, "type"),
			Content:     treestore.Str(row, "content"),
			Date:        treestore.Str(row, "date"),
			SenderEmail: treestore.Str(row, "sender_email"),
			IsRead:      treestore.Bool(row, "is_read"),
			Name:        treestore.Str(row, "name"),
		}
		if m.ID == "" || m.SenderEmail == "" {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// DeleteConversation removes the owner's projection row only. The other
// party's row and the message list under the id are left in place.
func (s *Service) DeleteConversation(ctx context.Context, owner identity.Session, conversationID string) error {
	path := owner.SafeEmail() + "/conversations"

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
		if !removed && treestore.Str(row, "id") == conversationID {
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

// --- helpers ---

// stamp fills in generated fields a caller may omit.
func (s *Service) stamp(sender identity.Session, otherName string, msg Message) Message {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Type == "" {
		msg.Type = KindText
	}
	if msg.Date == "" {
		msg.Date = timefmt.Format(s.Now())
	}
	msg.SenderEmail = sender.SafeEmail()
	msg.Name = otherName
	return msg
}

func messageDict(m Message) map[string]any {
	return map[string]any{
		"id":           m.ID,
		"type":         m.Type,
		"content":      m.Content,
		"date":         m.Date,
		"sender_email": m.SenderEmail,
		"is_read":      m.IsRead,
		"name":         m.Name,
	}
}

func appendProjection(ctx context.Context, tx *treestore.Store, safeEmail string, row map[string]any) error {
	path := safeEmail + "/conversations"
	v, err := tx.Get(ctx, path)
	if err != nil {
		return err
	}
	rows, _ := treestore.Records(v)
	updated := make([]any, 0, len(rows)+1)
	for _, r := range rows {
		updated = append(updated, r)
	}
	updated = append(updated, row)
	return tx.Set(ctx, path, updated)
}

// upsertProjection locates the row whose id matches and replaces its
// latest_message, or synthesizes the row when the projection was never
// created.
func upsertProjection(ctx context.Context, tx *treestore.Store, safeEmail, conversationID, otherEmail, otherName string, latest map[string]any) error {
	path := safeEmail + "/conversations"

	v, err := tx.Get(ctx, path)
	if err != nil {
		return err
	}
	rows, _ := treestore.Records(v)

	updated := make([]any, 0, len(rows)+1)
	found := false
	for _, row := range rows {
		if !found && treestore.Str(row, "id") == conversationID {
			row["latest_message"] = latest
			found = true
		}
		updated = append(updated, row)
	}
	if !found {
		updated = append(updated, map[string]any{
			"id":               conversationID,
			"other_user_email": otherEmail,
			"name":             otherName,
			"latest_message":   latest,
		})
	}
	return tx.Set(ctx, path, updated)
}

func decodeConversation(row map[string]any) (Conversation, bool) {
	id := treestore.Str(row, "id")
	name := treestore.Str(row, "name")
	other := treestore.Str(row, "other_user_email")
	latestDict, ok := treestore.Dict(row["latest_message"])
	if id == "" || name == "" || other == "" || !ok {
		return Conversation{}, false
	}
	return Conversation{
		ID:             id,
		Name:           name,
		OtherUserEmail: other,
		LatestMessage: LatestMessage{
			Date:    treestore.Str(latestDict, "date"),
			Message: treestore.Str(latestDict, "message"),
			IsRead:  treestore.Bool(latestDict, "is_read"),
		},
	}, true
}
