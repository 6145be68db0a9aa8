package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/recruiterhub/backend/internal/db"
)

// CredentialRepository provides data access methods for login credentials.
// It encapsulates all queries against the credentials table; nothing else
// touches it.
type CredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new repository bound to the given DB connection.
func NewCredentialRepository(database *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: database}
}

// Upsert inserts or updates the credential row for a user.
//
// Behavior:
//   - If the safe email exists → the password hash is updated.
//   - If it doesn't → a new row is inserted.
func (r *CredentialRepository) Upsert(ctx context.Context, cred db.Credential) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "safe_email"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash"}),
		}).
		Create(&cred).Error
}

// FindBySafeEmail returns the credential row for a safe email key.
// gorm.ErrRecordNotFound when the user never registered.
func (r *CredentialRepository) FindBySafeEmail(ctx context.Context, safeEmail string) (db.Credential, error) {
	var cred db.Credential
	err := r.db.WithContext(ctx).
		Where("safe_email = ?", safeEmail).
		First(&cred).Error
	return cred, err
}

// Exists reports whether a credential row exists for the safe email.
func (r *CredentialRepository) Exists(ctx context.Context, safeEmail string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Credential{}).
		Where("safe_email = ?", safeEmail).
		Count(&count).Error
	return count > 0, err
}
