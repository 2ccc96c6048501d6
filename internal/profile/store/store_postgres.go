package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"profiles/internal/platform/postgres"
	"profiles/internal/profile/models"
	id "profiles/pkg/domain"
	"profiles/pkg/platform/sentinel"
)

// PostgresProfileStore persists profiles in the profiles table.
type PostgresProfileStore struct {
	db *sql.DB
}

func NewPostgresProfileStore(db *sql.DB) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

func (s *PostgresProfileStore) Get(ctx context.Context, accountID id.AccountID, version string) (*models.VersionedProfile, error) {
	var (
		p                                          models.VersionedProfile
		name, emoji, about, paymentAddress, avatar sql.NullString
	)
	err := postgres.Conn(ctx, s.db).QueryRowContext(ctx, `
		SELECT version, name, about_emoji, about, payment_address, avatar, commitment
		FROM profiles
		WHERE account_id = $1 AND version = $2
	`, uuid.UUID(accountID), version).Scan(&p.Version, &name, &emoji, &about, &paymentAddress, &avatar, &p.Commitment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	p.Name = name.String
	p.AboutEmoji = emoji.String
	p.About = about.String
	p.PaymentAddress = paymentAddress.String
	p.Avatar = avatar.String
	return &p, nil
}

// Set upserts the profile; a second write of the same version wins.
func (s *PostgresProfileStore) Set(ctx context.Context, accountID id.AccountID, p *models.VersionedProfile) error {
	_, err := postgres.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO profiles (account_id, version, name, about_emoji, about, payment_address, avatar, commitment, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (account_id, version) DO UPDATE SET
			name = EXCLUDED.name,
			about_emoji = EXCLUDED.about_emoji,
			about = EXCLUDED.about,
			payment_address = EXCLUDED.payment_address,
			avatar = EXCLUDED.avatar,
			commitment = EXCLUDED.commitment,
			updated_at = NOW()
	`, uuid.UUID(accountID), p.Version, nullable(p.Name), nullable(p.AboutEmoji), nullable(p.About),
		nullable(p.PaymentAddress), nullable(p.Avatar), p.Commitment)
	if err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
