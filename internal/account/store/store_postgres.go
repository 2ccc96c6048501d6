package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"profiles/internal/account/models"
	"profiles/internal/platform/postgres"
	id "profiles/pkg/domain"
	"profiles/pkg/platform/sentinel"
)

// PostgresAccountStore persists accounts and their badge grants.
type PostgresAccountStore struct {
	db *sql.DB
}

func NewPostgresAccountStore(db *sql.DB) *PostgresAccountStore {
	return &PostgresAccountStore{db: db}
}

const accountColumns = `id, phone_number_id, number, identity_key, phone_number_identity_key,
	unidentified_access_key, unrestricted_unidentified_access, current_profile_version,
	enabled, username_hash, capabilities`

// Save upserts the account row and replaces its badges.
func (s *PostgresAccountStore) Save(ctx context.Context, account *models.Account) error {
	return postgres.WithTx(ctx, s.db, func(ctx context.Context) error {
		if err := s.writeAccount(ctx, account); err != nil {
			return err
		}
		return s.replaceBadges(ctx, account.ID, account.Badges)
	})
}

func (s *PostgresAccountStore) FindByAccountID(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	return s.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, uuid.UUID(accountID))
}

func (s *PostgresAccountStore) FindByPhoneNumberID(ctx context.Context, pni id.PhoneNumberID) (*models.Account, error) {
	return s.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE phone_number_id = $1`, uuid.UUID(pni))
}

func (s *PostgresAccountStore) FindByUsernameHash(ctx context.Context, hash []byte) (*models.Account, error) {
	return s.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username_hash = $1`, hash)
}

// Execute locks the account row, applies mutate and writes the account and
// its badges back in one transaction.
func (s *PostgresAccountStore) Execute(ctx context.Context, accountID id.AccountID, mutate func(*models.Account) error) (*models.Account, error) {
	var updated *models.Account
	err := postgres.WithTx(ctx, s.db, func(ctx context.Context) error {
		account, err := s.findOne(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, uuid.UUID(accountID))
		if err != nil {
			return err
		}
		if err := mutate(account); err != nil {
			return err
		}
		account.ID = accountID
		if err := s.writeAccount(ctx, account); err != nil {
			return err
		}
		if err := s.replaceBadges(ctx, account.ID, account.Badges); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PostgresAccountStore) findOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	conn := postgres.Conn(ctx, s.db)
	account, err := scanAccount(conn.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	badges, err := s.loadBadges(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	account.Badges = badges
	return account, nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		a            models.Account
		aci, pni     uuid.UUID
		version      sql.NullString
		capabilities []byte
	)
	if err := row.Scan(&aci, &pni, &a.Number, &a.IdentityKey, &a.PhoneNumberIdentityKey,
		&a.UnidentifiedAccessKey, &a.UnrestrictedUnidentifiedAccess, &version,
		&a.Enabled, &a.UsernameHash, &capabilities); err != nil {
		return nil, err
	}
	a.ID = id.AccountID(aci)
	a.PhoneNumberID = id.PhoneNumberID(pni)
	a.CurrentProfileVersion = version.String
	if len(capabilities) > 0 {
		if err := json.Unmarshal(capabilities, &a.Capabilities); err != nil {
			return nil, fmt.Errorf("decode capabilities: %w", err)
		}
	}
	return &a, nil
}

func (s *PostgresAccountStore) loadBadges(ctx context.Context, accountID id.AccountID) ([]models.AccountBadge, error) {
	rows, err := postgres.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT badge_id, expiration, visible
		FROM account_badges
		WHERE account_id = $1
		ORDER BY position
	`, uuid.UUID(accountID))
	if err != nil {
		return nil, fmt.Errorf("load badges: %w", err)
	}
	defer rows.Close()

	var badges []models.AccountBadge
	for rows.Next() {
		var b models.AccountBadge
		if err := rows.Scan(&b.ID, &b.Expiration, &b.Visible); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		b.Expiration = b.Expiration.UTC()
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

func (s *PostgresAccountStore) writeAccount(ctx context.Context, a *models.Account) error {
	capabilities, err := json.Marshal(a.Capabilities)
	if err != nil {
		return fmt.Errorf("encode capabilities: %w", err)
	}
	var version sql.NullString
	if a.HasCurrentProfileVersion() {
		version = sql.NullString{String: a.CurrentProfileVersion, Valid: true}
	}
	var usernameHash []byte
	if len(a.UsernameHash) > 0 {
		usernameHash = a.UsernameHash
	}
	_, err = postgres.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (id) DO UPDATE SET
			phone_number_id = EXCLUDED.phone_number_id,
			number = EXCLUDED.number,
			identity_key = EXCLUDED.identity_key,
			phone_number_identity_key = EXCLUDED.phone_number_identity_key,
			unidentified_access_key = EXCLUDED.unidentified_access_key,
			unrestricted_unidentified_access = EXCLUDED.unrestricted_unidentified_access,
			current_profile_version = EXCLUDED.current_profile_version,
			enabled = EXCLUDED.enabled,
			username_hash = EXCLUDED.username_hash,
			capabilities = EXCLUDED.capabilities,
			updated_at = NOW()
	`, uuid.UUID(a.ID), uuid.UUID(a.PhoneNumberID), a.Number, a.IdentityKey, a.PhoneNumberIdentityKey,
		a.UnidentifiedAccessKey, a.UnrestrictedUnidentifiedAccess, version,
		a.Enabled, usernameHash, capabilities)
	if err != nil {
		return fmt.Errorf("write account: %w", err)
	}
	return nil
}

// replaceBadges rewrites the badge rows using unnest for a single round trip.
func (s *PostgresAccountStore) replaceBadges(ctx context.Context, accountID id.AccountID, badges []models.AccountBadge) error {
	conn := postgres.Conn(ctx, s.db)
	if _, err := conn.ExecContext(ctx, `DELETE FROM account_badges WHERE account_id = $1`, uuid.UUID(accountID)); err != nil {
		return fmt.Errorf("clear badges: %w", err)
	}
	if len(badges) == 0 {
		return nil
	}

	ids := make([]string, len(badges))
	positions := make([]int64, len(badges))
	expirations := make([]string, len(badges))
	visible := make([]bool, len(badges))
	for i, b := range badges {
		ids[i] = b.ID
		positions[i] = int64(i)
		expirations[i] = b.Expiration.UTC().Format(time.RFC3339Nano)
		visible[i] = b.Visible
	}

	_, err := conn.ExecContext(ctx, `
		INSERT INTO account_badges (account_id, badge_id, position, expiration, visible)
		SELECT $1, b.badge_id, b.position, b.expiration, b.visible
		FROM unnest($2::text[], $3::int[], $4::timestamptz[], $5::boolean[])
			AS b(badge_id, position, expiration, visible)
	`, uuid.UUID(accountID), pq.Array(ids), pq.Array(positions), pq.Array(expirations), pq.Array(visible))
	if err != nil {
		return fmt.Errorf("insert badges: %w", err)
	}
	return nil
}
