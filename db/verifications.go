package db

import (
	"context"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
)

const (
	selectVerificationQuery = "SELECT discord_id, token, expires_at FROM verifications WHERE discord_id = $1;"
	upsertVerificationQuery = "INSERT INTO verifications (discord_id, token, expires_at) VALUES ($1, $2, $3) ON CONFLICT (discord_id) DO UPDATE SET token = excluded.token, expires_at = excluded.expires_at;"
	deleteVerificationQuery = "DELETE FROM verifications WHERE discord_id = $1;"
	sweepVerificationsQuery = "DELETE FROM verifications WHERE expires_at < $1;"
)

// Verification is a pending registration handshake: a one-time token proving
// the OAuth callback belongs to a specific Discord user. Rows are short-lived
// and swept after their expiry regardless of completion.
type Verification struct {
	DiscordID snowflake.ID `db:"discord_id"`
	Token     string       `db:"token"`
	ExpiresAt time.Time    `db:"expires_at"`
}

// GetVerification returns a user's pending verification, ErrNotFound when
// none is pending.
func (db *DB) GetVerification(ctx context.Context, discordID snowflake.ID) (Verification, error) {
	rows, _ := db.pool.Query(ctx, selectVerificationQuery, discordID)
	verification, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Verification])
	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return verification, ErrNotFound
	}
	return verification, err
}

// UpsertVerification starts (or restarts) a registration handshake.
func (db *DB) UpsertVerification(ctx context.Context, verification Verification) error {
	_, err := db.pool.Exec(ctx, upsertVerificationQuery, verification.DiscordID, verification.Token, verification.ExpiresAt)
	return err
}

func (db *DB) DeleteVerification(ctx context.Context, discordID snowflake.ID) error {
	_, err := db.pool.Exec(ctx, deleteVerificationQuery, discordID)
	return err
}

// DeleteExpiredVerifications sweeps handshakes whose window has passed and
// returns how many were removed.
func (db *DB) DeleteExpiredVerifications(ctx context.Context, now time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx, sweepVerificationsQuery, now)
	return tag.RowsAffected(), err
}
