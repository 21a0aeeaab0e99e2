// Package db is the bot's relational store. Statements are plain
// parameterized SQL against a pgx pool; the schema is created idempotently
// at startup, there is no migrations framework.
package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("row not found")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS guilds (
		guild_id BIGINT PRIMARY KEY,
		prefix TEXT NOT NULL DEFAULT '!',
		registration_channel_id BIGINT NOT NULL DEFAULT 0,
		whitelisted_countries TEXT[] NOT NULL DEFAULT '{}',
		blacklisted_osu_users BIGINT[] NOT NULL DEFAULT '{}',
		role_moderator BIGINT NOT NULL DEFAULT 0,
		role_remove BIGINT NOT NULL DEFAULT 0,
		role_add BIGINT NOT NULL DEFAULT 0,
		role_digit_1 BIGINT NOT NULL DEFAULT 0,
		role_digit_2 BIGINT NOT NULL DEFAULT 0,
		role_digit_3 BIGINT NOT NULL DEFAULT 0,
		role_digit_4 BIGINT NOT NULL DEFAULT 0,
		role_digit_5 BIGINT NOT NULL DEFAULT 0,
		role_digit_6 BIGINT NOT NULL DEFAULT 0,
		role_digit_7 BIGINT NOT NULL DEFAULT 0,
		role_standard BIGINT NOT NULL DEFAULT 0,
		role_taiko BIGINT NOT NULL DEFAULT 0,
		role_ctb BIGINT NOT NULL DEFAULT 0,
		role_mania BIGINT NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		discord_id BIGINT PRIMARY KEY,
		osu_id BIGINT NOT NULL,
		gamemode SMALLINT NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS verifications (
		discord_id BIGINT PRIMARY KEY,
		token TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS channels (
		channel_id BIGINT PRIMARY KEY,
		clean_after_message_id BIGINT NOT NULL DEFAULT 0
	);`,
}

type DB struct {
	pool *pgxpool.Pool
}

func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

// CreateSchema creates the bot's tables when they do not exist yet.
func (db *DB) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
