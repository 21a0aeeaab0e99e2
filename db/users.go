package db

import (
	"context"
	"errors"

	"osu-rank-bot/osu"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
)

const (
	selectUserQuery  = "SELECT discord_id, osu_id, gamemode FROM users WHERE discord_id = $1;"
	selectUsersQuery = "SELECT discord_id, osu_id, gamemode FROM users ORDER BY discord_id;"
	upsertUserQuery  = "INSERT INTO users (discord_id, osu_id, gamemode) VALUES ($1, $2, $3) ON CONFLICT (discord_id) DO UPDATE SET osu_id = excluded.osu_id, gamemode = excluded.gamemode;"
	updateModeQuery  = "UPDATE users SET gamemode = $2 WHERE discord_id = $1;"
	deleteUserQuery  = "DELETE FROM users WHERE discord_id = $1;"
)

// LinkedAccount associates a Discord user with an osu! account and the
// ruleset their rank is tracked for. The link is global, not per guild.
type LinkedAccount struct {
	DiscordID snowflake.ID `db:"discord_id"`
	OsuID     int64        `db:"osu_id"`
	Gamemode  osu.Gamemode `db:"gamemode"`
}

// GetLinkedAccount returns a user's link, ErrNotFound when they are not
// registered.
func (db *DB) GetLinkedAccount(ctx context.Context, discordID snowflake.ID) (LinkedAccount, error) {
	rows, _ := db.pool.Query(ctx, selectUserQuery, discordID)
	account, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[LinkedAccount])
	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return account, ErrNotFound
	}
	return account, err
}

// LinkedAccounts returns every registered user.
func (db *DB) LinkedAccounts(ctx context.Context) ([]LinkedAccount, error) {
	rows, _ := db.pool.Query(ctx, selectUsersQuery)
	return pgx.CollectRows(rows, pgx.RowToStructByName[LinkedAccount])
}

// UpsertLinkedAccount writes a link, replacing any previous one for the
// Discord user.
func (db *DB) UpsertLinkedAccount(ctx context.Context, account LinkedAccount) error {
	_, err := db.pool.Exec(ctx, upsertUserQuery, account.DiscordID, account.OsuID, account.Gamemode)
	return err
}

func (db *DB) UpdateLinkedAccountGamemode(ctx context.Context, discordID snowflake.ID, mode osu.Gamemode) error {
	_, err := db.pool.Exec(ctx, updateModeQuery, discordID, mode)
	return err
}

func (db *DB) DeleteLinkedAccount(ctx context.Context, discordID snowflake.ID) error {
	_, err := db.pool.Exec(ctx, deleteUserQuery, discordID)
	return err
}
