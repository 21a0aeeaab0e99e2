package db

import (
	"context"
	"errors"
	"fmt"

	"osu-rank-bot/config"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
)

const (
	selectGuildQuery  = "SELECT * FROM guilds WHERE guild_id = $1;"
	selectGuildsQuery = "SELECT * FROM guilds ORDER BY guild_id;"
	insertGuildQuery  = "INSERT INTO guilds (guild_id, prefix) VALUES ($1, $2) ON CONFLICT (guild_id) DO NOTHING;"
	deleteGuildQuery  = "DELETE FROM guilds WHERE guild_id = $1;"

	updatePrefixQuery  = "UPDATE guilds SET prefix = $2 WHERE guild_id = $1;"
	updateChannelQuery = "UPDATE guilds SET registration_channel_id = $2 WHERE guild_id = $1;"

	addCountryQuery    = "UPDATE guilds SET whitelisted_countries = array_append(whitelisted_countries, $2) WHERE guild_id = $1 AND NOT ($2 = ANY(whitelisted_countries));"
	removeCountryQuery = "UPDATE guilds SET whitelisted_countries = array_remove(whitelisted_countries, $2) WHERE guild_id = $1;"

	addBlacklistQuery    = "UPDATE guilds SET blacklisted_osu_users = array_append(blacklisted_osu_users, $2) WHERE guild_id = $1 AND NOT ($2 = ANY(blacklisted_osu_users));"
	removeBlacklistQuery = "UPDATE guilds SET blacklisted_osu_users = array_remove(blacklisted_osu_users, $2) WHERE guild_id = $1;"
)

// roleColumns maps every role slot onto its fixed column. Kinds outside this
// table are rejected before any SQL is built.
var roleColumns = map[config.RoleKind]string{
	config.RoleKindModerator: "role_moderator",
	config.RoleKindRemove:    "role_remove",
	config.RoleKindAdd:       "role_add",
	config.RoleKindDigit1:    "role_digit_1",
	config.RoleKindDigit2:    "role_digit_2",
	config.RoleKindDigit3:    "role_digit_3",
	config.RoleKindDigit4:    "role_digit_4",
	config.RoleKindDigit5:    "role_digit_5",
	config.RoleKindDigit6:    "role_digit_6",
	config.RoleKindDigit7:    "role_digit_7",
	config.RoleKindStandard:  "role_standard",
	config.RoleKindTaiko:     "role_taiko",
	config.RoleKindCtb:       "role_ctb",
	config.RoleKindMania:     "role_mania",
}

// GetGuildConfig returns a guild's stored configuration. A guild without a
// row yet resolves to the zero configuration.
func (db *DB) GetGuildConfig(ctx context.Context, guildID snowflake.ID) (config.Guild, error) {
	rows, _ := db.pool.Query(ctx, selectGuildQuery, guildID)
	cfg, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[config.Guild])
	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return config.Guild{GuildID: guildID}, nil
	}
	return cfg, err
}

// Guilds returns every guild the bot has configuration for.
func (db *DB) Guilds(ctx context.Context) ([]config.Guild, error) {
	rows, _ := db.pool.Query(ctx, selectGuildsQuery)
	return pgx.CollectRows(rows, pgx.RowToStructByName[config.Guild])
}

// EnsureGuild creates a guild row when the bot joins a guild.
func (db *DB) EnsureGuild(ctx context.Context, guildID snowflake.ID, defaultPrefix string) error {
	_, err := db.pool.Exec(ctx, insertGuildQuery, guildID, defaultPrefix)
	return err
}

// DeleteGuild removes a guild row when the bot leaves a guild.
func (db *DB) DeleteGuild(ctx context.Context, guildID snowflake.ID) error {
	_, err := db.pool.Exec(ctx, deleteGuildQuery, guildID)
	return err
}

func (db *DB) UpdateGuildPrefix(ctx context.Context, guildID snowflake.ID, prefix string) error {
	_, err := db.pool.Exec(ctx, updatePrefixQuery, guildID, prefix)
	return err
}

func (db *DB) UpdateGuildRegistrationChannel(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID) error {
	_, err := db.pool.Exec(ctx, updateChannelQuery, guildID, channelID)
	return err
}

// UpdateGuildRole sets a single role slot.
func (db *DB) UpdateGuildRole(ctx context.Context, guildID snowflake.ID, kind config.RoleKind, roleID snowflake.ID) error {
	column, ok := roleColumns[kind]
	if !ok {
		return fmt.Errorf("unknown role kind %q", kind)
	}
	_, err := db.pool.Exec(ctx, fmt.Sprintf("UPDATE guilds SET %s = $2 WHERE guild_id = $1;", column), guildID, roleID)
	return err
}

func (db *DB) AddWhitelistedCountry(ctx context.Context, guildID snowflake.ID, countryCode string) error {
	_, err := db.pool.Exec(ctx, addCountryQuery, guildID, countryCode)
	return err
}

func (db *DB) RemoveWhitelistedCountry(ctx context.Context, guildID snowflake.ID, countryCode string) error {
	_, err := db.pool.Exec(ctx, removeCountryQuery, guildID, countryCode)
	return err
}

func (db *DB) AddBlacklistedOsuUser(ctx context.Context, guildID snowflake.ID, osuID int64) error {
	_, err := db.pool.Exec(ctx, addBlacklistQuery, guildID, osuID)
	return err
}

func (db *DB) RemoveBlacklistedOsuUser(ctx context.Context, guildID snowflake.ID, osuID int64) error {
	_, err := db.pool.Exec(ctx, removeBlacklistQuery, guildID, osuID)
	return err
}
