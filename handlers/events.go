package handlers

import (
	"context"
	"errors"
	"log/slog"

	"osu-rank-bot/db"
	"osu-rank-bot/internal"
	"osu-rank-bot/osu"
	"osu-rank-bot/roles"

	"github.com/disgoorg/disgo/events"
	"github.com/lmittmann/tint"
)

// OnGuildJoin creates a guild's configuration row when the bot is added to a
// guild.
func OnGuildJoin(b *internal.Bot, c *internal.Config, ev *events.GuildJoin) {
	if err := b.DB.EnsureGuild(context.Background(), ev.GuildID, c.DefaultPrefix); err != nil {
		slog.Error("bot: error while creating a guild row", slog.Any("guild.id", ev.GuildID), tint.Err(err))
		return
	}
	slog.Info("bot: joined a guild", slog.Any("guild.id", ev.GuildID))
}

// OnGuildReady backfills the configuration row for guilds the bot was added
// to while offline. Update statements silently miss without the row.
func OnGuildReady(b *internal.Bot, c *internal.Config, ev *events.GuildReady) {
	if err := b.DB.EnsureGuild(context.Background(), ev.GuildID, c.DefaultPrefix); err != nil {
		slog.Error("bot: error while creating a guild row", slog.Any("guild.id", ev.GuildID), tint.Err(err))
	}
}

// OnGuildLeave drops the guild's configuration.
func OnGuildLeave(b *internal.Bot, ev *events.GuildLeave) {
	if err := b.DB.DeleteGuild(context.Background(), ev.GuildID); err != nil {
		slog.Error("bot: error while deleting a guild row", slog.Any("guild.id", ev.GuildID), tint.Err(err))
		return
	}
	slog.Info("bot: left a guild", slog.Any("guild.id", ev.GuildID))
}

// OnMemberJoin refreshes a joining member's roles right away when they
// already have a linked account.
func OnMemberJoin(b *internal.Bot, ev *events.GuildMemberJoin) {
	ctx := context.Background()
	account, err := b.DB.GetLinkedAccount(ctx, ev.Member.User.ID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			slog.Error("bot: error while getting a linked account", slog.Any("user.id", ev.Member.User.ID), tint.Err(err))
		}
		return
	}
	cfg, err := b.DB.GetGuildConfig(ctx, ev.GuildID)
	if err != nil {
		slog.Error("bot: error while getting guild config", slog.Any("guild.id", ev.GuildID), tint.Err(err))
		return
	}
	if _, err := b.RefreshMemberRoles(ctx, ev.Client().Rest, cfg, account, "Member joined with a linked osu! account"); err != nil {
		if errors.Is(err, osu.ErrUserNotFound) || errors.Is(err, roles.ErrBlacklisted) || errors.Is(err, roles.ErrCountryNotAllowed) {
			return
		}
		slog.Error("bot: error while refreshing a joining member",
			slog.Any("guild.id", ev.GuildID),
			slog.Any("user.id", ev.Member.User.ID),
			tint.Err(err))
	}
}

// OnMemberLeave unlinks the leaving member's account.
func OnMemberLeave(b *internal.Bot, ev *events.GuildMemberLeave) {
	if err := b.DB.DeleteLinkedAccount(context.Background(), ev.User.ID); err != nil {
		slog.Error("bot: error while deleting a linked account", slog.Any("user.id", ev.User.ID), tint.Err(err))
	}
}
