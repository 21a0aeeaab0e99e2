package handlers

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/lmittmann/tint"
)

// Each middleware is one stage of the pre-command check chain: it either
// denies with a user-facing reason or passes the event on.

// GuildOnly denies commands invoked outside a guild.
func (h *Handler) GuildOnly(next handler.Handler) handler.Handler {
	return func(e *handler.InteractionEvent) error {
		if e.Interaction.GuildID() == nil {
			return e.Respond(discord.InteractionResponseTypeCreateMessage, discord.NewMessageCreate().
				WithContent("This command can only be used in a server.").
				WithEphemeral(true))
		}
		return next(e)
	}
}

// ModeratorOnly denies members lacking Manage Guild and the guild's
// configured moderator role.
func (h *Handler) ModeratorOnly(next handler.Handler) handler.Handler {
	return func(e *handler.InteractionEvent) error {
		member := e.Interaction.Member()
		if member == nil {
			return e.Respond(discord.InteractionResponseTypeCreateMessage, discord.NewMessageCreate().
				WithContent("This command can only be used in a server.").
				WithEphemeral(true))
		}
		if !member.Permissions.Has(discord.PermissionManageGuild) {
			cfg, err := h.Bot.DB.GetGuildConfig(e.Ctx, *e.Interaction.GuildID())
			if err != nil {
				slog.Error("bot: error while getting guild config", slog.Any("guild.id", *e.Interaction.GuildID()), tint.Err(err))
				return err
			}
			if cfg.RoleModerator == 0 || !slices.Contains(member.RoleIDs, cfg.RoleModerator) {
				return e.Respond(discord.InteractionResponseTypeCreateMessage, discord.NewMessageCreate().
					WithContent("You need the Manage Server permission or the moderator role to use this command.").
					WithEphemeral(true))
			}
		}
		return next(e)
	}
}

// OwnerOnly denies everyone but the configured bot owner.
func (h *Handler) OwnerOnly(next handler.Handler) handler.Handler {
	return func(e *handler.InteractionEvent) error {
		if e.Interaction.User().ID != h.Config.OwnerID {
			return e.Respond(discord.InteractionResponseTypeCreateMessage, discord.NewMessageCreate().
				WithContent("Only the bot owner can use this command.").
				WithEphemeral(true))
		}
		return next(e)
	}
}

// Cooldown denies a user re-running the guarded command before its per-user
// cooldown has passed. The window starts only once the guarded command
// succeeds, so a failed attempt does not burn it.
func (h *Handler) Cooldown(next handler.Handler) handler.Handler {
	return func(e *handler.InteractionEvent) error {
		if wait := h.cooldowns.remaining(e.Interaction.User().ID.String()); wait > 0 {
			return e.Respond(discord.InteractionResponseTypeCreateMessage, discord.NewMessageCreate().
				WithContentf("You're on cooldown. Try again in **%s**.", wait.Round(time.Second)).
				WithEphemeral(true))
		}
		return next(e)
	}
}

type cooldowns struct {
	mu       sync.Mutex
	period   time.Duration
	now      func() time.Time
	lastUsed map[string]time.Time
}

func newCooldowns(period time.Duration) *cooldowns {
	return &cooldowns{
		period:   period,
		now:      time.Now,
		lastUsed: make(map[string]time.Time),
	}
}

// remaining returns the wait left for a key, zero when it is off cooldown.
func (c *cooldowns) remaining(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if last, ok := c.lastUsed[key]; ok {
		if wait := c.period - c.now().Sub(last); wait > 0 {
			return wait
		}
	}
	return 0
}

// record starts the cooldown window for a key.
func (c *cooldowns) record(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed[key] = c.now()
}
