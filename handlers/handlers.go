package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"osu-rank-bot/internal"
	"osu-rank-bot/util"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/lmittmann/tint"
)

const (
	verificationTTL = 2 * time.Minute
	updateCooldown  = 12 * time.Hour
)

func NewHandler(b *internal.Bot, c *internal.Config) *Handler {
	mux := handler.New()
	mux.Error(func(e *handler.InteractionEvent, err error) {
		i := e.Interaction.(discord.ApplicationCommandInteraction)
		slog.Error("bot: error while handling a command", slog.String("command.name", i.Data.CommandName()), tint.Err(err))
		_ = e.Respond(discord.InteractionResponseTypeCreateMessage, discord.NewMessageCreate().
			WithEmbeds(util.ErrorEmbed(fmt.Sprintf("There was an error while handling the command: %v", err))).
			WithEphemeral(true))
	})
	h := &Handler{
		Bot:       b,
		Config:    c,
		Router:    mux,
		cooldowns: newCooldowns(updateCooldown),
	}
	h.Group(func(r handler.Router) {
		r.Use(h.GuildOnly)
		r.Route("/osu", func(r handler.Router) {
			r.SlashCommand("/register", h.HandleRegister)
			r.Command("/remove", h.HandleRemove)
			r.SlashCommand("/profile", h.HandleProfile)
			r.SlashCommand("/mode", h.HandleModeSet)
			r.Group(func(r handler.Router) {
				r.Use(h.Cooldown)
				r.Command("/update", h.HandleUpdate)
			})
		})
		r.Group(func(r handler.Router) {
			r.Use(h.ModeratorOnly)
			r.Route("/settings", func(r handler.Router) {
				r.Command("/view", h.HandleSettingsView)
				r.SlashCommand("/prefix", h.HandleSettingsPrefix)
				r.SlashCommand("/channel", h.HandleSettingsChannel)
				r.SlashCommand("/role", h.HandleSettingsRole)
				r.SlashCommand("/marker", h.HandleSettingsMarker)
				r.Route("/whitelist", func(r handler.Router) {
					r.SlashCommand("/add", h.HandleWhitelistAdd)
					r.SlashCommand("/remove", h.HandleWhitelistRemove)
					r.Command("/show", h.HandleWhitelistShow)
				})
				r.Route("/blacklist", func(r handler.Router) {
					r.SlashCommand("/add", h.HandleBlacklistAdd)
					r.SlashCommand("/remove", h.HandleBlacklistRemove)
					r.Command("/show", h.HandleBlacklistShow)
				})
			})
			r.Command("/clean", h.HandleClean)
		})
		r.Group(func(r handler.Router) {
			r.Use(h.OwnerOnly)
			r.Route("/sync", func(r handler.Router) {
				r.Command("/start", h.HandleSyncStart)
				r.Command("/stop", h.HandleSyncStop)
				r.Command("/run", h.HandleSyncRun)
			})
		})
	})
	h.Command("/botinfo", h.HandleBotinfo)
	return h
}

type Handler struct {
	Bot    *internal.Bot
	Config *internal.Config
	handler.Router

	cooldowns *cooldowns
}
