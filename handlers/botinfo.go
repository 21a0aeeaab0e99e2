package handlers

import (
	"fmt"
	"time"

	"osu-rank-bot/util"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

// HandleBotinfo shows key information about the running bot.
func (h *Handler) HandleBotinfo(event *handler.CommandEvent) error {
	uptime := time.Since(h.Bot.StartedAt).Round(time.Second)
	guilds, err := h.Bot.DB.Guilds(event.Ctx)
	if err != nil {
		return err
	}

	loopStatus := "stopped"
	if h.Bot.Updater.Running() {
		loopStatus = "running"
	}

	embed := discord.NewEmbedBuilder().
		SetColor(util.ColorInfo).
		SetTitle("Bot info").
		AddField("Uptime", uptime.String(), true).
		AddField("Servers", fmt.Sprintf("%d", len(guilds)), true).
		AddField("Update loop", loopStatus, true).
		AddField("disgo", disgo.Version, true).
		Build()
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(embed).
		WithEphemeral(true))
}
