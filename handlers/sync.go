package handlers

import (
	"context"

	"osu-rank-bot/util"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

// Owner-only control over the scheduled rank update loop. Stopping only
// affects the next cycle; a run in flight always finishes.

func (h *Handler) HandleSyncStart(event *handler.CommandEvent) error {
	if h.Bot.Updater.Running() {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed("The update loop is already running.")).
			WithEphemeral(true))
	}
	h.Bot.Updater.Start(context.Background())
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed("The update loop has been started.")).
		WithEphemeral(true))
}

func (h *Handler) HandleSyncStop(event *handler.CommandEvent) error {
	if !h.Bot.Updater.Running() {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed("The update loop is not running.")).
			WithEphemeral(true))
	}
	h.Bot.Updater.Stop()
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed("The update loop has been stopped.")).
		WithEphemeral(true))
}

// HandleSyncRun triggers an immediate pass without touching the schedule.
func (h *Handler) HandleSyncRun(event *handler.CommandEvent) error {
	go h.Bot.Updater.Run(context.Background())
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed("A rank update run has been started.")).
		WithEphemeral(true))
}
