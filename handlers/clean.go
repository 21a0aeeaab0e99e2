package handlers

import (
	"errors"
	"fmt"
	"time"

	"osu-rank-bot/db"
	"osu-rank-bot/util"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

const (
	cleanBatchLimit = 100
	// Discord's bulk deletion rejects messages older than two weeks; the
	// minute of slack keeps a batch from aging past the limit in flight.
	bulkDeleteMaxAge = 14*24*time.Hour - time.Minute
)

// purger is the part of the Discord REST API the clean command uses.
// Satisfied by rest.Rest.
type purger interface {
	GetMessages(channelID snowflake.ID, around snowflake.ID, before snowflake.ID, after snowflake.ID, limit int, opts ...rest.RequestOpt) ([]discord.Message, error)
	BulkDeleteMessages(channelID snowflake.ID, messageIDs []snowflake.ID, opts ...rest.RequestOpt) error
	DeleteMessage(channelID snowflake.ID, messageID snowflake.ID, opts ...rest.RequestOpt) error
}

// HandleSettingsMarker stores the cleanup marker for the current channel.
// Messages later than the marked message become fair game for the clean
// command.
func (h *Handler) HandleSettingsMarker(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	messageID, err := snowflake.Parse(data.String("message_id"))
	if err != nil {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed("That is not a valid message ID.")).
			WithEphemeral(true))
	}
	if err := h.Bot.DB.UpsertChannel(event.Ctx, db.Channel{
		ChannelID:           event.Channel().ID(),
		CleanAfterMessageID: messageID,
	}); err != nil {
		return err
	}
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed("Cleanup marker has been set for this channel.")).
		WithEphemeral(true))
}

// HandleClean purges messages sent after the channel's cleanup marker. The
// marker is stored per channel and keeps pinned instructions at the top of a
// registration channel intact.
func (h *Handler) HandleClean(event *handler.CommandEvent) error {
	channelID := event.Channel().ID()
	channel, err := h.Bot.DB.GetChannel(event.Ctx, channelID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return err
	}
	if channel.CleanAfterMessageID == 0 {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed("This channel has no cleanup marker set.")).
			WithEphemeral(true))
	}

	if err := event.DeferCreateMessage(true); err != nil {
		return err
	}
	deleted, err := purgeAfter(event.Client().Rest, channelID, channel.CleanAfterMessageID, time.Now())
	if err != nil {
		return err
	}
	_, err = event.CreateFollowupMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed(fmt.Sprintf("Deleted **%d** messages.", deleted))).
		WithEphemeral(true))
	return err
}

// purgeAfter deletes the messages sent after a marker. A batch of one goes
// through single deletion since bulk deletion requires at least two IDs;
// messages past the bulk-deletion age are left in place. The cursor advances
// past every seen message so skipped ones cannot stall the loop.
func purgeAfter(client purger, channelID snowflake.ID, after snowflake.ID, now time.Time) (int, error) {
	cutoff := now.Add(-bulkDeleteMaxAge)
	var deleted int
	for {
		messages, err := client.GetMessages(channelID, 0, 0, after, cleanBatchLimit)
		if err != nil {
			return deleted, err
		}
		if len(messages) == 0 {
			return deleted, nil
		}
		messageIDs := make([]snowflake.ID, 0, len(messages))
		for _, message := range messages {
			if message.ID > after {
				after = message.ID
			}
			if message.ID.Time().Before(cutoff) {
				continue
			}
			messageIDs = append(messageIDs, message.ID)
		}
		switch len(messageIDs) {
		case 0:
		case 1:
			err = client.DeleteMessage(channelID, messageIDs[0])
		default:
			err = client.BulkDeleteMessages(channelID, messageIDs)
		}
		if err != nil {
			return deleted, err
		}
		deleted += len(messageIDs)
		if len(messages) < cleanBatchLimit {
			return deleted, nil
		}
	}
}
