package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"osu-rank-bot/db"
	"osu-rank-bot/osu"
	"osu-rank-bot/roles"
	"osu-rank-bot/util"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

// HandleRegister starts the registration handshake: it mints a one-time
// token, stores the pending verification and hands the user a consent URL.
// The linkage itself is completed by the callback server.
func (h *Handler) HandleRegister(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	guildID := *event.GuildID()
	mode := osu.GamemodeStandard
	if modeID, ok := data.OptInt("mode"); ok {
		mode = osu.Gamemode(modeID)
	}
	if !mode.Valid() {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed("Unknown gamemode.")).
			WithEphemeral(true))
	}

	cfg, err := h.Bot.DB.GetGuildConfig(event.Ctx, guildID)
	if err != nil {
		return err
	}
	if cfg.RegistrationChannelID != 0 && event.Channel().ID() != cfg.RegistrationChannelID {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed(fmt.Sprintf("Registration is only allowed in <#%d>.", cfg.RegistrationChannelID))).
			WithEphemeral(true))
	}

	userID := event.User().ID
	if _, err := h.Bot.DB.GetLinkedAccount(event.Ctx, userID); err == nil {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed("You are already registered. Use `/osu remove` first to link a different account.")).
			WithEphemeral(true))
	} else if !errors.Is(err, db.ErrNotFound) {
		return err
	}

	token := uuid.NewString()
	if err := h.Bot.DB.UpsertVerification(event.Ctx, db.Verification{
		DiscordID: userID,
		Token:     token,
		ExpiresAt: time.Now().Add(verificationTTL),
	}); err != nil {
		return err
	}

	state := fmt.Sprintf("%d:%d:%s", userID, mode, token)
	embed := discord.NewEmbedBuilder().
		SetColor(util.ColorInfo).
		SetTitle("Link your osu! account").
		SetDescriptionf("Click [here](%s) to connect your osu! account for **%s**.\nThe link is valid for **%s**.",
			h.Bot.Osu.AuthCodeURL(state), mode, verificationTTL).
		Build()
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(embed).
		WithEphemeral(true))
}

// HandleRemove unlinks the invoking user's osu! account.
func (h *Handler) HandleRemove(event *handler.CommandEvent) error {
	userID := event.User().ID
	if _, err := h.Bot.DB.GetLinkedAccount(event.Ctx, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return event.CreateMessage(discord.NewMessageCreate().
				WithEmbeds(util.WarningEmbed("You are not registered with the bot.")).
				WithEphemeral(true))
		}
		return err
	}
	if err := h.Bot.DB.DeleteLinkedAccount(event.Ctx, userID); err != nil {
		return err
	}
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed("Your osu! account has been removed from the bot.")).
		WithEphemeral(true))
}

// HandleProfile shows an osu! profile: the invoker's or another member's
// linked account, or any player given by name.
func (h *Handler) HandleProfile(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	var query string
	mode := osu.GamemodeStandard
	if name, ok := data.OptString("name"); ok {
		query = name
		if modeName, ok := data.OptString("mode"); ok {
			parsed, err := osu.ParseGamemode(modeName)
			if err != nil {
				return event.CreateMessage(discord.NewMessageCreate().
					WithEmbeds(util.WarningEmbed("Unknown gamemode.")).
					WithEphemeral(true))
			}
			mode = parsed
		}
	} else {
		userID := event.User().ID
		if target, ok := data.OptSnowflake("member"); ok {
			userID = target
		}
		account, err := h.Bot.DB.GetLinkedAccount(event.Ctx, userID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return event.CreateMessage(discord.NewMessageCreate().
					WithEmbeds(util.WarningEmbed("That member has no linked osu! account.")).
					WithEphemeral(true))
			}
			return err
		}
		query = strconv.FormatInt(account.OsuID, 10)
		mode = account.Gamemode
	}

	if err := event.DeferCreateMessage(true); err != nil {
		return err
	}
	user, err := h.Bot.Osu.FetchUser(event.Ctx, query, mode)
	if err != nil {
		if errors.Is(err, osu.ErrUserNotFound) {
			_, err = event.CreateFollowupMessage(discord.NewMessageCreate().
				WithEmbeds(util.WarningEmbed("That osu! account could not be found.")).
				WithEphemeral(true))
			return err
		}
		return err
	}

	rank := "unranked"
	if user.GlobalRank() > 0 {
		rank = fmt.Sprintf("#%d", user.GlobalRank())
	}
	embed := discord.NewEmbedBuilder().
		SetColor(util.ColorInfo).
		SetAuthor(user.Username, fmt.Sprintf("https://osu.ppy.sh/users/%d", user.ID), user.AvatarURL).
		SetThumbnail(user.AvatarURL).
		AddField("Global rank", rank, true).
		AddField("Country", user.Country.Code, true).
		AddField("Gamemode", mode.String(), true).
		AddField("PP", fmt.Sprintf("%.0f", user.Statistics.PP), true).
		AddField("Play count", strconv.Itoa(user.Statistics.PlayCount), true).
		Build()
	_, err = event.CreateFollowupMessage(discord.NewMessageCreate().
		WithEmbeds(embed).
		WithEphemeral(true))
	return err
}

// HandleModeSet changes the tracked ruleset and refreshes the member's roles
// right away.
func (h *Handler) HandleModeSet(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	mode := osu.Gamemode(data.Int("mode"))
	if !mode.Valid() {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed("Unknown gamemode.")).
			WithEphemeral(true))
	}
	userID := event.User().ID
	account, err := h.Bot.DB.GetLinkedAccount(event.Ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return event.CreateMessage(discord.NewMessageCreate().
				WithEmbeds(util.WarningEmbed("You are not registered with the bot.")).
				WithEphemeral(true))
		}
		return err
	}
	if err := h.Bot.DB.UpdateLinkedAccountGamemode(event.Ctx, userID, mode); err != nil {
		return err
	}
	account.Gamemode = mode

	if err := event.DeferCreateMessage(true); err != nil {
		return err
	}
	_, err = h.refreshAndReport(event, account, "Gamemode change")
	return err
}

// HandleUpdate is the forced refresh. The per-user cooldown runs as
// middleware before this handler.
func (h *Handler) HandleUpdate(event *handler.CommandEvent) error {
	account, err := h.Bot.DB.GetLinkedAccount(event.Ctx, event.User().ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return event.CreateMessage(discord.NewMessageCreate().
				WithEmbeds(util.WarningEmbed("You are not registered with the bot.")).
				WithEphemeral(true))
		}
		return err
	}
	if err := event.DeferCreateMessage(true); err != nil {
		return err
	}
	updated, err := h.refreshAndReport(event, account, "Forced osu! rank update")
	if updated {
		h.cooldowns.record(event.User().ID.String())
	}
	return err
}

// refreshAndReport applies the member's current rank roles and reports the
// outcome. It returns whether the roles were actually updated; rejections
// and lookup misses report to the user without counting as an update.
func (h *Handler) refreshAndReport(event *handler.CommandEvent, account db.LinkedAccount, reason string) (bool, error) {
	guildID := *event.GuildID()
	cfg, err := h.Bot.DB.GetGuildConfig(event.Ctx, guildID)
	if err != nil {
		return false, err
	}
	_, err = h.Bot.RefreshMemberRoles(event.Ctx, event.Client().Rest, cfg, account, reason)
	if err != nil {
		switch {
		case errors.Is(err, osu.ErrUserNotFound):
			_, err = event.CreateFollowupMessage(discord.NewMessageCreate().
				WithEmbeds(util.WarningEmbed("The linked osu! account could not be found.")).
				WithEphemeral(true))
			return false, err
		case errors.Is(err, roles.ErrBlacklisted), errors.Is(err, roles.ErrCountryNotAllowed):
			_, err = event.CreateFollowupMessage(discord.NewMessageCreate().
				WithEmbeds(util.WarningEmbed(capitalize(err.Error())+".")).
				WithEphemeral(true))
			return false, err
		}
		slog.Error("bot: error while refreshing member roles",
			slog.Any("guild.id", guildID),
			slog.Any("user.id", account.DiscordID),
			tint.Err(err))
		return false, err
	}
	_, err = event.CreateFollowupMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed("Your roles have been updated in accordance with your current osu! rank!")).
		WithEphemeral(true))
	return true, err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
