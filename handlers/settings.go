package handlers

import (
	"errors"
	"fmt"
	"strings"

	"osu-rank-bot/config"
	"osu-rank-bot/osu"
	"osu-rank-bot/util"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const maxPrefixLength = 255

// HandleSettingsView shows the guild's whole configuration in one embed.
func (h *Handler) HandleSettingsView(event *handler.CommandEvent) error {
	cfg, err := h.Bot.DB.GetGuildConfig(event.Ctx, *event.GuildID())
	if err != nil {
		return err
	}

	var roleLines []string
	for _, kind := range config.RoleKinds {
		if roleID := cfg.Role(kind); roleID != 0 {
			roleLines = append(roleLines, fmt.Sprintf("%s: <@&%d>", kind, roleID))
		}
	}
	rolesValue := "none configured"
	if len(roleLines) != 0 {
		rolesValue = strings.Join(roleLines, "\n")
	}
	channelValue := "not set"
	if cfg.RegistrationChannelID != 0 {
		channelValue = fmt.Sprintf("<#%d>", cfg.RegistrationChannelID)
	}
	whitelistValue := "all countries allowed"
	if len(cfg.WhitelistedCountries) != 0 {
		whitelistValue = strings.Join(cfg.WhitelistedCountries, ", ")
	}

	embed := discord.NewEmbedBuilder().
		SetColor(util.ColorInfo).
		SetTitle("Server settings").
		AddField("Prefix", "`"+cfg.Prefix+"`", true).
		AddField("Registration channel", channelValue, true).
		AddField("Country whitelist", whitelistValue, false).
		AddField("Blacklisted osu! accounts", fmt.Sprintf("%d", len(cfg.BlacklistedOsuUsers)), true).
		AddField("Roles", rolesValue, false).
		Build()
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(embed).
		WithEphemeral(true))
}

func (h *Handler) HandleSettingsPrefix(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	prefix := data.String("prefix")
	if len(prefix) > maxPrefixLength {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed(fmt.Sprintf("Maximum prefix length is %d characters.", maxPrefixLength))).
			WithEphemeral(true))
	}
	if err := h.Bot.DB.UpdateGuildPrefix(event.Ctx, *event.GuildID(), prefix); err != nil {
		return err
	}
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed(fmt.Sprintf("Prefix is now set to `%s`.", prefix))).
		WithEphemeral(true))
}

func (h *Handler) HandleSettingsChannel(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	channelID := data.Snowflake("channel")
	if err := h.Bot.DB.UpdateGuildRegistrationChannel(event.Ctx, *event.GuildID(), channelID); err != nil {
		return err
	}
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed(fmt.Sprintf("Registration channel is now <#%d>.", channelID))).
		WithEphemeral(true))
}

// HandleSettingsRole assigns a Discord role to one of the fixed role slots.
func (h *Handler) HandleSettingsRole(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	kind := config.RoleKind(data.String("kind"))
	if !kind.Valid() {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed("Unknown role kind.")).
			WithEphemeral(true))
	}
	roleID := data.Snowflake("role")
	if err := h.Bot.DB.UpdateGuildRole(event.Ctx, *event.GuildID(), kind, roleID); err != nil {
		return err
	}
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed(fmt.Sprintf("Role **%s** is now <@&%d>.", kind, roleID))).
		WithEphemeral(true))
}

func (h *Handler) HandleWhitelistAdd(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	country := strings.ToUpper(strings.TrimSpace(data.String("country")))
	if len(country) != 2 {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed("Country codes use the two-letter [ISO 3166-1 alpha-2](https://en.wikipedia.org/wiki/ISO_3166-1_alpha-2) format.")).
			WithEphemeral(true))
	}
	if err := h.Bot.DB.AddWhitelistedCountry(event.Ctx, *event.GuildID(), country); err != nil {
		return err
	}
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed(fmt.Sprintf("`%s` has been added to the whitelist.", country))).
		WithEphemeral(true))
}

func (h *Handler) HandleWhitelistRemove(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	country := strings.ToUpper(strings.TrimSpace(data.String("country")))
	if err := h.Bot.DB.RemoveWhitelistedCountry(event.Ctx, *event.GuildID(), country); err != nil {
		return err
	}
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed(fmt.Sprintf("`%s` has been removed from the whitelist.", country))).
		WithEphemeral(true))
}

func (h *Handler) HandleWhitelistShow(event *handler.CommandEvent) error {
	cfg, err := h.Bot.DB.GetGuildConfig(event.Ctx, *event.GuildID())
	if err != nil {
		return err
	}
	if len(cfg.WhitelistedCountries) == 0 {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed("No countries are whitelisted; everyone is allowed.")).
			WithEphemeral(true))
	}
	codes := make([]string, 0, len(cfg.WhitelistedCountries))
	for _, country := range cfg.WhitelistedCountries {
		codes = append(codes, "`"+country+"`")
	}
	embed := discord.NewEmbedBuilder().
		SetColor(util.ColorInfo).
		SetTitle("Country whitelist").
		SetDescription(strings.Join(codes, ", ")).
		Build()
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(embed).
		WithEphemeral(true))
}

// HandleBlacklistAdd resolves the given osu! user and blocks their account
// in this guild.
func (h *Handler) HandleBlacklistAdd(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	if err := event.DeferCreateMessage(true); err != nil {
		return err
	}
	user, err := h.Bot.Osu.FetchUser(event.Ctx, data.String("user"), osu.GamemodeStandard)
	if err != nil {
		if errors.Is(err, osu.ErrUserNotFound) {
			_, err = event.CreateFollowupMessage(discord.NewMessageCreate().
				WithEmbeds(util.WarningEmbed("Could not find that osu! user.")).
				WithEphemeral(true))
			return err
		}
		return err
	}
	if err := h.Bot.DB.AddBlacklistedOsuUser(event.Ctx, *event.GuildID(), user.ID); err != nil {
		return err
	}
	embed := discord.NewEmbedBuilder().
		SetColor(util.ColorSuccess).
		SetDescription("✅ User added to the blacklist.").
		SetThumbnail(user.AvatarURL).
		AddField("Username", user.Username, true).
		AddField("ID", fmt.Sprintf("%d", user.ID), true).
		AddField("URL", fmt.Sprintf("https://osu.ppy.sh/users/%d", user.ID), false).
		Build()
	_, err = event.CreateFollowupMessage(discord.NewMessageCreate().
		WithEmbeds(embed).
		WithEphemeral(true))
	return err
}

func (h *Handler) HandleBlacklistRemove(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	osuID := int64(data.Int("id"))
	if err := h.Bot.DB.RemoveBlacklistedOsuUser(event.Ctx, *event.GuildID(), osuID); err != nil {
		return err
	}
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(util.SuccessEmbed(fmt.Sprintf("Account `%d` has been removed from the blacklist.", osuID))).
		WithEphemeral(true))
}

func (h *Handler) HandleBlacklistShow(event *handler.CommandEvent) error {
	cfg, err := h.Bot.DB.GetGuildConfig(event.Ctx, *event.GuildID())
	if err != nil {
		return err
	}
	if len(cfg.BlacklistedOsuUsers) == 0 {
		return event.CreateMessage(discord.NewMessageCreate().
			WithEmbeds(util.WarningEmbed("The blacklist is empty.")).
			WithEphemeral(true))
	}
	links := make([]string, 0, len(cfg.BlacklistedOsuUsers))
	for _, osuID := range cfg.BlacklistedOsuUsers {
		links = append(links, fmt.Sprintf("[%d](https://osu.ppy.sh/users/%d)", osuID, osuID))
	}
	embed := discord.NewEmbedBuilder().
		SetColor(util.ColorInfo).
		SetTitle("Blacklisted osu! accounts").
		SetDescription(strings.Join(links, "\n")).
		Build()
	return event.CreateMessage(discord.NewMessageCreate().
		WithEmbeds(embed).
		WithEphemeral(true))
}
