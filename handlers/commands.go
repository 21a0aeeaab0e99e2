package handlers

import (
	"osu-rank-bot/config"
	"osu-rank-bot/osu"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/omit"
)

func gamemodeChoices() []discord.ApplicationCommandOptionChoiceInt {
	choices := make([]discord.ApplicationCommandOptionChoiceInt, len(osu.Gamemodes))
	for i, mode := range osu.Gamemodes {
		choices[i] = discord.ApplicationCommandOptionChoiceInt{
			Name:  mode.String(),
			Value: int(mode),
		}
	}
	return choices
}

func roleKindChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, len(config.RoleKinds))
	for i, kind := range config.RoleKinds {
		choices[i] = discord.ApplicationCommandOptionChoiceString{
			Name:  string(kind),
			Value: string(kind),
		}
	}
	return choices
}

// Commands holds the application command payload registered on startup.
var Commands = []discord.ApplicationCommandCreate{
	discord.SlashCommandCreate{
		Name:        "osu",
		Description: "Link your osu! account and manage your rank roles",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "register",
				Description: "Link your osu! account to receive rank roles",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "mode",
						Description: "Game mode to track (default: Standard)",
						Choices:     gamemodeChoices(),
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "remove",
				Description: "Unlink your osu! account",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "profile",
				Description: "Show an osu! profile",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionUser{
						Name:        "member",
						Description: "Member to look up (default: yourself)",
					},
					discord.ApplicationCommandOptionString{
						Name:        "name",
						Description: "osu! username or ID to look up instead of a member",
					},
					discord.ApplicationCommandOptionString{
						Name:        "mode",
						Description: "Game mode for the name lookup (e.g. standard, taiko, ctb, mania)",
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "mode",
				Description: "Change the game mode your roles are based on",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "mode",
						Description: "Game mode to track",
						Required:    true,
						Choices:     gamemodeChoices(),
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "update",
				Description: "Refresh your rank roles right away",
			},
		},
	},
	discord.SlashCommandCreate{
		Name:                     "settings",
		Description:              "Configure the bot for this guild",
		DefaultMemberPermissions: omit.NewPtr(discord.PermissionManageGuild),
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "view",
				Description: "Show the current guild configuration",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "prefix",
				Description: "Set the command prefix",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "prefix",
						Description: "New prefix",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "channel",
				Description: "Set the registration channel",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionChannel{
						Name:        "channel",
						Description: "Channel where registrations are allowed",
						Required:    true,
						ChannelTypes: []discord.ChannelType{
							discord.ChannelTypeGuildText,
						},
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "role",
				Description: "Assign a guild role to a role slot",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "kind",
						Description: "Role slot to configure",
						Required:    true,
						Choices:     roleKindChoices(),
					},
					discord.ApplicationCommandOptionRole{
						Name:        "role",
						Description: "Guild role to assign",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "marker",
				Description: "Set the clean marker for this channel",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "message_id",
						Description: "Messages after this one are removed by /clean",
						Required:    true,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommandGroup{
				Name:        "whitelist",
				Description: "Manage the country whitelist",
				Options: []discord.ApplicationCommandOptionSubCommand{
					{
						Name:        "add",
						Description: "Allow a country",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionString{
								Name:        "country",
								Description: "Two-letter country code (e.g. PL)",
								Required:    true,
							},
						},
					},
					{
						Name:        "remove",
						Description: "Disallow a country",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionString{
								Name:        "country",
								Description: "Two-letter country code (e.g. PL)",
								Required:    true,
							},
						},
					},
					{
						Name:        "show",
						Description: "List whitelisted countries",
					},
				},
			},
			discord.ApplicationCommandOptionSubCommandGroup{
				Name:        "blacklist",
				Description: "Manage the osu! user blacklist",
				Options: []discord.ApplicationCommandOptionSubCommand{
					{
						Name:        "add",
						Description: "Blacklist an osu! user",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionString{
								Name:        "user",
								Description: "osu! username or ID",
								Required:    true,
							},
						},
					},
					{
						Name:        "remove",
						Description: "Remove an osu! user from the blacklist",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionInt{
								Name:        "id",
								Description: "osu! user ID",
								Required:    true,
							},
						},
					},
					{
						Name:        "show",
						Description: "List blacklisted osu! users",
					},
				},
			},
		},
	},
	discord.SlashCommandCreate{
		Name:                     "clean",
		Description:              "Remove messages posted after the channel's clean marker",
		DefaultMemberPermissions: omit.NewPtr(discord.PermissionManageGuild),
	},
	discord.SlashCommandCreate{
		Name:                     "sync",
		Description:              "Control the scheduled rank synchronization",
		DefaultMemberPermissions: omit.NewPtr(discord.PermissionAdministrator),
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "start",
				Description: "Start the scheduled synchronization loop",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "stop",
				Description: "Stop the scheduled synchronization loop",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "run",
				Description: "Run a synchronization pass now",
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "botinfo",
		Description: "Show bot status and statistics",
	},
}
