package internal

import (
	"context"
	"strconv"
	"time"

	"osu-rank-bot/config"
	"osu-rank-bot/db"
	"osu-rank-bot/osu"
	"osu-rank-bot/roles"
	"osu-rank-bot/updater"
)

type Bot struct {
	DB        *db.DB
	Osu       *osu.Client
	Updater   *updater.Job
	StartedAt time.Time
}

// RefreshMemberRoles fetches a linked account's current statistics and
// applies the resulting role delta to the member. The fetched user is
// returned so callers can show it.
func (b *Bot) RefreshMemberRoles(ctx context.Context, client roles.Mutator, guild config.Guild, account db.LinkedAccount, reason string) (*osu.User, error) {
	user, err := b.Osu.FetchUser(ctx, strconv.FormatInt(account.OsuID, 10), account.Gamemode)
	if err != nil {
		return nil, err
	}
	if err := roles.Eligible(guild, user.ID, user.Country.Code); err != nil {
		return nil, err
	}
	delta := roles.Resolve(user.GlobalRank(), account.Gamemode, guild)
	if err := roles.ApplyDelta(client, guild.GuildID, account.DiscordID, delta, reason); err != nil {
		return nil, err
	}
	return user, nil
}
