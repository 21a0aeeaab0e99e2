// Package updater runs the periodic rank synchronization: every 12 hours,
// anchored to 00:00/12:00 UTC, it refreshes the roles of every linked member
// in every known guild.
package updater

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"osu-rank-bot/config"
	"osu-rank-bot/db"
	"osu-rank-bot/osu"
	"osu-rank-bot/roles"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const updateReason = "Scheduled osu! rank update"

// Client is the part of the Discord REST API the job needs. Satisfied by
// rest.Rest.
type Client interface {
	roles.Mutator
	GetMember(guildID snowflake.ID, userID snowflake.ID, opts ...rest.RequestOpt) (*discord.Member, error)
}

// Fetcher is the rank provider lookup the job needs. Satisfied by
// *osu.Client.
type Fetcher interface {
	FetchUser(ctx context.Context, user string, mode osu.Gamemode) (*osu.User, error)
}

type Job struct {
	db      *db.DB
	osu     Fetcher
	client  Client
	limiter *rate.Limiter

	mu       sync.Mutex
	stopChan chan struct{}
}

// New creates the job. memberDelay is the pause between per-member updates,
// sized to respect the stricter of the Discord and osu! rate limits.
func New(database *db.DB, fetcher Fetcher, client Client, memberDelay time.Duration) *Job {
	return &Job{
		db:      database,
		osu:     fetcher,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(memberDelay), 1),
	}
}

// Start launches the scheduling loop. It is a no-op when the loop is already
// running.
func (j *Job) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stopChan != nil {
		return
	}
	stopChan := make(chan struct{})
	j.stopChan = stopChan

	go j.loop(ctx, stopChan)
	slog.Info("updater: scheduling loop started", slog.Time("next.run", nextRun(time.Now())))
}

// Stop halts the scheduling loop. A run already in flight finishes; only the
// next cycle is affected.
func (j *Job) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stopChan == nil {
		return
	}
	close(j.stopChan)
	j.stopChan = nil
	slog.Info("updater: scheduling loop stopped")
}

// Running reports whether the scheduling loop is active.
func (j *Job) Running() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stopChan != nil
}

func (j *Job) loop(ctx context.Context, stopChan chan struct{}) {
	timer := time.NewTimer(time.Until(nextRun(time.Now())))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopChan:
			return
		case <-timer.C:
			j.Run(ctx)
			timer.Reset(time.Until(nextRun(time.Now())))
		}
	}
}

// nextRun returns the nearest upcoming 00:00 or 12:00 UTC.
func nextRun(now time.Time) time.Time {
	now = now.UTC()
	anchor := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for !anchor.After(now) {
		anchor = anchor.Add(12 * time.Hour)
	}
	return anchor
}

// Run performs a single synchronization pass over every guild. Ranks are
// fetched once per linked osu! account up front, so a member shared by
// several guilds costs a single API request; the memo is never refreshed
// mid-pass and is dropped when the pass ends.
func (j *Job) Run(ctx context.Context) {
	started := time.Now()
	guilds, err := j.db.Guilds(ctx)
	if err != nil {
		slog.Error("updater: error while listing guilds", tint.Err(err))
		return
	}
	accounts, err := j.db.LinkedAccounts(ctx)
	if err != nil {
		slog.Error("updater: error while listing linked accounts", tint.Err(err))
		return
	}
	slog.Info("updater: starting rank update run", slog.Int("guild.count", len(guilds)), slog.Int("account.count", len(accounts)))

	memo := j.fetchRanks(ctx, accounts)

	var updated, skipped atomic.Int64
	eg, ctx := errgroup.WithContext(ctx)
	for _, guild := range guilds {
		eg.Go(func() error {
			for _, account := range accounts {
				if err := j.limiter.Wait(ctx); err != nil {
					return err
				}
				if j.updateMember(guild, account, memo[account.OsuID]) {
					updated.Add(1)
				} else {
					skipped.Add(1)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		slog.Warn("updater: rank update run aborted", tint.Err(err))
		return
	}
	slog.Info("updater: rank update run finished",
		slog.Int64("member.updated", updated.Load()),
		slog.Int64("member.skipped", skipped.Load()),
		slog.Duration("run.duration", time.Since(started)))
}

// fetchRanks resolves every distinct linked account once. A failed fetch is
// memoized as nil so nothing retries it during the pass.
func (j *Job) fetchRanks(ctx context.Context, accounts []db.LinkedAccount) map[int64]*osu.User {
	memo := make(map[int64]*osu.User, len(accounts))
	for _, account := range accounts {
		if _, fetched := memo[account.OsuID]; fetched {
			continue
		}
		if err := j.limiter.Wait(ctx); err != nil {
			return memo
		}
		user, err := j.osu.FetchUser(ctx, strconv.FormatInt(account.OsuID, 10), account.Gamemode)
		if err != nil {
			// A single account's failure never aborts the run.
			slog.Warn("updater: rank fetch failed",
				slog.Any("user.id", account.DiscordID),
				slog.Int64("osu.id", account.OsuID),
				tint.Err(err))
			memo[account.OsuID] = nil
			continue
		}
		memo[account.OsuID] = user
	}
	return memo
}

func (j *Job) updateMember(guild config.Guild, account db.LinkedAccount, user *osu.User) bool {
	if user == nil {
		return false
	}
	member, err := j.client.GetMember(guild.GuildID, account.DiscordID)
	if err != nil {
		// Not a member of this guild, nothing to update here.
		return false
	}

	if err := roles.Eligible(guild, user.ID, user.Country.Code); err != nil {
		return false
	}
	delta := roles.Resolve(user.GlobalRank(), account.Gamemode, guild)
	if err := roles.ApplyDelta(j.client, guild.GuildID, member.User.ID, delta, updateReason); err != nil {
		slog.Error("updater: error while applying a role delta",
			slog.Any("guild.id", guild.GuildID),
			slog.Any("user.id", account.DiscordID),
			tint.Err(err))
		return false
	}
	return true
}
