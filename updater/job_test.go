package updater

import (
	"context"
	"errors"
	"testing"
	"time"

	"osu-rank-bot/config"
	"osu-rank-bot/db"
	"osu-rank-bot/osu"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls int
	users map[string]*osu.User
}

func (f *fakeFetcher) FetchUser(_ context.Context, user string, _ osu.Gamemode) (*osu.User, error) {
	f.calls++
	u, ok := f.users[user]
	if !ok {
		return nil, osu.ErrUserNotFound
	}
	return u, nil
}

type fakeClient struct {
	members map[snowflake.ID]bool
	added   []snowflake.ID
	removed []snowflake.ID
}

func (c *fakeClient) GetMember(_ snowflake.ID, userID snowflake.ID, _ ...rest.RequestOpt) (*discord.Member, error) {
	if !c.members[userID] {
		return nil, errors.New("unknown member")
	}
	return &discord.Member{User: discord.User{ID: userID}}, nil
}

func (c *fakeClient) AddMemberRole(_ snowflake.ID, _ snowflake.ID, roleID snowflake.ID, _ ...rest.RequestOpt) error {
	c.added = append(c.added, roleID)
	return nil
}

func (c *fakeClient) RemoveMemberRole(_ snowflake.ID, _ snowflake.ID, roleID snowflake.ID, _ ...rest.RequestOpt) error {
	c.removed = append(c.removed, roleID)
	return nil
}

func TestNextRun(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{
			now:  time.Date(2024, 3, 1, 5, 30, 0, 0, time.UTC),
			want: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			now:  time.Date(2024, 3, 1, 18, 0, 1, 0, time.UTC),
			want: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			now:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			now:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nextRun(tt.now), "now %s", tt.now)
	}
}

func TestFetchRanksMemoizes(t *testing.T) {
	fetcher := &fakeFetcher{users: map[string]*osu.User{
		"100": {ID: 100},
	}}
	job := New(nil, fetcher, &fakeClient{}, time.Nanosecond)

	accounts := []db.LinkedAccount{
		{DiscordID: snowflake.ID(1), OsuID: 100},
		{DiscordID: snowflake.ID(2), OsuID: 100},
		{DiscordID: snowflake.ID(3), OsuID: 200},
		{DiscordID: snowflake.ID(4), OsuID: 200},
	}
	memo := job.fetchRanks(context.Background(), accounts)

	// One request per distinct account, including the failed one.
	assert.Equal(t, 2, fetcher.calls)
	require.Contains(t, memo, int64(100))
	require.Contains(t, memo, int64(200))
	assert.NotNil(t, memo[100])
	assert.Nil(t, memo[200])
}

func TestUpdateMember(t *testing.T) {
	rank := 50
	user := &osu.User{ID: 100}
	user.Statistics.GlobalRank = &rank

	guild := config.Guild{
		GuildID:      snowflake.ID(1),
		RoleDigit1:   snowflake.ID(101),
		RoleDigit2:   snowflake.ID(102),
		RoleStandard: snowflake.ID(201),
	}
	account := db.LinkedAccount{DiscordID: snowflake.ID(7), OsuID: 100, Gamemode: osu.GamemodeStandard}

	t.Run("updates a present member", func(t *testing.T) {
		client := &fakeClient{members: map[snowflake.ID]bool{snowflake.ID(7): true}}
		job := New(nil, &fakeFetcher{}, client, time.Nanosecond)

		assert.True(t, job.updateMember(guild, account, user))
		assert.ElementsMatch(t, []snowflake.ID{102, 201}, client.added)
		assert.ElementsMatch(t, []snowflake.ID{101}, client.removed)
	})

	t.Run("skips a failed fetch", func(t *testing.T) {
		client := &fakeClient{members: map[snowflake.ID]bool{snowflake.ID(7): true}}
		job := New(nil, &fakeFetcher{}, client, time.Nanosecond)

		assert.False(t, job.updateMember(guild, account, nil))
		assert.Empty(t, client.added)
	})

	t.Run("skips a non-member", func(t *testing.T) {
		client := &fakeClient{}
		job := New(nil, &fakeFetcher{}, client, time.Nanosecond)

		assert.False(t, job.updateMember(guild, account, user))
		assert.Empty(t, client.added)
	})

	t.Run("skips a blacklisted account", func(t *testing.T) {
		client := &fakeClient{members: map[snowflake.ID]bool{snowflake.ID(7): true}}
		job := New(nil, &fakeFetcher{}, client, time.Nanosecond)

		banned := guild
		banned.BlacklistedOsuUsers = []int64{100}
		assert.False(t, job.updateMember(banned, account, user))
		assert.Empty(t, client.added)
	})
}

func TestStartStop(t *testing.T) {
	job := New(nil, &fakeFetcher{}, &fakeClient{}, time.Nanosecond)
	require.False(t, job.Running())

	job.Start(context.Background())
	require.True(t, job.Running())

	// A second start is a no-op.
	job.Start(context.Background())
	require.True(t, job.Running())

	job.Stop()
	require.False(t, job.Running())

	// A second stop is a no-op.
	job.Stop()
	require.False(t, job.Running())
}
