package handlers

import (
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	messages    []discord.Message
	bulkDeletes [][]snowflake.ID
	deletes     []snowflake.ID
}

func (p *fakePurger) GetMessages(_ snowflake.ID, _ snowflake.ID, _ snowflake.ID, after snowflake.ID, limit int, _ ...rest.RequestOpt) ([]discord.Message, error) {
	var batch []discord.Message
	for _, message := range p.messages {
		if message.ID > after && len(batch) < limit {
			batch = append(batch, message)
		}
	}
	return batch, nil
}

func (p *fakePurger) BulkDeleteMessages(_ snowflake.ID, messageIDs []snowflake.ID, _ ...rest.RequestOpt) error {
	p.bulkDeletes = append(p.bulkDeletes, messageIDs)
	p.remove(messageIDs)
	return nil
}

func (p *fakePurger) DeleteMessage(_ snowflake.ID, messageID snowflake.ID, _ ...rest.RequestOpt) error {
	p.deletes = append(p.deletes, messageID)
	p.remove([]snowflake.ID{messageID})
	return nil
}

func (p *fakePurger) remove(messageIDs []snowflake.ID) {
	var kept []discord.Message
	for _, message := range p.messages {
		found := false
		for _, id := range messageIDs {
			if message.ID == id {
				found = true
				break
			}
		}
		if !found {
			kept = append(kept, message)
		}
	}
	p.messages = kept
}

func messageAt(t time.Time) discord.Message {
	return discord.Message{ID: snowflake.New(t)}
}

func TestPurgeAfter(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	channelID := snowflake.ID(1)

	t.Run("single message uses single deletion", func(t *testing.T) {
		marker := snowflake.New(now.Add(-2 * time.Hour))
		purger := &fakePurger{messages: []discord.Message{messageAt(now.Add(-time.Hour))}}

		deleted, err := purgeAfter(purger, channelID, marker, now)
		require.NoError(t, err)
		assert.Equal(t, 1, deleted)
		assert.Len(t, purger.deletes, 1)
		assert.Empty(t, purger.bulkDeletes)
	})

	t.Run("bulk deletes recent, skips old", func(t *testing.T) {
		marker := snowflake.New(now.Add(-30 * 24 * time.Hour))
		old1 := messageAt(now.Add(-20 * 24 * time.Hour))
		old2 := messageAt(now.Add(-15 * 24 * time.Hour))
		recent1 := messageAt(now.Add(-2 * time.Hour))
		recent2 := messageAt(now.Add(-time.Hour))
		recent3 := messageAt(now.Add(-time.Minute))
		purger := &fakePurger{messages: []discord.Message{old1, old2, recent1, recent2, recent3}}

		deleted, err := purgeAfter(purger, channelID, marker, now)
		require.NoError(t, err)
		assert.Equal(t, 3, deleted)
		require.Len(t, purger.bulkDeletes, 1)
		assert.ElementsMatch(t, []snowflake.ID{recent1.ID, recent2.ID, recent3.ID}, purger.bulkDeletes[0])
		assert.Empty(t, purger.deletes)
		// The old messages stay in place.
		assert.Len(t, purger.messages, 2)
	})

	t.Run("only old messages terminates without calls", func(t *testing.T) {
		marker := snowflake.New(now.Add(-30 * 24 * time.Hour))
		purger := &fakePurger{messages: []discord.Message{
			messageAt(now.Add(-20 * 24 * time.Hour)),
			messageAt(now.Add(-16 * 24 * time.Hour)),
		}}

		deleted, err := purgeAfter(purger, channelID, marker, now)
		require.NoError(t, err)
		assert.Zero(t, deleted)
		assert.Empty(t, purger.bulkDeletes)
		assert.Empty(t, purger.deletes)
	})

	t.Run("no messages after marker", func(t *testing.T) {
		marker := snowflake.New(now)
		purger := &fakePurger{}

		deleted, err := purgeAfter(purger, channelID, marker, now)
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})
}
