package db

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
)

const (
	selectChannelQuery = "SELECT channel_id, clean_after_message_id FROM channels WHERE channel_id = $1;"
	upsertChannelQuery = "INSERT INTO channels (channel_id, clean_after_message_id) VALUES ($1, $2) ON CONFLICT (channel_id) DO UPDATE SET clean_after_message_id = excluded.clean_after_message_id;"
)

// Channel carries the registration-channel cleanup marker: messages sent
// after the marked message may be purged by the clean command.
type Channel struct {
	ChannelID           snowflake.ID `db:"channel_id"`
	CleanAfterMessageID snowflake.ID `db:"clean_after_message_id"`
}

// GetChannel returns a channel's cleanup marker, ErrNotFound when none is
// set.
func (db *DB) GetChannel(ctx context.Context, channelID snowflake.ID) (Channel, error) {
	rows, _ := db.pool.Query(ctx, selectChannelQuery, channelID)
	channel, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Channel])
	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return channel, ErrNotFound
	}
	return channel, err
}

// UpsertChannel sets the cleanup marker for a channel.
func (db *DB) UpsertChannel(ctx context.Context, channel Channel) error {
	_, err := db.pool.Exec(ctx, upsertChannelQuery, channel.ChannelID, channel.CleanAfterMessageID)
	return err
}
