package internal

import "github.com/disgoorg/snowflake/v2"

type Config struct {
	OwnerID       snowflake.ID
	DefaultPrefix string
}
