package config

import (
	"slices"

	"github.com/disgoorg/snowflake/v2"
)

// Guild is a guild's stored configuration. A role column of 0 means the role
// is not configured for the guild.
type Guild struct {
	GuildID               snowflake.ID `db:"guild_id"`
	Prefix                string       `db:"prefix"`
	RegistrationChannelID snowflake.ID `db:"registration_channel_id"`
	WhitelistedCountries  []string     `db:"whitelisted_countries"`
	BlacklistedOsuUsers   []int64      `db:"blacklisted_osu_users"`
	RoleModerator         snowflake.ID `db:"role_moderator"`
	RoleRemove            snowflake.ID `db:"role_remove"`
	RoleAdd               snowflake.ID `db:"role_add"`
	RoleDigit1            snowflake.ID `db:"role_digit_1"`
	RoleDigit2            snowflake.ID `db:"role_digit_2"`
	RoleDigit3            snowflake.ID `db:"role_digit_3"`
	RoleDigit4            snowflake.ID `db:"role_digit_4"`
	RoleDigit5            snowflake.ID `db:"role_digit_5"`
	RoleDigit6            snowflake.ID `db:"role_digit_6"`
	RoleDigit7            snowflake.ID `db:"role_digit_7"`
	RoleStandard          snowflake.ID `db:"role_standard"`
	RoleTaiko             snowflake.ID `db:"role_taiko"`
	RoleCtb               snowflake.ID `db:"role_ctb"`
	RoleMania             snowflake.ID `db:"role_mania"`
}

// RoleKind names a configurable role slot. The set is fixed; every kind maps
// to exactly one Guild field and one database column.
type RoleKind string

const (
	RoleKindModerator RoleKind = "moderator"
	RoleKindRemove    RoleKind = "remove"
	RoleKindAdd       RoleKind = "add"
	RoleKindDigit1    RoleKind = "rank-1-digit"
	RoleKindDigit2    RoleKind = "rank-2-digit"
	RoleKindDigit3    RoleKind = "rank-3-digit"
	RoleKindDigit4    RoleKind = "rank-4-digit"
	RoleKindDigit5    RoleKind = "rank-5-digit"
	RoleKindDigit6    RoleKind = "rank-6-digit"
	RoleKindDigit7    RoleKind = "rank-7-digit"
	RoleKindStandard  RoleKind = "standard"
	RoleKindTaiko     RoleKind = "taiko"
	RoleKindCtb       RoleKind = "ctb"
	RoleKindMania     RoleKind = "mania"
)

// RoleKinds lists every configurable role slot in display order.
var RoleKinds = []RoleKind{
	RoleKindModerator,
	RoleKindRemove,
	RoleKindAdd,
	RoleKindDigit1,
	RoleKindDigit2,
	RoleKindDigit3,
	RoleKindDigit4,
	RoleKindDigit5,
	RoleKindDigit6,
	RoleKindDigit7,
	RoleKindStandard,
	RoleKindTaiko,
	RoleKindCtb,
	RoleKindMania,
}

// Valid reports whether k is a known role slot.
func (k RoleKind) Valid() bool {
	return slices.Contains(RoleKinds, k)
}

// Role returns the configured role ID for a kind, 0 when unset.
func (g Guild) Role(kind RoleKind) snowflake.ID {
	switch kind {
	case RoleKindModerator:
		return g.RoleModerator
	case RoleKindRemove:
		return g.RoleRemove
	case RoleKindAdd:
		return g.RoleAdd
	case RoleKindDigit1:
		return g.RoleDigit1
	case RoleKindDigit2:
		return g.RoleDigit2
	case RoleKindDigit3:
		return g.RoleDigit3
	case RoleKindDigit4:
		return g.RoleDigit4
	case RoleKindDigit5:
		return g.RoleDigit5
	case RoleKindDigit6:
		return g.RoleDigit6
	case RoleKindDigit7:
		return g.RoleDigit7
	case RoleKindStandard:
		return g.RoleStandard
	case RoleKindTaiko:
		return g.RoleTaiko
	case RoleKindCtb:
		return g.RoleCtb
	case RoleKindMania:
		return g.RoleMania
	}
	return 0
}

// DigitRole returns the rank-bucket role for a bucket in [1, 7], 0 otherwise.
func (g Guild) DigitRole(bucket int) snowflake.ID {
	switch bucket {
	case 1:
		return g.RoleDigit1
	case 2:
		return g.RoleDigit2
	case 3:
		return g.RoleDigit3
	case 4:
		return g.RoleDigit4
	case 5:
		return g.RoleDigit5
	case 6:
		return g.RoleDigit6
	case 7:
		return g.RoleDigit7
	}
	return 0
}
