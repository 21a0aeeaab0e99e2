package config

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func TestRoleKindValid(t *testing.T) {
	for _, kind := range RoleKinds {
		assert.True(t, kind.Valid(), "kind %s", kind)
	}
	assert.False(t, RoleKind("rank-8-digit").Valid())
	assert.False(t, RoleKind("").Valid())
}

func TestGuildRole(t *testing.T) {
	guild := Guild{
		RoleModerator: snowflake.ID(1),
		RoleRemove:    snowflake.ID(2),
		RoleAdd:       snowflake.ID(3),
		RoleDigit1:    snowflake.ID(11),
		RoleDigit2:    snowflake.ID(12),
		RoleDigit3:    snowflake.ID(13),
		RoleDigit4:    snowflake.ID(14),
		RoleDigit5:    snowflake.ID(15),
		RoleDigit6:    snowflake.ID(16),
		RoleDigit7:    snowflake.ID(17),
		RoleStandard:  snowflake.ID(21),
		RoleTaiko:     snowflake.ID(22),
		RoleCtb:       snowflake.ID(23),
		RoleMania:     snowflake.ID(24),
	}

	// Every kind maps to a distinct configured slot.
	seen := make(map[snowflake.ID]RoleKind)
	for _, kind := range RoleKinds {
		id := guild.Role(kind)
		assert.NotZero(t, id, "kind %s", kind)
		_, dup := seen[id]
		assert.False(t, dup, "kind %s", kind)
		seen[id] = kind
	}

	for bucket := 1; bucket <= 7; bucket++ {
		assert.Equal(t, snowflake.ID(10+bucket), guild.DigitRole(bucket))
	}
	assert.Zero(t, guild.DigitRole(0))
	assert.Zero(t, guild.DigitRole(8))
}
