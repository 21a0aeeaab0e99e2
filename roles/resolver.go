// Package roles maps a linked account's rank, ruleset and eligibility onto
// the role sets a guild member should gain and lose.
package roles

import (
	"errors"
	"slices"

	"osu-rank-bot/config"
	"osu-rank-bot/osu"

	"github.com/disgoorg/snowflake/v2"
)

var (
	ErrBlacklisted       = errors.New("osu account is blacklisted in this guild")
	ErrCountryNotAllowed = errors.New("osu account's country is not whitelisted in this guild")
)

// Bucket places a global rank into one of seven digit-count tiers.
// Boundaries sit exactly at 10, 100, 1000, 10000, 100000 and 1000000; a
// missing, zero or negative rank maps to bucket 0 (no tier role).
func Bucket(rank int) int {
	if rank <= 0 {
		return 0
	}
	bucket := 1
	for limit := 10; bucket < 7 && rank >= limit; limit *= 10 {
		bucket++
	}
	return bucket
}

// Delta is the outcome of a resolution: role IDs to add and to remove.
// The two sets are always disjoint.
type Delta struct {
	Add    []snowflake.ID
	Remove []snowflake.ID
}

// Eligible checks whether an account may hold roles in a guild at all.
// An empty country whitelist allows every country; only a configured,
// non-empty whitelist restricts.
func Eligible(guild config.Guild, osuID int64, countryCode string) error {
	if slices.Contains(guild.BlacklistedOsuUsers, osuID) {
		return ErrBlacklisted
	}
	if len(guild.WhitelistedCountries) != 0 && !slices.Contains(guild.WhitelistedCountries, countryCode) {
		return ErrCountryNotAllowed
	}
	return nil
}

// Resolve computes the role delta for a member with the given global rank
// and ruleset. Exactly one rank-bucket role (when the rank yields one) and
// exactly one ruleset role land in the add set; every other configured
// bucket and ruleset role lands in the remove set. The guild-wide
// always-add/always-remove roles are appended to their respective sets.
func Resolve(rank int, mode osu.Gamemode, guild config.Guild) Delta {
	var delta Delta

	bucket := Bucket(rank)
	for b := 1; b <= 7; b++ {
		roleID := guild.DigitRole(b)
		if roleID == 0 {
			continue
		}
		if b == bucket {
			delta.Add = append(delta.Add, roleID)
		} else {
			delta.Remove = append(delta.Remove, roleID)
		}
	}

	for _, m := range osu.Gamemodes {
		roleID := guild.Role(m.RoleKind())
		if roleID == 0 {
			continue
		}
		if m == mode {
			delta.Add = append(delta.Add, roleID)
		} else {
			delta.Remove = append(delta.Remove, roleID)
		}
	}

	if guild.RoleAdd != 0 {
		delta.Add = append(delta.Add, guild.RoleAdd)
	}
	if guild.RoleRemove != 0 {
		delta.Remove = append(delta.Remove, guild.RoleRemove)
	}
	return delta
}
