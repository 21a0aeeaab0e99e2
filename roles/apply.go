package roles

import (
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// Mutator is the part of the Discord REST API needed to apply a Delta.
// Satisfied by rest.Rest.
type Mutator interface {
	AddMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	RemoveMemberRole(guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, opts ...rest.RequestOpt) error
}

// ApplyDelta applies a resolved role delta to a guild member, removals
// first. Role adds and removes are idempotent on Discord's side, so applying
// the same delta twice leaves the member unchanged.
func ApplyDelta(client Mutator, guildID snowflake.ID, userID snowflake.ID, delta Delta, reason string) error {
	opts := []rest.RequestOpt{rest.WithReason(reason)}
	for _, roleID := range delta.Remove {
		if err := client.RemoveMemberRole(guildID, userID, roleID, opts...); err != nil {
			return err
		}
	}
	for _, roleID := range delta.Add {
		if err := client.AddMemberRole(guildID, userID, roleID, opts...); err != nil {
			return err
		}
	}
	return nil
}
