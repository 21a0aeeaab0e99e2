package roles

import (
	"errors"
	"testing"

	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMutator struct {
	ops    []string
	addErr error
}

func (m *recordingMutator) AddMemberRole(_ snowflake.ID, _ snowflake.ID, roleID snowflake.ID, _ ...rest.RequestOpt) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.ops = append(m.ops, "add:"+roleID.String())
	return nil
}

func (m *recordingMutator) RemoveMemberRole(_ snowflake.ID, _ snowflake.ID, roleID snowflake.ID, _ ...rest.RequestOpt) error {
	m.ops = append(m.ops, "remove:"+roleID.String())
	return nil
}

func TestApplyDeltaRemovalsFirst(t *testing.T) {
	mutator := &recordingMutator{}
	delta := Delta{
		Add:    []snowflake.ID{1, 2},
		Remove: []snowflake.ID{3},
	}

	require.NoError(t, ApplyDelta(mutator, snowflake.ID(10), snowflake.ID(20), delta, "test"))
	assert.Equal(t, []string{"remove:3", "add:1", "add:2"}, mutator.ops)
}

func TestApplyDeltaStopsOnError(t *testing.T) {
	wantErr := errors.New("missing permissions")
	mutator := &recordingMutator{addErr: wantErr}
	delta := Delta{
		Add:    []snowflake.ID{1},
		Remove: []snowflake.ID{2},
	}

	require.ErrorIs(t, ApplyDelta(mutator, snowflake.ID(10), snowflake.ID(20), delta, "test"), wantErr)
	assert.Equal(t, []string{"remove:2"}, mutator.ops)
}
