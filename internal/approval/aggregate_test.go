package approval_test

import (
	"testing"

	"go-leaveflow/internal/approval"

	"github.com/stretchr/testify/assert"
)

func step(seq int, status approval.StepStatus) approval.Step {
	return approval.Step{SequenceOrder: seq, Status: status}
}

func TestActionableWave(t *testing.T) {
	t.Run("minimum pending sequence wins", func(t *testing.T) {
		wave, ok := approval.ActionableWave([]approval.Step{
			step(2, approval.StepPending),
			step(1, approval.StepPending),
			step(1, approval.StepApproved),
		})
		assert.True(t, ok)
		assert.Equal(t, 1, wave)
	})

	t.Run("terminal steps are skipped", func(t *testing.T) {
		wave, ok := approval.ActionableWave([]approval.Step{
			step(1, approval.StepApproved),
			step(1, approval.StepApproved),
			step(2, approval.StepPending),
		})
		assert.True(t, ok)
		assert.Equal(t, 2, wave)
	})

	t.Run("no pending steps", func(t *testing.T) {
		_, ok := approval.ActionableWave([]approval.Step{
			step(1, approval.StepApproved),
			step(2, approval.StepRejected),
		})
		assert.False(t, ok)
	})

	t.Run("empty list", func(t *testing.T) {
		_, ok := approval.ActionableWave(nil)
		assert.False(t, ok)
	})
}

func TestAggregate(t *testing.T) {
	t.Run("all approved", func(t *testing.T) {
		out := approval.Aggregate([]approval.Step{
			step(1, approval.StepApproved),
			step(2, approval.StepApproved),
		})
		assert.Equal(t, approval.OutcomeApproved, out)
	})

	t.Run("any rejection decides the request", func(t *testing.T) {
		out := approval.Aggregate([]approval.Step{
			step(1, approval.StepApproved),
			step(1, approval.StepRejected),
			step(2, approval.StepPending),
		})
		assert.Equal(t, approval.OutcomeRejected, out)
	})

	t.Run("pending later wave keeps the request open", func(t *testing.T) {
		out := approval.Aggregate([]approval.Step{
			step(1, approval.StepApproved),
			step(1, approval.StepApproved),
			step(2, approval.StepPending),
		})
		assert.Equal(t, approval.OutcomePending, out)
	})
}

func TestStepStatusMapping(t *testing.T) {
	// The storage encoding is part of the contract: 0/1/2.
	assert.Equal(t, 0, int(approval.StepPending))
	assert.Equal(t, 1, int(approval.StepApproved))
	assert.Equal(t, 2, int(approval.StepRejected))

	for raw, want := range map[int]string{0: "PENDING", 1: "APPROVED", 2: "REJECTED"} {
		status, err := approval.ParseStepStatus(raw)
		assert.NoError(t, err)
		assert.Equal(t, want, status.String())
	}

	_, err := approval.ParseStepStatus(3)
	assert.Error(t, err)

	assert.False(t, approval.StepPending.Terminal())
	assert.True(t, approval.StepApproved.Terminal())
	assert.True(t, approval.StepRejected.Terminal())
}
