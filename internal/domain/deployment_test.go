package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		current DeploymentStatus
		next    DeploymentStatus
		want    bool
	}{
		{DeploymentCreated, DeploymentPushed, true},
		{DeploymentPushed, DeploymentDeploying, true},
		{DeploymentDeploying, DeploymentRunning, true},
		{DeploymentRunning, DeploymentStopped, true},
		{DeploymentStopped, DeploymentRunning, true},
		{DeploymentDeploying, DeploymentErrored, true},
		{DeploymentRunning, DeploymentErrored, true},

		// deleted is reachable from any state
		{DeploymentCreated, DeploymentDeleted, true},
		{DeploymentPushed, DeploymentDeleted, true},
		{DeploymentDeploying, DeploymentDeleted, true},
		{DeploymentRunning, DeploymentDeleted, true},
		{DeploymentStopped, DeploymentDeleted, true},
		{DeploymentErrored, DeploymentDeleted, true},

		// no skipping intermediate states
		{DeploymentCreated, DeploymentDeploying, false},
		{DeploymentCreated, DeploymentRunning, false},
		{DeploymentPushed, DeploymentRunning, false},
		{DeploymentStopped, DeploymentDeploying, false},

		// errored only from deploying/running
		{DeploymentCreated, DeploymentErrored, false},
		{DeploymentPushed, DeploymentErrored, false},
		{DeploymentStopped, DeploymentErrored, false},

		// deleted is terminal
		{DeploymentDeleted, DeploymentCreated, false},
		{DeploymentDeleted, DeploymentRunning, false},
		{DeploymentDeleted, DeploymentDeleted, false},

		// no self-transitions, no backwards moves
		{DeploymentRunning, DeploymentRunning, false},
		{DeploymentDeploying, DeploymentPushed, false},

		// unknown states
		{DeploymentStatus("bogus"), DeploymentRunning, false},
		{DeploymentRunning, DeploymentStatus("bogus"), false},
	}
	for _, tt := range tests {
		got := CanTransition(tt.current, tt.next)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.current, tt.next)
	}
}

func TestDeploymentStatusValid(t *testing.T) {
	assert.True(t, DeploymentRunning.Valid())
	assert.True(t, DeploymentDeleted.Valid())
	assert.False(t, DeploymentStatus("paused").Valid())
}
