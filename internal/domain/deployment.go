package domain

// DeploymentStatus is the lifecycle state of a deployment.
type DeploymentStatus string

// Deployment lifecycle states.
const (
	DeploymentCreated   DeploymentStatus = "created"
	DeploymentPushed    DeploymentStatus = "pushed"
	DeploymentDeploying DeploymentStatus = "deploying"
	DeploymentRunning   DeploymentStatus = "running"
	DeploymentStopped   DeploymentStatus = "stopped"
	DeploymentErrored   DeploymentStatus = "errored"
	DeploymentDeleted   DeploymentStatus = "deleted"
)

// Valid reports whether s is a known deployment status.
func (s DeploymentStatus) Valid() bool {
	_, ok := deploymentTransitions[s]
	return ok
}

// deploymentTransitions is the lifecycle adjacency:
// created → pushed → deploying → running ⇄ stopped, errored reachable
// from deploying/running, deleted reachable from any state and terminal.
var deploymentTransitions = map[DeploymentStatus][]DeploymentStatus{
	DeploymentCreated:   {DeploymentPushed},
	DeploymentPushed:    {DeploymentDeploying},
	DeploymentDeploying: {DeploymentRunning, DeploymentErrored},
	DeploymentRunning:   {DeploymentStopped, DeploymentErrored},
	DeploymentStopped:   {DeploymentRunning},
	DeploymentErrored:   {},
	DeploymentDeleted:   {},
}

// CanTransition certifies that moving a deployment from current to next
// is legal. The orchestration layer owns executing transitions; this
// predicate only decides legality. No transition skips intermediate
// states except directly to deleted or errored.
func CanTransition(current, next DeploymentStatus) bool {
	adjacent, ok := deploymentTransitions[current]
	if !ok || !next.Valid() {
		return false
	}
	if current == DeploymentDeleted {
		return false // terminal
	}
	if next == DeploymentDeleted {
		return true
	}
	for _, s := range adjacent {
		if s == next {
			return true
		}
	}
	return false
}
