package managers

import "github.com/bawdo/wherekit/nodes"

// JoinContext is returned by SelectManager.Join and makes the caller supply
// the join condition via On before continuing to build the query.
type JoinContext struct {
	manager *SelectManager
	join    *nodes.Join
}

// On sets the join condition and returns the SelectManager for
// continued method chaining.
func (jc *JoinContext) On(condition nodes.Predicate) *SelectManager {
	jc.join.On = condition
	return jc.manager
}
