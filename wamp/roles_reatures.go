package wamp

const (
	// Roles a peer may announce in HELLO.Details.roles.
	RoleCallee     = "callee"
	RoleCaller     = "caller"
	RolePublisher  = "publisher"
	RoleSubscriber = "subscriber"

	// RPC features this client implements.
	FeatureCallCanceling   = "call_canceling"
	FeatureProgCallResults = "progressive_call_results"
)

// HelloRoles builds the Details.roles value sent in HELLO, announcing
// exactly the features the caller and callee paths implement.
func HelloRoles() Dict {
	callerCallee := Dict{
		"features": Dict{
			FeatureProgCallResults: true,
			FeatureCallCanceling:   true,
		},
	}
	return Dict{
		RoleCaller:     callerCallee,
		RoleCallee:     callerCallee,
		RoleSubscriber: Dict{},
		RolePublisher:  Dict{},
	}
}
