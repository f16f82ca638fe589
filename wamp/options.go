package wamp

// Consts for message options and option values used by the session core.
const (
	// Message option keywords.
	OptAcknowledge     = "acknowledge"
	OptDiscloseMe      = "disclose_me"
	OptError           = "error"
	OptMessage         = "message"
	OptMode            = "mode"
	OptProgress        = "progress"
	OptReason          = "reason"
	OptReceiveProgress = "receive_progress"
	OptTimeout         = "timeout"

	// Values for call cancel mode.
	CancelModeKill       = "kill"
	CancelModeKillNoWait = "killnowait"
	CancelModeSkip       = "skip"
)
