package provision

// State is a step of the per-repository provisioning workflow
type State int

const (
	Disabled State = iota
	PendingOverwriteCheck
	Skipped
	Cleared
	Cloned
	SubmodulesResolved
	NoSubmodules
	ScriptRun
	NoScript
	Done
	Failed
)

var stateNames = map[State]string{
	Disabled:              "disabled",
	PendingOverwriteCheck: "pending-overwrite-check",
	Skipped:               "skipped",
	Cleared:               "cleared",
	Cloned:                "cloned",
	SubmodulesResolved:    "submodules-resolved",
	NoSubmodules:          "no-submodules",
	ScriptRun:             "script-run",
	NoScript:              "no-script",
	Done:                  "done",
	Failed:                "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// RepoStatus is the working copy condition reported by Status
type RepoStatus int

const (
	Clean RepoStatus = iota
	Dirty
)

func (s RepoStatus) String() string {
	if s == Dirty {
		return "Dirty"
	}
	return "Clean"
}
