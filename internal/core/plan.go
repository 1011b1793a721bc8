package core

// PlanKind tells the delivery layer what shape a Plan has.
type PlanKind int

const (
	// PlanConnected announces a new user; Nickname is the assigned nickname.
	PlanConnected PlanKind = iota
	// PlanDisconnected announces a departed user; Nickname is their last nickname.
	PlanDisconnected
	// PlanOkay is a successful command delivered to Recipients.
	PlanOkay
	// PlanRoster is a successful join or invite; Owner is set so the full
	// channel state can be rendered to the new member.
	PlanRoster
	// PlanError is a rejected command; only the sender should be told.
	PlanError
)

var planKindNames = [...]string{
	PlanConnected:    "connected",
	PlanDisconnected: "disconnected",
	PlanOkay:         "okay",
	PlanRoster:       "roster",
	PlanError:        "error",
}

func (k PlanKind) String() string {
	if k < 0 || int(k) >= len(planKindNames) {
		return "unknown"
	}
	return planKindNames[k]
}

// Plan is the outcome of one registry operation: what happened and who must
// hear about it. A nil *Plan means nothing should be sent.
type Plan struct {
	Kind    PlanKind
	Command *Command
	// Recipients is sorted for stable output but has set semantics.
	Recipients []string
	Owner      string
	// Nickname is the subject of connect/disconnect plans, and the previous
	// nickname of a successful rename.
	Nickname string
	Err      *CoreError
}

func okay(cmd *Command, recipients []string) *Plan {
	return &Plan{Kind: PlanOkay, Command: cmd, Recipients: recipients}
}

func roster(cmd *Command, recipients []string, owner string) *Plan {
	return &Plan{Kind: PlanRoster, Command: cmd, Recipients: recipients, Owner: owner}
}

func failure(cmd *Command, code string) *Plan {
	return &Plan{Kind: PlanError, Command: cmd, Err: coreError(code)}
}

// OK reports whether the plan describes a successful transition.
func (p *Plan) OK() bool {
	return p != nil && p.Kind != PlanError
}
