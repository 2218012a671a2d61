package settings

import "time"

// CmdState is the observable handshake state of a command setting. The values
// match the command status codes of the remote parameter protocol.
type CmdState uint8

const (
	CmdNone        CmdState = 0
	CmdChange      CmdState = 1
	CmdShowWarning CmdState = 2
	CmdAskConfirm  CmdState = 3
	CmdCommit      CmdState = 4
	CmdDiscard     CmdState = 5
	CmdPoll        CmdState = 6
)

func (c CmdState) String() string {
	switch c {
	case CmdNone:
		return "none"
	case CmdChange:
		return "change"
	case CmdShowWarning:
		return "show-warning"
	case CmdAskConfirm:
		return "ask-confirm"
	case CmdCommit:
		return "commit"
	case CmdDiscard:
		return "discard"
	case CmdPoll:
		return "poll"
	default:
		return "unknown"
	}
}

func (c CmdState) pending() bool {
	return c == CmdAskConfirm || c == CmdShowWarning
}

// CmdFlags declares what a command requires before it executes.
type CmdFlags uint8

const (
	// CmdConfirm requires an explicit commit after a confirmation prompt.
	CmdConfirm CmdFlags = 1 << iota
	// CmdWarning requires a commit after a warning is shown.
	CmdWarning
)

// CmdStateOf returns the handshake state of a command setting.
func CmdStateOf(s *Setting) CmdState {
	return s.command("CmdStateOf").current()
}

// CmdFlagsOf returns the confirmation requirements of a command setting.
func CmdFlagsOf(s *Setting) CmdFlags {
	return s.command("CmdFlagsOf").flags
}

func (s *Setting) command(op string) *commandPayload {
	p, ok := s.payload.(*commandPayload)
	if !ok {
		fail(op, s.Key, "not a command")
	}
	return p
}

// runCommand advances the handshake of s with an externally written state.
// Unrecognized values leave the state untouched.
func (r *Registry) runCommand(s *Setting, v CmdState) {
	p := s.command("SetU8")
	cur := p.current()
	switch v {
	case CmdChange:
		switch {
		case p.flags&CmdConfirm != 0:
			r.setPending(p, CmdAskConfirm)
		case p.flags&CmdWarning != 0:
			r.setPending(p, CmdShowWarning)
		default:
			r.execute(s, p)
		}
	case CmdCommit:
		if !cur.pending() {
			r.logger.Debug("Ignoring commit of idle command", "key", s.Key)
			return
		}
		r.execute(s, p)
	case CmdNone, CmdDiscard:
		p.state = CmdNone
	}
}

func (r *Registry) setPending(p *commandPayload, state CmdState) {
	p.state = state
	p.pendingSince = p.now()
}

func (r *Registry) execute(s *Setting, p *commandPayload) {
	p.state = CmdNone
	p.pendingSince = time.Time{}
	if p.action != nil {
		p.action(s)
	}
	r.changed(s)
}
