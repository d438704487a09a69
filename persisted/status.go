/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package persisted

import "fmt"

// State is the phase of the most recent operation on a Value.
type State int

const (
	Initializing State = iota
	Retrieving
	Storing
	Idle
	Failed
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Retrieving:
		return "retrieving"
	case Storing:
		return "storing"
	case Idle:
		return "idle"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status is a State plus, for Failed, its cause.
type Status struct {
	State State
	Err   error
}

func (s Status) String() string {
	if s.State == Failed && s.Err != nil {
		return fmt.Sprintf("error(%v)", s.Err)
	}
	return s.State.String()
}
