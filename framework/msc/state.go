// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package msc

// State is the externally visible state of a service controller.
type State int

// The zero State is StateUnknown and is never held by a controller.
const (
	StateUnknown State = iota
	StateDown
	StateWaiting
	StateStarting
	StateStartFailed
	StateUp
	StateStopping
	StateRemoving
	StateRemoved
)

// String values of controller states
const (
	StateUnknownName     = "UNKNOWN"
	StateDownName        = "DOWN"
	StateWaitingName     = "WAITING"
	StateStartingName    = "STARTING"
	StateStartFailedName = "START_FAILED"
	StateUpName          = "UP"
	StateStoppingName    = "STOPPING"
	StateRemovingName    = "REMOVING"
	StateRemovedName     = "REMOVED"
)

var stateNames = map[State]string{
	StateUnknown:     StateUnknownName,
	StateDown:        StateDownName,
	StateWaiting:     StateWaitingName,
	StateStarting:    StateStartingName,
	StateStartFailed: StateStartFailedName,
	StateUp:          StateUpName,
	StateStopping:    StateStoppingName,
	StateRemoving:    StateRemovingName,
	StateRemoved:     StateRemovedName,
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return StateUnknownName
}

// ParseState returns the state with the given name, or StateUnknown.
func ParseState(name string) State {
	for s, n := range stateNames {
		if n == name && s != StateUnknown {
			return s
		}
	}
	return StateUnknown
}

// Transition is an edge of the controller state machine.
type Transition struct {
	From State
	To   State
}

func (t Transition) String() string {
	return t.From.String() + "_to_" + t.To.String()
}

// Edges observed by listeners.
var (
	DownToWaiting         = Transition{StateDown, StateWaiting}
	DownToStarting        = Transition{StateDown, StateStarting}
	DownToRemoving        = Transition{StateDown, StateRemoving}
	WaitingToDown         = Transition{StateWaiting, StateDown}
	WaitingToStarting     = Transition{StateWaiting, StateStarting}
	StartingToUp          = Transition{StateStarting, StateUp}
	StartingToStartFailed = Transition{StateStarting, StateStartFailed}
	StartFailedToStarting = Transition{StateStartFailed, StateStarting}
	StartFailedToDown     = Transition{StateStartFailed, StateDown}
	UpToStopping          = Transition{StateUp, StateStopping}
	StoppingToDown        = Transition{StateStopping, StateDown}
	RemovingToDown        = Transition{StateRemoving, StateDown}
	RemovingToRemoved     = Transition{StateRemoving, StateRemoved}
)

// Mode controls whether a service wants to be started.
type Mode int

const (
	// ModeActive services start as soon as their dependencies are up, and demand them.
	ModeActive Mode = iota
	// ModeOnDemand services start only while another service demands them.
	ModeOnDemand
	// ModeNever services never start.
	ModeNever
	// ModeRemove services are stopped and removed from the container.
	ModeRemove
)

func (m Mode) String() string {
	switch m {
	case ModeActive:
		return "ACTIVE"
	case ModeOnDemand:
		return "ON_DEMAND"
	case ModeNever:
		return "NEVER"
	case ModeRemove:
		return "REMOVE"
	}
	return "UNKNOWN"
}
