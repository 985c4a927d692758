package survey

import "github.com/looplab/fsm"

type State string

const (
	NotLoaded State = "NOT_LOADED"
	Loading   State = "LOADING"
	Loaded    State = "LOADED"
	Submitted State = "SUBMITTED"
	NotFound  State = "NOT_FOUND"
	Error     State = "ERROR"
)

// Terminal states are left only through a new load.
func (s State) Terminal() bool {
	return s == Submitted || s == NotFound || s == Error
}

const (
	eventLoad      = "load"
	eventLoaded    = "loaded"
	eventNotFound  = "not_found"
	eventFail      = "fail"
	eventSubmitted = "submitted"
)

func states(ss ...State) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

// newMachine builds the lifecycle. Load outcomes are accepted from every
// state a load can have been started from, so that when loads overlap the
// last one to complete decides the state.
func newMachine() *fsm.FSM {
	all := states(NotLoaded, Loading, Loaded, Submitted, NotFound, Error)
	afterLoad := states(Loading, Loaded, Submitted, NotFound, Error)

	return fsm.NewFSM(
		string(NotLoaded),
		fsm.Events{
			{Name: eventLoad, Src: all, Dst: string(Loading)},
			{Name: eventLoaded, Src: afterLoad, Dst: string(Loaded)},
			{Name: eventNotFound, Src: afterLoad, Dst: string(NotFound)},
			{Name: eventFail, Src: all, Dst: string(Error)},
			{Name: eventSubmitted, Src: states(Loaded), Dst: string(Submitted)},
		},
		nil,
	)
}

type ContentState string

const (
	ContentProcessing ContentState = "PROCESSING"
	ContentAvailable  ContentState = "AVAILABLE"
)

// ContentStateOf maps a lifecycle state onto the page content indicator:
// processing while a survey loads, available otherwise.
func ContentStateOf(s State) ContentState {
	if s == Loading {
		return ContentProcessing
	}
	return ContentAvailable
}
