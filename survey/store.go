package survey

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"github.com/mbolis/museum-survey/log"
	"github.com/mbolis/museum-survey/model"
)

var (
	// ErrNotFound is returned by a Backend when the survey does not exist
	// or is not active.
	ErrNotFound = errors.New("survey not found")

	ErrNotLoaded = errors.New("no survey loaded")
)

type Option func(*Store)

// WithConcurrency caps the number of answers sent at the same time.
func WithConcurrency(n int) Option {
	return func(s *Store) { s.maxConcurrent = n }
}

// WithAnswerTimeout bounds each answer request.
func WithAnswerTimeout(d time.Duration) Option {
	return func(s *Store) { s.answerTimeout = d }
}

// WithContentState reports the page content indicator on every transition,
// starting with the initial state.
func WithContentState(fn func(ContentState)) Option {
	return func(s *Store) { s.contentState = fn }
}

// Store owns the lifecycle of one survey: loading it, and submitting the
// answers of one visitor. Network failures never escape Load and Submit;
// they end up as state transitions, with the cause kept in Err.
type Store struct {
	backend  Backend
	executor *Executor

	maxConcurrent int
	answerTimeout time.Duration
	contentState  func(ContentState)

	mu      sync.Mutex
	machine *fsm.FSM
	survey  *model.Survey
	result  Result
	err     error

	obsMu     sync.Mutex
	observers map[int]func(State)
	nextObs   int
}

func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		machine:   newMachine(),
		observers: map[int]func(State){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.executor = NewExecutor(backend, s.maxConcurrent, s.answerTimeout)

	if s.contentState != nil {
		s.contentState(ContentStateOf(NotLoaded))
		s.Subscribe(func(st State) { s.contentState(ContentStateOf(st)) })
	}
	return s
}

// Subscribe registers fn to be called after every state change. Calls happen
// outside the store lock, on the goroutine that caused the change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State(s.machine.Current())
}

// Survey returns the loaded survey, if any.
func (s *Store) Survey() (model.Survey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.survey == nil {
		return model.Survey{}, false
	}
	return *s.survey, true
}

// Snapshot returns state and survey as set by the same transition.
func (s *Store) Snapshot() (State, *model.Survey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State(s.machine.Current()), s.survey
}

// Err is the failure behind the current ERROR or NOT_FOUND state.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Result describes the last completed submission.
func (s *Store) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Load fetches survey id and settles on LOADED, NOT_FOUND or ERROR.
func (s *Store) Load(ctx context.Context, id int) State {
	s.transition(ctx, eventLoad, func() {
		s.err = nil
	})

	sv, err := s.backend.GetSurvey(ctx, id)

	switch {
	case err == nil:
		return s.transition(ctx, eventLoaded, func() {
			s.survey = &sv
			s.err = nil
		})
	case errors.Is(err, ErrNotFound):
		log.Debugf("survey.load: not found (%d)", id)
		return s.transition(ctx, eventNotFound, func() {
			s.survey = nil
			s.err = err
		})
	default:
		log.Errorf("survey.load: %s", err)
		return s.transition(ctx, eventFail, func() {
			s.survey = nil
			s.err = err
		})
	}
}

// Submit sends raw form values for the loaded survey. Outside LOADED it
// moves to ERROR without contacting the backend.
func (s *Store) Submit(ctx context.Context, raw map[string]any) State {
	state, sv := s.Snapshot()
	if state != Loaded || sv == nil {
		log.Warnf("survey.submit: called in state %s", state)
		return s.transition(ctx, eventFail, func() {
			s.err = ErrNotLoaded
		})
	}

	res, err := s.executor.Run(ctx, *sv, raw)
	if err != nil {
		log.Errorf("survey.submit: %s", err)
		return s.transition(ctx, eventFail, func() {
			s.result = res
			s.err = err
		})
	}
	return s.transition(ctx, eventSubmitted, func() {
		s.result = res
		s.err = nil
	})
}

// InitialValues returns the empty form state of the loaded survey.
func (s *Store) InitialValues() map[string]any {
	sv, ok := s.Survey()
	if !ok {
		return nil
	}
	return InitialValues(sv.Questions)
}

func (s *Store) ValidationRules(resolve MessageResolver) Rules {
	sv, ok := s.Survey()
	if !ok {
		return nil
	}
	return ValidationRules(sv.Questions, resolve)
}

// transition fires event and, when the machine accepts it, applies update
// under the same lock, so readers never see data from one fetch with the
// state of another. A rejected event leaves both untouched. Observers are
// notified after the lock is released.
func (s *Store) transition(ctx context.Context, event string, update func()) State {
	s.mu.Lock()
	from := s.machine.Current()
	err := s.machine.Event(context.WithoutCancel(ctx), event)
	var noTransition fsm.NoTransitionError
	accepted := err == nil || errors.As(err, &noTransition)
	if accepted {
		update()
	}
	to := s.machine.Current()
	s.mu.Unlock()

	if !accepted {
		log.Warnf("survey.transition: %s rejected in state %s: %s", event, from, err)
	}

	if from != to {
		log.WithFields(log.Fields{"from": from, "to": to}).Debug("survey.state")
		s.notify(State(to))
	}
	return State(to)
}

func (s *Store) notify(state State) {
	s.obsMu.Lock()
	observers := make([]func(State), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}
