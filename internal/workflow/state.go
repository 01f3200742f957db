// Package workflow drives one enhancement from submission to a history
// entry: the client state machine, the status Poller and the Result
// Finalizer.
package workflow

import (
	"errors"
	"fmt"
	"sync"

	"video-upscaler-backend/internal/models"
)

type State string

const (
	StateIdle       State = "idle"
	StateUploading  State = "uploading"
	StateProcessing State = "processing"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
	StateError      State = "error"
)

var ErrInvalidTransition = errors.New("invalid workflow transition")

// transitions lists the non-universal edges. Every state may also move to
// error and to idle.
var transitions = map[State][]State{
	StateIdle:       {StateUploading},
	StateUploading:  {StateProcessing},
	StateProcessing: {StateProcessing, StateSucceeded, StateFailed},
	StateFailed:     {StateUploading},
	StateError:      {StateUploading},
}

func CanTransition(from, to State) bool {
	if to == StateError || to == StateIdle {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Change struct {
	From  State
	To    State
	JobID string
}

// Session is the ephemeral per-user workflow state. It is safe for use by
// the poll goroutine and the caller at once.
type Session struct {
	mu          sync.Mutex
	state       State
	jobID       string
	source      models.SubmitRequest
	enhancedURL string
	onChange    func(Change)
}

// NewSession starts idle. onChange, when set, is called after every
// transition outside the session lock.
func NewSession(onChange func(Change)) *Session {
	return &Session{state: StateIdle, onChange: onChange}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) JobID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobID
}

func (s *Session) Source() models.SubmitRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *Session) EnhancedURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enhancedURL
}

func (s *Session) Transition(to State) error {
	s.mu.Lock()
	from := s.state
	if !CanTransition(from, to) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	s.state = to
	change := Change{From: from, To: to, JobID: s.jobID}
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(change)
	}
	return nil
}

// Reset returns to idle and forgets the source, job and result.
func (s *Session) Reset() {
	_ = s.Transition(StateIdle)
	s.mu.Lock()
	s.jobID = ""
	s.source = models.SubmitRequest{}
	s.enhancedURL = ""
	s.mu.Unlock()
}

func (s *Session) setSource(req models.SubmitRequest) {
	s.mu.Lock()
	s.source = req
	s.enhancedURL = ""
	s.mu.Unlock()
}

func (s *Session) setJob(id string) {
	s.mu.Lock()
	s.jobID = id
	s.mu.Unlock()
}

func (s *Session) setEnhancedURL(u string) {
	s.mu.Lock()
	s.enhancedURL = u
	s.mu.Unlock()
}
