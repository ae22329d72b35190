package tutorial

import (
	"fmt"
	"sync"

	"github.com/vanderheijden86/kcal/pkg/debug"
)

// Persisted keys.
const (
	KeyCurrentStep         = "tutorial.current_step"
	KeyOnboardingCompleted = "onboarding.completed"
)

// Store is the key-value persistence the sequencer writes through to.
// A missing key reports ok=false with a nil error.
type Store interface {
	Int(key string) (v int, ok bool, err error)
	SetInt(key string, v int) error
	Bool(key string) (v bool, ok bool, err error)
	SetBool(key string, v bool) error
}

// Change describes a move of the current step.
type Change struct {
	From Step
	To   Step
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithErrorHandler receives persistence errors after they have been logged.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Sequencer) {
		s.onError = fn
	}
}

type subscriber struct {
	id int
	fn func(Change)
}

// Sequencer holds the current walkthrough step. Writes go through to the
// store before a mutating call returns; store failures never reach callers.
type Sequencer struct {
	store   Store
	onError func(error)

	mu      sync.Mutex
	current Step

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

// New restores the sequencer from store. A missing, unreadable or unknown
// ordinal starts the walkthrough from the beginning.
func New(store Store, opts ...Option) *Sequencer {
	s := &Sequencer{
		store:   store,
		onError: func(error) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current = s.load()
	return s
}

func (s *Sequencer) load() Step {
	n, ok, err := s.store.Int(KeyCurrentStep)
	if err != nil {
		debug.Log("tutorial: reading %s: %v (starting over)", KeyCurrentStep, err)
		return FirstStep
	}
	if !ok {
		return FirstStep
	}
	step, valid := StepFromOrdinal(n)
	if !valid {
		debug.Log("tutorial: persisted step %d out of range (starting over)", n)
		return FirstStep
	}
	return step
}

// CurrentStep returns the step being shown.
func (s *Sequencer) CurrentStep() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsActive reports whether a card should be on screen.
func (s *Sequencer) IsActive() bool {
	return s.CurrentStep() != StepCompleted
}

// Advance moves to the next step. It does nothing once completed.
func (s *Sequencer) Advance() {
	s.mu.Lock()
	from := s.current
	if from.IsTerminal() {
		s.mu.Unlock()
		return
	}
	to := from.Next()
	s.current = to
	s.persistLocked(to)
	s.mu.Unlock()

	s.notify(Change{From: from, To: to})
}

// Skip ends the walkthrough wherever it is.
func (s *Sequencer) Skip() {
	s.moveTo(StepCompleted)
}

// Reset rewinds the walkthrough to the first step.
func (s *Sequencer) Reset() {
	s.moveTo(FirstStep)
}

// Reload re-reads the persisted step, for when another process changed it.
func (s *Sequencer) Reload() {
	step := s.load()

	s.mu.Lock()
	from := s.current
	s.current = step
	s.mu.Unlock()

	if from != step {
		debug.Log("tutorial: reloaded %s -> %s", from, step)
		s.notify(Change{From: from, To: step})
	}
}

func (s *Sequencer) moveTo(to Step) {
	s.mu.Lock()
	from := s.current
	s.current = to
	s.persistLocked(to)
	s.mu.Unlock()

	if from != to {
		s.notify(Change{From: from, To: to})
	}
}

func (s *Sequencer) persistLocked(step Step) {
	if err := s.store.SetInt(KeyCurrentStep, step.Ordinal()); err != nil {
		s.reportError(fmt.Errorf("persisting tutorial step %s: %w", step, err))
	}
}

func (s *Sequencer) reportError(err error) {
	debug.Log("tutorial: %v", err)
	s.onError(err)
}

// TargetTabFor returns the tab highlighted by step, if any.
func (s *Sequencer) TargetTabFor(step Step) (int, bool) {
	return step.TargetTab()
}

// Title of the current step.
func (s *Sequencer) Title() string { return s.CurrentStep().Info().Title }

// Message of the current step.
func (s *Sequencer) Message() string { return s.CurrentStep().Info().Message }

// IconID of the current step.
func (s *Sequencer) IconID() string { return s.CurrentStep().Info().IconID }

// ConfirmLabel of the current step.
func (s *Sequencer) ConfirmLabel() string { return s.CurrentStep().ConfirmLabel() }

// PositionIndicator of the current step, e.g. "2 of 5".
func (s *Sequencer) PositionIndicator() string { return s.CurrentStep().PositionIndicator() }

// HasCompletedOnboarding reports the onboarding flag. It is independent of
// the step pointer: finishing or skipping the walkthrough does not set it.
func (s *Sequencer) HasCompletedOnboarding() bool {
	v, ok, err := s.store.Bool(KeyOnboardingCompleted)
	if err != nil {
		debug.Log("tutorial: reading %s: %v", KeyOnboardingCompleted, err)
		return false
	}
	return ok && v
}

// CompleteOnboarding sets the onboarding flag.
func (s *Sequencer) CompleteOnboarding() {
	s.setOnboarding(true)
}

// ResetOnboarding clears the onboarding flag without touching the step.
func (s *Sequencer) ResetOnboarding() {
	s.setOnboarding(false)
}

func (s *Sequencer) setOnboarding(v bool) {
	if err := s.store.SetBool(KeyOnboardingCompleted, v); err != nil {
		s.reportError(fmt.Errorf("persisting onboarding flag: %w", err))
	}
}

// Subscribe registers fn to run after every step change, in registration
// order, on the goroutine that made the change. The returned func removes it.
func (s *Sequencer) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Sequencer) notify(c Change) {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(c)
	}
}
