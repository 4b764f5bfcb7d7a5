// Package initializer runs the one-shot startup sequence: ensure the
// settings singleton exists, seed the default locations, and best-effort
// enable durable storage. It runs at most once per process regardless of
// how many collaborators trigger it.
package initializer

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chargelog/chargelog/internal/database/locations"
	"github.com/chargelog/chargelog/internal/database/settings"
	"github.com/chargelog/chargelog/internal/entities"
)

// State of the startup sequence. NotStarted -> Initializing is a one-way
// latch; Ready and Failed are terminal.
type State int

const (
	StateNotStarted State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sequencer coordinates the startup steps and exposes the resulting state
// to collaborators that gate on it.
type Sequencer struct {
	db        *gorm.DB
	settings  *settings.Repository
	locations *locations.Repository

	mu       sync.Mutex
	state    State
	err      error
	loaded   *entities.Settings
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a sequencer in the NotStarted state.
func New(db *gorm.DB, settingsRepo *settings.Repository, locationsRepo *locations.Repository) *Sequencer {
	return &Sequencer{
		db:        db,
		settings:  settingsRepo,
		locations: locationsRepo,
		state:     StateNotStarted,
		done:      make(chan struct{}),
	}
}

// Initialize runs the startup sequence. The first caller performs the work;
// any concurrent or later caller waits for that run to finish and gets the
// same terminal state. No retry happens after a failure.
func (s *Sequencer) Initialize() (State, error) {
	s.mu.Lock()
	if s.state != StateNotStarted {
		s.mu.Unlock()
		<-s.done
		return s.Status()
	}
	s.state = StateInitializing
	s.mu.Unlock()

	s.run()
	s.doneOnce.Do(func() { close(s.done) })
	return s.Status()
}

func (s *Sequencer) run() {
	loaded, err := s.settings.EnsureDefault()
	if err != nil {
		s.fail(fmt.Errorf("failed to load settings: %w", err))
		return
	}

	if err := s.locations.SeedDefaults(); err != nil {
		s.fail(fmt.Errorf("failed to seed default locations: %w", err))
		return
	}

	// Durability is best-effort: a store that cannot switch journal modes
	// still works, it just loses the crash-safety upgrade.
	if err := s.db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("Could not enable WAL journal mode")
	}

	s.mu.Lock()
	s.state = StateReady
	s.loaded = loaded
	s.mu.Unlock()

	logrus.Info("App initialization complete")
}

func (s *Sequencer) fail(err error) {
	logrus.WithError(err).Error("App initialization failed")

	s.mu.Lock()
	s.state = StateFailed
	s.err = err
	s.mu.Unlock()
}

// Status returns the current state and, in the Failed state, the
// human-readable initialization error.
func (s *Sequencer) Status() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.err
}

// Ready reports whether initialization completed successfully.
func (s *Sequencer) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateReady
}

// Settings returns the settings loaded during initialization, or nil before
// Ready.
func (s *Sequencer) Settings() *entities.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// NeedsOnboarding reports whether the onboarding flow still has to run.
// Before Ready it conservatively reports true.
func (s *Sequencer) NeedsOnboarding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded == nil || !s.loaded.OnboardingComplete
}
