package access

import "sync"

// Phase is the lifecycle position of an entity.
type Phase int

const (
	Uninitialized Phase = iota
	Active
	Finalized
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Finalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Lifecycle is the one-way Uninitialized → Active → Finalized state of an
// entity. Finalization is monotonic: once set it never resets, and any
// logic gated on "not finalized" permanently fails afterwards.
type Lifecycle struct {
	mu    sync.RWMutex
	phase Phase
}

// NewLifecycle creates a lifecycle starting at the given phase. Ledgers
// start Active; sales start Uninitialized until initialized with a ledger.
func NewLifecycle(start Phase) *Lifecycle {
	return &Lifecycle{phase: start}
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.phase
}

// IsActive reports whether the entity is initialized and not finalized.
func (l *Lifecycle) IsActive() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.phase == Active
}

// IsFinalized reports whether the one-way lock has been set.
func (l *Lifecycle) IsFinalized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.phase == Finalized
}

// Activate moves Uninitialized → Active. Fails with ErrAlreadyInitialized
// on any other phase.
func (l *Lifecycle) Activate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != Uninitialized {
		return ErrAlreadyInitialized
	}
	l.phase = Active
	return nil
}

// Finalize moves Active → Finalized. Fails with ErrAlreadyFinalized when
// already finalized and ErrNotInitialized when never activated.
func (l *Lifecycle) Finalize() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.phase {
	case Finalized:
		return ErrAlreadyFinalized
	case Uninitialized:
		return ErrNotInitialized
	}
	l.phase = Finalized
	return nil
}
