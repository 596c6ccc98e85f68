// Package access provides role control and lifecycle state for the ledger
// and sale components. Roles are plain data with pure predicates; every
// mutating operation elsewhere consults an Authority at its entry point.
package access

import (
	"sync"

	"github.com/pflow-xyz/go-tokensale/account"
	"github.com/pflow-xyz/go-tokensale/journal"
)

// Authority tracks the owner, a pending two-phase ownership transfer, and
// the delegated operator of a single entity. The operator is a capability
// delegation, not a second owner: it cannot transfer ownership or reassign
// itself.
type Authority struct {
	mu       sync.RWMutex
	self     account.Account // identity of the entity these roles govern
	owner    account.Account
	proposed account.Account
	operator account.Account
	journal  *journal.Journal
}

// NewAuthority creates role state for the entity identified by self,
// initially owned by owner.
func NewAuthority(self, owner account.Account, j *journal.Journal) *Authority {
	return &Authority{self: self, owner: owner, journal: j}
}

// Owner returns the current owner.
func (a *Authority) Owner() account.Account {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.owner
}

// ProposedOwner returns the pending transfer candidate, zero when none.
func (a *Authority) ProposedOwner() account.Account {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.proposed
}

// Operator returns the delegated operator, zero when unset.
func (a *Authority) Operator() account.Account {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.operator
}

// IsOwner reports whether x is the current owner.
func (a *Authority) IsOwner(x account.Account) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return x == a.owner
}

// IsOperator reports whether x is the operator. With the operator unset
// this is false for every input, including the zero account.
func (a *Authority) IsOperator(x account.Account) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return !a.operator.IsZero() && x == a.operator
}

// IsOwnerOrOperator reports whether x holds either role.
func (a *Authority) IsOwnerOrOperator(x account.Account) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return x == a.owner || (!a.operator.IsZero() && x == a.operator)
}

// InitiateTransfer proposes a new owner. Owner-only. The candidate must be
// non-zero, not the governed entity, and not the current owner. Overwrites
// any prior pending proposal.
func (a *Authority) InitiateTransfer(caller, candidate account.Account) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if caller != a.owner {
		return false, ErrUnauthorized
	}
	if candidate.IsZero() || candidate == a.self || candidate == a.owner {
		return false, ErrInvalidAddress
	}

	a.proposed = candidate
	a.journal.Append("OwnershipTransferInitiated", map[string]string{
		"proposedOwner": candidate.String(),
	})
	return true, nil
}

// CompleteTransfer finishes a pending transfer. Only the proposed owner may
// call it; it installs the caller as owner and clears the proposal.
func (a *Authority) CompleteTransfer(caller account.Account) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.proposed.IsZero() || caller != a.proposed {
		return false, ErrUnauthorized
	}

	a.owner = a.proposed
	a.proposed = account.Zero
	a.journal.Append("OwnershipTransferCompleted", map[string]string{
		"newOwner": a.owner.String(),
	})
	return true, nil
}

// SetOperator assigns or clears the operator. Owner-only. The zero account
// clears the role; otherwise the candidate must not be the governed entity
// or the current owner.
func (a *Authority) SetOperator(caller, candidate account.Account) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if caller != a.owner {
		return false, ErrUnauthorized
	}
	if !candidate.IsZero() && (candidate == a.self || candidate == a.owner) {
		return false, ErrInvalidAddress
	}

	a.operator = candidate
	a.journal.Append("OperatorUpdated", map[string]string{
		"operator": candidate.String(),
	})
	return true, nil
}
