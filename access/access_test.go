package access

import (
	"errors"
	"testing"

	"github.com/pflow-xyz/go-tokensale/account"
	"github.com/pflow-xyz/go-tokensale/journal"
)

var (
	self     = account.MustFromHex("0x00000000000000000000000000000000000000c0")
	owner    = account.MustFromHex("0x0000000000000000000000000000000000000001")
	operator = account.MustFromHex("0x0000000000000000000000000000000000000002")
	outsider = account.MustFromHex("0x0000000000000000000000000000000000000003")
	newOwner = account.MustFromHex("0x0000000000000000000000000000000000000004")
)

func newAuthority() (*Authority, *journal.Journal) {
	j := journal.New()
	return NewAuthority(self, owner, j), j
}

func TestPredicates(t *testing.T) {
	a, _ := newAuthority()

	if !a.IsOwner(owner) || a.IsOwner(outsider) {
		t.Error("IsOwner wrong")
	}

	// Operator unset: nothing matches, not even the zero account.
	if a.IsOperator(account.Zero) || a.IsOperator(outsider) {
		t.Error("unset operator must match nothing")
	}
	if a.IsOwnerOrOperator(account.Zero) {
		t.Error("zero account must never hold a role")
	}

	if _, err := a.SetOperator(owner, operator); err != nil {
		t.Fatalf("SetOperator failed: %v", err)
	}
	if !a.IsOperator(operator) || !a.IsOwnerOrOperator(operator) {
		t.Error("operator predicates wrong after assignment")
	}
	if a.IsOwner(operator) {
		t.Error("operator must not be owner")
	}
}

func TestTwoPhaseOwnershipTransfer(t *testing.T) {
	a, j := newAuthority()

	if _, err := a.InitiateTransfer(outsider, newOwner); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("non-owner initiate error = %v, want ErrUnauthorized", err)
	}

	for _, bad := range []account.Account{account.Zero, self, owner} {
		if _, err := a.InitiateTransfer(owner, bad); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("initiate to %s error = %v, want ErrInvalidAddress", bad, err)
		}
	}

	ok, err := a.InitiateTransfer(owner, newOwner)
	if err != nil || !ok {
		t.Fatalf("initiate failed: %v", err)
	}
	if a.Owner() != owner {
		t.Error("initiate must not change the owner")
	}
	if a.ProposedOwner() != newOwner {
		t.Error("proposed owner not recorded")
	}

	// A later proposal overwrites the pending one.
	if _, err := a.InitiateTransfer(owner, outsider); err != nil {
		t.Fatalf("re-initiate failed: %v", err)
	}
	if a.ProposedOwner() != outsider {
		t.Error("second proposal must overwrite the first")
	}
	if _, err := a.InitiateTransfer(owner, newOwner); err != nil {
		t.Fatalf("re-initiate failed: %v", err)
	}

	// Only the proposed owner may complete.
	for _, bad := range []account.Account{owner, outsider, account.Zero} {
		if _, err := a.CompleteTransfer(bad); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("complete by %s error = %v, want ErrUnauthorized", bad, err)
		}
	}

	ok, err = a.CompleteTransfer(newOwner)
	if err != nil || !ok {
		t.Fatalf("complete failed: %v", err)
	}
	if a.Owner() != newOwner {
		t.Errorf("owner = %s, want %s", a.Owner(), newOwner)
	}
	if !a.ProposedOwner().IsZero() {
		t.Error("proposal not cleared after completion")
	}

	if got := len(j.ByName("OwnershipTransferCompleted")); got != 1 {
		t.Errorf("completion entries = %d, want 1", got)
	}
}

func TestCompleteWithoutPendingProposal(t *testing.T) {
	a, _ := newAuthority()

	// No proposal pending: even the zero account must not slip through.
	if _, err := a.CompleteTransfer(account.Zero); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("complete error = %v, want ErrUnauthorized", err)
	}
}

func TestSetOperator(t *testing.T) {
	a, j := newAuthority()

	if _, err := a.SetOperator(outsider, operator); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("non-owner set error = %v, want ErrUnauthorized", err)
	}
	for _, bad := range []account.Account{self, owner} {
		if _, err := a.SetOperator(owner, bad); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("set operator to %s error = %v, want ErrInvalidAddress", bad, err)
		}
	}

	if _, err := a.SetOperator(owner, operator); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if a.Operator() != operator {
		t.Error("operator not recorded")
	}

	// Zero clears the role.
	if _, err := a.SetOperator(owner, account.Zero); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if !a.Operator().IsZero() || a.IsOperator(operator) {
		t.Error("operator not cleared")
	}

	if got := len(j.ByName("OperatorUpdated")); got != 2 {
		t.Errorf("operator entries = %d, want 2", got)
	}
}

func TestOperatorCannotEscalate(t *testing.T) {
	a, _ := newAuthority()
	if _, err := a.SetOperator(owner, operator); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if _, err := a.InitiateTransfer(operator, newOwner); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("operator initiate error = %v, want ErrUnauthorized", err)
	}
	if _, err := a.SetOperator(operator, outsider); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("operator reassign error = %v, want ErrUnauthorized", err)
	}
}

func TestLifecycle(t *testing.T) {
	l := NewLifecycle(Uninitialized)

	if err := l.Finalize(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("finalize uninitialized error = %v, want ErrNotInitialized", err)
	}

	if err := l.Activate(); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if !l.IsActive() || l.IsFinalized() {
		t.Error("phase should be Active")
	}
	if err := l.Activate(); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("double activate error = %v, want ErrAlreadyInitialized", err)
	}

	if err := l.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if !l.IsFinalized() || l.IsActive() {
		t.Error("phase should be Finalized")
	}
	if err := l.Finalize(); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("double finalize error = %v, want ErrAlreadyFinalized", err)
	}
}
