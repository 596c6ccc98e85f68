// Package ledger implements the balances and allowances bookkeeping for a
// fixed-supply fungible token. The sum of all balances equals the total
// supply at every reachable state; every mutating call either commits all
// of its effects or none of them.
package ledger

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-tokensale/access"
	"github.com/pflow-xyz/go-tokensale/account"
	"github.com/pflow-xyz/go-tokensale/journal"
	"github.com/pflow-xyz/go-tokensale/safemath"
)

// Ledger is a single token instance. It carries its own authority and
// lifecycle: before finalization only the owner and the delegated operator
// may move tokens, modeling a lockup during the distribution phase.
type Ledger struct {
	mu sync.RWMutex

	self        account.Account
	name        string
	symbol      string
	decimals    uint8
	totalSupply *uint256.Int

	balances   map[account.Account]*uint256.Int
	allowances map[account.Account]map[account.Account]*uint256.Int

	auth    *access.Authority
	life    *access.Lifecycle
	journal *journal.Journal
}

// New creates a ledger identified by self, crediting the entire supply to
// the owner and journaling a creation transfer from the zero account.
func New(self, owner account.Account, name, symbol string, decimals uint8, totalSupply *uint256.Int, j *journal.Journal) (*Ledger, error) {
	if totalSupply == nil || totalSupply.IsZero() {
		return nil, ErrInvalidSupply
	}

	l := &Ledger{
		self:        self,
		name:        name,
		symbol:      symbol,
		decimals:    decimals,
		totalSupply: new(uint256.Int).Set(totalSupply),
		balances:    make(map[account.Account]*uint256.Int),
		allowances:  make(map[account.Account]map[account.Account]*uint256.Int),
		auth:        access.NewAuthority(self, owner, j),
		life:        access.NewLifecycle(access.Active),
		journal:     j,
	}
	l.balances[owner] = new(uint256.Int).Set(totalSupply)

	j.Append("Transfer", map[string]string{
		"from":   account.Zero.String(),
		"to":     owner.String(),
		"amount": totalSupply.Dec(),
	})
	return l, nil
}

// Self returns the ledger's own identity.
func (l *Ledger) Self() account.Account { return l.self }

// Name returns the token name.
func (l *Ledger) Name() string { return l.name }

// Symbol returns the token symbol.
func (l *Ledger) Symbol() string { return l.symbol }

// Decimals returns the token's decimal precision.
func (l *Ledger) Decimals() uint8 { return l.decimals }

// TotalSupply returns the fixed supply as a fresh value.
func (l *Ledger) TotalSupply() *uint256.Int {
	return new(uint256.Int).Set(l.totalSupply)
}

// Authority exposes the ledger's role state for ownership and operator
// management.
func (l *Ledger) Authority() *access.Authority { return l.auth }

// IsFinalized reports whether the one-way transfer unlock has happened.
func (l *Ledger) IsFinalized() bool { return l.life.IsFinalized() }

// Finalize sets the one-way lock, opening transfers to all holders.
// Owner-only; a second call fails with ErrAlreadyFinalized.
func (l *Ledger) Finalize(caller account.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.auth.IsOwner(caller) {
		return access.ErrUnauthorized
	}
	if err := l.life.Finalize(); err != nil {
		return err
	}
	l.journal.Append("Finalized", nil)
	return nil
}

// BalanceOf returns the balance of an account, zero for unseen accounts.
func (l *Ledger) BalanceOf(a account.Account) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if b, ok := l.balances[a]; ok {
		return new(uint256.Int).Set(b)
	}
	return new(uint256.Int)
}

// Allowance returns how much spender may move out of owner's balance.
func (l *Ledger) Allowance(owner, spender account.Account) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if m, ok := l.allowances[owner]; ok {
		if v, ok := m[spender]; ok {
			return new(uint256.Int).Set(v)
		}
	}
	return new(uint256.Int)
}

// transferAllowed enforces the pre-finalization lockup.
func (l *Ledger) transferAllowed(caller account.Account) error {
	if l.life.IsFinalized() {
		return nil
	}
	if !l.auth.IsOwnerOrOperator(caller) {
		return ErrTransfersRestricted
	}
	return nil
}

// Transfer moves amount from the caller to another account. Zero-amount
// transfers succeed and journal. Transfers to the zero account or to the
// ledger's own address are permitted; the tokens become unreachable.
func (l *Ledger) Transfer(caller, to account.Account, amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.transferAllowed(caller); err != nil {
		return err
	}
	if err := l.move(caller, to, amount); err != nil {
		return err
	}

	l.journal.Append("Transfer", map[string]string{
		"from":   caller.String(),
		"to":     to.String(),
		"amount": amount.Dec(),
	})
	return nil
}

// Approve overwrites the allowance for (caller, spender) with amount.
// A non-zero allowance may be replaced by another non-zero value directly.
func (l *Ledger) Approve(caller, spender account.Account, amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.allowances[caller]
	if !ok {
		m = make(map[account.Account]*uint256.Int)
		l.allowances[caller] = m
	}
	m[spender] = new(uint256.Int).Set(amount)

	l.journal.Append("Approval", map[string]string{
		"owner":   caller.String(),
		"spender": spender.String(),
		"amount":  amount.Dec(),
	})
	return nil
}

// TransferFrom moves amount from another holder's balance on the strength
// of a prior approval. The caller is the spender; the allowance is
// decremented by exactly amount. Only the transfer itself is journaled.
func (l *Ledger) TransferFrom(caller, from, to account.Account, amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.transferAllowed(caller); err != nil {
		return err
	}

	m := l.allowances[from]
	current := new(uint256.Int)
	if v, ok := m[caller]; ok {
		current = v
	}
	if amount.Gt(current) {
		return ErrInsufficientAllowance
	}
	remaining, err := safemath.Sub(current, amount)
	if err != nil {
		return ErrInsufficientAllowance
	}

	if err := l.move(from, to, amount); err != nil {
		return err
	}
	if m == nil {
		m = make(map[account.Account]*uint256.Int)
		l.allowances[from] = m
	}
	m[caller] = remaining

	l.journal.Append("Transfer", map[string]string{
		"from":   from.String(),
		"to":     to.String(),
		"amount": amount.Dec(),
	})
	return nil
}

// move debits from and credits to, committing both writes or neither.
// Callers hold the write lock.
func (l *Ledger) move(from, to account.Account, amount *uint256.Int) error {
	fromBal := new(uint256.Int)
	if b, ok := l.balances[from]; ok {
		fromBal = b
	}
	if amount.Gt(fromBal) {
		return ErrInsufficientBalance
	}

	if from == to {
		// Debit and credit cancel; the balance check above still applies.
		return nil
	}

	newFrom, err := safemath.Sub(fromBal, amount)
	if err != nil {
		return ErrInsufficientBalance
	}

	toBal := new(uint256.Int)
	if b, ok := l.balances[to]; ok {
		toBal = b
	}
	newTo, err := safemath.Add(toBal, amount)
	if err != nil {
		return err
	}

	l.balances[from] = newFrom
	l.balances[to] = newTo
	return nil
}
