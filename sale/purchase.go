package sale

import (
	"strconv"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-tokensale/access"
	"github.com/pflow-xyz/go-tokensale/account"
	"github.com/pflow-xyz/go-tokensale/safemath"
)

// Receipt reports the outcome of a purchase. When the requested amount was
// capped by inventory or quota, Cost is below the offered payment and
// Refund carries the difference owed back to the purchaser.
type Receipt struct {
	Tokens *uint256.Int
	Cost   *uint256.Int
	Refund *uint256.Int
	Stage  uint64
	Bonus  uint64
}

// BuyTokens sells tokens to beneficiary against the caller's payment. Both
// the caller and the beneficiary must be whitelisted for the current stage.
// The token amount is payment * price * (10000+bonus) / factor, floored,
// then capped by the sale's remaining inventory and the beneficiary's
// quota; a capped purchase recomputes the cost so only the capped amount
// is charged. Either every effect commits or none does.
func (s *Sale) BuyTokens(caller, beneficiary account.Account, payment *uint256.Int) (*Receipt, error) {
	if payment == nil {
		payment = new(uint256.Int)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.life.Phase() {
	case access.Uninitialized:
		return nil, access.ErrNotInitialized
	case access.Finalized:
		return nil, access.ErrAlreadyFinalized
	}
	if s.suspended {
		return nil, ErrSuspended
	}
	now := s.clock()
	if now.Before(s.startTime) || now.After(s.endTime) {
		return nil, ErrOutsideWindow
	}
	if beneficiary.IsZero() || beneficiary == s.self || beneficiary == s.ledger.Self() {
		return nil, access.ErrInvalidAddress
	}
	if payment.Lt(s.minContribution) {
		return nil, ErrBelowMinimum
	}
	if !s.eligible(caller) || !s.eligible(beneficiary) {
		return nil, ErrNotWhitelisted
	}

	bonus := s.bonus
	stage := s.whitelist[beneficiary]
	if override, ok := s.stageBonus[stage]; ok {
		bonus = override
	}
	multiplier := uint256.NewInt(bonusScale + bonus)

	gross, err := safemath.Mul(payment, s.tokensPerKUnit)
	if err != nil {
		return nil, err
	}
	gross, err = safemath.Mul(gross, multiplier)
	if err != nil {
		return nil, err
	}
	gross, err = safemath.Div(gross, s.factor)
	if err != nil {
		return nil, err
	}

	final := safemath.Min(gross, s.ledger.BalanceOf(s.self))
	if !s.maxPerAccount.IsZero() {
		final = safemath.Min(final, s.quota(beneficiary))
	}
	if final.IsZero() {
		return nil, ErrNothingToPurchase
	}

	cost := new(uint256.Int).Set(payment)
	if final.Lt(gross) {
		// Charge only for what was actually granted, inverting the
		// pricing formula with the same floor.
		cost, err = s.costOf(final, multiplier)
		if err != nil {
			return nil, err
		}
	}

	// Precompute every tally before mutating anything.
	newPurchased, err := safemath.Add(s.purchasedOf(beneficiary), final)
	if err != nil {
		return nil, err
	}
	newSold, err := safemath.Add(s.totalSold, final)
	if err != nil {
		return nil, err
	}
	newCollected, err := safemath.Add(s.totalCollected, cost)
	if err != nil {
		return nil, err
	}
	refund, err := safemath.Sub(payment, cost)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Transfer(s.self, beneficiary, final); err != nil {
		return nil, err
	}
	s.purchased[beneficiary] = newPurchased
	s.totalSold = newSold
	s.totalCollected = newCollected

	s.journal.Append("TokensPurchased", map[string]string{
		"purchaser":   caller.String(),
		"beneficiary": beneficiary.String(),
		"cost":        cost.Dec(),
		"tokens":      final.Dec(),
		"stage":       strconv.FormatUint(stage, 10),
		"bonus":       strconv.FormatUint(bonus, 10),
	})

	return &Receipt{
		Tokens: new(uint256.Int).Set(final),
		Cost:   cost,
		Refund: refund,
		Stage:  stage,
		Bonus:  bonus,
	}, nil
}

// quota returns how many more tokens the account may still purchase under
// the configured cap. Callers hold the lock and have checked the cap is
// set.
func (s *Sale) quota(a account.Account) *uint256.Int {
	bought := s.purchasedOf(a)
	if bought.Cmp(s.maxPerAccount) >= 0 {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(s.maxPerAccount, bought)
}

func (s *Sale) purchasedOf(a account.Account) *uint256.Int {
	if v, ok := s.purchased[a]; ok {
		return v
	}
	return new(uint256.Int)
}

// costOf inverts the pricing formula for a capped token amount.
func (s *Sale) costOf(tokens, multiplier *uint256.Int) (*uint256.Int, error) {
	num, err := safemath.Mul(tokens, s.factor)
	if err != nil {
		return nil, err
	}
	den, err := safemath.Mul(s.tokensPerKUnit, multiplier)
	if err != nil {
		return nil, err
	}
	return safemath.Div(num, den)
}

// ReclaimTokens returns the sale's unsold inventory to the owner.
// Owner-only. With nothing to reclaim it reports zero without journaling.
func (s *Sale) ReclaimTokens(caller account.Account) (*uint256.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwner(caller) {
		return nil, access.ErrUnauthorized
	}
	if s.life.Phase() == access.Uninitialized {
		return nil, access.ErrNotInitialized
	}

	amount := s.ledger.BalanceOf(s.self)
	if amount.IsZero() {
		return amount, nil
	}
	if err := s.ledger.Transfer(s.self, s.auth.Owner(), amount); err != nil {
		return nil, err
	}

	s.journal.Append("TokensReclaimed", map[string]string{
		"amount": amount.Dec(),
	})
	return amount, nil
}

// Finalize closes the sale permanently. Owner-only; purchases fail with
// ErrAlreadyFinalized afterwards.
func (s *Sale) Finalize(caller account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwner(caller) {
		return access.ErrUnauthorized
	}
	if err := s.life.Finalize(); err != nil {
		return err
	}
	s.journal.Append("Finalized", nil)
	return nil
}
