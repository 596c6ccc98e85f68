package sale

import (
	"strconv"
	"time"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-tokensale/access"
	"github.com/pflow-xyz/go-tokensale/account"
)

// SetWallet changes the funds destination. Owner-only. The wallet must be
// non-zero and distinct from the sale, its roles, and the token ledger.
func (s *Sale) SetWallet(caller, wallet account.Account) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwner(caller) {
		return false, access.ErrUnauthorized
	}
	if wallet.IsZero() || wallet == s.self || s.auth.IsOwnerOrOperator(wallet) {
		return false, access.ErrInvalidAddress
	}
	if s.ledger != nil && wallet == s.ledger.Self() {
		return false, access.ErrInvalidAddress
	}

	s.wallet = wallet
	s.journal.Append("WalletAddressUpdated", map[string]string{
		"wallet": wallet.String(),
	})
	return true, nil
}

// SetOperator delegates or clears the sale's operator role. Owner-only.
// Beyond the authority's own checks it rejects the funds wallet, keeping
// the wallet and operator exclusion symmetric with SetWallet.
func (s *Sale) SetOperator(caller, candidate account.Account) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if candidate == s.wallet {
		return false, access.ErrInvalidAddress
	}
	return s.auth.SetOperator(caller, candidate)
}

// SetTokensPerKUnit sets the pre-bonus price. Owner-only, must be positive.
func (s *Sale) SetTokensPerKUnit(caller account.Account, price *uint256.Int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwner(caller) {
		return false, access.ErrUnauthorized
	}
	if price == nil || price.IsZero() {
		return false, ErrOutOfRange
	}

	s.tokensPerKUnit = new(uint256.Int).Set(price)
	s.journal.Append("TokensPerKUnitUpdated", map[string]string{
		"tokensPerKUnit": price.Dec(),
	})
	return true, nil
}

// SetBonus sets the default bonus in basis points, at most 10000 (+100%).
// Owner-only.
func (s *Sale) SetBonus(caller account.Account, bps uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwner(caller) {
		return false, access.ErrUnauthorized
	}
	if bps > bonusScale {
		return false, ErrOutOfRange
	}

	s.bonus = bps
	s.journal.Append("BonusUpdated", map[string]string{
		"bonus": strconv.FormatUint(bps, 10),
	})
	return true, nil
}

// SetStageBonus sets or clears (bps zero) the bonus override for a stage.
// Owner-only. Stage zero is not a stage.
func (s *Sale) SetStageBonus(caller account.Account, stage, bps uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwner(caller) {
		return false, access.ErrUnauthorized
	}
	if stage == 0 || bps > bonusScale {
		return false, ErrOutOfRange
	}

	if bps == 0 {
		delete(s.stageBonus, stage)
	} else {
		s.stageBonus[stage] = bps
	}
	s.journal.Append("StageBonusUpdated", map[string]string{
		"stage": strconv.FormatUint(stage, 10),
		"bonus": strconv.FormatUint(bps, 10),
	})
	return true, nil
}

// SetMaxTokensPerAccount sets the per-account purchase quota. Owner-only.
// Zero removes the quota.
func (s *Sale) SetMaxTokensPerAccount(caller account.Account, max *uint256.Int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwner(caller) {
		return false, access.ErrUnauthorized
	}
	if max == nil {
		max = new(uint256.Int)
	}

	s.maxPerAccount = new(uint256.Int).Set(max)
	s.journal.Append("MaxTokensPerAccountUpdated", map[string]string{
		"maxTokensPerAccount": max.Dec(),
	})
	return true, nil
}

// SetSaleWindow sets the purchase window. Owner-only. The end must follow
// the start; a window entirely in the past is allowed so a closed sale can
// be recorded as such.
func (s *Sale) SetSaleWindow(caller account.Account, start, end time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwner(caller) {
		return false, access.ErrUnauthorized
	}
	if !end.After(start) {
		return false, ErrInvalidWindow
	}

	s.startTime = start
	s.endTime = end
	s.journal.Append("SaleWindowUpdated", map[string]string{
		"start": start.UTC().Format(time.RFC3339),
		"end":   end.UTC().Format(time.RFC3339),
	})
	return true, nil
}

// Suspend pauses purchases. Owner-only. Suspending an already suspended
// sale is a no-op that reports false.
func (s *Sale) Suspend(caller account.Account) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwner(caller) {
		return false, access.ErrUnauthorized
	}
	if s.suspended {
		return false, nil
	}

	s.suspended = true
	s.journal.Append("SaleSuspended", nil)
	return true, nil
}

// Resume lifts a suspension. Owner-only, no-op when not suspended.
func (s *Sale) Resume(caller account.Account) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwner(caller) {
		return false, access.ErrUnauthorized
	}
	if !s.suspended {
		return false, nil
	}

	s.suspended = false
	s.journal.Append("SaleResumed", nil)
	return true, nil
}

// SetCurrentStage advances the sale stage. Owner-only and forward-only:
// the current stage reports a false no-op, a lower stage is an error.
func (s *Sale) SetCurrentStage(caller account.Account, stage uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwner(caller) {
		return false, access.ErrUnauthorized
	}
	if stage == s.currentStage {
		return false, nil
	}
	if stage < s.currentStage {
		return false, ErrStageRegression
	}

	s.currentStage = stage
	s.journal.Append("CurrentStageUpdated", map[string]string{
		"stage": strconv.FormatUint(stage, 10),
	})
	return true, nil
}

// SetWhitelistedStatus whitelists an account for a stage, or removes it
// with stage zero. Owner or operator. The zero account, the sale itself,
// and the funds wallet can never be whitelisted.
func (s *Sale) SetWhitelistedStatus(caller, target account.Account, stage uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwnerOrOperator(caller) {
		return false, access.ErrUnauthorized
	}
	if err := s.checkWhitelistTarget(target); err != nil {
		return false, err
	}

	s.applyWhitelist(target, stage)
	return true, nil
}

// SetWhitelistedBatch applies SetWhitelistedStatus across parallel slices
// of targets and stages. Owner or operator. The whole batch is validated
// before any entry is applied, so a bad address leaves the whitelist
// untouched.
func (s *Sale) SetWhitelistedBatch(caller account.Account, targets []account.Account, stages []uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwnerOrOperator(caller) {
		return false, access.ErrUnauthorized
	}
	if len(targets) == 0 {
		return false, ErrEmptyBatch
	}
	if len(targets) != len(stages) {
		return false, ErrLengthMismatch
	}
	for _, target := range targets {
		if err := s.checkWhitelistTarget(target); err != nil {
			return false, err
		}
	}

	for i, target := range targets {
		s.applyWhitelist(target, stages[i])
	}
	return true, nil
}

func (s *Sale) checkWhitelistTarget(target account.Account) error {
	if target.IsZero() || target == s.self || target == s.wallet {
		return access.ErrInvalidAddress
	}
	return nil
}

func (s *Sale) applyWhitelist(target account.Account, stage uint64) {
	if stage == 0 {
		delete(s.whitelist, target)
	} else {
		s.whitelist[target] = stage
	}
	s.journal.Append("WhitelistedStatusUpdated", map[string]string{
		"account": target.String(),
		"stage":   strconv.FormatUint(stage, 10),
	})
}
