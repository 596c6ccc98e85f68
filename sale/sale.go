// Package sale implements a staged, whitelisted token sale on top of a
// ledger. The sale holds an inventory balance on the ledger and sells from
// it at a configured price, applying stage bonuses, per-account quotas, and
// a time window. All amounts use checked 256-bit arithmetic.
package sale

import (
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-tokensale/access"
	"github.com/pflow-xyz/go-tokensale/account"
	"github.com/pflow-xyz/go-tokensale/journal"
	"github.com/pflow-xyz/go-tokensale/ledger"
)

// bonusScale is the basis-point denominator. A bonus of 2000 means +20%.
const bonusScale = 10000

// Clock supplies the current time. Injected so tests can pin the window.
type Clock func() time.Time

// Sale sells tokens out of its own ledger balance. It starts Uninitialized
// and accepts purchases only after Initialize binds it to a ledger; the
// sale address must hold the ledger's operator role (or ownership) for its
// inventory transfers to clear before the ledger is finalized.
type Sale struct {
	mu sync.RWMutex

	self   account.Account
	wallet account.Account

	ledger *ledger.Ledger
	auth   *access.Authority
	life   *access.Lifecycle
	clock  Clock

	// pricing
	tokensPerKUnit *uint256.Int // tokens granted per 1000 payment units, before bonus
	bonus          uint64       // basis points
	stageBonus     map[uint64]uint64
	factor         *uint256.Int // divisor folding the k-unit and basis-point scales

	// limits
	minContribution *uint256.Int
	maxPerAccount   *uint256.Int // zero means unlimited
	startTime       time.Time
	endTime         time.Time
	suspended       bool

	// staging
	currentStage uint64
	whitelist    map[account.Account]uint64

	// tallies
	purchased      map[account.Account]*uint256.Int
	totalCollected *uint256.Int
	totalSold      *uint256.Int

	journal *journal.Journal
}

// New creates a sale identified by self, owned by owner, forwarding value
// to wallet. Contributions below minContribution are rejected; the minimum
// must be positive and is fixed for the sale's lifetime. A nil clock means
// time.Now. The sale starts at stage 1 and must be initialized with a
// ledger before it can sell.
func New(self, owner, wallet account.Account, minContribution *uint256.Int, j *journal.Journal, clock Clock) (*Sale, error) {
	if wallet.IsZero() || wallet == self || wallet == owner {
		return nil, access.ErrInvalidAddress
	}
	if minContribution == nil || minContribution.IsZero() {
		return nil, ErrOutOfRange
	}
	if clock == nil {
		clock = time.Now
	}
	return &Sale{
		self:            self,
		wallet:          wallet,
		auth:            access.NewAuthority(self, owner, j),
		life:            access.NewLifecycle(access.Uninitialized),
		clock:           clock,
		tokensPerKUnit:  new(uint256.Int),
		stageBonus:      make(map[uint64]uint64),
		minContribution: new(uint256.Int).Set(minContribution),
		maxPerAccount:   new(uint256.Int),
		currentStage:    1,
		whitelist:       make(map[account.Account]uint64),
		purchased:       make(map[account.Account]*uint256.Int),
		totalCollected:  new(uint256.Int),
		totalSold:       new(uint256.Int),
		journal:         j,
	}, nil
}

// Initialize binds the sale to its ledger and derives the pricing divisor
// from the token's decimals. Owner-only, once. The ledger's identity must
// be distinct from every role the sale already knows. Tokens with more
// than 18 decimals cannot be priced per k-unit and are rejected.
func (s *Sale) Initialize(caller account.Account, l *ledger.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsOwner(caller) {
		return access.ErrUnauthorized
	}
	if l == nil {
		return access.ErrInvalidAddress
	}
	id := l.Self()
	if id.IsZero() || id == s.self || id == s.wallet || s.auth.IsOwnerOrOperator(id) {
		return access.ErrInvalidAddress
	}
	d := l.Decimals()
	if d > 18 {
		return ErrOutOfRange
	}
	if err := s.life.Activate(); err != nil {
		return err
	}

	s.ledger = l
	// Payment carries 18 decimals. The k-unit scale contributes 10^3 and
	// the basis-point bonus 10^4, so the divisor is 10^(18-d+7).
	s.factor = exp10(18 - uint(d) + 7)

	s.journal.Append("Initialized", map[string]string{
		"token":  l.Self().String(),
		"wallet": s.wallet.String(),
	})
	return nil
}

func exp10(n uint) *uint256.Int {
	v := uint256.NewInt(1)
	ten := uint256.NewInt(10)
	for i := uint(0); i < n; i++ {
		v.Mul(v, ten)
	}
	return v
}

// Self returns the sale's own identity.
func (s *Sale) Self() account.Account { return s.self }

// Authority exposes the sale's role state.
func (s *Sale) Authority() *access.Authority { return s.auth }

// IsInitialized reports whether a ledger is bound.
func (s *Sale) IsInitialized() bool { return s.life.Phase() != access.Uninitialized }

// IsFinalized reports whether the sale has been closed for good.
func (s *Sale) IsFinalized() bool { return s.life.IsFinalized() }

// Wallet returns the funds destination address.
func (s *Sale) Wallet() account.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallet
}

// TokensPerKUnit returns the pre-bonus price in tokens per 1000 payment
// units.
func (s *Sale) TokensPerKUnit() *uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return new(uint256.Int).Set(s.tokensPerKUnit)
}

// Bonus returns the default bonus in basis points.
func (s *Sale) Bonus() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bonus
}

// StageBonus returns the bonus override for a stage, zero when none is set.
func (s *Sale) StageBonus(stage uint64) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stageBonus[stage]
}

// MinContribution returns the smallest accepted payment.
func (s *Sale) MinContribution() *uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return new(uint256.Int).Set(s.minContribution)
}

// MaxTokensPerAccount returns the per-account purchase quota, zero meaning
// unlimited.
func (s *Sale) MaxTokensPerAccount() *uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return new(uint256.Int).Set(s.maxPerAccount)
}

// Window returns the configured sale window.
func (s *Sale) Window() (start, end time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startTime, s.endTime
}

// IsSuspended reports whether purchases are paused.
func (s *Sale) IsSuspended() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.suspended
}

// CurrentStage returns the active sale stage.
func (s *Sale) CurrentStage() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentStage
}

// WhitelistedStage returns the stage an account was whitelisted for, zero
// when it is not whitelisted at all.
func (s *Sale) WhitelistedStage(a account.Account) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.whitelist[a]
}

// IsWhitelisted reports whether an account may buy in the current stage.
// An account whitelisted for an earlier stage stays eligible as the sale
// advances.
func (s *Sale) IsWhitelisted(a account.Account) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eligible(a)
}

func (s *Sale) eligible(a account.Account) bool {
	stage := s.whitelist[a]
	return stage != 0 && stage <= s.currentStage
}

// TokensPurchased returns the running purchase total for an account.
func (s *Sale) TokensPurchased(a account.Account) *uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.purchased[a]; ok {
		return new(uint256.Int).Set(v)
	}
	return new(uint256.Int)
}

// TotalCollected returns the payment total accepted so far.
func (s *Sale) TotalCollected() *uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return new(uint256.Int).Set(s.totalCollected)
}

// TotalTokensSold returns the token total sold so far.
func (s *Sale) TotalTokensSold() *uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return new(uint256.Int).Set(s.totalSold)
}
