package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-tokensale/account"
	"github.com/pflow-xyz/go-tokensale/journal"
	"github.com/pflow-xyz/go-tokensale/ledger"
	"github.com/pflow-xyz/go-tokensale/sale"
)

func demo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	dbPath := fs.String("db", "", "Persist the event journal to a SQLite database")
	jsonlPath := fs.String("jsonl", "", "Write the event journal as JSON lines")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tokensale demo [options]

Run a scripted sale end to end: create a token, fund the sale, whitelist
buyers, take purchases across two stages, reclaim the remainder, and
finalize.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	log := newLogger()

	var (
		tokenAddr = account.MustFromHex("0x00000000000000000000000000000000000000aa")
		saleAddr  = account.MustFromHex("0x00000000000000000000000000000000000000bb")
		owner     = account.MustFromHex("0x0000000000000000000000000000000000000001")
		wallet    = account.MustFromHex("0x0000000000000000000000000000000000000002")
		alice     = account.MustFromHex("0x0000000000000000000000000000000000000010")
		bob       = account.MustFromHex("0x0000000000000000000000000000000000000011")
	)

	j := journal.New()

	supply, _ := uint256.FromDecimal("500000000000000000000000000")
	l, err := ledger.New(tokenAddr, owner, "Example Token", "EXT", 18, supply, j)
	if err != nil {
		return err
	}
	log.Info().Str("token", tokenAddr.String()).Str("supply", supply.Dec()).Msg("token created")

	if _, err := l.Authority().SetOperator(owner, saleAddr); err != nil {
		return err
	}
	inventory, _ := uint256.FromDecimal("150000000000000000000000000")
	if err := l.Transfer(owner, saleAddr, inventory); err != nil {
		return err
	}

	s, err := sale.New(saleAddr, owner, wallet, uint256.NewInt(1), j, nil)
	if err != nil {
		return err
	}
	if err := s.Initialize(owner, l); err != nil {
		return err
	}
	if _, err := s.SetTokensPerKUnit(owner, uint256.NewInt(1700000)); err != nil {
		return err
	}
	if _, err := s.SetBonus(owner, 2000); err != nil {
		return err
	}
	if _, err := s.SetStageBonus(owner, 1, 3000); err != nil {
		return err
	}
	now := time.Now()
	if _, err := s.SetSaleWindow(owner, now.Add(-time.Minute), now.Add(24*time.Hour)); err != nil {
		return err
	}
	if _, err := s.SetWhitelistedBatch(owner, []account.Account{alice, bob}, []uint64{1, 2}); err != nil {
		return err
	}
	log.Info().Str("sale", saleAddr.String()).Str("inventory", inventory.Dec()).Msg("sale configured")

	payment, _ := uint256.FromDecimal("100000000000000000")
	r, err := s.BuyTokens(alice, alice, payment)
	if err != nil {
		return err
	}
	log.Info().
		Str("buyer", alice.String()).
		Str("tokens", r.Tokens.Dec()).
		Str("cost", r.Cost.Dec()).
		Uint64("bonus", r.Bonus).
		Msg("stage 1 purchase")

	if _, err := s.SetCurrentStage(owner, 2); err != nil {
		return err
	}
	r, err = s.BuyTokens(bob, bob, payment)
	if err != nil {
		return err
	}
	log.Info().
		Str("buyer", bob.String()).
		Str("tokens", r.Tokens.Dec()).
		Str("cost", r.Cost.Dec()).
		Uint64("bonus", r.Bonus).
		Msg("stage 2 purchase")

	reclaimed, err := s.ReclaimTokens(owner)
	if err != nil {
		return err
	}
	if err := s.Finalize(owner); err != nil {
		return err
	}
	if err := l.Finalize(owner); err != nil {
		return err
	}
	log.Info().
		Str("reclaimed", reclaimed.Dec()).
		Str("sold", s.TotalTokensSold().Dec()).
		Str("collected", s.TotalCollected().Dec()).
		Msg("sale finalized")

	if *jsonlPath != "" {
		f, err := os.Create(*jsonlPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := journal.WriteJSONL(f, j.Entries()); err != nil {
			return fmt.Errorf("write journal: %w", err)
		}
		log.Info().Str("path", *jsonlPath).Int("entries", j.Len()).Msg("journal written")
	}

	if *dbPath != "" {
		store, err := journal.OpenStore(*dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()
		if err := store.AppendAll(j.Entries()); err != nil {
			return fmt.Errorf("persist journal: %w", err)
		}
		log.Info().Str("path", *dbPath).Int("entries", j.Len()).Msg("journal persisted")
	}

	return nil
}
