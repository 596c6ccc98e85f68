package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-tokensale/proof"
)

func prove(args []string) error {
	fs := flag.NewFlagSet("prove", flag.ExitOnError)
	paymentStr := fs.String("payment", "", "Payment amount in base units")
	priceStr := fs.String("price", "", "Tokens per 1000 payment units")
	bonus := fs.Uint64("bonus", 0, "Bonus in basis points")
	decimals := fs.Uint("decimals", 18, "Token decimals")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tokensale prove -payment <amount> -price <rate> [options]

Generate and verify a Groth16 proof that the token amount granted for a
payment matches the pricing formula.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *paymentStr == "" || *priceStr == "" {
		fs.Usage()
		return fmt.Errorf("payment and price required")
	}
	if *decimals > 18 {
		return fmt.Errorf("decimals must be at most 18")
	}

	payment, err := uint256.FromDecimal(*paymentStr)
	if err != nil {
		return fmt.Errorf("parse payment: %w", err)
	}
	price, err := uint256.FromDecimal(*priceStr)
	if err != nil {
		return fmt.Errorf("parse price: %w", err)
	}
	if *bonus > 10000 {
		return fmt.Errorf("bonus must be at most 10000 basis points")
	}

	factor := uint256.NewInt(1)
	for i := uint(0); i < 18-*decimals+7; i++ {
		factor.Mul(factor, uint256.NewInt(10))
	}

	log := newLogger()
	log.Info().Msg("compiling pricing circuit")

	p, err := proof.NewProver()
	if err != nil {
		return err
	}
	log.Info().Int("constraints", p.Constraints()).Msg("circuit compiled")

	assignment := proof.Assignment(payment, price, *bonus, factor)
	if _, err := p.ProveAndVerify(assignment); err != nil {
		return err
	}

	log.Info().
		Str("payment", payment.Dec()).
		Str("price", price.Dec()).
		Uint64("bonus", *bonus).
		Msg("pricing proof verified")
	fmt.Printf("tokens: %s\n", assignment.Tokens)
	return nil
}
