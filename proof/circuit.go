// Package proof produces Groth16 proofs that a purchase was priced
// correctly: that the granted token amount is the floor of
// payment * price * (10000 + bonus) / factor. The prover reveals only the
// public pricing terms; the division remainder stays private.
package proof

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/holiman/uint256"
)

// PricingCircuit encodes the floor division as an exact product plus a
// bounded remainder: payment*price*(bonus+10000) = tokens*factor + r with
// r < factor. Inputs must stay below the BN254 scalar field (~254 bits)
// for the products to be exact; realistic sale amounts are far below that.
type PricingCircuit struct {
	Payment frontend.Variable `gnark:",public"`
	Price   frontend.Variable `gnark:",public"`
	Bonus   frontend.Variable `gnark:",public"`
	Factor  frontend.Variable `gnark:",public"`
	Tokens  frontend.Variable `gnark:",public"`

	Remainder frontend.Variable
}

// Define declares the pricing constraints.
func (c *PricingCircuit) Define(api frontend.API) error {
	gross := api.Mul(c.Payment, c.Price)
	gross = api.Mul(gross, api.Add(c.Bonus, 10000))

	api.AssertIsEqual(gross, api.Add(api.Mul(c.Tokens, c.Factor), c.Remainder))
	api.AssertIsLessOrEqual(c.Remainder, api.Sub(c.Factor, 1))
	return nil
}

// Assignment builds a satisfying witness for a purchase, computing the
// token amount and remainder from the public terms.
func Assignment(payment, price *uint256.Int, bonus uint64, factor *uint256.Int) *PricingCircuit {
	gross := new(big.Int).Mul(payment.ToBig(), price.ToBig())
	gross.Mul(gross, new(big.Int).SetUint64(10000+bonus))

	tokens, remainder := new(big.Int).QuoRem(gross, factor.ToBig(), new(big.Int))

	return &PricingCircuit{
		Payment:   payment.ToBig(),
		Price:     price.ToBig(),
		Bonus:     new(big.Int).SetUint64(bonus),
		Factor:    factor.ToBig(),
		Tokens:    tokens,
		Remainder: remainder,
	}
}
