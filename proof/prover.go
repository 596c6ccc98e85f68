package proof

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// Prover holds a compiled pricing circuit with its Groth16 keys. Compile
// once and reuse; Prove and Verify are safe for concurrent use.
type Prover struct {
	curve ecc.ID
	cs    constraint.ConstraintSystem
	pk    groth16.ProvingKey
	vk    groth16.VerifyingKey
}

// NewProver compiles the pricing circuit on BN254 and runs setup.
func NewProver() (*Prover, error) {
	curve := ecc.BN254

	cs, err := frontend.Compile(curve.ScalarField(), r1cs.NewBuilder, &PricingCircuit{})
	if err != nil {
		return nil, fmt.Errorf("circuit compilation failed: %w", err)
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, fmt.Errorf("setup failed: %w", err)
	}

	return &Prover{curve: curve, cs: cs, pk: pk, vk: vk}, nil
}

// Constraints returns the compiled constraint count.
func (p *Prover) Constraints() int {
	return p.cs.GetNbConstraints()
}

// Prove generates a proof for the assignment.
func (p *Prover) Prove(assignment *PricingCircuit) (groth16.Proof, error) {
	w, err := frontend.NewWitness(assignment, p.curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness creation failed: %w", err)
	}
	proof, err := groth16.Prove(p.cs, p.pk, w)
	if err != nil {
		return nil, fmt.Errorf("proof generation failed: %w", err)
	}
	return proof, nil
}

// Verify checks a proof against the public terms of the assignment.
func (p *Prover) Verify(proof groth16.Proof, assignment *PricingCircuit) error {
	w, err := frontend.NewWitness(assignment, p.curve.ScalarField())
	if err != nil {
		return fmt.Errorf("witness creation failed: %w", err)
	}
	public, err := w.Public()
	if err != nil {
		return fmt.Errorf("public witness extraction failed: %w", err)
	}
	return groth16.Verify(proof, p.vk, public)
}

// ProveAndVerify runs the full cycle for an assignment, returning the
// proof when it verifies.
func (p *Prover) ProveAndVerify(assignment *PricingCircuit) (groth16.Proof, error) {
	proof, err := p.Prove(assignment)
	if err != nil {
		return nil, err
	}
	if err := p.Verify(proof, assignment); err != nil {
		return nil, err
	}
	return proof, nil
}
