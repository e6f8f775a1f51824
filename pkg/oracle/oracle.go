package oracle

import (
	"context"
	"errors"
)

// InvalidSentinel is returned by the formatter for proofs it cannot format
const InvalidSentinel = "invalid"

var (
	// ErrUnsupported is returned for operations the oracle is not configured for
	ErrUnsupported = errors.New("operation not supported by proof checker")
	// ErrUnformattable is returned when the formatter answered InvalidSentinel
	ErrUnformattable = errors.New("proof cannot be formatted")
)

// Oracle is the external proof checker. Proofs and results are plain text
// in Fitch notation.
type Oracle interface {
	CheckProof(ctx context.Context, proof, allowedVariables string) (string, error)
	CheckProofWithTemplate(ctx context.Context, proof string, template []string, allowedVariables string) (string, error)
	FormatProof(ctx context.Context, proof string) (string, error)
	FixLineNumbers(ctx context.Context, proof string) (string, error)
	ExportLatex(ctx context.Context, proof string) (string, error)
}

// VariableRestrictor is implemented by oracles that report whether they
// honour the allowed variable names passed to the checks
type VariableRestrictor interface {
	SupportsAllowedVariables() bool
}

// SupportsAllowedVariables reports whether o uses the allowed variable
// names. Oracles that do not say otherwise are assumed to.
func SupportsAllowedVariables(o Oracle) bool {
	if r, ok := o.(VariableRestrictor); ok {
		return r.SupportsAllowedVariables()
	}
	return true
}

// Format runs the formatter and turns the invalid sentinel into ErrUnformattable
func Format(ctx context.Context, o Oracle, proof string) (string, error) {
	formatted, err := o.FormatProof(ctx, proof)
	if err != nil {
		return "", err
	}
	if formatted == InvalidSentinel {
		return "", ErrUnformattable
	}
	return formatted, nil
}
