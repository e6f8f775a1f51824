package oracle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/fitchpad/fitchpad-cli/pkg/fitch"
)

const (
	correctPrefix = "The proof is correct!"
	fatalPrefix   = "Fatal error"
	// targetReachedMarker appears in template check results that succeeded
	targetReachedMarker = "correct"
)

// Status classifies checker feedback
type Status int

const (
	StatusWarning Status = iota
	StatusCorrect
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusCorrect:
		return "correct"
	case StatusFatal:
		return "fatal"
	default:
		return "warning"
	}
}

// Classify maps a checker message to its status
func Classify(message string) Status {
	switch {
	case strings.HasPrefix(message, correctPrefix):
		return StatusCorrect
	case strings.HasPrefix(message, fatalPrefix):
		return StatusFatal
	default:
		return StatusWarning
	}
}

var lineRefPattern = regexp.MustCompile(`(?i)line\s+(\d+)`)

// DiagnosticRow finds the editor row a message refers to through its
// first "line <N>" mention
func DiagnosticRow(proof, message string) (int, bool) {
	m := lineRefPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return fitch.EditorRow(fitch.SplitLines(proof), n)
}

// Report is the feedback for one proof text
type Report struct {
	Message string
	Status  Status
	// Row is the editor row the message points at, valid when HasRow
	Row    int
	HasRow bool
	// TargetReached is set when the proof derives the tab's target
	TargetReached bool
}

// Checker turns oracle answers into reports. Oracle failures become fatal
// reports rather than errors.
type Checker struct {
	oracle           Oracle
	allowedVariables string
	logger           *slog.Logger
}

// ValidateAllowedVariables checks a comma separated list of variable names.
// An empty list is valid.
func ValidateAllowedVariables(list string) error {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("variable list contains an empty name: %q", list)
		}
		if strings.ContainsAny(name, " \t|()") {
			return fmt.Errorf("invalid variable name: %q", name)
		}
	}
	return nil
}

// NewChecker creates a checker
func NewChecker(o Oracle, allowedVariables string, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Checker{oracle: o, allowedVariables: allowedVariables, logger: logger}
}

// AllowedVariables returns the variable names passed to the oracle
func (c *Checker) AllowedVariables() string {
	return c.allowedVariables
}

// SetAllowedVariables changes the variable names passed to the oracle
func (c *Checker) SetAllowedVariables(names string) {
	c.allowedVariables = names
}

// Check verifies the proof and, when target is not empty, whether the proof
// derives target from its premises.
func (c *Checker) Check(ctx context.Context, proof, target string) Report {
	message, err := c.oracle.CheckProof(ctx, proof, c.allowedVariables)
	if err != nil {
		c.logger.Warn("proof check failed", "error", err)
		return Report{Message: fmt.Sprintf("%s: %v", fatalPrefix, err), Status: StatusFatal}
	}

	report := Report{Message: message, Status: Classify(message)}
	report.Row, report.HasRow = DiagnosticRow(proof, message)

	if strings.TrimSpace(target) == "" {
		return report
	}

	template := append(fitch.Premises(fitch.SplitLines(proof)), target)
	result, err := c.oracle.CheckProofWithTemplate(ctx, proof, template, c.allowedVariables)
	if err != nil {
		c.logger.Warn("target check failed", "error", err)
		return report
	}
	report.TargetReached = strings.Contains(result, targetReachedMarker)
	return report
}
