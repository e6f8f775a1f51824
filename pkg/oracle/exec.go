package oracle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fitchpad/fitchpad-cli/pkg/models"
)

// noTemplateFlag makes the checker skip reading a template from stdin
const noTemplateFlag = "--no-template"

// ExecOracle runs the fitch-proof command line checker. The checker takes
// the proof as a file argument and the template lines on stdin. Format,
// renumbering and LaTeX export run optional filter commands that read the
// proof on stdin and print the result.
type ExecOracle struct {
	command       string
	formatCommand string
	fixCommand    string
	latexCommand  string
	timeout       time.Duration
	logger        *slog.Logger
}

// NewExecOracle configures an oracle from settings
func NewExecOracle(settings models.OracleSettings, logger *slog.Logger) *ExecOracle {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ExecOracle{
		command:       settings.Command,
		formatCommand: settings.FormatCommand,
		fixCommand:    settings.FixLineNumbersCommand,
		latexCommand:  settings.LatexCommand,
		timeout:       settings.Timeout,
		logger:        logger,
	}
}

// parseCommand splits a configured command into program and arguments,
// so commands with flags like "fitch-proof --quiet" work
func parseCommand(command string) (string, []string) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
}

func (o *ExecOracle) run(ctx context.Context, command string, args []string, stdin string) (string, error) {
	name, base := parseCommand(command)
	if name == "" {
		return "", ErrUnsupported
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, append(base, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	o.logger.Debug("ran proof checker", "command", name, "duration", time.Since(start), "error", err)
	if err != nil {
		// the checker reports proof errors on stdout with a zero exit
		// code; anything else is a failure to run it
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("failed to run %s: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("failed to run %s: %w", name, err)
	}
	return strings.TrimRight(stdout.String(), "\r\n"), nil
}

// withProofFile writes the proof to a temporary file for the checker
func withProofFile(proof string, fn func(path string) (string, error)) (string, error) {
	f, err := os.CreateTemp("", "fitchpad-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create proof file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(proof); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write proof file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write proof file: %w", err)
	}
	return fn(f.Name())
}

// SupportsAllowedVariables is false: the command line checker has no flag
// for variable names and always uses its defaults
func (o *ExecOracle) SupportsAllowedVariables() bool {
	return false
}

// CheckProof checks the proof without a template. allowedVariables is
// ignored, see SupportsAllowedVariables.
func (o *ExecOracle) CheckProof(ctx context.Context, proof, allowedVariables string) (string, error) {
	return withProofFile(proof, func(path string) (string, error) {
		return o.run(ctx, o.command, []string{path, noTemplateFlag}, "")
	})
}

// CheckProofWithTemplate checks that the proof derives the template's last
// line from its other lines
func (o *ExecOracle) CheckProofWithTemplate(ctx context.Context, proof string, template []string, allowedVariables string) (string, error) {
	return withProofFile(proof, func(path string) (string, error) {
		return o.run(ctx, o.command, []string{path}, strings.Join(template, "\n")+"\n")
	})
}

func (o *ExecOracle) FormatProof(ctx context.Context, proof string) (string, error) {
	return o.run(ctx, o.formatCommand, nil, proof)
}

func (o *ExecOracle) FixLineNumbers(ctx context.Context, proof string) (string, error) {
	return o.run(ctx, o.fixCommand, nil, proof)
}

func (o *ExecOracle) ExportLatex(ctx context.Context, proof string) (string, error) {
	return o.run(ctx, o.latexCommand, nil, proof)
}
