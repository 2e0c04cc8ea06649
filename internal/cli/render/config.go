package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	if path == "" {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}

func orNotSet(value string) string {
	if value == "" {
		return labelStyle.Sprint("(not set)")
	}
	return value
}

// RenderConfig renders the effective configuration
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	cfg := result.Config

	if result.Exists {
		fmt.Fprintf(r.out, "📦 Config source: %s\n", getRelativePath(result.ConfigPath))
	} else {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("No %s found, using built-in defaults", filepath.Base(result.ConfigPath))))
	}
	fmt.Fprintln(r.out)

	fmt.Fprintf(r.out, "Data dir:     %s\n", getRelativePath(cfg.DataDir))
	fmt.Fprintf(r.out, "Snapshot:     %s\n", orNotSet(getRelativePath(cfg.SnapshotPath)))
	fmt.Fprintf(r.out, "Account:      %s\n", orNotSet(cfg.Account))
	fmt.Fprintf(r.out, "Server addr:  %s\n", cfg.ServerAddr)
	fmt.Fprintf(r.out, "Timeout:      %s\n", cfg.Timeout)

	fmt.Fprintln(r.out)
	color.New(color.FgCyan, color.Bold).Fprintln(r.out, "Dao defaults:")
	d := cfg.Defaults
	fmt.Fprintf(r.out, "  threshold     %d%%\n", d.VotingThreshold)
	fmt.Fprintf(r.out, "  voting time   %s\n", d.VotingTime)
	fmt.Fprintf(r.out, "  hold-up time  %s\n", d.HoldUpTime)
	fmt.Fprintf(r.out, "  quorum basis  %s\n", d.QuorumBasis)
	fmt.Fprintf(r.out, "  evaluation    %s\n", d.Evaluation)

	return nil
}

// RenderInit renders the result of initializing a project
func (r *ConfigRenderer) RenderInit(result *usecase.InitProjectResult) error {
	path := getRelativePath(result.ConfigPath)
	if result.AlreadyInitialized {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s already exists (use --force to overwrite)", path)))
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Created %s", path)))
	fmt.Fprintln(r.out)
	color.New(color.FgCyan, color.Bold).Fprintln(r.out, "📋 Next steps:")
	fmt.Fprintln(r.out, "1. Point [snapshot] path at a YAML file of token balances")
	fmt.Fprintln(r.out, "2. Register a dao:")
	color.New(color.FgHiBlack).Fprintln(r.out, "   treb-dao dao create <name> --token <address> --account <address>")
	fmt.Fprintln(r.out, "3. Open a proposal and vote:")
	color.New(color.FgHiBlack).Fprintln(r.out, "   treb-dao proposal create <name> -d \"...\"")
	color.New(color.FgHiBlack).Fprintln(r.out, "   treb-dao vote <proposal> for")
	return nil
}
