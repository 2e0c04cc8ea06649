package cli

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-dao/internal/adapters/progress"
	"github.com/trebuchet-org/treb-dao/internal/app"
	"github.com/trebuchet-org/treb-dao/internal/config"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treb-dao",
		Short: "Token-weighted DAO governance engine",
		Long: `treb-dao registers daos over a community token, opens proposals,
records token-weighted ballots and executes proposals that passed
once their hold-up period has elapsed.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipAppInit(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot)
			bindGlobalFlags(v, cmd)

			appInstance, err := app.InitApp(v, newProgressSink(v))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// serve runs until interrupted
			if appInstance.Config.Timeout > 0 && cmd.Name() != "serve" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding governance state (defaults to .treb-dao)")
	rootCmd.PersistentFlags().String("snapshot", "", "Token balance snapshot (YAML)")
	rootCmd.PersistentFlags().StringP("account", "a", "", "Acting account address (env TREB_DAO_ACCOUNT)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Governance Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{
		NewDaoCmd(),
		NewProposalCmd(),
		NewVoteCmd(),
		NewExecuteCmd(),
	} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		NewInitCmd(),
		NewServeCmd(),
		NewConfigCmd(),
	} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func skipAppInit(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return true
	}
	return false
}

// globalFlagKeys maps flags to the viper keys read by config.Provider
var globalFlagKeys = map[string]string{
	"debug":           "debug",
	"non-interactive": "non_interactive",
	"json":            "json",
	"data-dir":        "data_dir",
	"snapshot":        "snapshot",
	"account":         "account",
	"addr":            "server_addr",
}

// bindGlobalFlags binds command flags to viper
func bindGlobalFlags(v *viper.Viper, cmd *cobra.Command) {
	// Visit only walks flags that have been changed
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := globalFlagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})
}

// newProgressSink picks a spinner for interactive text output and a no-op sink otherwise
func newProgressSink(v *viper.Viper) usecase.ProgressSink {
	if v.GetBool("json") || v.GetBool("non_interactive") {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerSink()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// actingAccount returns the address given by flag, falling back to the configured account
func actingAccount(cmd *cobra.Command, flag string, fallback string) (common.Address, error) {
	value := fallback
	if f := cmd.Flag(flag); f != nil && f.Changed {
		value = f.Value.String()
	}
	if value == "" {
		return common.Address{}, fmt.Errorf("%w: --%s or --account is required", domain.ErrInvalidIdentity, flag)
	}
	return parseAddress(flag, value)
}

func parseAddress(name, value string) (common.Address, error) {
	addr, err := domain.ParseAddress(value)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", name, err)
	}
	return addr, nil
}

// ExitCode maps an error to the process exit status. Rejected input exits 2.
func ExitCode(err error) int {
	switch domain.KindOf(err) {
	case "":
		return 0
	case domain.KindConfiguration, domain.KindValidation:
		return 2
	}
	return 1
}
