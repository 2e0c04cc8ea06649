package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-dao/internal/cli/render"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration: treb-dao.toml merged with
TREB_DAO_* environment variables, .env files and global flags.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowConfig.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), map[string]any{
					"configPath": result.ConfigPath,
					"exists":     result.Exists,
					"dataDir":    result.Config.DataDir,
					"snapshot":   result.Config.SnapshotPath,
					"account":    result.Config.Account,
					"serverAddr": result.Config.ServerAddr,
					"timeout":    result.Config.Timeout.String(),
					"defaults":   result.Config.Defaults,
				})
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderConfig(result)
		},
	}
}

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var (
		force    bool
		snapshot string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create treb-dao.toml in the current directory",
		Long: `Create treb-dao.toml with the built-in dao defaults. An existing
file is left untouched unless --force is given.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.InitProject.Run(cmd.Context(), usecase.InitProjectParams{
				Force:        force,
				SnapshotPath: snapshot,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), result)
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderInit(result)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing treb-dao.toml")
	cmd.Flags().StringVar(&snapshot, "snapshot-path", "", "Balance snapshot to record in [snapshot]")

	return cmd
}
