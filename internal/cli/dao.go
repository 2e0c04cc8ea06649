package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-dao/internal/api"
	"github.com/trebuchet-org/treb-dao/internal/cli/render"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// NewDaoCmd creates the dao command group
func NewDaoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dao",
		Short: "Register and inspect daos",
	}

	cmd.AddCommand(newDaoCreateCmd())
	cmd.AddCommand(newDaoShowCmd())
	cmd.AddCommand(newDaoListCmd())

	return cmd
}

type daoCreateFlags struct {
	authority   string
	token       string
	threshold   uint8
	votingTime  string
	holdUp      string
	basis       string
	evaluation  string
	totalSupply uint64
}

func newDaoCreateCmd() *cobra.Command {
	var flags daoCreateFlags

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a new dao over a community token",
		Long: `Register a new dao over a community token.

Settings not given as flags come from the [defaults] section of
treb-dao.toml. When --total-supply is omitted it is read from the
configured balance snapshot.

Examples:
  treb-dao dao create treasury --token 0x... --authority 0x...
  treb-dao dao create grants --token 0x... --threshold 60 --voting-time 72h
  treb-dao dao create signal --token 0x... --quorum-basis votes-cast --evaluation deferred`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params, err := flags.params(cmd, app.Config, args[0])
			if err != nil {
				return err
			}

			dao, err := app.CreateDao.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), dao)
			}
			return render.NewGovernanceRenderer(cmd.OutOrStdout()).RenderCreatedDao(dao)
		},
	}

	cmd.Flags().StringVar(&flags.authority, "authority", "", "Authority address (defaults to --account)")
	cmd.Flags().StringVarP(&flags.token, "token", "t", "", "Community token address")
	cmd.Flags().Uint8Var(&flags.threshold, "threshold", 0, "Voting threshold in percent (1-100)")
	cmd.Flags().StringVar(&flags.votingTime, "voting-time", "", "Voting window, e.g. 168h")
	cmd.Flags().StringVar(&flags.holdUp, "hold-up", "", "Delay between end of voting and execution, e.g. 24h")
	cmd.Flags().StringVar(&flags.basis, "quorum-basis", "", "Threshold reference: total-supply or votes-cast")
	cmd.Flags().StringVar(&flags.evaluation, "evaluation", "", "When the outcome is decided: eager or deferred")
	cmd.Flags().Uint64Var(&flags.totalSupply, "total-supply", 0, "Community token total supply")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

// params merges the flags that were given over the configured defaults
func (f *daoCreateFlags) params(cmd *cobra.Command, cfg *config.RuntimeConfig, name string) (usecase.CreateDaoParams, error) {
	authority, err := actingAccount(cmd, "authority", cfg.Account)
	if err != nil {
		return usecase.CreateDaoParams{}, err
	}
	token, err := parseAddress("token", f.token)
	if err != nil {
		return usecase.CreateDaoParams{}, err
	}

	defaults := cfg.Defaults
	changed := cmd.Flags().Changed
	if changed("threshold") {
		defaults.VotingThreshold = f.threshold
	}
	if changed("voting-time") {
		defaults.VotingTime = f.votingTime
	}
	if changed("hold-up") {
		defaults.HoldUpTime = f.holdUp
	}
	if changed("quorum-basis") {
		defaults.QuorumBasis = f.basis
	}
	if changed("evaluation") {
		defaults.Evaluation = f.evaluation
	}

	daoConfig, err := defaults.DaoConfig()
	if err != nil {
		return usecase.CreateDaoParams{}, err
	}

	params := usecase.CreateDaoParams{
		Authority:      authority,
		Name:           name,
		CommunityToken: token,
		Config:         daoConfig,
	}
	if changed("total-supply") {
		supply := f.totalSupply
		params.TotalSupply = &supply
	}
	return params, nil
}

func newDaoShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <dao>",
		Short: "Show a dao and a summary of its proposals",
		Long: `Show a dao and a summary of its proposals.

The dao can be referenced by name, by full id or by an id prefix.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dao, err := app.DaoResolver.ResolveDao(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			result, err := app.ShowDao.Run(cmd.Context(), usecase.ShowDaoParams{Dao: dao.ID})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), api.NewDaoResponse(result))
			}
			return render.NewGovernanceRenderer(cmd.OutOrStdout()).RenderDao(result.Dao, &result.Proposals)
		},
	}
}

func newDaoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Aliases:      []string{"ls"},
		Short:        "List registered daos",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			daos, err := app.ListDaos.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				if daos == nil {
					daos = []*models.Dao{}
				}
				return render.WriteJSON(cmd.OutOrStdout(), daos)
			}
			return render.NewGovernanceRenderer(cmd.OutOrStdout()).RenderDaoList(daos)
		},
	}
}

func parseStatusFlag(value string) (*models.ProposalStatus, error) {
	if value == "" {
		return nil, nil
	}
	status, err := models.ParseProposalStatus(value)
	if err != nil {
		return nil, fmt.Errorf("--status: %w", err)
	}
	return &status, nil
}
