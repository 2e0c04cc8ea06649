package cli

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-dao/internal/api"
	"github.com/trebuchet-org/treb-dao/internal/cli/render"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// NewProposalCmd creates the proposal command group
func NewProposalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposal",
		Aliases: []string{"proposals", "p"},
		Short:   "Open and inspect proposals",
	}

	cmd.AddCommand(newProposalCreateCmd())
	cmd.AddCommand(newProposalShowCmd())
	cmd.AddCommand(newProposalListCmd())

	return cmd
}

func newProposalCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <dao>",
		Short: "Open a proposal on a dao",
		Long: `Open a proposal on a dao. Voting starts immediately and stays open
for the dao's voting time.

Examples:
  treb-dao proposal create treasury -d "Fund the audit" --creator 0x...`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			creator, err := actingAccount(cmd, "creator", app.Config.Account)
			if err != nil {
				return err
			}
			dao, err := app.DaoResolver.ResolveDao(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			proposal, err := app.CreateProposal.Run(cmd.Context(), usecase.CreateProposalParams{
				Dao:         dao.ID,
				Creator:     creator,
				Description: description,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), api.ProposalResponse{Proposal: proposal})
			}
			return render.NewGovernanceRenderer(cmd.OutOrStdout()).RenderCreatedProposal(proposal)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Proposal description")
	cmd.Flags().String("creator", "", "Creator address (defaults to --account)")

	return cmd
}

func newProposalShowCmd() *cobra.Command {
	var includeVotes bool

	cmd := &cobra.Command{
		Use:   "show <proposal>",
		Short: "Show a proposal with its tallies and evaluation",
		Long: `Show a proposal with its tallies and evaluation.

The proposal can be referenced by full id or by an id prefix of at
least 6 hex characters. An ambiguous prefix opens a picker unless
--non-interactive is set.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowProposal.Run(cmd.Context(), usecase.ShowProposalParams{
				Reference:    args[0],
				IncludeVotes: includeVotes,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), api.NewProposalResponse(result))
			}
			return render.NewGovernanceRenderer(cmd.OutOrStdout()).RenderProposal(result)
		},
	}

	cmd.Flags().BoolVar(&includeVotes, "votes", false, "Include the ballots cast")

	return cmd
}

func newProposalListCmd() *cobra.Command {
	var (
		daoRef string
		status string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List proposals",
		Long: `List proposals, optionally filtered by dao and status.

Examples:
  treb-dao proposal list
  treb-dao proposal list --dao treasury --status active`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			statusFilter, err := parseStatusFlag(status)
			if err != nil {
				return err
			}

			var daoID common.Hash
			if daoRef != "" {
				dao, err := app.DaoResolver.ResolveDao(cmd.Context(), daoRef)
				if err != nil {
					return err
				}
				daoID = dao.ID
			}

			result, err := app.ListProposals.Run(cmd.Context(), usecase.ListProposalsParams{
				Dao:    daoID,
				Status: statusFilter,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), api.NewProposalListResponse(result))
			}
			return render.NewGovernanceRenderer(cmd.OutOrStdout()).RenderProposalList(result)
		},
	}

	cmd.Flags().StringVar(&daoRef, "dao", "", "Only proposals of this dao")
	cmd.Flags().StringVar(&status, "status", "", "Only proposals in this status (active, succeeded, defeated, executed)")

	return cmd
}
