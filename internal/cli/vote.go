package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-dao/internal/api"
	"github.com/trebuchet-org/treb-dao/internal/cli/render"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// NewVoteCmd creates the vote command
func NewVoteCmd() *cobra.Command {
	var weight uint64

	cmd := &cobra.Command{
		Use:   "vote <proposal> [for|against]",
		Short: "Cast a token-weighted ballot on a proposal",
		Long: `Cast a token-weighted ballot on a proposal. Each account votes once.

The ballot weight defaults to the voter's balance of the dao's community
token in the configured snapshot. When the choice is omitted it is
prompted for.

Examples:
  treb-dao vote 0x1a2b3c for --voter 0x...
  treb-dao vote 0x1a2b3c against --weight 500`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			voter, err := actingAccount(cmd, "voter", app.Config.Account)
			if err != nil {
				return err
			}

			proposal, err := app.ProposalResolver.ResolveProposal(ctx, domain.ProposalQuery{Reference: args[0]})
			if err != nil {
				return err
			}

			var choice models.VoteChoice
			switch {
			case len(args) == 2:
				choice, err = models.ParseVoteChoice(args[1])
			case app.Config.NonInteractive:
				err = fmt.Errorf("%w: choice is required in non-interactive mode", domain.ErrInvalidVoteChoice)
			default:
				choice, err = app.Prompter.PromptVoteChoice(ctx, proposal)
			}
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("weight") {
				power, err := app.ResolveVotingPower.Run(ctx, usecase.ResolveVotingPowerParams{
					Proposal: proposal.ID,
					Voter:    voter,
				})
				if err != nil {
					return fmt.Errorf("failed to resolve voting power (pass --weight to skip): %w", err)
				}
				weight = power.Weight
			}

			result, err := app.CastVote.Run(ctx, usecase.CastVoteParams{
				Proposal: proposal.ID,
				Voter:    voter,
				Choice:   choice,
				Weight:   weight,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), api.NewVoteResponse(result))
			}
			return render.NewGovernanceRenderer(cmd.OutOrStdout()).RenderVote(result)
		},
	}

	cmd.Flags().String("voter", "", "Voter address (defaults to --account)")
	cmd.Flags().Uint64Var(&weight, "weight", 0, "Ballot weight (defaults to the snapshot balance)")

	return cmd
}

// NewExecuteCmd creates the execute command
func NewExecuteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "execute <proposal>",
		Short: "Execute a passed proposal after its hold-up period",
		Long: `Execute a passed proposal. Execution is allowed once voting has
ended and the dao's hold-up time has elapsed, and only once.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			proposal, err := app.ProposalResolver.ResolveProposal(cmd.Context(), domain.ProposalQuery{Reference: args[0]})
			if err != nil {
				return err
			}

			executed, err := app.ExecuteProposal.Run(cmd.Context(), usecase.ExecuteProposalParams{Proposal: proposal.ID})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), api.ProposalResponse{Proposal: executed})
			}
			return render.NewGovernanceRenderer(cmd.OutOrStdout()).RenderExecuted(executed)
		},
	}
}
