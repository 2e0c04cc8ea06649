package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	labelStyle     = color.New(color.Faint)
	idStyle        = color.New(color.FgWhite, color.Bold)
	addressStyle   = color.New(color.FgWhite)
	forStyle       = color.New(color.FgGreen)
	againstStyle   = color.New(color.FgRed)
	timestampStyle = color.New(color.Faint)
	headerStyle    = color.New(color.Bold, color.FgHiWhite)

	titleCase = cases.Title(language.English)
)

// StatusColor returns the display color of a proposal status
func StatusColor(s models.ProposalStatus) *color.Color {
	switch s {
	case models.ProposalStatusActive:
		return color.New(color.FgYellow)
	case models.ProposalStatusSucceeded:
		return color.New(color.FgGreen)
	case models.ProposalStatusDefeated:
		return color.New(color.FgRed)
	case models.ProposalStatusExecuted:
		return color.New(color.FgCyan, color.Bold)
	}
	return color.New(color.Reset)
}

// FormatStatus renders a status as a colored title-case word
func FormatStatus(s models.ProposalStatus) string {
	return StatusColor(s).Sprint(titleCase.String(s.String()))
}

// FormatTime renders a unix timestamp in UTC
func FormatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

// WriteJSON writes v as indented JSON
func WriteJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// GovernanceRenderer renders daos, proposals and ballots for the terminal
type GovernanceRenderer struct {
	out io.Writer
}

// NewGovernanceRenderer creates a new governance renderer
func NewGovernanceRenderer(out io.Writer) *GovernanceRenderer {
	return &GovernanceRenderer{out: out}
}

func (r *GovernanceRenderer) field(label string, value any) {
	fmt.Fprintf(r.out, "%s %v\n", labelStyle.Sprintf("%-15s", label+":"), value)
}

// RenderDao renders a dao with its configuration
func (r *GovernanceRenderer) RenderDao(dao *models.Dao, summary *usecase.ProposalSummary) error {
	fmt.Fprintln(r.out, headerStyle.Sprintf("Dao %s", dao.Name))
	r.field("ID", idStyle.Sprint(dao.ID.Hex()))
	r.field("Authority", addressStyle.Sprint(dao.Authority.Hex()))
	r.field("Token", addressStyle.Sprint(dao.CommunityToken.Hex()))
	r.field("Total supply", dao.TotalSupply)
	r.field("Threshold", fmt.Sprintf("%d%% of %s", dao.Config.VotingThreshold, dao.Config.QuorumBasis))
	r.field("Evaluation", dao.Config.Evaluation)
	r.field("Voting time", dao.Config.VotingWindow())
	r.field("Hold-up time", dao.Config.HoldUp())
	r.field("Proposals", dao.ProposalCount)
	r.field("Created", timestampStyle.Sprint(FormatTime(dao.CreatedAt)))

	if summary != nil && summary.Total > 0 {
		fmt.Fprintln(r.out)
		for _, s := range []models.ProposalStatus{
			models.ProposalStatusActive,
			models.ProposalStatusSucceeded,
			models.ProposalStatusDefeated,
			models.ProposalStatusExecuted,
		} {
			if n := summary.ByStatus[s]; n > 0 {
				fmt.Fprintf(r.out, "  %s %d\n", FormatStatus(s), n)
			}
		}
	}
	return nil
}

// RenderDaoList renders daos as a table
func (r *GovernanceRenderer) RenderDaoList(daos []*models.Dao) error {
	if len(daos) == 0 {
		fmt.Fprintln(r.out, "No daos found")
		return nil
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"NAME", "ID", "TOKEN", "THRESHOLD", "PROPOSALS"})
	for _, d := range daos {
		t.AppendRow(table.Row{
			d.Name,
			d.ShortID(),
			d.CommunityToken.Hex(),
			fmt.Sprintf("%d%% %s", d.Config.VotingThreshold, d.Config.QuorumBasis),
			d.ProposalCount,
		})
	}
	t.Render()
	return nil
}

// RenderProposal renders a proposal with its current evaluation
func (r *GovernanceRenderer) RenderProposal(result *usecase.ShowProposalResult) error {
	p := result.Proposal
	fmt.Fprintln(r.out, headerStyle.Sprintf("Proposal #%d of %s", p.Sequence, result.Dao.Name))
	r.field("ID", idStyle.Sprint(p.ID.Hex()))
	r.field("Status", FormatStatus(p.Status))
	r.field("Creator", addressStyle.Sprint(p.Creator.Hex()))
	if p.Description != "" {
		r.field("Description", p.Description)
	}
	r.field("For", forStyle.Sprint(p.ForVotes))
	r.field("Against", againstStyle.Sprint(p.AgainstVotes))
	r.field("Threshold", fmt.Sprintf("%s of %s votes", result.Outcome.ThresholdVotes.Dec(), result.Outcome.TotalVotes.Dec()))
	r.field("Voting ends", timestampStyle.Sprint(FormatTime(p.EndTime)))
	if p.Executed {
		r.field("Executed", timestampStyle.Sprint(FormatTime(p.ExecutedAt)))
	} else {
		r.field("Executable", timestampStyle.Sprint(FormatTime(result.ExecutableAt)))
	}

	if len(result.Votes) > 0 {
		fmt.Fprintln(r.out)
		t := r.newTable()
		t.AppendHeader(table.Row{"VOTER", "CHOICE", "WEIGHT", "CAST"})
		for _, v := range result.Votes {
			choice := forStyle.Sprint(v.Choice)
			if v.Choice == models.VoteAgainst {
				choice = againstStyle.Sprint(v.Choice)
			}
			t.AppendRow(table.Row{v.Voter.Hex(), choice, v.Weight, FormatTime(v.CastAt)})
		}
		t.Render()
	}
	return nil
}

// RenderProposalList renders proposals as a table followed by a status summary
func (r *GovernanceRenderer) RenderProposalList(result *usecase.ProposalListResult) error {
	if len(result.Proposals) == 0 {
		fmt.Fprintln(r.out, "No proposals found")
		return nil
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"#", "ID", "STATUS", "FOR", "AGAINST", "ENDS", "DESCRIPTION"})
	for _, p := range result.Proposals {
		t.AppendRow(table.Row{
			p.Sequence,
			p.ShortID(),
			FormatStatus(p.Status),
			p.ForVotes,
			p.AgainstVotes,
			FormatTime(p.EndTime),
			text.Trim(p.Description, 40),
		})
	}
	t.Render()

	fmt.Fprintf(r.out, "\nTotal: %d proposals\n", result.Summary.Total)
	return nil
}

// RenderVote renders the outcome of a cast ballot
func (r *GovernanceRenderer) RenderVote(result *usecase.CastVoteResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Voted %s with weight %d on %s",
		result.Vote.Choice, result.Vote.Weight, result.Proposal.ShortID())))
	r.field("For", forStyle.Sprint(result.Proposal.ForVotes))
	r.field("Against", againstStyle.Sprint(result.Proposal.AgainstVotes))
	if result.StatusChanged() {
		r.field("Status", fmt.Sprintf("%s → %s", FormatStatus(result.PreviousStatus), FormatStatus(result.Proposal.Status)))
	} else {
		r.field("Status", FormatStatus(result.Proposal.Status))
	}
	return nil
}

// RenderCreatedDao renders a newly registered dao
func (r *GovernanceRenderer) RenderCreatedDao(dao *models.Dao) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Created dao %q", dao.Name)))
	return r.RenderDao(dao, nil)
}

// RenderCreatedProposal renders a newly opened proposal
func (r *GovernanceRenderer) RenderCreatedProposal(p *models.Proposal) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Opened proposal #%d", p.Sequence)))
	r.field("ID", idStyle.Sprint(p.ID.Hex()))
	r.field("Voting ends", timestampStyle.Sprint(FormatTime(p.EndTime)))
	return nil
}

// RenderExecuted renders an executed proposal
func (r *GovernanceRenderer) RenderExecuted(p *models.Proposal) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Executed proposal %s", p.ShortID())))
	r.field("Executed", timestampStyle.Sprint(FormatTime(p.ExecutedAt)))
	return nil
}

func (r *GovernanceRenderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = true
	t.Style().Format.Header = text.FormatDefault
	return t
}
