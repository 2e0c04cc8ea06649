// Package api defines the JSON documents returned by the HTTP server and
// printed by the CLI in --json mode.
package api

import (
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// SummaryResponse counts proposals by status
type SummaryResponse struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

// DaoResponse is a dao with its proposal summary
type DaoResponse struct {
	Dao       *models.Dao      `json:"dao"`
	Proposals *SummaryResponse `json:"proposals,omitempty"`
}

// OutcomeResponse is the current evaluation of a proposal
type OutcomeResponse struct {
	TotalVotes     string `json:"totalVotes"`
	ThresholdVotes string `json:"thresholdVotes"`
	Decided        bool   `json:"decided"`
	Passed         bool   `json:"passed"`
}

// ProposalResponse is a proposal with its evaluation
type ProposalResponse struct {
	Proposal     *models.Proposal     `json:"proposal"`
	Outcome      *OutcomeResponse     `json:"outcome,omitempty"`
	ExecutableAt int64                `json:"executableAt,omitempty"`
	Votes        []*models.VoteRecord `json:"votes,omitempty"`
}

// ProposalListResponse is a filtered proposal listing
type ProposalListResponse struct {
	Proposals []*models.Proposal `json:"proposals"`
	Summary   SummaryResponse    `json:"summary"`
}

// VoteResponse is a cast ballot and the proposal it landed on
type VoteResponse struct {
	Proposal      *models.Proposal   `json:"proposal"`
	Vote          *models.VoteRecord `json:"vote"`
	StatusChanged bool               `json:"statusChanged"`
}

// NewSummaryResponse converts a proposal summary into its JSON form
func NewSummaryResponse(s usecase.ProposalSummary) *SummaryResponse {
	byStatus := make(map[string]int, len(s.ByStatus))
	for status, n := range s.ByStatus {
		byStatus[status.String()] = n
	}
	return &SummaryResponse{Total: s.Total, ByStatus: byStatus}
}

// NewDaoResponse pairs a shown dao with its summary
func NewDaoResponse(result *usecase.ShowDaoResult) DaoResponse {
	return DaoResponse{
		Dao:       result.Dao,
		Proposals: NewSummaryResponse(result.Proposals),
	}
}

// NewProposalResponse converts a shown proposal into its JSON form
func NewProposalResponse(result *usecase.ShowProposalResult) ProposalResponse {
	return ProposalResponse{
		Proposal: result.Proposal,
		Outcome: &OutcomeResponse{
			TotalVotes:     result.Outcome.TotalVotes.Dec(),
			ThresholdVotes: result.Outcome.ThresholdVotes.Dec(),
			Decided:        result.Outcome.Decided,
			Passed:         result.Outcome.Passed,
		},
		ExecutableAt: result.ExecutableAt,
		Votes:        result.Votes,
	}
}

// NewProposalListResponse converts a listing; an empty listing encodes as [].
func NewProposalListResponse(result *usecase.ProposalListResult) ProposalListResponse {
	proposals := result.Proposals
	if proposals == nil {
		proposals = []*models.Proposal{}
	}
	return ProposalListResponse{
		Proposals: proposals,
		Summary:   *NewSummaryResponse(result.Summary),
	}
}

// NewVoteResponse converts a cast ballot into its JSON form
func NewVoteResponse(result *usecase.CastVoteResult) VoteResponse {
	return VoteResponse{
		Proposal:      result.Proposal,
		Vote:          result.Vote,
		StatusChanged: result.StatusChanged(),
	}
}
