// Package tally holds the vote arithmetic of the governance engine: checked tally
// accumulation and threshold evaluation in 256-bit integers.
package tally

import (
	"math/bits"

	"github.com/holiman/uint256"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

var hundred = uint256.NewInt(100)

// Add returns current+weight. On overflow current is returned unchanged with ErrVoteOverflow.
func Add(current, weight uint64) (uint64, error) {
	sum, carry := bits.Add64(current, weight, 0)
	if carry != 0 {
		return current, domain.ErrVoteOverflow
	}
	return sum, nil
}

// Accumulate adds weight to the side of p selected by choice.
// p is left untouched when the addition overflows.
func Accumulate(p *models.Proposal, choice models.VoteChoice, weight uint64) error {
	switch choice {
	case models.VoteFor:
		sum, err := Add(p.ForVotes, weight)
		if err != nil {
			return err
		}
		p.ForVotes = sum
	case models.VoteAgainst:
		sum, err := Add(p.AgainstVotes, weight)
		if err != nil {
			return err
		}
		p.AgainstVotes = sum
	default:
		return domain.ErrInvalidVoteChoice
	}
	return nil
}

// ThresholdVotes computes reference × percent / 100 without intermediate overflow.
func ThresholdVotes(reference *uint256.Int, percent uint8) (*uint256.Int, error) {
	product, overflow := new(uint256.Int).MulOverflow(reference, uint256.NewInt(uint64(percent)))
	if overflow {
		return nil, domain.ErrMathOverflow
	}
	return product.Div(product, hundred), nil
}

// Outcome is the threshold evaluation of a proposal's current tallies
type Outcome struct {
	TotalVotes     *uint256.Int
	ThresholdVotes *uint256.Int
	// Decided is true once enough participation has been reached to settle the proposal
	Decided bool
	// Passed is true when the proposal is decided in favour
	Passed bool
}

// Evaluate measures p's tallies against the dao's threshold policy.
func Evaluate(p *models.Proposal, dao *models.Dao) (Outcome, error) {
	forVotes := uint256.NewInt(p.ForVotes)
	againstVotes := uint256.NewInt(p.AgainstVotes)
	total := new(uint256.Int).Add(forVotes, againstVotes)

	switch dao.Config.QuorumBasis {
	case models.QuorumTotalSupply:
		threshold, err := ThresholdVotes(uint256.NewInt(dao.TotalSupply), dao.Config.VotingThreshold)
		if err != nil {
			return Outcome{}, err
		}
		decided := !total.Lt(threshold)
		return Outcome{
			TotalVotes:     total,
			ThresholdVotes: threshold,
			Decided:        decided,
			Passed:         decided && p.ForVotes > p.AgainstVotes,
		}, nil

	case models.QuorumVotesCast:
		threshold, err := ThresholdVotes(total, dao.Config.VotingThreshold)
		if err != nil {
			return Outcome{}, err
		}
		decided := !total.IsZero()
		return Outcome{
			TotalVotes:     total,
			ThresholdVotes: threshold,
			Decided:        decided,
			Passed:         decided && !forVotes.Lt(threshold) && forVotes.Gt(againstVotes),
		}, nil
	}
	return Outcome{}, domain.ErrInvalidQuorumBasis
}

// Resolve maps a decided outcome to the status it settles the proposal in.
// ok is false while the outcome is undecided.
func Resolve(o Outcome) (status models.ProposalStatus, ok bool) {
	if !o.Decided {
		return models.ProposalStatusActive, false
	}
	if o.Passed {
		return models.ProposalStatusSucceeded, true
	}
	return models.ProposalStatusDefeated, true
}
