package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

type EventType string

const (
	EventTypeDaoCreated            EventType = "DaoCreated"
	EventTypeProposalCreated       EventType = "ProposalCreated"
	EventTypeVoteCast              EventType = "VoteCast"
	EventTypeProposalStatusChanged EventType = "ProposalStatusChanged"
	EventTypeProposalExecuted      EventType = "ProposalExecuted"
)

// Event is emitted after a governance changeset has been committed
type Event interface {
	EventName() EventType
	String() string
}

// DaoCreatedEvent is emitted when a dao is registered
type DaoCreatedEvent struct {
	Dao       common.Hash
	Authority common.Address
	Name      string
}

func (DaoCreatedEvent) EventName() EventType {
	return EventTypeDaoCreated
}

func (e DaoCreatedEvent) String() string {
	return fmt.Sprintf("%s: dao=%s, name=%q, authority=%s",
		e.EventName(),
		e.Dao.Hex()[:10]+"...",
		e.Name,
		e.Authority.Hex()[:10]+"...",
	)
}

// ProposalCreatedEvent is emitted when a proposal opens for voting
type ProposalCreatedEvent struct {
	Dao      common.Hash
	Proposal common.Hash
	Creator  common.Address
	EndTime  int64
}

func (ProposalCreatedEvent) EventName() EventType {
	return EventTypeProposalCreated
}

func (e ProposalCreatedEvent) String() string {
	return fmt.Sprintf("%s: proposal=%s, dao=%s, ends=%d",
		e.EventName(),
		e.Proposal.Hex()[:10]+"...",
		e.Dao.Hex()[:10]+"...",
		e.EndTime,
	)
}

// VoteCastEvent is emitted once per accepted ballot
type VoteCastEvent struct {
	Proposal common.Hash
	Voter    common.Address
	Choice   string
	Weight   uint64
}

func (VoteCastEvent) EventName() EventType {
	return EventTypeVoteCast
}

func (e VoteCastEvent) String() string {
	return fmt.Sprintf("%s: proposal=%s, voter=%s, choice=%s, weight=%d",
		e.EventName(),
		e.Proposal.Hex()[:10]+"...",
		e.Voter.Hex()[:10]+"...",
		e.Choice,
		e.Weight,
	)
}

// ProposalStatusChangedEvent is emitted when a proposal leaves a status
type ProposalStatusChangedEvent struct {
	Proposal common.Hash
	From     string
	To       string
}

func (ProposalStatusChangedEvent) EventName() EventType {
	return EventTypeProposalStatusChanged
}

func (e ProposalStatusChangedEvent) String() string {
	return fmt.Sprintf("%s: proposal=%s, %s -> %s",
		e.EventName(),
		e.Proposal.Hex()[:10]+"...",
		e.From,
		e.To,
	)
}

// ProposalExecutedEvent is emitted when a proposal is executed
type ProposalExecutedEvent struct {
	Proposal   common.Hash
	ExecutedAt int64
}

func (ProposalExecutedEvent) EventName() EventType {
	return EventTypeProposalExecuted
}

func (e ProposalExecutedEvent) String() string {
	return fmt.Sprintf("%s: proposal=%s, at=%d",
		e.EventName(),
		e.Proposal.Hex()[:10]+"...",
		e.ExecutedAt,
	)
}
