package models

import "github.com/ethereum/go-ethereum/common"

// ProposalFilter defines filtering options for proposals
type ProposalFilter struct {
	Dao    common.Hash     // zero matches every dao
	Status *ProposalStatus // nil matches every status
}

// Matches reports whether p passes the filter
func (f ProposalFilter) Matches(p *Proposal) bool {
	if f.Dao != (common.Hash{}) && p.Dao != f.Dao {
		return false
	}
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	return true
}
