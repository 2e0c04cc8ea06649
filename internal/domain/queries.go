package domain

import "github.com/ethereum/go-ethereum/common"

// ProposalQuery represents a query for finding a single proposal
type ProposalQuery struct {
	// Reference is a full proposal id or a unique hex prefix of one
	Reference string
	// Optional: restrict matches to one dao
	Dao common.Hash
}

// MinReferencePrefix is the shortest hex prefix accepted as a proposal reference
const MinReferencePrefix = 6
