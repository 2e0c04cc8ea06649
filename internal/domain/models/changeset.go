package models

import "github.com/google/uuid"

type ChangesetModels struct {
	Daos        []*Dao
	Proposals   []*Proposal
	VoteRecords []*VoteRecord
}

func (cm *ChangesetModels) HasChanges() bool {
	return cm.Count() > 0
}

func (cm *ChangesetModels) Count() int {
	return len(cm.Daos) + len(cm.Proposals) + len(cm.VoteRecords)
}

// Changeset is the unit of atomic commit. Either every entry applies or none does.
//
// Create entries must not exist yet. Update entries must carry Revision equal to the
// stored revision plus one; anything else is a concurrent modification.
type Changeset struct {
	ID     uuid.UUID
	Create ChangesetModels
	Update ChangesetModels
}

// NewChangeset returns an empty changeset with a fresh id
func NewChangeset() *Changeset {
	return &Changeset{ID: uuid.New()}
}

func (c *Changeset) HasChanges() bool {
	return c.Count() > 0
}

func (c *Changeset) Count() int {
	return c.Create.Count() + c.Update.Count()
}
