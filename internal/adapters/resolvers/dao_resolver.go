package resolvers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// DaoResolver resolves dao references
type DaoResolver struct {
	repo usecase.DaoRepository
}

// NewDaoResolver creates a new dao resolver
func NewDaoResolver(repo usecase.GovernanceRepository) *DaoResolver {
	return &DaoResolver{repo: repo}
}

// ResolveDao accepts, in order, a full dao id, an exact dao name or a unique id prefix.
// Names are only unique per authority, so a shared name is ambiguous.
func (r *DaoResolver) ResolveDao(ctx context.Context, reference string) (*models.Dao, error) {
	if id, err := domain.ParseHash(reference); err == nil {
		dao, err := r.repo.GetDao(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("dao %s: %w", id.Hex(), err)
		}
		return dao, nil
	}

	daos, err := r.repo.ListDaos(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list daos: %w", err)
	}

	var matches []*models.Dao
	for _, d := range daos {
		if d.Name == reference {
			matches = append(matches, d)
		}
	}

	if len(matches) == 0 {
		prefix, ok := domain.NormalizePrefix(reference)
		if ok && len(prefix) >= domain.MinReferencePrefix {
			for _, d := range daos {
				if strings.HasPrefix(strings.TrimPrefix(d.ID.Hex(), "0x"), prefix) {
					matches = append(matches, d)
				}
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("dao %q: %w", reference, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	}

	ids := make([]string, len(matches))
	for i, d := range matches {
		ids[i] = d.ID.Hex()
	}
	sort.Strings(ids)
	return nil, domain.AmbiguousReferenceErr{Reference: reference, Matches: ids}
}

var _ usecase.DaoResolver = (*DaoResolver)(nil)
