package governance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofrs/flock"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

const (
	StateFile = "governance.json"
	LockFile  = "governance.lock"

	// StateVersion is bumped whenever the persisted record shapes change incompatibly
	StateVersion = 1

	lockRetryDelay = 20 * time.Millisecond
)

// stateEnvelope is the on-disk layout of StateFile
type stateEnvelope struct {
	Version   int                  `json:"version"`
	Daos      []*models.Dao        `json:"daos"`
	Proposals []*models.Proposal   `json:"proposals"`
	Votes     []*models.VoteRecord `json:"votes"`
}

// FileRepository stores governance records in a json file in the data directory.
// Writers in other processes are excluded with an advisory file lock.
type FileRepository struct {
	dataDir string
	log     *slog.Logger
	fileLck *flock.Flock
	// writeMu serialises writers in this process; fileLck alone is re-entrant per instance
	writeMu sync.Mutex

	mu      sync.RWMutex
	state   *state
	modTime time.Time
	size    int64
}

// NewFileRepository creates the data directory if needed and loads existing records
func NewFileRepository(dataDir string, log *slog.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := &FileRepository{
		dataDir: dataDir,
		log:     log.With("component", "governance-store"),
		fileLck: flock.New(filepath.Join(dataDir, LockFile)),
		state:   newState(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load governance state: %w", err)
	}

	return r, nil
}

func (r *FileRepository) statePath() string {
	return filepath.Join(r.dataDir, StateFile)
}

// load replaces the cached state with the file contents. Callers hold r.mu.
func (r *FileRepository) load() error {
	path := r.statePath()
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		r.state = newState()
		r.modTime, r.size = time.Time{}, 0
		return nil
	}
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var env stateEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to parse %s: %w", StateFile, err)
	}
	if env.Version != StateVersion {
		return fmt.Errorf("unsupported %s version %d (expected %d)", StateFile, env.Version, StateVersion)
	}

	st := newState()
	for _, dao := range env.Daos {
		st.daos[dao.ID] = dao
	}
	for _, p := range env.Proposals {
		st.proposals[p.ID] = p
	}
	for _, v := range env.Votes {
		st.insertVote(v)
	}

	r.state = st
	r.modTime, r.size = info.ModTime(), info.Size()
	return nil
}

// save writes st to disk through a temp file and an atomic rename
func (r *FileRepository) save(st *state) error {
	env := stateEnvelope{
		Version:   StateVersion,
		Daos:      st.listDaos(),
		Proposals: st.listProposals(models.ProposalFilter{}),
		Votes:     make([]*models.VoteRecord, 0, len(st.votes)),
	}
	for _, p := range env.Proposals {
		env.Votes = append(env.Votes, st.listVotes(p.ID)...)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}

	path := r.statePath()
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if info, err := os.Stat(path); err == nil {
		r.modTime, r.size = info.ModTime(), info.Size()
	}
	return nil
}

// refresh reloads the state when another process has replaced the file
func (r *FileRepository) refresh() error {
	info, err := os.Stat(r.statePath())
	r.mu.RLock()
	stale := (err == nil && (!info.ModTime().Equal(r.modTime) || info.Size() != r.size)) ||
		(errors.Is(err, os.ErrNotExist) && !r.modTime.IsZero())
	r.mu.RUnlock()
	if !stale {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// read runs fn against a fresh view of the state
func (r *FileRepository) read(fn func(st *state) error) error {
	if err := r.refresh(); err != nil {
		return fmt.Errorf("failed to refresh governance state: %w", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(r.state)
}

func (r *FileRepository) GetDao(ctx context.Context, id common.Hash) (*models.Dao, error) {
	var dao *models.Dao
	err := r.read(func(st *state) (err error) {
		dao, err = st.getDao(id)
		return err
	})
	return dao, err
}

func (r *FileRepository) ListDaos(ctx context.Context) ([]*models.Dao, error) {
	var daos []*models.Dao
	err := r.read(func(st *state) error {
		daos = st.listDaos()
		return nil
	})
	return daos, err
}

func (r *FileRepository) GetProposal(ctx context.Context, id common.Hash) (*models.Proposal, error) {
	var p *models.Proposal
	err := r.read(func(st *state) (err error) {
		p, err = st.getProposal(id)
		return err
	})
	return p, err
}

func (r *FileRepository) ListProposals(ctx context.Context, filter models.ProposalFilter) ([]*models.Proposal, error) {
	var proposals []*models.Proposal
	err := r.read(func(st *state) error {
		proposals = st.listProposals(filter)
		return nil
	})
	return proposals, err
}

func (r *FileRepository) HasVoted(ctx context.Context, proposal common.Hash, voter common.Address) (bool, error) {
	var voted bool
	err := r.read(func(st *state) error {
		_, err := st.getVote(proposal, voter)
		voted = err == nil
		return nil
	})
	return voted, err
}

func (r *FileRepository) GetVote(ctx context.Context, proposal common.Hash, voter common.Address) (*models.VoteRecord, error) {
	var v *models.VoteRecord
	err := r.read(func(st *state) (err error) {
		v, err = st.getVote(proposal, voter)
		return err
	})
	return v, err
}

func (r *FileRepository) ListVotes(ctx context.Context, proposal common.Hash) ([]*models.VoteRecord, error) {
	var votes []*models.VoteRecord
	err := r.read(func(st *state) error {
		votes = st.listVotes(proposal)
		return nil
	})
	return votes, err
}

// ApplyChangeset applies all updates in a single transaction with one lock.
// The file lock is held from reload to rename so concurrent processes serialise.
func (r *FileRepository) ApplyChangeset(ctx context.Context, changeset *models.Changeset) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	locked, err := r.fileLck.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", LockFile, err)
	}
	if !locked {
		return fmt.Errorf("failed to lock %s", LockFile)
	}
	defer func() {
		if err := r.fileLck.Unlock(); err != nil {
			r.log.Warn("failed to release file lock", "error", err)
		}
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another process may have committed since we last looked
	if err := r.load(); err != nil {
		return fmt.Errorf("failed to reload governance state: %w", err)
	}

	if err := r.state.validate(changeset); err != nil {
		r.log.Debug("rejected changeset", "id", changeset.ID, "error", err)
		return err
	}

	next := r.state.clone()
	next.apply(changeset)
	if err := r.save(next); err != nil {
		return fmt.Errorf("failed to save governance state: %w", err)
	}
	r.state = next

	r.log.Debug("applied changeset",
		"id", changeset.ID,
		"creates", changeset.Create.Count(),
		"updates", changeset.Update.Count(),
	)
	return nil
}
