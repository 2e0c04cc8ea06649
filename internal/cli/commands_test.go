package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-dao/internal/api"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
)

const (
	testAuthority = "0xa11ce00000000000000000000000000000000001"
	testToken     = "0x70ce000000000000000000000000000000000002"
	testVoterA    = "0x0000000000000000000000000000000000000a0a"
	testVoterB    = "0x0000000000000000000000000000000000000b0b"
)

// newProject points the CLI at an empty project directory
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TREB_DAO_PROJECT_ROOT", dir)
	t.Setenv("TREB_DAO_ACCOUNT", "")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--non-interactive"}, args...))
	err := root.Execute()
	return out.String(), err
}

func runJSON(t *testing.T, dst any, args ...string) {
	t.Helper()
	out, err := runCLI(t, append([]string{"--json"}, args...)...)
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), dst), out)
}

func TestGovernanceCommands(t *testing.T) {
	dir := newProject(t)

	var dao models.Dao
	runJSON(t, &dao, "dao", "create", "treasury",
		"--token", testToken,
		"--account", testAuthority,
		"--total-supply", "1000",
		"--threshold", "50")
	assert.Equal(t, "treasury", dao.Name)
	assert.Equal(t, uint64(1000), dao.TotalSupply)
	assert.Equal(t, models.EvaluateEager, dao.Config.Evaluation)
	assert.FileExists(t, filepath.Join(dir, ".treb-dao", "governance.json"))

	var daos []models.Dao
	runJSON(t, &daos, "dao", "list")
	require.Len(t, daos, 1)
	assert.Equal(t, dao.ID, daos[0].ID)

	var created api.ProposalResponse
	runJSON(t, &created, "proposal", "create", "treasury", "-d", "Fund the audit", "--creator", testAuthority)
	proposal := created.Proposal
	require.NotNil(t, proposal)
	assert.Equal(t, uint64(0), proposal.Sequence)
	assert.Equal(t, models.ProposalStatusActive, proposal.Status)

	ref := proposal.ID.Hex()[:10]

	var vote api.VoteResponse
	runJSON(t, &vote, "vote", ref, "against", "--voter", testVoterB, "--weight", "300")
	assert.False(t, vote.StatusChanged)
	assert.Equal(t, uint64(300), vote.Proposal.AgainstVotes)

	runJSON(t, &vote, "vote", ref, "for", "--voter", testVoterA, "--weight", "600")
	assert.True(t, vote.StatusChanged)
	assert.Equal(t, models.ProposalStatusSucceeded, vote.Proposal.Status)
	assert.Equal(t, models.VoteFor, vote.Vote.Choice)

	var shown api.ProposalResponse
	runJSON(t, &shown, "proposal", "show", ref, "--votes")
	require.NotNil(t, shown.Outcome)
	assert.Equal(t, "900", shown.Outcome.TotalVotes)
	assert.Equal(t, "500", shown.Outcome.ThresholdVotes)
	assert.True(t, shown.Outcome.Passed)
	assert.Len(t, shown.Votes, 2)

	var listed api.ProposalListResponse
	runJSON(t, &listed, "proposal", "list", "--dao", "treasury", "--status", "succeeded")
	assert.Len(t, listed.Proposals, 1)
	assert.Equal(t, 1, listed.Summary.ByStatus["succeeded"])

	_, err := runCLI(t, "execute", ref)
	assert.ErrorIs(t, err, domain.ErrHoldUpTimeNotPassed)
	assert.Equal(t, 1, ExitCode(err))

	_, err = runCLI(t, "vote", ref, "for", "--voter", testVoterA, "--weight", "1")
	assert.ErrorIs(t, err, domain.ErrProposalNotActive)

	// no snapshot configured: the ballot's own state decides the error
	_, err = runCLI(t, "vote", ref, "for", "--voter", "0x0000000000000000000000000000000000000c0c")
	assert.ErrorIs(t, err, domain.ErrProposalNotActive)
}

func TestCommandErrors(t *testing.T) {
	newProject(t)

	_, err := runCLI(t, "dao", "create", "bad", "--token", testToken, "--account", testAuthority,
		"--total-supply", "1000", "--threshold", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidVotingThreshold)
	assert.Equal(t, 2, ExitCode(err))

	_, err = runCLI(t, "dao", "create", "noauth", "--token", testToken, "--total-supply", "1000")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)

	_, err = runCLI(t, "dao", "create", "signal", "--token", testToken, "--account", testAuthority,
		"--quorum-basis", "votes-cast")
	assert.ErrorIs(t, err, domain.ErrIncompatiblePolicy)

	_, err = runCLI(t, "dao", "show", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = runCLI(t, "dao", "create", "treasury", "--token", testToken, "--account", testAuthority, "--total-supply", "10")
	require.NoError(t, err)
	out, err := runCLI(t, "--json", "proposal", "create", "treasury", "--account", testAuthority)
	require.NoError(t, err)
	var created api.ProposalResponse
	require.NoError(t, json.Unmarshal([]byte(out), &created))

	_, err = runCLI(t, "vote", created.Proposal.ID.Hex(), "--voter", testVoterA, "--weight", "5")
	assert.ErrorIs(t, err, domain.ErrInvalidVoteChoice)
	assert.Equal(t, 2, ExitCode(err))

	_, err = runCLI(t, "vote", created.Proposal.ID.Hex(), "maybe", "--voter", testVoterA, "--weight", "5")
	assert.ErrorIs(t, err, domain.ErrInvalidVoteChoice)

	_, err = runCLI(t, "vote", created.Proposal.ID.Hex(), "for", "--voter", testVoterA, "--weight", "0")
	assert.ErrorIs(t, err, domain.ErrInsufficientTokens)

	_, err = runCLI(t, "vote", created.Proposal.ID.Hex(), "for", "--voter", testVoterA)
	assert.ErrorIs(t, err, domain.ErrInsufficientTokens)

	_, err = runCLI(t, "proposal", "list", "--status", "pending")
	assert.Error(t, err)
}

func TestTextOutput(t *testing.T) {
	newProject(t)

	out, err := runCLI(t, "dao", "create", "treasury", "--token", testToken, "--account", testAuthority, "--total-supply", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, `Created dao "treasury"`)
	assert.Contains(t, out, "50% of total-supply")

	out, err = runCLI(t, "dao", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "treasury")

	out, err = runCLI(t, "proposal", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No proposals found")
}

func TestConfigAndInitCommands(t *testing.T) {
	dir := newProject(t)

	out, err := runCLI(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "No treb-dao.toml found")

	out, err = runCLI(t, "init", "--snapshot-path", "balances.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
	assert.FileExists(t, filepath.Join(dir, "treb-dao.toml"))

	out, err = runCLI(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	var shown map[string]any
	runJSON(t, &shown, "config")
	assert.Equal(t, true, shown["exists"])
	assert.Equal(t, filepath.Join(dir, "balances.yaml"), shown["snapshot"])
	assert.Equal(t, filepath.Join(dir, ".treb-dao"), shown["dataDir"])
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "treb-dao version dev")
}
