package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-dao/internal/api"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// maxBodyBytes bounds request bodies; the largest is a dao with a 64 byte name
const maxBodyBytes = 64 << 10

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// DaoConfigRequest overrides the configured defaults for a new dao.
// Omitted fields take the server's defaults.
type DaoConfigRequest struct {
	VotingThreshold *int   `json:"votingThreshold,omitempty"`
	MaxVotingTime   *int64 `json:"maxVotingTime,omitempty"` // seconds
	HoldUpTime      *int64 `json:"holdUpTime,omitempty"`    // seconds
	QuorumBasis     string `json:"quorumBasis,omitempty"`
	Evaluation      string `json:"evaluation,omitempty"`
}

// CreateDaoRequest is the JSON body for POST /api/daos
type CreateDaoRequest struct {
	Authority      string            `json:"authority"`
	Name           string            `json:"name"`
	CommunityToken string            `json:"communityToken"`
	Config         *DaoConfigRequest `json:"config,omitempty"`
	TotalSupply    *uint64           `json:"totalSupply,omitempty"`
}

// CreateProposalRequest is the JSON body for POST /api/daos/{dao}/proposals
type CreateProposalRequest struct {
	Creator     string `json:"creator"`
	Description string `json:"description"`
}

// CastVoteRequest is the JSON body for POST /api/proposals/{proposal}/votes.
// A missing weight is looked up in the balance snapshot.
type CastVoteRequest struct {
	Voter  string  `json:"voter"`
	Choice string  `json:"choice"`
	Weight *uint64 `json:"weight,omitempty"`
}

func (s *Server) handleListDaos(w http.ResponseWriter, r *http.Request) {
	daos, err := s.useCases.ListDaos.Run(r.Context())
	if err != nil {
		s.writeError(w, "list_daos", err)
		return
	}
	if daos == nil {
		daos = []*models.Dao{}
	}
	writeJSON(w, http.StatusOK, daos)
}

func (s *Server) handleCreateDao(w http.ResponseWriter, r *http.Request) {
	var req CreateDaoRequest
	if !s.decode(w, r, &req) {
		return
	}

	params, err := s.createDaoParams(req)
	if err != nil {
		s.writeError(w, "create_dao", err)
		return
	}

	dao, err := s.useCases.CreateDao.Run(r.Context(), params)
	if err != nil {
		s.writeError(w, "create_dao", err)
		return
	}
	writeJSON(w, http.StatusCreated, api.DaoResponse{Dao: dao})
}

func (s *Server) createDaoParams(req CreateDaoRequest) (usecase.CreateDaoParams, error) {
	authority, err := domain.ParseAddress(req.Authority)
	if err != nil {
		return usecase.CreateDaoParams{}, fmt.Errorf("authority: %w", err)
	}
	tok, err := domain.ParseAddress(req.CommunityToken)
	if err != nil {
		return usecase.CreateDaoParams{}, fmt.Errorf("community token: %w", err)
	}

	cfg, err := s.cfg.Defaults.DaoConfig()
	if err != nil {
		return usecase.CreateDaoParams{}, err
	}
	if o := req.Config; o != nil {
		if o.VotingThreshold != nil {
			if *o.VotingThreshold < 0 || *o.VotingThreshold > 255 {
				return usecase.CreateDaoParams{}, domain.ErrInvalidVotingThreshold
			}
			cfg.VotingThreshold = uint8(*o.VotingThreshold)
		}
		if o.MaxVotingTime != nil {
			cfg.MaxVotingTime = *o.MaxVotingTime
		}
		if o.HoldUpTime != nil {
			cfg.HoldUpTime = *o.HoldUpTime
		}
		if o.QuorumBasis != "" {
			if cfg.QuorumBasis, err = models.ParseQuorumBasis(o.QuorumBasis); err != nil {
				return usecase.CreateDaoParams{}, err
			}
		}
		if o.Evaluation != "" {
			if cfg.Evaluation, err = models.ParseEvaluation(o.Evaluation); err != nil {
				return usecase.CreateDaoParams{}, err
			}
		}
	}

	return usecase.CreateDaoParams{
		Authority:      authority,
		Name:           req.Name,
		CommunityToken: tok,
		Config:         cfg,
		TotalSupply:    req.TotalSupply,
	}, nil
}

func (s *Server) handleShowDao(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathHash(w, r, "dao", "show_dao")
	if !ok {
		return
	}

	result, err := s.useCases.ShowDao.Run(r.Context(), usecase.ShowDaoParams{Dao: id})
	if err != nil {
		s.writeError(w, "show_dao", err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewDaoResponse(result))
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathHash(w, r, "dao", "list_proposals")
	if !ok {
		return
	}

	params := usecase.ListProposalsParams{Dao: id}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParseProposalStatus(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_status", err.Error())
			return
		}
		params.Status = &status
	}

	result, err := s.useCases.ListProposals.Run(r.Context(), params)
	if err != nil {
		s.writeError(w, "list_proposals", err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewProposalListResponse(result))
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathHash(w, r, "dao", "create_proposal")
	if !ok {
		return
	}

	var req CreateProposalRequest
	if !s.decode(w, r, &req) {
		return
	}
	creator, err := domain.ParseAddress(req.Creator)
	if err != nil {
		s.writeError(w, "create_proposal", fmt.Errorf("creator: %w", err))
		return
	}

	proposal, err := s.useCases.CreateProposal.Run(r.Context(), usecase.CreateProposalParams{
		Dao:         id,
		Creator:     creator,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(w, "create_proposal", err)
		return
	}
	writeJSON(w, http.StatusCreated, api.ProposalResponse{Proposal: proposal})
}

func (s *Server) handleShowProposal(w http.ResponseWriter, r *http.Request) {
	includeVotes, _ := strconv.ParseBool(r.URL.Query().Get("votes"))

	result, err := s.useCases.ShowProposal.Run(r.Context(), usecase.ShowProposalParams{
		Reference:    r.PathValue("proposal"),
		IncludeVotes: includeVotes,
	})
	if err != nil {
		s.writeError(w, "show_proposal", err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewProposalResponse(result))
}

func (s *Server) handleVotingPower(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathHash(w, r, "proposal", "voting_power")
	if !ok {
		return
	}
	voter, err := domain.ParseAddress(r.PathValue("voter"))
	if err != nil {
		s.writeError(w, "voting_power", err)
		return
	}

	power, err := s.useCases.ResolveVotingPower.Run(r.Context(), usecase.ResolveVotingPowerParams{
		Proposal: id,
		Voter:    voter,
	})
	if err != nil {
		s.writeError(w, "voting_power", err)
		return
	}
	writeJSON(w, http.StatusOK, power)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathHash(w, r, "proposal", "cast_vote")
	if !ok {
		return
	}

	var req CastVoteRequest
	if !s.decode(w, r, &req) {
		return
	}
	voter, err := domain.ParseAddress(req.Voter)
	if err != nil {
		s.writeError(w, "cast_vote", fmt.Errorf("voter: %w", err))
		return
	}
	choice, err := models.ParseVoteChoice(req.Choice)
	if err != nil {
		s.writeError(w, "cast_vote", err)
		return
	}

	var weight uint64
	if req.Weight != nil {
		weight = *req.Weight
	} else {
		power, err := s.useCases.ResolveVotingPower.Run(r.Context(), usecase.ResolveVotingPowerParams{
			Proposal: id,
			Voter:    voter,
		})
		if err != nil {
			s.writeError(w, "cast_vote", err)
			return
		}
		weight = power.Weight
	}

	result, err := s.useCases.CastVote.Run(r.Context(), usecase.CastVoteParams{
		Proposal: id,
		Voter:    voter,
		Choice:   choice,
		Weight:   weight,
	})
	if err != nil {
		s.writeError(w, "cast_vote", err)
		return
	}
	writeJSON(w, http.StatusCreated, api.NewVoteResponse(result))
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathHash(w, r, "proposal", "execute_proposal")
	if !ok {
		return
	}

	proposal, err := s.useCases.ExecuteProposal.Run(r.Context(), usecase.ExecuteProposalParams{Proposal: id})
	if err != nil {
		s.writeError(w, "execute_proposal", err)
		return
	}
	writeJSON(w, http.StatusOK, api.ProposalResponse{Proposal: proposal})
}

// decode reads a JSON body, writing a 400 on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Failed to decode request body: "+err.Error())
		return false
	}
	return true
}

// pathHash parses a full 32-byte id from the named path segment
func (s *Server) pathHash(w http.ResponseWriter, r *http.Request, name, op string) (common.Hash, bool) {
	id, err := domain.ParseHash(r.PathValue(name))
	if err != nil {
		s.writeError(w, op, err)
		return common.Hash{}, false
	}
	return id, true
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	kind := domain.KindOf(err)
	status := StatusFor(err)
	s.metrics.ObserveError(op, err)

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "operation", op, "error", err)
	}

	code := domain.CodeOf(err)
	if code == "" {
		code = string(kind)
	}
	writeJSONError(w, status, code, err.Error(), string(kind))
}

// StatusFor maps a governance error to its HTTP status
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindConfiguration, domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindTemporal, domain.KindState, domain.KindDuplicateVote, domain.KindConflict:
		return http.StatusConflict
	case domain.KindArithmetic:
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, errorCode, message string, kind ...string) {
	resp := ErrorResponse{
		Error:   errorCode,
		Message: message,
	}
	if len(kind) > 0 {
		resp.Kind = kind[0]
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
