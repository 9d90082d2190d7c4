package handler

import (
	"net/http"
	"strconv"

	"expvote/internal/domain"
	"expvote/internal/middleware"
	"expvote/internal/service"
	"expvote/pkg/errors"
	"expvote/pkg/logger"

	"github.com/go-chi/chi/v5"
)

type VotingHandler struct {
	voting   service.VotingEngine
	accounts service.AccountManager
	logger   *logger.Logger
}

func NewVotingHandler(voting service.VotingEngine, accounts service.AccountManager, logger *logger.Logger) *VotingHandler {
	return &VotingHandler{
		voting:   voting,
		accounts: accounts,
		logger:   logger,
	}
}

// CreateVote handles POST /api/v1/votes
func (h *VotingHandler) CreateVote(w http.ResponseWriter, r *http.Request) {
	proposer, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, r, errors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	var req domain.CreateVoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	vote, err := h.voting.CreateVote(r.Context(), req.SubjectID, proposer)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, domain.CreateVoteResponse{
		VoteID:  vote.ID,
		EndTime: vote.EndTime,
	})
}

// GetVote handles GET /api/v1/votes/{voteId}
func (h *VotingHandler) GetVote(w http.ResponseWriter, r *http.Request) {
	voteID, err := voteIDParam(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	vote, err := h.voting.GetVote(r.Context(), voteID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, vote)
}

// ListBallots handles GET /api/v1/votes/{voteId}/ballots
func (h *VotingHandler) ListBallots(w http.ResponseWriter, r *http.Request) {
	voteID, err := voteIDParam(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	ballots, err := h.voting.ListBallots(r.Context(), voteID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, ballots)
}

// CastVote handles POST /api/v1/votes/{voteId}/ballots. The voter is the token subject.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	voter, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, r, errors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	voteID, err := voteIDParam(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	var req domain.CastVoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	ballot, err := h.voting.CastVote(r.Context(), voteID, req.Amount, req.Choice, voter)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	response := domain.CastVoteResponse{Ballot: ballot}

	// the ballot is committed either way; a failed read only drops the balance
	if balance, err := h.accounts.BalanceOf(r.Context(), voter); err != nil {
		h.logger.WithError(err).Warn("Failed to read balance after ballot")
	} else {
		response.Balance = &balance
	}

	respondJSON(w, http.StatusCreated, response)
}

// EndVote handles POST /api/v1/votes/{voteId}/end
func (h *VotingHandler) EndVote(w http.ResponseWriter, r *http.Request) {
	voteID, err := voteIDParam(r)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	if _, err := h.voting.EndVote(r.Context(), voteID); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	vote, err := h.voting.GetVote(r.Context(), voteID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, domain.EndVoteResponse{
		VoteID:    vote.ID,
		Status:    vote.Status,
		YesWeight: vote.YesWeight,
		NoWeight:  vote.NoWeight,
	})
}

func voteIDParam(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "voteId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("Invalid vote ID", map[string]interface{}{"vote_id": raw})
	}
	return id, nil
}
