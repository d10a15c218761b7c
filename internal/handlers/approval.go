package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/daftaros/daftar-backend/internal/domain"
	"github.com/daftaros/daftar-backend/internal/http/response"
	"github.com/daftaros/daftar-backend/internal/requestdata"
	"github.com/daftaros/daftar-backend/internal/services"
)

type ApprovalHandler struct {
	approvalService services.ApprovalService
}

func NewApprovalHandler(approvalService services.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

type voteRequest struct {
	Approve bool `json:"approve"`
}

// VotePitchDelete records the acting user's consent to delete a pitch.
func (h *ApprovalHandler) VotePitchDelete(c *gin.Context) {
	h.submit(c, types.ApprovalActionPitchDelete, c.Param("id"))
}

// VoteScoutApproval records the acting user's consent to approve a scout.
func (h *ApprovalHandler) VoteScoutApproval(c *gin.Context) {
	h.submit(c, types.ApprovalActionScoutApproval, c.Param("id"))
}

func (h *ApprovalHandler) submit(c *gin.Context, actionType, rawSubjectID string) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	subjectID, err := uuid.Parse(rawSubjectID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	req := voteRequest{Approve: true}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
			return
		}
	}
	tally, err := h.approvalService.SubmitVote(c.Request.Context(), actionType, subjectID, rd.UserID, req.Approve)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tally": tally})
}
