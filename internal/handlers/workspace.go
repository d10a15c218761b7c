package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/daftaros/daftar-backend/internal/http/response"
	"github.com/daftaros/daftar-backend/internal/requestdata"
	"github.com/daftaros/daftar-backend/internal/services"
)

type WorkspaceHandler struct {
	workspaceService services.WorkspaceService
}

func NewWorkspaceHandler(workspaceService services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

type createDaftarRequest struct {
	Name      string `json:"name" binding:"required"`
	Structure string `json:"structure"`
	Website   string `json:"website"`
}

func (h *WorkspaceHandler) CreateDaftar(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req createDaftarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	daftar, err := h.workspaceService.CreateDaftar(c.Request.Context(), req.Name, req.Structure, req.Website, rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"daftar": daftar})
}

type addMemberRequest struct {
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	Designation string    `json:"designation"`
}

func (h *WorkspaceHandler) AddDaftarMember(c *gin.Context) {
	daftarID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	if err := h.workspaceService.AddDaftarMember(c.Request.Context(), daftarID, req.UserID, req.Designation); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "added"})
}

type createScoutRequest struct {
	DaftarID uuid.UUID `json:"daftar_id" binding:"required"`
	Name     string    `json:"name" binding:"required"`
	Vision   string    `json:"vision"`
}

func (h *WorkspaceHandler) CreateScout(c *gin.Context) {
	var req createScoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	scout, err := h.workspaceService.CreateScout(c.Request.Context(), req.DaftarID, req.Name, req.Vision)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"scout": scout})
}

type addCollaborationRequest struct {
	DaftarID uuid.UUID `json:"daftar_id" binding:"required"`
}

func (h *WorkspaceHandler) AddScoutCollaboration(c *gin.Context) {
	scoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	var req addCollaborationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	if err := h.workspaceService.AddScoutCollaboration(c.Request.Context(), scoutID, req.DaftarID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "added"})
}

func (h *WorkspaceHandler) LaunchScout(c *gin.Context) {
	scoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	scout, err := h.workspaceService.LaunchScout(c.Request.Context(), scoutID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scout": scout})
}

func (h *WorkspaceHandler) DeleteScout(c *gin.Context) {
	scoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	if err := h.workspaceService.DeleteScout(c.Request.Context(), scoutID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "deleted"})
}

type createPitchRequest struct {
	ScoutID uuid.UUID `json:"scout_id"`
	Name    string    `json:"name" binding:"required"`
	Stage   string    `json:"stage"`
}

func (h *WorkspaceHandler) CreatePitch(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req createPitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	pitch, err := h.workspaceService.CreatePitch(c.Request.Context(), req.ScoutID, rd.UserID, req.Name, req.Stage)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"pitch": pitch})
}

func (h *WorkspaceHandler) AddPitchTeamMember(c *gin.Context) {
	pitchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	if err := h.workspaceService.AddPitchTeamMember(c.Request.Context(), pitchID, req.UserID, req.Designation); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "added"})
}
