// File: handlers/agenda.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	auditRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/audit"
	professionalRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/professional"
	slotRepo "github.com/NavaUDP/Agenda-Revitek/database/repository/slot"
	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/services/agenda"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// AgendaHandler serves the admin-facing slot and block endpoints.
type AgendaHandler struct {
	Generator     agenda.SlotGenerator
	Slots         slotRepo.SlotRepository
	Professionals professionalRepo.ProfessionalRepository
	Audit         auditRepo.AuditRepository
}

func NewAgendaHandler(gen agenda.SlotGenerator, sr slotRepo.SlotRepository,
	pr professionalRepo.ProfessionalRepository, ar auditRepo.AuditRepository) *AgendaHandler {
	return &AgendaHandler{Generator: gen, Slots: sr, Professionals: pr, Audit: ar}
}

// ListSlotsHandler returns a professional's slots for one date.
func (h *AgendaHandler) ListSlotsHandler(c *gin.Context) {
	proID := c.Param("professionalId")
	date := c.Query("date")
	if _, err := utils.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	slots, err := h.Slots.GetByProfessionalAndDate(c.Request.Context(), proID, date)
	if err != nil {
		zap.L().Error("slot list failed", zap.String("professionalId", proID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// RegenerateSlotsHandler rebuilds a professional's slots for a date range.
// Body: {"date": "YYYY-MM-DD", "days": 1}
func (h *AgendaHandler) RegenerateSlotsHandler(c *gin.Context) {
	proID := c.Param("professionalId")
	var body struct {
		Date string `json:"date" binding:"required"`
		Days int    `json:"days"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	if _, err := utils.ParseDate(body.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	ctx := c.Request.Context()

	if body.Days > 1 {
		h.Generator.RegenerateRange(ctx, proID, body.Date, body.Days)
		c.JSON(http.StatusOK, gin.H{"regenerated": body.Days})
		return
	}
	slots, err := h.Generator.Regenerate(ctx, proID, body.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"regenerated": 1, "slots": slots})
}

type blockRequest struct {
	Date   string    `json:"date" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
	Reason string    `json:"reason"`
	Actor  string    `json:"actor"`
}

// ListBlocksHandler returns a professional's blocks for one date.
func (h *AgendaHandler) ListBlocksHandler(c *gin.Context) {
	blocks, err := h.Professionals.GetBlocks(c.Request.Context(), c.Param("professionalId"), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blocks)
}

// CreateBlockHandler creates a block and marks the covered available slots
// BLOCKED. Reserved slots inside the window are left alone.
func (h *AgendaHandler) CreateBlockHandler(c *gin.Context) {
	proID := c.Param("professionalId")
	var body blockRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date, start and end are required"})
		return
	}
	if !body.End.After(body.Start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be after start"})
		return
	}
	ctx := c.Request.Context()

	block := &models.SlotBlock{
		ProfessionalID: proID,
		Date:           body.Date,
		Start:          body.Start,
		End:            body.End,
		Reason:         body.Reason,
		CreatedBy:      body.Actor,
	}
	if err := h.Professionals.CreateBlock(ctx, block); err != nil {
		respondError(c, err)
		return
	}
	blocked, err := h.Slots.BulkSetStatus(ctx, proID, body.Start, body.End,
		models.SlotAvailable, models.SlotBlocked)
	if err != nil {
		zap.L().Error("block slot update failed", zap.String("blockId", block.ID), zap.Error(err))
		respondError(c, err)
		return
	}
	h.record(c, body.Actor, "create_block", block.ID, body.Reason)
	c.JSON(http.StatusCreated, gin.H{"block": block, "slotsBlocked": blocked})
}

// UpdateBlockHandler moves or reshapes a block. The old window is released,
// the new one applied, and the day regenerated so overlapping blocks and
// exceptions stay in force.
func (h *AgendaHandler) UpdateBlockHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("blockId")

	var body blockRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date, start and end are required"})
		return
	}
	if !body.End.After(body.Start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be after start"})
		return
	}

	block, err := h.Professionals.GetBlockByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "block not found"})
		return
	}
	oldStart, oldEnd, oldDate := block.Start, block.End, block.Date

	block.Date = body.Date
	block.Start = body.Start
	block.End = body.End
	block.Reason = body.Reason
	if err := h.Professionals.UpdateBlock(ctx, block); err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.Slots.BulkSetStatus(ctx, block.ProfessionalID, oldStart, oldEnd,
		models.SlotBlocked, models.SlotAvailable); err != nil {
		zap.L().Warn("unblock slot update failed", zap.String("blockId", id), zap.Error(err))
	}
	blocked, err := h.Slots.BulkSetStatus(ctx, block.ProfessionalID, block.Start, block.End,
		models.SlotAvailable, models.SlotBlocked)
	if err != nil {
		zap.L().Error("block slot update failed", zap.String("blockId", id), zap.Error(err))
		respondError(c, err)
		return
	}
	dates := []string{block.Date}
	if oldDate != block.Date {
		dates = append(dates, oldDate)
	}
	for _, date := range dates {
		if _, err := h.Generator.Regenerate(ctx, block.ProfessionalID, date); err != nil {
			zap.L().Warn("post-update regeneration failed",
				zap.String("professionalId", block.ProfessionalID), zap.Error(err))
		}
	}
	h.record(c, body.Actor, "update_block", id, body.Reason)
	c.JSON(http.StatusOK, gin.H{"block": block, "slotsBlocked": blocked})
}

// DeleteBlockHandler removes a block and regenerates the day, which restores
// the blocked slots unless another block or exception still covers them.
func (h *AgendaHandler) DeleteBlockHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("blockId")

	block, err := h.Professionals.GetBlockByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "block not found"})
		return
	}
	if err := h.Professionals.DeleteBlock(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.Slots.BulkSetStatus(ctx, block.ProfessionalID, block.Start, block.End,
		models.SlotBlocked, models.SlotAvailable); err != nil {
		zap.L().Warn("unblock slot update failed", zap.String("blockId", id), zap.Error(err))
	}
	if _, err := h.Generator.Regenerate(ctx, block.ProfessionalID, block.Date); err != nil {
		zap.L().Warn("post-unblock regeneration failed",
			zap.String("professionalId", block.ProfessionalID), zap.Error(err))
	}
	h.record(c, c.Query("actor"), "delete_block", id, block.Reason)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *AgendaHandler) record(c *gin.Context, actor, action, objectID, note string) {
	if h.Audit == nil {
		return
	}
	if actor == "" {
		actor = "admin"
	}
	_ = h.Audit.Record(c.Request.Context(), models.AdminAudit{
		Actor:     actor,
		Action:    action,
		ModelName: "SlotBlock",
		ObjectID:  objectID,
		Note:      note,
	})
}
