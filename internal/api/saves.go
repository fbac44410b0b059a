package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/game7/internal/game/snapshot"
	"github.com/cory-johannsen/game7/internal/game/team"
	"github.com/cory-johannsen/game7/internal/storage/postgres"
)

// CreateSaveRequest names a new save slot.
type CreateSaveRequest struct {
	Name string `json:"name"`
}

func (h *Handler) requireSaves(c *gin.Context) bool {
	if h.saves == nil {
		writeError(c, http.StatusServiceUnavailable, ErrSavesUnavailable)
		return false
	}
	return true
}

func parseSaveID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, ErrInvalidSaveID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) saveError(c *gin.Context, err error) {
	if errors.Is(err, postgres.ErrSaveNotFound) {
		writeError(c, http.StatusNotFound, ErrSaveNotFound)
		return
	}
	h.logger.Error("save slot access failed", zap.Error(err))
	writeError(c, http.StatusInternalServerError, ErrSaveFailed)
}

// CreateSave stores the current game state in a new slot.
func (h *Handler) CreateSave(c *gin.Context) {
	if !h.requireSaves(c) {
		return
	}
	var req CreateSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || len(req.Name) > postgres.MaxSaveNameLen {
		writeError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}
	var snap snapshot.Snapshot
	_ = h.game.Do(func(e *team.Engine) error {
		snap = snapshot.Serialize(e)
		return nil
	})
	save, err := h.saves.Create(c.Request.Context(), req.Name, snap)
	if err != nil {
		h.saveError(c, err)
		return
	}
	h.logger.Info("game saved", zap.Stringer("save_id", save.ID), zap.String("name", save.Name))
	c.JSON(http.StatusCreated, summarize(save))
}

func summarize(save *postgres.Save) postgres.SaveSummary {
	return postgres.SaveSummary{
		ID:        save.ID,
		Name:      save.Name,
		Stage:     save.Snapshot.Stage,
		UpdatedAt: save.UpdatedAt,
	}
}

// OverwriteSave replaces the snapshot in an existing slot with the current
// game state.
func (h *Handler) OverwriteSave(c *gin.Context) {
	if !h.requireSaves(c) {
		return
	}
	id, ok := parseSaveID(c)
	if !ok {
		return
	}
	var snap snapshot.Snapshot
	_ = h.game.Do(func(e *team.Engine) error {
		snap = snapshot.Serialize(e)
		return nil
	})
	ctx := c.Request.Context()
	if err := h.saves.Update(ctx, id, snap); err != nil {
		h.saveError(c, err)
		return
	}
	save, err := h.saves.Get(ctx, id)
	if err != nil {
		h.saveError(c, err)
		return
	}
	h.logger.Info("game saved", zap.Stringer("save_id", id), zap.String("name", save.Name))
	c.JSON(http.StatusOK, summarize(save))
}

// ListSaves lists every save slot.
func (h *Handler) ListSaves(c *gin.Context) {
	if !h.requireSaves(c) {
		return
	}
	list, err := h.saves.List(c.Request.Context())
	if err != nil {
		h.saveError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetSave returns one save slot with its snapshot.
func (h *Handler) GetSave(c *gin.Context) {
	if !h.requireSaves(c) {
		return
	}
	id, ok := parseSaveID(c)
	if !ok {
		return
	}
	save, err := h.saves.Get(c.Request.Context(), id)
	if err != nil {
		h.saveError(c, err)
		return
	}
	c.JSON(http.StatusOK, save)
}

// DeleteSave removes a save slot.
func (h *Handler) DeleteSave(c *gin.Context) {
	if !h.requireSaves(c) {
		return
	}
	id, ok := parseSaveID(c)
	if !ok {
		return
	}
	if err := h.saves.Delete(c.Request.Context(), id); err != nil {
		h.saveError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LoadSave restores the game from a save slot and returns the new state.
func (h *Handler) LoadSave(c *gin.Context) {
	if !h.requireSaves(c) {
		return
	}
	id, ok := parseSaveID(c)
	if !ok {
		return
	}
	save, err := h.saves.Get(c.Request.Context(), id)
	if err != nil {
		h.saveError(c, err)
		return
	}
	var state snapshot.Snapshot
	err = h.game.Do(func(e *team.Engine) error {
		if err := snapshot.Restore(e, save.Snapshot); err != nil {
			return err
		}
		state = snapshot.Serialize(e)
		return nil
	})
	if err != nil {
		h.logger.Warn("save slot rejected", zap.Stringer("save_id", id), zap.Error(err))
		writeError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.logger.Info("game loaded", zap.Stringer("save_id", id))
	c.JSON(http.StatusOK, state)
}
