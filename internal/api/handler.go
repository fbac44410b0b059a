package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/game7/internal/game/snapshot"
	"github.com/cory-johannsen/game7/internal/game/team"
	"github.com/cory-johannsen/game7/internal/gameserver"
	"github.com/cory-johannsen/game7/internal/storage/postgres"
)

// Error messages returned in the "error" field.
const (
	ErrInvalidRequest      = "Invalid request"
	ErrCharacterIDRequired = "Character ID required"
	ErrCharacterNotFound   = "Character not found"
	ErrInvalidSkillType    = "Invalid skill type"
	ErrNegativeAmount      = "Amount must not be negative"
	ErrSavesUnavailable    = "Save slots are not configured"
	ErrInvalidSaveID       = "Invalid save ID"
	ErrSaveNotFound        = "Save not found"
	ErrSaveFailed          = "Failed to access save slots"
)

// SaveStore persists snapshots. *postgres.SaveRepository satisfies it.
type SaveStore interface {
	Create(ctx context.Context, name string, snap snapshot.Snapshot) (*postgres.Save, error)
	Get(ctx context.Context, id uuid.UUID) (*postgres.Save, error)
	Update(ctx context.Context, id uuid.UUID, snap snapshot.Snapshot) error
	List(ctx context.Context) ([]postgres.SaveSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// HealthChecker reports whether the save database is usable.
// *postgres.Pool satisfies it.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler groups the API handlers around one shared game.
type Handler struct {
	game   *gameserver.Game
	saves  SaveStore
	db     HealthChecker
	logger *zap.Logger
}

// NewHandler creates a Handler. saves and db may be nil when save slots are
// disabled; the save endpoints then answer 503 and /healthz reports the
// database as disabled.
//
// Precondition: game and logger must be non-nil.
func NewHandler(game *gameserver.Game, saves SaveStore, db HealthChecker, logger *zap.Logger) *Handler {
	if game == nil {
		panic("api.NewHandler: game must not be nil")
	}
	if logger == nil {
		panic("api.NewHandler: logger must not be nil")
	}
	return &Handler{game: game, saves: saves, db: db, logger: logger}
}

// Health reports liveness and, when save slots are enabled, database state.
// An unhealthy database answers 503 so load balancers stop routing saves here.
func (h *Handler) Health(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "disabled"})
		return
	}
	if err := h.db.Health(c.Request.Context()); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
}

// GameState returns the full snapshot.
func (h *Handler) GameState(c *gin.Context) {
	var snap snapshot.Snapshot
	_ = h.game.Do(func(e *team.Engine) error {
		snap = snapshot.Serialize(e)
		return nil
	})
	c.JSON(http.StatusOK, snap)
}

// TeamStatus returns the per-member summary.
func (h *Handler) TeamStatus(c *gin.Context) {
	var status map[string]team.Status
	_ = h.game.Do(func(e *team.Engine) error {
		status = e.TeamStatus()
		return nil
	})
	c.JSON(http.StatusOK, status)
}

// CharacterInfo returns one character, addressed by path or by ?id=.
func (h *Handler) CharacterInfo(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		id = c.Query("id")
	}
	if id == "" {
		writeError(c, http.StatusBadRequest, ErrCharacterIDRequired)
		return
	}
	var info snapshot.Character
	err := h.game.Do(func(e *team.Engine) error {
		ch, ok := e.Character(id)
		if !ok {
			return team.ErrCharacterNotFound
		}
		info = snapshot.SerializeCharacter(ch)
		return nil
	})
	if err != nil {
		writeError(c, http.StatusNotFound, ErrCharacterNotFound)
		return
	}
	c.JSON(http.StatusOK, info)
}

// statusFor maps engine errors onto HTTP statuses. Precondition failures are
// not errors at this layer and never reach it.
func statusFor(err error) int {
	switch {
	case errors.Is(err, team.ErrCharacterNotFound), errors.Is(err, team.ErrNotOnTeam):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
