package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/game7/internal/game/character"
	"github.com/cory-johannsen/game7/internal/game/skill"
	"github.com/cory-johannsen/game7/internal/game/team"
)

// CharacterRequest names a character.
type CharacterRequest struct {
	CharacterID string `json:"character_id"`
}

// UseSkillRequest activates one skill.
type UseSkillRequest struct {
	CharacterID string `json:"character_id"`
	SkillType   string `json:"skill_type"`
}

// CharacterState is the gauge summary returned after a skill use.
type CharacterState struct {
	HP          float64 `json:"hp"`
	Rage        float64 `json:"rage"`
	SecretGauge float64 `json:"secret_gauge"`
	RageActive  bool    `json:"rage_active"`
}

// UseSkillResponse reports a skill activation.
type UseSkillResponse struct {
	Success        bool           `json:"success"`
	Reason         string         `json:"reason,omitempty"`
	Damage         float64        `json:"damage"`
	Character      string         `json:"character"`
	Skill          string         `json:"skill"`
	CharacterState CharacterState `json:"character_state"`
}

// RevivalRequest revives a character.
type RevivalRequest struct {
	CharacterID string `json:"character_id"`
	Instant     bool   `json:"instant"`
}

// ExperienceRequest grants experience.
type ExperienceRequest struct {
	CharacterID string `json:"character_id"`
	Amount      int    `json:"amount"`
}

// ReflectRequest reflects incoming projectiles.
type ReflectRequest struct {
	CharacterID string `json:"character_id"`
	BulletCount int    `json:"bullet_count"`
}

// bindCharacter decodes req and checks that getID(req) is non-empty. It writes
// the 400 response itself and reports whether the caller should continue.
func bindCharacter[T any](c *gin.Context, req *T, getID func(*T) string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, ErrInvalidRequest)
		return false
	}
	if getID(req) == "" {
		writeError(c, http.StatusBadRequest, ErrCharacterIDRequired)
		return false
	}
	return true
}

// UseSkill activates a skill and, on success, reports the damage it deals.
func (h *Handler) UseSkill(c *gin.Context) {
	var req UseSkillRequest
	if !bindCharacter(c, &req, func(r *UseSkillRequest) string { return r.CharacterID }) {
		return
	}
	slot, err := skill.ParseSlot(req.SkillType)
	if err != nil {
		writeError(c, http.StatusBadRequest, ErrInvalidSkillType+": "+req.SkillType)
		return
	}

	resp := UseSkillResponse{Character: req.CharacterID, Skill: slot.String()}
	err = h.game.Do(func(e *team.Engine) error {
		ch, ok := e.Character(req.CharacterID)
		if !ok {
			return team.ErrCharacterNotFound
		}
		if aerr := ch.ActivateSkill(slot); aerr != nil {
			resp.Reason = aerr.Error()
		} else {
			resp.Success = true
			resp.Damage = ch.CalculateDamage(slot)
		}
		resp.CharacterState = CharacterState{
			HP:          ch.Stats.HP,
			Rage:        ch.Stats.Rage,
			SecretGauge: ch.Stats.SecretGauge,
			RageActive:  ch.Stats.RageActive,
		}
		return nil
	})
	if err != nil {
		writeError(c, statusFor(err), ErrCharacterNotFound)
		return
	}
	if resp.Success {
		h.logger.Debug("skill used",
			zap.String("character", req.CharacterID),
			zap.Stringer("slot", slot),
			zap.Float64("damage", resp.Damage),
		)
	}
	c.JSON(http.StatusOK, resp)
}

// BasicAttack runs a basic attack. An absent body or character_id attacks
// with the active character.
func (h *Handler) BasicAttack(c *gin.Context) {
	var req CharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}
	var res character.AttackResult
	err := h.game.Do(func(e *team.Engine) error {
		if req.CharacterID != "" {
			if _, ok := e.Character(req.CharacterID); !ok {
				return team.ErrCharacterNotFound
			}
		}
		res = e.UseBasicAttack(req.CharacterID)
		return nil
	})
	if err != nil {
		writeError(c, statusFor(err), ErrCharacterNotFound)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SwitchCharacter changes the active character. Unknown and defeated
// characters are reported with success false.
func (h *Handler) SwitchCharacter(c *gin.Context) {
	var req CharacterRequest
	if !bindCharacter(c, &req, func(r *CharacterRequest) string { return r.CharacterID }) {
		return
	}
	resp := gin.H{}
	_ = h.game.Do(func(e *team.Engine) error {
		err := e.Switch(req.CharacterID)
		resp["success"] = err == nil
		if err != nil {
			resp["reason"] = err.Error()
		}
		resp["active_character"] = e.ActiveID()
		return nil
	})
	c.JSON(http.StatusOK, resp)
}

// LevelUp performs at most one level-up step.
func (h *Handler) LevelUp(c *gin.Context) {
	var req CharacterRequest
	if !bindCharacter(c, &req, func(r *CharacterRequest) string { return r.CharacterID }) {
		return
	}
	var resp gin.H
	err := h.game.Do(func(e *team.Engine) error {
		ch, ok := e.Character(req.CharacterID)
		if !ok {
			return team.ErrCharacterNotFound
		}
		leveled := ch.LevelUp()
		resp = gin.H{
			"leveled_up":   leveled,
			"level":        ch.Stats.Level,
			"skill_points": ch.SkillPoints,
			"stats": gin.H{
				"max_hp":  ch.Stats.MaxHP,
				"attack":  ch.Stats.Attack,
				"defense": ch.Stats.Defense,
			},
		}
		return nil
	})
	if err != nil {
		writeError(c, statusFor(err), ErrCharacterNotFound)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GainExperience grants experience and applies every level-up it earns.
func (h *Handler) GainExperience(c *gin.Context) {
	var req ExperienceRequest
	if !bindCharacter(c, &req, func(r *ExperienceRequest) string { return r.CharacterID }) {
		return
	}
	if req.Amount < 0 {
		writeError(c, http.StatusBadRequest, ErrNegativeAmount)
		return
	}
	var resp gin.H
	err := h.game.Do(func(e *team.Engine) error {
		ch, ok := e.Character(req.CharacterID)
		if !ok {
			return team.ErrCharacterNotFound
		}
		before := ch.Stats.Level
		leveled := ch.GainExperience(req.Amount)
		if leveled {
			h.logger.Info("character leveled up",
				zap.String("character", ch.ID),
				zap.Int("from", before),
				zap.Int("to", ch.Stats.Level),
			)
		}
		resp = gin.H{
			"experience_gained": req.Amount,
			"leveled_up":        leveled,
			"experience":        ch.Experience,
			"experience_needed": ch.ExperienceNeeded,
			"level":             ch.Stats.Level,
		}
		return nil
	})
	if err != nil {
		writeError(c, statusFor(err), ErrCharacterNotFound)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DefeatCharacter defeats a character and reports the resulting team state.
func (h *Handler) DefeatCharacter(c *gin.Context) {
	var req CharacterRequest
	if !bindCharacter(c, &req, func(r *CharacterRequest) string { return r.CharacterID }) {
		return
	}
	var resp gin.H
	err := h.game.Do(func(e *team.Engine) error {
		if err := e.Defeat(req.CharacterID); err != nil {
			return err
		}
		resp = gin.H{
			"defeated":         req.CharacterID,
			"active_character": e.ActiveID(),
			"game_over":        e.CheckGameOver(),
		}
		return nil
	})
	if err != nil {
		writeError(c, statusFor(err), ErrCharacterNotFound)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReviveCharacter revives a defeated character. Living and unknown
// characters are reported with success false.
func (h *Handler) ReviveCharacter(c *gin.Context) {
	var req RevivalRequest
	if !bindCharacter(c, &req, func(r *RevivalRequest) string { return r.CharacterID }) {
		return
	}
	resp := gin.H{"character": req.CharacterID}
	_ = h.game.Do(func(e *team.Engine) error {
		err := e.Revive(req.CharacterID)
		resp["success"] = err == nil
		if err != nil {
			resp["reason"] = err.Error()
		}
		resp["active_character"] = e.ActiveID()
		return nil
	})
	c.JSON(http.StatusOK, resp)
}

// ReflectBullets reflects up to the per-swing cap of incoming projectiles.
func (h *Handler) ReflectBullets(c *gin.Context) {
	var req ReflectRequest
	if !bindCharacter(c, &req, func(r *ReflectRequest) string { return r.CharacterID }) {
		return
	}
	if req.BulletCount < 0 {
		writeError(c, http.StatusBadRequest, ErrNegativeAmount)
		return
	}
	var res team.ReflectResult
	err := h.game.Do(func(e *team.Engine) error {
		if _, ok := e.Character(req.CharacterID); !ok {
			return team.ErrCharacterNotFound
		}
		res = e.ReflectBullets(req.CharacterID, req.BulletCount)
		return nil
	})
	if err != nil {
		writeError(c, statusFor(err), ErrCharacterNotFound)
		return
	}
	c.JSON(http.StatusOK, res)
}
