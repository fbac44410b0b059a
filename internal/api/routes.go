// Package api exposes the combat engine over a JSON HTTP API using gin.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/game7/internal/observability"
)

const (
	RoutePrefix          = "/api"
	RouteGameState       = "/game-state"
	RouteTeamStatus      = "/team-status"
	RouteCharacterInfo   = "/character-info"
	RouteCharacterByID   = "/character-info/:id"
	RouteUseSkill        = "/use-skill"
	RouteBasicAttack     = "/basic-attack"
	RouteSwitchCharacter = "/switch-character"
	RouteLevelUp         = "/level-up"
	RouteGainExperience  = "/gain-experience"
	RouteDefeat          = "/defeat-character"
	RouteRevive          = "/revive-character"
	RouteReflectBullets  = "/reflect-bullets"
	RouteSaves           = "/saves"
	RouteSaveByID        = "/saves/:id"
	RouteSaveLoad        = "/saves/:id/load"
	RouteHealth          = "/healthz"
)

// NewRouter builds the gin engine serving every API route.
//
// Precondition: h and logger must be non-nil.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(observability.Recovery(logger), observability.RequestLogger(logger), allowAnyOrigin())

	r.GET(RouteHealth, h.Health)

	g := r.Group(RoutePrefix)
	{
		g.GET(RouteGameState, h.GameState)
		g.GET(RouteTeamStatus, h.TeamStatus)
		g.GET(RouteCharacterInfo, h.CharacterInfo)
		g.GET(RouteCharacterByID, h.CharacterInfo)

		g.POST(RouteUseSkill, h.UseSkill)
		g.POST(RouteBasicAttack, h.BasicAttack)
		g.POST(RouteSwitchCharacter, h.SwitchCharacter)
		g.POST(RouteLevelUp, h.LevelUp)
		g.POST(RouteGainExperience, h.GainExperience)
		g.POST(RouteDefeat, h.DefeatCharacter)
		g.POST(RouteRevive, h.ReviveCharacter)
		g.POST(RouteReflectBullets, h.ReflectBullets)

		g.GET(RouteSaves, h.ListSaves)
		g.POST(RouteSaves, h.CreateSave)
		g.GET(RouteSaveByID, h.GetSave)
		g.PUT(RouteSaveByID, h.OverwriteSave)
		g.DELETE(RouteSaveByID, h.DeleteSave)
		g.POST(RouteSaveLoad, h.LoadSave)
	}

	r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "Not Found")
	})
	return r
}

// allowAnyOrigin lets the browser client call the API from any origin.
func allowAnyOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func writeError(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, errorResponse{Error: msg, Code: code})
}
