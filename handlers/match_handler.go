package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/myiephero/matchengine/matching"
	"github.com/myiephero/matchengine/models"
)

// matchEngine is the slice of the engine the HTTP layer needs.
type matchEngine interface {
	Propose(ctx context.Context, actor matching.Caller, req matching.ProposeRequest) (*matching.ProposeResult, error)
	RequestIntro(ctx context.Context, actor matching.Caller, proposalID string, req matching.IntroRequest) (*matching.IntroResult, error)
	Accept(ctx context.Context, actor matching.Caller, proposalID string) (string, error)
	Decline(ctx context.Context, actor matching.Caller, proposalID, reason string) (string, error)
	List(ctx context.Context, actor matching.Caller) ([]models.MatchProposal, error)
	Events(ctx context.Context, proposalID string) ([]models.MatchEvent, error)
}

type MatchHandler struct {
	engine matchEngine
}

func NewMatchHandler(engine matchEngine) *MatchHandler {
	return &MatchHandler{engine: engine}
}

// caller reads the identity RequireAuth attached to the context.
func caller(c echo.Context) (matching.Caller, bool) {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if id == "" {
		return matching.Caller{}, false
	}
	return matching.Caller{ID: id, Role: role}, true
}

// jsonError maps the engine's error taxonomy onto HTTP responses. Internal
// detail stays out of 500 bodies.
func jsonError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, matching.ErrValidation):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "VALIDATION_ERROR", "message": err.Error()})
	case errors.Is(err, matching.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED"})
	case errors.Is(err, matching.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	case errors.Is(err, matching.ErrConflict):
		return c.JSON(http.StatusConflict, map[string]string{"error": "CONFLICT", "message": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "INTERNAL_ERROR"})
	}
}

// GET /match
func (h *MatchHandler) List(c echo.Context) error {
	actor, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED"})
	}
	proposals, err := h.engine.List(c.Request().Context(), actor)
	if err != nil {
		return jsonError(c, err)
	}
	if proposals == nil {
		proposals = []models.MatchProposal{}
	}
	return c.JSON(http.StatusOK, map[string]any{"proposals": proposals})
}

// GET /match/:id/events
func (h *MatchHandler) Events(c echo.Context) error {
	if _, ok := caller(c); !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED"})
	}
	events, err := h.engine.Events(c.Request().Context(), c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}
	if events == nil {
		events = []models.MatchEvent{}
	}
	return c.JSON(http.StatusOK, map[string]any{"events": events})
}

type reasonPayload struct {
	Kind  string         `json:"kind"`
	Note  string         `json:"note"`
	Extra map[string]any `json:"extra"`
}

type proposePayload struct {
	StudentID   string        `json:"student_id"`
	AdvocateIDs []string      `json:"advocate_ids"`
	Reason      reasonPayload `json:"reason"`
}

func (p *proposePayload) normalize() {
	p.StudentID = strings.TrimSpace(p.StudentID)
	ids := p.AdvocateIDs[:0]
	for _, id := range p.AdvocateIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	p.AdvocateIDs = ids
	p.Reason.Kind = strings.TrimSpace(p.Reason.Kind)
}

// POST /match/propose
func (h *MatchHandler) Propose(c echo.Context) error {
	actor, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED"})
	}

	var p proposePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if p.StudentID == "" || len(p.AdvocateIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error":   "VALIDATION_ERROR",
			"message": "student_id and advocate_ids array required",
		})
	}

	res, err := h.engine.Propose(c.Request().Context(), actor, matching.ProposeRequest{
		StudentID:   p.StudentID,
		AdvocateIDs: p.AdvocateIDs,
		Reason: matching.Reason{
			Kind:  p.Reason.Kind,
			Note:  p.Reason.Note,
			Extra: p.Reason.Extra,
		},
	})
	if err != nil {
		return jsonError(c, err)
	}

	tags := res.ExtractedTags
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"created":        res.Created,
		"proposals":      res.Proposals,
		"extracted_tags": tags,
	})
}

type introPayload struct {
	WhenTS  string `json:"when_ts"` // RFC3339; empty = request without a time
	Channel string `json:"channel"`
	Link    string `json:"link"`
	Notes   string `json:"notes"`
}

// POST /match/:id/intro
func (h *MatchHandler) Intro(c echo.Context) error {
	actor, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED"})
	}

	var p introPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}

	var when *time.Time
	if s := strings.TrimSpace(p.WhenTS); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error":   "VALIDATION_ERROR",
				"message": "when_ts must be RFC3339",
			})
		}
		when = &t
	}

	res, err := h.engine.RequestIntro(c.Request().Context(), actor, c.Param("id"), matching.IntroRequest{
		WhenTS:  when,
		Channel: p.Channel,
		Link:    strings.TrimSpace(p.Link),
		Notes:   p.Notes,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"intro_call": res.IntroCall,
		"status":     res.Status,
	})
}

// POST /match/:id/accept
func (h *MatchHandler) Accept(c echo.Context) error {
	actor, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED"})
	}
	status, err := h.engine.Accept(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status})
}

type declinePayload struct {
	Reason string `json:"reason"`
}

// POST /match/:id/decline
func (h *MatchHandler) Decline(c echo.Context) error {
	actor, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED"})
	}
	var p declinePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	status, err := h.engine.Decline(c.Request().Context(), actor, c.Param("id"), p.Reason)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status})
}
