package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/myiephero/matchengine/matching"
	"github.com/myiephero/matchengine/models"
)

type stubEngine struct {
	proposeRes *matching.ProposeResult
	proposeErr error
	introRes   *matching.IntroResult
	introErr   error
	acceptErr  error
	declineErr error
	listRes    []models.MatchProposal
	listErr    error
	eventsRes  []models.MatchEvent
	eventsErr  error

	lastActor   matching.Caller
	lastPropose matching.ProposeRequest
	lastIntro   matching.IntroRequest
	lastID      string
	lastReason  string
}

func (s *stubEngine) Propose(_ context.Context, actor matching.Caller, req matching.ProposeRequest) (*matching.ProposeResult, error) {
	s.lastActor, s.lastPropose = actor, req
	return s.proposeRes, s.proposeErr
}

func (s *stubEngine) RequestIntro(_ context.Context, actor matching.Caller, id string, req matching.IntroRequest) (*matching.IntroResult, error) {
	s.lastActor, s.lastID, s.lastIntro = actor, id, req
	return s.introRes, s.introErr
}

func (s *stubEngine) Accept(_ context.Context, actor matching.Caller, id string) (string, error) {
	s.lastActor, s.lastID = actor, id
	if s.acceptErr != nil {
		return "", s.acceptErr
	}
	return models.StatusAccepted, nil
}

func (s *stubEngine) Decline(_ context.Context, actor matching.Caller, id, reason string) (string, error) {
	s.lastActor, s.lastID, s.lastReason = actor, id, reason
	if s.declineErr != nil {
		return "", s.declineErr
	}
	return models.StatusDeclined, nil
}

func (s *stubEngine) List(_ context.Context, actor matching.Caller) ([]models.MatchProposal, error) {
	s.lastActor = actor
	return s.listRes, s.listErr
}

func (s *stubEngine) Events(_ context.Context, id string) ([]models.MatchEvent, error) {
	s.lastID = id
	return s.eventsRes, s.eventsErr
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user1")
	c.Set("role", "parent")
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestProposeHandler(t *testing.T) {
	stub := &stubEngine{proposeRes: &matching.ProposeResult{
		Created:       1,
		Proposals:     []models.MatchProposal{{ID: "p1"}},
		ExtractedTags: []string{"autism"},
	}}
	h := NewMatchHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/match/propose",
		`{"student_id":"stu1","advocate_ids":["adv1","adv2"],"reason":{"kind":"manual","note":"parent asked"}}`)

	if err := h.Propose(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["created"].(float64) != 1 {
		t.Fatalf("expected created=1, got %v", body["created"])
	}
	if stub.lastActor.ID != "user1" {
		t.Fatalf("caller identity not forwarded: %+v", stub.lastActor)
	}
	if len(stub.lastPropose.AdvocateIDs) != 2 {
		t.Fatalf("advocate ids not forwarded: %+v", stub.lastPropose)
	}
	if stub.lastPropose.Reason.Kind != "manual" {
		t.Fatalf("reason kind not forwarded: %+v", stub.lastPropose.Reason)
	}
}

func TestProposeHandlerValidation(t *testing.T) {
	h := NewMatchHandler(&stubEngine{})

	c, rec := newTestContext(t, http.MethodPost, "/match/propose", `{"student_id":"","advocate_ids":[]}`)
	if err := h.Propose(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %s", rec.Body.String())
	}
}

func TestProposeHandlerRequiresCaller(t *testing.T) {
	h := NewMatchHandler(&stubEngine{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/match/propose", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec) // no identity attached

	if err := h.Propose(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestErrorTaxonomyMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body string
	}{
		{fmt.Errorf("load proposal: %w", matching.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("already terminal: %w", matching.ErrConflict), http.StatusConflict, "CONFLICT"},
		{fmt.Errorf("bad input: %w", matching.ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("db exploded"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		h := NewMatchHandler(&stubEngine{acceptErr: tc.err})
		c, rec := newTestContext(t, http.MethodPost, "/match/p1/accept", "")
		c.SetParamNames("id")
		c.SetParamValues("p1")

		if err := h.Accept(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != tc.code {
			t.Fatalf("err %v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if decodeBody(t, rec)["error"] != tc.body {
			t.Fatalf("err %v: expected code %q, got %s", tc.err, tc.body, rec.Body.String())
		}
	}
}

func TestIntroHandlerParsesTime(t *testing.T) {
	stub := &stubEngine{introRes: &matching.IntroResult{
		IntroCall: models.IntroCall{ID: "call1", Channel: "zoom"},
		Status:    models.StatusScheduled,
	}}
	h := NewMatchHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/match/p1/intro",
		`{"when_ts":"2026-09-10T15:00:00Z","channel":"zoom","link":"https://zoom.example/j/1"}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Intro(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastIntro.WhenTS == nil || stub.lastIntro.WhenTS.UTC().Hour() != 15 {
		t.Fatalf("when_ts not parsed: %+v", stub.lastIntro.WhenTS)
	}
	if decodeBody(t, rec)["status"] != models.StatusScheduled {
		t.Fatalf("status not surfaced: %s", rec.Body.String())
	}
}

func TestIntroHandlerRejectsBadTime(t *testing.T) {
	h := NewMatchHandler(&stubEngine{})

	c, rec := newTestContext(t, http.MethodPost, "/match/p1/intro", `{"when_ts":"tomorrow-ish"}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Intro(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed when_ts, got %d", rec.Code)
	}
}

func TestDeclineHandlerForwardsReason(t *testing.T) {
	stub := &stubEngine{}
	h := NewMatchHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/match/p1/decline", `{"reason":"found another advocate"}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Decline(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.lastReason != "found another advocate" {
		t.Fatalf("reason not forwarded: %q", stub.lastReason)
	}
	if decodeBody(t, rec)["status"] != models.StatusDeclined {
		t.Fatalf("expected declined status, got %s", rec.Body.String())
	}
}

func TestListHandlerEmptyIsArray(t *testing.T) {
	h := NewMatchHandler(&stubEngine{})

	c, rec := newTestContext(t, http.MethodGet, "/match", "")
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"proposals":[]`) {
		t.Fatalf("empty list must serialize as [], got %s", rec.Body.String())
	}
}

func TestEventsHandler(t *testing.T) {
	stub := &stubEngine{eventsRes: []models.MatchEvent{
		{ID: "e2", ProposalID: "p1", EventType: models.EventProposalDeclined},
		{ID: "e1", ProposalID: "p1", EventType: models.EventProposalCreated},
	}}
	h := NewMatchHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/match/p1/events", "")
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Events(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	events := body["events"].([]any)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if stub.lastID != "p1" {
		t.Fatalf("proposal id not forwarded: %q", stub.lastID)
	}
}
