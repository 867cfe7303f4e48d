package routesV1Match

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RoyalOrangefire/GopherMatch/internal/entity"
	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMatchUseCase struct {
	result entity.MatchResult
	err    error
	saved  []uint
}

func (s *stubMatchUseCase) EvaluateDecision(ctx context.Context, user1ID, user2ID uint, decision entity.DecisionStatus) (entity.MatchResult, error) {
	return s.result, s.err
}

func (s *stubMatchUseCase) SavedMatches(ctx context.Context, userID uint) ([]uint, error) {
	return s.saved, s.err
}

func (s *stubMatchUseCase) RemoveDecision(ctx context.Context, user1ID, user2ID uint, decision entity.DecisionStatus) error {
	return s.err
}

func (s *stubMatchUseCase) Inbox(ctx context.Context, userID uint) ([]entity.InboxMatch, error) {
	return nil, s.err
}

func (s *stubMatchUseCase) RemoveInboxMatch(ctx context.Context, user1ID, user2ID uint) error {
	return s.err
}

func (s *stubMatchUseCase) FilterCandidates(ctx context.Context, profileFilters map[string]interface{}, qnaFilters []entity.QnaFilter) ([]uint, error) {
	return nil, s.err
}

func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestMatcherHandlerMatchFound(t *testing.T) {
	c, rec := newContext(t, http.MethodPost, "/match/matcher",
		`{"user1Id": 1, "user2Id": 2, "decision": "match"}`)
	useCase := &stubMatchUseCase{result: entity.MatchResult{MatchFound: true, Message: "It's a match!"}}

	require.NoError(t, MatcherHandler(c, useCase))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result entity.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.MatchFound)
	assert.Equal(t, "It's a match!", result.Message)
}

func TestMatcherHandlerMissingFields(t *testing.T) {
	c, rec := newContext(t, http.MethodPost, "/match/matcher", `{"user1Id": 1}`)

	require.NoError(t, MatcherHandler(c, &stubMatchUseCase{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required fields")
}

func TestMatcherHandlerRejectsUnknownDecision(t *testing.T) {
	c, rec := newContext(t, http.MethodPost, "/match/matcher",
		`{"user1Id": 1, "user2Id": 2, "decision": "superlike"}`)

	require.NoError(t, MatcherHandler(c, &stubMatchUseCase{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatcherHandlerStorageFailureIs500(t *testing.T) {
	c, rec := newContext(t, http.MethodPost, "/match/matcher",
		`{"user1Id": 1, "user2Id": 2, "decision": "match"}`)
	useCase := &stubMatchUseCase{err: errors.New("db down")}

	require.NoError(t, MatcherHandler(c, useCase))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to process match decision.")
}

func TestSavedMatchesHandler(t *testing.T) {
	c, rec := newContext(t, http.MethodGet, "/match/saved-matches?userId=1", "")
	useCase := &stubMatchUseCase{saved: []uint{2, 3}}

	require.NoError(t, SavedMatchesHandler(c, useCase))
	assert.Equal(t, http.StatusOK, rec.Code)

	var saved []uint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, []uint{2, 3}, saved)
}

func TestSavedMatchesHandlerInvalidUserID(t *testing.T) {
	c, rec := newContext(t, http.MethodGet, "/match/saved-matches?userId=abc", "")

	require.NoError(t, SavedMatchesHandler(c, &stubMatchUseCase{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveHandlerMissingDecision(t *testing.T) {
	c, rec := newContext(t, http.MethodDelete, "/match/remove?user1Id=1&user2Id=2", "")

	require.NoError(t, RemoveHandler(c, &stubMatchUseCase{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveHandlerOK(t *testing.T) {
	c, rec := newContext(t, http.MethodDelete, "/match/remove?user1Id=1&user2Id=2&decision=unsure", "")

	require.NoError(t, RemoveHandler(c, &stubMatchUseCase{}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deleted successfully")
}
