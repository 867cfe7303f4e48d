package routesV1Match

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RoyalOrangefire/GopherMatch/internal/entity"
	"github.com/RoyalOrangefire/GopherMatch/internal/usecase/match"
	"github.com/RoyalOrangefire/GopherMatch/pkg/http_util"
	"github.com/labstack/echo"
)

// MatcherHandler records a swipe decision and reports whether it completed
// a mutual match.
func MatcherHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	request, err := http_util.Decode[entity.MatcherRequest](c)

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "invalid request")
	}

	if problems := request.Validate(c.Request().Context()); len(problems) > 0 {
		return http_util.Error(c, http.StatusBadRequest, "Missing required fields: user1Id, user2Id, or decision.")
	}

	result, err := matchCase.EvaluateDecision(c.Request().Context(), request.User1ID, request.User2ID, request.Decision)

	if err != nil {
		return http_util.Error(c, http.StatusInternalServerError, "Failed to process match decision.")
	}

	return http_util.Encode(c, http.StatusOK, result)
}

// SavedMatchesHandler lists the profiles a user marked "unsure".
func SavedMatchesHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	userID, err := queryUserID(c, "userId")

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "Invalid user ID.")
	}

	saved, err := matchCase.SavedMatches(c.Request().Context(), userID)

	if err != nil {
		return http_util.Error(c, http.StatusInternalServerError, "Internal server error.")
	}

	return http_util.Encode(c, http.StatusOK, saved)
}

// RemoveHandler retracts a saved decision; query params mirror the body of
// the matcher endpoint.
func RemoveHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	user1ID, err1 := queryUserID(c, "user1Id")
	user2ID, err2 := queryUserID(c, "user2Id")
	decision := entity.DecisionStatus(c.QueryParam("decision"))

	if err1 != nil || err2 != nil || decision == "" {
		return http_util.Error(c, http.StatusBadRequest, "Missing required fields: user1Id, user2Id, or decision.")
	}

	if err := matchCase.RemoveDecision(c.Request().Context(), user1ID, user2ID, decision); err != nil {
		return http_util.Error(c, http.StatusInternalServerError, "Failed to process match decision.")
	}

	return http_util.Message(c, "Match decision deleted successfully.")
}

// InboxDeleteHandler unmatches both sides of a mutual match.
func InboxDeleteHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	user1ID, err1 := queryUserID(c, "user1_id")
	user2ID, err2 := queryUserID(c, "user2_id")

	if err1 != nil || err2 != nil {
		return http_util.Error(c, http.StatusBadRequest, "Missing required fields: user1_id, user2_id")
	}

	if err := matchCase.RemoveInboxMatch(c.Request().Context(), user1ID, user2ID); err != nil {
		return http_util.Error(c, http.StatusInternalServerError, "Failed to process inbox delete.")
	}

	return http_util.Message(c, "Inbox match deleted successfully.")
}

// InboxHandler returns matched user IDs with their match timestamps.
func InboxHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	userID, err := queryUserID(c, "userId")

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "User ID is required")
	}

	matches, err := matchCase.Inbox(c.Request().Context(), userID)

	if err != nil {
		return http_util.Error(c, http.StatusInternalServerError, "Failed to retrieve matches")
	}

	return http_util.Encode(c, http.StatusOK, matches)
}

// FilterResultsHandler intersects the profile and Q&A filter candidate sets.
func FilterResultsHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	request, err := http_util.Decode[entity.FilterRequest](c)

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "invalid request")
	}

	if problems := request.Validate(c.Request().Context()); len(problems) > 0 {
		return http_util.Error(c, http.StatusBadRequest, "Invalid filters.")
	}

	candidates, err := matchCase.FilterCandidates(c.Request().Context(), request.UserdataFilters, request.QnaFilters)

	if err != nil {
		return http_util.Error(c, http.StatusInternalServerError, "Failed to get filter results.")
	}

	return http_util.Encode(c, http.StatusOK, candidates)
}

func queryUserID(c echo.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.QueryParam(param), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid user id")
	}
	return uint(id), nil
}
