package match

import (
	"context"

	"github.com/RoyalOrangefire/GopherMatch/internal/entity"
	decisionRepo "github.com/RoyalOrangefire/GopherMatch/internal/repository/decision"
	profileRepo "github.com/RoyalOrangefire/GopherMatch/internal/repository/profile"
)

type IMatchUseCase interface {
	// EvaluateDecision records user1's decision about user2 and reports
	// whether a mutual match now exists.
	EvaluateDecision(ctx context.Context, user1ID, user2ID uint, decision entity.DecisionStatus) (entity.MatchResult, error)

	// SavedMatches lists the profiles user marked "unsure".
	SavedMatches(ctx context.Context, userID uint) ([]uint, error)

	// RemoveDecision retracts a previously saved decision. The stored status
	// must match exactly for anything to be deleted.
	RemoveDecision(ctx context.Context, user1ID, user2ID uint, decision entity.DecisionStatus) error

	// Inbox lists the user's mutual matches with their match timestamps.
	Inbox(ctx context.Context, userID uint) ([]entity.InboxMatch, error)

	// RemoveInboxMatch unmatches both sides of a mutual match.
	RemoveInboxMatch(ctx context.Context, user1ID, user2ID uint) error

	// FilterCandidates intersects the profile-filter and Q&A-filter
	// candidate sets.
	FilterCandidates(ctx context.Context, profileFilters map[string]interface{}, qnaFilters []entity.QnaFilter) ([]uint, error)
}

type matchUseCase struct {
	decisionRepo decisionRepo.IDecisionRepository
	profileRepo  profileRepo.IProfileRepository
}

func New(decisions decisionRepo.IDecisionRepository, profiles profileRepo.IProfileRepository) IMatchUseCase {
	return &matchUseCase{
		decisionRepo: decisions,
		profileRepo:  profiles,
	}
}

func (m *matchUseCase) EvaluateDecision(ctx context.Context, user1ID, user2ID uint, decision entity.DecisionStatus) (entity.MatchResult, error) {
	matchFound, err := m.decisionRepo.EvaluateDecision(ctx, user1ID, user2ID, decision)
	if err != nil {
		return entity.MatchResult{}, err
	}

	if matchFound {
		return entity.MatchResult{
			MatchFound: true,
			Message:    "It's a match!",
		}, nil
	}

	return entity.MatchResult{
		MatchFound: false,
		Message:    "Decision recorded. Waiting for the other user.",
	}, nil
}

func (m *matchUseCase) SavedMatches(ctx context.Context, userID uint) ([]uint, error) {
	return m.decisionRepo.ListUnsure(ctx, userID)
}

func (m *matchUseCase) RemoveDecision(ctx context.Context, user1ID, user2ID uint, decision entity.DecisionStatus) error {
	return m.decisionRepo.DeleteDecision(ctx, user1ID, user2ID, decision)
}

func (m *matchUseCase) Inbox(ctx context.Context, userID uint) ([]entity.InboxMatch, error) {
	return m.decisionRepo.RetrieveMatches(ctx, userID)
}

func (m *matchUseCase) RemoveInboxMatch(ctx context.Context, user1ID, user2ID uint) error {
	return m.decisionRepo.DeleteInboxMatch(ctx, user1ID, user2ID)
}

// FilterCandidates evaluates both filter domains independently and returns
// the intersection. No scoring or ranking; an empty candidate set on either
// side empties the result.
func (m *matchUseCase) FilterCandidates(ctx context.Context, profileFilters map[string]interface{}, qnaFilters []entity.QnaFilter) ([]uint, error) {
	bioIDs, err := m.profileRepo.FilterByBio(ctx, profileFilters)
	if err != nil {
		return nil, err
	}

	qnaIDs, err := m.profileRepo.FilterByQna(ctx, qnaFilters)
	if err != nil {
		return nil, err
	}

	inQna := make(map[uint]struct{}, len(qnaIDs))
	for _, id := range qnaIDs {
		inQna[id] = struct{}{}
	}

	common := make([]uint, 0)
	for _, id := range bioIDs {
		if _, ok := inQna[id]; ok {
			common = append(common, id)
		}
	}

	return common, nil
}
