package decisionRepo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/RoyalOrangefire/GopherMatch/internal/entity"
	"github.com/RoyalOrangefire/GopherMatch/internal/logger"
	"github.com/go-redis/redis"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	savedSetTTL = 24 * time.Hour
	matchSetTTL = 30 * 24 * time.Hour
)

// IDecisionRepository is the Decision Store: directed swipe decisions keyed
// by (user, target), plus the mutual-match bookkeeping derived from them.
type IDecisionRepository interface {
	// Upserts the decision row; a repeat decision for the same pair
	// overwrites the stored status.
	RecordDecision(ctx context.Context, userID, matchUserID uint, status entity.DecisionStatus) error

	// Records the decision and, when status is "match", checks the reverse
	// row in the same transaction. Returns true when the pair is mutual.
	EvaluateDecision(ctx context.Context, userID, matchUserID uint, status entity.DecisionStatus) (bool, error)

	// Guarded delete: removes the row only when all three fields match the
	// stored values. A status mismatch deletes nothing and is not an error.
	DeleteDecision(ctx context.Context, userID, matchUserID uint, status entity.DecisionStatus) error

	// Target IDs the user marked "unsure" (saved for later).
	ListUnsure(ctx context.Context, userID uint) ([]uint, error)

	// Inbox entries: mutual matches of the user with the time mutuality
	// was first detected.
	RetrieveMatches(ctx context.Context, userID uint) ([]entity.InboxMatch, error)

	// Removes both directed rows of a mutual match.
	DeleteInboxMatch(ctx context.Context, user1ID, user2ID uint) error
}

type DecisionRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

func New(db *gorm.DB, rdb *redis.Client) IDecisionRepository {
	return &DecisionRepo{
		db:  db,
		rdb: rdb,
	}
}

func (r *DecisionRepo) RecordDecision(ctx context.Context, userID, matchUserID uint, status entity.DecisionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", entity.ErrInvalidDecision, status)
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "match_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"match_status", "updated_at"}),
		}).
		Create(&entity.MatchDecision{
			UserID:      userID,
			MatchUserID: matchUserID,
			MatchStatus: status,
		})

	if res.Error != nil {
		logger.Error("record decision failed", "user_id", userID, "match_user_id", matchUserID, "err", res.Error)
		return fmt.Errorf("failed to record user decision: %w", entity.ErrPersistence)
	}

	r.syncSavedCache(userID, matchUserID, status)

	return nil
}

func (r *DecisionRepo) EvaluateDecision(ctx context.Context, userID, matchUserID uint, status entity.DecisionStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: %q", entity.ErrInvalidDecision, status)
	}

	var matchFound bool

	// Upsert and reciprocal check share one transaction so a concurrent
	// write cannot slip between the two steps.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "match_user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"match_status", "updated_at"}),
			}).
			Create(&entity.MatchDecision{
				UserID:      userID,
				MatchUserID: matchUserID,
				MatchStatus: status,
			})
		if res.Error != nil {
			return res.Error
		}

		if status != entity.DecisionMatch {
			return nil
		}

		// symmetric-pair point lookup on the composite key
		var reverse entity.MatchDecision
		res = tx.
			Where("user_id = ? AND match_user_id = ? AND match_status = ?",
				matchUserID, userID, entity.DecisionMatch).
			First(&reverse)

		if res.Error != nil {
			if res.Error == gorm.ErrRecordNotFound {
				return nil
			}
			return res.Error
		}

		matchFound = true

		// Stamp matched_at on both rows the first time mutuality appears;
		// a repeated like must not move the timestamp.
		now := time.Now().UTC()
		res = tx.Model(&entity.MatchDecision{}).
			Where("user_id IN ? AND match_user_id IN ? AND matched_at IS NULL",
				[]uint{userID, matchUserID}, []uint{userID, matchUserID}).
			Update("matched_at", now)

		return res.Error
	})

	if err != nil {
		logger.Error("evaluate decision failed", "user_id", userID, "match_user_id", matchUserID, "err", err)
		return false, fmt.Errorf("failed to record user decision: %w", entity.ErrPersistence)
	}

	r.syncSavedCache(userID, matchUserID, status)

	if matchFound {
		r.invalidateMatchCache(userID)
		r.invalidateMatchCache(matchUserID)
	}

	return matchFound, nil
}

func (r *DecisionRepo) DeleteDecision(ctx context.Context, userID, matchUserID uint, status entity.DecisionStatus) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND match_user_id = ? AND match_status = ?", userID, matchUserID, status).
		Delete(&entity.MatchDecision{})

	if res.Error != nil {
		logger.Error("delete decision failed", "user_id", userID, "match_user_id", matchUserID, "err", res.Error)
		return fmt.Errorf("failed to delete match decision: %w", entity.ErrPersistence)
	}

	// rows affected == 0 means the stored status differed; not an error

	if err := r.rdb.SRem(savedKey(userID), matchUserID).Err(); err != nil && err != redis.Nil {
		logger.Warn("error removing saved profile from redis", "err", err)
	}
	if status == entity.DecisionMatch {
		// a retracted like breaks mutuality for both inboxes
		r.invalidateMatchCache(userID)
		r.invalidateMatchCache(matchUserID)
	}

	return nil
}

func (r *DecisionRepo) ListUnsure(ctx context.Context, userID uint) ([]uint, error) {
	key := savedKey(userID)

	exists, err := r.rdb.Exists(key).Result()
	if err != nil && err != redis.Nil {
		logger.Warn("error checking saved profiles cache", "err", err)
		exists = 0
	}

	var profiles []uint

	if exists != 0 {
		if err := r.rdb.SMembers(key).ScanSlice(&profiles); err == nil {
			return profiles, nil
		}
		// fall through to the DB on a cache read failure
	}

	res := r.db.WithContext(ctx).
		Model(&entity.MatchDecision{}).
		Select("match_user_id").
		Where("user_id = ? AND match_status = ?", userID, entity.DecisionUnsure).
		Find(&profiles)

	if res.Error != nil {
		logger.Error("list unsure failed", "user_id", userID, "err", res.Error)
		return nil, fmt.Errorf("failed to fetch saved matches: %w", entity.ErrPersistence)
	}

	for _, id := range profiles {
		r.rdb.SAdd(key, strconv.FormatUint(uint64(id), 10))
	}
	if len(profiles) > 0 {
		r.rdb.Expire(key, savedSetTTL)
	}

	return profiles, nil
}

// RetrieveMatches serves the inbox from the cached sorted set when present;
// members are matched user IDs scored by the matched_at time, so newest-first
// order falls out of ZREVRANGE. Writes that change mutuality drop the set and
// the next read rebuilds it here.
func (r *DecisionRepo) RetrieveMatches(ctx context.Context, userID uint) ([]entity.InboxMatch, error) {
	key := matchKey(userID)

	exists, err := r.rdb.Exists(key).Result()
	if err != nil && err != redis.Nil {
		logger.Warn("error checking match profiles cache", "err", err)
		exists = 0
	}

	if exists != 0 {
		if matches, ok := r.matchesFromCache(key); ok {
			return matches, nil
		}
		// fall through to the DB on a cache read failure
	}

	var rows []entity.MatchDecision

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND match_status = ? AND matched_at IS NOT NULL", userID, entity.DecisionMatch).
		Order("matched_at DESC").
		Find(&rows)

	if res.Error != nil {
		logger.Error("retrieve matches failed", "user_id", userID, "err", res.Error)
		return nil, fmt.Errorf("failed to retrieve matches: %w", entity.ErrPersistence)
	}

	matches := make([]entity.InboxMatch, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, entity.InboxMatch{
			MatchID:   row.MatchUserID,
			Timestamp: *row.MatchedAt,
		})
		r.rdb.ZAdd(key, redis.Z{
			Score:  float64(row.MatchedAt.Unix()),
			Member: strconv.FormatUint(uint64(row.MatchUserID), 10),
		})
	}
	if len(matches) > 0 {
		r.rdb.Expire(key, matchSetTTL)
	}

	return matches, nil
}

func (r *DecisionRepo) DeleteInboxMatch(ctx context.Context, user1ID, user2ID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("(user_id = ? AND match_user_id = ?) OR (user_id = ? AND match_user_id = ?)",
				user1ID, user2ID, user2ID, user1ID).
			Delete(&entity.MatchDecision{})
		return res.Error
	})

	if err != nil {
		logger.Error("delete inbox match failed", "user1_id", user1ID, "user2_id", user2ID, "err", err)
		return fmt.Errorf("failed to delete inbox match: %w", entity.ErrPersistence)
	}

	r.invalidateMatchCache(user1ID)
	r.invalidateMatchCache(user2ID)

	return nil
}

// Private functions

// syncSavedCache keeps the "saved for later" set aligned with the stored
// status: unsure adds the target, any other status clears it.
func (r *DecisionRepo) syncSavedCache(userID, matchUserID uint, status entity.DecisionStatus) {
	key := savedKey(userID)

	var err error
	if status == entity.DecisionUnsure {
		err = r.rdb.SAdd(key, strconv.FormatUint(uint64(matchUserID), 10)).Err()
	} else {
		err = r.rdb.SRem(key, strconv.FormatUint(uint64(matchUserID), 10)).Err()
	}
	if err != nil && err != redis.Nil {
		logger.Warn("error updating saved profiles in redis", "err", err)
	}
}

// matchesFromCache reads the cached inbox sorted set, newest first. Returns
// false on any malformed member so the caller can rebuild from the DB.
func (r *DecisionRepo) matchesFromCache(key string) ([]entity.InboxMatch, bool) {
	cached, err := r.rdb.ZRevRangeWithScores(key, 0, -1).Result()
	if err != nil {
		logger.Warn("error reading match profiles cache", "err", err)
		return nil, false
	}

	matches := make([]entity.InboxMatch, 0, len(cached))
	for _, z := range cached {
		member, ok := z.Member.(string)
		if !ok {
			return nil, false
		}
		id, err := strconv.ParseUint(member, 10, 32)
		if err != nil {
			return nil, false
		}
		matches = append(matches, entity.InboxMatch{
			MatchID:   uint(id),
			Timestamp: time.Unix(int64(z.Score), 0).UTC(),
		})
	}

	return matches, true
}

// invalidateMatchCache drops a user's cached inbox; the next RetrieveMatches
// call rebuilds it from the database.
func (r *DecisionRepo) invalidateMatchCache(userID uint) {
	if err := r.rdb.Del(matchKey(userID)).Err(); err != nil && err != redis.Nil {
		logger.Warn("error invalidating match profiles in redis", "err", err)
	}
}

// Helper

func savedKey(userID uint) string {
	return "user:" + strconv.FormatUint(uint64(userID), 10) + ":saved:profiles"
}

func matchKey(userID uint) string {
	return "user:" + strconv.FormatUint(uint64(userID), 10) + ":match:profiles"
}
