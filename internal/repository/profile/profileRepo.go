package profileRepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyalOrangefire/GopherMatch/internal/entity"
	"github.com/RoyalOrangefire/GopherMatch/internal/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IProfileRepository is the Profile Store: bios, Q&A answers, picture slots
// and top-five entries, one user at a time.
type IProfileRepository interface {
	GetBio(ctx context.Context, userID uint) (*entity.Bio, error)
	GetQnaAnswers(ctx context.Context, userID uint) ([]entity.QnaAnswer, error)
	CreateBio(ctx context.Context, userID uint, fields map[string]interface{}) error
	UpdateProfile(ctx context.Context, userID uint, fields map[string]interface{}, answers []entity.QnaAnswer) error
	UpsertQnaAnswer(ctx context.Context, userID, questionID, optionID uint) error
	DeleteQnaAnswer(ctx context.Context, userID, questionID uint) error

	SavePictureURL(ctx context.Context, userID uint, pictureURL string, slot int) error
	GetPictures(ctx context.Context, userID uint) ([]entity.Picture, error)
	RemovePicture(ctx context.Context, userID uint, slot int) error

	UpsertTopFive(ctx context.Context, userID, optionID uint, input string) error
	GetTopFive(ctx context.Context, userID, optionID uint) ([]string, error)

	// Candidate sets for the Filter Engine.
	FilterByBio(ctx context.Context, filters map[string]interface{}) ([]uint, error)
	FilterByQna(ctx context.Context, filters []entity.QnaFilter) ([]uint, error)
}

type ProfileRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) IProfileRepository {
	return &ProfileRepo{
		db: db,
	}
}

// GetBio returns nil (not an error) when the user has no bio row.
func (r *ProfileRepo) GetBio(ctx context.Context, userID uint) (*entity.Bio, error) {
	var bio entity.Bio
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&bio)

	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error("get bio failed", "user_id", userID, "err", res.Error)
		return nil, fmt.Errorf("failed to fetch profile: %w", entity.ErrPersistence)
	}

	return &bio, nil
}

func (r *ProfileRepo) GetQnaAnswers(ctx context.Context, userID uint) ([]entity.QnaAnswer, error) {
	answers := make([]entity.QnaAnswer, 0)
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("question_id").
		Find(&answers)

	if res.Error != nil {
		logger.Error("get qna answers failed", "user_id", userID, "err", res.Error)
		return nil, fmt.Errorf("failed to fetch answers: %w", entity.ErrPersistence)
	}

	return answers, nil
}

func (r *ProfileRepo) CreateBio(ctx context.Context, userID uint, fields map[string]interface{}) error {
	if err := checkBioColumns(fields); err != nil {
		return err
	}

	row := map[string]interface{}{"user_id": userID}
	for k, v := range fields {
		row[k] = v
	}

	res := r.db.WithContext(ctx).Model(&entity.Bio{}).Create(row)

	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return entity.ErrProfileExists
		}
		logger.Error("create bio failed", "user_id", userID, "err", res.Error)
		return fmt.Errorf("failed to create profile: %w", entity.ErrPersistence)
	}

	return nil
}

// UpdateProfile applies bio field changes (when any are supplied) and then
// upserts each Q&A answer one at a time, all inside a single transaction.
func (r *ProfileRepo) UpdateProfile(ctx context.Context, userID uint, fields map[string]interface{}, answers []entity.QnaAnswer) error {
	if err := checkBioColumns(fields); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			res := tx.Model(&entity.Bio{}).Where("user_id = ?", userID).Updates(fields)
			if res.Error != nil {
				return res.Error
			}
		}

		for _, answer := range answers {
			if err := upsertAnswer(tx, userID, answer.QuestionID, answer.OptionID); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		logger.Error("update profile failed", "user_id", userID, "err", err)
		return fmt.Errorf("failed to update profile: %w", entity.ErrPersistence)
	}

	return nil
}

func (r *ProfileRepo) UpsertQnaAnswer(ctx context.Context, userID, questionID, optionID uint) error {
	if err := upsertAnswer(r.db.WithContext(ctx), userID, questionID, optionID); err != nil {
		logger.Error("upsert qna answer failed", "user_id", userID, "question_id", questionID, "err", err)
		return fmt.Errorf("failed to save answer: %w", entity.ErrPersistence)
	}
	return nil
}

func (r *ProfileRepo) DeleteQnaAnswer(ctx context.Context, userID, questionID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Delete(&entity.QnaAnswer{})

	if res.Error != nil {
		logger.Error("delete qna answer failed", "user_id", userID, "question_id", questionID, "err", res.Error)
		return fmt.Errorf("failed to delete answer: %w", entity.ErrPersistence)
	}

	return nil
}

func (r *ProfileRepo) SavePictureURL(ctx context.Context, userID uint, pictureURL string, slot int) error {
	if slot < 0 || slot >= entity.MaxPictureSlots {
		return fmt.Errorf("%w: %d", entity.ErrInvalidSlot, slot)
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "pic_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"picture_url"}),
		}).
		Create(&entity.Picture{
			UserID:     userID,
			PicNumber:  slot,
			PictureURL: pictureURL,
		})

	if res.Error != nil {
		logger.Error("save picture url failed", "user_id", userID, "slot", slot, "err", res.Error)
		return fmt.Errorf("failed to save picture: %w", entity.ErrPersistence)
	}

	return nil
}

func (r *ProfileRepo) GetPictures(ctx context.Context, userID uint) ([]entity.Picture, error) {
	pictures := make([]entity.Picture, 0)
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("pic_number").
		Find(&pictures)

	if res.Error != nil {
		logger.Error("get pictures failed", "user_id", userID, "err", res.Error)
		return nil, fmt.Errorf("failed to fetch pictures: %w", entity.ErrPersistence)
	}

	return pictures, nil
}

// RemovePicture deletes the slot and re-numbers the remaining pictures so
// slots stay contiguous from 0. Delete and re-sequencing share one
// transaction.
func (r *ProfileRepo) RemovePicture(ctx context.Context, userID uint, slot int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("user_id = ? AND pic_number = ?", userID, slot).
			Delete(&entity.Picture{})
		if res.Error != nil {
			return res.Error
		}

		var remaining []entity.Picture
		if err := tx.
			Where("user_id = ?", userID).
			Order("pic_number").
			Find(&remaining).Error; err != nil {
			return err
		}

		// ascending order: each row moves into a slot already freed
		for i, pic := range remaining {
			if pic.PicNumber == i {
				continue
			}
			res := tx.Model(&entity.Picture{}).
				Where("user_id = ? AND pic_number = ?", userID, pic.PicNumber).
				Update("pic_number", i)
			if res.Error != nil {
				return res.Error
			}
		}

		return nil
	})

	if err != nil {
		logger.Error("remove picture failed", "user_id", userID, "slot", slot, "err", err)
		return fmt.Errorf("failed to remove picture: %w", entity.ErrPersistence)
	}

	return nil
}

func (r *ProfileRepo) UpsertTopFive(ctx context.Context, userID, optionID uint, input string) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "option_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"input"}),
		}).
		Create(&entity.TopFiveAnswer{
			UserID:   userID,
			OptionID: optionID,
			Input:    input,
		})

	if res.Error != nil {
		logger.Error("upsert top five failed", "user_id", userID, "option_id", optionID, "err", res.Error)
		return fmt.Errorf("failed to insert top five: %w", entity.ErrPersistence)
	}

	return nil
}

func (r *ProfileRepo) GetTopFive(ctx context.Context, userID, optionID uint) ([]string, error) {
	inputs := make([]string, 0)
	res := r.db.WithContext(ctx).
		Model(&entity.TopFiveAnswer{}).
		Select("input").
		Where("user_id = ? AND option_id = ?", userID, optionID).
		Find(&inputs)

	if res.Error != nil {
		logger.Error("get top five failed", "user_id", userID, "option_id", optionID, "err", res.Error)
		return nil, fmt.Errorf("failed to fetch top five: %w", entity.ErrPersistence)
	}

	return inputs, nil
}

// FilterByBio returns the user IDs whose bio matches every equality
// condition. Filter keys are validated against the bio column whitelist
// before they reach the query builder.
func (r *ProfileRepo) FilterByBio(ctx context.Context, filters map[string]interface{}) ([]uint, error) {
	if len(filters) == 0 {
		return []uint{}, nil
	}
	if err := checkBioColumns(filters); err != nil {
		return nil, err
	}

	ids := make([]uint, 0)
	res := r.db.WithContext(ctx).
		Model(&entity.Bio{}).
		Select("user_id").
		Where(filters).
		Find(&ids)

	if res.Error != nil {
		logger.Error("filter by bio failed", "err", res.Error)
		return nil, fmt.Errorf("failed to get filter results: %w", entity.ErrPersistence)
	}

	return ids, nil
}

// FilterByQna returns the user IDs holding ALL the requested answers.
func (r *ProfileRepo) FilterByQna(ctx context.Context, filters []entity.QnaFilter) ([]uint, error) {
	if len(filters) == 0 {
		return []uint{}, nil
	}

	cond := r.db.Where("question_id = ? AND option_id = ?", filters[0].QuestionID, filters[0].OptionID)
	for _, f := range filters[1:] {
		cond = cond.Or("question_id = ? AND option_id = ?", f.QuestionID, f.OptionID)
	}

	ids := make([]uint, 0)
	res := r.db.WithContext(ctx).
		Model(&entity.QnaAnswer{}).
		Select("user_id").
		Where(cond).
		Group("user_id").
		Having("COUNT(*) = ?", len(filters)).
		Find(&ids)

	if res.Error != nil {
		logger.Error("filter by qna failed", "err", res.Error)
		return nil, fmt.Errorf("failed to get filter results: %w", entity.ErrPersistence)
	}

	return ids, nil
}

// Private functions

func upsertAnswer(tx *gorm.DB, userID, questionID, optionID uint) error {
	var existing entity.QnaAnswer
	res := tx.
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&existing)

	if res.Error != nil {
		if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return res.Error
		}
		return tx.Create(&entity.QnaAnswer{
			UserID:     userID,
			QuestionID: questionID,
			OptionID:   optionID,
		}).Error
	}

	return tx.Model(&entity.QnaAnswer{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Update("option_id", optionID).Error
}

func checkBioColumns(fields map[string]interface{}) error {
	for field := range fields {
		if !entity.IsBioColumn(field) {
			return fmt.Errorf("%w: %q", entity.ErrUnknownBioField, field)
		}
	}
	return nil
}
