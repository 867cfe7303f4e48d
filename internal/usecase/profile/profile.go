package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RoyalOrangefire/GopherMatch/internal/datastore/blob"
	"github.com/RoyalOrangefire/GopherMatch/internal/entity"
	"github.com/RoyalOrangefire/GopherMatch/internal/logger"
	profileRepo "github.com/RoyalOrangefire/GopherMatch/internal/repository/profile"
	"github.com/google/uuid"
)

// signedURLTTL bounds how long a handed-out picture URL stays valid.
const signedURLTTL = 15 * time.Minute

type IProfileUseCase interface {
	// GetProfile joins the bio row with the Q&A answers. A missing bio
	// yields an empty profile, not an error.
	GetProfile(ctx context.Context, userID uint) (entity.Profile, error)

	CreateBio(ctx context.Context, userID uint, fields map[string]interface{}) error
	UpdateProfile(ctx context.Context, userID uint, fields map[string]interface{}, answers []entity.QnaAnswer) error

	GetQnaAnswers(ctx context.Context, userID uint) ([]entity.QnaAnswer, error)
	UpsertQnaAnswer(ctx context.Context, userID, questionID, optionID uint) error
	DeleteQnaAnswer(ctx context.Context, userID, questionID uint) error

	// UploadPicture stores the raw bytes in the blob store and records the
	// blob URL in the given slot. Returns a signed URL for immediate use.
	UploadPicture(ctx context.Context, userID uint, slot int, data []byte, contentType string) (string, error)

	// PictureURLs signs every stored picture into a short-lived URL,
	// ordered by slot.
	PictureURLs(ctx context.Context, userID uint) ([]string, error)
	RemovePicture(ctx context.Context, userID uint, slot int) error

	RecordTopFive(ctx context.Context, userID, optionID uint, input string) error
	GetTopFive(ctx context.Context, userID, optionID uint) ([]string, error)
}

type profileUseCase struct {
	profileRepo profileRepo.IProfileRepository
	blobStore   blob.IBlobStore
}

func New(profiles profileRepo.IProfileRepository, blobStore blob.IBlobStore) IProfileUseCase {
	return &profileUseCase{
		profileRepo: profiles,
		blobStore:   blobStore,
	}
}

func (p *profileUseCase) GetProfile(ctx context.Context, userID uint) (entity.Profile, error) {
	bio, err := p.profileRepo.GetBio(ctx, userID)
	if err != nil {
		return entity.Profile{}, err
	}

	answers, err := p.profileRepo.GetQnaAnswers(ctx, userID)
	if err != nil {
		return entity.Profile{}, err
	}

	return entity.Profile{
		Bio:        bio,
		QnaAnswers: answers,
	}, nil
}

func (p *profileUseCase) CreateBio(ctx context.Context, userID uint, fields map[string]interface{}) error {
	return p.profileRepo.CreateBio(ctx, userID, fields)
}

func (p *profileUseCase) UpdateProfile(ctx context.Context, userID uint, fields map[string]interface{}, answers []entity.QnaAnswer) error {
	return p.profileRepo.UpdateProfile(ctx, userID, fields, answers)
}

func (p *profileUseCase) GetQnaAnswers(ctx context.Context, userID uint) ([]entity.QnaAnswer, error) {
	return p.profileRepo.GetQnaAnswers(ctx, userID)
}

func (p *profileUseCase) UpsertQnaAnswer(ctx context.Context, userID, questionID, optionID uint) error {
	return p.profileRepo.UpsertQnaAnswer(ctx, userID, questionID, optionID)
}

func (p *profileUseCase) DeleteQnaAnswer(ctx context.Context, userID, questionID uint) error {
	return p.profileRepo.DeleteQnaAnswer(ctx, userID, questionID)
}

func (p *profileUseCase) UploadPicture(ctx context.Context, userID uint, slot int, data []byte, contentType string) (string, error) {
	if slot < 0 || slot >= entity.MaxPictureSlots {
		return "", fmt.Errorf("%w: %d", entity.ErrInvalidSlot, slot)
	}

	blobName := "pictures/" + uuid.New().String() + extensionFor(contentType)

	pictureURL, err := p.blobStore.Upload(ctx, blobName, data, contentType)
	if err != nil {
		logger.Error("picture upload failed", "user_id", userID, "err", err)
		return "", fmt.Errorf("failed to upload picture: %w", entity.ErrPersistence)
	}

	if err := p.profileRepo.SavePictureURL(ctx, userID, pictureURL, slot); err != nil {
		return "", err
	}

	signed, err := p.blobStore.SignURL(ctx, blobName, signedURLTTL)
	if err != nil {
		logger.Error("picture sign failed", "user_id", userID, "err", err)
		return "", fmt.Errorf("failed to sign picture url: %w", entity.ErrPersistence)
	}

	return signed, nil
}

func (p *profileUseCase) PictureURLs(ctx context.Context, userID uint) ([]string, error) {
	pictures, err := p.profileRepo.GetPictures(ctx, userID)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(pictures))
	for _, pic := range pictures {
		signed, err := p.blobStore.SignURL(ctx, blobNameFromURL(pic.PictureURL), signedURLTTL)
		if err != nil {
			logger.Error("picture sign failed", "user_id", userID, "slot", pic.PicNumber, "err", err)
			return nil, fmt.Errorf("failed to sign picture url: %w", entity.ErrPersistence)
		}
		urls = append(urls, signed)
	}

	return urls, nil
}

func (p *profileUseCase) RemovePicture(ctx context.Context, userID uint, slot int) error {
	if slot < 0 || slot >= entity.MaxPictureSlots {
		return fmt.Errorf("%w: %d", entity.ErrInvalidSlot, slot)
	}
	return p.profileRepo.RemovePicture(ctx, userID, slot)
}

func (p *profileUseCase) RecordTopFive(ctx context.Context, userID, optionID uint, input string) error {
	return p.profileRepo.UpsertTopFive(ctx, userID, optionID, input)
}

func (p *profileUseCase) GetTopFive(ctx context.Context, userID, optionID uint) ([]string, error) {
	return p.profileRepo.GetTopFive(ctx, userID, optionID)
}

// Private functions

// blobNameFromURL recovers the stored blob name from a canonical object URL.
// Stored names carry the pictures/ prefix, so keep the last two segments.
func blobNameFromURL(pictureURL string) string {
	parts := strings.Split(pictureURL, "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "/" + parts[len(parts)-1]
	}
	return pictureURL
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
