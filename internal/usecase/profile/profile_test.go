package profile

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/RoyalOrangefire/GopherMatch/internal/entity"
	profileRepo "github.com/RoyalOrangefire/GopherMatch/internal/repository/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeBlobStore struct {
	uploads map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string][]byte)}
}

func (f *fakeBlobStore) Upload(ctx context.Context, blobName string, data []byte, contentType string) (string, error) {
	f.uploads[blobName] = data
	return "https://bucket.s3.amazonaws.com/" + blobName, nil
}

func (f *fakeBlobStore) SignURL(ctx context.Context, blobName string, expiry time.Duration) (string, error) {
	return "https://bucket.s3.amazonaws.com/" + blobName + "?signature=test", nil
}

func newTestUseCase(t *testing.T) (IProfileUseCase, *fakeBlobStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Bio{},
		&entity.QnaAnswer{},
		&entity.Picture{},
		&entity.TopFiveAnswer{},
	))

	blobStore := newFakeBlobStore()
	return New(profileRepo.New(db), blobStore), blobStore
}

func TestGetProfileMissingBio(t *testing.T) {
	useCase, _ := newTestUseCase(t)

	prof, err := useCase.GetProfile(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, prof.Bio)
	assert.NotNil(t, prof.QnaAnswers)
	assert.Empty(t, prof.QnaAnswers)
}

func TestGetProfileJoinsAnswers(t *testing.T) {
	useCase, _ := newTestUseCase(t)
	ctx := context.Background()

	require.NoError(t, useCase.CreateBio(ctx, 1, map[string]interface{}{"first_name": "Ada"}))
	require.NoError(t, useCase.UpsertQnaAnswer(ctx, 1, 3, 2))

	prof, err := useCase.GetProfile(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, prof.Bio)
	assert.Equal(t, "Ada", prof.Bio.FirstName)
	require.Len(t, prof.QnaAnswers, 1)
	assert.EqualValues(t, 2, prof.QnaAnswers[0].OptionID)
}

func TestUploadPictureStoresAndSigns(t *testing.T) {
	useCase, blobStore := newTestUseCase(t)
	ctx := context.Background()

	signed, err := useCase.UploadPicture(ctx, 1, 0, []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, signed, "?signature=")

	require.Len(t, blobStore.uploads, 1)
	for blobName := range blobStore.uploads {
		assert.True(t, strings.HasPrefix(blobName, "pictures/"))
		assert.True(t, strings.HasSuffix(blobName, ".jpg"))
	}

	urls, err := useCase.PictureURLs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "?signature=")
}

func TestUploadPictureRejectsBadSlot(t *testing.T) {
	useCase, blobStore := newTestUseCase(t)

	_, err := useCase.UploadPicture(context.Background(), 1, entity.MaxPictureSlots, []byte("x"), "image/png")
	require.ErrorIs(t, err, entity.ErrInvalidSlot)
	assert.Empty(t, blobStore.uploads)
}

func TestRemovePictureRejectsBadSlot(t *testing.T) {
	useCase, _ := newTestUseCase(t)

	err := useCase.RemovePicture(context.Background(), 1, -1)
	require.ErrorIs(t, err, entity.ErrInvalidSlot)
}

func TestTopFiveRoundTrip(t *testing.T) {
	useCase, _ := newTestUseCase(t)
	ctx := context.Background()

	require.NoError(t, useCase.RecordTopFive(ctx, 1, 4, "hiking"))

	inputs, err := useCase.GetTopFive(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"hiking"}, inputs)
}
