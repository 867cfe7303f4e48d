package profileRepo

import (
	"context"
	"testing"

	"github.com/RoyalOrangefire/GopherMatch/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) (IProfileRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Bio{},
		&entity.QnaAnswer{},
		&entity.Picture{},
		&entity.TopFiveAnswer{},
	))

	return New(db), db
}

func TestGetBioMissingUserIsNil(t *testing.T) {
	repo, _ := newTestRepo(t)

	bio, err := repo.GetBio(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, bio)
}

func TestCreateBioDuplicate(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	fields := map[string]interface{}{"first_name": "Ada", "college": "Lovelace Hall"}
	require.NoError(t, repo.CreateBio(ctx, 1, fields))

	err := repo.CreateBio(ctx, 1, fields)
	require.ErrorIs(t, err, entity.ErrProfileExists)
}

func TestCreateBioRejectsUnknownColumn(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.CreateBio(context.Background(), 1, map[string]interface{}{
		"first_name": "Ada",
		"password":   "nope",
	})
	require.ErrorIs(t, err, entity.ErrUnknownBioField)
}

func TestUpdateProfileFieldsAndAnswers(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateBio(ctx, 1, map[string]interface{}{"first_name": "Ada"}))
	require.NoError(t, repo.UpsertQnaAnswer(ctx, 1, 7, 1))

	err := repo.UpdateProfile(ctx, 1,
		map[string]interface{}{"hometown": "London"},
		[]entity.QnaAnswer{
			{QuestionID: 7, OptionID: 3}, // overwrites the stored answer
			{QuestionID: 8, OptionID: 2}, // fresh insert
		})
	require.NoError(t, err)

	bio, err := repo.GetBio(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, bio)
	assert.Equal(t, "Ada", bio.FirstName)
	assert.Equal(t, "London", bio.Hometown)

	answers, err := repo.GetQnaAnswers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.EqualValues(t, 3, answers[0].OptionID)
	assert.EqualValues(t, 2, answers[1].OptionID)
}

func TestUpdateProfileAnswersOnly(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	// no bio row needed when only answers change
	err := repo.UpdateProfile(ctx, 5, nil, []entity.QnaAnswer{{QuestionID: 1, OptionID: 4}})
	require.NoError(t, err)

	answers, err := repo.GetQnaAnswers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.EqualValues(t, 4, answers[0].OptionID)
}

func TestDeleteQnaAnswer(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertQnaAnswer(ctx, 1, 7, 2))
	require.NoError(t, repo.DeleteQnaAnswer(ctx, 1, 7))

	answers, err := repo.GetQnaAnswers(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestSavePictureURLOverwritesSlot(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SavePictureURL(ctx, 1, "https://pics/old.jpg", 0))
	require.NoError(t, repo.SavePictureURL(ctx, 1, "https://pics/new.jpg", 0))

	pictures, err := repo.GetPictures(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pictures, 1)
	assert.Equal(t, "https://pics/new.jpg", pictures[0].PictureURL)
}

func TestSavePictureURLSlotBounds(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.SavePictureURL(context.Background(), 1, "https://pics/a.jpg", entity.MaxPictureSlots)
	require.ErrorIs(t, err, entity.ErrInvalidSlot)

	err = repo.SavePictureURL(context.Background(), 1, "https://pics/a.jpg", -1)
	require.ErrorIs(t, err, entity.ErrInvalidSlot)
}

func TestRemovePictureResequencesSlots(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SavePictureURL(ctx, 1, "https://pics/a.jpg", 0))
	require.NoError(t, repo.SavePictureURL(ctx, 1, "https://pics/b.jpg", 1))
	require.NoError(t, repo.SavePictureURL(ctx, 1, "https://pics/c.jpg", 2))

	require.NoError(t, repo.RemovePicture(ctx, 1, 0))

	pictures, err := repo.GetPictures(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pictures, 2)
	assert.Equal(t, 0, pictures[0].PicNumber)
	assert.Equal(t, "https://pics/b.jpg", pictures[0].PictureURL)
	assert.Equal(t, 1, pictures[1].PicNumber)
	assert.Equal(t, "https://pics/c.jpg", pictures[1].PictureURL)
}

func TestRemovePictureMiddleSlot(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SavePictureURL(ctx, 1, "https://pics/a.jpg", 0))
	require.NoError(t, repo.SavePictureURL(ctx, 1, "https://pics/b.jpg", 1))
	require.NoError(t, repo.SavePictureURL(ctx, 1, "https://pics/c.jpg", 2))

	require.NoError(t, repo.RemovePicture(ctx, 1, 1))

	pictures, err := repo.GetPictures(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pictures, 2)
	assert.Equal(t, "https://pics/a.jpg", pictures[0].PictureURL)
	assert.Equal(t, 0, pictures[0].PicNumber)
	assert.Equal(t, "https://pics/c.jpg", pictures[1].PictureURL)
	assert.Equal(t, 1, pictures[1].PicNumber)
}

func TestTopFiveUpsert(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertTopFive(ctx, 1, 9, "sushi"))
	require.NoError(t, repo.UpsertTopFive(ctx, 1, 9, "ramen"))

	inputs, err := repo.GetTopFive(ctx, 1, 9)
	require.NoError(t, err)
	assert.Equal(t, []string{"ramen"}, inputs)
}

func TestFilterByBio(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateBio(ctx, 1, map[string]interface{}{"gender": "f", "grad_year": 2026}))
	require.NoError(t, repo.CreateBio(ctx, 2, map[string]interface{}{"gender": "f", "grad_year": 2027}))
	require.NoError(t, repo.CreateBio(ctx, 3, map[string]interface{}{"gender": "m", "grad_year": 2026}))

	ids, err := repo.FilterByBio(ctx, map[string]interface{}{"gender": "f", "grad_year": 2026})
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)
}

func TestFilterByBioEmptyFilters(t *testing.T) {
	repo, _ := newTestRepo(t)

	ids, err := repo.FilterByBio(context.Background(), map[string]interface{}{})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFilterByBioRejectsUnknownColumn(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.FilterByBio(context.Background(), map[string]interface{}{"password": "x"})
	require.ErrorIs(t, err, entity.ErrUnknownBioField)
}

func TestFilterByQnaRequiresEveryAnswer(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	// user 1 matches both filters, user 2 only one
	require.NoError(t, repo.UpsertQnaAnswer(ctx, 1, 10, 1))
	require.NoError(t, repo.UpsertQnaAnswer(ctx, 1, 11, 2))
	require.NoError(t, repo.UpsertQnaAnswer(ctx, 2, 10, 1))
	require.NoError(t, repo.UpsertQnaAnswer(ctx, 2, 11, 3))

	ids, err := repo.FilterByQna(ctx, []entity.QnaFilter{
		{QuestionID: 10, OptionID: 1},
		{QuestionID: 11, OptionID: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)
}

func TestFilterByQnaEmptyFilters(t *testing.T) {
	repo, _ := newTestRepo(t)

	ids, err := repo.FilterByQna(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
