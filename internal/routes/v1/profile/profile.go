package routesV1Profile

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/RoyalOrangefire/GopherMatch/internal/entity"
	"github.com/RoyalOrangefire/GopherMatch/internal/usecase/profile"
	"github.com/RoyalOrangefire/GopherMatch/pkg/http_util"
	"github.com/labstack/echo"
)

// GetProfileHandler returns the bio joined with Q&A answers. A user without
// a bio row gets an empty profile, not a 404.
func GetProfileHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	userID, err := queryUserID(c, "user_id")

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "Must include an user_id in the query parameter!")
	}

	prof, err := profileCase.GetProfile(c.Request().Context(), userID)

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "failed to fetch profile")
	}

	return http_util.Encode(c, http.StatusOK, prof)
}

// CreateProfileHandler inserts the initial bio row. A second attempt for the
// same user is rejected.
func CreateProfileHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	request, err := http_util.Decode[entity.UpdateProfileRequest](c)

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "Must specify the user_id and profile object to create the profile!")
	}

	if problems := request.Validate(c.Request().Context()); len(problems) > 0 {
		return http_util.Error(c, http.StatusBadRequest, "Must provide some profile values!")
	}

	fields, err := request.Fields()
	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "invalid profile fields")
	}

	if err := profileCase.CreateBio(c.Request().Context(), request.UserID, fields); err != nil {
		if errors.Is(err, entity.ErrProfileExists) {
			return http_util.Error(c, http.StatusBadRequest, "Profile already exists!")
		}
		return http_util.Error(c, http.StatusBadRequest, "failed to create profile")
	}

	return http_util.Message(c, "Profile created!")
}

// UpdateProfileHandler applies bio field changes and per-answer Q&A upserts.
// Authenticated users may only touch their own profile.
func UpdateProfileHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	request, err := http_util.Decode[entity.UpdateProfileRequest](c)

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "Must specify the user_id and profile object to update the profile!")
	}

	if problems := request.Validate(c.Request().Context()); len(problems) > 0 {
		return http_util.Error(c, http.StatusBadRequest, "Must provide some new values to update!")
	}

	if sessionUser, ok := c.Get("userProfile").(*entity.User); ok && sessionUser.ID != request.UserID {
		return http_util.Error(c, http.StatusBadRequest, "Cannot update someone else's profile!")
	}

	fields, err := request.Fields()
	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "invalid profile fields")
	}

	answers, err := request.QnaAnswers()
	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "invalid qnaAnswers")
	}

	if err := profileCase.UpdateProfile(c.Request().Context(), request.UserID, fields, answers); err != nil {
		return http_util.Error(c, http.StatusBadRequest, "failed to update profile")
	}

	return http_util.Message(c, "Profile updated!")
}

func GetQnaHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	userID, err := queryUserID(c, "user_id")

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "Must include an user_id in the query parameter!")
	}

	answers, err := profileCase.GetQnaAnswers(c.Request().Context(), userID)

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "failed to fetch answers")
	}

	return http_util.Encode(c, http.StatusOK, answers)
}

// UpsertQnaHandler serves both the create and update endpoints; the store's
// per-answer upsert makes them the same operation.
func UpsertQnaHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	request, err := http_util.Decode[entity.QnaUpsertRequest](c)

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "invalid request")
	}

	if problems := request.Validate(c.Request().Context()); len(problems) > 0 {
		return http_util.Error(c, http.StatusBadRequest, "Must include an user_id, question_id, and option_id in the body!")
	}

	if err := profileCase.UpsertQnaAnswer(c.Request().Context(), request.UserID, request.QuestionID, request.OptionID); err != nil {
		return http_util.Error(c, http.StatusBadRequest, "failed to save answer")
	}

	return http_util.Message(c, "Answer saved!")
}

func DeleteQnaHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	request, err := http_util.Decode[entity.QnaUpsertRequest](c)

	if err != nil || request.UserID == 0 || request.QuestionID == 0 {
		return http_util.Error(c, http.StatusBadRequest, "Must include an user_id and question_id in the body!")
	}

	if err := profileCase.DeleteQnaAnswer(c.Request().Context(), request.UserID, request.QuestionID); err != nil {
		return http_util.Error(c, http.StatusBadRequest, "failed to delete answer")
	}

	return http_util.Message(c, "Answer deleted!")
}

func UserPicturesHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	userID, err := queryUserID(c, "user_id")

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "Must include an user_id in the query parameter!")
	}

	urls, err := profileCase.PictureURLs(c.Request().Context(), userID)

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "failed to fetch pictures")
	}

	return http_util.Encode(c, http.StatusOK, entity.PictureURLsResponse{PictureURLs: urls})
}

// UploadPictureHandler accepts a multipart upload and stores it into the
// given slot.
func UploadPictureHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	userID, err1 := strconv.ParseUint(c.FormValue("user_id"), 10, 32)
	slot, err2 := strconv.Atoi(c.FormValue("pic_number"))

	fileHeader, err := c.FormFile("file")
	if err != nil || err1 != nil || err2 != nil {
		return http_util.Error(c, http.StatusBadRequest, "Must include a file, user_id, and pic_number!")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "failed to read file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "failed to read file")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	signedURL, err := profileCase.UploadPicture(c.Request().Context(), uint(userID), slot, data, contentType)

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "failed to upload picture")
	}

	return http_util.Encode(c, http.StatusOK, entity.UploadPictureResponse{PictureURL: signedURL})
}

func RemovePictureHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	userID, err1 := queryUserID(c, "user_id")
	slot, err2 := strconv.Atoi(c.QueryParam("pic_number"))

	if err1 != nil || err2 != nil {
		return http_util.Error(c, http.StatusBadRequest, "Must include an user_id and pic_number!")
	}

	if err := profileCase.RemovePicture(c.Request().Context(), userID, slot); err != nil {
		return http_util.Error(c, http.StatusBadRequest, "failed to remove picture")
	}

	return http_util.Message(c, "Picture removed!")
}

func RecordTopFiveHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	request, err := http_util.Decode[entity.TopFiveRequest](c)

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "invalid request")
	}

	if problems := request.Validate(c.Request().Context()); len(problems) > 0 {
		return http_util.Error(c, http.StatusBadRequest, "Must include an user_id, option_id, and input in the body!")
	}

	if err := profileCase.RecordTopFive(c.Request().Context(), request.UserID, request.OptionID, request.Input); err != nil {
		return http_util.Error(c, http.StatusBadRequest, "failed to insert top five")
	}

	return http_util.Message(c, "Top five saved!")
}

func GetTopFiveHandler(c echo.Context, profileCase profile.IProfileUseCase) error {
	userID, err1 := queryUserID(c, "user_id")
	optionID, err2 := strconv.ParseUint(c.QueryParam("option_id"), 10, 32)

	if err1 != nil || err2 != nil {
		return http_util.Error(c, http.StatusBadRequest, "Must include an user_id and option_id in the query parameter!")
	}

	inputs, err := profileCase.GetTopFive(c.Request().Context(), userID, uint(optionID))

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "failed to fetch top five")
	}

	return http_util.Encode(c, http.StatusOK, inputs)
}

func queryUserID(c echo.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.QueryParam(param), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid user id")
	}
	return uint(id), nil
}
