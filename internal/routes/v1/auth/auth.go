package routesV1Auth

import (
	"net/http"

	"github.com/RoyalOrangefire/GopherMatch/internal/entity"
	authUseCase "github.com/RoyalOrangefire/GopherMatch/internal/usecase/auth"
	"github.com/RoyalOrangefire/GopherMatch/pkg/http_util"
	"github.com/labstack/echo"
)

func SignUpHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	reqBody, err := http_util.Decode[entity.CreateUserRequest](c)

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "invalid request")
	}

	problems := reqBody.Validate(c.Request().Context())

	if len(problems) != 0 {
		return http_util.Error(c, http.StatusBadRequest, "Bad request check your request")
	}

	user, err := authCase.SignupUser(c.Request().Context(), reqBody)

	if err != nil {
		return http_util.Error(c, http.StatusInternalServerError, "failed to sign up")
	}

	return http_util.Encode(c, http.StatusOK, entity.SignUpResponse{
		ID:       int(user.ID),
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
	})
}

func SignInHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	reqBody, err := http_util.Decode[entity.SignInRequest](c)

	if err != nil {
		return http_util.Error(c, http.StatusBadRequest, "invalid request")
	}

	problems := reqBody.Validate(c.Request().Context())

	if len(problems) != 0 {
		return http_util.Error(c, http.StatusBadRequest, "Bad request check your request")
	}

	jwtToken, err := authCase.SignIn(c.Request().Context(), reqBody.Email, reqBody.Username, reqBody.Password)

	if err != nil {
		return http_util.Error(c, http.StatusUnauthorized, "invalid credentials")
	}

	return http_util.Encode(c, http.StatusOK, entity.SignInResponse{Token: jwtToken})
}
