package middleware

import (
	"net/http"

	authUseCase "github.com/RoyalOrangefire/GopherMatch/internal/usecase/auth"
	"github.com/labstack/echo"
)

// JWTMiddleware authenticates Bearer tokens and loads the matching user
// into the request context under "userProfile".
func JWTMiddleware(authCase authUseCase.IAuthUseCase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userProfile, err := authCase.GetUserFromJWTRequest(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			}

			c.Set("userProfile", userProfile)

			return next(c)
		}
	}
}
