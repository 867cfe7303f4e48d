package routesV1

import (
	"github.com/RoyalOrangefire/GopherMatch/internal/middleware"
	routesV1Auth "github.com/RoyalOrangefire/GopherMatch/internal/routes/v1/auth"
	routesV1Match "github.com/RoyalOrangefire/GopherMatch/internal/routes/v1/match"
	routesV1Profile "github.com/RoyalOrangefire/GopherMatch/internal/routes/v1/profile"
	authUseCase "github.com/RoyalOrangefire/GopherMatch/internal/usecase/auth"
	matchUseCase "github.com/RoyalOrangefire/GopherMatch/internal/usecase/match"
	profileUseCase "github.com/RoyalOrangefire/GopherMatch/internal/usecase/profile"
	"github.com/labstack/echo"
)

// InitV1Routes mounts every route group. Profile routes sit behind the JWT
// middleware; match and auth routes are open.
func InitV1Routes(
	e *echo.Echo,
	authCase authUseCase.IAuthUseCase,
	matchCase matchUseCase.IMatchUseCase,
	profileCase profileUseCase.IProfileUseCase,
) {
	v1 := e.Group("/v1")

	v1.POST("/auth/sign-up", func(c echo.Context) error {
		return routesV1Auth.SignUpHandler(c, authCase)
	})
	v1.POST("/auth/sign-in", func(c echo.Context) error {
		return routesV1Auth.SignInHandler(c, authCase)
	})

	match := e.Group("/match")

	match.POST("/matcher", func(c echo.Context) error {
		return routesV1Match.MatcherHandler(c, matchCase)
	})
	match.GET("/saved-matches", func(c echo.Context) error {
		return routesV1Match.SavedMatchesHandler(c, matchCase)
	})
	match.DELETE("/remove", func(c echo.Context) error {
		return routesV1Match.RemoveHandler(c, matchCase)
	})
	match.DELETE("/inbox-delete", func(c echo.Context) error {
		return routesV1Match.InboxDeleteHandler(c, matchCase)
	})
	match.GET("/inbox", func(c echo.Context) error {
		return routesV1Match.InboxHandler(c, matchCase)
	})
	match.POST("/filter-results", func(c echo.Context) error {
		return routesV1Match.FilterResultsHandler(c, matchCase)
	})

	profile := e.Group("/profile", middleware.JWTMiddleware(authCase))

	profile.GET("", func(c echo.Context) error {
		return routesV1Profile.GetProfileHandler(c, profileCase)
	})
	profile.POST("", func(c echo.Context) error {
		return routesV1Profile.CreateProfileHandler(c, profileCase)
	})
	profile.PUT("", func(c echo.Context) error {
		return routesV1Profile.UpdateProfileHandler(c, profileCase)
	})
	profile.GET("/qna", func(c echo.Context) error {
		return routesV1Profile.GetQnaHandler(c, profileCase)
	})
	profile.POST("/qna", func(c echo.Context) error {
		return routesV1Profile.UpsertQnaHandler(c, profileCase)
	})
	profile.PUT("/qna", func(c echo.Context) error {
		return routesV1Profile.UpsertQnaHandler(c, profileCase)
	})
	profile.DELETE("/qna", func(c echo.Context) error {
		return routesV1Profile.DeleteQnaHandler(c, profileCase)
	})
	profile.GET("/user-pictures", func(c echo.Context) error {
		return routesV1Profile.UserPicturesHandler(c, profileCase)
	})
	profile.POST("/upload-picture", func(c echo.Context) error {
		return routesV1Profile.UploadPictureHandler(c, profileCase)
	})
	profile.DELETE("/remove-picture", func(c echo.Context) error {
		return routesV1Profile.RemovePictureHandler(c, profileCase)
	})
	profile.POST("/topfive", func(c echo.Context) error {
		return routesV1Profile.RecordTopFiveHandler(c, profileCase)
	})
	profile.GET("/topfive", func(c echo.Context) error {
		return routesV1Profile.GetTopFiveHandler(c, profileCase)
	})
}
