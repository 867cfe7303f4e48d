package entity

type SignUpResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type SignInResponse struct {
	Token string `json:"token"`
}

type PictureURLsResponse struct {
	PictureURLs []string `json:"pictureUrls"`
}

type UploadPictureResponse struct {
	PictureURL string `json:"pictureUrl"`
}
