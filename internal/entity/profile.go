package entity

import "time"

// MaxPictureSlots is the number of picture slots a profile can hold.
// Slots are indexed 0..MaxPictureSlots-1 and kept contiguous from 0.
const MaxPictureSlots = 3

// Bio holds the free-form profile attributes of one user.
type Bio struct {
	UserID         uint   `gorm:"column:user_id;primaryKey" json:"user_id"`
	FirstName      string `gorm:"column:first_name" json:"first_name,omitempty"`
	LastName       string `gorm:"column:last_name" json:"last_name,omitempty"`
	Gender         string `gorm:"column:gender" json:"gender,omitempty"`
	College        string `gorm:"column:college" json:"college,omitempty"`
	Major          string `gorm:"column:major" json:"major,omitempty"`
	GradYear       int    `gorm:"column:grad_year" json:"grad_year,omitempty"`
	Hometown       string `gorm:"column:hometown" json:"hometown,omitempty"`
	BioText        string `gorm:"column:bio_text" json:"bio_text,omitempty"`
	InstagramToken string `gorm:"column:instagram_token" json:"instagram_token,omitempty"`
}

func (Bio) TableName() string {
	return "u_bios"
}

// bioColumns whitelists the columns a client may filter or update through
// the free-form profile field map. Anything else is rejected before it can
// reach a query.
var bioColumns = map[string]struct{}{
	"first_name":      {},
	"last_name":       {},
	"gender":          {},
	"college":         {},
	"major":           {},
	"grad_year":       {},
	"hometown":        {},
	"bio_text":        {},
	"instagram_token": {},
}

// IsBioColumn reports whether name is a settable/filterable bio column.
func IsBioColumn(name string) bool {
	_, ok := bioColumns[name]
	return ok
}

// QnaAnswer is a user's chosen option for one compatibility question.
// One answer per question per user; resubmission overwrites.
type QnaAnswer struct {
	UserID     uint `gorm:"column:user_id;not null;primaryKey" json:"-"`
	QuestionID uint `gorm:"column:question_id;not null;primaryKey" json:"question_id"`
	OptionID   uint `gorm:"column:option_id;not null" json:"option_id"`
}

func (QnaAnswer) TableName() string {
	return "u_qna"
}

// Picture is one slot-indexed picture reference of a user. PictureURL is the
// canonical blob URL; clients only ever see signed URLs derived from it.
type Picture struct {
	UserID     uint      `gorm:"column:user_id;not null;primaryKey"`
	PicNumber  int       `gorm:"column:pic_number;not null;primaryKey"`
	PictureURL string    `gorm:"column:picture_url;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Picture) TableName() string {
	return "u_pictures"
}

// TopFiveAnswer is a free-text "top five" list item keyed by category option.
type TopFiveAnswer struct {
	UserID   uint   `gorm:"column:user_id;not null;primaryKey"`
	OptionID uint   `gorm:"column:option_id;not null;primaryKey"`
	Input    string `gorm:"column:input;not null"`
}

func (TopFiveAnswer) TableName() string {
	return "u_topfive"
}

// Profile is the combined view returned by the profile endpoint. A missing
// bio row yields an empty object with only qnaAnswers present.
type Profile struct {
	*Bio
	QnaAnswers []QnaAnswer `json:"qnaAnswers"`
}
