package entity

import (
	"context"
	"encoding/json"
	"regexp"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

func (r *CreateUserRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Name == "" {
		problems["Name"] = append(problems["Name"], "Name is required")
	}
	if r.Email == "" {
		problems["Email"] = append(problems["Email"], "Email is required")
	}

	if r.Username == "" {
		problems["Username"] = append(problems["Username"], "Username is required")
	}

	if len(r.Username) > 16 {
		problems["Username"] = append(problems["Username"], "User name is too long")
	}

	if r.Password == "" {
		problems["Password"] = append(problems["Password"], "Password is required")
	}

	if len([]byte(r.Password)) > 72 {
		problems["Password"] = append(problems["Password"], "Password length should not exceed 72 bytes")
	}

	return problems
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

func (r *SignInRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Email == "" && r.Username == "" {
		problems["Email/Username"] = append(problems["Email/Username"], "Either Email or Username is required")
	}

	if r.Email != "" {
		emailRegex := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
		if !regexp.MustCompile(emailRegex).MatchString(r.Email) {
			problems["Email"] = append(problems["Email"], "Invalid email format")
		}
	}

	if r.Password == "" {
		problems["Password"] = append(problems["Password"], "Password is required")
	}

	return problems
}

// MatcherRequest records user1's decision about user2.
type MatcherRequest struct {
	User1ID  uint           `json:"user1Id"`
	User2ID  uint           `json:"user2Id"`
	Decision DecisionStatus `json:"decision"`
}

func (r *MatcherRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.User1ID == 0 {
		problems["user1Id"] = append(problems["user1Id"], "user1Id is required")
	}
	if r.User2ID == 0 {
		problems["user2Id"] = append(problems["user2Id"], "user2Id is required")
	}
	if r.Decision == "" {
		problems["decision"] = append(problems["decision"], "decision is required")
	} else if !r.Decision.Valid() {
		problems["decision"] = append(problems["decision"], "decision must be one of match, dislike, unsure")
	}

	return problems
}

// QnaFilter narrows candidates to users holding a specific answer.
type QnaFilter struct {
	QuestionID uint `json:"question_id"`
	OptionID   uint `json:"option_id"`
}

// FilterRequest carries the two independent filter domains. Profile filters
// are equality conditions keyed by bio column name; keys outside the bio
// column whitelist fail validation before any query is built.
type FilterRequest struct {
	UserdataFilters map[string]interface{} `json:"userdataFilters"`
	QnaFilters      []QnaFilter            `json:"qnaFilters"`
}

func (r *FilterRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	for field := range r.UserdataFilters {
		if !IsBioColumn(field) {
			problems["userdataFilters"] = append(problems["userdataFilters"], "unknown profile field: "+field)
		}
	}

	for _, f := range r.QnaFilters {
		if f.QuestionID == 0 {
			problems["qnaFilters"] = append(problems["qnaFilters"], "question_id is required")
		}
	}

	return problems
}

// UpdateProfileRequest updates bio fields and/or Q&A answers. The profile
// object is free-form: the qnaAnswers key is split out, everything else is
// treated as a bio column.
type UpdateProfileRequest struct {
	UserID  uint                       `json:"user_id"`
	Profile map[string]json.RawMessage `json:"profile"`
}

func (r *UpdateProfileRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.UserID == 0 {
		problems["user_id"] = append(problems["user_id"], "user_id is required")
	}
	if len(r.Profile) == 0 {
		problems["profile"] = append(problems["profile"], "profile must contain values to update")
	}
	for field := range r.Profile {
		if field == "qnaAnswers" || field == "user_id" {
			continue
		}
		if !IsBioColumn(field) {
			problems["profile"] = append(problems["profile"], "unknown profile field: "+field)
		}
	}

	return problems
}

// Fields decodes the bio columns of the profile object into a column map for
// a whitelisted update. The user_id key is dropped so a client cannot re-home
// their profile row.
func (r *UpdateProfileRequest) Fields() (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	for field, raw := range r.Profile {
		if field == "qnaAnswers" || field == "user_id" {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		fields[field] = v
	}
	return fields, nil
}

// QnaAnswers decodes the qnaAnswers key of the profile object, if present.
func (r *UpdateProfileRequest) QnaAnswers() ([]QnaAnswer, error) {
	raw, ok := r.Profile["qnaAnswers"]
	if !ok {
		return nil, nil
	}
	var answers []QnaAnswer
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// QnaUpsertRequest creates or updates one answer.
type QnaUpsertRequest struct {
	UserID     uint `json:"user_id"`
	QuestionID uint `json:"question_id"`
	OptionID   uint `json:"option_id"`
}

func (r *QnaUpsertRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.UserID == 0 {
		problems["user_id"] = append(problems["user_id"], "user_id is required")
	}
	if r.QuestionID == 0 {
		problems["question_id"] = append(problems["question_id"], "question_id is required")
	}
	if r.OptionID == 0 {
		problems["option_id"] = append(problems["option_id"], "option_id is required")
	}

	return problems
}

// TopFiveRequest records one free-text top-five entry.
type TopFiveRequest struct {
	UserID   uint   `json:"user_id"`
	OptionID uint   `json:"option_id"`
	Input    string `json:"input"`
}

func (r *TopFiveRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.UserID == 0 {
		problems["user_id"] = append(problems["user_id"], "user_id is required")
	}
	if r.OptionID == 0 {
		problems["option_id"] = append(problems["option_id"], "option_id is required")
	}
	if r.Input == "" {
		problems["input"] = append(problems["input"], "input is required")
	}

	return problems
}
