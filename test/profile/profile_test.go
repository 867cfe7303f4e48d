package profile_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/RoyalOrangefire/GopherMatch/internal/entity"
	"github.com/RoyalOrangefire/GopherMatch/pkg/http_util"
	helper "github.com/RoyalOrangefire/GopherMatch/test/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var globalResources *helper.TestServerResources

func TestMain(m *testing.M) {
	resources, err := helper.SetupTestServer(context.TODO())
	var code int

	if err != nil {
		log.Printf("Failed to set up test server: %s", err)
		code = 1
	} else {
		globalResources = resources
		code = m.Run()
	}

	resources.CleanupTestServer()
	os.Exit(code)
}

func signUpAndSignIn(t *testing.T, username, email string) (entity.SignUpResponse, string) {
	user, err := helper.SignUpUser(t, username, "password123", email)
	if err != nil {
		t.Fatalf("Failed to sign up: %v", err)
	}

	token, err := helper.SignInUser(t, email, username, "password123")
	if err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}

	return user, token
}

func doJSON(t *testing.T, method, url, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	return resp
}

func TestProfileLifecycle(t *testing.T) {
	user, token := signUpAndSignIn(t, "profileuser", "profile@example.com")

	// create the bio
	resp := doJSON(t, http.MethodPost, "http://localhost:8080/profile", token, map[string]any{
		"user_id": user.ID,
		"profile": map[string]any{
			"first_name": "Ada",
			"college":    "Lovelace Hall",
			"grad_year":  2026,
		},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// a second create for the same user must fail
	resp = doJSON(t, http.MethodPost, "http://localhost:8080/profile", token, map[string]any{
		"user_id": user.ID,
		"profile": map[string]any{"first_name": "Ada"},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// update a field and answer a question in one call
	resp = doJSON(t, http.MethodPut, "http://localhost:8080/profile", token, map[string]any{
		"user_id": user.ID,
		"profile": map[string]any{
			"hometown":   "London",
			"qnaAnswers": []map[string]any{{"question_id": 3, "option_id": 2}},
		},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// read it back
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("http://localhost:8080/profile?user_id=%d", user.ID), token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	prof := entity.Profile{}
	prof, err = http_util.DecodeBody[entity.Profile](bodyBytes, prof)
	require.NoError(t, err)
	require.NotNil(t, prof.Bio)
	assert.Equal(t, "Ada", prof.Bio.FirstName)
	assert.Equal(t, "London", prof.Bio.Hometown)
	require.Len(t, prof.QnaAnswers, 1)
	assert.EqualValues(t, 2, prof.QnaAnswers[0].OptionID)
}

func TestTopFiveRoundTrip(t *testing.T) {
	user, token := signUpAndSignIn(t, "topfiveuser", "topfive@example.com")

	resp := doJSON(t, http.MethodPost, "http://localhost:8080/profile/topfive", token, map[string]any{
		"user_id":   user.ID,
		"option_id": 4,
		"input":     "hiking",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet,
		fmt.Sprintf("http://localhost:8080/profile/topfive?user_id=%d&option_id=4", user.ID), token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	inputs := []string{}
	inputs, err = http_util.DecodeBody[[]string](bodyBytes, inputs)
	require.NoError(t, err)
	assert.Equal(t, []string{"hiking"}, inputs)
}
