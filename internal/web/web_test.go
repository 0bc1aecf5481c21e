package web

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Irshadp556/movie-review-analysis/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmojiLookup(t *testing.T) {
	assert.Equal(t, "😊", Emoji("positive"))
	assert.Equal(t, "😞", Emoji("negative"))
	assert.Equal(t, "😐", Emoji("neutral"))
	assert.Equal(t, "🤔", Emoji("anything else"))
}

func TestFeedbackLookup(t *testing.T) {
	assert.Contains(t, Feedback("positive"), "positive")
	assert.Contains(t, Feedback("unrecognized"), "Couldn't determine")
}

func TestRenderLogin(t *testing.T) {
	rec := httptest.NewRecorder()
	Render(rec, "login", map[string]interface{}{
		"Menu":          "login",
		"Error":         "Invalid email or password",
		"Flash":         "",
		"ResetHint":     true,
		"GoogleAuthURL": "https://accounts.google.com/o/oauth2/auth?x=1",
	})

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Invalid email or password")
	assert.Contains(t, body, "Forgot your password")
	assert.Contains(t, body, "accounts.google.com")
}

func TestRenderHomeEscapesReviewText(t *testing.T) {
	rec := httptest.NewRecorder()
	Render(rec, "home", map[string]interface{}{
		"Email": "a@b.com",
		"Error": "",
		"Result": "",
		"Draft": "",
		"History": []models.Review{
			{Text: "<script>alert(1)</script>", Sentiment: "positive", CreatedAt: time.Now()},
		},
	})

	body := rec.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestRenderHomeEmptyHistory(t *testing.T) {
	rec := httptest.NewRecorder()
	Render(rec, "home", map[string]interface{}{
		"Email": "a@b.com", "Error": "", "Result": "", "Draft": "", "History": nil,
	})

	assert.Contains(t, rec.Body.String(), "No reviews yet")
}
