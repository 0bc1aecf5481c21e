package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Irshadp556/movie-review-analysis/internal/auth"
	"github.com/Irshadp556/movie-review-analysis/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewTestEnv struct {
	reviews    *fakeReviewService
	classifier *fakeClassifier
	store      *auth.Store
	handler    *ReviewHandler
	sess       *auth.Session
}

func newReviewTestEnv(t *testing.T) *reviewTestEnv {
	t.Helper()
	reviews := newFakeReviewService()
	classifier := &fakeClassifier{label: "positive"}
	store := auth.NewStore(time.Hour, false)
	sess := store.New()
	sess.Login(7, "a@b.com")
	return &reviewTestEnv{
		reviews:    reviews,
		classifier: classifier,
		store:      store,
		handler:    NewReviewHandler(reviews, classifier),
		sess:       sess,
	}
}

func (env *reviewTestEnv) do(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	wrapped := env.store.Middleware(http.HandlerFunc(h))
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: env.sess.ID})
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	return rec
}

func TestCreateReviewPersistsAndRenders(t *testing.T) {
	env := newReviewTestEnv(t)

	rec := env.do(env.handler.Create, formPost("/reviews", url.Values{
		"review": {"This movie was absolutely wonderful, I loved every minute!"},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Positive")
	assert.Contains(t, rec.Body.String(), "😊")
	assert.Contains(t, rec.Body.String(), "sounds very positive")

	stored, err := env.reviews.GetUserReviews(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "positive", stored[0].Sentiment)

	require.Len(t, env.sess.History, 1, "session cache tracks the new review")
}

func TestCreateReviewNewestFirstInHistory(t *testing.T) {
	env := newReviewTestEnv(t)

	env.do(env.handler.Create, formPost("/reviews", url.Values{"review": {"first"}}))
	env.classifier.label = "negative"
	env.do(env.handler.Create, formPost("/reviews", url.Values{"review": {"second"}}))

	require.Len(t, env.sess.History, 2)
	assert.Equal(t, "second", env.sess.History[0].Text)
	assert.Equal(t, "first", env.sess.History[1].Text)
}

func TestCreateReviewEmptyText(t *testing.T) {
	env := newReviewTestEnv(t)

	rec := env.do(env.handler.Create, formPost("/reviews", url.Values{"review": {"   "}}))

	assert.Contains(t, rec.Body.String(), "Please enter a review before submitting.")
	assert.Equal(t, 0, env.classifier.calls, "classifier is not called for empty input")
	assert.Empty(t, env.reviews.reviews[7])
}

func TestCreateReviewClassifierFailure(t *testing.T) {
	env := newReviewTestEnv(t)
	env.classifier.err = errors.New("service unavailable")

	rec := env.do(env.handler.Create, formPost("/reviews", url.Values{"review": {"some review"}}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error analyzing sentiment")
	assert.Empty(t, env.reviews.reviews[7], "review is not persisted when classification fails")
	assert.NotNil(t, env.store.Get(env.sess.ID), "session survives the failure")
}

func TestCreateReviewUnrecognizedLabel(t *testing.T) {
	env := newReviewTestEnv(t)
	env.classifier.label = "sarcastic"

	rec := env.do(env.handler.Create, formPost("/reviews", url.Values{"review": {"hmm"}}))

	assert.Contains(t, rec.Body.String(), "🤔", "unknown labels render with the fallback")
	require.Len(t, env.reviews.reviews[7], 1)
	assert.Equal(t, "sarcastic", env.reviews.reviews[7][0].Sentiment, "label stored verbatim")
}

func TestCreateReviewStoreFailureKeepsDraft(t *testing.T) {
	env := newReviewTestEnv(t)
	env.reviews.addErr = errors.New("connection refused")

	rec := env.do(env.handler.Create, formPost("/reviews", url.Values{"review": {"my draft text"}}))

	assert.Contains(t, rec.Body.String(), "Error saving review")
	assert.Contains(t, rec.Body.String(), "my draft text")
}

func TestCreateReviewHistoryLoadFailureAborts(t *testing.T) {
	env := newReviewTestEnv(t)
	for i := 0; i < 3; i++ {
		_, err := env.reviews.AddReview(context.Background(), 7, "earlier review", "neutral")
		require.NoError(t, err)
	}
	env.reviews.listErr = errors.New("connection refused")

	rec := env.do(env.handler.Create, formPost("/reviews", url.Values{"review": {"my new take"}}))

	assert.Contains(t, rec.Body.String(), "Error loading reviews")
	assert.Contains(t, rec.Body.String(), "my new take", "draft survives the failure")
	assert.Equal(t, 0, env.classifier.calls, "submission stops before classification")
	assert.Len(t, env.reviews.reviews[7], 3, "nothing new was persisted")
	assert.Nil(t, env.sess.History, "cache stays unset so the next render retries")

	env.reviews.listErr = nil
	rec = env.do(env.handler.Home, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, 3, strings.Count(rec.Body.String(), `class="review"`),
		"older reviews reappear once the store recovers")
}

func TestHomeShowsAtMostFiveReviews(t *testing.T) {
	env := newReviewTestEnv(t)
	for i := 0; i < 7; i++ {
		_, err := env.reviews.AddReview(context.Background(), 7, "review", "neutral")
		require.NoError(t, err)
	}

	rec := env.do(env.handler.Home, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, env.sess.History, 7, "cache keeps the full history")
	assert.Equal(t, 5, strings.Count(rec.Body.String(), `class="review"`), "display truncates to five cards")
}

func TestListReturnsJSON(t *testing.T) {
	env := newReviewTestEnv(t)
	_, err := env.reviews.AddReview(context.Background(), 7, "Wonderful", "positive")
	require.NoError(t, err)

	rec := env.do(env.handler.List, httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []models.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Wonderful", got[0].Text)
}

func TestListEmptyIsArray(t *testing.T) {
	env := newReviewTestEnv(t)

	rec := env.do(env.handler.List, httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil))
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestSummary(t *testing.T) {
	env := newReviewTestEnv(t)
	for _, label := range []string{"positive", "positive", "negative"} {
		_, err := env.reviews.AddReview(context.Background(), 7, "x", label)
		require.NoError(t, err)
	}

	rec := env.do(env.handler.Summary, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))

	var counts []models.SentimentCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.Len(t, counts, 2)
	assert.Equal(t, models.SentimentCount{Sentiment: "positive", Count: 2}, counts[0])
}

func TestSummaryServiceError(t *testing.T) {
	env := newReviewTestEnv(t)
	env.reviews.listErr = errors.New("connection refused")

	rec := env.do(env.handler.Summary, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
