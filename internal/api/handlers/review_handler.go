package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Irshadp556/movie-review-analysis/internal/auth"
	"github.com/Irshadp556/movie-review-analysis/internal/models"
	"github.com/Irshadp556/movie-review-analysis/internal/services"
	"github.com/Irshadp556/movie-review-analysis/internal/web"
	"github.com/rs/zerolog/log"
)

const historyDisplayLimit = 5

// Classifier is the outbound sentiment classification dependency.
type Classifier interface {
	Classify(ctx context.Context, reviewText string) (string, error)
}

// ReviewHandler handles review submission, history rendering and the JSON
// endpoints backing the distribution chart.
type ReviewHandler struct {
	reviews    services.ReviewServiceProvider
	classifier Classifier
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews services.ReviewServiceProvider, classifier Classifier) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, classifier: classifier}
}

type homePage struct {
	Email   string
	Error   string
	Result  string
	Draft   string
	History []models.Review
}

// ensureHistory lazily fills the session's review cache. Returning an error
// leaves the cache nil so the next render retries.
func (h *ReviewHandler) ensureHistory(r *http.Request, sess *auth.Session) error {
	if sess.History != nil {
		return nil
	}
	reviews, err := h.reviews.GetUserReviews(r.Context(), sess.UserID)
	if err != nil {
		return err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	sess.History = reviews
	return nil
}

func (h *ReviewHandler) homeData(r *http.Request, sess *auth.Session) homePage {
	if err := h.ensureHistory(r, sess); err != nil {
		log.Error().Err(err).Int64("user_id", sess.UserID).Msg("Failed to load review history")
		return homePage{Email: sess.Email, Error: "Error loading reviews"}
	}
	history := sess.History
	if len(history) > historyDisplayLimit {
		history = history[:historyDisplayLimit]
	}
	return homePage{Email: sess.Email, History: history}
}

// Home renders the review form, the recent history cards and the chart.
func (h *ReviewHandler) Home(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	web.Render(w, "home", h.homeData(r, sess))
}

// Create classifies a submitted review and persists it. The review is not
// stored when classification fails; the session stays usable either way.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		data := h.homeData(r, sess)
		data.Error = "Invalid form submission"
		web.Render(w, "home", data)
		return
	}

	text := r.PostFormValue("review")
	if strings.TrimSpace(text) == "" {
		data := h.homeData(r, sess)
		data.Error = "Please enter a review before submitting."
		web.Render(w, "home", data)
		return
	}

	// The cache must be loaded before the insert: prepending onto a nil
	// cache would hide every older row on later renders. A load failure
	// aborts the submission rather than continuing on the bad cache.
	if err := h.ensureHistory(r, sess); err != nil {
		log.Error().Err(err).Int64("user_id", sess.UserID).Msg("Failed to load review history")
		web.Render(w, "home", homePage{Email: sess.Email, Error: "Error loading reviews, please try again", Draft: text})
		return
	}

	label, err := h.classifier.Classify(r.Context(), text)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sess.UserID).Msg("Sentiment classification failed")
		data := h.homeData(r, sess)
		data.Error = "Error analyzing sentiment: " + err.Error()
		data.Draft = text
		web.Render(w, "home", data)
		return
	}

	review, err := h.reviews.AddReview(r.Context(), sess.UserID, text, label)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sess.UserID).Msg("Failed to store review")
		data := h.homeData(r, sess)
		data.Error = "Error saving review, please try again"
		data.Draft = text
		web.Render(w, "home", data)
		return
	}

	// Newest first, matching the database ordering
	sess.History = append([]models.Review{review}, sess.History...)

	data := h.homeData(r, sess)
	data.Result = label
	web.Render(w, "home", data)
}

// List returns the user's full review history as JSON, newest first.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	reviews, err := h.reviews.GetUserReviews(r.Context(), sess.UserID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sess.UserID).Msg("Failed to list reviews")
		http.Error(w, "Failed to load reviews", http.StatusInternalServerError)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reviews)
}

// Summary returns the sentiment label frequency for the chart.
func (h *ReviewHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	counts, err := h.reviews.SentimentCounts(r.Context(), sess.UserID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sess.UserID).Msg("Failed to summarize sentiment")
		http.Error(w, "Failed to load summary", http.StatusInternalServerError)
		return
	}
	if counts == nil {
		counts = []models.SentimentCount{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(counts)
}
