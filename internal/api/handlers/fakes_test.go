package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/Irshadp556/movie-review-analysis/internal/models"
	"github.com/Irshadp556/movie-review-analysis/internal/services"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserService is an in-memory UserServiceProvider with real bcrypt
// verification, so signup-then-login exercises the same hash round-trip as
// the Postgres-backed service.
type fakeUserService struct {
	byEmail    map[string]models.User
	byUsername map[string]int64
	nextID     int64

	createErr error
	existsErr error
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{
		byEmail:    make(map[string]models.User),
		byUsername: make(map[string]int64),
		nextID:     1,
	}
}

func (f *fakeUserService) CreateUser(_ context.Context, username, email, password string) (models.User, error) {
	if f.createErr != nil {
		return models.User{}, f.createErr
	}
	if _, ok := f.byEmail[email]; ok {
		return models.User{}, services.ErrDuplicateUser
	}
	if _, ok := f.byUsername[username]; ok {
		return models.User{}, services.ErrDuplicateUser
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:           f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	f.nextID++
	f.byEmail[email] = user
	f.byUsername[username] = user.ID

	user.PasswordHash = ""
	return user, nil
}

func (f *fakeUserService) Authenticate(_ context.Context, email, password string) (models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return models.User{}, services.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, services.ErrInvalidCredentials
	}
	user.PasswordHash = ""
	return user, nil
}

func (f *fakeUserService) UserExists(_ context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserService) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return models.User{}, services.ErrNotFound
	}
	return user, nil
}

// fakeReviewService keeps reviews in memory, newest first.
type fakeReviewService struct {
	reviews map[int64][]models.Review
	nextID  int64
	addErr  error
	listErr error
}

func newFakeReviewService() *fakeReviewService {
	return &fakeReviewService{reviews: make(map[int64][]models.Review), nextID: 1}
}

func (f *fakeReviewService) AddReview(_ context.Context, userID int64, text, sentiment string) (models.Review, error) {
	if f.addErr != nil {
		return models.Review{}, f.addErr
	}
	review := models.Review{
		ID:        f.nextID,
		UserID:    userID,
		Text:      text,
		Sentiment: sentiment,
		CreatedAt: time.Now(),
	}
	f.nextID++
	f.reviews[userID] = append([]models.Review{review}, f.reviews[userID]...)
	return review, nil
}

func (f *fakeReviewService) GetUserReviews(_ context.Context, userID int64) ([]models.Review, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.reviews[userID], nil
}

func (f *fakeReviewService) SentimentCounts(_ context.Context, userID int64) ([]models.SentimentCount, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	tally := make(map[string]int)
	for _, r := range f.reviews[userID] {
		tally[r.Sentiment]++
	}
	var counts []models.SentimentCount
	for label, n := range tally {
		counts = append(counts, models.SentimentCount{Sentiment: label, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts, nil
}

// fakeClassifier returns a fixed label or error and counts calls.
type fakeClassifier struct {
	label string
	err   error
	calls int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.label, nil
}
