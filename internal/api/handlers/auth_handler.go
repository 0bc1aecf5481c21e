package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Irshadp556/movie-review-analysis/internal/auth"
	"github.com/Irshadp556/movie-review-analysis/internal/services"
	"github.com/Irshadp556/movie-review-analysis/internal/web"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles login, signup, logout and the Google OAuth callback.
type AuthHandler struct {
	users   services.UserServiceProvider
	reviews services.ReviewServiceProvider
	store   *auth.Store
	oauth   *auth.GoogleOAuth
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, reviews services.ReviewServiceProvider, store *auth.Store, oauth *auth.GoogleOAuth) *AuthHandler {
	return &AuthHandler{users: users, reviews: reviews, store: store, oauth: oauth}
}

type loginPage struct {
	Menu          string
	Error         string
	Flash         string
	ResetHint     bool
	GoogleAuthURL string
}

type signupPage struct {
	Menu     string
	Error    string
	Username string
	Email    string
}

func (h *AuthHandler) loginData(sess *auth.Session, errMsg string) loginPage {
	state, err := h.oauth.SignState()
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign oauth state")
	}
	flash := sess.Flash
	sess.Flash = ""
	return loginPage{
		Menu:          "login",
		Error:         errMsg,
		Flash:         flash,
		ResetHint:     sess.LoginAttempts > 2,
		GoogleAuthURL: h.oauth.AuthCodeURL(state),
	}
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	if sess.Authenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sess.Menu = "login"
	web.Render(w, "login", h.loginData(sess, ""))
}

// Login handles a local email/password login attempt.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		web.Render(w, "login", h.loginData(sess, "Invalid form submission"))
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	if email == "" || password == "" {
		web.Render(w, "login", h.loginData(sess, "Please fill in all fields"))
		return
	}
	if !auth.ValidEmail(email) {
		web.Render(w, "login", h.loginData(sess, "Please enter a valid email address"))
		return
	}

	user, err := h.users.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			sess.LoginAttempts++
			web.Render(w, "login", h.loginData(sess, "Invalid email or password"))
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Login failed")
		web.Render(w, "login", h.loginData(sess, "Something went wrong, please try again"))
		return
	}

	sess.Login(user.ID, user.Email)
	h.store.Renew(w, sess)
	h.warmHistory(r, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ShowSignup renders the signup form.
func (h *AuthHandler) ShowSignup(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	if sess.Authenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sess.Menu = "signup"
	web.Render(w, "signup", signupPage{Menu: "signup"})
}

// Signup handles new account registration. Checks run in a fixed order and
// stop at the first violation; the database stays the final arbiter of
// duplicate emails, so the existence pre-check racing a concurrent signup
// still ends in a visible warning rather than a duplicate row.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		web.Render(w, "signup", signupPage{Menu: "signup", Error: "Invalid form submission"})
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirm_password")

	render := func(errMsg string) {
		web.Render(w, "signup", signupPage{Menu: "signup", Error: errMsg, Username: username, Email: email})
	}

	switch {
	case username == "" || email == "" || password == "" || confirm == "":
		render("Please fill in all fields")
		return
	case !auth.ValidUsername(username):
		render("Username must be 3-20 chars (letters, numbers, _)")
		return
	case !auth.ValidEmail(email):
		render("Please enter a valid email address")
		return
	case !auth.StrongPassword(password):
		render("Password must contain 8+ characters with an uppercase letter, a lowercase letter, a number and a special character")
		return
	case password != confirm:
		render("Passwords do not match")
		return
	}

	exists, err := h.users.UserExists(r.Context(), email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Signup existence check failed")
		render("Something went wrong, please try again")
		return
	}
	if exists {
		render("An account with this email already exists")
		return
	}

	if _, err := h.users.CreateUser(r.Context(), username, email, password); err != nil {
		if errors.Is(err, services.ErrDuplicateUser) {
			render("An account with this email or username already exists")
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to register user")
		render("Error creating account, please try again")
		return
	}

	sess.Menu = "login"
	sess.Flash = "Account created successfully! Please login with your credentials."
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// OAuthCallback finishes the Google authorization-code flow. The redirect
// back to "/" drops the code from the visible URL, so a refresh cannot
// replay the exchange.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	code := r.URL.Query().Get("code")

	abort := func(msg string) {
		web.Render(w, "login", h.loginData(sess, msg))
	}

	if state := r.URL.Query().Get("state"); state != "" {
		if err := h.oauth.VerifyState(state); err != nil {
			log.Warn().Err(err).Msg("OAuth state validation failed")
			abort("Google Sign-In failed: invalid state")
			return
		}
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		log.Warn().Err(err).Msg("OAuth code exchange failed")
		abort("Google Sign-In failed: " + err.Error())
		return
	}

	info, err := h.oauth.FetchUserInfo(r.Context(), token.AccessToken)
	if err != nil {
		log.Warn().Err(err).Msg("OAuth userinfo fetch failed")
		abort("Google Sign-In failed: " + err.Error())
		return
	}

	exists, err := h.users.UserExists(r.Context(), info.Email)
	if err != nil {
		log.Error().Err(err).Str("email", info.Email).Msg("OAuth existence check failed")
		abort("Something went wrong, please try again")
		return
	}

	var userID int64
	if !exists {
		username := strings.SplitN(info.Email, "@", 2)[0]
		user, err := h.users.CreateUser(r.Context(), username, info.Email, auth.RandomPassword())
		if err != nil && errors.Is(err, services.ErrDuplicateUser) {
			// Lost a race, or the derived username is taken; the email
			// lookup below settles it either way.
			user, err = h.users.GetUserByEmail(r.Context(), info.Email)
		}
		if err != nil {
			log.Error().Err(err).Str("email", info.Email).Msg("OAuth auto-provisioning failed")
			abort("Could not create an account for " + info.Email)
			return
		}
		userID = user.ID
	} else {
		user, err := h.users.GetUserByEmail(r.Context(), info.Email)
		if err != nil {
			log.Error().Err(err).Str("email", info.Email).Msg("OAuth user lookup failed")
			abort("User not found in database")
			return
		}
		userID = user.ID
	}

	sess.Login(userID, info.Email)
	h.store.Renew(w, sess)
	h.warmHistory(r, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the session server-side and expires the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	h.store.Destroy(sess.ID)
	h.store.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// warmHistory fills the session's review cache right after login so the
// first home render doesn't hit the database twice.
func (h *AuthHandler) warmHistory(r *http.Request, sess *auth.Session) {
	reviews, err := h.reviews.GetUserReviews(r.Context(), sess.UserID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sess.UserID).Msg("Failed to load review history")
		return
	}
	sess.History = reviews
}
