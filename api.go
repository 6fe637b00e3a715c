package userhub

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Auth is the authentication service. All collaborators are injected;
// zero-value fields are filled by EnsureDefaults.
type Auth struct {
	// Store persists User records. Must be provided.
	Store UserStore

	// Mailer delivers verification emails. Defaults to ConsoleMailer.
	Mailer Mailer

	// Avatars stores processed avatar images. Defaults to an AvatarStore
	// rooted at Config.PublicDir.
	Avatars *AvatarStore

	// Config carries the signing secret, base URL and directories.
	Config *Config
}

// EnsureDefaults fills unset collaborators with reasonable defaults.
func (a *Auth) EnsureDefaults() *Auth {
	if a.Config == nil {
		a.Config = (&Config{}).EnsureDefaults()
	}
	if a.Mailer == nil {
		a.Mailer = &ConsoleMailer{}
	}
	if a.Avatars == nil {
		a.Avatars = &AvatarStore{PublicDir: a.Config.PublicDir}
	}
	return a
}

// Handler wires the endpoints onto a router.
func (a *Auth) Handler() http.Handler {
	a.EnsureDefaults()

	r := mux.NewRouter()
	r.Handle("/register", apiHandler(a.handleRegister)).Methods(http.MethodPost)
	r.Handle("/login", apiHandler(a.handleLogin)).Methods(http.MethodPost)
	r.Handle("/logout", apiHandler(a.requireUser(a.handleLogout))).Methods(http.MethodGet)
	r.Handle("/current", apiHandler(a.requireUser(a.handleCurrent))).Methods(http.MethodGet)
	r.Handle("/avatars", apiHandler(a.requireUser(a.stageUpload(a.handleUpdateAvatar)))).Methods(http.MethodPatch)
	r.Handle("/verify/{verificationToken}", apiHandler(a.handleVerifyToken)).Methods(http.MethodGet)
	r.Handle("/verify", apiHandler(a.handleResendVerification)).Methods(http.MethodPost)
	return r
}

type messageResponse struct {
	Message string `json:"message"`
}

// handleRegister creates a new account.
//
// The email uniqueness check runs before the write; the store's unique
// constraint is the backstop for the register/register race on the same
// email, and both paths surface as a 409.
func (a *Auth) handleRegister(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return NewValidationError("invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Password == "" || req.Email == "" {
		return NewValidationError("name, email and password are required")
	}
	if !emailRegex.MatchString(req.Email) {
		return NewValidationError("invalid email format")
	}

	if _, err := a.Store.ByEmail(r.Context(), req.Email); err == nil {
		return NewConflictError("email already in use")
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	verificationToken, err := GenerateVerificationToken()
	if err != nil {
		return err
	}

	user := &User{
		Email:             req.Email,
		Name:              req.Name,
		PasswordHash:      string(hash),
		AvatarURL:         GravatarURL(req.Email),
		VerificationToken: verificationToken,
	}
	if err := a.Store.Create(r.Context(), user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return NewConflictError("email already in use")
		}
		return err
	}

	if err := a.sendVerificationMail(user); err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, map[string]any{"user": toDTO(user)})
}

// handleLogin validates credentials and issues a fresh session token,
// overwriting any previously issued one.
//
// The two failure messages are deliberately distinct: "credentials not
// found" for an unknown email and "credentials do not match" for a
// failed password comparison.
func (a *Auth) handleLogin(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return NewValidationError("invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Password == "" || req.Email == "" {
		return NewValidationError("email and password are required")
	}

	user, err := a.Store.ByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return NewAuthError("credentials not found")
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return NewAuthError("credentials do not match")
	}

	token, err := SignSessionToken(user.ID, a.Config.JWTSecretKey, a.Config.SessionTokenTTL)
	if err != nil {
		return err
	}
	if err := a.Store.SetSessionToken(r.Context(), user.ID, token); err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleLogout clears the user's active session token.
func (a *Auth) handleLogout(w http.ResponseWriter, r *http.Request) error {
	user := UserFromContext(r.Context())
	if err := a.Store.SetSessionToken(r.Context(), user.ID, ""); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

// handleCurrent returns the authenticated user's public profile.
func (a *Auth) handleCurrent(w http.ResponseWriter, r *http.Request) error {
	user := UserFromContext(r.Context())
	return writeJSON(w, http.StatusOK, toDTO(user))
}

// handleUpdateAvatar resizes the staged upload, moves it into the
// public avatar directory and records the new URL.
//
// Every failure exit removes the staged file before forwarding the
// error. The removal is unconditional: it runs even after a successful
// rename (in which case it is a no-op on the old path), so no orphaned
// temp file survives a failed request.
func (a *Auth) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) error {
	user := UserFromContext(r.Context())
	up, ok := UploadFromContext(r.Context())
	if !ok {
		return NewValidationError("avatar file is required")
	}

	avatarURL, err := a.Avatars.Process(up.Path, up.OriginalName, user.ID)
	if err == nil {
		err = a.Store.SetAvatarURL(r.Context(), user.ID, avatarURL)
	}
	if err != nil {
		os.Remove(up.Path)
		return err
	}

	return writeJSON(w, http.StatusCreated, avatarURL)
}

// handleVerifyToken confirms an email verification token. The token is
// single use: verification clears it, so a second visit 404s.
func (a *Auth) handleVerifyToken(w http.ResponseWriter, r *http.Request) error {
	token := mux.Vars(r)["verificationToken"]

	user, err := a.Store.ByVerificationToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return NewNotFoundError("User not found")
		}
		return err
	}

	if err := a.Store.MarkVerified(r.Context(), user.ID); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, messageResponse{Message: "Verification successful"})
}

// handleResendVerification re-sends the verification mail carrying the
// user's existing, still-valid token. The lookup filters by the email
// field explicitly.
func (a *Auth) handleResendVerification(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return NewValidationError("invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return NewValidationError("missing required field email")
	}

	user, err := a.Store.ByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return NewNotFoundError("User not found")
		}
		return err
	}

	if user.Verified {
		return NewValidationError("Verification has already been passed")
	}

	if err := a.sendVerificationMail(user); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, messageResponse{Message: "Verification email sent"})
}

// sendVerificationMail builds the verification link for the user's
// current token and dispatches it.
func (a *Auth) sendVerificationMail(user *User) error {
	link := fmt.Sprintf("%s/verify/%s", strings.TrimSuffix(a.Config.BaseURL, "/"), user.VerificationToken)
	subject, html := verificationEmail(link)
	if err := a.Mailer.Send(user.Email, subject, html); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}
