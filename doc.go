// Package userhub implements a small user-authentication HTTP API:
// registration, login, logout, session token issuance, avatar upload and
// email-based account verification.
//
// # Architecture
//
// The package is a thin route layer over a pluggable UserStore. Each
// request performs at most one or two store operations plus a single
// external-service call (password hashing, token signing, mail delivery
// or image resizing). There is no internal layering beyond
// request -> validate -> store -> collaborator -> response.
//
// User: the sole persisted entity. A user carries a unique email, a
// bcrypt password hash, a default gravatar-derived avatar URL, a
// single-use email verification token and at most one active session
// token. Logout clears the session token; login overwrites it.
//
// # Basic Usage
//
// Set up a store and the service:
//
//	import (
//	    "github.com/userhub/userhub"
//	    "github.com/userhub/userhub/stores/fs"
//	)
//
//	cfg := userhub.ConfigFromEnv()
//	store := fs.NewUserStore("/path/to/storage")
//
//	auth := &userhub.Auth{
//	    Store:  store,
//	    Mailer: &userhub.ConsoleMailer{},
//	    Config: cfg,
//	}
//	http.ListenAndServe(cfg.Addr, auth.Handler())
//
// Handler() wires the seven endpoints onto a gorilla/mux router:
//
//	POST  /register               create an account, send verification mail
//	POST  /login                  issue a session token
//	GET   /logout                 clear the active session token
//	GET   /current                profile of the authenticated user
//	PATCH /avatars                upload and resize an avatar image
//	GET   /verify/{token}         confirm an email verification token
//	POST  /verify                 resend the verification mail
//
// # Store Implementations
//
// The stores tree ships file-based (stores/fs), GORM (stores/gorm) and
// Google Cloud Datastore (stores/datastore) backends. The fs store is
// meant for development and tests; pick gorm or datastore for real
// deployments, or implement UserStore against your own database.
//
// # Security
//
// Passwords are hashed with bcrypt at default cost and never stored or
// echoed in plaintext. Session tokens are HS256-signed JWTs with a fixed
// one-hour expiry, bound to the user id and additionally checked against
// the single token persisted on the user record, so logout invalidates
// any previously issued token server-side. Verification tokens are
// cryptographically random 32-byte values, hex encoded, cleared on first
// successful verification.
package userhub
