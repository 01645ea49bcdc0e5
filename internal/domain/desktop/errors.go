package desktop

import "errors"

var (
	// ErrLocked is returned for desktop operations while the lock screen is up.
	ErrLocked = errors.New("desktop is locked")
	// ErrUsernameRequired is returned by Unlock for an empty username.
	ErrUsernameRequired = errors.New("username is required")
	// ErrPasswordRequired is returned by Unlock for an empty password.
	ErrPasswordRequired = errors.New("password is required")
	// ErrInvalidCredentials is returned by Unlock when the credential does not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrTooManyAttempts is returned by Unlock after repeated wrong passwords.
	ErrTooManyAttempts = errors.New("too many failed unlock attempts")
	// ErrUnknownApp is returned when launching an app the catalog does not know.
	ErrUnknownApp = errors.New("unknown app")
	// ErrInvalidWindow is returned for malformed open window requests.
	ErrInvalidWindow = errors.New("invalid window")
	// ErrBadQuery is returned for unusable start menu searches.
	ErrBadQuery = errors.New("bad search query")
	// ErrInvalidSettings is returned for out-of-range settings values.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrSessionNotFound is returned for unknown or destroyed sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the session limit is reached.
	ErrTooManySessions = errors.New("too many sessions")
)
