package errs

// Relay error codes. 1xxx are client-side precondition failures reported
// synchronously to the caller; 2xxx are authentication failures; 3xxx are
// message-routing failures reported asynchronously over the wire.
const (
	CodeNotConnected     = 1001
	CodeNotAuthenticated = 1002
	CodeAlreadyConnected = 1003

	CodeAuthFailed   = 2001
	CodeInvalidToken = 2002

	CodeRecipientOffline = 3001
	CodeInvalidUser      = 3002
	CodeSessionNotFound  = 3003
)

var (
	ErrNotConnected     = NewCodeError(CodeNotConnected, "not connected")
	ErrNotAuthenticated = NewCodeError(CodeNotAuthenticated, "not authenticated")
	ErrAlreadyConnected = NewCodeError(CodeAlreadyConnected, "already connected")

	ErrAuthFailed   = NewCodeError(CodeAuthFailed, "authentication failed")
	ErrInvalidToken = NewCodeError(CodeInvalidToken, "invalid token")

	ErrRecipientOffline = NewCodeError(CodeRecipientOffline, "recipient is offline")
	ErrInvalidUser      = NewCodeError(CodeInvalidUser, "invalid user")
	ErrSessionNotFound  = NewCodeError(CodeSessionNotFound, "session not found")
)
