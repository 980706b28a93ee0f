package exos

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"

	"github.com/switchops/exosctl/internal/reconcile"
)

// Error types for reconciliation session operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeLoad indicates a bad candidate source (missing, ambiguous, unreadable)
	ErrTypeLoad ErrorType = iota
	// ErrTypeRetrieval indicates the device failed to return its running config
	ErrTypeRetrieval
	// ErrTypeTransport indicates a transport-level failure (dial, channel, timeout)
	ErrTypeTransport
	// ErrTypeAuth indicates an authentication failure (invalid credentials)
	ErrTypeAuth
	// ErrTypeUnresolvedLine indicates a replace diff contains a line with no known inverse
	ErrTypeUnresolvedLine
	// ErrTypePartialCommit indicates a command sequence failed partway through
	ErrTypePartialCommit
	// ErrTypeNoRollback indicates rollback was requested with no prior snapshot
	ErrTypeNoRollback
	// ErrTypeState indicates an operation was called in the wrong session state
	ErrTypeState
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeLoad:
		return "Load Error"
	case ErrTypeRetrieval:
		return "Retrieval Error"
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeUnresolvedLine:
		return "Unresolved Line Error"
	case ErrTypePartialCommit:
		return "Partial Commit Error"
	case ErrTypeNoRollback:
		return "No Rollback Available"
	case ErrTypeState:
		return "State Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// SessionError represents an error from a reconciliation session operation
type SessionError struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Line    string    // Offending config line (unresolved-line errors)
	Index   int       // Zero-based index of the failing command (partial commits)
	Command string    // The failing command (partial commits)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *SessionError) Error() string {
	switch e.Type {
	case ErrTypeUnresolvedLine:
		return fmt.Sprintf("%s: no inverse rule matches line %q", e.Type, e.Line)
	case ErrTypePartialCommit:
		if e.Err != nil {
			return fmt.Sprintf("%s: command %d (%q) failed: %v", e.Type, e.Index, e.Command, e.Err)
		}
		return fmt.Sprintf("%s: command %d (%q) failed", e.Type, e.Index, e.Command)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *SessionError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a candidate-load error
func NewLoadError(message string, err error) *SessionError {
	return &SessionError{Type: ErrTypeLoad, Message: message, Err: err}
}

// NewRetrievalError creates a running-config retrieval error
func NewRetrievalError(err error) *SessionError {
	return &SessionError{
		Type:    ErrTypeRetrieval,
		Message: "failed to retrieve running config from device",
		Err:     err,
	}
}

// NewTransportError creates a transport-level error
func NewTransportError(message string, err error) *SessionError {
	return &SessionError{Type: ErrTypeTransport, Message: message, Err: err}
}

// NewAuthError creates an authentication error
func NewAuthError(message string, err error) *SessionError {
	return &SessionError{Type: ErrTypeAuth, Message: message, Err: err}
}

// NewUnresolvedLineError wraps an unresolved line reported by the rule table
func NewUnresolvedLineError(err *reconcile.UnresolvedLineError) *SessionError {
	return &SessionError{
		Type: ErrTypeUnresolvedLine,
		Line: err.Line,
		Err:  err,
	}
}

// NewPartialCommitError creates an error naming the failing command and its
// zero-based index within the command plan
func NewPartialCommitError(index int, command string, err error) *SessionError {
	return &SessionError{
		Type:    ErrTypePartialCommit,
		Index:   index,
		Command: command,
		Err:     err,
	}
}

// NewNoRollbackError creates an error for rollback without a snapshot
func NewNoRollbackError() *SessionError {
	return &SessionError{
		Type:    ErrTypeNoRollback,
		Message: "no previous running config to roll back to",
	}
}

// NewStateError creates an error for an operation in the wrong session state
func NewStateError(message string) *SessionError {
	return &SessionError{Type: ErrTypeState, Message: message}
}

// ClassifyDialError analyzes a connection error and returns a typed error
func ClassifyDialError(err error, host string) *SessionError {
	if err == nil {
		return nil
	}

	// x/crypto/ssh reports failed auth as a plain error string
	if strings.Contains(err.Error(), "unable to authenticate") {
		return NewAuthError(fmt.Sprintf("authentication failed for %s", host), err)
	}

	if os.IsTimeout(err) {
		return NewTransportError(fmt.Sprintf("connection to %s timed out", host), err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return NewTransportError(fmt.Sprintf("%s refused connection", host), err)
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return NewTransportError(fmt.Sprintf("%s is unreachable", host), err)
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NewTransportError(fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name), err)
	}

	return NewTransportError(fmt.Sprintf("failed to connect to %s", host), err)
}

// IsLoadError checks if an error is a candidate-load error
func IsLoadError(err error) bool {
	return hasType(err, ErrTypeLoad)
}

// IsRetrievalError checks if an error is a running-config retrieval error
func IsRetrievalError(err error) bool {
	return hasType(err, ErrTypeRetrieval)
}

// IsUnresolvedLineError checks if an error reports a line with no known inverse
func IsUnresolvedLineError(err error) bool {
	return hasType(err, ErrTypeUnresolvedLine)
}

// IsPartialCommitError checks if an error reports a partially applied command plan
func IsPartialCommitError(err error) bool {
	return hasType(err, ErrTypePartialCommit)
}

// IsNoRollbackError checks if an error reports a missing rollback snapshot
func IsNoRollbackError(err error) bool {
	return hasType(err, ErrTypeNoRollback)
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	return hasType(err, ErrTypeAuth)
}

func hasType(err error, et ErrorType) bool {
	var sessErr *SessionError
	if errors.As(err, &sessErr) {
		return sessErr.Type == et
	}
	return false
}

// GetTroubleshootingHint returns operator-facing advice for an error.
// Unresolved-line and partial-commit failures require different responses
// (fix the rule table vs. inspect device state), so they are spelled out.
func GetTroubleshootingHint(err error) string {
	var sessErr *SessionError
	if !errors.As(err, &sessErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch sessErr.Type {
	case ErrTypeUnresolvedLine:
		return strings.Join([]string{
			"The running config contains a line with no known inverse rule.",
			"Nothing was sent to the device.",
			"To proceed:",
			"  • Add an inverse rule for this command shape to your rules file",
			"  • Or remove the line from the device manually and re-run",
			"Offending line: " + sessErr.Line,
		}, "\n")

	case ErrTypePartialCommit:
		return strings.Join([]string{
			"The command sequence failed partway through.",
			"Commands before the failing one WERE applied on the device.",
			"To proceed:",
			"  • Inspect the device state (show configuration)",
			"  • Roll back to the pre-commit snapshot, or fix and re-commit",
			fmt.Sprintf("Failed at command %d: %s", sessErr.Index, sessErr.Command),
		}, "\n")

	case ErrTypeAuth:
		return strings.Join([]string{
			"Authentication failed.",
			"  • Check the username and password",
			"  • Verify the account is not locked on the switch",
		}, "\n")

	case ErrTypeRetrieval, ErrTypeTransport:
		return strings.Join([]string{
			"Could not talk to the device.",
			"  • Check that the switch is reachable (ping it)",
			"  • Verify SSH is enabled (enable ssh2)",
			"  • Check the port number (default is 22)",
		}, "\n")

	case ErrTypeNoRollback:
		return "Nothing has been committed in this session, so there is no snapshot to roll back to."

	case ErrTypeLoad:
		return "Check the candidate config source: provide exactly one of a file path or inline text."

	default:
		return "An error occurred. Please check the error message for details."
	}
}
