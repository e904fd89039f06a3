package app

import (
	"errors"
	"strings"

	"github.com/dineview/backoffice/internal/backoffice/ports"
)

// authMessages maps the backend's fixed auth failure reasons to operator
// guidance. Unrecognized reasons fall back to a generic message.
var authMessages = map[string]string{
	"Invalid login credentials": "Incorrect email or password.",
	"Email not confirmed":       "Confirm your email address first.",
	"Too many requests":         "Too many attempts. Try again later.",
	"Network error":             "Check your internet connection.",
}

const (
	genericAuthMessage    = "Could not sign you in. Try again later."
	genericFailureMessage = "Operation failed. Try again."
)

// UserMessage classifies an error into the transient banner text shown to
// the operator. Local validation failures get specific wording; gateway
// write failures are pattern-matched for actionable causes.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ports.ErrNoOrderSelected):
		return "No order is selected."
	case errors.Is(err, ports.ErrOrderMissingID):
		return "The selected order has no identifier."
	case errors.Is(err, ports.ErrNotFound):
		return "The record could not be found."
	case errors.Is(err, ports.ErrDuplicateCategoryKey):
		return "That category key already exists."
	case errors.Is(err, ports.ErrCategoryInUse):
		return "This category is still used by products. Move or delete them first."
	case errors.Is(err, ErrLoginInProgress):
		return "A login attempt is already in progress."
	}

	var authErr *ports.AuthError
	if errors.As(err, &authErr) {
		if msg, ok := authMessages[authErr.Reason]; ok {
			return msg
		}
		return genericAuthMessage
	}

	var gwErr *ports.GatewayError
	if errors.As(err, &gwErr) {
		return classifyGatewayMessage(gwErr)
	}

	return genericFailureMessage
}

func classifyGatewayMessage(err *ports.GatewayError) string {
	msg := err.Err.Error()
	switch {
	case strings.Contains(msg, "permission"):
		return "Permission denied by the backend. Check the admin policy configuration."
	case strings.Contains(msg, "RLS"):
		return "The database security policy rejected this write. Check the row-level security rules."
	case strings.Contains(msg, "duplicate"):
		return "A record with that name already exists."
	default:
		return genericFailureMessage
	}
}
