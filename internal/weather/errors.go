package weather

import (
	"errors"
	"fmt"
)

const (
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	CodeInvalidParameter    = "INVALID_PARAMETER"
	CodeNoData              = "NO_DATA"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrNoPeriods is returned when current conditions are requested from a
// forecast that has no periods.
var ErrNoPeriods = errors.New("no forecast periods available")

// ProviderUnavailableError reports an upstream failure: transport error,
// timeout, non-success status or an unexpected payload.
type ProviderUnavailableError struct {
	Provider string
	Location string
	Reason   string
	Err      error
}

// Unavailable builds a ProviderUnavailableError for provider.
func Unavailable(provider, reason string, err error) *ProviderUnavailableError {
	return &ProviderUnavailableError{Provider: provider, Reason: reason, Err: err}
}

func (e *ProviderUnavailableError) Error() string {
	msg := fmt.Sprintf("weather provider %s unavailable", e.Provider)
	if e.Location != "" {
		msg += fmt.Sprintf(" for %q", e.Location)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ProviderUnavailableError) Unwrap() error {
	return e.Err
}

// withLocation returns a copy carrying the attempted location.
func (e *ProviderUnavailableError) withLocation(loc string) *ProviderUnavailableError {
	cp := *e
	cp.Location = loc
	return &cp
}

// InvalidParameterError is raised before any upstream call.
type InvalidParameterError struct {
	Parameter string
	Value     any
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Parameter, e.Reason)
}

// ErrorBody is the caller-visible error object.
type ErrorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Location  string `json:"location,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// ToErrorBody classifies err into the caller-visible error object.
func ToErrorBody(err error) ErrorBody {
	var pu *ProviderUnavailableError
	var ip *InvalidParameterError

	switch {
	case errors.As(err, &ip):
		return ErrorBody{Error: CodeInvalidParameter, Message: ip.Error(), Parameter: ip.Parameter}
	case errors.As(err, &pu):
		return ErrorBody{Error: CodeProviderUnavailable, Message: pu.Error(), Location: pu.Location}
	case errors.Is(err, ErrNoPeriods):
		return ErrorBody{Error: CodeNoData, Message: err.Error()}
	default:
		return ErrorBody{Error: CodeInternal, Message: err.Error()}
	}
}
