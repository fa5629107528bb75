package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSecretNotFound   = errors.New("secret not found")
	ErrEmptyCredential  = errors.New("api key is empty")
	ErrEmptyPatch       = errors.New("nothing to update: name or email is required")
	ErrSessionExpired   = errors.New("session expired: api key was rejected")
	ErrInvalidRoute     = errors.New("invalid route")
	ErrMissingCustomer  = errors.New("customer id is required")
)

// RemoteCodeInvalidSecretKey is the only remote error code with special
// handling: it clears the stored credential.
const RemoteCodeInvalidSecretKey = "invalid_secret_key"

// RemoteError is a non-2xx response from the billing API.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("billing api: %s (%s, status %d)", e.Message, e.Code, e.Status)
	case e.Message != "":
		return fmt.Sprintf("billing api: %s (status %d)", e.Message, e.Status)
	case e.Code != "":
		return fmt.Sprintf("billing api: %s (status %d)", e.Code, e.Status)
	default:
		return fmt.Sprintf("billing api: status %d", e.Status)
	}
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrCustomerNotFound && e.Status == http.StatusNotFound
}

// ErrorKind is the closed classification every failure is reduced to at the
// sync layer boundary.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindCredentialInvalid
	KindRemote
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCredentialInvalid:
		return "credential_invalid"
	case KindRemote:
		return "remote"
	case KindValidation:
		return "validation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	if errors.Is(err, ErrSessionExpired) {
		return KindCredentialInvalid
	}

	var remote *RemoteError
	if errors.As(err, &remote) && remote.Code == RemoteCodeInvalidSecretKey {
		return KindCredentialInvalid
	}

	if errors.Is(err, ErrEmptyCredential) || errors.Is(err, ErrEmptyPatch) || errors.Is(err, ErrInvalidRoute) || errors.Is(err, ErrMissingCustomer) {
		return KindValidation
	}

	return KindRemote
}
