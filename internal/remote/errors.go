package remote

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindNetwork: no response reached us (dial, DNS, timeout).
	KindNetwork Kind = iota
	// KindAuth: the bot rejected the credential.
	KindAuth
	// KindServer: 5xx or a body we could not decode.
	KindServer
	// KindValidation: the bot rejected the request as semantically invalid.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindServer:
		return "server"
	case KindValidation:
		return "validation"
	}
	return "unknown"
}

// Error is the single classified error type crossing the client boundary.
// Downstream code switches on Kind and never re-parses transport details.
type Error struct {
	Kind   Kind
	Status int    // HTTP status, 0 for KindNetwork
	Detail string // server-provided detail, if any
	Err    error  // underlying cause
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("remote: %s error", e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func isKind(err error, k Kind) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == k
}

func IsNetwork(err error) bool    { return isKind(err, KindNetwork) }
func IsAuth(err error) bool       { return isKind(err, KindAuth) }
func IsServer(err error) bool     { return isKind(err, KindServer) }
func IsValidation(err error) bool { return isKind(err, KindValidation) }
