package poller

import (
	"errors"
	"fmt"
)

var (
	// ErrCheckInFlight is returned when a check is started while another
	// one is still outstanding.
	ErrCheckInFlight = errors.New("status check already in flight")

	// ErrButtonDisabled is returned by Click while the button is disabled.
	ErrButtonDisabled = errors.New("check button is disabled")
)

type ErrorKind uint8

const (
	KindNetwork ErrorKind = iota + 1
	KindHTTP
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// FetchError describes a failed status fetch. All kinds end the check
// cycle; none is retried.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("network response was not ok: %d %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s error fetching status: %v", e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a FetchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}
