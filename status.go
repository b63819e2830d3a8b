package gemini

import "fmt"

// Status is a single-byte Gemini response status code. The zero value is
// not a valid Status; construct one with the StatusXxx constants.
type Status struct {
	code uint8
}

// StatusCategory is the coarse class of a Status, derived by integer
// division of the code by ten.
type StatusCategory int

const (
	CategoryInput StatusCategory = iota
	CategorySuccess
	CategoryRedirect
	CategoryTemporaryFailure
	CategoryPermanentFailure
	CategoryClientCertificateRequired
)

func (c StatusCategory) String() string {
	switch c {
	case CategoryInput:
		return "input"
	case CategorySuccess:
		return "success"
	case CategoryRedirect:
		return "redirect"
	case CategoryTemporaryFailure:
		return "temporary-failure"
	case CategoryPermanentFailure:
		return "permanent-failure"
	case CategoryClientCertificateRequired:
		return "client-certificate-required"
	default:
		return "unknown"
	}
}

var (
	StatusInput                     = Status{10}
	StatusSensitiveInput            = Status{11}
	StatusSuccess                   = Status{20}
	StatusRedirectTemporary         = Status{30}
	StatusRedirectPermanent         = Status{31}
	StatusTemporaryFailure          = Status{40}
	StatusServerUnavailable         = Status{41}
	StatusCGIError                  = Status{42}
	StatusProxyError                = Status{43}
	StatusSlowDown                  = Status{44}
	StatusPermanentFailure          = Status{50}
	StatusNotFound                  = Status{51}
	StatusGone                      = Status{52}
	StatusProxyRequestRefused       = Status{53}
	StatusBadRequest                = Status{59}
	StatusClientCertificateRequired = Status{60}
	StatusCertificateNotAuthorized  = Status{61}
	StatusCertificateNotValid       = Status{62}
)

// allStatuses is the enumerated, closed set of valid codes from spec.md §3.
var allStatuses = map[uint8]bool{
	10: true, 11: true, 20: true, 30: true, 31: true,
	40: true, 41: true, 42: true, 43: true, 44: true,
	50: true, 51: true, 52: true, 53: true, 59: true,
	60: true, 61: true, 62: true,
}

// Code returns the raw two-digit status code.
func (s Status) Code() uint8 {
	return s.code
}

// Category derives the coarse status class by dividing the code by ten.
// Any class outside 1-6 (which cannot occur for a Status built from the
// enumerated constants) maps to CategoryPermanentFailure.
func (s Status) Category() StatusCategory {
	switch s.code / 10 {
	case 1:
		return CategoryInput
	case 2:
		return CategorySuccess
	case 3:
		return CategoryRedirect
	case 4:
		return CategoryTemporaryFailure
	case 5:
		return CategoryPermanentFailure
	case 6:
		return CategoryClientCertificateRequired
	default:
		return CategoryPermanentFailure
	}
}

// IsSuccess reports whether the status belongs to the success category.
func (s Status) IsSuccess() bool {
	return s.Category() == CategorySuccess
}

// String renders the status as its two-digit wire form.
func (s Status) String() string {
	return fmt.Sprintf("%02d", s.code)
}

// Valid reports whether code is one of the enumerated Gemini statuses.
func Valid(code uint8) bool {
	return allStatuses[code]
}
