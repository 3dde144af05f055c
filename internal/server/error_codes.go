package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidQuery    = 1003
	ErrCodeMissingRequired = 1009
	ErrCodeNotAFile        = 1015

	// Domain state (2xxx)
	ErrCodeDocumentNotFound = 2001
	ErrCodeRouteNotFound    = 2002
	ErrCodeStampInFlight    = 2102

	// Auth & limits (3xxx)
	ErrCodeUnauthorized      = 3001
	ErrCodeResourceExhausted = 3003

	// Internal/system (4xxx)
	ErrCodeInternal         = 4001
	ErrCodeStoreFailure     = 4002
	ErrCodeJournalFailure   = 4003
	ErrCodeMethodNotAllowed = 4004
	ErrCodeNotImplemented   = 4005
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 404:
		return ErrCodeDocumentNotFound
	case 405:
		return ErrCodeMethodNotAllowed
	case 409:
		return ErrCodeStampInFlight
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	case 501:
		return ErrCodeNotImplemented
	default:
		return 0
	}
}
