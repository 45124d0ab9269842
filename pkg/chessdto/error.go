package chessdto

type DomainError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "chess service error"
}

// ErrorResponse is the JSON body of every non-2xx answer.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// Error codes shared by server and client.
const (
	CodeGameNotFound      = "game_not_found"
	CodeInvalidMoveFormat = "invalid_move_format"
	CodeNoPieceAtSource   = "no_piece_at_source"
	CodeIllegalMove       = "illegal_move"
	CodeGameFinished      = "game_finished"
	CodeInvalidColor      = "invalid_color"
	CodeRateLimited       = "rate_limited"
	CodeInternal          = "internal"
	CodeBadRequest        = "bad_request"
	CodeBodyTooLarge      = "body_too_large"
	CodeWatchUnavailable  = "watch_unavailable"
)
