package errors

// Error codes for standardized error responses
const (
	// Request validation
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Team registry
	ErrCodeTeamNotFound = "team_not_found"

	// Game lifecycle
	ErrCodeGameNotStarted = "game_not_started"
	ErrCodeNotEnoughTeams = "not_enough_teams"

	// Question view
	ErrCodeQuestionNotFound  = "question_not_found"
	ErrCodeQuestionAnswered  = "question_already_answered"
	ErrCodeNoOpenQuestion    = "no_open_question"
	ErrCodeAnswerNotRevealed = "answer_not_revealed"
	ErrCodeNoTeamSelected    = "no_team_selected"
	ErrCodeWrongPhase        = "wrong_phase"

	// Auction
	ErrCodeNotBidding = "not_bidding_phase"

	// Server
	ErrCodeInternalError = "internal_error"
)
