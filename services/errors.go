package services

import "errors"

// Общие ошибки сервисного слоя, маппятся в HTTP-ответы в handlers.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	ErrPlayerNotFound         = errors.New("player not found")
	ErrBracketNotFound        = errors.New("bracket not found")
	ErrWinnersNotFound        = errors.New("winners not found")
	ErrResultTableNotFound    = errors.New("result table not found")
	ErrContestantNotInBracket = errors.New("contestant is not part of this bracket")

	ErrInvalidPlayer       = errors.New("player must have a name, a category and a contestant id")
	ErrDuplicateContestant = errors.New("contestant id appears more than once")
	ErrStaticTagConflict   = errors.New("tag id is already a persisted tag and cannot be attached as a session tag")
	ErrUnknownTagID        = errors.New("tag id does not exist for this gender")
	ErrInvalidMatch        = errors.New("invalid match")
	ErrInvalidResultTable  = errors.New("invalid result table")
	ErrTagCountMismatch    = errors.New("number of tag lists does not match number of players")

	ErrAuthInvalidCredentials = errors.New("invalid operator password")
	ErrAuthNotConfigured      = errors.New("operator authentication is not configured")
)
