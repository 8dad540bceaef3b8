package exam

import "errors"

var (
	// ErrNotRegistered is returned when an operation requires a
	// registered user and none exists for the Telegram id. Protects
	// referential integrity of the answers table - the caller must
	// route the user through /start first.
	ErrNotRegistered = errors.New("exam: user is not registered")

	// ErrQuestionNotFound is returned when a test/order pair or a
	// question id matches nothing in the catalog. Fatal for the
	// request; never silently defaulted to the first question.
	ErrQuestionNotFound = errors.New("exam: question not found")

	// ErrTestEmpty is returned when a test has zero questions. A test
	// like that is a configuration fault, not a runtime state.
	ErrTestEmpty = errors.New("exam: test has no questions")
)
