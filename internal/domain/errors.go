package domain

import "errors"

var (
	// ErrUserNotFound is returned when a username has no registered record.
	ErrUserNotFound = errors.New("user not registered")
	// ErrInvalidReferralCode is returned when a referral code resolves to nobody.
	ErrInvalidReferralCode = errors.New("incorrect referral code")
	// ErrNoQuestions indicates the question collection is empty.
	ErrNoQuestions = errors.New("no questions available")
	// ErrUsernameRequired is returned when registration is attempted without a username.
	ErrUsernameRequired = errors.New("username is required")
)
