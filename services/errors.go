package services

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine readable class of a failure.
type ErrorKind string

const (
	KindValidation           ErrorKind = "validation"
	KindNotFound             ErrorKind = "not_found"
	KindConflict             ErrorKind = "conflict"
	KindAuthorization        ErrorKind = "authorization"
	KindInsufficientResource ErrorKind = "insufficient_resource"
	KindStorage              ErrorKind = "storage"
)

// Error is returned by every service operation that fails for a domain
// reason. Two errors match under errors.Is when their codes are equal, so the
// sentinels below can be compared against instances carrying details.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// With returns a copy carrying the given details.
func (e *Error) With(details map[string]any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// Wrap returns a copy whose cause is err.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

func newError(kind ErrorKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrUserNotFound         = newError(KindNotFound, "USER_NOT_FOUND", "User not found")
	ErrBadgeNotFound        = newError(KindNotFound, "BADGE_NOT_FOUND", "Badge not found")
	ErrMemeNotFound         = newError(KindNotFound, "MEME_NOT_FOUND", "Meme not found")
	ErrTopicNotFound        = newError(KindNotFound, "TOPIC_NOT_FOUND", "Topic not found")
	ErrNotificationNotFound = newError(KindNotFound, "NOTIFICATION_NOT_FOUND", "Notification not found")
	ErrMedalNotFound        = newError(KindNotFound, "MEDAL_NOT_FOUND", "Medal not found")

	ErrInvalidAmount          = newError(KindValidation, "INVALID_AMOUNT", "Amount must not be zero")
	ErrInvalidTransactionType = newError(KindValidation, "INVALID_TRANSACTION_TYPE", "Unknown transaction type")
	ErrCodeRequired           = newError(KindValidation, "REFERRAL_CODE_REQUIRED", "Referral code is required")
	ErrInvalidPlan            = newError(KindValidation, "INVALID_PLAN", "Invalid plan selected")
	ErrPasswordRequired       = newError(KindValidation, "PASSWORD_REQUIRED", "Password is required to delete this account")
	ErrSelfFollow             = newError(KindValidation, "SELF_FOLLOW", "You cannot follow yourself")
	ErrInvalidVote            = newError(KindValidation, "INVALID_VOTE", "Vote type must be up or down")
	ErrInvalidSettings        = newError(KindValidation, "INVALID_SETTINGS", "Invalid settings payload")
	ErrInvalidInput           = newError(KindValidation, "INVALID_INPUT", "Invalid input")

	ErrInvalidCode     = newError(KindNotFound, "INVALID_REFERRAL_CODE", "Invalid referral code")
	ErrAlreadyReferred = newError(KindConflict, "ALREADY_REFERRED", "You have already used a referral code")
	ErrSelfReferral    = newError(KindConflict, "SELF_REFERRAL", "You cannot use your own referral code")
	ErrEmailTaken      = newError(KindConflict, "EMAIL_TAKEN", "Email is already registered")
	ErrTopicExists     = newError(KindConflict, "TOPIC_EXISTS", "Topic already exists")
	ErrBadgeExists     = newError(KindConflict, "BADGE_EXISTS", "Badge already exists")
	ErrNotPremium      = newError(KindConflict, "NOT_PREMIUM", "You don't have an active premium subscription")
	ErrMedalExists     = newError(KindConflict, "MEDAL_EXISTS", "Medal already exists")
	ErrMedalOwned      = newError(KindConflict, "MEDAL_ALREADY_AWARDED", "User already has this medal")

	ErrPasswordIncorrect = newError(KindAuthorization, "PASSWORD_INCORRECT", "Incorrect password")
	ErrNotMemeAuthor     = newError(KindAuthorization, "NOT_MEME_AUTHOR", "Only the author can delete this meme")

	ErrInsufficientCoins = newError(KindInsufficientResource, "INSUFFICIENT_COINS", "Insufficient coins")

	ErrDeletionFailed = newError(KindStorage, "DELETION_FAILED", "Failed to delete account")
	ErrStorage        = newError(KindStorage, "STORAGE_ERROR", "Storage operation failed")
)

func insufficientCoins(required, current int64) *Error {
	return ErrInsufficientCoins.With(map[string]any{"required": required, "current": current})
}

// storageErr wraps a persistence failure unless it is already a domain error.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	var domain *Error
	if errors.As(err, &domain) {
		return err
	}
	return ErrStorage.Wrap(err)
}
