package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode identifies a business rejection. Adapters map codes to messages.
type ErrorCode string

const (
	CodeActivityNotFound     ErrorCode = "ACTIVITY_NOT_FOUND"
	CodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	CodeAlreadyJoined        ErrorCode = "ALREADY_JOINED"
	CodeNotJoined            ErrorCode = "NOT_JOINED"
	CodeAlreadyLeft          ErrorCode = "ALREADY_LEFT"
	CodeCooldownActive       ErrorCode = "COOLDOWN_ACTIVE"
	CodeRequiresVerification ErrorCode = "REQUIRES_VERIFICATION"
	CodeGenderBanned         ErrorCode = "GENDER_BANNED"
	CodeGenderFull           ErrorCode = "GENDER_FULL"
	CodeCapacityFull         ErrorCode = "CAPACITY_FULL"
	CodeInvalidQuota         ErrorCode = "INVALID_QUOTA"
	CodeInvalidActivity      ErrorCode = "INVALID_ACTIVITY"
)

// EnrollmentError is a decision error: the request was understood and refused.
type EnrollmentError struct {
	Code ErrorCode
	// Gender is set for GENDER_FULL and GENDER_BANNED.
	Gender Gender
	// MinutesRemaining is set for COOLDOWN_ACTIVE.
	MinutesRemaining int
	Detail           string
}

func (e *EnrollmentError) Error() string {
	switch {
	case e.Code == CodeCooldownActive:
		return fmt.Sprintf("%s: %d minute(s) remaining", e.Code, e.MinutesRemaining)
	case e.Gender != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Gender)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Detail)
	}
	return string(e.Code)
}

// Is matches any EnrollmentError carrying the same code.
func (e *EnrollmentError) Is(target error) bool {
	var t *EnrollmentError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Domain errors.
var (
	ErrActivityNotFound     = &EnrollmentError{Code: CodeActivityNotFound}
	ErrUserNotFound         = &EnrollmentError{Code: CodeUserNotFound}
	ErrAlreadyJoined        = &EnrollmentError{Code: CodeAlreadyJoined}
	ErrNotJoined            = &EnrollmentError{Code: CodeNotJoined}
	ErrAlreadyLeft          = &EnrollmentError{Code: CodeAlreadyLeft}
	ErrCooldownActive       = &EnrollmentError{Code: CodeCooldownActive}
	ErrRequiresVerification = &EnrollmentError{Code: CodeRequiresVerification}
	ErrGenderBanned         = &EnrollmentError{Code: CodeGenderBanned}
	ErrGenderFull           = &EnrollmentError{Code: CodeGenderFull}
	ErrCapacityFull         = &EnrollmentError{Code: CodeCapacityFull}
	ErrInvalidQuota         = &EnrollmentError{Code: CodeInvalidQuota}
)

func CooldownActive(minutes int) *EnrollmentError {
	return &EnrollmentError{Code: CodeCooldownActive, MinutesRemaining: minutes}
}

func GenderFull(g Gender) *EnrollmentError {
	return &EnrollmentError{Code: CodeGenderFull, Gender: g}
}

func GenderBanned(g Gender) *EnrollmentError {
	return &EnrollmentError{Code: CodeGenderBanned, Gender: g}
}

func InvalidQuota(detail string) *EnrollmentError {
	return &EnrollmentError{Code: CodeInvalidQuota, Detail: detail}
}

func InvalidActivity(detail string) *EnrollmentError {
	return &EnrollmentError{Code: CodeInvalidActivity, Detail: detail}
}

// Code returns the business code carried by err, or "" for anything else.
func Code(err error) ErrorCode {
	var e *EnrollmentError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// InfraError wraps a store or transport failure. It is always retryable and
// never a business decision.
type InfraError struct {
	Op  string
	Err error
}

func (e *InfraError) Error() string   { return e.Op + ": " + e.Err.Error() }
func (e *InfraError) Unwrap() error   { return e.Err }
func (e *InfraError) Retryable() bool { return true }

// IsRetryable reports whether err is an infrastructure failure or a deadline.
func IsRetryable(err error) bool {
	var ie *InfraError
	if errors.As(err, &ie) {
		return ie.Retryable()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
