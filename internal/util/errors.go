package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	ErrExamNotFound    = errors.New("exam not found")
	ErrAttemptNotFound = errors.New("attempt not found")
	ErrTopicNotFound   = errors.New("topic not found")

	ErrAttemptNotInProgress = errors.New("exam attempt is not in progress")
	ErrAttemptTimedOut      = errors.New("exam attempt has timed out")

	ErrQuestionNotInExam  = errors.New("question does not belong to this exam")
	ErrQuestionNotInTopic = errors.New("question does not belong to this topic")
	ErrOptionMismatch     = errors.New("selected option does not belong to this question")
)
