package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrChapterNotFound    = errors.New("chapter not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrCourseNotPublished = errors.New("course not published")
	ErrCoursePriceNotSet  = errors.New("course has no price set")
	ErrAlreadyPurchased   = errors.New("course already purchased")
	ErrCourseIncomplete   = errors.New("course is missing required fields for publishing")
	ErrChapterIncomplete  = errors.New("chapter is missing required fields for publishing")
)
