package util

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")
	ErrCourseNotFound  = errors.New("course not found")
	ErrLessonNotFound  = errors.New("lesson not found in course structure")
	ErrHabitNotFound   = errors.New("habit not found")
	ErrSchoolLocked    = errors.New("school not unlocked yet")
)
