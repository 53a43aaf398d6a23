// Package progression holds the pure rules of the platform: deterministic
// content identifiers, XP unlock gating, habit streak math and course
// progress aggregation. Nothing in this package performs I/O; callers feed
// it state loaded by the service layer.
package progression

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind selects which natural key shape Derive expects.
type Kind string

const (
	KindChapter Kind = "chapter"
	KindLesson  Kind = "lesson"
)

// Chapters and lessons hash under separate namespaces so that a chapter and
// a lesson can never collide even if their canonical strings ever matched.
var (
	chapterNamespace = uuid.NameSpaceDNS
	lessonNamespace  = uuid.NameSpaceURL
)

// ChapterID derives the stable UUID for a chapter addressed by the legacy
// numeric scheme. Same inputs always produce the same output, so the UUID
// columns can be repopulated from scratch at any time.
func ChapterID(courseID int64, chapterNumber int) string {
	name := fmt.Sprintf("course:%d:chapter:%d", courseID, chapterNumber)
	return uuid.NewSHA1(chapterNamespace, []byte(name)).String()
}

// LessonID derives the stable UUID for a lesson.
func LessonID(courseID int64, chapterNumber, lessonNumber int) string {
	name := fmt.Sprintf("course:%d:chapter:%d:lesson:%d", courseID, chapterNumber, lessonNumber)
	return uuid.NewSHA1(lessonNamespace, []byte(name)).String()
}

// Derive maps a composite natural key onto its synthetic identifier.
// KindChapter takes (courseID, chapterNumber), KindLesson takes
// (courseID, chapterNumber, lessonNumber). Course ids may be negative;
// the legacy authoring scheme produces them.
func Derive(kind Kind, parts ...int64) (string, error) {
	switch kind {
	case KindChapter:
		if len(parts) != 2 {
			return "", fmt.Errorf("%w: chapter key needs courseID and chapterNumber, got %d parts", ErrInvalidKey, len(parts))
		}
		return ChapterID(parts[0], int(parts[1])), nil
	case KindLesson:
		if len(parts) != 3 {
			return "", fmt.Errorf("%w: lesson key needs courseID, chapterNumber and lessonNumber, got %d parts", ErrInvalidKey, len(parts))
		}
		return LessonID(parts[0], int(parts[1]), int(parts[2])), nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidKey, kind)
	}
}
