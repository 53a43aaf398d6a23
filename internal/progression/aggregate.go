package progression

import (
	"math"
	"sort"
)

// Status of a user inside one course.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// LessonKey addresses a lesson inside a course.
type LessonKey struct {
	Chapter int `json:"chapterNumber"`
	Lesson  int `json:"lessonNumber"`
}

// Lesson is one unit of content inside a chapter.
type Lesson struct {
	Number int
	Title  string
}

// Chapter is an ordered group of lessons.
type Chapter struct {
	Number  int
	Title   string
	Lessons []Lesson
}

// Course is the content structure the aggregator walks. Only the shape
// matters here; metadata lives on the catalog row.
type Course struct {
	CourseID int64
	Chapters []Chapter
}

// Progress is the aggregate a course page renders from.
type Progress struct {
	Percent   int        `json:"percent"`
	Status    Status     `json:"status"`
	Next      *LessonKey `json:"nextLesson"`
	Completed int        `json:"completedLessons"`
	Total     int        `json:"totalLessons"`
}

// Aggregate folds a course structure and a completion set into percent
// complete, status and the resume point. Lessons are ordered by ascending
// (chapter, lesson) numbers, not by slice order, so shuffling chapter
// metadata does not move a user's resume point. Completions outside the
// structure are ignored.
func Aggregate(course Course, completed map[LessonKey]bool) Progress {
	keys := orderedLessons(course)
	if len(keys) == 0 {
		return Progress{Percent: 0, Status: StatusNotStarted}
	}

	done := 0
	var next *LessonKey
	for i := range keys {
		if completed[keys[i]] {
			done++
		} else if next == nil {
			k := keys[i]
			next = &k
		}
	}

	percent := int(math.Round(float64(done) / float64(len(keys)) * 100))
	status := StatusInProgress
	switch {
	case done == 0:
		status = StatusNotStarted
	case done == len(keys):
		status = StatusCompleted
	}

	return Progress{
		Percent:   percent,
		Status:    status,
		Next:      next,
		Completed: done,
		Total:     len(keys),
	}
}

func orderedLessons(course Course) []LessonKey {
	var keys []LessonKey
	for _, ch := range course.Chapters {
		for _, l := range ch.Lessons {
			keys = append(keys, LessonKey{Chapter: ch.Number, Lesson: l.Number})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Chapter != keys[j].Chapter {
			return keys[i].Chapter < keys[j].Chapter
		}
		return keys[i].Lesson < keys[j].Lesson
	})
	return keys
}
