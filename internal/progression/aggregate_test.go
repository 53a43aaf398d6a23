package progression

import "testing"

// tenLessonCourse is 10 lessons split over three chapters, declared out of
// numeric order on purpose.
func tenLessonCourse() Course {
	return Course{
		CourseID: 101,
		Chapters: []Chapter{
			{Number: 2, Lessons: []Lesson{{Number: 1}, {Number: 2}, {Number: 3}}},
			{Number: 1, Lessons: []Lesson{{Number: 2}, {Number: 1}, {Number: 3}, {Number: 4}}},
			{Number: 3, Lessons: []Lesson{{Number: 1}, {Number: 2}, {Number: 3}}},
		},
	}
}

func TestAggregateNotStarted(t *testing.T) {
	p := Aggregate(tenLessonCourse(), nil)
	if p.Percent != 0 || p.Status != StatusNotStarted {
		t.Fatalf("got percent=%d status=%s, want 0/not_started", p.Percent, p.Status)
	}
	if p.Next == nil || *p.Next != (LessonKey{Chapter: 1, Lesson: 1}) {
		t.Fatalf("next = %v, want chapter 1 lesson 1", p.Next)
	}
	if p.Total != 10 {
		t.Fatalf("total = %d, want 10", p.Total)
	}
}

func TestAggregateCompleted(t *testing.T) {
	completed := make(map[LessonKey]bool)
	for _, ch := range tenLessonCourse().Chapters {
		for _, l := range ch.Lessons {
			completed[LessonKey{Chapter: ch.Number, Lesson: l.Number}] = true
		}
	}

	p := Aggregate(tenLessonCourse(), completed)
	if p.Percent != 100 || p.Status != StatusCompleted {
		t.Fatalf("got percent=%d status=%s, want 100/completed", p.Percent, p.Status)
	}
	if p.Next != nil {
		t.Fatalf("next = %v, want nil", p.Next)
	}
}

func TestAggregatePartialNonContiguous(t *testing.T) {
	// 3 of 10 done, scattered; the resume point is the lowest-ordered gap,
	// not simply "the fourth lesson".
	completed := map[LessonKey]bool{
		{Chapter: 1, Lesson: 1}: true,
		{Chapter: 2, Lesson: 2}: true,
		{Chapter: 3, Lesson: 3}: true,
	}

	p := Aggregate(tenLessonCourse(), completed)
	if p.Percent != 30 {
		t.Fatalf("percent = %d, want 30", p.Percent)
	}
	if p.Status != StatusInProgress {
		t.Fatalf("status = %s, want in_progress", p.Status)
	}
	if p.Next == nil || *p.Next != (LessonKey{Chapter: 1, Lesson: 2}) {
		t.Fatalf("next = %v, want chapter 1 lesson 2", p.Next)
	}
}

func TestAggregateEmptyCourse(t *testing.T) {
	p := Aggregate(Course{CourseID: 7}, map[LessonKey]bool{{Chapter: 1, Lesson: 1}: true})
	if p.Percent != 0 || p.Status != StatusNotStarted || p.Next != nil {
		t.Fatalf("empty course: got %+v", p)
	}
}

func TestAggregateIgnoresStrayCompletions(t *testing.T) {
	completed := map[LessonKey]bool{
		{Chapter: 9, Lesson: 9}: true, // not part of the structure
	}
	p := Aggregate(tenLessonCourse(), completed)
	if p.Completed != 0 || p.Status != StatusNotStarted {
		t.Fatalf("stray completion counted: %+v", p)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	completed := map[LessonKey]bool{
		{Chapter: 1, Lesson: 1}: true,
		{Chapter: 1, Lesson: 2}: true,
	}
	first := Aggregate(tenLessonCourse(), completed)
	for i := 0; i < 10; i++ {
		if got := Aggregate(tenLessonCourse(), completed); got != first {
			if got.Next == nil || first.Next == nil || *got.Next != *first.Next ||
				got.Percent != first.Percent || got.Status != first.Status {
				t.Fatalf("run %d differed: %+v vs %+v", i, got, first)
			}
		}
	}
}

func TestAggregateRounding(t *testing.T) {
	// 1 of 3 lessons is 33.33..%, which rounds to 33, not truncates to 32
	// or inflates to 34.
	course := Course{
		CourseID: 8,
		Chapters: []Chapter{{Number: 1, Lessons: []Lesson{{Number: 1}, {Number: 2}, {Number: 3}}}},
	}
	p := Aggregate(course, map[LessonKey]bool{{Chapter: 1, Lesson: 1}: true})
	if p.Percent != 33 {
		t.Fatalf("percent = %d, want 33", p.Percent)
	}

	p = Aggregate(course, map[LessonKey]bool{
		{Chapter: 1, Lesson: 1}: true,
		{Chapter: 1, Lesson: 2}: true,
	})
	if p.Percent != 67 {
		t.Fatalf("percent = %d, want 67", p.Percent)
	}
}
