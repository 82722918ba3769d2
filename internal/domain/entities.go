package domain

import "time"

// CourseStatus holds the display value of a course's enrollment state.
type CourseStatus string

const (
	StatusInProgress CourseStatus = "In Progress"
	StatusCompleted  CourseStatus = "Completed"
	StatusDropped    CourseStatus = "Dropped"
	StatusPlanToTake CourseStatus = "Plan to Take"
)

// Statuses lists every valid course status, in menu order.
func Statuses() []CourseStatus {
	return []CourseStatus{StatusInProgress, StatusCompleted, StatusDropped, StatusPlanToTake}
}

// Valid reports whether s is one of the recognised statuses.
func (s CourseStatus) Valid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

// AssessmentKind distinguishes the two assessment flavours. The store
// persists it as an integer: 1 for performance, 0 for objective.
type AssessmentKind int

const (
	Objective   AssessmentKind = 0
	Performance AssessmentKind = 1
)

// NotifyDayChoices are the lead times, in days, a reminder may be set
// to. Zero disables the reminder for that edge.
var NotifyDayChoices = []int{0, 1, 2, 3, 5, 7, 14}

// ValidNotifyDays reports whether n is an allowed reminder lead time.
func ValidNotifyDays(n int) bool {
	for _, d := range NotifyDayChoices {
		if n == d {
			return true
		}
	}
	return false
}

// Term is a fixed academic period containing courses.
type Term struct {
	ID    int64
	Name  string `validate:"required"`
	Start time.Time
	End   time.Time
}

// Course is an enrollment record inside a term. Every course references
// one instructor and exactly two assessments, one of each kind.
type Course struct {
	ID               int64
	TermID           int64
	InstructorID     int64
	Name             string `validate:"required"`
	Start            time.Time
	End              time.Time
	Status           CourseStatus
	Details          string
	PerformanceAsmt  int64
	ObjectiveAsmt    int64
	StartNotifyDays  int
	EndNotifyDays    int
}

// Assessment is a graded deliverable tied to a course.
type Assessment struct {
	ID              int64
	Kind            AssessmentKind
	Name            string `validate:"required"`
	Start           time.Time
	End             time.Time
	DueDate         time.Time
	Details         string
	CourseID        int64
	StartNotifyDays int
	EndNotifyDays   int
}

// Instructor carries the contact details shown on a course page.
// Contact edits never mutate a row in place; they insert a fresh row
// and repoint the course, so instructor history is append-only.
type Instructor struct {
	ID    int64
	Name  string `validate:"required"`
	Phone string `validate:"required"`
	Email string `validate:"required,email"`
}

// Note is a piece of free text attached to a course.
type Note struct {
	ID       int64
	CourseID int64
	Content  string `validate:"required"`
}
