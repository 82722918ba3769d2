// Package seed installs the first-launch sample dataset: two terms of
// six courses each, an instructor row per course, both assessments per
// course, and a couple of notes.
package seed

import (
	"fmt"
	"time"

	"github.com/conorfennell/termtrack/internal/domain"
	"github.com/conorfennell/termtrack/internal/storage"
)

var term1Courses = []string{
	"Python Programming",
	"Software 1",
	"Software 2",
	"Mobile App Development",
	"Data Foundations",
	"Data Applications",
}

var term2Courses = []string{
	"Advanced Data",
	"C++ Programming",
	"Cloud Foundations",
	"IT Project Management",
	"Networking Fundamentals",
	"Programming Capstone",
}

// Run populates an empty store with the sample dataset. A store that
// already has terms is left alone.
func Run(db *storage.DB) error {
	count, err := db.CountTerms()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	termEnd := now.AddDate(0, 6, 0)

	term1, err := db.InsertTerm(domain.Term{Name: "Term 1", Start: now, End: termEnd})
	if err != nil {
		return err
	}
	term2, err := db.InsertTerm(domain.Term{Name: "Term 2", Start: now, End: termEnd})
	if err != nil {
		return err
	}

	firstCourse, err := seedCourses(db, term1, term1Courses, domain.StatusInProgress, now)
	if err != nil {
		return err
	}
	if _, err := seedCourses(db, term2, term2Courses, domain.StatusPlanToTake, now); err != nil {
		return err
	}

	for _, content := range []string{"Note 1", "Note 2"} {
		if _, err := db.InsertNote(domain.Note{CourseID: firstCourse, Content: content}); err != nil {
			return err
		}
	}
	return nil
}

// seedCourses inserts one course per name, each with its own instructor
// row and its two assessments, and returns the first course id.
func seedCourses(db *storage.DB, termID int64, names []string, status domain.CourseStatus, now time.Time) (int64, error) {
	var first int64
	for _, name := range names {
		instructorID, err := db.InsertInstructor(domain.Instructor{
			Name:  "Anika Patel",
			Phone: "555-123-4567",
			Email: "anika.patel@strimeuniversity.edu",
		})
		if err != nil {
			return 0, err
		}

		courseID, err := db.InsertCourse(domain.Course{
			TermID:       termID,
			InstructorID: instructorID,
			Name:         name,
			Start:        now,
			End:          now.AddDate(0, 4, 0),
			Status:       status,
			Details:      "Enter Course Details Here:",
		})
		if err != nil {
			return 0, err
		}
		if first == 0 {
			first = courseID
		}

		asmtEnd := now.AddDate(0, 3, 0)
		perfID, err := db.InsertAssessment(domain.Assessment{
			Kind:     domain.Performance,
			Name:     "Performance Assessment #1",
			Start:    now,
			End:      asmtEnd,
			DueDate:  asmtEnd,
			Details:  "Enter details about assessment here:",
			CourseID: courseID,
		})
		if err != nil {
			return 0, err
		}
		objID, err := db.InsertAssessment(domain.Assessment{
			Kind:     domain.Objective,
			Name:     "Objective Assessment #1",
			Start:    now,
			End:      asmtEnd,
			DueDate:  asmtEnd,
			Details:  "Enter details about assessment here:",
			CourseID: courseID,
		})
		if err != nil {
			return 0, err
		}

		course, err := db.FindCourse(courseID)
		if err != nil {
			return 0, err
		}
		if course == nil {
			return 0, fmt.Errorf("seeded course %d not found", courseID)
		}
		course.PerformanceAsmt = perfID
		course.ObjectiveAsmt = objID
		if err := db.UpdateCourse(*course); err != nil {
			return 0, err
		}
	}
	return first, nil
}
