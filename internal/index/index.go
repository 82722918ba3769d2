// Package index holds the in-memory view of the record store. The view
// is rebuilt from the store after every mutation, either fully or, for
// instructor contact edits, narrowly for one course.
package index

import (
	"fmt"
	"sort"

	"github.com/conorfennell/termtrack/internal/domain"
	"github.com/conorfennell/termtrack/internal/storage"
)

// Index owns every in-memory map. It is not safe for concurrent use;
// the app has a single logical thread of control.
type Index struct {
	terms         []domain.Term
	coursesByTerm map[int64][]domain.Course
	courses       map[int64]domain.Course
	assessments   map[int64]domain.Assessment
	instructors   map[int64]domain.Instructor
	notes         map[int64]domain.Note
}

// New returns an empty index. Call Reload to populate it.
func New() *Index {
	return &Index{
		coursesByTerm: make(map[int64][]domain.Course),
		courses:       make(map[int64]domain.Course),
		assessments:   make(map[int64]domain.Assessment),
		instructors:   make(map[int64]domain.Instructor),
		notes:         make(map[int64]domain.Note),
	}
}

// Reload rebuilds the whole index from the store. The new view is built
// aside and swapped in only once every read succeeded, so a store error
// leaves the previous contents intact rather than half-replaced.
func (idx *Index) Reload(db *storage.DB) error {
	terms, err := db.GetAllTerms()
	if err != nil {
		return fmt.Errorf("reload terms: %w", err)
	}

	coursesByTerm := make(map[int64][]domain.Course, len(terms))
	courses := make(map[int64]domain.Course)
	for _, t := range terms {
		termCourses, err := db.CoursesByTerm(t.ID)
		if err != nil {
			return fmt.Errorf("reload courses for term %d: %w", t.ID, err)
		}
		coursesByTerm[t.ID] = termCourses
		for _, c := range termCourses {
			courses[c.ID] = c
		}
	}

	asmts, err := db.GetAllAssessments()
	if err != nil {
		return fmt.Errorf("reload assessments: %w", err)
	}
	assessments := make(map[int64]domain.Assessment, len(asmts))
	for _, a := range asmts {
		assessments[a.ID] = a
	}

	instrRows, err := db.GetAllInstructors()
	if err != nil {
		return fmt.Errorf("reload instructors: %w", err)
	}
	instructors := make(map[int64]domain.Instructor, len(instrRows))
	for _, i := range instrRows {
		instructors[i.ID] = i
	}

	noteRows, err := db.GetAllNotes()
	if err != nil {
		return fmt.Errorf("reload notes: %w", err)
	}
	notes := make(map[int64]domain.Note, len(noteRows))
	for _, n := range noteRows {
		notes[n.ID] = n
	}

	idx.terms = terms
	idx.coursesByTerm = coursesByTerm
	idx.courses = courses
	idx.assessments = assessments
	idx.instructors = instructors
	idx.notes = notes
	return nil
}

// NarrowReload re-reads one course and its instructor, replacing only
// those two map entries. It exists so an instructor contact edit does
// not re-query the entire term list; every other entry is untouched.
func (idx *Index) NarrowReload(db *storage.DB, courseID int64) error {
	course, err := db.FindCourse(courseID)
	if err != nil {
		return fmt.Errorf("narrow reload course %d: %w", courseID, err)
	}
	if course == nil {
		return fmt.Errorf("narrow reload: course %d not found", courseID)
	}

	instructor, err := db.FindInstructor(course.InstructorID)
	if err != nil {
		return fmt.Errorf("narrow reload instructor %d: %w", course.InstructorID, err)
	}
	if instructor == nil {
		return fmt.Errorf("narrow reload: instructor %d not found", course.InstructorID)
	}

	idx.courses[courseID] = *course
	idx.instructors[instructor.ID] = *instructor
	return nil
}

// Terms returns every term in store order.
func (idx *Index) Terms() []domain.Term {
	return idx.terms
}

// Term looks up a term by id.
func (idx *Index) Term(id int64) (domain.Term, bool) {
	for _, t := range idx.terms {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Term{}, false
}

// CoursesOf returns the courses of a term in store order.
func (idx *Index) CoursesOf(termID int64) []domain.Course {
	return idx.coursesByTerm[termID]
}

// Course looks up a course by id.
func (idx *Index) Course(id int64) (domain.Course, bool) {
	c, ok := idx.courses[id]
	return c, ok
}

// Assessment looks up an assessment by id.
func (idx *Index) Assessment(id int64) (domain.Assessment, bool) {
	a, ok := idx.assessments[id]
	return a, ok
}

// Instructor looks up an instructor by id.
func (idx *Index) Instructor(id int64) (domain.Instructor, bool) {
	i, ok := idx.instructors[id]
	return i, ok
}

// Note looks up a note by id.
func (idx *Index) Note(id int64) (domain.Note, bool) {
	n, ok := idx.notes[id]
	return n, ok
}

// NotesForCourse returns the notes attached to a course, in id order
// for stable display.
func (idx *Index) NotesForCourse(courseID int64) []domain.Note {
	var out []domain.Note
	for _, n := range idx.notes {
		if n.CourseID == courseID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Assessments returns every assessment currently indexed, in id order.
func (idx *Index) Assessments() []domain.Assessment {
	out := make([]domain.Assessment, 0, len(idx.assessments))
	for _, a := range idx.assessments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Complete verifies referential completeness: every course's instructor
// and assessment ids resolve inside the instructor and assessment maps.
func (idx *Index) Complete() error {
	for id, c := range idx.courses {
		if _, ok := idx.instructors[c.InstructorID]; !ok {
			return fmt.Errorf("course %d references missing instructor %d", id, c.InstructorID)
		}
		if _, ok := idx.assessments[c.PerformanceAsmt]; !ok {
			return fmt.Errorf("course %d references missing performance assessment %d", id, c.PerformanceAsmt)
		}
		if _, ok := idx.assessments[c.ObjectiveAsmt]; !ok {
			return fmt.Errorf("course %d references missing objective assessment %d", id, c.ObjectiveAsmt)
		}
	}
	return nil
}
