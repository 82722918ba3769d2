// Package sync reconciles the in-memory index with the record store.
// Every mutation validates, writes, then reloads the index: fully for
// anything that can move ordering or grouping, narrowly for instructor
// contact edits whose effect is local to one course.
package sync

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/termtrack/internal/domain"
	"github.com/conorfennell/termtrack/internal/index"
	"github.com/conorfennell/termtrack/internal/storage"
)

// Defaults applied when a course is created before the student fills
// anything in, matching what a fresh course page shows.
const (
	defaultCourseName     = "NewCourse"
	defaultCourseDetails  = "Enter Course Details:"
	defaultAsmtDetails    = "Enter details about assessment:"
	defaultTermSpanDays   = 60
	defaultCourseSpanMos  = 4
	defaultAsmtSpanMonths = 3
)

// Engine owns the store and the index and keeps them in step.
type Engine struct {
	db       *storage.DB
	idx      *index.Index
	validate *validator.Validate
	log      *slog.Logger
}

// NewEngine wires a mutation engine over an opened store and index.
func NewEngine(db *storage.DB, idx *index.Index) *Engine {
	return &Engine{
		db:       db,
		idx:      idx,
		validate: validator.New(),
		log:      slog.Default(),
	}
}

// Index exposes the engine's index for read-only collaborators.
func (e *Engine) Index() *index.Index {
	return e.idx
}

// reload rebuilds the whole index after a write.
func (e *Engine) reload() error {
	if err := e.idx.Reload(e.db); err != nil {
		return fmt.Errorf("index reload after write: %w", err)
	}
	return nil
}

// AddTerm inserts a term with the given name and dates.
func (e *Engine) AddTerm(name string, start, end time.Time) (int64, error) {
	if err := checkDates(start, end); err != nil {
		return 0, err
	}
	t := domain.Term{Name: name, Start: start, End: end}
	if err := wrapValidator(e.validate.Struct(t)); err != nil {
		return 0, err
	}
	id, err := e.db.InsertTerm(t)
	if err != nil {
		return 0, err
	}
	e.log.Info("term added", "id", id, "name", name)
	return id, e.reload()
}

// AddSequentialTerm inserts a term named "Term N", probing past any
// name already taken, with a default sixty-day span starting today.
func (e *Engine) AddSequentialTerm() (int64, error) {
	count, err := e.db.CountTerms()
	if err != nil {
		return 0, err
	}
	n := count + 1
	name := fmt.Sprintf("Term %d", n)
	for {
		taken, err := e.db.TermNameExists(name)
		if err != nil {
			return 0, err
		}
		if !taken {
			break
		}
		n++
		name = fmt.Sprintf("Term %d", n)
	}

	now := time.Now()
	return e.AddTerm(name, now, now.AddDate(0, 0, defaultTermSpanDays))
}

// RenameTerm commits a new term name.
func (e *Engine) RenameTerm(termID int64, name string) error {
	t, ok := e.idx.Term(termID)
	if !ok {
		return fmt.Errorf("term %d not found", termID)
	}
	t.Name = name
	if err := wrapValidator(e.validate.Struct(t)); err != nil {
		return err
	}
	if err := e.db.UpdateTerm(t); err != nil {
		return err
	}
	return e.reload()
}

// SetTermDates commits a term's start and end dates. An end date
// earlier than the start date is rejected with the store untouched.
func (e *Engine) SetTermDates(termID int64, start, end time.Time) error {
	t, ok := e.idx.Term(termID)
	if !ok {
		return fmt.Errorf("term %d not found", termID)
	}
	if err := checkDates(start, end); err != nil {
		return err
	}
	t.Start = start
	t.End = end
	if err := e.db.UpdateTerm(t); err != nil {
		return err
	}
	return e.reload()
}

// DeleteTerm removes a term.
func (e *Engine) DeleteTerm(termID int64) error {
	if err := e.db.DeleteTerm(termID); err != nil {
		return err
	}
	e.log.Info("term deleted", "id", termID)
	return e.reload()
}

// AddCourse inserts a default course under a term together with its
// instructor row and its performance and objective assessments, and
// returns the new course id. The student fills the fields in afterwards
// through targeted commits.
func (e *Engine) AddCourse(termID int64) (int64, error) {
	if _, ok := e.idx.Term(termID); !ok {
		return 0, fmt.Errorf("term %d not found", termID)
	}

	instructorID, err := e.db.InsertInstructor(domain.Instructor{
		Name:  "New Instructor",
		Phone: "000-000-0000",
		Email: "instructor@example.edu",
	})
	if err != nil {
		return 0, err
	}

	now := time.Now()
	courseID, err := e.db.InsertCourse(domain.Course{
		TermID:       termID,
		InstructorID: instructorID,
		Name:         defaultCourseName,
		Start:        now,
		End:          now.AddDate(0, defaultCourseSpanMos, 0),
		Status:       domain.StatusPlanToTake,
		Details:      defaultCourseDetails,
	})
	if err != nil {
		return 0, err
	}

	asmtEnd := now.AddDate(0, defaultAsmtSpanMonths, 0)
	perfID, err := e.db.InsertAssessment(domain.Assessment{
		Kind:     domain.Performance,
		Name:     "Performance Assessment",
		Start:    now,
		End:      asmtEnd,
		DueDate:  asmtEnd,
		Details:  defaultAsmtDetails,
		CourseID: courseID,
	})
	if err != nil {
		return 0, err
	}
	objID, err := e.db.InsertAssessment(domain.Assessment{
		Kind:     domain.Objective,
		Name:     "Objective Assessment",
		Start:    now,
		End:      asmtEnd,
		DueDate:  asmtEnd,
		Details:  defaultAsmtDetails,
		CourseID: courseID,
	})
	if err != nil {
		return 0, err
	}

	course, err := e.db.FindCourse(courseID)
	if err != nil {
		return 0, err
	}
	if course == nil {
		return 0, fmt.Errorf("course %d vanished during creation", courseID)
	}
	course.PerformanceAsmt = perfID
	course.ObjectiveAsmt = objID
	if err := e.db.UpdateCourse(*course); err != nil {
		return 0, err
	}

	e.log.Info("course added", "id", courseID, "term", termID)
	return courseID, e.reload()
}

// RenameCourse commits a new course title.
func (e *Engine) RenameCourse(courseID int64, name string) error {
	c, err := e.course(courseID)
	if err != nil {
		return err
	}
	c.Name = name
	if err := wrapValidator(e.validate.Struct(c)); err != nil {
		return err
	}
	if err := e.db.UpdateCourse(c); err != nil {
		return err
	}
	return e.reload()
}

// SetCourseDates commits a course's start and end dates. An end date
// earlier than the start date is rejected with the store untouched.
func (e *Engine) SetCourseDates(courseID int64, start, end time.Time) error {
	c, err := e.course(courseID)
	if err != nil {
		return err
	}
	if err := checkDates(start, end); err != nil {
		return err
	}
	c.Start = start
	c.End = end
	if err := e.db.UpdateCourse(c); err != nil {
		return err
	}
	return e.reload()
}

// SetCourseStatus commits a course's enrollment status.
func (e *Engine) SetCourseStatus(courseID int64, status domain.CourseStatus) error {
	c, err := e.course(courseID)
	if err != nil {
		return err
	}
	if !status.Valid() {
		return NewValidationError(
			fmt.Sprintf("unknown course status %q", status),
			FieldError{Field: "status", Error: "must be one of the recognised statuses"},
		)
	}
	c.Status = status
	if err := e.db.UpdateCourse(c); err != nil {
		return err
	}
	return e.reload()
}

// SetCourseDetails commits a course's freeform details text.
func (e *Engine) SetCourseDetails(courseID int64, details string) error {
	c, err := e.course(courseID)
	if err != nil {
		return err
	}
	c.Details = details
	if err := e.db.UpdateCourse(c); err != nil {
		return err
	}
	return e.reload()
}

// SetCourseNotify commits the reminder lead times for a course's start
// and end edges. Zero disables the edge's reminder.
func (e *Engine) SetCourseNotify(courseID int64, startDays, endDays int) error {
	c, err := e.course(courseID)
	if err != nil {
		return err
	}
	if err := checkNotifyDays(startDays, endDays); err != nil {
		return err
	}
	c.StartNotifyDays = startDays
	c.EndNotifyDays = endDays
	if err := e.db.UpdateCourse(c); err != nil {
		return err
	}
	return e.reload()
}

// DeleteCourse removes a course.
func (e *Engine) DeleteCourse(courseID int64) error {
	if err := e.db.DeleteCourse(courseID); err != nil {
		return err
	}
	e.log.Info("course deleted", "id", courseID)
	return e.reload()
}

// UpdateAssessment commits a full assessment row.
func (e *Engine) UpdateAssessment(a domain.Assessment) error {
	if _, ok := e.idx.Assessment(a.ID); !ok {
		return fmt.Errorf("assessment %d not found", a.ID)
	}
	if err := checkDates(a.Start, a.End); err != nil {
		return err
	}
	if err := wrapValidator(e.validate.Struct(a)); err != nil {
		return err
	}
	if err := e.db.UpdateAssessment(a); err != nil {
		return err
	}
	return e.reload()
}

// SetAssessmentNotify commits the reminder lead times for an
// assessment's start and end edges.
func (e *Engine) SetAssessmentNotify(asmtID int64, startDays, endDays int) error {
	a, ok := e.idx.Assessment(asmtID)
	if !ok {
		return fmt.Errorf("assessment %d not found", asmtID)
	}
	if err := checkNotifyDays(startDays, endDays); err != nil {
		return err
	}
	a.StartNotifyDays = startDays
	a.EndNotifyDays = endDays
	if err := e.db.UpdateAssessment(a); err != nil {
		return err
	}
	return e.reload()
}

// SetInstructorContact commits new instructor contact details for a
// course. A fresh instructor row is always inserted and the course
// repointed at it, so a row possibly shared by another course is never
// mutated in place. Only the edited course and the new instructor are
// reloaded; the rest of the index is untouched.
func (e *Engine) SetInstructorContact(courseID int64, name, phone, email string) error {
	c, err := e.course(courseID)
	if err != nil {
		return err
	}
	instructor := domain.Instructor{Name: name, Phone: phone, Email: email}
	if err := wrapValidator(e.validate.Struct(instructor)); err != nil {
		return err
	}

	newID, err := e.db.InsertInstructor(instructor)
	if err != nil {
		return err
	}
	c.InstructorID = newID
	if err := e.db.UpdateCourse(c); err != nil {
		return err
	}

	e.log.Info("instructor repointed", "course", courseID, "instructor", newID)
	if err := e.idx.NarrowReload(e.db, courseID); err != nil {
		return fmt.Errorf("narrow reload after instructor edit: %w", err)
	}
	return nil
}

// AddNote attaches a note to a course.
func (e *Engine) AddNote(courseID int64, content string) (int64, error) {
	if _, err := e.course(courseID); err != nil {
		return 0, err
	}
	n := domain.Note{CourseID: courseID, Content: content}
	if err := wrapValidator(e.validate.Struct(n)); err != nil {
		return 0, err
	}
	id, err := e.db.InsertNote(n)
	if err != nil {
		return 0, err
	}
	return id, e.reload()
}

// SetNoteContent commits a note's text.
func (e *Engine) SetNoteContent(noteID int64, content string) error {
	n, ok := e.idx.Note(noteID)
	if !ok {
		return fmt.Errorf("note %d not found", noteID)
	}
	n.Content = content
	if err := wrapValidator(e.validate.Struct(n)); err != nil {
		return err
	}
	if err := e.db.UpdateNote(n); err != nil {
		return err
	}
	return e.reload()
}

// DeleteNote removes a note.
func (e *Engine) DeleteNote(noteID int64) error {
	if err := e.db.DeleteNote(noteID); err != nil {
		return err
	}
	return e.reload()
}

func (e *Engine) course(courseID int64) (domain.Course, error) {
	c, ok := e.idx.Course(courseID)
	if !ok {
		return domain.Course{}, fmt.Errorf("course %d not found", courseID)
	}
	return c, nil
}

// checkDates rejects an end date earlier than the start date.
func checkDates(start, end time.Time) error {
	if end.Before(start) {
		return NewValidationError(
			"end date must not precede start date",
			FieldError{Field: "end", Error: "earlier than start date"},
		)
	}
	return nil
}

// checkNotifyDays rejects lead times outside the offered choices.
func checkNotifyDays(startDays, endDays int) error {
	if !domain.ValidNotifyDays(startDays) || !domain.ValidNotifyDays(endDays) {
		return NewValidationError(
			"reminder lead time is not one of the offered choices",
			FieldError{Field: "notifyDays", Error: "must be one of the offered day counts"},
		)
	}
	return nil
}
