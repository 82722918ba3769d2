package sync

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/termtrack/internal/domain"
	"github.com/conorfennell/termtrack/internal/index"
	"github.com/conorfennell/termtrack/internal/reminder"
	"github.com/conorfennell/termtrack/internal/storage"
)

func setup(t *testing.T) (*Engine, *storage.DB, *index.Index) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "setup() failed")
	t.Cleanup(func() { db.Close() })

	idx := index.New()
	require.NoError(t, idx.Reload(db))
	return NewEngine(db, idx), db, idx
}

func TestAddTermRejectsBadDates(t *testing.T) {
	engine, db, _ := setup(t)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, err := engine.AddTerm("Term 1", start, start.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.True(t, IsValidation(err), "want a validation error, got %v", err)

	count, err := db.CountTerms()
	require.NoError(t, err)
	assert.Zero(t, count, "rejected mutation must leave the store untouched")
}

func TestAddSequentialTermProbesPastTakenNames(t *testing.T) {
	engine, _, idx := setup(t)

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	_, err := engine.AddTerm("Term 2", start, start.AddDate(0, 6, 0))
	require.NoError(t, err)

	// One term exists, so the sequential name starts at "Term 2",
	// which is taken, and lands on "Term 3".
	id, err := engine.AddSequentialTerm()
	require.NoError(t, err)
	term, ok := idx.Term(id)
	require.True(t, ok)
	assert.Equal(t, "Term 3", term.Name)
}

func TestSetTermDatesRejectionLeavesIndexStale(t *testing.T) {
	engine, _, idx := setup(t)

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 6, 0)
	termID, err := engine.AddTerm("Term 1", start, end)
	require.NoError(t, err)

	err = engine.SetTermDates(termID, start, start.AddDate(0, 0, -7))
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	term, ok := idx.Term(termID)
	require.True(t, ok)
	assert.Equal(t, end.Format(time.DateOnly), term.End.Format(time.DateOnly))
}

func TestAddCourseCreatesAssessmentsAndInstructor(t *testing.T) {
	engine, _, idx := setup(t)

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	termID, err := engine.AddTerm("Term 1", start, start.AddDate(0, 6, 0))
	require.NoError(t, err)

	courseID, err := engine.AddCourse(termID)
	require.NoError(t, err)

	c, ok := idx.Course(courseID)
	require.True(t, ok)
	assert.Equal(t, "NewCourse", c.Name)
	assert.Equal(t, domain.StatusPlanToTake, c.Status)

	perf, ok := idx.Assessment(c.PerformanceAsmt)
	require.True(t, ok, "performance assessment must be indexed")
	assert.Equal(t, domain.Performance, perf.Kind)
	assert.Equal(t, courseID, perf.CourseID)
	assert.Equal(t, perf.End.Format(time.DateOnly), perf.DueDate.Format(time.DateOnly))

	obj, ok := idx.Assessment(c.ObjectiveAsmt)
	require.True(t, ok, "objective assessment must be indexed")
	assert.Equal(t, domain.Objective, obj.Kind)

	_, ok = idx.Instructor(c.InstructorID)
	assert.True(t, ok, "instructor must be indexed")
	assert.NoError(t, idx.Complete())
}

func TestSetCourseDatesRejectsEndBeforeStart(t *testing.T) {
	engine, db, idx := setup(t)

	start := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	termID, err := engine.AddTerm("Term 1", start, start.AddDate(0, 6, 0))
	require.NoError(t, err)
	courseID, err := engine.AddCourse(termID)
	require.NoError(t, err)
	require.NoError(t, engine.SetCourseDates(courseID, start, start.AddDate(0, 4, 0)))

	err = engine.SetCourseDates(courseID, start, start.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	stored, err := db.FindCourse(courseID)
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 4, 0).Format(time.DateOnly), stored.End.Format(time.DateOnly))
	indexed, _ := idx.Course(courseID)
	assert.Equal(t, stored.End.Format(time.DateOnly), indexed.End.Format(time.DateOnly))
}

func TestRenameCourseRejectsEmptyTitle(t *testing.T) {
	engine, _, idx := setup(t)

	start := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	termID, err := engine.AddTerm("Term 1", start, start.AddDate(0, 6, 0))
	require.NoError(t, err)
	courseID, err := engine.AddCourse(termID)
	require.NoError(t, err)

	err = engine.RenameCourse(courseID, "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	c, _ := idx.Course(courseID)
	assert.Equal(t, "NewCourse", c.Name)
}

func TestInstructorCopyOnWrite(t *testing.T) {
	engine, db, idx := setup(t)

	start := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	termID, err := engine.AddTerm("Term 1", start, start.AddDate(0, 6, 0))
	require.NoError(t, err)
	courseID, err := engine.AddCourse(termID)
	require.NoError(t, err)

	before, _ := idx.Course(courseID)
	originalID := before.InstructorID
	original, err := db.FindInstructor(originalID)
	require.NoError(t, err)
	require.NotNil(t, original)

	require.NoError(t, engine.SetInstructorContact(courseID, "Anika Patel", "555-123-4567", "anika.patel@strimeuniversity.edu"))

	after, _ := idx.Course(courseID)
	assert.NotEqual(t, originalID, after.InstructorID, "course must point at a new instructor row")

	// The original row is unchanged; contact edits are append-only.
	untouched, err := db.FindInstructor(originalID)
	require.NoError(t, err)
	require.NotNil(t, untouched)
	assert.Equal(t, original.Email, untouched.Email)

	repointed, ok := idx.Instructor(after.InstructorID)
	require.True(t, ok)
	assert.Equal(t, "anika.patel@strimeuniversity.edu", repointed.Email)
}

func TestSetInstructorContactValidatesFields(t *testing.T) {
	engine, _, idx := setup(t)

	start := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	termID, err := engine.AddTerm("Term 1", start, start.AddDate(0, 6, 0))
	require.NoError(t, err)
	courseID, err := engine.AddCourse(termID)
	require.NoError(t, err)
	before, _ := idx.Course(courseID)

	err = engine.SetInstructorContact(courseID, "Anika Patel", "", "anika.patel@strimeuniversity.edu")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	err = engine.SetInstructorContact(courseID, "Anika Patel", "555-123-4567", "not-an-email")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	after, _ := idx.Course(courseID)
	assert.Equal(t, before.InstructorID, after.InstructorID)
}

func TestNotesLifecycle(t *testing.T) {
	engine, _, idx := setup(t)

	start := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	termID, err := engine.AddTerm("Term 1", start, start.AddDate(0, 6, 0))
	require.NoError(t, err)
	courseID, err := engine.AddCourse(termID)
	require.NoError(t, err)

	_, err = engine.AddNote(courseID, "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	noteID, err := engine.AddNote(courseID, "review chapter 3")
	require.NoError(t, err)
	require.Len(t, idx.NotesForCourse(courseID), 1)

	require.NoError(t, engine.SetNoteContent(noteID, "review chapters 3 and 4"))
	n, ok := idx.Note(noteID)
	require.True(t, ok)
	assert.Equal(t, "review chapters 3 and 4", n.Content)

	require.NoError(t, engine.DeleteNote(noteID))
	assert.Empty(t, idx.NotesForCourse(courseID))
}

func TestSetCourseStatusRejectsUnknownValue(t *testing.T) {
	engine, _, idx := setup(t)

	start := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	termID, err := engine.AddTerm("Term 1", start, start.AddDate(0, 6, 0))
	require.NoError(t, err)
	courseID, err := engine.AddCourse(termID)
	require.NoError(t, err)

	err = engine.SetCourseStatus(courseID, domain.CourseStatus("Paused"))
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	require.NoError(t, engine.SetCourseStatus(courseID, domain.StatusInProgress))
	c, _ := idx.Course(courseID)
	assert.Equal(t, domain.StatusInProgress, c.Status)
}

// alertRecorder collects foreground alerts for the end-to-end flow.
type alertRecorder struct {
	alerts []reminder.Alert
}

func (a *alertRecorder) Alert(title, body string) {
	a.alerts = append(a.alerts, reminder.Alert{Title: title, Body: body})
}

// memNotifier is a minimal in-memory notification subsystem.
type memNotifier struct {
	pending map[int64]reminder.Notification
}

func (m *memNotifier) Pending(ctx context.Context) ([]reminder.Notification, error) {
	out := make([]reminder.Notification, 0, len(m.pending))
	for _, n := range m.pending {
		out = append(out, n)
	}
	return out, nil
}

func (m *memNotifier) Enabled(ctx context.Context) (bool, error) { return true, nil }

func (m *memNotifier) RequestPermission(ctx context.Context) error { return nil }

func (m *memNotifier) Show(ctx context.Context, n reminder.Notification) error {
	m.pending[n.ID] = n
	return nil
}

func (m *memNotifier) Cancel(ctx context.Context, id int64) error {
	delete(m.pending, id)
	return nil
}

func TestEndToEndScanAfterMutations(t *testing.T) {
	engine, _, idx := setup(t)

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	termID, err := engine.AddTerm("Term 1", start, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	courseID, err := engine.AddCourse(termID)
	require.NoError(t, err)
	courseStart := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, engine.SetCourseDates(courseID, courseStart, courseStart.AddDate(0, 4, 0)))
	require.NoError(t, engine.SetCourseNotify(courseID, 7, 0))

	notifier := &memNotifier{pending: make(map[int64]reminder.Notification)}
	recorder := &alertRecorder{}
	now := time.Date(2025, 1, 25, 10, 30, 0, 0, time.UTC)

	result, err := reminder.NewScheduler(notifier, recorder).Scan(context.Background(), now, idx)
	require.NoError(t, err)

	require.Len(t, result.Scheduled, 1, "one reminder for the course start edge")
	n := result.Scheduled[0]
	assert.Equal(t, reminder.Key{Kind: reminder.CourseStart, EntityID: courseID}.ID(), n.ID)
	assert.Equal(t, "2025-01-25", n.FireAt.Format(time.DateOnly))

	require.Len(t, recorder.alerts, 1, "today is the fire date, so an alert fires as well")
	assert.Equal(t, "NewCourse Starting soon", recorder.alerts[0].Title)
}
