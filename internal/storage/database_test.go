package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/termtrack/internal/domain"
)

func setup(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "setup() failed")
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTermRoundTrip(t *testing.T) {
	db := setup(t)

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	id, err := db.InsertTerm(domain.Term{Name: "Term 1", Start: start, End: start.AddDate(0, 6, 0)})
	require.NoError(t, err)
	assert.NotZero(t, id)

	terms, err := db.GetAllTerms()
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "Term 1", terms[0].Name)
	assert.Equal(t, id, terms[0].ID)

	terms[0].Name = "Spring"
	require.NoError(t, db.UpdateTerm(terms[0]))

	count, err := db.CountTerms()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	taken, err := db.TermNameExists("Spring")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = db.TermNameExists("Term 1")
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, db.DeleteTerm(id))
	count, err = db.CountTerms()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCoursesByTermPreservesInsertOrder(t *testing.T) {
	db := setup(t)

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	termID, err := db.InsertTerm(domain.Term{Name: "Term 1", Start: start, End: start.AddDate(0, 6, 0)})
	require.NoError(t, err)
	otherID, err := db.InsertTerm(domain.Term{Name: "Term 2", Start: start, End: start.AddDate(0, 6, 0)})
	require.NoError(t, err)

	names := []string{"Software 1", "Software 2", "Data Foundations"}
	for _, name := range names {
		_, err := db.InsertCourse(domain.Course{
			TermID: termID,
			Name:   name,
			Start:  start,
			End:    start.AddDate(0, 4, 0),
			Status: domain.StatusInProgress,
		})
		require.NoError(t, err)
	}
	_, err = db.InsertCourse(domain.Course{
		TermID: otherID,
		Name:   "Advanced Data",
		Start:  start,
		End:    start.AddDate(0, 4, 0),
		Status: domain.StatusPlanToTake,
	})
	require.NoError(t, err)

	courses, err := db.CoursesByTerm(termID)
	require.NoError(t, err)
	require.Len(t, courses, 3)
	for i, c := range courses {
		assert.Equal(t, names[i], c.Name)
		assert.Equal(t, termID, c.TermID)
	}
}

func TestFindCourseNotFoundIsNil(t *testing.T) {
	db := setup(t)

	c, err := db.FindCourse(42)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestSearchCoursesByNameIsCaseInsensitive(t *testing.T) {
	db := setup(t)

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	termID, err := db.InsertTerm(domain.Term{Name: "Term 1", Start: start, End: start.AddDate(0, 6, 0)})
	require.NoError(t, err)
	for _, name := range []string{"Python Programming", "C++ Programming", "Data Foundations"} {
		_, err := db.InsertCourse(domain.Course{
			TermID: termID,
			Name:   name,
			Start:  start,
			End:    start.AddDate(0, 4, 0),
			Status: domain.StatusInProgress,
		})
		require.NoError(t, err)
	}

	matches, err := db.SearchCoursesByName("PROGRAM")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = db.SearchCoursesByName("foundations")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Data Foundations", matches[0].Name)

	matches, err = db.SearchCoursesByName("calculus")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCourseUpdateOverwritesAllColumns(t *testing.T) {
	db := setup(t)

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	termID, err := db.InsertTerm(domain.Term{Name: "Term 1", Start: start, End: start.AddDate(0, 6, 0)})
	require.NoError(t, err)
	id, err := db.InsertCourse(domain.Course{
		TermID: termID,
		Name:   "NewCourse",
		Start:  start,
		End:    start.AddDate(0, 4, 0),
		Status: domain.StatusPlanToTake,
	})
	require.NoError(t, err)

	c, err := db.FindCourse(id)
	require.NoError(t, err)
	require.NotNil(t, c)

	c.Name = "Software 1"
	c.Status = domain.StatusInProgress
	c.Details = "rewritten"
	c.StartNotifyDays = 7
	c.EndNotifyDays = 14
	require.NoError(t, db.UpdateCourse(*c))

	got, err := db.FindCourse(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Software 1", got.Name)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, "rewritten", got.Details)
	assert.Equal(t, 7, got.StartNotifyDays)
	assert.Equal(t, 14, got.EndNotifyDays)
}

func TestAssessmentAndInstructorAndNoteCRUD(t *testing.T) {
	db := setup(t)

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	asmtID, err := db.InsertAssessment(domain.Assessment{
		Kind:     domain.Performance,
		Name:     "Performance Assessment #1",
		Start:    start,
		End:      start.AddDate(0, 3, 0),
		DueDate:  start.AddDate(0, 3, 0),
		CourseID: 1,
	})
	require.NoError(t, err)

	a, err := db.FindAssessment(asmtID)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, domain.Performance, a.Kind)

	a.EndNotifyDays = 5
	require.NoError(t, db.UpdateAssessment(*a))
	got, err := db.FindAssessment(asmtID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.EndNotifyDays)

	missing, err := db.FindAssessment(999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	instrID, err := db.InsertInstructor(domain.Instructor{
		Name:  "Anika Patel",
		Phone: "555-123-4567",
		Email: "anika.patel@strimeuniversity.edu",
	})
	require.NoError(t, err)
	i, err := db.FindInstructor(instrID)
	require.NoError(t, err)
	require.NotNil(t, i)
	assert.Equal(t, "Anika Patel", i.Name)

	noteID, err := db.InsertNote(domain.Note{CourseID: 1, Content: "Note 1"})
	require.NoError(t, err)
	notes, err := db.GetAllNotes()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Note 1", notes[0].Content)

	notes[0].Content = "edited"
	require.NoError(t, db.UpdateNote(notes[0]))
	notes, err = db.GetAllNotes()
	require.NoError(t, err)
	assert.Equal(t, "edited", notes[0].Content)

	require.NoError(t, db.DeleteNote(noteID))
	notes, err = db.GetAllNotes()
	require.NoError(t, err)
	assert.Empty(t, notes)
}
