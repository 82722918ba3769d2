package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/conorfennell/termtrack/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB represents a wrapper around the SQL database connection.
// The app has a single local writer, so one connection is held for the
// life of the process with no pooling or cross-writer coordination.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// InsertTerm inserts a new term and returns its assigned id.
func (db *DB) InsertTerm(t domain.Term) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO terms (name, start, end)
		VALUES (?, ?, ?)
	`, t.Name, t.Start, t.End)
	if err != nil {
		return 0, fmt.Errorf("failed to insert term %q: %w", t.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for term %q: %w", t.Name, err)
	}
	return id, nil
}

// UpdateTerm overwrites every column of an existing term row.
func (db *DB) UpdateTerm(t domain.Term) error {
	_, err := db.conn.Exec(`
		UPDATE terms
		SET name = ?, start = ?, end = ?
		WHERE id = ?
	`, t.Name, t.Start, t.End, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update term %d: %w", t.ID, err)
	}
	return nil
}

// DeleteTerm removes a term row by its id.
func (db *DB) DeleteTerm(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM terms WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete term %d: %w", id, err)
	}
	return nil
}

// GetAllTerms retrieves every term in insertion order.
func (db *DB) GetAllTerms() ([]domain.Term, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, start, end
		FROM terms
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all terms: %w", err)
	}
	defer rows.Close()

	var terms []domain.Term
	for rows.Next() {
		var t domain.Term
		if err := rows.Scan(&t.ID, &t.Name, &t.Start, &t.End); err != nil {
			return nil, fmt.Errorf("failed to scan term row: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// CountTerms reports how many terms exist.
func (db *DB) CountTerms() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM terms`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count terms: %w", err)
	}
	return n, nil
}

// TermNameExists reports whether any term already carries the given name.
func (db *DB) TermNameExists(name string) (bool, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM terms WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check term name %q: %w", name, err)
	}
	return n > 0, nil
}

const courseColumns = `id, term_id, instructor_id, name, start, end, status, details,
		performance_asmt, objective_asmt, start_notify_days, end_notify_days`

func scanCourse(row interface{ Scan(...any) error }) (domain.Course, error) {
	var c domain.Course
	err := row.Scan(
		&c.ID,
		&c.TermID,
		&c.InstructorID,
		&c.Name,
		&c.Start,
		&c.End,
		&c.Status,
		&c.Details,
		&c.PerformanceAsmt,
		&c.ObjectiveAsmt,
		&c.StartNotifyDays,
		&c.EndNotifyDays,
	)
	return c, err
}

// InsertCourse inserts a new course and returns its assigned id.
func (db *DB) InsertCourse(c domain.Course) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO courses (term_id, instructor_id, name, start, end, status, details,
			performance_asmt, objective_asmt, start_notify_days, end_notify_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.TermID,
		c.InstructorID,
		c.Name,
		c.Start,
		c.End,
		c.Status,
		c.Details,
		c.PerformanceAsmt,
		c.ObjectiveAsmt,
		c.StartNotifyDays,
		c.EndNotifyDays,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert course %q: %w", c.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for course %q: %w", c.Name, err)
	}
	return id, nil
}

// UpdateCourse overwrites every column of an existing course row.
func (db *DB) UpdateCourse(c domain.Course) error {
	_, err := db.conn.Exec(`
		UPDATE courses
		SET term_id = ?, instructor_id = ?, name = ?, start = ?, end = ?, status = ?,
			details = ?, performance_asmt = ?, objective_asmt = ?,
			start_notify_days = ?, end_notify_days = ?
		WHERE id = ?
	`,
		c.TermID,
		c.InstructorID,
		c.Name,
		c.Start,
		c.End,
		c.Status,
		c.Details,
		c.PerformanceAsmt,
		c.ObjectiveAsmt,
		c.StartNotifyDays,
		c.EndNotifyDays,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course %d: %w", c.ID, err)
	}
	return nil
}

// DeleteCourse removes a course row by its id.
func (db *DB) DeleteCourse(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM courses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete course %d: %w", id, err)
	}
	return nil
}

// FindCourse retrieves a course by id, returning nil when it does not exist.
func (db *DB) FindCourse(id int64) (*domain.Course, error) {
	row := db.conn.QueryRow(`SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	c, err := scanCourse(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Course not found
		}
		return nil, fmt.Errorf("failed to find course %d: %w", id, err)
	}
	return &c, nil
}

// CoursesByTerm retrieves every course belonging to a term, in insertion order.
func (db *DB) CoursesByTerm(termID int64) ([]domain.Course, error) {
	rows, err := db.conn.Query(`SELECT `+courseColumns+` FROM courses WHERE term_id = ?`, termID)
	if err != nil {
		return nil, fmt.Errorf("failed to get courses for term %d: %w", termID, err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course row for term %d: %w", termID, err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// SearchCoursesByName retrieves courses whose name contains the given
// text, case-insensitively.
func (db *DB) SearchCoursesByName(text string) ([]domain.Course, error) {
	rows, err := db.conn.Query(
		`SELECT `+courseColumns+` FROM courses WHERE LOWER(name) LIKE ?`,
		"%"+strings.ToLower(text)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search courses for %q: %w", text, err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course row for search %q: %w", text, err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

const assessmentColumns = `id, kind, name, start, end, due_date, details, course_id,
		start_notify_days, end_notify_days`

func scanAssessment(row interface{ Scan(...any) error }) (domain.Assessment, error) {
	var a domain.Assessment
	err := row.Scan(
		&a.ID,
		&a.Kind,
		&a.Name,
		&a.Start,
		&a.End,
		&a.DueDate,
		&a.Details,
		&a.CourseID,
		&a.StartNotifyDays,
		&a.EndNotifyDays,
	)
	return a, err
}

// InsertAssessment inserts a new assessment and returns its assigned id.
func (db *DB) InsertAssessment(a domain.Assessment) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO assessments (kind, name, start, end, due_date, details, course_id,
			start_notify_days, end_notify_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.Kind,
		a.Name,
		a.Start,
		a.End,
		a.DueDate,
		a.Details,
		a.CourseID,
		a.StartNotifyDays,
		a.EndNotifyDays,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert assessment %q: %w", a.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for assessment %q: %w", a.Name, err)
	}
	return id, nil
}

// UpdateAssessment overwrites every column of an existing assessment row.
func (db *DB) UpdateAssessment(a domain.Assessment) error {
	_, err := db.conn.Exec(`
		UPDATE assessments
		SET kind = ?, name = ?, start = ?, end = ?, due_date = ?, details = ?,
			course_id = ?, start_notify_days = ?, end_notify_days = ?
		WHERE id = ?
	`,
		a.Kind,
		a.Name,
		a.Start,
		a.End,
		a.DueDate,
		a.Details,
		a.CourseID,
		a.StartNotifyDays,
		a.EndNotifyDays,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update assessment %d: %w", a.ID, err)
	}
	return nil
}

// FindAssessment retrieves an assessment by id, returning nil when it
// does not exist.
func (db *DB) FindAssessment(id int64) (*domain.Assessment, error) {
	row := db.conn.QueryRow(`SELECT `+assessmentColumns+` FROM assessments WHERE id = ?`, id)
	a, err := scanAssessment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Assessment not found
		}
		return nil, fmt.Errorf("failed to find assessment %d: %w", id, err)
	}
	return &a, nil
}

// GetAllAssessments retrieves every assessment in insertion order.
func (db *DB) GetAllAssessments() ([]domain.Assessment, error) {
	rows, err := db.conn.Query(`SELECT ` + assessmentColumns + ` FROM assessments`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all assessments: %w", err)
	}
	defer rows.Close()

	var asmts []domain.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment row: %w", err)
		}
		asmts = append(asmts, a)
	}
	return asmts, rows.Err()
}

// InsertInstructor inserts a new instructor row and returns its assigned id.
func (db *DB) InsertInstructor(i domain.Instructor) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO instructors (name, phone, email)
		VALUES (?, ?, ?)
	`, i.Name, i.Phone, i.Email)
	if err != nil {
		return 0, fmt.Errorf("failed to insert instructor %q: %w", i.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for instructor %q: %w", i.Name, err)
	}
	return id, nil
}

// FindInstructor retrieves an instructor by id, returning nil when it
// does not exist.
func (db *DB) FindInstructor(id int64) (*domain.Instructor, error) {
	var i domain.Instructor
	row := db.conn.QueryRow(`SELECT id, name, phone, email FROM instructors WHERE id = ?`, id)
	if err := row.Scan(&i.ID, &i.Name, &i.Phone, &i.Email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Instructor not found
		}
		return nil, fmt.Errorf("failed to find instructor %d: %w", id, err)
	}
	return &i, nil
}

// GetAllInstructors retrieves every instructor row in insertion order.
func (db *DB) GetAllInstructors() ([]domain.Instructor, error) {
	rows, err := db.conn.Query(`SELECT id, name, phone, email FROM instructors`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all instructors: %w", err)
	}
	defer rows.Close()

	var instructors []domain.Instructor
	for rows.Next() {
		var i domain.Instructor
		if err := rows.Scan(&i.ID, &i.Name, &i.Phone, &i.Email); err != nil {
			return nil, fmt.Errorf("failed to scan instructor row: %w", err)
		}
		instructors = append(instructors, i)
	}
	return instructors, rows.Err()
}

// InsertNote inserts a new note and returns its assigned id.
func (db *DB) InsertNote(n domain.Note) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO notes (course_id, content)
		VALUES (?, ?)
	`, n.CourseID, n.Content)
	if err != nil {
		return 0, fmt.Errorf("failed to insert note for course %d: %w", n.CourseID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for note: %w", err)
	}
	return id, nil
}

// UpdateNote overwrites the content of an existing note row.
func (db *DB) UpdateNote(n domain.Note) error {
	_, err := db.conn.Exec(`
		UPDATE notes
		SET course_id = ?, content = ?
		WHERE id = ?
	`, n.CourseID, n.Content, n.ID)
	if err != nil {
		return fmt.Errorf("failed to update note %d: %w", n.ID, err)
	}
	return nil
}

// DeleteNote removes a note row by its id.
func (db *DB) DeleteNote(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete note %d: %w", id, err)
	}
	return nil
}

// GetAllNotes retrieves every note in insertion order.
func (db *DB) GetAllNotes() ([]domain.Note, error) {
	rows, err := db.conn.Query(`SELECT id, course_id, content FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.CourseID, &n.Content); err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
