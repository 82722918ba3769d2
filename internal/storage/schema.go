package storage

const schema = `
-- The 'terms' table holds the academic periods courses are grouped under.
CREATE TABLE IF NOT EXISTS terms (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    start DATETIME NOT NULL,
    end DATETIME NOT NULL
);

-- The 'courses' table holds one row per enrollment. Each course points
-- at its term, its current instructor row, and its two assessments.
CREATE TABLE IF NOT EXISTS courses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    term_id INTEGER NOT NULL,
    instructor_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    start DATETIME NOT NULL,
    end DATETIME NOT NULL,
    status TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    performance_asmt INTEGER NOT NULL DEFAULT 0,
    objective_asmt INTEGER NOT NULL DEFAULT 0,
    start_notify_days INTEGER NOT NULL DEFAULT 0,
    end_notify_days INTEGER NOT NULL DEFAULT 0,

    FOREIGN KEY(term_id) REFERENCES terms(id)
);

-- The 'assessments' table holds the graded deliverables.
-- kind is 1 for performance, 0 for objective.
CREATE TABLE IF NOT EXISTS assessments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind INTEGER NOT NULL,
    name TEXT NOT NULL,
    start DATETIME NOT NULL,
    end DATETIME NOT NULL,
    due_date DATETIME NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    course_id INTEGER NOT NULL,
    start_notify_days INTEGER NOT NULL DEFAULT 0,
    end_notify_days INTEGER NOT NULL DEFAULT 0,

    FOREIGN KEY(course_id) REFERENCES courses(id)
);

-- Instructor rows are append-only: contact edits insert a fresh row
-- and repoint the owning course rather than updating in place.
CREATE TABLE IF NOT EXISTS instructors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    email TEXT NOT NULL
);

-- The 'notes' table holds free text attached to a course.
CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    course_id INTEGER NOT NULL,
    content TEXT NOT NULL,

    FOREIGN KEY(course_id) REFERENCES courses(id)
);
`
