package reminder

import "fmt"

// Kind tags which edge of which entity type a reminder belongs to.
type Kind int

const (
	CourseStart Kind = iota + 1
	CourseEnd
	AssessmentStart
	AssessmentEnd
)

func (k Kind) String() string {
	switch k {
	case CourseStart:
		return "course-start"
	case CourseEnd:
		return "course-end"
	case AssessmentStart:
		return "assessment-start"
	case AssessmentEnd:
		return "assessment-end"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// kindStride separates the numeric id ranges of the four kinds, so all
// four edges of entities sharing numeric ids never collide. The mapping
// is a bijection for entity ids below the stride, which a personal
// tracker never approaches.
const kindStride = 1000

// Key identifies one notifiable edge of a course or assessment.
type Key struct {
	Kind     Kind
	EntityID int64
}

// ID returns the stable numeric id the notification subsystem keys on.
func (k Key) ID() int64 {
	return int64(k.Kind)*kindStride + k.EntityID
}

// FromID inverts ID, recovering the kind and entity id.
func FromID(id int64) (Key, error) {
	kind := Kind(id / kindStride)
	entity := id % kindStride
	if kind < CourseStart || kind > AssessmentEnd || entity <= 0 {
		return Key{}, fmt.Errorf("reminder id %d is outside the keyed range", id)
	}
	return Key{Kind: kind, EntityID: entity}, nil
}
