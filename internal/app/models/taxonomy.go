package models

// Subject is a configured curriculum subject. ExerciseOrganized subjects are
// browsed chapter -> exercise -> question; all others chapter -> question.
type Subject struct {
	Name              string `json:"name"`
	ExerciseOrganized bool   `json:"exerciseOrganized"`
}

// Taxonomy is the ordered set of configured subjects
type Taxonomy struct {
	subjects []Subject
	byName   map[string]Subject
}

// NewTaxonomy builds a Taxonomy keeping the given subject order
func NewTaxonomy(subjects []Subject) *Taxonomy {
	t := &Taxonomy{
		subjects: make([]Subject, 0, len(subjects)),
		byName:   make(map[string]Subject, len(subjects)),
	}
	for _, s := range subjects {
		if _, dup := t.byName[s.Name]; dup {
			continue
		}
		t.subjects = append(t.subjects, s)
		t.byName[s.Name] = s
	}
	return t
}

// Subjects returns a copy of the configured subjects
func (t *Taxonomy) Subjects() []Subject {
	out := make([]Subject, len(t.subjects))
	copy(out, t.subjects)
	return out
}

// Lookup returns the subject with the given name
func (t *Taxonomy) Lookup(name string) (Subject, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// IsExerciseOrganized reports whether the named subject groups its chapters by
// exercise. Unknown subjects are not.
func (t *Taxonomy) IsExerciseOrganized(name string) bool {
	return t.byName[name].ExerciseOrganized
}
