package tracker

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/campusgrid/gradepoint/internal/grading"
)

type memoryStore struct {
	mu         sync.RWMutex
	scale      map[string]ScaleEntry // entryID -> entry
	courses    map[string]Course     // courseID -> course
	components map[string]Component  // componentID -> component
}

// NewInMemoryStore backs the Store interface with plain maps. Used in tests
// and throwaway dev setups; the SQL store is the real one.
func NewInMemoryStore() Store {
	return &memoryStore{
		scale:      map[string]ScaleEntry{},
		courses:    map[string]Course{},
		components: map[string]Component{},
	}
}

func (m *memoryStore) ListScale(_ context.Context, userID string) ([]ScaleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scaleEntries(userID), nil
}

func (m *memoryStore) scaleEntries(userID string) []ScaleEntry {
	sc := grading.Scale{}
	byLetter := map[string]ScaleEntry{}
	for _, e := range m.scale {
		if e.UserID == userID {
			sc[e.Letter] = e.Point
			byLetter[e.Letter] = e
		}
	}
	out := make([]ScaleEntry, 0, len(byLetter))
	for _, se := range sc.Entries() {
		out = append(out, byLetter[se.Letter])
	}
	return out
}

func (m *memoryStore) PutScaleEntry(_ context.Context, userID, letter string, point float64) (ScaleEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	letter = grading.NormalizeLetter(letter)
	for id, e := range m.scale {
		if e.UserID == userID && e.Letter == letter {
			e.Point = point
			m.scale[id] = e
			return e, nil
		}
	}
	e := ScaleEntry{ID: uuid.NewString(), UserID: userID, Letter: letter, Point: point}
	m.scale[e.ID] = e
	return e, nil
}

func (m *memoryStore) DeleteScaleEntry(_ context.Context, userID, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.scale[entryID]
	if !ok || e.UserID != userID {
		return ErrNotFound
	}
	delete(m.scale, entryID)
	return nil
}

func (m *memoryStore) SeedDefaultScale(ctx context.Context, userID string) error {
	for _, e := range grading.Default().Entries() {
		if _, err := m.PutScaleEntry(ctx, userID, e.Letter, e.Point); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryStore) Scale(_ context.Context, userID string) (grading.Scale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scaleLocked(userID), nil
}

func (m *memoryStore) scaleLocked(userID string) grading.Scale {
	sc := grading.Scale{}
	for _, e := range m.scale {
		if e.UserID == userID {
			sc[e.Letter] = e.Point
		}
	}
	return sc
}

func (m *memoryStore) ListCourses(_ context.Context, userID string) ([]CourseView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sc := m.scaleLocked(userID)
	out := []CourseView{}
	for _, c := range m.courses {
		if c.UserID != userID {
			continue
		}
		out = append(out, m.courseViewLocked(c, sc))
	}
	return out, nil
}

func (m *memoryStore) courseViewLocked(c Course, sc grading.Scale) CourseView {
	v := CourseView{Course: c}
	if c.Method == grading.MethodComponents {
		g, ok := grading.ResolveComponents(m.componentInputsLocked(c.ID), sc)
		if ok {
			v.Percentage = &g.Percentage
			v.DisplayLetter = &g.Letter
			v.DisplayPoint = &g.Point
		}
		return v
	}
	v.DisplayLetter = c.GradeLetter
	v.DisplayPoint = c.GradePoint
	return v
}

func (m *memoryStore) componentInputsLocked(courseID string) []grading.Component {
	var out []grading.Component
	for _, comp := range m.components {
		if comp.CourseID == courseID {
			out = append(out, grading.Component{
				Name:     comp.Name,
				Weight:   comp.Weight,
				Score:    comp.Score,
				MaxScore: comp.MaxScore,
			})
		}
	}
	return out
}

func (m *memoryStore) GetCourse(_ context.Context, userID, courseID string) (Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[courseID]
	if !ok || c.UserID != userID {
		return Course{}, ErrNotFound
	}
	return c, nil
}

func (m *memoryStore) CreateCourse(_ context.Context, userID string, draft CourseDraft) (Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := Course{ID: uuid.NewString(), UserID: userID, Name: draft.Name, Credits: draft.Credits, Method: draft.Method}
	if err := m.applyDraftLocked(&c, draft); err != nil {
		return Course{}, err
	}
	m.courses[c.ID] = c
	return c, nil
}

func (m *memoryStore) UpdateCourse(_ context.Context, userID, courseID string, draft CourseDraft) (Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[courseID]
	if !ok || c.UserID != userID {
		return Course{}, ErrNotFound
	}
	c.Name = draft.Name
	c.Credits = draft.Credits
	c.Method = draft.Method
	if err := m.applyDraftLocked(&c, draft); err != nil {
		return Course{}, err
	}
	m.courses[courseID] = c
	return c, nil
}

// applyDraftLocked settles the stored grade pair for the draft's method:
// final_grade resolves the letter against the owner's scale, components
// recomputes the cache from whatever components exist (nil pair when
// undetermined, which also covers a fresh mode switch).
func (m *memoryStore) applyDraftLocked(c *Course, draft CourseDraft) error {
	sc := m.scaleLocked(c.UserID)
	if draft.Method == grading.MethodComponents {
		c.GradeLetter, c.GradePoint = nil, nil
		if g, ok := grading.ResolveComponents(m.componentInputsLocked(c.ID), sc); ok {
			c.GradeLetter, c.GradePoint = &g.Letter, &g.Point
		}
		return nil
	}
	letter := grading.NormalizeLetter(draft.GradeLetter)
	point, ok := sc.PointOf(letter)
	if !ok {
		return ErrUnknownLetter
	}
	c.GradeLetter, c.GradePoint = &letter, &point
	return nil
}

func (m *memoryStore) DeleteCourse(_ context.Context, userID, courseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[courseID]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	delete(m.courses, courseID)
	for id, comp := range m.components {
		if comp.CourseID == courseID {
			delete(m.components, id)
		}
	}
	return nil
}

func (m *memoryStore) ListComponents(_ context.Context, userID, courseID string) ([]Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[courseID]
	if !ok || c.UserID != userID {
		return nil, ErrNotFound
	}
	out := []Component{}
	for _, comp := range m.components {
		if comp.CourseID == courseID {
			out = append(out, comp)
		}
	}
	return out, nil
}

func (m *memoryStore) PutComponent(_ context.Context, userID, courseID string, comp Component) (Component, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[courseID]
	if !ok || c.UserID != userID {
		return Component{}, ErrNotFound
	}
	// Managing components commits the course to component-based grading.
	if c.Method != grading.MethodComponents {
		c.Method = grading.MethodComponents
		c.GradeLetter, c.GradePoint = nil, nil
	}
	if comp.ID == "" {
		comp.ID = uuid.NewString()
	} else if existing, ok := m.components[comp.ID]; !ok || existing.CourseID != courseID {
		return Component{}, ErrNotFound
	}
	comp.CourseID = courseID
	m.components[comp.ID] = comp
	m.recomputeLocked(&c)
	m.courses[courseID] = c
	return comp, nil
}

func (m *memoryStore) DeleteComponent(_ context.Context, userID, courseID, componentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[courseID]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	comp, ok := m.components[componentID]
	if !ok || comp.CourseID != courseID {
		return ErrNotFound
	}
	delete(m.components, componentID)
	m.recomputeLocked(&c)
	m.courses[courseID] = c
	return nil
}

func (m *memoryStore) recomputeLocked(c *Course) {
	c.GradeLetter, c.GradePoint = nil, nil
	g, ok := grading.ResolveComponents(m.componentInputsLocked(c.ID), m.scaleLocked(c.UserID))
	if ok {
		c.GradeLetter, c.GradePoint = &g.Letter, &g.Point
	}
}

func (m *memoryStore) CGPA(_ context.Context, userID string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sc := m.scaleLocked(userID)
	var inputs []grading.CourseInput
	for _, c := range m.courses {
		if c.UserID != userID {
			continue
		}
		inputs = append(inputs, grading.CourseInput{
			Credits:    c.Credits,
			Method:     c.Method,
			FinalPoint: c.GradePoint,
			Components: m.componentInputsLocked(c.ID),
		})
	}
	return grading.CGPA(inputs, sc), nil
}
