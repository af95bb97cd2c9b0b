package tracker

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/campusgrid/gradepoint/internal/grading"
)

// SQLStore implements Store over database/sql. The queries use $N
// placeholders, which both the pgx and modernc sqlite drivers accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) ListScale(ctx context.Context, userID string) ([]ScaleEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, grade_letter, grade_point FROM scale_entries
		  WHERE user_id=$1 ORDER BY grade_point DESC, grade_letter`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ScaleEntry{}
	for rows.Next() {
		e := ScaleEntry{UserID: userID}
		if err := rows.Scan(&e.ID, &e.Letter, &e.Point); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutScaleEntry(ctx context.Context, userID, letter string, point float64) (ScaleEntry, error) {
	letter = grading.NormalizeLetter(letter)
	e := ScaleEntry{ID: uuid.NewString(), UserID: userID, Letter: letter, Point: point}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scale_entries (id, user_id, grade_letter, grade_point, created_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (user_id, grade_letter) DO UPDATE SET grade_point=EXCLUDED.grade_point`,
		e.ID, userID, letter, point, time.Now().Unix())
	if err != nil {
		return ScaleEntry{}, err
	}
	// The upsert may have kept the original row id.
	row := s.db.QueryRowContext(ctx,
		`SELECT id FROM scale_entries WHERE user_id=$1 AND grade_letter=$2`, userID, letter)
	if err := row.Scan(&e.ID); err != nil {
		return ScaleEntry{}, err
	}
	return e, nil
}

func (s *SQLStore) DeleteScaleEntry(ctx context.Context, userID, entryID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM scale_entries WHERE id=$1 AND user_id=$2`, entryID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) SeedDefaultScale(ctx context.Context, userID string) error {
	for _, e := range grading.Default().Entries() {
		if _, err := s.PutScaleEntry(ctx, userID, e.Letter, e.Point); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) Scale(ctx context.Context, userID string) (grading.Scale, error) {
	return loadScale(ctx, s.db, userID)
}

func loadScale(ctx context.Context, q querier, userID string) (grading.Scale, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT grade_letter, grade_point FROM scale_entries WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sc := grading.Scale{}
	for rows.Next() {
		var letter string
		var point float64
		if err := rows.Scan(&letter, &point); err != nil {
			return nil, err
		}
		sc[letter] = point
	}
	return sc, rows.Err()
}

func (s *SQLStore) ListCourses(ctx context.Context, userID string) ([]CourseView, error) {
	sc, err := loadScale(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, credits, calculation_method, grade_letter, grade_point
		   FROM courses WHERE user_id=$1 ORDER BY created_at, name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	courses := []Course{}
	for rows.Next() {
		c := Course{UserID: userID}
		if err := rows.Scan(&c.ID, &c.Name, &c.Credits, &c.Method, &c.GradeLetter, &c.GradePoint); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		v := CourseView{Course: c}
		if c.Method == grading.MethodComponents {
			comps, err := loadComponents(ctx, s.db, c.ID)
			if err != nil {
				return nil, err
			}
			if g, ok := grading.ResolveComponents(componentInputs(comps), sc); ok {
				v.Percentage = &g.Percentage
				v.DisplayLetter = &g.Letter
				v.DisplayPoint = &g.Point
			}
		} else {
			v.DisplayLetter = c.GradeLetter
			v.DisplayPoint = c.GradePoint
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *SQLStore) GetCourse(ctx context.Context, userID, courseID string) (Course, error) {
	return getCourse(ctx, s.db, userID, courseID)
}

func getCourse(ctx context.Context, q querier, userID, courseID string) (Course, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, name, credits, calculation_method, grade_letter, grade_point
		   FROM courses WHERE id=$1 AND user_id=$2`, courseID, userID)
	c := Course{UserID: userID}
	if err := row.Scan(&c.ID, &c.Name, &c.Credits, &c.Method, &c.GradeLetter, &c.GradePoint); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, ErrNotFound
		}
		return Course{}, err
	}
	return c, nil
}

func (s *SQLStore) CreateCourse(ctx context.Context, userID string, draft CourseDraft) (Course, error) {
	c := Course{ID: uuid.NewString(), UserID: userID, Name: draft.Name, Credits: draft.Credits, Method: draft.Method}
	if draft.Method == grading.MethodFinalGrade {
		sc, err := loadScale(ctx, s.db, userID)
		if err != nil {
			return Course{}, err
		}
		letter := grading.NormalizeLetter(draft.GradeLetter)
		point, ok := sc.PointOf(letter)
		if !ok {
			return Course{}, ErrUnknownLetter
		}
		c.GradeLetter, c.GradePoint = &letter, &point
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (id, user_id, name, credits, calculation_method, grade_letter, grade_point, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, userID, c.Name, c.Credits, string(c.Method), c.GradeLetter, c.GradePoint, time.Now().Unix())
	if err != nil {
		return Course{}, err
	}
	return c, nil
}

func (s *SQLStore) UpdateCourse(ctx context.Context, userID, courseID string, draft CourseDraft) (Course, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Course{}, err
	}
	defer func() { _ = tx.Rollback() }()

	c, err := getCourse(ctx, tx, userID, courseID)
	if err != nil {
		return Course{}, err
	}
	c.Name = draft.Name
	c.Credits = draft.Credits
	c.Method = draft.Method

	sc, err := loadScale(ctx, tx, userID)
	if err != nil {
		return Course{}, err
	}
	if draft.Method == grading.MethodComponents {
		// Mode switch (or plain edit while component-based): the cache is
		// rebuilt from whatever components exist right now.
		c.GradeLetter, c.GradePoint = nil, nil
		comps, err := loadComponents(ctx, tx, courseID)
		if err != nil {
			return Course{}, err
		}
		if g, ok := grading.ResolveComponents(componentInputs(comps), sc); ok {
			c.GradeLetter, c.GradePoint = &g.Letter, &g.Point
		}
	} else {
		letter := grading.NormalizeLetter(draft.GradeLetter)
		point, ok := sc.PointOf(letter)
		if !ok {
			return Course{}, ErrUnknownLetter
		}
		c.GradeLetter, c.GradePoint = &letter, &point
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE courses SET name=$1, credits=$2, calculation_method=$3, grade_letter=$4, grade_point=$5
		  WHERE id=$6 AND user_id=$7`,
		c.Name, c.Credits, string(c.Method), c.GradeLetter, c.GradePoint, courseID, userID)
	if err != nil {
		return Course{}, err
	}
	return c, tx.Commit()
}

func (s *SQLStore) DeleteCourse(ctx context.Context, userID, courseID string) error {
	// Components go with the course via ON DELETE CASCADE.
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM courses WHERE id=$1 AND user_id=$2`, courseID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListComponents(ctx context.Context, userID, courseID string) ([]Component, error) {
	if _, err := getCourse(ctx, s.db, userID, courseID); err != nil {
		return nil, err
	}
	return loadComponents(ctx, s.db, courseID)
}

func loadComponents(ctx context.Context, q querier, courseID string) ([]Component, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, weight, score, max_score FROM course_components
		  WHERE course_id=$1 ORDER BY created_at, name`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Component{}
	for rows.Next() {
		c := Component{CourseID: courseID}
		if err := rows.Scan(&c.ID, &c.Name, &c.Weight, &c.Score, &c.MaxScore); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func componentInputs(comps []Component) []grading.Component {
	out := make([]grading.Component, 0, len(comps))
	for _, c := range comps {
		out = append(out, grading.Component{Name: c.Name, Weight: c.Weight, Score: c.Score, MaxScore: c.MaxScore})
	}
	return out
}

// PutComponent inserts or updates a component and refreshes the parent
// course's cached grade in the same transaction. A course still in
// final_grade mode is switched to components first; that switch is one way.
func (s *SQLStore) PutComponent(ctx context.Context, userID, courseID string, comp Component) (Component, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Component{}, err
	}
	defer func() { _ = tx.Rollback() }()

	c, err := getCourse(ctx, tx, userID, courseID)
	if err != nil {
		return Component{}, err
	}
	if c.Method != grading.MethodComponents {
		if _, err := tx.ExecContext(ctx,
			`UPDATE courses SET calculation_method=$1, grade_letter=NULL, grade_point=NULL WHERE id=$2`,
			string(grading.MethodComponents), courseID); err != nil {
			return Component{}, err
		}
	}

	if comp.ID == "" {
		comp.ID = uuid.NewString()
		comp.CourseID = courseID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO course_components (id, course_id, name, weight, score, max_score, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			comp.ID, courseID, comp.Name, comp.Weight, comp.Score, comp.MaxScore, time.Now().Unix())
		if err != nil {
			return Component{}, err
		}
	} else {
		comp.CourseID = courseID
		res, err := tx.ExecContext(ctx,
			`UPDATE course_components SET name=$1, weight=$2, score=$3, max_score=$4
			  WHERE id=$5 AND course_id=$6`,
			comp.Name, comp.Weight, comp.Score, comp.MaxScore, comp.ID, courseID)
		if err != nil {
			return Component{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return Component{}, ErrNotFound
		}
	}

	if err := recomputeCourseGrade(ctx, tx, userID, courseID); err != nil {
		return Component{}, err
	}
	return comp, tx.Commit()
}

func (s *SQLStore) DeleteComponent(ctx context.Context, userID, courseID, componentID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := getCourse(ctx, tx, userID, courseID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM course_components WHERE id=$1 AND course_id=$2`, componentID, courseID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := recomputeCourseGrade(ctx, tx, userID, courseID); err != nil {
		return err
	}
	return tx.Commit()
}

// recomputeCourseGrade is the derive-then-persist step after a component
// mutation: aggregate under the owner's current scale and write the pair
// back, NULLs when undetermined.
func recomputeCourseGrade(ctx context.Context, q querier, userID, courseID string) error {
	sc, err := loadScale(ctx, q, userID)
	if err != nil {
		return err
	}
	comps, err := loadComponents(ctx, q, courseID)
	if err != nil {
		return err
	}
	var letter *string
	var point *float64
	if g, ok := grading.ResolveComponents(componentInputs(comps), sc); ok {
		letter, point = &g.Letter, &g.Point
	}
	_, err = q.ExecContext(ctx,
		`UPDATE courses SET grade_letter=$1, grade_point=$2 WHERE id=$3`, letter, point, courseID)
	return err
}

func (s *SQLStore) CGPA(ctx context.Context, userID string) (float64, error) {
	sc, err := loadScale(ctx, s.db, userID)
	if err != nil {
		return 0, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, credits, calculation_method, grade_point FROM courses WHERE user_id=$1`, userID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	type row struct {
		id    string
		input grading.CourseInput
	}
	var courses []row
	for rows.Next() {
		var r row
		var method string
		if err := rows.Scan(&r.id, &r.input.Credits, &method, &r.input.FinalPoint); err != nil {
			return 0, err
		}
		r.input.Method = grading.Method(method)
		courses = append(courses, r)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	inputs := make([]grading.CourseInput, 0, len(courses))
	for _, r := range courses {
		if r.input.Method == grading.MethodComponents {
			comps, err := loadComponents(ctx, s.db, r.id)
			if err != nil {
				return 0, err
			}
			r.input.Components = componentInputs(comps)
		}
		inputs = append(inputs, r.input)
	}
	return grading.CGPA(inputs, sc), nil
}
