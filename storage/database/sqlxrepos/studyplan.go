package sqlxrepos

import (
	"context"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/studyplan"
	"github.com/fmsedu/curriculum/storage/database"
)

// recomputeCreditsSQL rebuilds total_credits from scratch; callers append the WHERE on s.
const recomputeCreditsSQL = `
	UPDATE semesters s SET
		total_credits = COALESCE((
			SELECT SUM(COALESCE(ss.credits, sub.default_credits))
			FROM semester_subjects ss
			JOIN subjects sub ON sub.id = ss.subject_id
			WHERE ss.semester_id = s.id
		), 0),
		updated_at = now()`

const semesterSubjectSelect = `
	SELECT ss.id, ss.semester_id, ss.subject_id, ss.category, ss.credits, ss.hour_structure, ss.sort_order,
	       ss.created_at, ss.updated_at,
	       sub.code AS subject_code, sub.name_th AS subject_name_th, sub.name_en AS subject_name_en,
	       COALESCE(ss.credits, sub.default_credits) AS effective_credits
	FROM semester_subjects ss
	JOIN subjects sub ON sub.id = ss.subject_id`

type studyPlanRepository struct {
	db core.DB
}

var _ studyplan.Repository = (*studyPlanRepository)(nil) // interface compliance check

func NewStudyPlanRepository(db core.DB) *studyPlanRepository {
	return &studyPlanRepository{db: db}
}

func (repo studyPlanRepository) FilterStudyPlans(ctx context.Context, qf studyplan.QueryFilter) ([]studyplan.StudyPlan, int, error) {
	var f filter
	if qf.CourseID != "" {
		f.add("course_id = ?", qf.CourseID)
	}
	if qf.MajorID != "" {
		f.add("major_id = ?", qf.MajorID)
	}
	if qf.Year > 0 {
		f.add("academic_year = ?", qf.Year)
	}
	if qf.Status != "" {
		f.add("status = ?", qf.Status)
	}

	var total int
	if err := repo.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM study_plans"+f.where(), f.args...); err != nil {
		return nil, 0, database.Err(err, "study plan", "counting study plans")
	}

	limit, args := f.page(qf.Pagination)
	plans := make([]studyplan.StudyPlan, 0)
	err := repo.db.SelectContext(ctx, &plans,
		"SELECT * FROM study_plans"+f.where()+" ORDER BY academic_year DESC, year_no"+limit, args...)
	if err != nil {
		return nil, 0, database.Err(err, "study plan", "filtering study plans")
	}
	return plans, total, nil
}

func (repo studyPlanRepository) GetStudyPlan(ctx context.Context, id string) (studyplan.StudyPlan, error) {
	var sp studyplan.StudyPlan
	if err := repo.db.GetContext(ctx, &sp, "SELECT * FROM study_plans WHERE id = $1", id); err != nil {
		return sp, database.Err(err, "study plan", "getting study plan")
	}
	sp.Semesters = make([]studyplan.Semester, 0)
	err := repo.db.SelectContext(ctx, &sp.Semesters,
		"SELECT * FROM semesters WHERE study_plan_id = $1 ORDER BY sort_order, term", id)
	return sp, database.Err(err, "semester", "querying semesters")
}

func (repo studyPlanRepository) CreateStudyPlan(ctx context.Context, np studyplan.NewStudyPlan) (studyplan.StudyPlan, error) {
	var sp studyplan.StudyPlan
	err := repo.db.GetContext(ctx, &sp, `
		INSERT INTO study_plans (course_id, major_id, name, academic_year, year_no, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *`,
		np.CourseID, np.MajorID, np.Name, np.AcademicYear, np.YearNo, np.Status,
	)
	return sp, database.Err(err, "study plan", "inserting study plan")
}

func (repo studyPlanRepository) UpdateStudyPlan(ctx context.Context, id string, up studyplan.UpdateStudyPlan) (studyplan.StudyPlan, error) {
	var sp studyplan.StudyPlan
	err := repo.db.GetContext(ctx, &sp, `
		UPDATE study_plans SET
			name          = COALESCE($1, name),
			academic_year = COALESCE($2, academic_year),
			year_no       = COALESCE($3, year_no),
			status        = COALESCE($4, status),
			updated_at    = now()
		WHERE id = $5
		RETURNING *`,
		up.Name, up.AcademicYear, up.YearNo, up.Status, id,
	)
	return sp, database.Err(err, "study plan", "updating study plan")
}

func (repo studyPlanRepository) DeleteStudyPlan(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "study plan", "DELETE FROM study_plans WHERE id = $1", id)
}

func (repo studyPlanRepository) QueryPlanRows(ctx context.Context, planID string) ([]studyplan.PlanRow, error) {
	rows := make([]studyplan.PlanRow, 0)
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT * FROM v_study_plan_full
		WHERE plan_id = $1
		ORDER BY semester_sort_order NULLS LAST, term NULLS LAST, sort_order NULLS LAST, subject_code`,
		planID,
	)
	return rows, database.Err(err, "study plan", "querying study plan rows")
}

func (repo studyPlanRepository) CreateSemester(ctx context.Context, ns studyplan.NewSemester) (studyplan.Semester, error) {
	var s studyplan.Semester
	err := repo.db.GetContext(ctx, &s, `
		INSERT INTO semesters (study_plan_id, term, sort_order)
		VALUES ($1, $2, $3)
		RETURNING *`,
		ns.StudyPlanID, ns.Term, ns.SortOrder,
	)
	return s, database.Err(err, "semester", "inserting semester")
}

func (repo studyPlanRepository) UpdateSemester(ctx context.Context, id string, us studyplan.UpdateSemester) (studyplan.Semester, error) {
	var s studyplan.Semester
	err := repo.db.GetContext(ctx, &s, `
		UPDATE semesters SET
			term       = COALESCE($1, term),
			sort_order = COALESCE($2, sort_order),
			updated_at = now()
		WHERE id = $3
		RETURNING *`,
		us.Term, us.SortOrder, id,
	)
	return s, database.Err(err, "semester", "updating semester")
}

func (repo studyPlanRepository) DeleteSemester(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "semester", "DELETE FROM semesters WHERE id = $1", id)
}

func (repo studyPlanRepository) QuerySemesterSubjects(ctx context.Context, semesterID string) ([]studyplan.SemesterSubject, error) {
	subjects := make([]studyplan.SemesterSubject, 0)
	err := repo.db.SelectContext(ctx, &subjects,
		semesterSubjectSelect+" WHERE ss.semester_id = $1 ORDER BY ss.sort_order, sub.code", semesterID)
	return subjects, database.Err(err, "semester subject", "querying semester subjects")
}

// recompute refreshes one semester's total inside tx and returns it.
func recompute(ctx context.Context, tx core.DBExecutor, semesterID string) (int, error) {
	var total int
	err := tx.GetContext(ctx, &total, recomputeCreditsSQL+" WHERE s.id = $1 RETURNING s.total_credits", semesterID)
	return total, database.Err(err, "semester", "recomputing semester credits")
}

// lockForAdd takes the semester row before a subject is placed in it, so that concurrent
// recomputes of one semester run one after the other and each sums every committed row. The
// subject is share-locked against a concurrent change of its default credits. Missing rows are
// left to the insert's foreign keys.
func lockForAdd(ctx context.Context, tx core.DBExecutor, semesterID, subjectID string) error {
	if _, err := tx.ExecContext(ctx, "SELECT 1 FROM semesters WHERE id = $1 FOR UPDATE", semesterID); err != nil {
		return database.Err(err, "semester", "locking semester")
	}
	_, err := tx.ExecContext(ctx, "SELECT 1 FROM subjects WHERE id = $1 FOR SHARE", subjectID)
	return database.Err(err, "subject", "locking subject")
}

// lockSemesterOf is lockForAdd for an existing semester_subjects row; it returns the semester id.
func lockSemesterOf(ctx context.Context, tx core.DBExecutor, semesterSubjectID string) (string, error) {
	var semesterID string
	err := tx.GetContext(ctx, &semesterID, `
		SELECT s.id
		FROM semester_subjects ss
		JOIN semesters s ON s.id = ss.semester_id
		JOIN subjects sub ON sub.id = ss.subject_id
		WHERE ss.id = $1
		FOR UPDATE OF s FOR SHARE OF sub`, semesterSubjectID)
	return semesterID, database.Err(err, "semester subject", "locking semester subject")
}

func getSemesterSubject(ctx context.Context, exec core.DBExecutor, id string) (studyplan.SemesterSubject, error) {
	var ss studyplan.SemesterSubject
	err := exec.GetContext(ctx, &ss, semesterSubjectSelect+" WHERE ss.id = $1", id)
	return ss, database.Err(err, "semester subject", "getting semester subject")
}

func (repo studyPlanRepository) AddSemesterSubject(ctx context.Context, ns studyplan.NewSemesterSubject) (studyplan.SemesterSubject, int, error) {
	var (
		ss    studyplan.SemesterSubject
		total int
	)
	err := database.WithTx(ctx, repo.db, func(tx core.DBExecutor) error {
		if err := lockForAdd(ctx, tx, ns.SemesterID, ns.SubjectID); err != nil {
			return err
		}
		var id string
		err := tx.GetContext(ctx, &id, `
			INSERT INTO semester_subjects (semester_id, subject_id, category, credits, hour_structure, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			ns.SemesterID, ns.SubjectID, ns.Category, ns.Credits, ns.HourStructure, ns.SortOrder,
		)
		if err != nil {
			return database.Err(err, "semester subject", "inserting semester subject")
		}
		if total, err = recompute(ctx, tx, ns.SemesterID); err != nil {
			return err
		}
		ss, err = getSemesterSubject(ctx, tx, id)
		return err
	})
	return ss, total, err
}

func (repo studyPlanRepository) UpdateSemesterSubject(ctx context.Context, id string, us studyplan.UpdateSemesterSubject) (studyplan.SemesterSubject, int, error) {
	var (
		ss    studyplan.SemesterSubject
		total int
	)
	err := database.WithTx(ctx, repo.db, func(tx core.DBExecutor) error {
		semesterID, err := lockSemesterOf(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE semester_subjects SET
				category       = COALESCE($1, category),
				credits        = CASE WHEN $2::boolean THEN NULL ELSE COALESCE($3, credits) END,
				hour_structure = COALESCE($4, hour_structure),
				sort_order     = COALESCE($5, sort_order),
				updated_at     = now()
			WHERE id = $6`,
			us.Category, us.ResetCredits, us.Credits, us.HourStructure, us.SortOrder, id,
		)
		if err != nil {
			return database.Err(err, "semester subject", "updating semester subject")
		}
		if total, err = recompute(ctx, tx, semesterID); err != nil {
			return err
		}
		ss, err = getSemesterSubject(ctx, tx, id)
		return err
	})
	return ss, total, err
}

func (repo studyPlanRepository) RemoveSemesterSubject(ctx context.Context, id string) (int, error) {
	var total int
	err := database.WithTx(ctx, repo.db, func(tx core.DBExecutor) error {
		semesterID, err := lockSemesterOf(ctx, tx, id)
		if err != nil {
			return err
		}
		err = deleteRow(ctx, tx, "semester subject", "DELETE FROM semester_subjects WHERE id = $1", id)
		if err != nil {
			return err
		}
		total, err = recompute(ctx, tx, semesterID)
		return err
	})
	return total, err
}

// RecomputeAllCredits only counts the semesters whose stored total was stale.
func (repo studyPlanRepository) RecomputeAllCredits(ctx context.Context) (int, error) {
	var changed int
	err := database.WithTx(ctx, repo.db, func(tx core.DBExecutor) error {
		err := tx.GetContext(ctx, &changed, `
			SELECT COUNT(*) FROM semesters s
			WHERE s.total_credits <> COALESCE((
				SELECT SUM(COALESCE(ss.credits, sub.default_credits))
				FROM semester_subjects ss
				JOIN subjects sub ON sub.id = ss.subject_id
				WHERE ss.semester_id = s.id
			), 0)`)
		if err != nil {
			return database.Err(err, "semester", "counting stale semesters")
		}
		_, err = tx.ExecContext(ctx, recomputeCreditsSQL)
		return database.Err(err, "semester", "recomputing semester credits")
	})
	return changed, err
}
