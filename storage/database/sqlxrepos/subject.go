package sqlxrepos

import (
	"context"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/subject"
	"github.com/fmsedu/curriculum/storage/database"
)

type subjectRepository struct {
	db core.DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db core.DB) *subjectRepository {
	return &subjectRepository{db: db}
}

func (repo subjectRepository) FilterSubjects(ctx context.Context, qf subject.QueryFilter, ordering []core.DBOrdering) ([]subject.Subject, int, error) {
	var f filter
	if qf.Search != "" {
		f.add("(code ILIKE ? OR name_th ILIKE ? OR name_en ILIKE ?)", contains(qf.Search))
	}

	var total int
	if err := repo.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM subjects"+f.where(), f.args...); err != nil {
		return nil, 0, database.Err(err, "subject", "counting subjects")
	}

	limit, args := f.page(qf.Pagination)
	subjects := make([]subject.Subject, 0)
	err := repo.db.SelectContext(ctx, &subjects,
		"SELECT * FROM subjects"+f.where()+orderBy(ordering, "code")+limit, args...)
	if err != nil {
		return nil, 0, database.Err(err, "subject", "filtering subjects")
	}
	return subjects, total, nil
}

func (repo subjectRepository) GetSubject(ctx context.Context, id string) (subject.Subject, error) {
	var s subject.Subject
	err := repo.db.GetContext(ctx, &s, "SELECT * FROM subjects WHERE id = $1", id)
	return s, database.Err(err, "subject", "getting subject")
}

func (repo subjectRepository) CreateSubject(ctx context.Context, ns subject.NewSubject) (subject.Subject, error) {
	var s subject.Subject
	err := repo.db.GetContext(ctx, &s, `
		INSERT INTO subjects (code, name_th, name_en, default_credits, default_hour_structure,
		                      description_th, description_en, outcomes_th, outcomes_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *`,
		ns.Code, ns.NameTH, ns.NameEN, ns.DefaultCredits, ns.DefaultHourStructure,
		ns.DescriptionTH, ns.DescriptionEN, ns.OutcomesTH, ns.OutcomesEN,
	)
	return s, database.Err(err, "subject", "inserting subject")
}

func (repo subjectRepository) UpdateSubject(ctx context.Context, id string, us subject.UpdateSubject) (subject.Subject, error) {
	var s subject.Subject
	err := database.WithTx(ctx, repo.db, func(tx core.DBExecutor) error {
		if us.DefaultCredits != nil {
			// same order as the semester subject writers: semesters first, then the subject
			_, err := tx.ExecContext(ctx, `
				SELECT 1 FROM semesters
				WHERE id IN (SELECT semester_id FROM semester_subjects WHERE subject_id = $1)
				ORDER BY id
				FOR UPDATE`, id)
			if err != nil {
				return database.Err(err, "semester", "locking semesters")
			}
		}
		err := tx.GetContext(ctx, &s, `
			UPDATE subjects SET
				code                   = COALESCE($1, code),
				name_th                = COALESCE($2, name_th),
				name_en                = COALESCE($3, name_en),
				default_credits        = COALESCE($4, default_credits),
				default_hour_structure = COALESCE($5, default_hour_structure),
				description_th         = COALESCE($6, description_th),
				description_en         = COALESCE($7, description_en),
				outcomes_th            = COALESCE($8, outcomes_th),
				outcomes_en            = COALESCE($9, outcomes_en),
				updated_at             = now()
			WHERE id = $10
			RETURNING *`,
			us.Code, us.NameTH, us.NameEN, us.DefaultCredits, us.DefaultHourStructure,
			us.DescriptionTH, us.DescriptionEN, us.OutcomesTH, us.OutcomesEN, id,
		)
		if err != nil {
			return database.Err(err, "subject", "updating subject")
		}
		if us.DefaultCredits == nil {
			return nil
		}
		_, err = tx.ExecContext(ctx, recomputeCreditsSQL+
			" WHERE s.id IN (SELECT semester_id FROM semester_subjects WHERE subject_id = $1)", id)
		return database.Err(err, "semester", "recomputing semester credits")
	})
	return s, err
}

func (repo subjectRepository) DeleteSubject(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "subject", "DELETE FROM subjects WHERE id = $1", id)
}
