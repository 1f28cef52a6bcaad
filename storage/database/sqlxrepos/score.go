package sqlxrepos

import (
	"context"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/score"
	"github.com/fmsedu/curriculum/storage/database"
)

type scoreRepository struct {
	db core.DB
}

var _ score.Repository = (*scoreRepository)(nil) // interface compliance check

func NewScoreRepository(db core.DB) *scoreRepository {
	return &scoreRepository{db: db}
}

func (repo scoreRepository) QueryScores(ctx context.Context, programID string, qf score.QueryFilter) ([]score.PLOScore, error) {
	var f filter
	f.add("program_id = ?", programID)
	if qf.Year > 0 {
		f.add("academic_year = ?", qf.Year)
	}
	if qf.LOLevel != "" {
		f.add("lo_level = ?", qf.LOLevel)
	}
	scores := make([]score.PLOScore, 0)
	err := repo.db.SelectContext(ctx, &scores,
		"SELECT * FROM plo_scores"+f.where()+" ORDER BY lo_level, lo_code, academic_year DESC", f.args...)
	return scores, database.Err(err, "PLO score", "querying PLO scores")
}

func (repo scoreRepository) QuerySummary(ctx context.Context, programID string, year int) ([]score.Summary, error) {
	var f filter
	f.add("program_id = ?", programID)
	if year > 0 {
		f.add("academic_year = ?", year)
	}
	rows := make([]score.Summary, 0)
	err := repo.db.SelectContext(ctx, &rows,
		"SELECT * FROM v_plo_score_summary"+f.where()+" ORDER BY lo_level, lo_code", f.args...)
	return rows, database.Err(err, "PLO score", "querying PLO score summary")
}

func (repo scoreRepository) UpsertScore(ctx context.Context, us score.UpsertScore) (score.PLOScore, error) {
	var s score.PLOScore
	err := repo.db.GetContext(ctx, &s, `
		INSERT INTO plo_scores
			(program_id, lo_level, lo_code, lo_description, academic_year, semester_1, semester_2, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (program_id, lo_code, academic_year) DO UPDATE SET
			lo_level       = EXCLUDED.lo_level,
			lo_description = EXCLUDED.lo_description,
			semester_1     = EXCLUDED.semester_1,
			semester_2     = EXCLUDED.semester_2,
			note           = EXCLUDED.note,
			updated_at     = now()
		RETURNING *`,
		us.ProgramID, us.LOLevel, us.LOCode, us.LODescription, us.AcademicYear, us.Semester1, us.Semester2, us.Note,
	)
	return s, database.Err(err, "PLO score", "upserting PLO score")
}

func (repo scoreRepository) UpdateScore(ctx context.Context, id string, us score.UpdateScore) (score.PLOScore, error) {
	var s score.PLOScore
	err := repo.db.GetContext(ctx, &s, `
		UPDATE plo_scores SET
			semester_1     = COALESCE($1, semester_1),
			semester_2     = COALESCE($2, semester_2),
			note           = COALESCE($3, note),
			lo_description = COALESCE($4, lo_description),
			updated_at     = now()
		WHERE id = $5
		RETURNING *`,
		us.Semester1, us.Semester2, us.Note, us.LODescription, id,
	)
	return s, database.Err(err, "PLO score", "updating PLO score")
}

func (repo scoreRepository) DeleteScore(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "PLO score", "DELETE FROM plo_scores WHERE id = $1", id)
}
