package sqlxrepos

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/survey"
	"github.com/fmsedu/curriculum/storage/database"
)

type surveyRepository struct {
	db core.DB
}

var _ survey.Repository = (*surveyRepository)(nil) // interface compliance check

func NewSurveyRepository(db core.DB) *surveyRepository {
	return &surveyRepository{db: db}
}

// Stakeholders

func (repo surveyRepository) QueryStakeholders(ctx context.Context, programID string) ([]survey.Stakeholder, error) {
	stakeholders := make([]survey.Stakeholder, 0)
	err := repo.db.SelectContext(ctx, &stakeholders, `
		SELECT * FROM stakeholders
		WHERE program_id = $1 AND is_active
		ORDER BY sort_order, name_th`,
		programID,
	)
	return stakeholders, database.Err(err, "stakeholder", "querying stakeholders")
}

func (repo surveyRepository) CreateStakeholder(ctx context.Context, ns survey.NewStakeholder) (survey.Stakeholder, error) {
	var s survey.Stakeholder
	err := repo.db.GetContext(ctx, &s, `
		INSERT INTO stakeholders (program_id, name_th, name_en, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING *`,
		ns.ProgramID, ns.NameTH, ns.NameEN, ns.SortOrder,
	)
	return s, database.Err(err, "stakeholder", "inserting stakeholder")
}

func (repo surveyRepository) UpdateStakeholder(ctx context.Context, id string, us survey.UpdateStakeholder) (survey.Stakeholder, error) {
	var s survey.Stakeholder
	err := repo.db.GetContext(ctx, &s, `
		UPDATE stakeholders SET
			name_th    = COALESCE($1, name_th),
			name_en    = COALESCE($2, name_en),
			sort_order = COALESCE($3, sort_order),
			is_active  = COALESCE($4, is_active),
			updated_at = now()
		WHERE id = $5
		RETURNING *`,
		us.NameTH, us.NameEN, us.SortOrder, us.IsActive, id,
	)
	return s, database.Err(err, "stakeholder", "updating stakeholder")
}

// DeactivateStakeholder soft-deletes: the row and its past survey mappings are kept.
func (repo surveyRepository) DeactivateStakeholder(ctx context.Context, id string) error {
	var updated string
	err := repo.db.GetContext(ctx, &updated,
		"UPDATE stakeholders SET is_active = false, updated_at = now() WHERE id = $1 RETURNING id", id)
	return database.Err(err, "stakeholder", "deactivating stakeholder")
}

// Surveys

func (repo surveyRepository) QuerySurveys(ctx context.Context, qf survey.QueryFilter) ([]survey.Survey, error) {
	var f filter
	if qf.ProgramID != "" {
		f.add("program_id = ?", qf.ProgramID)
	}
	if qf.Year > 0 {
		f.add("academic_year = ?", qf.Year)
	}
	surveys := make([]survey.Survey, 0)
	err := repo.db.SelectContext(ctx, &surveys,
		"SELECT * FROM stakeholder_surveys"+f.where()+" ORDER BY academic_year DESC, created_at DESC", f.args...)
	return surveys, database.Err(err, "survey", "querying surveys")
}

func (repo surveyRepository) GetSurvey(ctx context.Context, id string) (survey.Survey, error) {
	var s survey.Survey
	err := repo.db.GetContext(ctx, &s, "SELECT * FROM stakeholder_surveys WHERE id = $1", id)
	return s, database.Err(err, "survey", "getting survey")
}

func (repo surveyRepository) CreateSurvey(ctx context.Context, ns survey.NewSurvey) (survey.Survey, error) {
	var s survey.Survey
	err := repo.db.GetContext(ctx, &s, `
		INSERT INTO stakeholder_surveys (program_id, title, academic_year, survey_date, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`,
		ns.ProgramID, ns.Title, ns.AcademicYear, ns.SurveyDate, ns.Note,
	)
	return s, database.Err(err, "survey", "inserting survey")
}

func (repo surveyRepository) DeleteSurvey(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "survey", "DELETE FROM stakeholder_surveys WHERE id = $1", id)
}

func (repo surveyRepository) QueryMatrix(ctx context.Context, surveyID string) ([]survey.MatrixCell, error) {
	cells := make([]survey.MatrixCell, 0)
	err := repo.db.SelectContext(ctx, &cells, `
		SELECT survey_id, stakeholder_id, stakeholder_name_th, stakeholder_name_en, stakeholder_sort_order,
		       plo_id, plo_code, plo_description, level
		FROM v_stakeholder_plo_matrix
		WHERE survey_id = $1
		ORDER BY stakeholder_sort_order, stakeholder_name_th, plo_sort_order, plo_code`,
		surveyID,
	)
	return cells, database.Err(err, "survey", "querying survey matrix")
}

func (repo surveyRepository) QuerySummary(ctx context.Context, surveyID string) ([]survey.PLOSummary, error) {
	rows := make([]survey.PLOSummary, 0)
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT survey_id, plo_id, plo_code, plo_description, f_count, m_count, p_count, total
		FROM v_plo_stakeholder_summary
		WHERE survey_id = $1
		ORDER BY plo_sort_order, plo_code`,
		surveyID,
	)
	return rows, database.Err(err, "survey", "querying survey summary")
}

// Mappings

// lockSurvey row-locks the survey, serializing bulk writers, and returns its program.
func lockSurvey(ctx context.Context, tx core.DBExecutor, surveyID string) (string, error) {
	var programID string
	err := tx.GetContext(ctx, &programID,
		"SELECT program_id FROM stakeholder_surveys WHERE id = $1 FOR UPDATE", surveyID)
	return programID, database.Err(err, "survey", "locking survey")
}

// insertMappings bulk-inserts the parallel id/level slices and returns how many rows were written.
func insertMappings(ctx context.Context, tx core.DBExecutor, surveyID string, stakeholderIDs, ploIDs, levels []string, onConflict string) (int, error) {
	if len(levels) == 0 {
		return 0, nil
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO stakeholder_plo_mappings (survey_id, stakeholder_id, plo_id, level)
		SELECT $1, unnest($2::uuid[]), unnest($3::uuid[]), unnest($4::text[])
		`+onConflict,
		surveyID, pq.Array(stakeholderIDs), pq.Array(ploIDs), pq.Array(levels),
	)
	if err != nil {
		return 0, database.Err(err, "survey mapping", "inserting survey mappings")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "inserting survey mappings")
}

func (repo surveyRepository) ReplaceMappings(ctx context.Context, surveyID string, mappings []survey.MappingInput) error {
	return database.WithTx(ctx, repo.db, func(tx core.DBExecutor) error {
		if _, err := lockSurvey(ctx, tx, surveyID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM stakeholder_plo_mappings WHERE survey_id = $1", surveyID)
		if err != nil {
			return database.Err(err, "survey mapping", "clearing survey mappings")
		}

		stakeholderIDs := make([]string, len(mappings))
		ploIDs := make([]string, len(mappings))
		levels := make([]string, len(mappings))
		for i, m := range mappings {
			stakeholderIDs[i], ploIDs[i], levels[i] = m.StakeholderID, m.PLOID, m.Level
		}
		_, err = insertMappings(ctx, tx, surveyID, stakeholderIDs, ploIDs, levels,
			"ON CONFLICT (survey_id, stakeholder_id, plo_id) DO UPDATE SET level = EXCLUDED.level, updated_at = now()")
		return err
	})
}

func (repo surveyRepository) UpsertMapping(ctx context.Context, surveyID string, m survey.MappingInput) error {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO stakeholder_plo_mappings (survey_id, stakeholder_id, plo_id, level)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (survey_id, stakeholder_id, plo_id) DO UPDATE SET level = EXCLUDED.level, updated_at = now()`,
		surveyID, m.StakeholderID, m.PLOID, m.Level,
	)
	return database.Err(err, "survey mapping", "upserting survey mapping")
}

func (repo surveyRepository) DeleteMapping(ctx context.Context, surveyID, stakeholderID, ploID string) error {
	_, err := repo.db.ExecContext(ctx,
		"DELETE FROM stakeholder_plo_mappings WHERE survey_id = $1 AND stakeholder_id = $2 AND plo_id = $3",
		surveyID, stakeholderID, ploID,
	)
	return database.DeleteErr(err, "survey mapping", "deleting survey mapping")
}

func (repo surveyRepository) ImportMappings(ctx context.Context, surveyID string, req survey.ImportRequest) (int, error) {
	var count int
	err := database.WithTx(ctx, repo.db, func(tx core.DBExecutor) error {
		programID, err := lockSurvey(ctx, tx, surveyID)
		if err != nil {
			return err
		}

		stakeholderIDs := make(map[string]string, len(req.Stakeholders))
		for _, name := range req.Stakeholders {
			var id string
			err = tx.GetContext(ctx, &id, `
				INSERT INTO stakeholders (program_id, name_th) VALUES ($1, $2)
				ON CONFLICT (program_id, name_th) DO UPDATE SET is_active = true, updated_at = now()
				RETURNING id`,
				programID, name,
			)
			if err != nil {
				return database.Err(err, "stakeholder", "upserting stakeholder")
			}
			stakeholderIDs[name] = id
		}

		var plos []struct {
			ID   string `db:"id"`
			Code string `db:"code"`
		}
		if err = tx.SelectContext(ctx, &plos, "SELECT id, code FROM plos WHERE program_id = $1", programID); err != nil {
			return database.Err(err, "PLO", "querying PLOs")
		}
		ploIDs := make(map[string]string, len(plos))
		for _, p := range plos {
			ploIDs[p.Code] = p.ID
		}

		if _, err = tx.ExecContext(ctx, "DELETE FROM stakeholder_plo_mappings WHERE survey_id = $1", surveyID); err != nil {
			return database.Err(err, "survey mapping", "clearing survey mappings")
		}

		staged := survey.StageImport(req.Stakeholders, req.Rows, ploIDs)
		sIDs := make([]string, len(staged))
		pIDs := make([]string, len(staged))
		levels := make([]string, len(staged))
		for i, s := range staged {
			sIDs[i], pIDs[i], levels[i] = stakeholderIDs[s.Stakeholder], ploIDs[s.PLOCode], string(s.Level)
		}
		count, err = insertMappings(ctx, tx, surveyID, sIDs, pIDs, levels, "ON CONFLICT DO NOTHING")
		return err
	})
	return count, err
}
