package sqlxrepos

import (
	"context"

	"github.com/lib/pq"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/alignment"
	"github.com/fmsedu/curriculum/storage/database"
)

type alignmentRepository struct {
	db core.DB
}

var _ alignment.Repository = (*alignmentRepository)(nil) // interface compliance check

func NewAlignmentRepository(db core.DB) *alignmentRepository {
	return &alignmentRepository{db: db}
}

func (repo alignmentRepository) withChecks(ctx context.Context, rows []alignment.Row) error {
	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}

	var (
		ploChecks []alignment.PLOCheck
		mloChecks []alignment.MLOCheck
	)
	if len(ids) > 0 {
		err := repo.db.SelectContext(ctx, &ploChecks, `
			SELECT c.alignment_row_id, p.id AS plo_id, p.code, c.checked
			FROM alignment_plo_checks c
			JOIN plos p ON p.id = c.plo_id
			WHERE c.alignment_row_id = ANY($1::uuid[])
			ORDER BY p.sort_order, p.code`,
			pq.Array(ids),
		)
		if err != nil {
			return database.Err(err, "alignment row", "loading PLO checks")
		}
		err = repo.db.SelectContext(ctx, &mloChecks, `
			SELECT c.alignment_row_id, m.id AS mlo_id, m.code, c.checked
			FROM alignment_mlo_checks c
			JOIN mlos m ON m.id = c.mlo_id
			WHERE c.alignment_row_id = ANY($1::uuid[])
			ORDER BY m.sort_order, m.code`,
			pq.Array(ids),
		)
		if err != nil {
			return database.Err(err, "alignment row", "loading MLO checks")
		}
	}
	alignment.AttachChecks(rows, ploChecks, mloChecks)
	return nil
}

func (repo alignmentRepository) QueryRows(ctx context.Context, programID string) ([]alignment.Row, error) {
	rows := make([]alignment.Row, 0)
	err := repo.db.SelectContext(ctx, &rows,
		"SELECT * FROM alignment_rows WHERE program_id = $1 ORDER BY sort_order, group_label", programID)
	if err != nil {
		return nil, database.Err(err, "alignment row", "querying alignment rows")
	}
	if err = repo.withChecks(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo alignmentRepository) CreateRow(ctx context.Context, nr alignment.NewRow) (alignment.Row, error) {
	var r alignment.Row
	err := repo.db.GetContext(ctx, &r, `
		INSERT INTO alignment_rows (program_id, group_label, title, description, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`,
		nr.ProgramID, nr.GroupLabel, nr.Title, nr.Description, nr.SortOrder,
	)
	r.PLOChecks, r.MLOChecks = []alignment.PLOCheck{}, []alignment.MLOCheck{}
	return r, database.Err(err, "alignment row", "inserting alignment row")
}

func (repo alignmentRepository) UpdateRow(ctx context.Context, id string, ur alignment.UpdateRow) (alignment.Row, error) {
	rows := make([]alignment.Row, 1)
	err := repo.db.GetContext(ctx, &rows[0], `
		UPDATE alignment_rows SET
			group_label = COALESCE($1, group_label),
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			sort_order  = COALESCE($4, sort_order),
			updated_at  = now()
		WHERE id = $5
		RETURNING *`,
		ur.GroupLabel, ur.Title, ur.Description, ur.SortOrder, id,
	)
	if err != nil {
		return alignment.Row{}, database.Err(err, "alignment row", "updating alignment row")
	}
	if err = repo.withChecks(ctx, rows); err != nil {
		return alignment.Row{}, err
	}
	return rows[0], nil
}

func (repo alignmentRepository) DeleteRow(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "alignment row", "DELETE FROM alignment_rows WHERE id = $1", id)
}

func (repo alignmentRepository) UpsertPLOCheck(ctx context.Context, rowID string, sc alignment.SetPLOCheck) error {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO alignment_plo_checks (alignment_row_id, plo_id, checked)
		VALUES ($1, $2, $3)
		ON CONFLICT (alignment_row_id, plo_id) DO UPDATE SET checked = EXCLUDED.checked`,
		rowID, sc.PLOID, *sc.Checked,
	)
	return database.Err(err, "alignment row", "upserting PLO check")
}

func (repo alignmentRepository) UpsertMLOCheck(ctx context.Context, rowID string, sc alignment.SetMLOCheck) error {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO alignment_mlo_checks (alignment_row_id, mlo_id, checked)
		VALUES ($1, $2, $3)
		ON CONFLICT (alignment_row_id, mlo_id) DO UPDATE SET checked = EXCLUDED.checked`,
		rowID, sc.MLOID, *sc.Checked,
	)
	return database.Err(err, "alignment row", "upserting MLO check")
}
