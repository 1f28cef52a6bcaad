package sqlxrepos

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/outcome"
	"github.com/fmsedu/curriculum/storage/database"
)

// linkTable is where an outcome.Relation lives.
type linkTable struct {
	table        string
	ownerCol     string
	relatedCol   string
	ownerTable   string
	ownerEntity  string
	relatedTable string
}

var linkTables = map[string]linkTable{
	outcome.PLOKAS.Name: {"plo_kas", "plo_id", "kas_id", "plos", "PLO", "kas_items"},
	outcome.MLOKAS.Name: {"mlo_kas", "mlo_id", "kas_id", "mlos", "MLO", "kas_items"},
	outcome.CLOKAS.Name: {"clo_kas", "clo_id", "kas_id", "clos", "CLO", "kas_items"},
	outcome.CLOPLO.Name: {"clo_plo", "clo_id", "plo_id", "clos", "CLO", "plos"},
	outcome.CLOMLO.Name: {"clo_mlo", "clo_id", "mlo_id", "clos", "CLO", "mlos"},
}

type kasLink struct {
	OwnerID string `db:"owner_id"`
	outcome.KASRef
}

type outcomeLink struct {
	OwnerID string `db:"owner_id"`
	outcome.OutcomeRef
}

type outcomeRepository struct {
	db core.DB
}

var _ outcome.Repository = (*outcomeRepository)(nil) // interface compliance check

func NewOutcomeRepository(db core.DB) *outcomeRepository {
	return &outcomeRepository{db: db}
}

// loadKAS returns the KAS items linked through table, keyed by owner id.
func loadKAS(ctx context.Context, exec core.DBExecutor, table, ownerCol string, ownerIDs []string) (map[string][]outcome.KASRef, error) {
	refs := make(map[string][]outcome.KASRef, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return refs, nil
	}
	var links []kasLink
	err := exec.SelectContext(ctx, &links, `
		SELECT l.`+ownerCol+` AS owner_id, k.id, k.code, k.label, k.type
		FROM `+table+` l
		JOIN kas_items k ON k.id = l.kas_id
		WHERE l.`+ownerCol+` = ANY($1::uuid[])
		ORDER BY k.sort_order, k.code`,
		pq.Array(ownerIDs),
	)
	if err != nil {
		return nil, database.Err(err, "KAS item", "loading KAS items")
	}
	for _, l := range links {
		refs[l.OwnerID] = append(refs[l.OwnerID], l.KASRef)
	}
	return refs, nil
}

// loadOutcomes returns the PLOs or MLOs linked to CLOs through table, keyed by CLO id.
func loadOutcomes(ctx context.Context, exec core.DBExecutor, table, relatedCol, relatedTable string, cloIDs []string) (map[string][]outcome.OutcomeRef, error) {
	refs := make(map[string][]outcome.OutcomeRef, len(cloIDs))
	if len(cloIDs) == 0 {
		return refs, nil
	}
	var links []outcomeLink
	err := exec.SelectContext(ctx, &links, `
		SELECT l.clo_id AS owner_id, r.id, r.code, r.description
		FROM `+table+` l
		JOIN `+relatedTable+` r ON r.id = l.`+relatedCol+`
		WHERE l.clo_id = ANY($1::uuid[])
		ORDER BY r.sort_order, r.code`,
		pq.Array(cloIDs),
	)
	if err != nil {
		return nil, database.Err(err, "CLO", "loading CLO mappings")
	}
	for _, l := range links {
		refs[l.OwnerID] = append(refs[l.OwnerID], l.OutcomeRef)
	}
	return refs, nil
}

func kasOrEmpty(refs []outcome.KASRef) []outcome.KASRef {
	if refs == nil {
		return []outcome.KASRef{}
	}
	return refs
}

func outcomesOrEmpty(refs []outcome.OutcomeRef) []outcome.OutcomeRef {
	if refs == nil {
		return []outcome.OutcomeRef{}
	}
	return refs
}

// PLOs

func (repo outcomeRepository) QueryPLOs(ctx context.Context, programID string) ([]outcome.PLO, error) {
	plos := make([]outcome.PLO, 0)
	err := repo.db.SelectContext(ctx, &plos,
		"SELECT * FROM plos WHERE program_id = $1 ORDER BY sort_order, code", programID)
	if err != nil {
		return nil, database.Err(err, "PLO", "querying PLOs")
	}

	ids := make([]string, len(plos))
	for i := range plos {
		ids[i] = plos[i].ID
	}
	refs, err := loadKAS(ctx, repo.db, "plo_kas", "plo_id", ids)
	if err != nil {
		return nil, err
	}
	for i := range plos {
		plos[i].KAS = kasOrEmpty(refs[plos[i].ID])
	}
	return plos, nil
}

func (repo outcomeRepository) CreatePLO(ctx context.Context, np outcome.NewPLO) (outcome.PLO, error) {
	p := outcome.PLO{KAS: []outcome.KASRef{}}
	err := repo.db.GetContext(ctx, &p, `
		INSERT INTO plos (program_id, code, description, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING *`,
		np.ProgramID, np.Code, np.Description, np.SortOrder,
	)
	return p, database.Err(err, "PLO", "inserting PLO")
}

func (repo outcomeRepository) UpdatePLO(ctx context.Context, id string, uo outcome.UpdateOutcome) (outcome.PLO, error) {
	var p outcome.PLO
	err := repo.db.GetContext(ctx, &p, `
		UPDATE plos SET
			code        = COALESCE($1, code),
			description = COALESCE($2, description),
			sort_order  = COALESCE($3, sort_order),
			updated_at  = now()
		WHERE id = $4
		RETURNING *`,
		uo.Code, uo.Description, uo.SortOrder, id,
	)
	if err != nil {
		return p, database.Err(err, "PLO", "updating PLO")
	}
	refs, err := loadKAS(ctx, repo.db, "plo_kas", "plo_id", []string{p.ID})
	if err != nil {
		return p, err
	}
	p.KAS = kasOrEmpty(refs[p.ID])
	return p, nil
}

func (repo outcomeRepository) DeletePLO(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "PLO", "DELETE FROM plos WHERE id = $1", id)
}

// KAS items

func (repo outcomeRepository) QueryKASItems(ctx context.Context, programID, typ string) ([]outcome.KASItem, error) {
	var f filter
	f.add("program_id = ?", programID)
	if typ != "" {
		f.add("type = ?", typ)
	}
	items := make([]outcome.KASItem, 0)
	err := repo.db.SelectContext(ctx, &items,
		"SELECT * FROM kas_items"+f.where()+" ORDER BY type, sort_order, code", f.args...)
	return items, database.Err(err, "KAS item", "querying KAS items")
}

func (repo outcomeRepository) CreateKASItem(ctx context.Context, nk outcome.NewKASItem) (outcome.KASItem, error) {
	var k outcome.KASItem
	err := repo.db.GetContext(ctx, &k, `
		INSERT INTO kas_items (program_id, type, code, label, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`,
		nk.ProgramID, nk.Type, nk.Code, nk.Label, nk.SortOrder,
	)
	return k, database.Err(err, "KAS item", "inserting KAS item")
}

func (repo outcomeRepository) UpdateKASItem(ctx context.Context, id string, uk outcome.UpdateKASItem) (outcome.KASItem, error) {
	var k outcome.KASItem
	err := repo.db.GetContext(ctx, &k, `
		UPDATE kas_items SET
			type       = COALESCE($1, type),
			code       = COALESCE($2, code),
			label      = COALESCE($3, label),
			sort_order = COALESCE($4, sort_order),
			updated_at = now()
		WHERE id = $5
		RETURNING *`,
		uk.Type, uk.Code, uk.Label, uk.SortOrder, id,
	)
	return k, database.Err(err, "KAS item", "updating KAS item")
}

func (repo outcomeRepository) DeleteKASItem(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "KAS item", "DELETE FROM kas_items WHERE id = $1", id)
}

// MLOs

func (repo outcomeRepository) QueryMLOs(ctx context.Context, majorGroupID string) ([]outcome.MLO, error) {
	mlos := make([]outcome.MLO, 0)
	err := repo.db.SelectContext(ctx, &mlos,
		"SELECT * FROM mlos WHERE major_group_id = $1 ORDER BY sort_order, code", majorGroupID)
	if err != nil {
		return nil, database.Err(err, "MLO", "querying MLOs")
	}

	ids := make([]string, len(mlos))
	for i := range mlos {
		ids[i] = mlos[i].ID
	}
	refs, err := loadKAS(ctx, repo.db, "mlo_kas", "mlo_id", ids)
	if err != nil {
		return nil, err
	}
	for i := range mlos {
		mlos[i].KAS = kasOrEmpty(refs[mlos[i].ID])
	}
	return mlos, nil
}

func (repo outcomeRepository) CreateMLO(ctx context.Context, nm outcome.NewMLO) (outcome.MLO, error) {
	m := outcome.MLO{KAS: []outcome.KASRef{}}
	err := repo.db.GetContext(ctx, &m, `
		INSERT INTO mlos (major_group_id, code, description, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING *`,
		nm.MajorGroupID, nm.Code, nm.Description, nm.SortOrder,
	)
	return m, database.Err(err, "MLO", "inserting MLO")
}

func (repo outcomeRepository) UpdateMLO(ctx context.Context, id string, uo outcome.UpdateOutcome) (outcome.MLO, error) {
	var m outcome.MLO
	err := repo.db.GetContext(ctx, &m, `
		UPDATE mlos SET
			code        = COALESCE($1, code),
			description = COALESCE($2, description),
			sort_order  = COALESCE($3, sort_order),
			updated_at  = now()
		WHERE id = $4
		RETURNING *`,
		uo.Code, uo.Description, uo.SortOrder, id,
	)
	if err != nil {
		return m, database.Err(err, "MLO", "updating MLO")
	}
	refs, err := loadKAS(ctx, repo.db, "mlo_kas", "mlo_id", []string{m.ID})
	if err != nil {
		return m, err
	}
	m.KAS = kasOrEmpty(refs[m.ID])
	return m, nil
}

func (repo outcomeRepository) DeleteMLO(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "MLO", "DELETE FROM mlos WHERE id = $1", id)
}

// CLOs

func (repo outcomeRepository) attachCLOLinks(ctx context.Context, clos []outcome.CLO) error {
	ids := make([]string, len(clos))
	for i := range clos {
		ids[i] = clos[i].ID
	}
	plos, err := loadOutcomes(ctx, repo.db, "clo_plo", "plo_id", "plos", ids)
	if err != nil {
		return err
	}
	mlos, err := loadOutcomes(ctx, repo.db, "clo_mlo", "mlo_id", "mlos", ids)
	if err != nil {
		return err
	}
	kas, err := loadKAS(ctx, repo.db, "clo_kas", "clo_id", ids)
	if err != nil {
		return err
	}
	for i := range clos {
		clos[i].PLOs = outcomesOrEmpty(plos[clos[i].ID])
		clos[i].MLOs = outcomesOrEmpty(mlos[clos[i].ID])
		clos[i].KAS = kasOrEmpty(kas[clos[i].ID])
	}
	return nil
}

func (repo outcomeRepository) QueryCLOs(ctx context.Context, subjectID string) ([]outcome.CLO, error) {
	clos := make([]outcome.CLO, 0)
	err := repo.db.SelectContext(ctx, &clos, "SELECT * FROM clos WHERE subject_id = $1 ORDER BY seq", subjectID)
	if err != nil {
		return nil, database.Err(err, "CLO", "querying CLOs")
	}
	if err = repo.attachCLOLinks(ctx, clos); err != nil {
		return nil, err
	}
	return clos, nil
}

func (repo outcomeRepository) GetCLO(ctx context.Context, id string) (outcome.CLO, error) {
	clos := make([]outcome.CLO, 1)
	if err := repo.db.GetContext(ctx, &clos[0], "SELECT * FROM clos WHERE id = $1", id); err != nil {
		return outcome.CLO{}, database.Err(err, "CLO", "getting CLO")
	}
	if err := repo.attachCLOLinks(ctx, clos); err != nil {
		return outcome.CLO{}, err
	}
	return clos[0], nil
}

func (repo outcomeRepository) CreateCLO(ctx context.Context, nc outcome.NewCLO) (outcome.CLO, error) {
	c := outcome.CLO{PLOs: []outcome.OutcomeRef{}, MLOs: []outcome.OutcomeRef{}, KAS: []outcome.KASRef{}}
	err := repo.db.GetContext(ctx, &c, `
		INSERT INTO clos (subject_id, seq, description_th, description_en)
		VALUES ($1, $2, $3, $4)
		RETURNING *`,
		nc.SubjectID, nc.Seq, nc.DescriptionTH, nc.DescriptionEN,
	)
	return c, database.Err(err, "CLO", "inserting CLO")
}

func (repo outcomeRepository) UpdateCLO(ctx context.Context, id string, uc outcome.UpdateCLO) (outcome.CLO, error) {
	var updated string
	err := repo.db.GetContext(ctx, &updated, `
		UPDATE clos SET
			seq            = COALESCE($1, seq),
			description_th = COALESCE($2, description_th),
			description_en = COALESCE($3, description_en),
			updated_at     = now()
		WHERE id = $4
		RETURNING id`,
		uc.Seq, uc.DescriptionTH, uc.DescriptionEN, id,
	)
	if err != nil {
		return outcome.CLO{}, database.Err(err, "CLO", "updating CLO")
	}
	return repo.GetCLO(ctx, id)
}

func (repo outcomeRepository) DeleteCLO(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "CLO", "DELETE FROM clos WHERE id = $1", id)
}

// QueryCLOFull lists the CLOs of the subjects offered in the program's course study plans.
func (repo outcomeRepository) QueryCLOFull(ctx context.Context, programID, subjectID string) ([]outcome.CLOFull, error) {
	var f filter
	f.add("pr.id = ?", programID)
	if subjectID != "" {
		f.add("vcf.subject_id = ?", subjectID)
	}
	rows := make([]outcome.CLOFull, 0)
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT DISTINCT vcf.*
		FROM v_clo_full vcf
		JOIN semester_subjects ss ON ss.subject_id = vcf.subject_id
		JOIN semesters se ON se.id = ss.semester_id
		JOIN study_plans sp ON sp.id = se.study_plan_id
		JOIN programs pr ON pr.course_id = sp.course_id`+f.where()+`
		ORDER BY vcf.subject_code, vcf.seq`,
		f.args...,
	)
	return rows, database.Err(err, "CLO", "querying CLO details")
}

// Links

func (repo outcomeRepository) ReplaceLinks(ctx context.Context, rel outcome.Relation, ownerID string, relatedIDs []string) error {
	lt, ok := linkTables[rel.Name]
	if !ok {
		return errors.Errorf("unknown relation %q", rel.Name)
	}

	return database.WithTx(ctx, repo.db, func(tx core.DBExecutor) error {
		if err := lockRow(ctx, tx, lt.ownerTable, lt.ownerEntity, ownerID); err != nil {
			return err
		}

		if len(relatedIDs) > 0 {
			var found []string
			err := tx.SelectContext(ctx, &found,
				"SELECT id FROM "+lt.relatedTable+" WHERE id = ANY($1::uuid[])", pq.Array(relatedIDs))
			if err != nil {
				return database.Err(err, rel.Related, "checking "+rel.RelatedField())
			}
			if missing := outcome.MissingIDs(relatedIDs, found); len(missing) > 0 {
				msg := "unknown ids: " + strings.Join(missing, ", ")
				return core.NewValidationError(errors.New(msg), core.FieldError{Field: rel.RelatedField(), Error: msg})
			}
		}

		_, err := tx.ExecContext(ctx, "DELETE FROM "+lt.table+" WHERE "+lt.ownerCol+" = $1", ownerID)
		if err != nil {
			return database.Err(err, rel.Name, "clearing "+rel.Name)
		}
		if len(relatedIDs) == 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO "+lt.table+" ("+lt.ownerCol+", "+lt.relatedCol+") "+
				"SELECT $1, unnest($2::uuid[]) ON CONFLICT DO NOTHING",
			ownerID, pq.Array(relatedIDs),
		)
		return database.Err(err, rel.Name, "inserting "+rel.Name)
	})
}

func (repo outcomeRepository) RemoveLink(ctx context.Context, rel outcome.Relation, ownerID, relatedID string) error {
	lt, ok := linkTables[rel.Name]
	if !ok {
		return errors.Errorf("unknown relation %q", rel.Name)
	}
	_, err := repo.db.ExecContext(ctx,
		"DELETE FROM "+lt.table+" WHERE "+lt.ownerCol+" = $1 AND "+lt.relatedCol+" = $2", ownerID, relatedID)
	return database.DeleteErr(err, rel.Name, "removing "+rel.Name)
}
