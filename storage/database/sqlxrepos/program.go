package sqlxrepos

import (
	"context"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/program"
	"github.com/fmsedu/curriculum/storage/database"
)

const majorGroupSelect = `
	SELECT mg.id, mg.program_id, mg.major_id, mg.label, mg.icon, mg.sort_order, mg.created_at, mg.updated_at,
	       m.name_th AS major_name_th, m.name_en AS major_name_en
	FROM major_groups mg
	LEFT JOIN majors m ON m.id = mg.major_id`

type programRepository struct {
	db core.DB
}

var _ program.Repository = (*programRepository)(nil) // interface compliance check

func NewProgramRepository(db core.DB) *programRepository {
	return &programRepository{db: db}
}

func (repo programRepository) QueryCourses(ctx context.Context) ([]program.Course, error) {
	courses := make([]program.Course, 0)
	err := repo.db.SelectContext(ctx, &courses, "SELECT * FROM courses ORDER BY code")
	return courses, database.Err(err, "course", "querying courses")
}

func (repo programRepository) CreateCourse(ctx context.Context, nc program.NewCourse) (program.Course, error) {
	var c program.Course
	err := repo.db.GetContext(ctx, &c,
		"INSERT INTO courses (code, name_th, name_en) VALUES ($1, $2, $3) RETURNING *",
		nc.Code, nc.NameTH, nc.NameEN,
	)
	return c, database.Err(err, "course", "inserting course")
}

func (repo programRepository) UpdateCourse(ctx context.Context, id string, uc program.UpdateCourse) (program.Course, error) {
	var c program.Course
	err := repo.db.GetContext(ctx, &c, `
		UPDATE courses SET
			code       = COALESCE($1, code),
			name_th    = COALESCE($2, name_th),
			name_en    = COALESCE($3, name_en),
			updated_at = now()
		WHERE id = $4
		RETURNING *`,
		uc.Code, uc.NameTH, uc.NameEN, id,
	)
	return c, database.Err(err, "course", "updating course")
}

func (repo programRepository) DeleteCourse(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "course", "DELETE FROM courses WHERE id = $1", id)
}

func (repo programRepository) FilterPrograms(ctx context.Context, qf program.QueryFilter, ordering []core.DBOrdering) ([]program.Program, int, error) {
	var f filter
	if qf.Search != "" {
		f.add("(p.code ILIKE ? OR p.name_th ILIKE ? OR p.name_en ILIKE ?)", contains(qf.Search))
	}
	if qf.Year > 0 {
		f.add("p.year = ?", qf.Year)
	}

	var total int
	if err := repo.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM programs p"+f.where(), f.args...); err != nil {
		return nil, 0, database.Err(err, "program", "counting programs")
	}

	limit, args := f.page(qf.Pagination)
	programs := make([]program.Program, 0)
	err := repo.db.SelectContext(ctx, &programs,
		"SELECT p.* FROM programs p"+f.where()+orderBy(ordering, "p.code")+limit, args...)
	if err != nil {
		return nil, 0, database.Err(err, "program", "filtering programs")
	}
	return programs, total, nil
}

func (repo programRepository) GetProgram(ctx context.Context, id string) (program.Program, error) {
	var p program.Program
	err := repo.db.GetContext(ctx, &p, "SELECT * FROM programs WHERE id = $1", id)
	return p, database.Err(err, "program", "getting program")
}

func (repo programRepository) CreateProgram(ctx context.Context, np program.NewProgram) (program.Program, error) {
	var p program.Program
	err := repo.db.GetContext(ctx, &p, `
		INSERT INTO programs (course_id, code, name_th, name_en, year)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`,
		np.CourseID, np.Code, np.NameTH, np.NameEN, np.Year,
	)
	return p, database.Err(err, "program", "inserting program")
}

func (repo programRepository) UpdateProgram(ctx context.Context, id string, up program.UpdateProgram) (program.Program, error) {
	var p program.Program
	err := repo.db.GetContext(ctx, &p, `
		UPDATE programs SET
			course_id  = COALESCE($1, course_id),
			code       = COALESCE($2, code),
			name_th    = COALESCE($3, name_th),
			name_en    = COALESCE($4, name_en),
			year       = COALESCE($5, year),
			updated_at = now()
		WHERE id = $6
		RETURNING *`,
		up.CourseID, up.Code, up.NameTH, up.NameEN, up.Year, id,
	)
	return p, database.Err(err, "program", "updating program")
}

func (repo programRepository) DeleteProgram(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "program", "DELETE FROM programs WHERE id = $1", id)
}

func (repo programRepository) QueryMajors(ctx context.Context, courseID string) ([]program.Major, error) {
	majors := make([]program.Major, 0)
	err := repo.db.SelectContext(ctx, &majors, "SELECT * FROM majors WHERE course_id = $1 ORDER BY code", courseID)
	return majors, database.Err(err, "major", "querying majors")
}

func (repo programRepository) CreateMajor(ctx context.Context, nm program.NewMajor) (program.Major, error) {
	var m program.Major
	err := repo.db.GetContext(ctx, &m, `
		INSERT INTO majors (course_id, code, name_th, name_en, description_th, description_en, plan_slots)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *`,
		nm.CourseID, nm.Code, nm.NameTH, nm.NameEN, nm.DescriptionTH, nm.DescriptionEN, nm.PlanSlots,
	)
	return m, database.Err(err, "major", "inserting major")
}

func (repo programRepository) UpdateMajor(ctx context.Context, id string, um program.UpdateMajor) (program.Major, error) {
	var m program.Major
	err := repo.db.GetContext(ctx, &m, `
		UPDATE majors SET
			code           = COALESCE($1, code),
			name_th        = COALESCE($2, name_th),
			name_en        = COALESCE($3, name_en),
			description_th = COALESCE($4, description_th),
			description_en = COALESCE($5, description_en),
			plan_slots     = COALESCE($6, plan_slots),
			updated_at     = now()
		WHERE id = $7
		RETURNING *`,
		um.Code, um.NameTH, um.NameEN, um.DescriptionTH, um.DescriptionEN, um.PlanSlots, id,
	)
	return m, database.Err(err, "major", "updating major")
}

func (repo programRepository) DeleteMajor(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "major", "DELETE FROM majors WHERE id = $1", id)
}

func (repo programRepository) QueryMajorGroups(ctx context.Context, programID string) ([]program.MajorGroup, error) {
	groups := make([]program.MajorGroup, 0)
	err := repo.db.SelectContext(ctx, &groups,
		majorGroupSelect+" WHERE mg.program_id = $1 ORDER BY mg.sort_order, mg.label", programID)
	return groups, database.Err(err, "major group", "querying major groups")
}

func (repo programRepository) getMajorGroup(ctx context.Context, id string) (program.MajorGroup, error) {
	var g program.MajorGroup
	err := repo.db.GetContext(ctx, &g, majorGroupSelect+" WHERE mg.id = $1", id)
	return g, database.Err(err, "major group", "getting major group")
}

func (repo programRepository) CreateMajorGroup(ctx context.Context, ng program.NewMajorGroup) (program.MajorGroup, error) {
	var id string
	err := repo.db.GetContext(ctx, &id, `
		INSERT INTO major_groups (program_id, major_id, label, icon, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		ng.ProgramID, ng.MajorID, ng.Label, ng.Icon, ng.SortOrder,
	)
	if err != nil {
		return program.MajorGroup{}, database.Err(err, "major group", "inserting major group")
	}
	return repo.getMajorGroup(ctx, id)
}

func (repo programRepository) UpdateMajorGroup(ctx context.Context, id string, ug program.UpdateMajorGroup) (program.MajorGroup, error) {
	var updated string
	err := repo.db.GetContext(ctx, &updated, `
		UPDATE major_groups SET
			major_id   = COALESCE($1, major_id),
			label      = COALESCE($2, label),
			icon       = COALESCE($3, icon),
			sort_order = COALESCE($4, sort_order),
			updated_at = now()
		WHERE id = $5
		RETURNING id`,
		ug.MajorID, ug.Label, ug.Icon, ug.SortOrder, id,
	)
	if err != nil {
		return program.MajorGroup{}, database.Err(err, "major group", "updating major group")
	}
	return repo.getMajorGroup(ctx, id)
}

func (repo programRepository) DeleteMajorGroup(ctx context.Context, id string) error {
	return deleteRow(ctx, repo.db, "major group", "DELETE FROM major_groups WHERE id = $1", id)
}
