package sqlxrepos_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/outcome"
	"github.com/fmsedu/curriculum/core/program"
	"github.com/fmsedu/curriculum/core/studyplan"
	"github.com/fmsedu/curriculum/core/subject"
	"github.com/fmsedu/curriculum/core/user"
	"github.com/fmsedu/curriculum/storage/database/sqlxrepos"
	"github.com/fmsedu/curriculum/testutil"
)

func TestUserRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := sqlxrepos.NewUserRepository(db)
	ctx := context.Background()

	usr := testutil.CreateUser(t, db, "staff@cmu.ac.th", "Curr1culum!", user.RoleStaff, false)
	assert.False(t, usr.IsActive)

	t.Run("upsert overwrites and reactivates", func(t *testing.T) {
		again := user.User{Email: "staff@cmu.ac.th", Role: user.RoleAdmin}
		require.NoError(t, again.SetPassword("An0ther!pass"))
		got, err := repo.UpsertUser(ctx, again)
		require.NoError(t, err)
		assert.Equal(t, usr.ID, got.ID)
		assert.Equal(t, user.RoleAdmin, got.Role)
		assert.True(t, got.IsActive)
		assert.NoError(t, got.CheckPassword("An0ther!pass"))
	})

	t.Run("last login", func(t *testing.T) {
		at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		got, err := repo.SetLastLogin(ctx, usr.ID, at)
		require.NoError(t, err)
		assert.True(t, got.LastLogin.Time.Equal(at))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetUserByEmail(ctx, "nobody@cmu.ac.th")
		assert.True(t, core.IsNotFound(err))
		_, err = repo.GetUserByID(ctx, "00000000-0000-4000-8000-000000000000")
		assert.True(t, core.IsNotFound(err))
	})
}

func TestStudyPlanRepository_RecomputeAllCredits(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()
	progRepo := sqlxrepos.NewProgramRepository(db)
	subjRepo := sqlxrepos.NewSubjectRepository(db)
	repo := sqlxrepos.NewStudyPlanRepository(db)

	course, err := progRepo.CreateCourse(ctx, program.NewCourse{Code: "CPE", NameTH: "Computer engineering"})
	require.NoError(t, err)
	subj, err := subjRepo.CreateSubject(ctx, subject.NewSubject{Code: "261217", NameTH: "Algorithms", DefaultCredits: 3})
	require.NoError(t, err)
	plan, err := repo.CreateStudyPlan(ctx, studyplan.NewStudyPlan{
		CourseID: &course.ID, AcademicYear: 2023, YearNo: 1, Status: studyplan.StatusDraft,
	})
	require.NoError(t, err)
	sem, err := repo.CreateSemester(ctx, studyplan.NewSemester{StudyPlanID: plan.ID, Term: 1})
	require.NoError(t, err)

	_, total, err := repo.AddSemesterSubject(ctx, studyplan.NewSemesterSubject{SemesterID: sem.ID, SubjectID: subj.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	_, err = db.Exec("UPDATE semesters SET total_credits = 99 WHERE id = $1", sem.ID)
	require.NoError(t, err)

	changed, err := repo.RecomputeAllCredits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	changed, err = repo.RecomputeAllCredits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)

	// still placed in the semester
	err = subjRepo.DeleteSubject(ctx, subj.ID)
	assert.True(t, core.IsConflict(err), "got %v", err)
}

func TestStudyPlanRepository_concurrentSemesterSubjects(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()
	progRepo := sqlxrepos.NewProgramRepository(db)
	subjRepo := sqlxrepos.NewSubjectRepository(db)
	repo := sqlxrepos.NewStudyPlanRepository(db)

	course, err := progRepo.CreateCourse(ctx, program.NewCourse{Code: "CPE", NameTH: "Computer engineering"})
	require.NoError(t, err)
	plan, err := repo.CreateStudyPlan(ctx, studyplan.NewStudyPlan{
		CourseID: &course.ID, AcademicYear: 2023, YearNo: 1, Status: studyplan.StatusDraft,
	})
	require.NoError(t, err)
	sem, err := repo.CreateSemester(ctx, studyplan.NewSemester{StudyPlanID: plan.ID, Term: 1})
	require.NoError(t, err)

	const n = 8
	subjectIDs := make([]string, n)
	for i := range subjectIDs {
		subj, err := subjRepo.CreateSubject(ctx, subject.NewSubject{Code: fmt.Sprintf("2612%02d", i), NameTH: "Subject", DefaultCredits: 3})
		require.NoError(t, err)
		subjectIDs[i] = subj.ID
	}

	storedTotal := func() int {
		var total int
		require.NoError(t, db.Get(&total, "SELECT total_credits FROM semesters WHERE id = $1", sem.ID))
		return total
	}

	placed := make([]string, n)
	var wg sync.WaitGroup
	for i, subjectID := range subjectIDs {
		wg.Add(1)
		go func(i int, subjectID string) {
			defer wg.Done()
			ss, _, err := repo.AddSemesterSubject(ctx, studyplan.NewSemesterSubject{SemesterID: sem.ID, SubjectID: subjectID})
			assert.NoError(t, err)
			placed[i] = ss.ID
		}(i, subjectID)
	}
	wg.Wait()
	assert.Equal(t, 3*n, storedTotal())

	one := 1
	for _, id := range placed[:n/2] {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _, err := repo.UpdateSemesterSubject(ctx, id, studyplan.UpdateSemesterSubject{Credits: &one})
			assert.NoError(t, err)
		}(id)
	}
	for _, id := range placed[n/2:] {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := repo.RemoveSemesterSubject(ctx, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()
	assert.Equal(t, n/2, storedTotal())

	_, err = repo.RemoveSemesterSubject(ctx, placed[0])
	require.NoError(t, err)
	_, err = repo.RemoveSemesterSubject(ctx, placed[0])
	assert.True(t, core.IsNotFound(err), "got %v", err)
}

func TestSubjectRepository_search(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()
	repo := sqlxrepos.NewSubjectRepository(db)

	for _, ns := range []subject.NewSubject{
		{Code: "261217", NameTH: "Algorithms"},
		{Code: "261218", NameTH: "Practice 100% lab"},
		{Code: "261219", NameTH: "Data_Science"},
	} {
		_, err := repo.CreateSubject(ctx, ns)
		require.NoError(t, err)
	}

	tests := []struct {
		search string
		want   []string
	}{
		{search: "%", want: []string{"261218"}},
		{search: "_", want: []string{"261219"}},
		{search: "2612_8", want: nil},
		{search: "algo", want: []string{"261217"}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			qf := subject.QueryFilter{Search: tt.search}
			qf.Pagination.Clean()
			got, total, err := repo.FilterSubjects(ctx, qf, nil)
			require.NoError(t, err)
			var codes []string
			for _, s := range got {
				codes = append(codes, s.Code)
			}
			assert.Equal(t, tt.want, codes)
			assert.Equal(t, len(tt.want), total)
		})
	}
}

func TestOutcomeRepository_ReplaceLinks(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()
	progRepo := sqlxrepos.NewProgramRepository(db)
	repo := sqlxrepos.NewOutcomeRepository(db)

	prog, err := progRepo.CreateProgram(ctx, program.NewProgram{Code: "CS-2566", NameTH: "CS"})
	require.NoError(t, err)
	plo, err := repo.CreatePLO(ctx, outcome.NewPLO{ProgramID: prog.ID, Code: "PLO1", Description: "Analyze"})
	require.NoError(t, err)
	k1, err := repo.CreateKASItem(ctx, outcome.NewKASItem{ProgramID: prog.ID, Type: outcome.KASKnowledge, Code: "K1", Label: "Algorithms"})
	require.NoError(t, err)
	k2, err := repo.CreateKASItem(ctx, outcome.NewKASItem{ProgramID: prog.ID, Type: outcome.KASSkill, Code: "S1", Label: "Teamwork"})
	require.NoError(t, err)

	kasIDs := func() []string {
		plos, err := repo.QueryPLOs(ctx, prog.ID)
		require.NoError(t, err)
		require.Len(t, plos, 1)
		ids := make([]string, 0)
		for _, k := range plos[0].KAS {
			ids = append(ids, k.ID)
		}
		return ids
	}

	require.NoError(t, repo.ReplaceLinks(ctx, outcome.PLOKAS, plo.ID, []string{k1.ID, k2.ID}))
	assert.ElementsMatch(t, []string{k1.ID, k2.ID}, kasIDs())

	err = repo.ReplaceLinks(ctx, outcome.PLOKAS, plo.ID, []string{k2.ID, "00000000-0000-4000-8000-000000000000"})
	assert.True(t, core.IsValidation(err), "got %v", err)
	assert.ElementsMatch(t, []string{k1.ID, k2.ID}, kasIDs())

	require.NoError(t, repo.RemoveLink(ctx, outcome.PLOKAS, plo.ID, k1.ID))
	require.NoError(t, repo.RemoveLink(ctx, outcome.PLOKAS, plo.ID, k1.ID))
	assert.Equal(t, []string{k2.ID}, kasIDs())

	require.NoError(t, repo.ReplaceLinks(ctx, outcome.PLOKAS, plo.ID, nil))
	assert.Empty(t, kasIDs())
}
