package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core/studyplan"
)

type studyPlanApi struct {
	svc      *studyplan.Service
	validate *validator.Validate
}

func registerStudyPlanAPI(g *echo.Group, deps ServerDeps) {
	api := studyPlanApi{svc: deps.StudyPlanSvc, validate: deps.Validate}

	pg := g.Group("/study-plans")
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.GET("/:id", api.retrieve)
	pg.GET("/:id/full", api.full)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)

	sg := g.Group("/semesters")
	sg.POST("", api.createSemester)
	sg.PUT("/:id", api.updateSemester)
	sg.DELETE("/:id", api.destroySemester)
	sg.GET("/:id/subjects", api.semesterSubjects)

	ssg := g.Group("/semester-subjects")
	ssg.POST("", api.addSubject)
	ssg.PUT("/:id", api.updateSubject)
	ssg.DELETE("/:id", api.removeSubject)
}

func (api *studyPlanApi) query(ctx echo.Context) error {
	filter := new(studyplan.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	plans, total, err := api.svc.FilterPlans(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying study plans")
	}
	return paginated(ctx, plans, total, filter.Pagination)
}

func (api *studyPlanApi) retrieve(ctx echo.Context) error {
	plan, err := api.svc.GetPlan(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting study plan")
	}
	return ctx.JSON(http.StatusOK, plan)
}

func (api *studyPlanApi) full(ctx echo.Context) error {
	rows, err := api.svc.PlanRows(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying study plan rows")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *studyPlanApi) create(ctx echo.Context) error {
	var data studyplan.NewStudyPlan
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	plan, err := api.svc.CreatePlan(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating study plan")
	}
	return created(ctx, "study plan created", "study_plan", plan)
}

func (api *studyPlanApi) update(ctx echo.Context) error {
	var data studyplan.UpdateStudyPlan
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	plan, err := api.svc.UpdatePlan(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating study plan")
	}
	return updated(ctx, "study plan updated", "study_plan", plan)
}

func (api *studyPlanApi) destroy(ctx echo.Context) error {
	if err := api.svc.DeletePlan(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting study plan")
	}
	return done(ctx, "study plan deleted")
}

// Semesters

func (api *studyPlanApi) createSemester(ctx echo.Context) error {
	var data studyplan.NewSemester
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	sem, err := api.svc.CreateSemester(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating semester")
	}
	return created(ctx, "semester created", "semester", sem)
}

func (api *studyPlanApi) updateSemester(ctx echo.Context) error {
	var data studyplan.UpdateSemester
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	sem, err := api.svc.UpdateSemester(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating semester")
	}
	return updated(ctx, "semester updated", "semester", sem)
}

func (api *studyPlanApi) destroySemester(ctx echo.Context) error {
	if err := api.svc.DeleteSemester(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting semester")
	}
	return done(ctx, "semester deleted")
}

// Semester subjects: every write answers with the recomputed semester total.

type semesterSubjectResponse struct {
	Message         string                     `json:"message"`
	SemesterSubject *studyplan.SemesterSubject `json:"semester_subject,omitempty"`
	TotalCredits    int                        `json:"total_credits"`
}

func (api *studyPlanApi) semesterSubjects(ctx echo.Context) error {
	subjects, err := api.svc.SemesterSubjects(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying semester subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *studyPlanApi) addSubject(ctx echo.Context) error {
	var data studyplan.NewSemesterSubject
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	ss, total, err := api.svc.AddSubject(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding semester subject")
	}
	return ctx.JSON(http.StatusCreated, semesterSubjectResponse{
		Message:         "subject added to semester",
		SemesterSubject: &ss,
		TotalCredits:    total,
	})
}

func (api *studyPlanApi) updateSubject(ctx echo.Context) error {
	var data studyplan.UpdateSemesterSubject
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	ss, total, err := api.svc.UpdateSubject(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating semester subject")
	}
	return ctx.JSON(http.StatusOK, semesterSubjectResponse{
		Message:         "semester subject updated",
		SemesterSubject: &ss,
		TotalCredits:    total,
	})
}

func (api *studyPlanApi) removeSubject(ctx echo.Context) error {
	total, err := api.svc.RemoveSubject(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "removing semester subject")
	}
	return ctx.JSON(http.StatusOK, semesterSubjectResponse{
		Message:      "subject removed from semester",
		TotalCredits: total,
	})
}
