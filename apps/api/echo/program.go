package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core/program"
)

type programApi struct {
	svc      *program.Service
	validate *validator.Validate
}

func registerProgramAPI(g *echo.Group, deps ServerDeps) {
	api := programApi{svc: deps.ProgramSvc, validate: deps.Validate}

	g.GET("/courses", api.queryCourses)
	g.POST("/courses", api.createCourse)
	g.PUT("/courses/:id", api.updateCourse)
	g.DELETE("/courses/:id", api.destroyCourse)
	g.GET("/courses/:id/majors", api.queryMajors)

	g.GET("/programs", api.queryPrograms)
	g.POST("/programs", api.createProgram)
	g.GET("/programs/:id", api.retrieveProgram)
	g.PUT("/programs/:id", api.updateProgram)
	g.DELETE("/programs/:id", api.destroyProgram)
	g.GET("/programs/:id/major-groups", api.queryMajorGroups)

	g.POST("/majors", api.createMajor)
	g.PUT("/majors/:id", api.updateMajor)
	g.DELETE("/majors/:id", api.destroyMajor)

	g.POST("/major-groups", api.createMajorGroup)
	g.PUT("/major-groups/:id", api.updateMajorGroup)
	g.DELETE("/major-groups/:id", api.destroyMajorGroup)
}

// Courses

func (api *programApi) queryCourses(ctx echo.Context) error {
	courses, err := api.svc.QueryCourses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *programApi) createCourse(ctx echo.Context) error {
	var data program.NewCourse
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	course, err := api.svc.CreateCourse(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return created(ctx, "course created", "course", course)
}

func (api *programApi) updateCourse(ctx echo.Context) error {
	var data program.UpdateCourse
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	course, err := api.svc.UpdateCourse(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return updated(ctx, "course updated", "course", course)
}

func (api *programApi) destroyCourse(ctx echo.Context) error {
	if err := api.svc.DeleteCourse(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return done(ctx, "course deleted")
}

// Programs

func (api *programApi) queryPrograms(ctx echo.Context) error {
	filter := new(program.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	programs, total, err := api.svc.FilterPrograms(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying programs")
	}
	return paginated(ctx, programs, total, filter.Pagination)
}

func (api *programApi) retrieveProgram(ctx echo.Context) error {
	prog, err := api.svc.GetProgram(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting program")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *programApi) createProgram(ctx echo.Context) error {
	var data program.NewProgram
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	prog, err := api.svc.CreateProgram(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating program")
	}
	return created(ctx, "program created", "program", prog)
}

func (api *programApi) updateProgram(ctx echo.Context) error {
	var data program.UpdateProgram
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	prog, err := api.svc.UpdateProgram(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating program")
	}
	return updated(ctx, "program updated", "program", prog)
}

func (api *programApi) destroyProgram(ctx echo.Context) error {
	if err := api.svc.DeleteProgram(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting program")
	}
	return done(ctx, "program deleted")
}

// Majors

func (api *programApi) queryMajors(ctx echo.Context) error {
	majors, err := api.svc.QueryMajors(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying majors")
	}
	return ctx.JSON(http.StatusOK, majors)
}

func (api *programApi) createMajor(ctx echo.Context) error {
	var data program.NewMajor
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	major, err := api.svc.CreateMajor(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating major")
	}
	return created(ctx, "major created", "major", major)
}

func (api *programApi) updateMajor(ctx echo.Context) error {
	var data program.UpdateMajor
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	major, err := api.svc.UpdateMajor(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating major")
	}
	return updated(ctx, "major updated", "major", major)
}

func (api *programApi) destroyMajor(ctx echo.Context) error {
	if err := api.svc.DeleteMajor(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting major")
	}
	return done(ctx, "major deleted")
}

// Major groups

func (api *programApi) queryMajorGroups(ctx echo.Context) error {
	groups, err := api.svc.QueryMajorGroups(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying major groups")
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *programApi) createMajorGroup(ctx echo.Context) error {
	var data program.NewMajorGroup
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	group, err := api.svc.CreateMajorGroup(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating major group")
	}
	return created(ctx, "major group created", "group", group)
}

func (api *programApi) updateMajorGroup(ctx echo.Context) error {
	var data program.UpdateMajorGroup
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	group, err := api.svc.UpdateMajorGroup(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating major group")
	}
	return updated(ctx, "major group updated", "group", group)
}

func (api *programApi) destroyMajorGroup(ctx echo.Context) error {
	if err := api.svc.DeleteMajorGroup(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting major group")
	}
	return done(ctx, "major group deleted")
}
