package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core/survey"
)

type surveyApi struct {
	svc      *survey.Service
	validate *validator.Validate
}

func registerSurveyAPI(g *echo.Group, deps ServerDeps) {
	api := surveyApi{svc: deps.SurveySvc, validate: deps.Validate}

	g.GET("/programs/:id/stakeholders", api.queryStakeholders)
	g.POST("/stakeholders", api.createStakeholder)
	g.PUT("/stakeholders/:id", api.updateStakeholder)
	g.DELETE("/stakeholders/:id", api.destroyStakeholder)

	sg := g.Group("/surveys")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/:id", api.retrieve)
	sg.DELETE("/:id", api.destroy)
	sg.GET("/:id/matrix", api.matrix)
	sg.GET("/:id/summary", api.summary)
	sg.POST("/:id/mappings", api.replaceMappings)
	sg.PUT("/:id/mappings/single", api.setMapping)
	sg.POST("/:id/import-excel", api.importExcel)
}

// Stakeholders

func (api *surveyApi) queryStakeholders(ctx echo.Context) error {
	stakeholders, err := api.svc.Stakeholders(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying stakeholders")
	}
	return ctx.JSON(http.StatusOK, stakeholders)
}

func (api *surveyApi) createStakeholder(ctx echo.Context) error {
	var data survey.NewStakeholder
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	sh, err := api.svc.CreateStakeholder(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating stakeholder")
	}
	return created(ctx, "stakeholder created", "stakeholder", sh)
}

func (api *surveyApi) updateStakeholder(ctx echo.Context) error {
	var data survey.UpdateStakeholder
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	sh, err := api.svc.UpdateStakeholder(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating stakeholder")
	}
	return updated(ctx, "stakeholder updated", "stakeholder", sh)
}

// destroyStakeholder only deactivates: past survey answers keep pointing at the row.
func (api *surveyApi) destroyStakeholder(ctx echo.Context) error {
	if err := api.svc.DeleteStakeholder(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deactivating stakeholder")
	}
	return done(ctx, "stakeholder deleted")
}

// Surveys

func (api *surveyApi) query(ctx echo.Context) error {
	filter := new(survey.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	surveys, err := api.svc.Surveys(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying surveys")
	}
	return ctx.JSON(http.StatusOK, surveys)
}

func (api *surveyApi) retrieve(ctx echo.Context) error {
	sv, err := api.svc.GetSurvey(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting survey")
	}
	return ctx.JSON(http.StatusOK, sv)
}

func (api *surveyApi) create(ctx echo.Context) error {
	var data survey.NewSurvey
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	sv, err := api.svc.CreateSurvey(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating survey")
	}
	return created(ctx, "survey created", "survey", sv)
}

func (api *surveyApi) destroy(ctx echo.Context) error {
	if err := api.svc.DeleteSurvey(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting survey")
	}
	return done(ctx, "survey deleted")
}

func (api *surveyApi) matrix(ctx echo.Context) error {
	cells, err := api.svc.Matrix(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying survey matrix")
	}
	return ctx.JSON(http.StatusOK, cells)
}

func (api *surveyApi) summary(ctx echo.Context) error {
	rows, err := api.svc.Summary(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying survey summary")
	}
	return ctx.JSON(http.StatusOK, rows)
}

// Mappings

func (api *surveyApi) replaceMappings(ctx echo.Context) error {
	var data survey.ReplaceMappings
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	n, err := api.svc.ReplaceMappings(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "replacing survey mappings")
	}
	return done(ctx, fmt.Sprintf("%d mappings saved", n))
}

func (api *surveyApi) setMapping(ctx echo.Context) error {
	var data survey.SetMapping
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	if err := api.svc.SetMapping(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "setting survey mapping")
	}
	return done(ctx, "mapping saved")
}

func (api *surveyApi) importExcel(ctx echo.Context) error {
	var data survey.ImportRequest
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	count, err := api.svc.Import(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "importing survey mappings")
	}
	return ctx.JSON(http.StatusOK, ImportResponse{
		Message: fmt.Sprintf("imported %d mappings", count),
		Count:   count,
	})
}

type ImportResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}
