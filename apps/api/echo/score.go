package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core/score"
)

type scoreApi struct {
	svc      *score.Service
	validate *validator.Validate
}

func registerScoreAPI(g *echo.Group, deps ServerDeps) {
	api := scoreApi{svc: deps.ScoreSvc, validate: deps.Validate}

	g.GET("/programs/:id/plo-scores", api.query)
	g.GET("/programs/:id/plo-score-summary", api.summary)

	sg := g.Group("/plo-scores")
	sg.POST("", api.upsert)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

func (api *scoreApi) query(ctx echo.Context) error {
	filter := new(score.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	scores, err := api.svc.Scores(ctx.Request().Context(), ctx.Param("id"), *filter)
	if err != nil {
		return errors.Wrap(err, "querying PLO scores")
	}
	return ctx.JSON(http.StatusOK, scores)
}

func (api *scoreApi) summary(ctx echo.Context) error {
	filter := new(score.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	rows, err := api.svc.Summary(ctx.Request().Context(), ctx.Param("id"), filter.Year)
	if err != nil {
		return errors.Wrap(err, "querying PLO score summary")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *scoreApi) upsert(ctx echo.Context) error {
	var data score.UpsertScore
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	sc, err := api.svc.Upsert(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving PLO score")
	}
	return updated(ctx, "PLO score saved", "score", sc)
}

func (api *scoreApi) update(ctx echo.Context) error {
	var data score.UpdateScore
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	sc, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating PLO score")
	}
	return updated(ctx, "PLO score updated", "score", sc)
}

func (api *scoreApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting PLO score")
	}
	return done(ctx, "PLO score deleted")
}
