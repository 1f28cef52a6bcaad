package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core/alignment"
)

type alignmentApi struct {
	svc      *alignment.Service
	validate *validator.Validate
}

func registerAlignmentAPI(g *echo.Group, deps ServerDeps) {
	api := alignmentApi{svc: deps.AlignmentSvc, validate: deps.Validate}

	g.GET("/programs/:id/alignment-rows", api.query)

	ag := g.Group("/alignment-rows")
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
	ag.PUT("/:id/plo-checks", api.setPLOCheck)
	ag.PUT("/:id/mlo-checks", api.setMLOCheck)
}

func (api *alignmentApi) query(ctx echo.Context) error {
	rows, err := api.svc.Rows(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying alignment rows")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *alignmentApi) create(ctx echo.Context) error {
	var data alignment.NewRow
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	row, err := api.svc.CreateRow(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating alignment row")
	}
	return created(ctx, "alignment row created", "row", row)
}

func (api *alignmentApi) update(ctx echo.Context) error {
	var data alignment.UpdateRow
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	row, err := api.svc.UpdateRow(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating alignment row")
	}
	return updated(ctx, "alignment row updated", "row", row)
}

func (api *alignmentApi) destroy(ctx echo.Context) error {
	if err := api.svc.DeleteRow(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting alignment row")
	}
	return done(ctx, "alignment row deleted")
}

func (api *alignmentApi) setPLOCheck(ctx echo.Context) error {
	var data alignment.SetPLOCheck
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	if err := api.svc.SetPLOCheck(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "setting PLO check")
	}
	return done(ctx, "PLO check saved")
}

func (api *alignmentApi) setMLOCheck(ctx echo.Context) error {
	var data alignment.SetMLOCheck
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	if err := api.svc.SetMLOCheck(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "setting MLO check")
	}
	return done(ctx, "MLO check saved")
}
