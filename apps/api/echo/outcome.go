package echoapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core/outcome"
)

type outcomeApi struct {
	svc      *outcome.Service
	validate *validator.Validate
}

func registerOutcomeAPI(g *echo.Group, deps ServerDeps) {
	api := outcomeApi{svc: deps.OutcomeSvc, validate: deps.Validate}

	g.GET("/programs/:id/plos", api.queryPLOs)
	g.POST("/plos", api.createPLO)
	g.PUT("/plos/:id", api.updatePLO)
	g.DELETE("/plos/:id", api.destroyPLO)

	g.GET("/programs/:id/kas-items", api.queryKASItems)
	g.POST("/kas-items", api.createKASItem)
	g.PUT("/kas-items/:id", api.updateKASItem)
	g.DELETE("/kas-items/:id", api.destroyKASItem)

	g.GET("/major-groups/:id/mlos", api.queryMLOs)
	g.POST("/mlos", api.createMLO)
	g.PUT("/mlos/:id", api.updateMLO)
	g.DELETE("/mlos/:id", api.destroyMLO)

	g.GET("/subjects/:id/clos", api.queryCLOs)
	g.POST("/clos", api.createCLO)
	g.GET("/clos/:id", api.retrieveCLO)
	g.PUT("/clos/:id", api.updateCLO)
	g.DELETE("/clos/:id", api.destroyCLO)
	g.GET("/programs/:id/clo-full", api.cloFull)

	// POST replaces the owner's whole set, DELETE removes one pair
	for _, rel := range outcome.Relations {
		g.POST("/"+rel.Name, api.replaceLinks(rel))
		g.DELETE("/"+rel.Name, api.removeLink(rel))
	}
}

// PLOs

func (api *outcomeApi) queryPLOs(ctx echo.Context) error {
	plos, err := api.svc.PLOs(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying PLOs")
	}
	return ctx.JSON(http.StatusOK, plos)
}

func (api *outcomeApi) createPLO(ctx echo.Context) error {
	var data outcome.NewPLO
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	plo, err := api.svc.CreatePLO(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating PLO")
	}
	return created(ctx, "PLO created", "plo", plo)
}

func (api *outcomeApi) updatePLO(ctx echo.Context) error {
	var data outcome.UpdateOutcome
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	plo, err := api.svc.UpdatePLO(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating PLO")
	}
	return updated(ctx, "PLO updated", "plo", plo)
}

func (api *outcomeApi) destroyPLO(ctx echo.Context) error {
	if err := api.svc.DeletePLO(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting PLO")
	}
	return done(ctx, "PLO deleted")
}

// KAS items

func (api *outcomeApi) queryKASItems(ctx echo.Context) error {
	items, err := api.svc.KASItems(ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam("type"))
	if err != nil {
		return errors.Wrap(err, "querying KAS items")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *outcomeApi) createKASItem(ctx echo.Context) error {
	var data outcome.NewKASItem
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	item, err := api.svc.CreateKASItem(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating KAS item")
	}
	return created(ctx, "KAS item created", "item", item)
}

func (api *outcomeApi) updateKASItem(ctx echo.Context) error {
	var data outcome.UpdateKASItem
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	item, err := api.svc.UpdateKASItem(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating KAS item")
	}
	return updated(ctx, "KAS item updated", "item", item)
}

func (api *outcomeApi) destroyKASItem(ctx echo.Context) error {
	if err := api.svc.DeleteKASItem(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting KAS item")
	}
	return done(ctx, "KAS item deleted")
}

// MLOs

func (api *outcomeApi) queryMLOs(ctx echo.Context) error {
	mlos, err := api.svc.MLOs(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying MLOs")
	}
	return ctx.JSON(http.StatusOK, mlos)
}

func (api *outcomeApi) createMLO(ctx echo.Context) error {
	var data outcome.NewMLO
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	mlo, err := api.svc.CreateMLO(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating MLO")
	}
	return created(ctx, "MLO created", "mlo", mlo)
}

func (api *outcomeApi) updateMLO(ctx echo.Context) error {
	var data outcome.UpdateOutcome
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	mlo, err := api.svc.UpdateMLO(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating MLO")
	}
	return updated(ctx, "MLO updated", "mlo", mlo)
}

func (api *outcomeApi) destroyMLO(ctx echo.Context) error {
	if err := api.svc.DeleteMLO(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting MLO")
	}
	return done(ctx, "MLO deleted")
}

// CLOs

func (api *outcomeApi) queryCLOs(ctx echo.Context) error {
	clos, err := api.svc.CLOs(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying CLOs")
	}
	return ctx.JSON(http.StatusOK, clos)
}

func (api *outcomeApi) retrieveCLO(ctx echo.Context) error {
	clo, err := api.svc.GetCLO(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting CLO")
	}
	return ctx.JSON(http.StatusOK, clo)
}

func (api *outcomeApi) createCLO(ctx echo.Context) error {
	var data outcome.NewCLO
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	clo, err := api.svc.CreateCLO(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating CLO")
	}
	return created(ctx, "CLO created", "clo", clo)
}

func (api *outcomeApi) updateCLO(ctx echo.Context) error {
	var data outcome.UpdateCLO
	if err := bind(ctx, api.validate, &data); err != nil {
		return err
	}
	clo, err := api.svc.UpdateCLO(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating CLO")
	}
	return updated(ctx, "CLO updated", "clo", clo)
}

func (api *outcomeApi) destroyCLO(ctx echo.Context) error {
	if err := api.svc.DeleteCLO(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting CLO")
	}
	return done(ctx, "CLO deleted")
}

func (api *outcomeApi) cloFull(ctx echo.Context) error {
	rows, err := api.svc.CLOFull(ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam("subject_id"))
	if err != nil {
		return errors.Wrap(err, "querying full CLOs")
	}
	return ctx.JSON(http.StatusOK, rows)
}

// Links

func (api *outcomeApi) replaceLinks(rel outcome.Relation) echo.HandlerFunc {
	label := strings.ToUpper(rel.Name)
	return func(ctx echo.Context) error {
		set := outcome.NewLinkSet(rel)
		if err := bind(ctx, api.validate, set); err != nil {
			return err
		}
		if err := api.svc.ReplaceLinks(ctx.Request().Context(), rel, set); err != nil {
			return errors.Wrapf(err, "replacing %s links", rel.Name)
		}
		return done(ctx, label+" links saved")
	}
}

func (api *outcomeApi) removeLink(rel outcome.Relation) echo.HandlerFunc {
	label := strings.ToUpper(rel.Name)
	return func(ctx echo.Context) error {
		pair := outcome.NewLinkPair(rel)
		if err := bind(ctx, api.validate, pair); err != nil {
			return err
		}
		if err := api.svc.RemoveLink(ctx.Request().Context(), rel, pair); err != nil {
			return errors.Wrapf(err, "removing %s link", rel.Name)
		}
		return done(ctx, label+" link removed")
	}
}
