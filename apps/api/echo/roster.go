package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/formacion/core"
	"github.com/trezcool/formacion/core/deal"
	"github.com/trezcool/formacion/core/roster"
)

type rosterApi struct {
	conf      *core.Config
	dealSvc   deal.Service
	rosterSvc roster.Service
}

func registerRosterAPI(g *echo.Group, jwt echo.MiddlewareFunc, conf *core.Config, dealSvc deal.Service, rosterSvc roster.Service) {
	api := rosterApi{
		conf:      conf,
		dealSvc:   dealSvc,
		rosterSvc: rosterSvc,
	}

	dg := g.Group("/deals/:id", jwt)
	dg.GET("", api.retrieveDeal)
	dg.GET("/sessions", api.querySessions)
	dg.GET("/sync-target", api.syncTarget)
	dg.GET("/roster", api.extract)
	dg.GET("/roster/preview", api.preview)
	dg.POST("/roster/sync", api.sync, roleMiddleware(RoleOperator))
}

type (
	SyncTargetResponse struct {
		Session *deal.Session `json:"session"`
	}

	SyncResponse struct {
		roster.Outcome
		Error string `json:"error,omitempty"`
	}
)

func (api *rosterApi) retrieveDeal(ctx echo.Context) error {
	dl, err := api.dealSvc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding deal")
	}
	return ctx.JSON(http.StatusOK, dl)
}

func (api *rosterApi) querySessions(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	dl, err := api.dealSvc.Get(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding deal")
	}
	sessions, err := api.dealSvc.Sessions(reqCtx, dl.ID)
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *rosterApi) syncTarget(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	dl, err := api.dealSvc.Get(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding deal")
	}

	var res SyncTargetResponse
	sess, ok, err := api.dealSvc.SyncTarget(reqCtx, dl.ID)
	if err != nil {
		return errors.Wrap(err, "selecting sync target")
	}
	if ok {
		res.Session = &sess
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *rosterApi) extract(ctx echo.Context) error {
	ext, err := api.rosterSvc.Extract(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "extracting roster")
	}
	return ctx.JSON(http.StatusOK, ext)
}

func (api *rosterApi) preview(ctx echo.Context) error {
	prv, err := api.rosterSvc.Preview(ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam("session_id"))
	if err != nil {
		return errors.Wrap(err, "previewing roster sync")
	}
	return ctx.JSON(http.StatusOK, prv)
}

func (api *rosterApi) sync(ctx echo.Context) error {
	var opts roster.SyncOptions
	if err := ctx.Bind(&opts); err != nil {
		return errors.Wrap(err, "binding to SyncOptions")
	}

	// a client going away must not interrupt the run
	syncCtx, cancel := context.WithTimeout(context.Background(), api.conf.Roster.SyncTimeout)
	defer cancel()

	out, err := api.rosterSvc.SyncDeal(syncCtx, ctx.Param("id"), opts)
	if err != nil {
		if out.Status == roster.StatusFailed {
			// partial changes were applied and are reported
			return ctx.JSON(http.StatusBadGateway, SyncResponse{Outcome: out, Error: err.Error()})
		}
		return errors.Wrap(err, "syncing roster")
	}
	return ctx.JSON(http.StatusOK, SyncResponse{Outcome: out})
}
