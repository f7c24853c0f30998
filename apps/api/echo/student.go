package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/formacion/core/deal"
	"github.com/trezcool/formacion/core/student"
)

var errStdNotFoundInCtx = errors.New("student object not found in echo.Context")

type studentApi struct {
	dealSvc  deal.Service
	svc      student.Service
	validate *validator.Validate
}

func registerStudentAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	dealSvc deal.Service,
	svc student.Service,
	validate *validator.Validate,
) {
	api := studentApi{
		dealSvc:  dealSvc,
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/deals/:id/sessions/:sessionId/alumnos", jwt, api.sessionMiddleware)
	sg.GET("", api.query)
	sg.POST("", api.create, roleMiddleware(RoleOperator))

	// detail endpoints
	dg := g.Group("/alumnos/:id", jwt, api.objectMiddleware)
	dg.GET("", api.retrieve)
	dg.PATCH("", api.update, roleMiddleware(RoleOperator))
	dg.DELETE("", api.destroy, roleMiddleware(RoleOperator))
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	students, err := api.svc.QuerySessionStudents(ctx.Request().Context(), ctx.Param("id"), ctx.Param("sessionId"), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	data.DealID = ctx.Param("id")
	data.SessionID = ctx.Param("sessionId")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStdNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	std, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStdNotFoundInCtx, "retrieving object from context")
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.IsEmpty() {
		return ctx.JSON(http.StatusOK, std)
	}

	std, err := api.svc.Update(ctx.Request().Context(), std.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	std, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errStdNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), std.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// sessionMiddleware 404s unless the session belongs to the deal.
func (api *studentApi) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sessions, err := api.dealSvc.Sessions(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			return errors.Wrap(err, "querying sessions")
		}
		for _, s := range sessions {
			if s.ID == ctx.Param("sessionId") {
				return next(ctx)
			}
		}
		return errHttpNotFound
	}
}

func (api *studentApi) objectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		std, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "finding student")
		}
		ctx.Set("object", std)
		return next(ctx)
	}
}
