package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chumcred/academy/core/course"
)

type courseApi struct {
	svc      *course.Service
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := courseApi{
		svc:      deps.CourseSvc,
		validate: deps.Validate,
	}

	cg := g.Group("/course", jwt)
	cg.GET("/modules", api.listModules)
	cg.GET("/modules/:week", api.retrieveModule)

	// content management is staff-only
	ag := cg.Group("", adminMiddleware())
	ag.POST("/materials", api.addMaterial)
	ag.PUT("/materials/:id", api.updateMaterial)
	ag.DELETE("/materials/:id", api.removeMaterial)
	ag.PUT("/assignments", api.setAssignment)
}

// Handlers

func (api *courseApi) listModules(ctx echo.Context) error {
	mods, err := api.svc.ListModules(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing modules")
	}
	if mods == nil {
		mods = []course.Module{}
	}
	return ctx.JSON(http.StatusOK, mods)
}

func (api *courseApi) retrieveModule(ctx echo.Context) error {
	week, err := strconv.Atoi(ctx.Param("week"))
	if err != nil {
		return course.ErrNotFound
	}
	mod, err := api.svc.GetModule(ctx.Request().Context(), week)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mod)
}

func (api *courseApi) addMaterial(ctx echo.Context) error {
	var data course.NewMaterial
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMaterial")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	mat, err := api.svc.AddMaterial(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mat)
}

func (api *courseApi) updateMaterial(ctx echo.Context) error {
	var data course.UpdateMaterial
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMaterial")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	mat, err := api.svc.UpdateMaterial(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mat)
}

func (api *courseApi) removeMaterial(ctx echo.Context) error {
	if err := api.svc.RemoveMaterial(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) setAssignment(ctx echo.Context) error {
	var data course.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.SetAssignment(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}
