package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chumcred/academy/core/grading"
	"github.com/chumcred/academy/core/user"
)

type gradingApi struct {
	svc      *grading.Service
	usrSvc   *user.Service
	validate *validator.Validate
}

func registerGradingAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := gradingApi{
		svc:      deps.GrdSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	gg := g.Group("/grades", jwt)
	gg.POST("", api.grade, adminMiddleware())

	dg := g.Group("/students/:id/grades", jwt)
	dg.GET("", api.queryByStudent)
	dg.GET("/:week", api.retrieve)
}

// Handlers

func (api *gradingApi) grade(ctx echo.Context) error {
	var data grading.GradeInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	grader, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	grd, err := api.svc.Grade(ctx.Request().Context(), grader, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grd)
}

func (api *gradingApi) queryByStudent(ctx echo.Context) error {
	requester, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	grds, err := api.svc.QueryFor(ctx.Request().Context(), requester, ctx.Param("id"))
	if err != nil {
		return err
	}
	if grds == nil {
		grds = []grading.Grade{}
	}
	return ctx.JSON(http.StatusOK, grds)
}

func (api *gradingApi) retrieve(ctx echo.Context) error {
	week, err := strconv.Atoi(ctx.Param("week"))
	if err != nil {
		return grading.ErrNotFound
	}

	requester, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	grd, err := api.svc.GetFor(ctx.Request().Context(), requester, ctx.Param("id"), week)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grd)
}
