package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chumcred/academy/core/submission"
)

type submissionApi struct {
	svc      *submission.Service
	validate *validator.Validate
}

func registerSubmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := submissionApi{
		svc:      deps.SubSvc,
		validate: deps.Validate,
	}

	sg := g.Group("/submissions", jwt)
	sg.POST("", api.submit)
	sg.GET("/ungraded", api.queryUngraded, adminMiddleware())

	dg := g.Group("/students/:id/submissions", jwt, ownerOrAdminMiddleware())
	dg.GET("", api.queryByStudent)
}

// Handlers

func (api *submissionApi) submit(ctx echo.Context) error {
	var data submission.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	// students always submit as themselves; admins may submit on behalf
	if !claims.IsAdmin || data.StudentID == "" {
		data.StudentID = claims.Subject
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *submissionApi) queryByStudent(ctx echo.Context) error {
	subs, err := api.svc.QueryByStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []submission.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionApi) queryUngraded(ctx echo.Context) error {
	subs, err := api.svc.QueryUngraded(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying ungraded submissions")
	}
	if subs == nil {
		subs = []submission.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}
