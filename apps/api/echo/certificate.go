package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chumcred/academy/core/certificate"
)

type certificateApi struct {
	svc *certificate.Service
}

func registerCertificateAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := certificateApi{svc: deps.CertSvc}

	cg := g.Group("/students/:id/certificate", jwt, ownerOrAdminMiddleware())
	cg.GET("", api.download)
	cg.GET("/eligibility", api.eligibility)
}

// Handlers

func (api *certificateApi) eligibility(ctx echo.Context) error {
	elig, err := api.svc.EvaluateEligibility(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "evaluating eligibility")
	}
	return ctx.JSON(http.StatusOK, elig)
}

func (api *certificateApi) download(ctx echo.Context) error {
	doc, err := api.svc.Render(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="certificate-%s.pdf"`, doc.SerialNumber),
	)
	return ctx.Blob(http.StatusOK, "application/pdf", doc.PDF)
}
