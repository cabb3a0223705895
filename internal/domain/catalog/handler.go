package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caregrid/admin-api/internal/platform/auth"
	"github.com/caregrid/admin-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "manager", "operator"))
	readGroup.GET("/packages", h.ListPackages)
	readGroup.GET("/packages/:id", h.GetPackage)
	readGroup.GET("/packages/export", h.ExportPackages)
	readGroup.GET("/tests", h.ListTests)
	readGroup.GET("/tests/:id", h.GetTest)
	readGroup.GET("/tests/export", h.ExportTests)
	readGroup.GET("/xrays", h.ListXRays)
	readGroup.GET("/xrays/:id", h.GetXRay)

	writeGroup := api.Group("", auth.RequireRole("admin", "manager"))
	writeGroup.POST("/packages", h.CreatePackage)
	writeGroup.PUT("/packages/:id", h.UpdatePackage)
	writeGroup.DELETE("/packages/:id", h.DeletePackage)
	writeGroup.POST("/packages/import", h.ImportPackages)
	writeGroup.POST("/tests", h.CreateTest)
	writeGroup.PUT("/tests/:id", h.UpdateTest)
	writeGroup.DELETE("/tests/:id", h.DeleteTest)
	writeGroup.POST("/tests/import", h.ImportTests)
	writeGroup.POST("/xrays", h.CreateXRay)
	writeGroup.PUT("/xrays/:id", h.UpdateXRay)
	writeGroup.DELETE("/xrays/:id", h.DeleteXRay)
}

// -- HealthPackage Handlers --

func (h *Handler) CreatePackage(c echo.Context) error {
	var p HealthPackage
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePackage(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPackage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPackage(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "package not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPackages(c echo.Context) error {
	p := pagination.FromContext(c)
	packages, total, err := h.svc.ListPackages(c.Request().Context(), c.QueryParam("search"), p.Limit(), p.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(packages, total, p))
}

func (h *Handler) UpdatePackage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p HealthPackage
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdatePackage(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePackage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePackage(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ExportPackages(c echo.Context) error {
	return h.export(c, "packages", h.svc.ExportPackages)
}

func (h *Handler) ImportPackages(c echo.Context) error {
	return h.importFile(c, h.svc.ImportPackages)
}

// -- LabTest Handlers --

func (h *Handler) CreateTest(c echo.Context) error {
	var t LabTest
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateTest(c.Request().Context(), &t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) GetTest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	t, err := h.svc.GetTest(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "test not found")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) ListTests(c echo.Context) error {
	p := pagination.FromContext(c)
	tests, total, err := h.svc.ListTests(c.Request().Context(), c.QueryParam("search"), c.QueryParam("category"), p.Limit(), p.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(tests, total, p))
}

func (h *Handler) UpdateTest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var t LabTest
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ID = id
	if err := h.svc.UpdateTest(c.Request().Context(), &t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteTest(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ExportTests(c echo.Context) error {
	return h.export(c, "tests", h.svc.ExportTests)
}

func (h *Handler) ImportTests(c echo.Context) error {
	return h.importFile(c, h.svc.ImportTests)
}

// -- XRayService Handlers --

func (h *Handler) CreateXRay(c echo.Context) error {
	var x XRayService
	if err := c.Bind(&x); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateXRay(c.Request().Context(), &x); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, x)
}

func (h *Handler) GetXRay(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	x, err := h.svc.GetXRay(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "x-ray service not found")
	}
	return c.JSON(http.StatusOK, x)
}

func (h *Handler) ListXRays(c echo.Context) error {
	p := pagination.FromContext(c)
	services, total, err := h.svc.ListXRays(c.Request().Context(), c.QueryParam("search"), p.Limit(), p.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(services, total, p))
}

func (h *Handler) UpdateXRay(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var x XRayService
	if err := c.Bind(&x); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	x.ID = id
	if err := h.svc.UpdateXRay(c.Request().Context(), &x); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, x)
}

func (h *Handler) DeleteXRay(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteXRay(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- shared bulk helpers --

func (h *Handler) export(c echo.Context, name string, write func(ctx context.Context, w io.Writer, format string) error) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}
	filename := fmt.Sprintf("%s-%s.%s", name, time.Now().Format("2006-01-02"), format)

	contentType := "text/csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)

	return write(c.Request().Context(), c.Response(), format)
}

func (h *Handler) importFile(c echo.Context, ingest func(ctx context.Context, filename string, r io.Reader) (int, error)) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	created, err := ingest(c.Request().Context(), file.Filename, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"imported": created})
}
