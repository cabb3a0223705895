package directory

import (
	"fmt"
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
	readGroup.GET("/diagnostic-centers", h.ListCenters)
	readGroup.GET("/diagnostic-centers/:id", h.GetCenter)
	readGroup.GET("/doctors", h.ListDoctors)
	readGroup.GET("/doctors/:id", h.GetDoctor)
	readGroup.GET("/doctors/:id/slots", h.ListSlots)
	readGroup.GET("/staff", h.ListStaff)
	readGroup.GET("/staff/:id", h.GetStaff)
	readGroup.GET("/staff/export", h.ExportStaff)

	writeGroup := api.Group("", auth.RequireRole("admin", "manager"))
	writeGroup.POST("/diagnostic-centers", h.CreateCenter)
	writeGroup.PUT("/diagnostic-centers/:id", h.UpdateCenter)
	writeGroup.DELETE("/diagnostic-centers/:id", h.DeleteCenter)
	writeGroup.POST("/doctors", h.CreateDoctor)
	writeGroup.PUT("/doctors/:id", h.UpdateDoctor)
	writeGroup.DELETE("/doctors/:id", h.DeleteDoctor)
	writeGroup.POST("/doctors/:id/slots", h.CreateSlot)
	writeGroup.PUT("/slots/:id", h.PatchSlot)
	writeGroup.DELETE("/slots/:id", h.DeleteSlot)
	writeGroup.POST("/staff", h.CreateStaff)
	writeGroup.PUT("/staff/:id", h.UpdateStaff)
	writeGroup.DELETE("/staff/:id", h.DeleteStaff)
	writeGroup.POST("/staff/import", h.ImportStaff)
}

// -- DiagnosticCenter Handlers --

func (h *Handler) CreateCenter(c echo.Context) error {
	var dc DiagnosticCenter
	if err := c.Bind(&dc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateCenter(c.Request().Context(), &dc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, dc)
}

func (h *Handler) GetCenter(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	dc, err := h.svc.GetCenter(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "diagnostic center not found")
	}
	return c.JSON(http.StatusOK, dc)
}

func (h *Handler) ListCenters(c echo.Context) error {
	p := pagination.FromContext(c)
	centers, total, err := h.svc.ListCenters(c.Request().Context(), c.QueryParam("search"), p.Limit(), p.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(centers, total, p))
}

func (h *Handler) UpdateCenter(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var dc DiagnosticCenter
	if err := c.Bind(&dc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	dc.ID = id
	if err := h.svc.UpdateCenter(c.Request().Context(), &dc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, dc)
}

func (h *Handler) DeleteCenter(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteCenter(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Doctor Handlers --

func (h *Handler) CreateDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDoctor(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	p := pagination.FromContext(c)

	var centerID *uuid.UUID
	if scope := auth.ScopeFromContext(c.Request().Context()); scope.DiagnosticID != "" {
		id, err := uuid.Parse(scope.DiagnosticID)
		if err == nil {
			centerID = &id
		}
	} else if v := c.QueryParam("diagnostic_center_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid diagnostic_center_id")
		}
		centerID = &id
	}

	doctors, total, err := h.svc.ListDoctors(c.Request().Context(), c.QueryParam("search"), centerID, p.Limit(), p.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(doctors, total, p))
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id
	if err := h.svc.UpdateDoctor(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteDoctor(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- DoctorSlot Handlers --

func (h *Handler) CreateSlot(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	var slot DoctorSlot
	if err := c.Bind(&slot); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	slot.DoctorID = doctorID
	if err := h.svc.CreateSlot(c.Request().Context(), &slot); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, slot)
}

func (h *Handler) ListSlots(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	slots, err := h.svc.ListSlots(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": slots})
}

func (h *Handler) PatchSlot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var patch SlotPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	slot, err := h.svc.PatchSlot(c.Request().Context(), id, patch)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, slot)
}

func (h *Handler) DeleteSlot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteSlot(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Staff Handlers --

func (h *Handler) CreateStaff(c echo.Context) error {
	var member Staff
	if err := c.Bind(&member); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if member.DiagnosticCenterID == uuid.Nil {
		centerID, err := h.centerScope(c)
		if err != nil {
			return err
		}
		member.DiagnosticCenterID = centerID
	}
	if err := h.svc.CreateStaff(c.Request().Context(), &member); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, member)
}

func (h *Handler) GetStaff(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	member, err := h.svc.GetStaff(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "staff member not found")
	}
	return c.JSON(http.StatusOK, member)
}

func (h *Handler) ListStaff(c echo.Context) error {
	centerID, err := h.centerScope(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	members, total, err := h.svc.ListStaff(c.Request().Context(), centerID, c.QueryParam("search"), p.Limit(), p.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(members, total, p))
}

func (h *Handler) UpdateStaff(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var member Staff
	if err := c.Bind(&member); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	member.ID = id
	if err := h.svc.UpdateStaff(c.Request().Context(), &member); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, member)
}

func (h *Handler) DeleteStaff(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteStaff(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ExportStaff(c echo.Context) error {
	centerID, err := h.centerScope(c)
	if err != nil {
		return err
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}
	filename := fmt.Sprintf("staff-%s.%s", time.Now().Format("2006-01-02"), format)

	contentType := "text/csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)

	return h.svc.ExportStaff(c.Request().Context(), c.Response(), centerID, format)
}

func (h *Handler) ImportStaff(c echo.Context) error {
	centerID, err := h.centerScope(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	created, err := h.svc.ImportStaff(c.Request().Context(), centerID, file.Filename, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"imported": created})
}

// centerScope resolves the diagnostic center a request operates on. Token
// claims win over the query parameter.
func (h *Handler) centerScope(c echo.Context) (uuid.UUID, error) {
	raw, err := auth.RequireDiagnosticScope(c)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid diagnostic center id")
	}
	return id, nil
}
