package booking

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caregrid/admin-api/internal/platform/auth"
	"github.com/caregrid/admin-api/pkg/datefilter"
	"github.com/caregrid/admin-api/pkg/listview"
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
	readGroup.GET("/bookings", h.List)
	readGroup.GET("/bookings/:id", h.Get)
	readGroup.GET("/bookings/export", h.Export)
	readGroup.POST("/bookings/attachments/archive", h.ArchiveAttachments)

	writeGroup := api.Group("", auth.RequireRole("admin", "manager"))
	writeGroup.POST("/bookings", h.Create)
	writeGroup.PUT("/bookings/:id", h.Update)
	writeGroup.DELETE("/bookings/:id", h.Delete)
	writeGroup.POST("/bookings/:id/status", h.UpdateStatus)
}

func (h *Handler) Create(c echo.Context) error {
	var b Booking
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) List(c echo.Context) error {
	f, err := filterFromContext(c)
	if err != nil {
		return err
	}
	q, err := queryFromContext(c)
	if err != nil {
		return err
	}

	result, err := h.svc.List(c.Request().Context(), f, q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var b Booking
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b.ID = id
	if err := h.svc.Update(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !ValidStatus(req.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
	}

	b, err := h.svc.UpdateStatus(c.Request().Context(), id, Status(req.Status))
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Export(c echo.Context) error {
	f, err := filterFromContext(c)
	if err != nil {
		return err
	}
	q, err := queryFromContext(c)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("bookings-%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().WriteHeader(http.StatusOK)

	return h.svc.ExportCSV(c.Request().Context(), c.Response(), f, q)
}

type archiveRequest struct {
	BookingIDs []string `json:"booking_ids"`
}

func (h *Handler) ArchiveAttachments(c echo.Context) error {
	var req archiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ids := make([]uuid.UUID, 0, len(req.BookingIDs))
	for _, raw := range req.BookingIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid booking id %q", raw))
		}
		ids = append(ids, id)
	}

	// Build into a buffer first so a zero-file failure still reaches
	// the client as a 404 instead of a committed empty ZIP.
	var buf bytes.Buffer
	if _, err := h.svc.ArchiveAttachments(c.Request().Context(), &buf, ids); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	filename := fmt.Sprintf("booking-files-%s.zip", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/zip", buf.Bytes())
}

// filterFromContext builds the repository filter from the request. The
// company and diagnostic scopes come from token claims first, query
// parameters second.
func filterFromContext(c echo.Context) (Filter, error) {
	var f Filter
	if status := c.QueryParam("status"); status != "" {
		if !ValidStatus(status) {
			return f, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
		}
		f.Status = Status(status)
	}

	scope := auth.ScopeFromContext(c.Request().Context())

	companyRaw := scope.CompanyID
	if companyRaw == "" {
		companyRaw = c.QueryParam("company_id")
	}
	if companyRaw != "" {
		id, err := uuid.Parse(companyRaw)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid company id")
		}
		f.CompanyID = &id
	}

	centerRaw := scope.DiagnosticID
	if centerRaw == "" {
		centerRaw = c.QueryParam("diagnostic_center_id")
	}
	if centerRaw != "" {
		id, err := uuid.Parse(centerRaw)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid diagnostic center id")
		}
		f.DiagnosticCenterID = &id
	}
	return f, nil
}

// queryFromContext reads the search, date and page parameters shared by
// the listing and export endpoints.
func queryFromContext(c echo.Context) (listview.Query, error) {
	var q listview.Query
	q.Search = c.QueryParam("search")
	q.Page = pagination.FromContext(c)

	mode := c.QueryParam("date_mode")
	if mode == "" {
		mode = string(datefilter.ModeAll)
	}
	if !datefilter.IsValidMode(mode) {
		return q, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown date mode %q", mode))
	}

	var start, end time.Time
	if datefilter.Mode(mode) == datefilter.ModeCustom {
		var err error
		start, err = datefilter.ParseDate(c.QueryParam("start"))
		if err != nil {
			return q, echo.NewHTTPError(http.StatusBadRequest, "invalid start date")
		}
		end, err = datefilter.ParseDate(c.QueryParam("end"))
		if err != nil {
			return q, echo.NewHTTPError(http.StatusBadRequest, "invalid end date")
		}
	}

	filter, err := datefilter.New(datefilter.Mode(mode), start, end)
	if err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	q.Date = filter
	return q, nil
}
