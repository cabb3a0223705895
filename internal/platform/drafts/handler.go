package drafts

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caregrid/admin-api/pkg/editsession"
)

type Handler struct {
	mgr *Manager
}

func NewHandler(mgr *Manager) *Handler {
	return &Handler{mgr: mgr}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/drafts")
	g.POST("/:resource/:id/open", h.Open)
	g.GET("/:resource/:id", h.Get)
	g.PATCH("/:resource/:id", h.Update)
	g.POST("/:resource/:id/submit", h.Submit)
	g.POST("/:resource/:id/cancel", h.Cancel)
}

func (h *Handler) Open(c echo.Context) error {
	draft, err := h.mgr.Open(c.Request().Context(), c.Param("resource"), c.Param("id"))
	if err != nil {
		return draftError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"draft": draft})
}

func (h *Handler) Get(c echo.Context) error {
	draft, err := h.mgr.Draft(c.Param("resource"), c.Param("id"))
	if err != nil {
		return draftError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"draft": draft})
}

func (h *Handler) Update(c echo.Context) error {
	var fields editsession.Record
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	draft, err := h.mgr.Update(c.Param("resource"), c.Param("id"), fields)
	if err != nil {
		return draftError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"draft": draft})
}

func (h *Handler) Submit(c echo.Context) error {
	saved, err := h.mgr.Submit(c.Request().Context(), c.Param("resource"), c.Param("id"))
	if err != nil {
		return draftError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"record": saved})
}

func (h *Handler) Cancel(c echo.Context) error {
	if err := h.mgr.Cancel(c.Param("resource"), c.Param("id")); err != nil {
		return draftError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func draftError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownResource):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoDraft):
		return echo.NewHTTPError(http.StatusNotFound, "no open draft")
	case errors.Is(err, editsession.ErrSubmitInFlight):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, editsession.ErrNotEditing), errors.Is(err, editsession.ErrNothingToSubmit):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
