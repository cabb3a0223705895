package company

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
	readGroup.GET("/companies", h.ListCompanies)
	readGroup.GET("/companies/:id", h.GetCompany)
	readGroup.GET("/employees", h.ListEmployees)
	readGroup.GET("/employees/:id", h.GetEmployee)
	readGroup.GET("/employees/export", h.ExportEmployees)
	readGroup.GET("/hra-questions", h.ListQuestions)
	readGroup.GET("/hra-questions/:id", h.GetQuestion)

	writeGroup := api.Group("", auth.RequireRole("admin", "manager"))
	writeGroup.POST("/companies", h.CreateCompany)
	writeGroup.PUT("/companies/:id", h.UpdateCompany)
	writeGroup.DELETE("/companies/:id", h.DeleteCompany)
	writeGroup.POST("/employees", h.CreateEmployee)
	writeGroup.PUT("/employees/:id", h.UpdateEmployee)
	writeGroup.DELETE("/employees/:id", h.DeleteEmployee)
	writeGroup.POST("/employees/import", h.ImportEmployees)
	writeGroup.POST("/hra-questions", h.CreateQuestion)
	writeGroup.PUT("/hra-questions/:id", h.UpdateQuestion)
	writeGroup.DELETE("/hra-questions/:id", h.DeleteQuestion)
}

// -- Company Handlers --

func (h *Handler) CreateCompany(c echo.Context) error {
	var comp Company
	if err := c.Bind(&comp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateCompany(c.Request().Context(), &comp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, comp)
}

func (h *Handler) GetCompany(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	comp, err := h.svc.GetCompany(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "company not found")
	}
	return c.JSON(http.StatusOK, comp)
}

func (h *Handler) ListCompanies(c echo.Context) error {
	p := pagination.FromContext(c)
	companies, total, err := h.svc.ListCompanies(c.Request().Context(), c.QueryParam("search"), p.Limit(), p.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(companies, total, p))
}

func (h *Handler) UpdateCompany(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var comp Company
	if err := c.Bind(&comp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	comp.ID = id
	if err := h.svc.UpdateCompany(c.Request().Context(), &comp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, comp)
}

func (h *Handler) DeleteCompany(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteCompany(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Employee Handlers --

func (h *Handler) CreateEmployee(c echo.Context) error {
	var e Employee
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if e.CompanyID == uuid.Nil {
		companyID, err := h.companyScope(c)
		if err != nil {
			return err
		}
		e.CompanyID = companyID
	}
	if err := h.svc.CreateEmployee(c.Request().Context(), &e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetEmployee(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.GetEmployee(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "employee not found")
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListEmployees(c echo.Context) error {
	companyID, err := h.companyScope(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	employees, total, err := h.svc.ListEmployees(c.Request().Context(), companyID, c.QueryParam("search"), p.Limit(), p.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(employees, total, p))
}

func (h *Handler) UpdateEmployee(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var e Employee
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ID = id
	if err := h.svc.UpdateEmployee(c.Request().Context(), &e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteEmployee(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteEmployee(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ExportEmployees(c echo.Context) error {
	companyID, err := h.companyScope(c)
	if err != nil {
		return err
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}
	filename := fmt.Sprintf("employees-%s.%s", time.Now().Format("2006-01-02"), format)

	contentType := "text/csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)

	return h.svc.ExportEmployees(c.Request().Context(), c.Response(), companyID, format)
}

func (h *Handler) ImportEmployees(c echo.Context) error {
	companyID, err := h.companyScope(c)
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

	created, err := h.svc.ImportEmployees(c.Request().Context(), companyID, file.Filename, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"imported": created})
}

// -- HRAQuestion Handlers --

func (h *Handler) CreateQuestion(c echo.Context) error {
	var q HRAQuestion
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateQuestion(c.Request().Context(), &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, q)
}

func (h *Handler) GetQuestion(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	q, err := h.svc.GetQuestion(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "question not found")
	}
	return c.JSON(http.StatusOK, q)
}

func (h *Handler) ListQuestions(c echo.Context) error {
	var companyID *uuid.UUID
	if scope := auth.ScopeFromContext(c.Request().Context()); scope.CompanyID != "" {
		if id, err := uuid.Parse(scope.CompanyID); err == nil {
			companyID = &id
		}
	} else if v := c.QueryParam("company_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid company_id")
		}
		companyID = &id
	}

	questions, err := h.svc.ListQuestions(c.Request().Context(), companyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": questions})
}

func (h *Handler) UpdateQuestion(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var q HRAQuestion
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	q.ID = id
	if err := h.svc.UpdateQuestion(c.Request().Context(), &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, q)
}

func (h *Handler) DeleteQuestion(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteQuestion(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// companyScope resolves the company a request operates on. Token claims
// win over the query parameter.
func (h *Handler) companyScope(c echo.Context) (uuid.UUID, error) {
	raw, err := auth.RequireCompanyScope(c)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid company id")
	}
	return id, nil
}
