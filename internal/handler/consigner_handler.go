package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"consignparts/internal/errors"
	"consignparts/internal/repository"
	"consignparts/internal/service"
)

// ConsignerHandler handles consigner management endpoints.
type ConsignerHandler struct {
	consignerService service.ConsignerService
}

// NewConsignerHandler creates a new consigner handler.
func NewConsignerHandler(consignerService service.ConsignerService) *ConsignerHandler {
	return &ConsignerHandler{consignerService: consignerService}
}

// CreateConsignerRequest represents an admin create-consigner request.
type CreateConsignerRequest struct {
	Name         string `json:"name" validate:"required"`
	Code         string `json:"code" validate:"required,max=6"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	CreatedAt    string `json:"created_at"`
	PhoneNumber  string `json:"phone_number"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

// CreateConsigner godoc
// @Summary Create a consigner account
// @Tags consigners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateConsignerRequest true "Consigner data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/consigners [post]
func (h *ConsignerHandler) CreateConsigner(c echo.Context) error {
	var req CreateConsignerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := service.CreateConsignerInput{
		Name:         req.Name,
		Code:         req.Code,
		Email:        req.Email,
		TempPassword: req.Password,
		PhoneNumber:  req.PhoneNumber,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
	}
	if req.CreatedAt != "" {
		t, err := time.Parse(dateLayout, req.CreatedAt)
		if err != nil {
			httpErr := errors.MapErrorToHTTP(errors.ErrInvalidDateFormat)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		in.CreatedAt = &t
	}

	user, err := h.consignerService.CreateConsigner(c.Request().Context(), in)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, user)
}

// GetConsigner godoc
// @Summary Get a consigner by id
// @Tags consigners
// @Produce json
// @Security BearerAuth
// @Param id path int true "Consigner ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/consigners/{id} [get]
func (h *ConsignerHandler) GetConsigner(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	user, err := h.consignerService.GetConsigner(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// ListConsigners godoc
// @Summary List consigners with filters
// @Tags consigners
// @Produce json
// @Security BearerAuth
// @Param name query string false "Substring match"
// @Param code query string false "Substring match"
// @Param date query string false "Exact created date, YYYY-MM-DD"
// @Success 200 {array} model.User
// @Router /admin/consigners [get]
func (h *ConsignerHandler) ListConsigners(c echo.Context) error {
	filter := repository.ConsignerFilter{
		Name: c.QueryParam("name"),
		Code: c.QueryParam("code"),
		Date: c.QueryParam("date"),
	}
	users, err := h.consignerService.ListConsigners(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateConsignerFieldRequest represents a single-field consigner update.
type UpdateConsignerFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// UpdateConsignerField godoc
// @Summary Update a single consigner field
// @Tags consigners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Consigner ID"
// @Param request body UpdateConsignerFieldRequest true "Field update"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/consigners/{id} [put]
func (h *ConsignerHandler) UpdateConsignerField(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdateConsignerFieldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.consignerService.UpdateField(c.Request().Context(), uint(id), req.Field, req.Value)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteConsigner godoc
// @Summary Delete a consigner and all owned parts
// @Tags consigners
// @Produce json
// @Security BearerAuth
// @Param id path int true "Consigner ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/consigners/{id} [delete]
func (h *ConsignerHandler) DeleteConsigner(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.consignerService.DeleteConsigner(c.Request().Context(), uint(id)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "consigner and associated parts deleted"})
}
