package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"consignparts/internal/errors"
	"consignparts/internal/model"
	"consignparts/internal/repository"
	"consignparts/internal/service"
)

const dateLayout = "2006-01-02"

// PartHandler handles part endpoints.
type PartHandler struct {
	partService service.PartService
}

// NewPartHandler creates a new part handler.
func NewPartHandler(partService service.PartService) *PartHandler {
	return &PartHandler{partService: partService}
}

// PartResponse is the wire view of a part; dates are YYYY-MM-DD.
type PartResponse struct {
	ID                   uint                `json:"id"`
	PartNumber           string              `json:"part_number"`
	SerialNumber         string              `json:"serial_number"`
	Description          string              `json:"description"`
	Notes                string              `json:"notes"`
	Condition            string              `json:"condition"`
	Price                decimal.Decimal     `json:"price"`
	Shipping             decimal.NullDecimal `json:"shipping"`
	DateAdded            string              `json:"date_added"`
	DateSold             string              `json:"date_sold"`
	Status               string              `json:"status"`
	CommissionPercentage decimal.NullDecimal `json:"commission_percentage"`
	FixedFee             decimal.NullDecimal `json:"fixed_fee"`
	InvoiceNumber        string              `json:"invoice_number"`
	ConsignerCode        string              `json:"consigner_code,omitempty"`
}

// PartListResponse is one page of the filtered listing.
type PartListResponse struct {
	Parts []PartResponse `json:"parts"`
	Total int64          `json:"total"`
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func partView(p *model.Part, consignerCode string) PartResponse {
	return PartResponse{
		ID:                   p.ID,
		PartNumber:           p.PartNumber,
		SerialNumber:         p.SerialNumber,
		Description:          p.Description,
		Notes:                p.Notes,
		Condition:            p.Condition,
		Price:                p.Price,
		Shipping:             p.Shipping,
		DateAdded:            formatDate(p.DateAdded),
		DateSold:             formatDate(p.DateSold),
		Status:               p.Status,
		CommissionPercentage: p.CommissionPercentage,
		FixedFee:             p.FixedFee,
		InvoiceNumber:        p.InvoiceNumber,
		ConsignerCode:        consignerCode,
	}
}

// CreatePartRequest represents an admin create-part request.
// Numeric values arrive as strings, the way the edit forms send them.
type CreatePartRequest struct {
	PartNumber           string `json:"part_number" validate:"required"`
	SerialNumber         string `json:"serial_number"`
	Description          string `json:"description" validate:"required"`
	Condition            string `json:"condition"`
	DateAdded            string `json:"date_added" validate:"required"`
	Price                string `json:"price" validate:"required"`
	Notes                string `json:"notes"`
	CommissionPercentage string `json:"commission_percentage"`
	FixedFee             string `json:"fixed_fee"`
	ConsignerID          uint   `json:"consigner_id" validate:"required"`
}

// CreatePart godoc
// @Summary Create a part for a consigner
// @Tags parts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePartRequest true "Part data"
// @Success 201 {object} PartResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/parts [post]
func (h *PartHandler) CreatePart(c echo.Context) error {
	var req CreatePartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dateAdded, err := time.Parse(dateLayout, req.DateAdded)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidDateFormat)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidValue)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	commission, err := parseOptionalDecimal(req.CommissionPercentage)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidValue)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	fixedFee, err := parseOptionalDecimal(req.FixedFee)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidValue)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	part := &model.Part{
		PartNumber:           req.PartNumber,
		SerialNumber:         req.SerialNumber,
		Description:          req.Description,
		Condition:            req.Condition,
		Notes:                req.Notes,
		Price:                price,
		DateAdded:            &dateAdded,
		CommissionPercentage: commission,
		FixedFee:             fixedFee,
		UserID:               req.ConsignerID,
	}

	created, err := h.partService.CreatePart(c.Request().Context(), part)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	resp := partView(created, "")
	return c.JSON(http.StatusCreated, resp)
}

func parseOptionalDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// UpdatePartFieldRequest represents a single-field part update. The
// date_sold/shipping/notes extras only apply to status transitions.
type UpdatePartFieldRequest struct {
	Field    string  `json:"field" validate:"required"`
	Value    string  `json:"value"`
	DateSold *string `json:"date_sold,omitempty"`
	Shipping *string `json:"shipping,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// UpdatePartField godoc
// @Summary Update a single part field
// @Tags parts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Part ID"
// @Param request body UpdatePartFieldRequest true "Field update"
// @Success 200 {object} PartResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/parts/{id} [put]
func (h *PartHandler) UpdatePartField(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdatePartFieldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	part, err := h.partService.UpdateField(c.Request().Context(), uint(id), service.PartFieldUpdate{
		Field:    req.Field,
		Value:    req.Value,
		DateSold: req.DateSold,
		Shipping: req.Shipping,
		Notes:    req.Notes,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	resp := partView(part, "")
	return c.JSON(http.StatusOK, resp)
}

// DeletePart godoc
// @Summary Delete a part
// @Tags parts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Part ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/parts/{id} [delete]
func (h *PartHandler) DeletePart(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.partService.DeletePart(c.Request().Context(), uint(id)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "part deleted successfully"})
}

// ListParts godoc
// @Summary List unsold parts with filters and pagination
// @Tags parts
// @Produce json
// @Security BearerAuth
// @Param part_number query string false "Substring match"
// @Param serial query string false "Substring match"
// @Param description query string false "Substring match"
// @Param condition query string false "Exact match"
// @Param date query string false "Exact date_added, YYYY-MM-DD"
// @Param code query string false "Substring match on consigner code"
// @Param page query int false "1-indexed page"
// @Param page_size query int false "Page size, default 40"
// @Success 200 {object} PartListResponse
// @Router /admin/parts [get]
func (h *PartHandler) ListParts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	filter := repository.PartFilter{
		PartNumber:  c.QueryParam("part_number"),
		Serial:      c.QueryParam("serial"),
		Description: c.QueryParam("description"),
		Condition:   c.QueryParam("condition"),
		Date:        c.QueryParam("date"),
		Code:        c.QueryParam("code"),
		Page:        page,
		PageSize:    pageSize,
	}

	rows, total, err := h.partService.ListUnsold(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	parts := make([]PartResponse, 0, len(rows))
	for i := range rows {
		parts = append(parts, partView(&rows[i].Part, rows[i].ConsignerCode))
	}
	return c.JSON(http.StatusOK, PartListResponse{Parts: parts, Total: total})
}

// ConsignerPartsResponse is the admin detail view of one consigner.
type ConsignerPartsResponse struct {
	Consigner *model.User    `json:"consigner"`
	Parts     []PartResponse `json:"parts"`
}

// ConsignerParts godoc
// @Summary List a consigner's parts, optionally filtered by status
// @Tags parts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Consigner ID"
// @Param status query string false "Sold or Unsold"
// @Success 200 {object} ConsignerPartsResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/consigners/{id}/parts [get]
func (h *PartHandler) ConsignerParts(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	res, err := h.partService.PartsForConsigner(c.Request().Context(), uint(id), c.QueryParam("status"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	parts := make([]PartResponse, 0, len(res.Parts))
	for i := range res.Parts {
		parts = append(parts, partView(&res.Parts[i], res.Consigner.Code))
	}
	return c.JSON(http.StatusOK, ConsignerPartsResponse{Consigner: res.Consigner, Parts: parts})
}

// MyParts godoc
// @Summary List the authenticated consigner's own parts
// @Tags parts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} PartResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /my-parts [get]
func (h *PartHandler) MyParts(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	if claims.IsAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "unauthorized")
	}

	parts, err := h.partService.PartsForOwner(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	views := make([]PartResponse, 0, len(parts))
	for i := range parts {
		views = append(views, partView(&parts[i], ""))
	}
	return c.JSON(http.StatusOK, views)
}
