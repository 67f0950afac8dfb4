package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"consignparts/internal/errors"
	"consignparts/internal/model"
	"consignparts/internal/pdf"
	"consignparts/internal/service"
)

// InvoiceHandler handles invoice generation and billing-info endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	renderer       pdf.Renderer
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(invoiceService service.InvoiceService, renderer pdf.Renderer) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, renderer: renderer}
}

// GenerateInvoiceRequest represents an invoice generation request.
// Quantity and invoice-number maps are keyed by part id, as the
// selection form submits them.
type GenerateInvoiceRequest struct {
	PartIDs        []uint            `json:"part_ids" validate:"required"`
	Quantities     map[string]int    `json:"quantities"`
	InvoiceNumber  string            `json:"invoice_number" validate:"required"`
	InvoiceNumbers map[string]string `json:"invoice_numbers"`
	PaymentMethod  string            `json:"payment_method"`
	InvoiceDate    string            `json:"invoice_date" validate:"required"`
	ShippingFee    string            `json:"shipping_fee"`
	MiscFee        string            `json:"misc_fee"`
}

// GenerateInvoice godoc
// @Summary Generate an invoice PDF and stamp the included parts
// @Tags invoices
// @Accept json
// @Produce application/pdf
// @Security BearerAuth
// @Param request body GenerateInvoiceRequest true "Invoice data"
// @Success 200 {file} binary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/generate-invoice [post]
func (h *InvoiceHandler) GenerateInvoice(c echo.Context) error {
	var req GenerateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	invoiceDate, err := time.Parse(dateLayout, req.InvoiceDate)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidDateFormat)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	shippingFee, err := parseFee(req.ShippingFee)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidValue)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	miscFee, err := parseFee(req.MiscFee)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidValue)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	in := service.GenerateInvoiceInput{
		PartIDs:        req.PartIDs,
		Quantities:     keyedByPartID(req.Quantities),
		InvoiceNumbers: keyedByPartID(req.InvoiceNumbers),
		InvoiceNumber:  req.InvoiceNumber,
		InvoiceDate:    invoiceDate,
		PaymentMethod:  req.PaymentMethod,
		ShippingFee:    shippingFee,
		MiscFee:        miscFee,
	}

	invoice, err := h.invoiceService.GenerateInvoice(c.Request().Context(), in)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	document, err := h.renderer.Render(invoice)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to render invoice",
			Code:  "RENDER_FAILED",
		})
	}

	filename := fmt.Sprintf("Invoice_%s.pdf", invoice.Number)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "application/pdf", document)
}

func parseFee(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// keyedByPartID converts a string-keyed JSON map to part-id keys,
// dropping unparseable keys.
func keyedByPartID[V any](in map[string]V) map[uint]V {
	out := make(map[uint]V, len(in))
	for k, v := range in {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			continue
		}
		out[uint(id)] = v
	}
	return out
}

// GetBillingInfo godoc
// @Summary Get the billing entity printed on invoices
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.InvoiceInfo
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/invoice-info [get]
func (h *InvoiceHandler) GetBillingInfo(c echo.Context) error {
	info, err := h.invoiceService.GetBillingInfo(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, info)
}

// UpdateBillingInfo godoc
// @Summary Create or replace the billing entity
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.InvoiceInfo true "Billing data"
// @Success 200 {object} model.InvoiceInfo
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/invoice-info [put]
func (h *InvoiceHandler) UpdateBillingInfo(c echo.Context) error {
	var info model.InvoiceInfo
	if err := c.Bind(&info); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if info.Company == "" || info.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "company and email are required")
	}
	if err := h.invoiceService.UpdateBillingInfo(c.Request().Context(), &info); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, info)
}
