package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"consignparts/internal/service"
)

// ImportHandler handles CSV bulk-upload endpoints.
type ImportHandler struct {
	importService service.ImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(importService service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

func (h *ImportHandler) openUpload(c echo.Context) (io.ReadCloser, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "missing csv file upload")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable csv file upload")
	}
	return f, nil
}

// ImportParts godoc
// @Summary Bulk import parts from a CSV upload
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Parts CSV"
// @Success 200 {object} service.ImportResult
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/imports/parts [post]
func (h *ImportHandler) ImportParts(c echo.Context) error {
	f, err := h.openUpload(c)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := h.importService.ImportParts(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

// ImportConsigners godoc
// @Summary Bulk import consigner accounts from a CSV upload
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Users CSV"
// @Success 200 {object} service.ImportResult
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/imports/consigners [post]
func (h *ImportHandler) ImportConsigners(c echo.Context) error {
	f, err := h.openUpload(c)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := h.importService.ImportUsers(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
