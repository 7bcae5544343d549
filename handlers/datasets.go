package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"askyourdata/models"
	"askyourdata/validation"

	"github.com/gin-gonic/gin"
)

// UploadHandler ingests an uploaded file as a new dataset
// @Summary      Upload a data file
// @Description  Upload a CSV, JSON or SQL dump file. The file is parsed into a table and a preview is returned
// @Tags         Datasets
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV, JSON or SQL file"
// @Success      200   {object}  models.UploadResponse  "Registered dataset and preview rows"
// @Failure      400   {object}  models.ErrorResponse   "Unsupported, empty or malformed file"
// @Failure      413   {object}  models.ErrorResponse   "File too large"
// @Router       /api/upload [post]
func (h *Handlers) UploadHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No file provided"})
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		writeError(c, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", models.ErrUploadTooLarge, file.Size, h.maxUploadBytes))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to open file"})
		return
	}
	defer src.Close()

	var reader io.Reader = src
	if h.maxUploadBytes > 0 {
		reader = io.LimitReader(src, h.maxUploadBytes+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to read file"})
		return
	}

	ds, preview, err := h.ingestion.Upload(file.Filename, content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.UploadResponse{Dataset: ds, Preview: nonNilRows(preview)})
}

// ListDatasetsHandler lists registered datasets
// @Summary      List datasets
// @Description  List every registered dataset, newest first
// @Tags         Datasets
// @Produce      json
// @Success      200  {array}  models.Dataset  "Datasets"
// @Router       /api/datasets [get]
func (h *Handlers) ListDatasetsHandler(c *gin.Context) {
	datasets := h.ingestion.Datasets()
	if datasets == nil {
		datasets = []models.Dataset{}
	}
	c.JSON(http.StatusOK, datasets)
}

// GetDatasetHandler returns one dataset
// @Summary      Get dataset
// @Tags         Datasets
// @Produce      json
// @Param        id   path      int  true  "Dataset ID"
// @Success      200  {object}  models.Dataset        "Dataset"
// @Failure      404  {object}  models.ErrorResponse  "Dataset not found"
// @Router       /api/datasets/{id} [get]
func (h *Handlers) GetDatasetHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ds, err := h.ingestion.Dataset(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

// PreviewHandler returns the first rows of a dataset
// @Summary      Preview dataset rows
// @Tags         Datasets
// @Produce      json
// @Param        id     path      int  true   "Dataset ID"
// @Param        limit  query     int  false  "Number of rows (default 10)"
// @Success      200    {array}   object                "Rows"
// @Failure      404    {object}  models.ErrorResponse  "Dataset not found"
// @Router       /api/datasets/{id}/preview [get]
func (h *Handlers) PreviewHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	rows, err := h.ingestion.Preview(id, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNilRows(rows))
}

// ImportTableHandler imports a SQL Server table as a dataset
// @Summary      Import SQL Server table
// @Description  Read up to limit rows of a SQL Server table and register them as a dataset
// @Tags         Datasets
// @Accept       json
// @Produce      json
// @Param        request  body      models.ImportRequest   true  "Table to import"
// @Success      200      {object}  models.UploadResponse  "Registered dataset and preview rows"
// @Failure      400      {object}  models.ErrorResponse   "Invalid request"
// @Failure      503      {object}  models.ErrorResponse   "SQL Server not configured"
// @Router       /api/datasets/import [post]
func (h *Handlers) ImportTableHandler(c *gin.Context) {
	if h.sqlService == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "SQL Server service is not configured"})
		return
	}

	var req models.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request"})
		return
	}
	if !validation.TableIdentifier(req.Table) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("invalid table name %q", req.Table)})
		return
	}

	res, err := h.sqlService.ImportTable(c.Request.Context(), req.Table, req.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	ds, preview := h.ingestion.Register(req.Table, req.Table, models.FileTypeMSSQL, res)
	log.Printf("[IMPORT] Imported %s as dataset %d (%d rows)", req.Table, ds.ID, ds.RowCount)
	c.JSON(http.StatusOK, models.UploadResponse{Dataset: ds, Preview: nonNilRows(preview)})
}

func nonNilRows(rows []models.Row) []models.Row {
	if rows == nil {
		return []models.Row{}
	}
	return rows
}
