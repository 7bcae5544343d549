package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"askyourdata/ai"
	"askyourdata/models"
	"askyourdata/service"

	"github.com/gin-gonic/gin"
)

// @title           Ask Your Data API
// @version         1.0
// @description     Upload CSV, JSON or SQL dump files and ask questions about them in plain language
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

type Handlers struct {
	ingestion      *service.Ingestion
	conversations  *service.Conversations
	aiService      *ai.Service
	sqlService     *service.SQLServerService
	maxUploadBytes int64
}

// New wires the handlers. aiService and sqlService may be nil.
func New(ingestion *service.Ingestion, conversations *service.Conversations, aiService *ai.Service, sqlService *service.SQLServerService, maxUploadBytes int64) *Handlers {
	return &Handlers{
		ingestion:      ingestion,
		conversations:  conversations,
		aiService:      aiService,
		sqlService:     sqlService,
		maxUploadBytes: maxUploadBytes,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrUnsupportedFileType),
		errors.Is(err, models.ErrEmptyOrMalformedFile),
		errors.Is(err, models.ErrUnsupportedJsonShape),
		errors.Is(err, models.ErrQuestionMissing):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDatasetNotFound),
		errors.Is(err, models.ErrMessageNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error()})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return id, true
}
