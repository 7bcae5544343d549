package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"askyourdata/models"
	"askyourdata/service"

	"github.com/gin-gonic/gin"
)

// AskHandler answers a question about a dataset
// @Summary      Ask a question
// @Description  Translate a plain-language question into a query, run it against the dataset and return the answer message
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "Dataset ID"
// @Param        request  body      models.AskRequest  true  "Question"
// @Success      200      {object}  models.ChatMessage    "System answer"
// @Failure      400      {object}  models.ErrorResponse  "Question missing"
// @Failure      404      {object}  models.ErrorResponse  "Dataset not found"
// @Router       /api/datasets/{id}/ask [post]
func (h *Handlers) AskHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request"})
		return
	}

	msg, err := h.conversations.Ask(c.Request.Context(), id, req.Question)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// ChatHistoryHandler returns a dataset's conversation
// @Summary      Chat history
// @Description  Get every message of a dataset's conversation in the order it was recorded
// @Tags         Chat
// @Produce      json
// @Param        id   path      int  true  "Dataset ID"
// @Success      200  {array}   models.ChatMessage    "Messages"
// @Failure      404  {object}  models.ErrorResponse  "Dataset not found"
// @Router       /api/datasets/{id}/chat [get]
func (h *Handlers) ChatHistoryHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	history, err := h.conversations.History(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// ExportResultHandler downloads the result rows of an answer
// @Summary      Export result rows
// @Description  Download the rows returned for an answered question as CSV or JSON
// @Tags         Chat
// @Produce      text/csv
// @Produce      json
// @Param        id         path      int     true   "Dataset ID"
// @Param        messageId  path      int     true   "Message ID"
// @Param        format     query     string  false  "csv or json (default csv)"
// @Success      200        {file}    file                  "Result file"
// @Failure      400        {object}  models.ErrorResponse  "Unsupported format or message without results"
// @Failure      404        {object}  models.ErrorResponse  "Dataset or message not found"
// @Router       /api/datasets/{id}/chat/{messageId}/export [get]
func (h *Handlers) ExportResultHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	messageID, ok := pathID(c, "messageId")
	if !ok {
		return
	}
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "json" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("unsupported format %q", format)})
		return
	}

	msg, err := h.conversations.Message(id, messageID)
	if err != nil {
		writeError(c, err)
		return
	}
	if msg.GeneratedQuery == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "message has no results"})
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "json" {
		contentType = "application/json; charset=utf-8"
		err = service.WriteResultJSON(&buf, msg)
	} else {
		err = service.WriteResultCSV(&buf, msg)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.ResultFileName(msg, format)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
