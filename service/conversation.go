package service

import (
	"context"
	"fmt"
	"log"

	"askyourdata/ai"
	"askyourdata/db"
	"askyourdata/models"
	"askyourdata/query"
	"askyourdata/store"
	"askyourdata/validation"
)

// MaxChartRows is the largest result that still gets a chart.
const MaxChartRows = 50

// Translator turns a question into a query. *ai.Bridge implements it.
type Translator interface {
	Translate(ctx context.Context, req ai.TranslateRequest) ai.Translation
}

// Conversations runs the question/answer cycle for datasets and keeps the
// resulting messages.
type Conversations struct {
	registry    *store.Registry
	tables      *store.Tables
	translator  Translator
	interpreter *query.Interpreter
	log         *db.DB
	sampleRows  int
}

func NewConversations(registry *store.Registry, tables *store.Tables, translator Translator, chatLog *db.DB, sampleRows int) *Conversations {
	if sampleRows <= 0 {
		sampleRows = 5
	}
	return &Conversations{
		registry:    registry,
		tables:      tables,
		translator:  translator,
		interpreter: query.NewInterpreter(tables),
		log:         chatLog,
		sampleRows:  sampleRows,
	}
}

// Ask answers question against the dataset and returns the system message.
// Once the dataset and question are accepted, model problems never surface
// as errors; the answer degrades to a default query instead.
func (c *Conversations) Ask(ctx context.Context, datasetID int64, question string) (*models.ChatMessage, error) {
	question, err := validation.Question(question)
	if err != nil {
		return nil, err
	}
	ds, err := c.registry.Get(datasetID)
	if err != nil {
		return nil, err
	}
	if validation.LooksLikeGibberish(question) {
		log.Printf("[ASK] Dataset %d: question looks like gibberish, answering anyway: %q", datasetID, question)
	}

	if _, err := c.log.AppendChatMessage(models.ChatMessage{
		DatasetID: datasetID,
		Role:      models.RoleUser,
		Content:   question,
	}); err != nil {
		return nil, fmt.Errorf("failed to store question: %w", err)
	}

	sample := c.tables.Preview(ds.TableName, c.sampleRows)
	translation := c.translator.Translate(ctx, ai.TranslateRequest{
		Question:   question,
		Schema:     ds.Schema,
		SampleRows: sample,
		TableName:  ds.TableName,
	})
	log.Printf("[ASK] Dataset %d: %s query: %s", datasetID, translation.Source, translation.Query)
	if plan := query.Analyze(translation.Query); !c.tables.Has(plan.Table) {
		log.Printf("[ASK] Dataset %d: table %s was never uploaded; answering from placeholder rows", datasetID, plan.Table)
	}

	rows := c.interpreter.Execute(translation.Query)
	if rows == nil {
		rows = []models.Row{}
	}

	content := translation.Explanation
	if content == "" {
		content = "Here are the results for your question."
	}
	generated := translation.Query
	answer := models.ChatMessage{
		DatasetID:      datasetID,
		Role:           models.RoleSystem,
		Content:        content,
		GeneratedQuery: &generated,
		ResultRows:     rows,
	}
	if len(rows) > 0 && len(rows) <= MaxChartRows {
		answer.ChartSpec = &models.ChartSpec{Kind: models.DefaultChartKind, Rows: rows}
	}

	stored, err := c.log.AppendChatMessage(answer)
	if err != nil {
		return nil, fmt.Errorf("failed to store answer: %w", err)
	}
	log.Printf("[ASK] Dataset %d: answered with %d rows", datasetID, len(rows))
	return &stored, nil
}

// History returns the dataset's messages, oldest first.
func (c *Conversations) History(datasetID int64) ([]models.ChatMessage, error) {
	if _, err := c.registry.Get(datasetID); err != nil {
		return nil, err
	}
	return c.log.GetChatHistory(datasetID)
}

func (c *Conversations) Message(datasetID, messageID int64) (models.ChatMessage, error) {
	if _, err := c.registry.Get(datasetID); err != nil {
		return models.ChatMessage{}, err
	}
	return c.log.GetChatMessage(datasetID, messageID)
}
