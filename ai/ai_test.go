package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askyourdata/cache"
	"askyourdata/models"
)

func dashScopeReply(content string) string {
	out, _ := json.Marshal(map[string]any{
		"output": map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]string{"role": "assistant", "content": content}},
			},
		},
	})
	return string(out)
}

func newTestService(url string) *Service {
	svc := New(Options{APIKey: "test-key", Model: "qwen-max", APIURL: url, Timeout: 5 * time.Second})
	svc.baseDelay = time.Millisecond
	return svc
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req DashScopeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qwen-max", req.Model)
		if assert.Len(t, req.Input.Messages, 1) {
			assert.Equal(t, "user", req.Input.Messages[0].Role)
			assert.Equal(t, "hello", req.Input.Messages[0].Content)
		}

		_, _ = w.Write([]byte(dashScopeReply("world")))
	}))
	defer srv.Close()

	got, err := newTestService(srv.URL).Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", got)
}

func TestGenerateRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"code":"Throttling","message":"slow down","request_id":"r1"}`))
			return
		}
		_, _ = w.Write([]byte(dashScopeReply("ok")))
	}))
	defer srv.Close()

	got, err := newTestService(srv.URL).Generate(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL).Generate(context.Background(), "q")
	assert.ErrorIs(t, err, models.ErrExternalModelUnavailable)
	assert.Equal(t, int32(4), calls.Load())
}

func TestGenerateClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"InvalidApiKey","message":"bad key"}`))
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL).Generate(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InvalidApiKey")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":{"choices":[]}}`))
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL).Generate(context.Background(), "q")
	assert.ErrorIs(t, err, models.ErrModelResponseUnparseable)
}

func TestGenerateWithoutKey(t *testing.T) {
	svc := New(Options{})
	assert.False(t, svc.Configured())
	_, err := svc.Generate(context.Background(), "q")
	assert.ErrorIs(t, err, models.ErrExternalModelUnavailable)
}

func TestGenerateHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newTestService(srv.URL).Generate(ctx, "q")
	assert.ErrorIs(t, err, models.ErrExternalModelUnavailable)
}

func TestBuildQueryPrompt(t *testing.T) {
	row := models.NewRow(2)
	row.Set("name", models.Text("Alice"))
	row.Set("age", models.Integer(30))
	schema := models.Schema{{Name: "name", Type: models.TypeText}, {Name: "age", Type: models.TypeInteger}}

	prompt := BuildQueryPrompt("How old is Alice?", schema, []models.Row{row}, "table_name")

	assert.Contains(t, prompt, `a table named "table_name"`)
	assert.Contains(t, prompt, "name (text)\nage (integer)")
	assert.Contains(t, prompt, `"name": "Alice"`)
	assert.Contains(t, prompt, `The user wants to know: "How old is Alice?"`)
	assert.True(t, strings.HasSuffix(prompt, "}"))
	assert.Less(t, strings.Index(prompt, `"name": "Alice"`), strings.Index(prompt, `"age": 30`))
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		query       string
		explanation string
		source      string
	}{
		{
			name:        "fenced json",
			text:        "Here you go:\n```json\n{\"sql\": \"SELECT COUNT(*) FROM t\", \"explanation\": \"Counts rows\"}\n```",
			query:       "SELECT COUNT(*) FROM t",
			explanation: "Counts rows",
			source:      SourceFencedJSON,
		},
		{
			name:        "plain fence with query key",
			text:        "```\n{\"query\": \"SELECT * FROM t LIMIT 2\"}\n```",
			query:       "SELECT * FROM t LIMIT 2",
			explanation: fallbackExplanation,
			source:      SourceFenced,
		},
		{
			name:        "brace fragment with braces in strings",
			text:        `Sure! {"sql": "SELECT '{x}' FROM t", "explanation": "braces {ok}"} hope that helps`,
			query:       "SELECT '{x}' FROM t",
			explanation: "braces {ok}",
			source:      SourceBrace,
		},
		{
			name:        "broken json falls to key value",
			text:        `{"sql": "SELECT * FROM t WHERE a = \"b\"", "explanation": "filters"`,
			query:       `SELECT * FROM t WHERE a = "b"`,
			explanation: "filters",
			source:      SourceKeyValue,
		},
		{
			name:        "single quoted key value",
			text:        `sql: 'SELECT 1 FROM t' explanation: 'one'`,
			query:       "SELECT 1 FROM t",
			explanation: "one",
			source:      SourceKeyValue,
		},
		{
			name:        "sql fence",
			text:        "```sql\nSELECT name FROM t\n```",
			query:       "SELECT name FROM t",
			explanation: bareSQLExplanation,
			source:      SourceBareSQL,
		},
		{
			name:        "bare select",
			text:        "You could run select name from t; to see names",
			query:       "select name from t;",
			explanation: bareSQLExplanation,
			source:      SourceBareSQL,
		},
		{
			name:        "key must be a whole word",
			text:        `Try a nosql: "DROP TABLE t" store instead.`,
			query:       "SELECT * FROM t LIMIT 10",
			explanation: fallbackExplanation,
			source:      SourceDefault,
		},
		{
			name:        "nothing usable",
			text:        "I am not sure what you mean.",
			query:       "SELECT * FROM t LIMIT 10",
			explanation: fallbackExplanation,
			source:      SourceDefault,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text, "t")
			assert.Equal(t, tt.query, got.Query)
			assert.Equal(t, tt.explanation, got.Explanation)
			assert.Equal(t, tt.source, got.Source)
		})
	}
}

type fakeGenerator struct {
	reply string
	err   error
	calls atomic.Int32
	delay time.Duration
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func testRequest() TranslateRequest {
	return TranslateRequest{
		Question:  "how many rows?",
		Schema:    models.Schema{{Name: "a", Type: models.TypeInteger}},
		TableName: "table_a",
	}
}

func TestBridgeTranslate(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n{\"sql\": \"SELECT COUNT(*) FROM table_a\", \"explanation\": \"Counts\"}\n```"}
	bridge := NewBridge(gen, cache.New(), time.Second)

	got := bridge.Translate(context.Background(), testRequest())
	assert.Equal(t, "SELECT COUNT(*) FROM table_a", got.Query)
	assert.Equal(t, "Counts", got.Explanation)

	again := bridge.Translate(context.Background(), testRequest())
	assert.Equal(t, got, again)
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestBridgeFallsBackOnModelError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection refused")}
	bridge := NewBridge(gen, cache.New(), time.Second)

	for i := 0; i < 2; i++ {
		got := bridge.Translate(context.Background(), testRequest())
		assert.Equal(t, "SELECT * FROM table_a LIMIT 10", got.Query)
		assert.Equal(t, errorExplanation, got.Explanation)
		assert.Equal(t, SourceError, got.Source)
	}
	assert.Equal(t, int32(2), gen.calls.Load(), "failures are not cached")
}

func TestBridgeTimesOut(t *testing.T) {
	gen := &fakeGenerator{reply: `{"sql": "SELECT 1"}`, delay: time.Second}
	bridge := NewBridge(gen, nil, 20*time.Millisecond)

	start := time.Now()
	got := bridge.Translate(context.Background(), testRequest())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, SourceError, got.Source)
	assert.Equal(t, DefaultQuery("table_a"), got.Query)
}

func TestBridgeUnparseableReplyIsNotCached(t *testing.T) {
	gen := &fakeGenerator{reply: "no idea"}
	bridge := NewBridge(gen, cache.New(), time.Second)

	got := bridge.Translate(context.Background(), testRequest())
	assert.Equal(t, SourceDefault, got.Source)
	assert.Equal(t, DefaultQuery("table_a"), got.Query)

	bridge.Translate(context.Background(), testRequest())
	assert.Equal(t, int32(2), gen.calls.Load())
}

func TestBridgeWithUnconfiguredService(t *testing.T) {
	bridge := NewBridge(New(Options{}), nil, time.Second)
	got := bridge.Translate(context.Background(), testRequest())
	assert.Equal(t, DefaultQuery("table_a"), got.Query)
	assert.NotEmpty(t, got.Explanation)
}

func TestDefaultQueryQuotesNonIdentifiers(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"table_id", "SELECT * FROM table_id LIMIT 10"},
		{"table_user-id", `SELECT * FROM "table_user-id" LIMIT 10`},
		{"my table", `SELECT * FROM "my table" LIMIT 10`},
		{"a.b", `SELECT * FROM "a.b" LIMIT 10`},
		{`odd"name`, `SELECT * FROM "odd""name" LIMIT 10`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultQuery(tt.table), tt.table)
	}
}
