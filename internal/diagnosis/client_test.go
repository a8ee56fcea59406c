package diagnosis

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/nowaste/internal/engine"
	"github.com/julianstephens/nowaste/internal/models"
)

func ptr(s string) *string { return &s }

func completedTasks() []models.Task {
	return []models.Task{
		{ID: 1, Title: "report", Deadline: "2026-10-18", Priority: models.PriorityHigh, Completed: true, CompletedDate: ptr("2026-10-19"), Feeling: ptr("procrastinated")},
		{ID: 2, Title: "pending", Deadline: "2026-10-30", Priority: models.PriorityLow},
		{ID: 3, Title: "no feeling", Deadline: "2026-10-18", Priority: models.PriorityLow, Completed: true, CompletedDate: ptr("2026-10-17")},
	}
}

// newServer replies with status, content type and body, recording requests.
func newServer(t *testing.T, status int, contentType, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDiagnoseSendsRecords(t *testing.T) {
	var got struct {
		CompletedTasks []TaskRecord `json:"completed_tasks"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/diagnose-procrastination", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"cause":"fear of failure","solutions":["start small","timebox","ask early"]}`)
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL+"/", srv.Client()).Diagnose(context.Background(), completedTasks())
	require.NoError(t, err)

	require.Len(t, got.CompletedTasks, 1)
	assert.Equal(t, TaskRecord{
		Title:         "report",
		Feeling:       "procrastinated",
		Deadline:      "2026-10-18",
		CompletedDate: "2026-10-19",
		Priority:      "high",
	}, got.CompletedTasks[0])

	d, ok := res.(Diagnosis)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, "fear of failure", d.Cause)
	assert.Len(t, d.Solutions, 3)
}

func TestDiagnoseWithoutDataMakesNoRequest(t *testing.T) {
	var hits int32
	srv := newServer(t, http.StatusOK, "application/json", `{}`, &hits)

	tasks := completedTasks()[1:]
	_, err := NewClient(srv.URL, nil).Diagnose(context.Background(), tasks)

	var nd *NoDataError
	require.ErrorAs(t, err, &nd)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestDiagnoseResultShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Result
	}{
		{
			name: "newest shape wins over others",
			body: `{"cause":"c","solutions":["s"],"summary":"old","patterns":"p"}`,
			want: Diagnosis{Cause: "c", Solutions: []string{"s"}},
		},
		{
			name: "summary",
			body: `{"summary":"## You delay\n- a lot","patterns":"p"}`,
			want: LegacyDiagnosis{Summary: "## You delay\n- a lot"},
		},
		{
			name: "cause without solutions falls back to summary",
			body: `{"cause":"c","summary":"s"}`,
			want: LegacyDiagnosis{Summary: "s"},
		},
		{
			name: "structured legacy",
			body: `{"patterns":"late starts","triggers":"big tasks","causes":"fatigue","suggestions":["rest","plan"]}`,
			want: StructuredLegacyDiagnosis{Patterns: "late starts", Triggers: "big tasks", Causes: "fatigue", Suggestions: []string{"rest", "plan"}},
		},
		{
			name: "partial structured legacy",
			body: `{"suggestions":[]}`,
			want: StructuredLegacyDiagnosis{Suggestions: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, "application/json; charset=utf-8", tt.body, nil)
			res, err := NewClient(srv.URL, srv.Client()).Diagnose(context.Background(), completedTasks())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestDiagnoseErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		check       func(t *testing.T, err error)
	}{
		{
			name: "empty body", status: http.StatusOK, contentType: "application/json", body: "  ",
			check: func(t *testing.T, err error) {
				var m *MalformedResponseError
				require.ErrorAs(t, err, &m)
				assert.Equal(t, "empty response body", m.Reason)
			},
		},
		{
			name: "html error page", status: http.StatusBadGateway, contentType: "text/html", body: "<html>bad gateway</html>",
			check: func(t *testing.T, err error) {
				var m *MalformedResponseError
				require.ErrorAs(t, err, &m)
				assert.Equal(t, http.StatusBadGateway, m.Status)
				assert.Contains(t, m.Preview, "bad gateway")
			},
		},
		{
			name: "broken json", status: http.StatusOK, contentType: "application/json", body: `{"cause":`,
			check: func(t *testing.T, err error) {
				var m *MalformedResponseError
				assert.ErrorAs(t, err, &m)
			},
		},
		{
			name: "missing content type is tolerated", status: http.StatusOK, contentType: "", body: `{"summary":"ok"}`,
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "no known fields", status: http.StatusOK, contentType: "application/json", body: `{"foo":"bar"}`,
			check: func(t *testing.T, err error) {
				var m *MalformedResponseError
				assert.ErrorAs(t, err, &m)
			},
		},
		{
			name: "service error", status: http.StatusInternalServerError, contentType: "application/json", body: `{"error":"model offline","error_type":"upstream"}`,
			check: func(t *testing.T, err error) {
				var s *ServiceError
				require.ErrorAs(t, err, &s)
				assert.Equal(t, 500, s.Status)
				assert.Equal(t, "model offline", s.Message)
				assert.Equal(t, "upstream", s.Type)
			},
		},
		{
			name: "service error without message", status: http.StatusBadRequest, contentType: "application/json", body: `{}`,
			check: func(t *testing.T, err error) {
				var s *ServiceError
				require.ErrorAs(t, err, &s)
				assert.Equal(t, "Bad Request", s.Message)
			},
		},
		{
			name: "quota by status with numeric retry", status: http.StatusTooManyRequests, contentType: "application/json", body: `{"error":"quota","retry_after":12.2}`,
			check: func(t *testing.T, err error) {
				var q *QuotaExceededError
				require.ErrorAs(t, err, &q)
				assert.Equal(t, 13*time.Second, q.RetryAfter)
				assert.Equal(t, "quota", q.Message)
			},
		},
		{
			name: "quota by marker with string retry", status: http.StatusInternalServerError, contentType: "application/json", body: `{"error":"quota","error_type":"quota_exceeded","retry_after":"30"}`,
			check: func(t *testing.T, err error) {
				var q *QuotaExceededError
				require.ErrorAs(t, err, &q)
				assert.Equal(t, 30*time.Second, q.RetryAfter)
			},
		},
		{
			name: "quota with null retry", status: http.StatusTooManyRequests, contentType: "application/json", body: `{"error":"quota","retry_after":null}`,
			check: func(t *testing.T, err error) {
				var q *QuotaExceededError
				require.ErrorAs(t, err, &q)
				assert.Zero(t, q.RetryAfter)
			},
		},
		{
			name: "429 wins over malformed body", status: http.StatusTooManyRequests, contentType: "text/plain", body: "slow down",
			check: func(t *testing.T, err error) {
				var q *QuotaExceededError
				assert.ErrorAs(t, err, &q)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.contentType, tt.body, nil)
			_, err := NewClient(srv.URL, srv.Client()).Diagnose(context.Background(), completedTasks())
			tt.check(t, err)
		})
	}
}

func TestQuotaRetryAfterHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "45")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":"quota"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).Diagnose(context.Background(), completedTasks())
	var q *QuotaExceededError
	require.ErrorAs(t, err, &q)
	assert.Equal(t, 45*time.Second, q.RetryAfter)
}

func TestNetworkError(t *testing.T) {
	srv := newServer(t, http.StatusOK, "application/json", `{}`, nil)
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).Diagnose(context.Background(), completedTasks())
	var n *NetworkError
	assert.ErrorAs(t, err, &n)
}

func TestBreakdown(t *testing.T) {
	var gotTask string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/breakdown-task", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotTask = body["task"]

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"subtasks":["outline"," ",{"title":"draft","description":"first pass"},{"title":""}]}`)
	}))
	defer srv.Close()

	subtasks, err := NewClient(srv.URL, srv.Client()).Breakdown(context.Background(), "  write thesis ")
	require.NoError(t, err)

	assert.Equal(t, "write thesis", gotTask)
	assert.Equal(t, []Subtask{
		{Title: "outline"},
		{Title: "draft", Description: "first pass"},
	}, subtasks)
}

func TestBreakdownRejectsEmptyDescription(t *testing.T) {
	var hits int32
	srv := newServer(t, http.StatusOK, "application/json", `{}`, &hits)

	_, err := NewClient(srv.URL, nil).Breakdown(context.Background(), "   ")
	var verr *engine.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestBreakdownEmptyResults(t *testing.T) {
	for name, body := range map[string]string{
		"missing":     `{}`,
		"null":        `{"subtasks":null}`,
		"not a list":  `{"subtasks":"do it"}`,
		"empty list":  `{"subtasks":[]}`,
		"only blanks": `{"subtasks":["", {"title":"  "}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, "application/json", body, nil)
			_, err := NewClient(srv.URL, srv.Client()).Breakdown(context.Background(), "task")
			var e *EmptyResultError
			assert.ErrorAs(t, err, &e)
		})
	}
}

func TestBreakdownRejectsUnknownElements(t *testing.T) {
	srv := newServer(t, http.StatusOK, "application/json", `{"subtasks":[42]}`, nil)
	_, err := NewClient(srv.URL, srv.Client()).Breakdown(context.Background(), "task")
	var m *MalformedResponseError
	assert.ErrorAs(t, err, &m)
}

func TestSubtaskTaskInput(t *testing.T) {
	today := time.Date(2026, 10, 19, 22, 0, 0, 0, time.UTC)
	st := Subtask{Title: "outline"}

	in := st.TaskInput("high", "", today)
	assert.Equal(t, engine.TaskInput{Title: "outline", Deadline: "2026-10-26", Priority: "high"}, in)

	in = st.TaskInput("low", "2026-11-01", today)
	assert.Equal(t, "2026-11-01", in.Deadline)

	// no implicit priority: the ledger rejects it
	e := engine.New(models.Snapshot{}, nil)
	_, err := e.CreateTask(st.TaskInput("", "", today))
	var verr *engine.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "priority", verr.Field)
}

func TestHealth(t *testing.T) {
	srv := newServer(t, http.StatusOK, "application/json", `{"status":"ok","gemini_configured":true}`, nil)
	h, err := NewClient(srv.URL, srv.Client()).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Health{Status: "ok", GeminiConfigured: true}, h)
}
