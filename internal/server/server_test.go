package server

import (
	"context"
	"encoding/json"
	"image"
	_ "image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"course-graph/internal/domain"
	"course-graph/internal/logger"
	"course-graph/internal/prereq"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testService() *Service {
	catalog := domain.Catalog{
		"A": {Name: "Intro"},
		"B": {Name: "Data Structures", Prerequisites: []string{"A"}},
		"C": {Name: "Discrete Math"},
		"D": {Name: "Algorithms", Prerequisites: []string{"B", "X"}},
	}
	return NewService(catalog, []domain.OverlapGroup{{"X", "C"}})
}

func newRouter(t *testing.T, log *logger.Logger) *gin.Engine {
	t.Helper()
	return NewRouter(RouterConfig{
		CourseHandler: NewCourseHandler(testService(), log, ""),
		Log:           log,
		CORSOrigins:   []string{"http://localhost:5173"},
	})
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := do(newRouter(t, nil), http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	_, err := uuid.Parse(w.Header().Get(requestIDHeader))
	assert.NoError(t, err)
}

func TestRequestIDReused(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(requestIDHeader, id)
	w := httptest.NewRecorder()
	newRouter(t, nil).ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get(requestIDHeader))
}

func TestListCourses(t *testing.T) {
	w := do(newRouter(t, nil), http.MethodGet, "/api/courses", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]struct {
		Name          string   `json:"name"`
		Prerequisites []string `json:"prerequisites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 4)
	assert.Equal(t, "Algorithms", got["D"].Name)
	assert.Equal(t, []string{"B", "X"}, got["D"].Prerequisites)
}

func TestClassify(t *testing.T) {
	w := do(newRouter(t, nil), http.MethodPost, "/api/classify", `{"completed_courses":["A","C","Z"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got classifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	assert.Equal(t, prereq.NodeStates{
		"A": prereq.Completed,
		"B": prereq.Available,
		"C": prereq.Completed,
		"D": prereq.Locked,
	}, got.Nodes)
	assert.Equal(t, []edgeView{
		{From: "A", To: "B", State: prereq.Met},
		{From: "B", To: "D", State: prereq.Unmet},
	}, got.Edges)
	assert.Equal(t, []string{"B"}, got.Next)
	assert.Equal(t, map[prereq.NodeState]int{prereq.Completed: 2, prereq.Available: 1, prereq.Locked: 1}, got.Counts)
	assert.Equal(t, []string{"Z"}, got.Unknown)
}

func TestClassifyNothingCompleted(t *testing.T) {
	w := do(newRouter(t, nil), http.MethodPost, "/api/classify", `{"completed_courses":[]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got classifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"A", "C"}, got.Next)
	assert.Len(t, got.Edges, 3)
	assert.Empty(t, got.Unknown)
}

func TestClassifyBadBody(t *testing.T) {
	w := do(newRouter(t, nil), http.MethodPost, "/api/classify", `{"completed_courses":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "invalid_request", env.Error.Code)
	assert.NotEmpty(t, env.Error.Message)
}

func TestGraphDOT(t *testing.T) {
	w := do(newRouter(t, nil), http.MethodPost, "/api/graph?format=dot", `{"completed_courses":["A"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "text/vnd.graphviz; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, `"A" -> "B" [color="#000000"];`)
	assert.Contains(t, body, `"X" [label=<Course X>, fillcolor="#FFFFFF"];`)
}

func TestGraphPNG(t *testing.T) {
	w := do(newRouter(t, nil), http.MethodPost, "/api/graph", `{"completed_courses":["A"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	_, format, err := image.DecodeConfig(w.Body)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestGraphBadFormat(t *testing.T) {
	w := do(newRouter(t, nil), http.MethodPost, "/api/graph?format=svg", `{"completed_courses":[]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"invalid_format"`)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	r := newRouter(t, log)

	do(r, http.MethodGet, "/healthcheck", "")
	do(r, http.MethodPost, "/api/classify", "not json")

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)

	fields := entries[1].ContextMap()
	assert.Equal(t, "/api/classify", fields["path"])
	assert.EqualValues(t, http.StatusBadRequest, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/classify", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	newRouter(t, nil).ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServiceDoesNotShareCatalog(t *testing.T) {
	catalog := domain.Catalog{"A": {Name: "Intro"}}
	svc := NewService(catalog, nil)
	catalog["B"] = domain.Course{Name: "late"}

	assert.Len(t, svc.Catalog(), 1)
}

func TestServerRunStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := NewServer(addr, newRouter(t, nil), time.Second, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthcheck")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
