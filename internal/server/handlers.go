package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"course-graph/internal/logger"
	"course-graph/internal/prereq"
	"course-graph/internal/render"
)

type CourseHandler struct {
	svc  *Service
	log  *logger.Logger
	font string
}

func NewCourseHandler(svc *Service, log *logger.Logger, fontPath string) *CourseHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CourseHandler{svc: svc, log: log, font: fontPath}
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// ListCourses returns the catalog keyed by course id.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	RespondOK(c, h.svc.Catalog())
}

type classifyRequest struct {
	CompletedCourses []string `json:"completed_courses"`
}

type edgeView struct {
	From  string           `json:"from"`
	To    string           `json:"to"`
	State prereq.EdgeState `json:"state"`
}

type classifyResponse struct {
	Nodes   prereq.NodeStates        `json:"nodes"`
	Edges   []edgeView               `json:"edges"`
	Next    []string                 `json:"next"`
	Counts  map[prereq.NodeState]int `json:"counts"`
	Unknown []string                 `json:"unknown_completed,omitempty"`
}

func (h *CourseHandler) bind(c *gin.Context) (classifyRequest, bool) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return req, false
	}
	return req, true
}

// Classify returns node and edge states for the posted completed set.
func (h *CourseHandler) Classify(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	res := h.svc.Analyze(req.CompletedCourses)

	edges := make([]edgeView, 0, len(res.Edges))
	for _, e := range res.Edges.Edges() {
		edges = append(edges, edgeView{From: e.From, To: e.To, State: res.Edges[e]})
	}
	next := prereq.NextCourses(res.Nodes)
	if next == nil {
		next = []string{}
	}

	RespondOK(c, classifyResponse{
		Nodes:   res.Nodes,
		Edges:   edges,
		Next:    next,
		Counts:  res.Counts(),
		Unknown: h.svc.UnknownIDs(req.CompletedCourses),
	})
}

// Graph renders the classified graph as PNG (default) or DOT.
func (h *CourseHandler) Graph(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "png"))
	if format != "png" && format != "dot" {
		RespondError(c, http.StatusBadRequest, "invalid_format", fmt.Errorf("unsupported format %q, want png or dot", format))
		return
	}
	req, ok := h.bind(c)
	if !ok {
		return
	}
	g := h.svc.Graph(h.svc.Analyze(req.CompletedCourses))

	var buf bytes.Buffer
	switch format {
	case "dot":
		if err := render.WriteDOT(&buf, g); err != nil {
			h.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", buf.Bytes())
	default:
		if err := render.RenderPNG(&buf, g, render.PNGOptions{FontPath: h.font}); err != nil {
			h.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

func (h *CourseHandler) fail(c *gin.Context, err error) {
	h.log.Error("render graph failed", "request_id", c.GetString(requestIDKey), "error", err)
	RespondError(c, http.StatusInternalServerError, "render_failed", err)
}
