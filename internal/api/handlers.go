// Package api exposes the pipeline over a JSON HTTP surface. Handlers return
// raw error text to the operator; nothing is translated or retried here.
package api

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"resumerag/internal/agent"
	"resumerag/internal/eval"
	"resumerag/internal/namespace"
	"resumerag/internal/rag/schema"
	"resumerag/internal/rag/service"
	"resumerag/pkg/logger"
)

// AgentRunner runs one free-text instruction through the tool-calling loop.
type AgentRunner interface {
	Run(ctx context.Context, task string) (*agent.Result, error)
}

// EvalRunner runs one evaluation experiment.
type EvalRunner interface {
	Run(ctx context.Context, resumePath, goldPath string, cfg schema.PipelineConfig, label string) (*eval.Experiment, error)
}

// API provides the HTTP handlers.
type API struct {
	svc      *service.Service
	agent    AgentRunner
	eval     EvalRunner
	registry *namespace.Registry
	logger   *logger.Logger
}

// NewAPI creates a new API handler. The agent and eval runners may be nil
// when those surfaces are not configured; their endpoints then return 503.
func NewAPI(svc *service.Service, agentRunner AgentRunner, evalRunner EvalRunner, registry *namespace.Registry, log *logger.Logger) *API {
	return &API{
		svc:      svc,
		agent:    agentRunner,
		eval:     evalRunner,
		registry: registry,
		logger:   log,
	}
}

// ParseHandler extracts text from an uploaded resume file.
func (a *API) ParseHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	backend := c.DefaultPostForm("backend", schema.ParserBaseline)

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	text, err := a.svc.Parse(c.Request.Context(), fileBytes, ext, backend)
	if err != nil {
		a.logger.WithError(err).Warn("Parse request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text, "file_name": fileHeader.Filename})
}

type ingestRequest struct {
	Text     string                `json:"text" binding:"required"`
	Config   schema.PipelineConfig `json:"config"`
	Metadata map[string]string     `json:"metadata"`
}

// IngestHandler chunks, embeds and stores text under a namespace.
func (a *API) IngestHandler(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Config.Namespace == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "config.namespace is required"})
		return
	}

	count, err := a.svc.Ingest(c.Request.Context(), req.Text, req.Config, req.Metadata)
	if err != nil {
		a.logger.WithError(err).Warn("Ingest request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := a.registry.Add(req.Config.Namespace); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chunks": count, "namespace": req.Config.Namespace})
}

type queryRequest struct {
	Query  string                `json:"query" binding:"required"`
	Config schema.PipelineConfig `json:"config"`
}

// QueryHandler answers a question from an ingested namespace.
func (a *API) QueryHandler(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Config.Namespace == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "config.namespace is required"})
		return
	}

	answer, docs, err := a.svc.Generate(c.Request.Context(), req.Query, req.Config)
	if err != nil {
		a.logger.WithError(err).Warn("Query request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer, "documents": docs})
}

type agentRequest struct {
	Instruction string `json:"instruction" binding:"required"`
}

// AgentHandler runs a free-text instruction through the orchestrator.
func (a *API) AgentHandler(c *gin.Context) {
	if a.agent == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "agent is not configured"})
		return
	}
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := a.agent.Run(c.Request.Context(), req.Instruction)
	if err != nil {
		a.logger.WithError(err).Warn("Agent request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"output": result.Answer, "transcript": result.Steps})
}

// ListNamespacesHandler lists the registered namespaces.
func (a *API) ListNamespacesHandler(c *gin.Context) {
	names, err := a.registry.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"namespaces": names})
}

type namespaceRequest struct {
	Namespace string `json:"namespace" binding:"required"`
}

// AddNamespaceHandler registers a namespace name.
func (a *API) AddNamespaceHandler(c *gin.Context) {
	var req namespaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.registry.Add(req.Namespace); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"namespace": req.Namespace})
}

// DeleteNamespaceHandler unregisters a namespace. With ?purge=true it also
// deletes the namespace's vectors from the store.
func (a *API) DeleteNamespaceHandler(c *gin.Context) {
	name := c.Param("ns")
	purged := false

	if c.Query("purge") == "true" {
		if err := a.svc.PurgeNamespace(c.Request.Context(), name); err != nil {
			a.logger.WithError(err).Warn("Namespace purge failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		purged = true
	}
	if err := a.registry.Delete(name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"namespace": name, "purged": purged})
}

type evalRequest struct {
	ResumePath string                `json:"resume_path" binding:"required"`
	GoldPath   string                `json:"gold_path" binding:"required"`
	Config     schema.PipelineConfig `json:"config"`
	Label      string                `json:"label"`
}

// EvalHandler runs one evaluation experiment.
func (a *API) EvalHandler(c *gin.Context) {
	if a.eval == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "evaluation is not configured"})
		return
	}
	var req evalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Config.Namespace == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "config.namespace is required"})
		return
	}

	experiment, err := a.eval.Run(c.Request.Context(), req.ResumePath, req.GoldPath, req.Config, req.Label)
	if err != nil {
		a.logger.WithError(err).Warn("Eval request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, experiment)
}

// HealthzHandler reports liveness.
func (a *API) HealthzHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
