// Package handler implements the HTTP faces of the query surface: /lookup
// (wildcard identifier search with optional sub-kind filters), /index
// (trigger a run against a workspace root), and /healthz.
package handler

import (
	"net/http"

	"chunkdex/internal/logger"
	"chunkdex/internal/query"
	"chunkdex/internal/repository"
	"chunkdex/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

// Handler binds the query and indexing surfaces to gin routes.
type Handler struct {
	repo    *repository.IndexRepository
	indexer *service.IndexService
	log     logger.Logger
}

// New builds a Handler over its collaborators.
func New(repo *repository.IndexRepository, indexer *service.IndexService, log logger.Logger) *Handler {
	return &Handler{repo: repo, indexer: indexer, log: log}
}

// Healthz responds 200 once the process is ready to serve requests.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// lookupRequest is the free-form JSON filter body accepted alongside the
// `id` query parameter. It's parsed with gjson rather than a fixed struct
// because every field is optional and the endpoint tolerates unknown keys.
type lookupRequest struct {
	Defs  bool
	Decls bool
	Refs  bool
}

func parseLookupBody(body []byte) lookupRequest {
	var req lookupRequest
	if len(body) == 0 {
		return req
	}
	result := gjson.ParseBytes(body)
	req.Defs = result.Get("defs").Bool()
	req.Decls = result.Get("decls").Bool()
	req.Refs = result.Get("refs").Bool()
	return req
}

// Lookup handles GET/POST /lookup?id=<glob>[&defs=1&decls=1&refs=1], with
// the same filters also accepted as a JSON body ({"defs":true,...}) for
// clients that prefer not to build a query string.
func (h *Handler) Lookup(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter: id"})
		return
	}

	body, _ := c.GetRawData()
	filter := query.Filter{
		Defs:  c.Query("defs") == "1" || c.Query("defs") == "true",
		Decls: c.Query("decls") == "1" || c.Query("decls") == "true",
		Refs:  c.Query("refs") == "1" || c.Query("refs") == "true",
	}
	if bodyFilter := parseLookupBody(body); bodyFilter.Defs || bodyFilter.Decls || bodyFilter.Refs {
		filter.Defs = filter.Defs || bodyFilter.Defs
		filter.Decls = filter.Decls || bodyFilter.Decls
		filter.Refs = filter.Refs || bodyFilter.Refs
	}

	rows, err := h.repo.Lookup(repository.QueryOpts{
		Defs:        filter.Defs,
		Decls:       filter.Decls,
		Refs:        filter.Refs,
		LikePattern: query.LikePattern(id),
	})
	if err != nil {
		h.log.Error("lookup %q: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "count": len(rows), "matches": rows})
}

// indexRequest names the workspace root to (re-)index.
type indexRequest struct {
	Root string `json:"root" binding:"required"`
}

// Index handles POST /index, running a synchronous indexing pass over the
// given root and returning its summary.
func (h *Handler) Index(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.indexer.Run(c.Request.Context(), req.Root)
	if err != nil {
		h.log.Error("index %q: %v", req.Root, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "indexing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":        result.RunID,
		"files_scanned": result.FilesScanned,
		"files_indexed": result.FilesIndexed,
		"files_skipped": result.FilesSkipped,
	})
}
