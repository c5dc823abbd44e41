package views

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	httperr "github.com/aevon-lab/pageviews/internal/core/errors"
	"github.com/aevon-lab/pageviews/internal/core/partition"
	"github.com/gin-gonic/gin"
)

// CountResponse is the body of a successful single-path request.
type CountResponse struct {
	Views int64 `json:"views"`
}

// RegisterRoutes serves every path that no other route claims. Counter paths
// are arbitrary, so they live on the engine's fallback handler rather than a
// wildcard route that would collide with fixed routes such as the health check.
func (s *Service) RegisterRoutes(r *gin.Engine) {
	r.NoRoute(s.HandleRequest)
}

// HandleRequest dispatches a request to the batch or single-path handler.
func (s *Service) HandleRequest(c *gin.Context) {
	if c.Request.Method == http.MethodPost && c.Request.URL.Path == partition.BatchPath {
		s.HandleBatchRequest(c)
		return
	}
	s.HandleSingleRequest(c)
}

// HandleSingleRequest handles GET and POST on /{path}.
func (s *Service) HandleSingleRequest(c *gin.Context) {
	method := c.Request.Method
	path := c.Request.URL.Path

	views, err := s.HandleSingle(c.Request.Context(), method, s.tenant(c), path)
	if err != nil {
		failMsg := httperr.MsgReadFailed
		if method == http.MethodPost {
			failMsg = httperr.MsgIncrementFailed
		}
		s.writeError(c, err, failMsg)
		return
	}

	c.JSON(http.StatusOK, CountResponse{Views: views})
}

// HandleBatchRequest handles POST /batch with a JSON array of paths.
func (s *Service) HandleBatchRequest(c *gin.Context) {
	host := s.tenant(c)
	if err := checkTenant(host); err != nil {
		s.writeError(c, err, "")
		return
	}

	limited := io.LimitReader(c.Request.Body, s.maxBodySizeBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		slog.Error("[Views] Failed to read request body", "error", err, "request_id", requestID(c))
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{Error: httperr.MsgReadBodyFailed})
		return
	}
	if int64(len(body)) > s.maxBodySizeBytes {
		slog.Warn("[Views] Request body exceeds maximum size",
			"size", len(body),
			"max", s.maxBodySizeBytes,
			"request_id", requestID(c),
		)
		c.JSON(http.StatusRequestEntityTooLarge, httperr.ErrorResponse{Error: httperr.MsgBodyTooLarge})
		return
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		slog.Warn("[Views] Invalid batch body", "error", err, "request_id", requestID(c))
		s.writeError(c, ErrMalformedBatch, "")
		return
	}
	paths, ok := decoded.([]any)
	if !ok {
		s.writeError(c, ErrMalformedBatch, "")
		return
	}

	result, err := s.HandleBatch(c.Request.Context(), host, paths)
	if err != nil {
		s.writeError(c, err, httperr.MsgReadFailed)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Service) tenant(c *gin.Context) string {
	if s.tenantHeader != "" {
		return c.GetHeader(s.tenantHeader)
	}
	return c.Request.Host
}

// writeError maps a service error to its HTTP status. Anything that is not a
// validation error is a persistence failure and answers with failMsg.
func (s *Service) writeError(c *gin.Context, err error, failMsg string) {
	var (
		status int
		msg    string
	)
	switch {
	case errors.Is(err, ErrMissingTenant):
		status, msg = http.StatusBadRequest, httperr.MsgMissingTenant
	case errors.Is(err, ErrInvalidTenant):
		status, msg = http.StatusBadRequest, httperr.MsgInvalidTenant
	case errors.Is(err, ErrInvalidPath):
		status, msg = http.StatusBadRequest, httperr.MsgInvalidPath
	case errors.Is(err, ErrMalformedBatch):
		status, msg = http.StatusBadRequest, httperr.MsgMalformedBatch
	case errors.Is(err, ErrMethodNotSupported):
		status, msg = http.StatusMethodNotAllowed, httperr.MsgMethodNotAllowed
	default:
		slog.Error("[Views] Counter operation failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
			"request_id", requestID(c),
		)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{Error: failMsg})
		return
	}

	slog.Debug("[Views] Rejected request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"reason", err,
		"request_id", requestID(c),
	)
	c.JSON(status, httperr.ErrorResponse{Error: msg})
}
