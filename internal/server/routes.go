package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danmuck/devkit/internal/catalog"
	"github.com/danmuck/devkit/internal/observability"
	"github.com/danmuck/devkit/internal/tools"
)

var errBadBody = errors.New("invalid request body")

type actionRequest struct {
	Args map[string]any `json:"args"`
}

type toolDetail struct {
	tools.Metadata
	Operations []tools.OperationSpec `json:"operations"`
}

type categoryInfo struct {
	catalog.Category
	Tools int `json:"tools"`
}

func (s *Server) registerRoutes() {
	r := s.router
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": version,
		})
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := s.executor.Registry().Len() > 0
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ready":   ready,
			"tools":   s.executor.Registry().Len(),
			"service": s.Name,
			"version": version,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/", s.rateLimit())
	api.GET("/categories", s.listCategories)
	api.GET("/tools", s.listTools)
	api.GET("/tools/:id", s.describeTool)
	api.POST("/tools/:id/actions/:action", s.executeAction)
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter != nil && !s.limiter.Allow() {
			observability.RecordRateLimited(s.Name)
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status": tools.StatusError,
				"error":  "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

func (s *Server) listCategories(c *gin.Context) {
	registry := s.executor.Registry()
	counts := make(map[string]int)
	for _, meta := range registry.ListMetadata("") {
		counts[meta.Category]++
	}
	list := make([]categoryInfo, 0, len(counts))
	for _, cat := range catalog.Categories() {
		if counts[cat.ID] == 0 {
			continue
		}
		list = append(list, categoryInfo{Category: cat, Tools: counts[cat.ID]})
	}
	c.JSON(http.StatusOK, gin.H{"categories": list})
}

func (s *Server) listTools(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	c.JSON(http.StatusOK, gin.H{"tools": s.executor.Registry().ListMetadata(category)})
}

func (s *Server) describeTool(c *gin.Context) {
	id := c.Param("id")
	tool, ok := s.executor.Registry().Resolve(id)
	if !ok {
		s.fail(c, fmt.Errorf("%w: %s", tools.ErrToolNotFound, id))
		return
	}
	c.JSON(http.StatusOK, toolDetail{Metadata: tool.Metadata(), Operations: tool.Operations()})
}

func (s *Server) executeAction(c *gin.Context) {
	args, err := s.readArgs(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.executor.Execute(c.Param("id"), c.Param("action"), args)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": res.Status,
		"output": strings.TrimSuffix(string(res.Stdout), "\n"),
	})
}

// readArgs decodes {"args": {...}}. Scalar values are stringified; numbers
// keep their literal form. An empty body means no arguments.
func (s *Server) readArgs(c *gin.Context) (map[string]string, error) {
	body := c.Request.Body
	if limit := s.bodyLimit(); limit > 0 {
		body = http.MaxBytesReader(c.Writer, body, limit)
	}
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var req actionRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return map[string]string{}, nil
		case errors.As(err, &tooLarge):
			return nil, fmt.Errorf("%w: body exceeds %d bytes", tools.ErrInputTooLarge, tooLarge.Limit)
		default:
			return nil, fmt.Errorf("%w: %v", errBadBody, err)
		}
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: unexpected data after the JSON object", errBadBody)
	}

	args := make(map[string]string, len(req.Args))
	for k, v := range req.Args {
		switch val := v.(type) {
		case string:
			args[k] = val
		case json.Number:
			args[k] = val.String()
		case bool:
			args[k] = fmt.Sprint(val)
		case nil:
		default:
			return nil, fmt.Errorf("%w: argument %q must be a string, number or boolean", errBadBody, k)
		}
	}
	return args, nil
}

// bodyLimit leaves room for JSON escaping and argument names on top of the
// executor's input cap.
func (s *Server) bodyLimit() int64 {
	if s.cfg.MaxInputBytes <= 0 {
		return 0
	}
	return int64(s.cfg.MaxInputBytes)*6 + 4096
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{
		"status": tools.StatusError,
		"error":  err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tools.ErrToolNotFound), errors.Is(err, tools.ErrActionNotFound):
		return http.StatusNotFound
	case errors.Is(err, tools.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, tools.ErrInvalidInput), errors.Is(err, errBadBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
