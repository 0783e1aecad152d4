package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"critique/internal/catalog"
	"critique/internal/logging"
	"critique/internal/metadata"
	"critique/internal/pipeline"
	"critique/internal/preprocess"
	"critique/internal/store"
	"critique/internal/textnorm"
)

// Store is the persistence the API reads.
type Store interface {
	metadata.Source
	Denylist(ctx context.Context) (catalog.Denylist, error)
	GetReview(ctx context.Context, id int64) (*store.Review, error)
	Sentences(ctx context.Context, reviewID int64) ([]store.Sentence, error)
	Stats(ctx context.Context) (store.Stats, error)
}

// Runner starts a batch run.
type Runner interface {
	Run(ctx context.Context) (preprocess.Summary, error)
}

// Options configure NewRouter. Store and Runner may be nil; their routes
// then answer 503.
type Options struct {
	Models            *pipeline.Models
	Store             Store
	Runner            Runner
	Token             string
	IncludeFirstNames bool
	Logger            *slog.Logger
}

type handlers struct {
	opts   Options
	logger *slog.Logger
}

// NewRouter builds the gin engine.
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	h := &handlers{opts: opts, logger: logging.NewComponentLogger(logger, "api")}

	r := gin.New()
	r.Use(gin.Recovery(), h.requestID())
	r.NoRoute(func(c *gin.Context) {
		errorJSON(c, http.StatusNotFound, "not found")
	})

	v1 := r.Group("/api/v1")
	v1.GET("/health", h.health)

	authed := v1.Group("", bearerAuth(opts.Token))
	{
		authed.POST("/normalize", h.normalize)
		authed.POST("/preprocess", h.preprocess)
		authed.GET("/stats", h.stats)
		authed.GET("/reviews/:id", h.review)
		authed.POST("/runs", h.run)
	}
	return r
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// bearerAuth validates "Authorization: Bearer <token>". An empty token
// disables the check.
func bearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
			errorJSON(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Next()
	}
}

func (h *handlers) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		ctx := logging.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		start := time.Now()
		c.Next()
		logging.WithContext(ctx, h.logger).Debug("request",
			logging.String("method", c.Request.Method),
			logging.String("path", c.FullPath()),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", time.Since(start)),
		)
	}
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Tagger: h.opts.Models != nil && h.opts.Models.HasTagger(),
		Scorer: h.opts.Models != nil && h.opts.Models.HasScorer(),
		Store:  h.opts.Store != nil,
	})
}

func (h *handlers) normalize(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "text is required")
		return
	}
	if req.UnicodeForm == "" {
		c.JSON(http.StatusOK, NormalizeResponse{Text: h.opts.Models.Normalize(req.Text)})
		return
	}
	if _, err := textnorm.ParseForm(req.UnicodeForm); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, NormalizeResponse{Text: textnorm.Normalize(req.Text, req.UnicodeForm)})
}

func (h *handlers) preprocess(c *gin.Context) {
	var req PreprocessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "text is required")
		return
	}
	ctx := c.Request.Context()
	work, err := h.resolveWork(ctx, strings.TrimSpace(req.WorkID))
	if err != nil {
		h.logger.Warn("metadata lookup failed", logging.String(logging.FieldWorkID, req.WorkID), logging.Error(err))
		errorJSON(c, http.StatusInternalServerError, "metadata lookup failed")
		return
	}
	res, err := h.opts.Models.Process(ctx, req.Text, work)
	if err != nil {
		status := http.StatusBadGateway
		if pipeline.ErrorKind(err) == pipeline.KindCanceled {
			status = http.StatusServiceUnavailable
		}
		errorJSON(c, status, err.Error())
		return
	}
	c.JSON(http.StatusOK, FromResult(res))
}

func (h *handlers) resolveWork(ctx context.Context, workID string) (pipeline.Work, error) {
	if workID == "" || h.opts.Store == nil {
		return pipeline.Work{ID: workID}, nil
	}
	deny, err := h.opts.Store.Denylist(ctx)
	if err != nil {
		return pipeline.Work{}, err
	}
	resolver := metadata.NewResolver(h.opts.Store, deny)
	return pipeline.ResolveWork(ctx, resolver, workID, metadata.Options{IncludeFirstNames: h.opts.IncludeFirstNames})
}

func (h *handlers) stats(c *gin.Context) {
	if h.opts.Store == nil {
		errorJSON(c, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	stats, err := h.opts.Store.Stats(c.Request.Context())
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, FromStats(stats))
}

func (h *handlers) review(c *gin.Context) {
	if h.opts.Store == nil {
		errorJSON(c, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorJSON(c, http.StatusBadRequest, "invalid review id")
		return
	}
	ctx := c.Request.Context()
	review, err := h.opts.Store.GetReview(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		errorJSON(c, http.StatusNotFound, "review not found")
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	sentences, err := h.opts.Store.Sentences(ctx, id)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, FromReview(review, sentences))
}

func (h *handlers) run(c *gin.Context) {
	if h.opts.Runner == nil {
		errorJSON(c, http.StatusServiceUnavailable, "batch runner unavailable")
		return
	}
	summary, err := h.opts.Runner.Run(c.Request.Context())
	if errors.Is(err, preprocess.ErrRunInProgress) {
		errorJSON(c, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}
