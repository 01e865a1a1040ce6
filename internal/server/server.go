// Package server exposes a feature set over a read-only HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/inodb/seqfeat/internal/feature"
)

// Server serves queries over a feature set. The set must not be modified
// while the server is running.
type Server struct {
	set    *feature.Set
	logger *zap.Logger
	router *gin.Engine
}

// New creates a server for set. A nil logger disables request logging.
func New(set *feature.Set, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{set: set, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), s.logRequest)
	r.GET("/sequences", s.sequences)
	r.GET("/types", s.types)
	r.GET("/features", s.features)
	r.GET("/features/:index", s.featureAt)
	s.router = r
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving features", zap.String("addr", addr), zap.Int("features", s.set.Len()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) logRequest(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("elapsed", time.Since(start)))
}

func (s *Server) sequences(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sequences": nonNil(s.set.Sequences())})
}

func (s *Server) types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": nonNil(s.set.Types())})
}

func (s *Server) features(c *gin.Context) {
	subset, err := s.query(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	out := make([]featureJSON, 0, subset.Len())
	for _, f := range subset.All() {
		out = append(out, toJSON(f))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "features": out})
}

// query applies the type, seq, start/end/complete and selector parameters
// in that order.
func (s *Server) query(c *gin.Context) (*feature.Set, error) {
	subset := s.set
	if types := c.QueryArray("type"); len(types) > 0 {
		subset = subset.SubsetForTypes(types)
	}
	if seqs := c.QueryArray("seq"); len(seqs) > 0 {
		subset = subset.SubsetForSequences(seqs)
	}

	start, hasStart := c.GetQuery("start")
	end, hasEnd := c.GetQuery("end")
	if _, ok := c.GetQuery("complete"); ok && !hasStart && !hasEnd {
		return nil, errors.New("complete requires start and end")
	}
	if hasStart || hasEnd {
		if !hasStart || !hasEnd {
			return nil, errors.New("start and end must be given together")
		}
		r, err := parseRange(start, end)
		if err != nil {
			return nil, err
		}
		complete := false
		if v, ok := c.GetQuery("complete"); ok {
			if complete, err = strconv.ParseBool(v); err != nil {
				return nil, fmt.Errorf("parse complete: %w", err)
			}
		}
		subset = subset.SubsetForRange(feature.WithStrand(r, feature.StrandNone), complete)
	}

	if v, ok := c.GetQuery("selector"); ok {
		sel, err := labels.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("parse selector: %w", err)
		}
		subset = subset.SubsetForSelector(sel)
	}
	return subset, nil
}

func parseRange(start, end string) (feature.Range, error) {
	b, err := strconv.ParseInt(start, 10, 64)
	if err != nil {
		return feature.Range{}, fmt.Errorf("parse start: %w", err)
	}
	e, err := strconv.ParseInt(end, 10, 64)
	if err != nil {
		return feature.Range{}, fmt.Errorf("parse end: %w", err)
	}
	if e < b {
		return feature.Range{}, fmt.Errorf("end %d before start %d", e, b)
	}
	return feature.Range{Begin: b, End: e}, nil
}

func (s *Server) featureAt(c *gin.Context) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, fmt.Errorf("parse index: %w", err))
		return
	}
	f, err := s.set.Feature(i)
	if errors.Is(err, feature.ErrIndexOutOfRange) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, toJSON(f))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
