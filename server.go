package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gridworld/astar"
	"gridworld/models"
)

const (
	PROTOBUF_CONTENT_TYPE = "application/x-protobuf"

	OUTCOME_FOUND   = "found"
	OUTCOME_NO_PATH = "no_path"
	OUTCOME_FAILED  = "failed"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridworld_runs_total",
		Help: "Planning runs by outcome.",
	}, []string{"outcome"})

	episodesPerRun = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridworld_episodes_per_run",
		Help:    "A* episodes needed by finished runs.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	expansionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridworld_expansions_total",
		Help: "Nodes expanded across all runs.",
	})
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

var errBadRequest = errors.New("bad plan request")

// Server answers planning requests, one agent per in-flight run.
type Server struct {
	engine   *gin.Engine
	defaults astar.Options
	agents   *models.AgentManager
	log      *zap.Logger
}

func NewServer(defaults astar.Options, agents *models.AgentManager, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{engine: gin.New(), defaults: defaults, agents: agents, log: log}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ret": models.RET_OK})
	})
	s.engine.POST("/plan", s.handlePlan)
	s.engine.GET("/ws/plan", s.handleStream)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server listening.", zap.String("addr", addr), zap.Int("agents", s.agents.Size()))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// prepare turns a request into a world and planner options, falling back to
// the server defaults for anything the request leaves out.
func (s *Server) prepare(req models.PlanRequest) (*astar.Gridworld, astar.Options, error) {
	opts := s.defaults
	opts.Logger = s.log
	world, err := models.ParseMap(strings.NewReader(req.Map))
	if err != nil {
		return nil, opts, err
	}
	if req.TieBreak != "" {
		if opts.TieBreak, err = astar.ParseTieBreak(req.TieBreak); err != nil {
			return nil, opts, err
		}
	}
	if req.MaxExpansions < 0 {
		return nil, opts, errors.New("maxExpansions must not be negative")
	}
	if req.MaxExpansions > 0 {
		opts.MaxExpansions = req.MaxExpansions
	}
	opts.Omniscient = opts.Omniscient || req.Omniscient
	return world, opts, nil
}

func observe(res *astar.Result, err error) {
	switch {
	case err == nil:
		runsTotal.WithLabelValues(OUTCOME_FOUND).Inc()
		episodesPerRun.Observe(float64(res.Episodes))
		expansionsTotal.Add(float64(res.Expansions))
	case errors.Is(err, astar.ErrNoPath):
		runsTotal.WithLabelValues(OUTCOME_NO_PATH).Inc()
	default:
		runsTotal.WithLabelValues(OUTCOME_FAILED).Inc()
	}
}

func failure(ret int32, err error) *models.PlanResult {
	return &models.PlanResult{Ret: ret, Err: err.Error()}
}

func (s *Server) handlePlan(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respond(c, http.StatusBadRequest, failure(models.RET_BAD_REQUEST, err))
		return
	}
	world, opts, err := s.prepare(req)
	if err != nil {
		s.respond(c, http.StatusBadRequest, failure(models.RET_BAD_REQUEST, err))
		return
	}
	agent, err := s.agents.GetLeisureAgent()
	if err != nil {
		s.respond(c, http.StatusServiceUnavailable, failure(models.RET_NO_AGENT, err))
		return
	}
	defer s.agents.ReleaseAgent(agent)

	opts.Logger = opts.Logger.With(zap.String("agent", agent))
	out, res, err := models.NewPathFinding(world, opts).FindPath(c.Request.Context())
	observe(res, err)
	if err != nil {
		s.respond(c, http.StatusUnprocessableEntity, out)
		return
	}
	s.respond(c, http.StatusOK, out)
}

// respond writes out as protobuf when the client asks for it, JSON otherwise.
func (s *Server) respond(c *gin.Context, status int, out *models.PlanResult) {
	if !strings.Contains(c.GetHeader("Accept"), PROTOBUF_CONTENT_TYPE) {
		c.JSON(status, out)
		return
	}
	b, err := models.EncodePlanResult(out)
	if err != nil {
		s.log.Error("Encoding plan result failed.", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, PROTOBUF_CONTENT_TYPE, b)
}

// handleStream reads one PlanRequest and answers with the episode frames, the
// walk frames and a final done frame carrying the PlanResult.
func (s *Server) handleStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed.", zap.Error(err))
		return
	}
	defer conn.Close()

	if err := s.stream(c.Request.Context(), conn); err != nil {
		s.log.Info("Stream ended early.", zap.Error(err))
		return
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) stream(ctx context.Context, conn *websocket.Conn) error {
	done := func(out *models.PlanResult) error {
		return conn.WriteJSON(models.Frame{Type: models.FRAME_DONE, Result: out})
	}

	var req models.PlanRequest
	if err := conn.ReadJSON(&req); err != nil {
		return done(failure(models.RET_BAD_REQUEST, err))
	}
	if req.Map == "" {
		return done(failure(models.RET_BAD_REQUEST, errBadRequest))
	}
	world, opts, err := s.prepare(req)
	if err != nil {
		return done(failure(models.RET_BAD_REQUEST, err))
	}
	agent, err := s.agents.GetLeisureAgent()
	if err != nil {
		return done(failure(models.RET_NO_AGENT, err))
	}
	defer s.agents.ReleaseAgent(agent)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var writeErr error
	opts.Logger = opts.Logger.With(zap.String("agent", agent))
	opts.OnEpisode = func(r astar.EpisodeReport) {
		if writeErr != nil {
			return
		}
		if writeErr = conn.WriteJSON(models.NewEpisodeFrame(r)); writeErr != nil {
			cancel()
		}
	}
	out, res, err := models.NewPathFinding(world, opts).FindPath(ctx)
	if writeErr != nil {
		return writeErr
	}
	observe(res, err)
	if err == nil {
		for _, f := range models.WalkFrames(res.Path) {
			if err := conn.WriteJSON(f); err != nil {
				return err
			}
		}
	}
	return done(out)
}
