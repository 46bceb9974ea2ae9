package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/service/bundle"
	"github.com/Taichi-iskw/yt-notes/internal/service/history"
)

// Server is the HTTP API over the job tracker and the history store
type Server struct {
	echo    *echo.Echo
	tracker *Tracker
	history history.Service
	log     logrus.FieldLogger
}

type submitRequest struct {
	URL string `json:"url"`
}

type submitResponse struct {
	JobID   string `json:"job_id"`
	VideoID string `json:"video_id"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// New creates the server and registers its routes
func New(tracker *Tracker, hist history.Service, log logrus.FieldLogger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(log))

	s := &Server{echo: e, tracker: tracker, history: hist, log: log}

	e.GET("/health", s.health)

	api := e.Group("/api")
	api.POST("/jobs", s.submitJob)
	api.GET("/jobs/:id", s.getJob)

	api.GET("/history", s.listHistory)
	api.GET("/history/:video_id", s.getHistory)
	api.DELETE("/history/:video_id", s.deleteHistory)
	api.GET("/history/:video_id/notes", s.historyNotes)
	api.GET("/history/:video_id/mindmap", s.historyMindmap)
	api.GET("/history/:video_id/bundle", s.historyBundle)

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.log.WithField("addr", addr).Info("starting server")
	if err := s.echo.Start(addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for running jobs
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	s.tracker.Wait()
	return nil
}

func requestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			log.WithFields(logrus.Fields{
				"method":   c.Request().Method,
				"path":     c.Path(),
				"status":   c.Response().Status,
				"duration": time.Since(start).String(),
			}).Debug("request")
			return nil
		}
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) submitJob(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errors.Wrap(err, errors.CodeInvalidArg, "request body must be JSON with a url field"))
	}
	if req.URL == "" {
		return writeError(c, errors.New(errors.CodeInvalidArg, "url is required"))
	}

	job, created, err := s.tracker.Submit(req.URL)
	if err != nil {
		return writeError(c, err)
	}

	status := http.StatusAccepted
	if !created {
		status = http.StatusOK
	}
	return c.JSON(status, submitResponse{JobID: job.ID, VideoID: job.VideoID})
}

func (s *Server) getJob(c echo.Context) error {
	job, err := s.tracker.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, job)
}

func (s *Server) listHistory(c echo.Context) error {
	limit, err := intQuery(c, "limit")
	if err != nil {
		return writeError(c, err)
	}
	offset, err := intQuery(c, "offset")
	if err != nil {
		return writeError(c, err)
	}

	records, err := s.history.List(c.Request().Context(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) getHistory(c echo.Context) error {
	record, err := s.history.Get(c.Request().Context(), c.Param("video_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

func (s *Server) deleteHistory(c echo.Context) error {
	if err := s.history.Delete(c.Request().Context(), c.Param("video_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) historyNotes(c echo.Context) error {
	record, err := s.history.Get(c.Request().Context(), c.Param("video_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(record.NotesMarkdown))
}

func (s *Server) historyMindmap(c echo.Context) error {
	record, err := s.history.Get(c.Request().Context(), c.Param("video_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.HTML(http.StatusOK, record.OutlineDocument)
}

func (s *Server) historyBundle(c echo.Context) error {
	record, err := s.history.Get(c.Request().Context(), c.Param("video_id"))
	if err != nil {
		return writeError(c, err)
	}
	data, err := bundle.Zip(record)
	if err != nil {
		return writeError(c, errors.Wrap(err, errors.CodeInternal, "failed to build bundle"))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+record.VideoID+`.zip"`)
	return c.Blob(http.StatusOK, "application/zip", data)
}

func intQuery(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(errors.CodeInvalidArg, name+" must be a non-negative integer")
	}
	return n, nil
}

func writeError(c echo.Context, err error) error {
	code := errors.CodeOf(err)
	return c.JSON(statusOf(code), errorResponse{Error: code, Message: errors.MessageOf(err)})
}

func statusOf(code string) int {
	switch code {
	case errors.CodeInvalidArg:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeConflict:
		return http.StatusConflict
	case errors.CodeUnavailable, errors.CodeRejected, errors.CodeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
