package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/alignment"
	"github.com/fmsedu/curriculum/core/outcome"
	"github.com/fmsedu/curriculum/core/program"
	"github.com/fmsedu/curriculum/core/score"
	"github.com/fmsedu/curriculum/core/studyplan"
	"github.com/fmsedu/curriculum/core/subject"
	"github.com/fmsedu/curriculum/core/survey"
	"github.com/fmsedu/curriculum/core/user"
	"github.com/fmsedu/curriculum/services/throttle"
	"github.com/fmsedu/curriculum/storage/database"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		DB         core.DB
		Validate   *validator.Validate
		Translator ut.Translator
		LoginGuard core.LoginGuard
		Uploads    core.FileStore

		UserSvc      *user.Service
		ProgramSvc   *program.Service
		SubjectSvc   *subject.Service
		StudyPlanSvc *studyplan.Service
		OutcomeSvc   *outcome.Service
		AlignmentSvc *alignment.Service
		ScoreSvc     *score.Service
		SurveySvc    *survey.Service
	}

	Server struct {
		app      *echo.Echo
		srv      *http.Server
		deps     ServerDeps
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	if deps.LoginGuard == nil {
		deps.LoginGuard = throttle.NoopGuard{}
	}

	s := &Server{
		app:      echo.New(),
		deps:     deps,
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.srv = &http.Server{
		Addr:         deps.Conf.Server.Host,
		ReadTimeout:  deps.Conf.Server.ReadTimeout,
		WriteTimeout: deps.Conf.Server.WriteTimeout,
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = conf.TestMode
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORS())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/health", s.health)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(jwtConfig(conf))

	registerAuthAPI(api, jwt, s.deps)
	registerProgramAPI(api, s.deps)
	registerSubjectAPI(api, s.deps)
	registerStudyPlanAPI(api, s.deps)
	registerOutcomeAPI(api, s.deps)
	registerAlignmentAPI(api, s.deps)
	registerScoreAPI(api, s.deps)
	registerSurveyAPI(api, s.deps)
	registerUploadAPI(api, s.deps)

	registerStatic(s.app, conf)
}

// Start blocks until the server stops; errors other than a graceful close are sent on Errors().
func (s *Server) Start() {
	if err := s.app.StartServer(s.srv); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks for a graceful shutdown, as if the process received SIGTERM.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) health(ctx echo.Context) error {
	if err := database.StatusCheck(ctx.Request().Context(), s.deps.DB); err != nil {
		s.deps.Logger.Warn("health check failed", err)
		return ctx.JSON(http.StatusServiceUnavailable, echo.Map{"status": "db not ready"})
	}
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
