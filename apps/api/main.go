package main

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/fmsedu/curriculum/apps/api/echo"
	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/alignment"
	"github.com/fmsedu/curriculum/core/outcome"
	"github.com/fmsedu/curriculum/core/program"
	"github.com/fmsedu/curriculum/core/score"
	"github.com/fmsedu/curriculum/core/studyplan"
	"github.com/fmsedu/curriculum/core/subject"
	"github.com/fmsedu/curriculum/core/survey"
	"github.com/fmsedu/curriculum/core/user"
	logsvc "github.com/fmsedu/curriculum/services/logger"
	"github.com/fmsedu/curriculum/services/throttle"
	"github.com/fmsedu/curriculum/services/upload"
	"github.com/fmsedu/curriculum/storage/database"
	"github.com/fmsedu/curriculum/storage/database/sqlxrepos"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// login throttling is backed by redis when configured
	guard, err := throttle.New(conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up login throttle: %v", err), err)
	}
	if closer, ok := guard.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	uploads, err := upload.NewDiskStore(conf.Server.UploadDir, conf.Server.MaxUploadSize)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up uploads: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	outcome.InitValidators(validate, translator)
	studyplan.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			DB:         db,
			Validate:   validate,
			Translator: translator,
			LoginGuard: guard,
			Uploads:    uploads,

			UserSvc:      user.NewService(sqlxrepos.NewUserRepository(db)),
			ProgramSvc:   program.NewService(sqlxrepos.NewProgramRepository(db)),
			SubjectSvc:   subject.NewService(sqlxrepos.NewSubjectRepository(db)),
			StudyPlanSvc: studyplan.NewService(sqlxrepos.NewStudyPlanRepository(db)),
			OutcomeSvc:   outcome.NewService(sqlxrepos.NewOutcomeRepository(db)),
			AlignmentSvc: alignment.NewService(sqlxrepos.NewAlignmentRepository(db)),
			ScoreSvc:     score.NewService(sqlxrepos.NewScoreRepository(db)),
			SurveySvc:    survey.NewService(sqlxrepos.NewSurveyRepository(db)),
		},
	)

	go func() {
		logger.Info(fmt.Sprintf("API listening on %s", conf.Server.Host))
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
