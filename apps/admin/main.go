package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/studyplan"
	"github.com/fmsedu/curriculum/core/user"
	logsvc "github.com/fmsedu/curriculum/services/logger"
	"github.com/fmsedu/curriculum/storage/database"
	"github.com/fmsedu/curriculum/storage/database/sqlxrepos"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:       db,
		validate: validate,
		usrSvc:   user.NewService(sqlxrepos.NewUserRepository(db)),
		planSvc:  studyplan.NewService(sqlxrepos.NewStudyPlanRepository(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		_ = db.Close()
		logger.Close()
		os.Exit(1)
	}
}
