package main

import (
	"log"
	"os"

	"github.com/trezcool/formacion/core"
	"github.com/trezcool/formacion/core/deal"
	"github.com/trezcool/formacion/core/roster"
	"github.com/trezcool/formacion/core/student"
	logsvc "github.com/trezcool/formacion/services/logger"
	notifysvc "github.com/trezcool/formacion/services/notify"
	"github.com/trezcool/formacion/storage/database"
	boiledrepos "github.com/trezcool/formacion/storage/database/sqlboiler"
	sqlxrepos "github.com/trezcool/formacion/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()
	appLogger := logsvc.NewRollbarLogger(logger, conf)

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	// set up services
	dealSvc := deal.NewService(sqlxrepos.NewDealRepository(db))
	studentSvc := student.NewService(boiledrepos.NewStudentRepository(db))
	syncer := roster.NewSyncer(studentSvc, nil, notifysvc.NewLogNotifier(appLogger), appLogger)

	// start CLI
	cli := commandLine{
		db:         db,
		dealSvc:    dealSvc,
		studentSvc: studentSvc,
		rosterSvc:  roster.NewService(dealSvc, studentSvc, syncer, conf),
		in:         os.Stdin,
		out:        os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
