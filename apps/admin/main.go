package main

import (
	"log"
	"os"

	"github.com/chumcred/academy/core"
	"github.com/chumcred/academy/core/course"
	"github.com/chumcred/academy/core/user"
	emailsvc "github.com/chumcred/academy/services/email"
	"github.com/chumcred/academy/storage/database"
	sqlxrepos "github.com/chumcred/academy/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	mailSvc := emailsvc.NewConsoleService(conf)
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, conf)
	crsSvc := course.NewService(sqlxrepos.NewCourseRepository(db))

	// start CLI
	cli := commandLine{
		conf:   conf,
		db:     db,
		usrSvc: usrSvc,
		crsSvc: crsSvc,
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
