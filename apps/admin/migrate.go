package main

import (
	"github.com/chumcred/academy/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate() error {
	return migrateFunc(cli.db, cli.conf)
}
