package main

import (
	"context"

	"github.com/chumcred/academy/storage/database"
)

func (cli *commandLine) seed() error {
	return database.Seed(context.Background(), cli.usrSvc, cli.crsSvc)
}
