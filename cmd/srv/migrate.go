package main

import (
	"github.com/urfave/cli/v2"

	"github.com/contractdock/backend/migration"
)

func (s *srv) startMigrate(ct *cli.Context) error {
	server.loadConfig()
	server.loadLogger()
	server.loadDatabase()

	if err := migration.AutoMigrate(s.newContext()); err != nil {
		return err
	}

	s.logger.Infof("Migration completed")
	return nil
}
