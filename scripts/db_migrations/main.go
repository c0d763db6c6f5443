package main

import (
	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/finance-insights/internal/config"
	"github.com/carson-networks/finance-insights/internal/storage"
)

func main() {
	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	store, err := storage.NewStorage(env)
	if err != nil {
		logrus.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer store.Close()

	preMigrationVersion, postMigrationVersion, err := storage.Migrate(store.DB, "file://migrations")
	if err != nil {
		logrus.WithError(err).Fatal("storage.Migrate")
		return
	}

	logrus.WithFields(logrus.Fields{
		"preMigrationVersion":  preMigrationVersion,
		"postMigrationVersion": postMigrationVersion,
	}).Info("Migration status")
}
