// Package main provides the Saddle experiment CLI.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/saddle-ml/saddle/cmd/saddle/cmd"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stdout)

	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
