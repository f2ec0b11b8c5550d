// Command pruneharness drives a PruningProcessor against a real goleveldb
// database from a scripted sequence of Process/Exit messages, giving the
// channel-driven worker a runnable home outside of a full node the way the
// teacher always pairs domain/consensus with a cmd/kaspad entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/daglabs/prunepoint/domain/consensus"
	"github.com/daglabs/prunepoint/domain/consensus/database/ldb"
	"github.com/daglabs/prunepoint/domain/consensus/processes/pruningprocessor"
	"github.com/daglabs/prunepoint/domain/consensus/utils/panics"
	"github.com/daglabs/prunepoint/domain/dagconfig"
	"github.com/daglabs/prunepoint/infrastructure/logger"
)

var log = logger.Get(logger.SubsystemTags.PRUN)

func main() {
	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogRotator(cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing log rotator: %s\n", err)
		os.Exit(1)
	}

	messages, err := loadScript(cfg.ScriptFile)
	if err != nil {
		log.Criticalf("Error loading script: %s", err)
		os.Exit(1)
	}

	databaseContext, err := ldb.New(cfg.DataDir)
	if err != nil {
		log.Criticalf("Error opening database: %s", err)
		os.Exit(1)
	}
	defer databaseContext.Close()

	dagParams := dagconfig.MainnetParams
	dagParams.IsArchival = cfg.IsArchival
	dagParams.EnableSanityChecks = !cfg.DisableSanityCheck

	collaborators, err := consensus.New(&dagParams, databaseContext)
	if err != nil {
		log.Criticalf("Error constructing consensus collaborators: %s", err)
		os.Exit(1)
	}

	spawn := panics.GoroutineWrapperFunc(log)
	runDone := make(chan error, 1)
	spawn(func() {
		runDone <- collaborators.Processor.Run()
	})

	for _, message := range messages {
		collaborators.Processor.Messages() <- message
	}
	if len(messages) == 0 || !messages[len(messages)-1].Exit {
		collaborators.Processor.Messages() <- pruningprocessor.ProcessMessage{Exit: true}
	}

	if err := <-runDone; err != nil {
		log.Criticalf("Pruning processor exited with error: %s", err)
		os.Exit(1)
	}

	log.Infof("Pruning processor finished its scripted run cleanly")
}
