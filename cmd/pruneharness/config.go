package main

import (
	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// harnessConfig is the command-line surface for pruneharness: where the
// database lives, which scripted message feed to drive the processor from,
// and the two switches the pruning processor itself recognizes rather than
// the rest of consensus.
type harnessConfig struct {
	DataDir            string `short:"b" long:"datadir" description:"Directory to store the goleveldb database" required:"true"`
	ScriptFile         string `short:"s" long:"script" description:"JSON file listing the Process/Exit messages to feed the processor" required:"true"`
	LogFile            string `short:"l" long:"logfile" description:"Log file path" default:"pruneharness.log"`
	IsArchival         bool   `long:"archival" description:"Never discard historical blocks"`
	DisableSanityCheck bool   `long:"no-sanity" description:"Disable the UTXO commitment and proof rebuild sanity checks"`
}

func parseConfig() (*harnessConfig, error) {
	cfg := &harnessConfig{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		return nil, errors.New("--datadir is required")
	}
	if cfg.ScriptFile == "" {
		return nil, errors.New("--script is required")
	}

	return cfg, nil
}
