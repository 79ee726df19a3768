package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"ssw-msgspec-gen/internal/audit"
	"ssw-msgspec-gen/internal/config"
	"ssw-msgspec-gen/internal/orchestrator"
	cerr "ssw-msgspec-gen/pkg/errors"
)

func main() {
	var configFile string
	var specPath string
	var dryRun bool
	flag.StringVar(&configFile, "config", "", "Path to configuration file")
	flag.StringVar(&specPath, "spec", "", "Path to the input message spec workbook")
	flag.BoolVar(&dryRun, "dry-run", false, "Run the full pipeline but skip the commit")
	flag.Parse()

	if configFile == "" {
		if envConfigFile := os.Getenv("MSGSPEC_CONFIG_FILE"); envConfigFile != "" {
			configFile = envConfigFile
		} else {
			configFile = "./configs/config.yaml"
		}
	}
	if specPath == "" {
		specPath = os.Getenv("MSGSPEC_SPEC_PATH")
	}
	if specPath == "" && flag.NArg() > 0 {
		specPath = flag.Arg(0)
	}

	fmt.Printf("Using configuration file: %s\n", configFile)

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(cerr.ExitCode(err))
	}

	if specPath == "" {
		err := cerr.Config("spec", "no input spec workbook given: pass -spec, set MSGSPEC_SPEC_PATH, or a positional argument")
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(cerr.ExitCode(err))
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}

	log := audit.New()
	logger.WithFields(logrus.Fields{
		"specPath":      specPath,
		"outputRoot":    cfg.Output.Root,
		"dryRun":        dryRun,
		"correlationId": log.CorrelationID(),
	}).Info("starting message spec compiler")

	result, err := orchestrator.Run(cfg, orchestrator.Options{SpecPath: specPath, DryRun: dryRun}, logger, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
		os.Exit(cerr.ExitCode(err))
	}

	if result.Report != nil {
		fmt.Printf("Consistency check: pass=%v issues=%d\n", result.Report.Pass, len(result.Report.Issues))
	}
	if dryRun {
		fmt.Println("Dry run complete: no output was committed.")
		return
	}
	fmt.Printf("Committed %d files to %s\n", result.Manifest.FileCount, cfg.Output.Root)
}
