package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/iwvelando/loan-amortizer/internal/config"
	"github.com/iwvelando/loan-amortizer/internal/logging"
	"github.com/iwvelando/loan-amortizer/pkg/constants"
	"github.com/iwvelando/loan-amortizer/pkg/format"
	"github.com/iwvelando/loan-amortizer/pkg/loans"
	"github.com/iwvelando/loan-amortizer/pkg/output"
	"github.com/iwvelando/loan-amortizer/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file (see "+constants.ExampleConfigFile+")")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json, xlsx")
	outputFileFlag := flag.String("output-file", "", "write the schedule to this file instead of stdout")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// A missing .env is fine; environment overrides are optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"warn\", \"msg\": \"failed to load .env\", \"error\": \"%v\"}\n", err)
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	outputFile := conf.Output.File
	if *outputFileFlag != "" {
		outputFile = *outputFileFlag
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if outputFormat == constants.OutputFormatExcel && outputFile == "" {
		logger.Fatal("xlsx output requires an output file",
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	req, err := conf.ToScheduleRequest()
	if err != nil {
		logger.Fatal("failed to read loan configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	generator := loans.NewAmortizationScheduleGenerator(logger)
	generator.SetMaxPeriods(conf.Limits.MaxPeriods)
	schedule, err := generator.GenerateSchedule(req)
	if err != nil {
		logger.Fatal("failed to compute amortization schedule",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range schedule.Warnings {
		logger.Warn(warning,
			zap.String("op", "main"),
		)
	}
	if !schedule.PaidOff() {
		logger.Warn(fmt.Sprintf("loan is not paid off, final balance %s", format.Currency(schedule.FinalBalance())),
			zap.String("op", "main"),
		)
	}

	var w io.Writer = os.Stdout
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			logger.Fatal("failed to create output file",
				zap.String("op", "main"),
				zap.String("file", outputFile),
				zap.Error(err),
			)
		}
		defer func() {
			_ = file.Close()
		}()
		w = file
	}

	if err := output.Write(w, outputFormat, req, schedule); err != nil {
		logger.Fatal("failed to write schedule",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	logger.Info(fmt.Sprintf("generated %d %s periods", len(schedule.Rows), schedule.Frequency),
		zap.String("op", "main"),
	)
}
