package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"goqtbridge/internal"
	"goqtbridge/internal/config"
	"goqtbridge/internal/generation"
	"goqtbridge/internal/metadata"
)

func main() {
	config.Define(flag.CommandLine)
	flag.Usage = func() {
		fmt.Println("App that generates Qt classes backed by Go state from object definitions.")
		flag.PrintDefaults()
	}
	flag.Parse()

	settings := config.Default()
	if path := flag.Lookup("config").Value.String(); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatal(err)
		}
		settings = loaded
	}
	settings.Apply(flag.CommandLine)

	if err := settings.Validate(); err != nil {
		log.Fatal(err)
	}
	if _, err := os.Stat(settings.Input); errors.Is(err, os.ErrNotExist) {
		log.Fatal("Input file does not exist!")
	}

	logger := newLogger(settings.Verbose)
	defer logger.Sync()

	document, err := metadata.ReadDefinitions(settings.Input)
	if err != nil {
		logger.Fatal("reading definitions", zap.Error(err))
	}

	err = os.Mkdir(settings.OutputPath, os.ModePerm)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		panic(err)
	}

	err = ClearDirectoryIfNotEmpty(settings.OutputPath, settings.ForceCleanOutput)
	internal.PanicOnError(err)

	generator := generation.NewGenerator(settings.PackageName, settings.OutputPath, logger)
	generator.Options = settings.Options()
	generator.EmitLayout = settings.EmitLayout
	for _, object := range document.Objects {
		generator.RegisterObject(object)
	}

	results, err := generator.Generate()
	if err != nil {
		logger.Fatal("writing artifacts", zap.Error(err))
	}

	rejected := 0
	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintln(os.Stderr, result.Err)
			rejected++
		}
	}
	if rejected > 0 {
		logger.Sync()
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	settings := zap.NewProductionConfig()
	if verbose {
		settings = zap.NewDevelopmentConfig()
	}
	logger, err := settings.Build()
	internal.PanicOnError(err)
	return logger
}

func ClearDirectoryIfNotEmpty(path string, silent bool) error {
	directory, err := os.Open(path)
	if err != nil {
		return err
	}
	defer directory.Close()

	_, err = directory.Readdirnames(1)
	if err == io.EOF {
		return nil
	}

	if err != nil {
		return err
	}

	var response string
	if !silent {
		fmt.Print("Output directory is not empty. Continuation will result in removing all output files. Proceed? [Y/n]")
		fmt.Scan(&response)
		if strings.ToUpper(response) != "Y" {
			log.Fatal("Explicit agreement was not given. Exiting.")
		}
	}

	fmt.Println("Cleaning output directory.")
	return os.RemoveAll(path)
}
