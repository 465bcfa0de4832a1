// Package config holds the generator settings. Values are layered: defaults,
// then an optional YAML file, then the flags given on the command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"go/token"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"goqtbridge/internal/bridge"
	"goqtbridge/internal/generation"
)

type Config struct {
	Input               string `yaml:"input"`
	OutputPath          string `yaml:"outputPath"`
	PackageName         string `yaml:"packageName"`
	RuntimePackage      string `yaml:"runtimePackage"`
	ForceCleanOutput    bool   `yaml:"forceCleanOutput"`
	EmitLayout          bool   `yaml:"emitLayout"`
	GuardInitialization bool   `yaml:"guardInitialization"`
	Verbose             bool   `yaml:"verbose"`
}

func Default() Config {
	return Config{
		OutputPath:     "./output/",
		PackageName:    "bridge",
		RuntimePackage: bridge.RuntimePackage,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer file.Close()

	config, err := Parse(file, Default())
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Parse decodes YAML over base. Unknown keys are rejected.
func Parse(reader io.Reader, base Config) (Config, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	config := base
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return config, nil
}

// Define declares the command line flags on flags. The config flag names the
// YAML file and is not part of Config.
func Define(flags *flag.FlagSet) {
	defaults := Default()
	flags.String("config", "", "The path to an optional YAML configuration file. Flags given explicitly override it.")
	flags.String("input", defaults.Input, "The path to the YAML file with the object definitions.")
	flags.String("outputPath", defaults.OutputPath, "The path where all generated files will be placed.")
	flags.String("packageName", defaults.PackageName, "The name of the Go package of the generated shims.")
	flags.String("runtimePackage", defaults.RuntimePackage, "The import path of the Go value types used by the shims.")
	flags.Bool("forceCleanOutput", defaults.ForceCleanOutput, "If given forces cleaning output directory before generation.")
	flags.Bool("emit-layout", defaults.EmitLayout, "Also write the storage layout of every object as YAML.")
	flags.Bool("guard-init", defaults.GuardInitialization, "Refuse calls reaching an object before its construction completed.")
	flags.Bool("verbose", defaults.Verbose, "Log every generation step.")
}

// Apply overrides c with the flags set explicitly on flags.
func (c *Config) Apply(flags *flag.FlagSet) {
	flags.Visit(func(f *flag.Flag) {
		getter, ok := f.Value.(flag.Getter)
		if !ok {
			return
		}
		value := getter.Get()
		switch f.Name {
		case "input":
			c.Input = value.(string)
		case "outputPath":
			c.OutputPath = value.(string)
		case "packageName":
			c.PackageName = value.(string)
		case "runtimePackage":
			c.RuntimePackage = value.(string)
		case "forceCleanOutput":
			c.ForceCleanOutput = value.(bool)
		case "emit-layout":
			c.EmitLayout = value.(bool)
		case "guard-init":
			c.GuardInitialization = value.(bool)
		case "verbose":
			c.Verbose = value.(bool)
		}
	})
}

func (c Config) Validate() error {
	switch {
	case c.Input == "":
		return errors.New("input file path is missing")
	case c.OutputPath == "":
		return errors.New("output path is missing")
	case !token.IsIdentifier(c.PackageName):
		return fmt.Errorf("package name %q is not a Go identifier", c.PackageName)
	case c.RuntimePackage == "":
		return errors.New("runtime package is missing")
	}
	return nil
}

// Options returns the translation options for generation.
func (c Config) Options() generation.Options {
	return generation.Options{
		PackageName:         c.PackageName,
		RuntimePackage:      c.RuntimePackage,
		GuardInitialization: c.GuardInitialization,
	}
}
