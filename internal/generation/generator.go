package generation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"goqtbridge/internal/diagnostic"
	"goqtbridge/internal/ir"
	"goqtbridge/internal/metadata"
	"goqtbridge/internal/validation"
)

// Generator translates a batch of definitions. Every object is translated on
// its own: a malformed definition only loses its own artifacts.
type Generator struct {
	Objects    []metadata.Object
	OutputPath string
	Options    Options
	// EmitLayout also writes the storage plan of every object as YAML.
	EmitLayout bool

	logger *zap.Logger
}

// Result is the outcome of one object, in registration order. Exactly one
// of Artifacts and Err is set.
type Result struct {
	Object    string
	Artifacts *Artifacts
	Err       error
}

func NewGenerator(packageName string, outputPath string, logger *zap.Logger) Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Generator{
		Objects:    make([]metadata.Object, 0),
		OutputPath: outputPath,
		Options:    Options{PackageName: packageName},
		logger:     logger,
	}
}

func (generator *Generator) RegisterObject(object metadata.Object) {
	generator.Objects = append(generator.Objects, object)
}

// Translate translates every registered object without touching the disk.
func (generator *Generator) Translate() []Result {
	known := make(validation.KnownObjects, len(generator.Objects))
	options := generator.Options
	options.Namespaces = make(map[string]string, len(generator.Objects))
	for _, object := range generator.Objects {
		if object.Name != "" {
			known[object.Name] = true
			options.Namespaces[object.Name] = object.Namespace
		}
	}

	results := make([]Result, 0, len(generator.Objects))
	owners := make(map[string]metadata.Object)
	for _, object := range generator.Objects {
		violations := diagnostic.NewList(object.Name)

		// Objects whose names only differ in case share their symbols and files.
		prefix := ir.SymbolPrefix(object.Name)
		if owner, taken := owners[prefix]; taken && object.Name != "" {
			violations.Addf(diagnostic.DuplicateName, "", object.Pos.Line, object.Pos.Column,
				"object %s collides with %s defined at line %d", object.Name, owner.Name, owner.Pos.Line)
		} else if object.Name != "" {
			owners[prefix] = object
		}

		bridged := ir.ExtractInto(object, violations)
		validation.ValidateInto(bridged, known, violations)

		result := Result{Object: object.Name}
		if err := violations.Err(); err != nil {
			result.Err = err
		} else {
			result.Artifacts, result.Err = Emit(bridged, options)
		}
		generator.report(result)
		results = append(results, result)
	}
	return results
}

func (generator *Generator) report(result Result) {
	var mismatch *SignatureMismatch
	var malformed *diagnostic.MalformedDefinition
	switch {
	case result.Err == nil:
		generator.logger.Debug("object translated",
			zap.String("object", result.Object),
			zap.Int("mirrors", len(result.Artifacts.Layout.Mirrors())),
			zap.Int("size", result.Artifacts.Layout.Size))
	case errors.As(result.Err, &mismatch):
		generator.logger.DPanic("boundary self-check failed", zap.String("object", result.Object), zap.Error(result.Err))
	case errors.As(result.Err, &malformed):
		for _, violation := range malformed.Violations {
			generator.logger.Warn(violation.Message,
				zap.String("object", violation.Object),
				zap.String("member", violation.Member),
				zap.Stringer("kind", violation.Kind),
				zap.Int("line", violation.Line),
				zap.Int("column", violation.Column))
		}
		generator.logger.Error("object rejected", zap.String("object", result.Object), zap.Int("violations", len(malformed.Violations)))
	default:
		generator.logger.Error("object rejected", zap.String("object", result.Object), zap.Error(result.Err))
	}
}

// Generate translates the batch and writes the artifacts of every accepted
// object. The returned error is only about the file system.
func (generator *Generator) Generate() ([]Result, error) {
	results := generator.Translate()

	err := os.MkdirAll(generator.OutputPath, os.ModePerm)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return results, fmt.Errorf("creating output directory: %w", err)
	}

	written := 0
	for _, result := range results {
		if result.Err != nil {
			continue
		}
		if err := generator.write(result.Artifacts); err != nil {
			return results, err
		}
		written++
	}

	if written > 0 {
		if err := WriteFile(generator.OutputPath, File{Name: AbiHeader, Content: abiHeader()}); err != nil {
			return results, err
		}
	}

	generator.logger.Info("generation finished",
		zap.Int("objects", len(results)),
		zap.Int("generated", written),
		zap.Int("rejected", len(results)-written))
	return results, nil
}

func (generator *Generator) write(artifacts *Artifacts) error {
	if err := WriteArtifacts(generator.OutputPath, artifacts); err != nil {
		return err
	}
	if generator.EmitLayout {
		path := filepath.Join(generator.OutputPath, artifacts.Prefix+"_layout.yaml")
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("writing layout of %s: %w", artifacts.Object, err)
		}
		defer file.Close()
		if err := artifacts.Layout.WriteYAML(file); err != nil {
			return err
		}
	}
	generator.logger.Info("object generated", zap.String("object", artifacts.Object), zap.String("prefix", artifacts.Prefix))
	return nil
}

// WriteArtifacts writes the files of one object into directory.
func WriteArtifacts(directory string, artifacts *Artifacts) error {
	for _, file := range artifacts.Files() {
		if err := WriteFile(directory, file); err != nil {
			return err
		}
	}
	return nil
}

func WriteFile(directory string, file File) error {
	path := filepath.Join(directory, file.Name)
	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
