// Package nir provides a CFG/SSA shader intermediate representation
// and the lowering pipeline that rewrites abstract system-value reads
// into concrete hardware intrinsics.
//
// The package provides a simple, high-level API for running the
// pipeline as well as lower-level access to individual passes in the
// passes package.
//
// Example usage:
//
//	shader, err := nir.ParseShader(source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := nir.Lower(shader, nir.DefaultOptions()); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(shader)
package nir

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gogpu/nir/ir"
	"github.com/gogpu/nir/passes"
)

// Options configures the lowering pipeline.
type Options struct {
	// Validate enables IR validation after the pipeline runs.
	Validate bool

	// Cleanup enables the copy-elimination and dead-code passes that
	// collect the movs and unused loads the lowering leaves behind.
	Cleanup bool

	// MaxIterations bounds the cleanup fixpoint loop.
	MaxIterations int

	// Logger receives per-pass progress at debug level. Defaults to
	// the standard logrus logger.
	Logger *logrus.Logger
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Validate:      true,
		Cleanup:       true,
		MaxIterations: 16,
	}
}

// ParseShader reads a shader from its textual form.
func ParseShader(source string) (*ir.Shader, error) {
	shader, err := ir.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return shader, nil
}

// Lower runs the lowering pipeline over the shader in place.
//
// The pipeline is:
//  1. Lower system-value reads to hardware intrinsics
//  2. Run copy elimination and dead code to a fixpoint (if enabled)
//  3. Validate the result (if enabled)
func Lower(shader *ir.Shader, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	progress := passes.LowerSystemValues(shader)
	log.WithFields(logrus.Fields{
		"shader":   shader.Name,
		"progress": progress,
	}).Debug("lower_system_values")

	if opts.Cleanup {
		if err := cleanup(shader, opts, log); err != nil {
			return err
		}
	}

	if opts.Validate {
		validationErrors, err := ir.Validate(shader)
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
		if len(validationErrors) > 0 {
			return fmt.Errorf("validation failed: %w", validationErrors[0])
		}
	}

	return nil
}

func cleanup(shader *ir.Shader, opts Options, log *logrus.Logger) error {
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = 16
	}

	for _, fn := range shader.Functions {
		if fn.Impl == nil {
			continue
		}
		iter := 0
		for ; iter < maxIter; iter++ {
			progress := passes.CopyElim(fn.Impl)
			if passes.DeadCode(fn.Impl) {
				progress = true
			}
			if !progress {
				break
			}
		}
		if iter == maxIter {
			return fmt.Errorf("cleanup of %s did not reach a fixpoint after %d iterations", fn.Name, maxIter)
		}
		log.WithFields(logrus.Fields{
			"function":   fn.Name,
			"iterations": iter,
		}).Debug("cleanup fixpoint")
	}
	return nil
}
