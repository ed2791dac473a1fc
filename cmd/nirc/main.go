// Command nirc is the nir shader-IR tool.
//
// Usage:
//
//	nirc print shader.nir              # Parse, validate, and dump
//	nirc opt shader.nir                # Run the lowering pipeline
//	nirc opt -o out.nir shader.nir     # Write the result to a file
//	nirc opt --config opts.yaml in.nir # Apply a driver config file
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/nir"
	"github.com/gogpu/nir/ir"
)

var rootCmd = &cobra.Command{
	Use:   "nirc",
	Short: "A tool for the nir shader IR.",
	Long:  "A tool for parsing, optimizing, and printing shaders in nir textual form.",
}

var printCmd = &cobra.Command{
	Use:   "print <input>",
	Short: "Parse a shader and dump it back out.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		shader := readShader(cmd, args[0])
		validateShader(shader)
		writeOutput(cmd, shader)
	},
}

var optCmd = &cobra.Command{
	Use:   "opt <input>",
	Short: "Run the lowering pipeline over a shader.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		shader := readShader(cmd, args[0])

		opts := nir.DefaultOptions()
		noValidate, _ := cmd.Flags().GetBool("no-validate")
		noCleanup, _ := cmd.Flags().GetBool("no-cleanup")
		opts.Validate = !noValidate
		opts.Cleanup = !noCleanup

		if err := nir.Lower(shader, opts); err != nil {
			log.Fatalf("lowering failed: %v", err)
		}
		writeOutput(cmd, shader)
	},
}

// Config is the YAML driver configuration accepted via --config.
type Config struct {
	LogLevel string `yaml:"log_level"`
	Options  struct {
		VertexIDZeroBased *bool `yaml:"vertex_id_zero_base"`
	} `yaml:"options"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

func configureLogging(cmd *cobra.Command) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel(log.DebugLevel)
	}
}

func readShader(cmd *cobra.Command, path string) *ir.Shader {
	source, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("reading input: %v", err)
	}

	shader, err := nir.ParseShader(string(source))
	if err != nil {
		log.Fatalf("%v", err)
	}

	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("%v", err)
		}
		applyConfig(shader, cfg)
	}
	return shader
}

func applyConfig(shader *ir.Shader, cfg *Config) {
	if cfg.LogLevel != "" {
		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			log.Fatalf("bad log_level: %v", err)
		}
		log.SetLevel(level)
	}
	if cfg.Options.VertexIDZeroBased != nil {
		if shader.Options == nil {
			shader.Options = &ir.DriverOptions{}
		}
		shader.Options.VertexIDZeroBased = *cfg.Options.VertexIDZeroBased
	}
}

func validateShader(shader *ir.Shader) {
	validationErrors, err := ir.Validate(shader)
	if err != nil {
		log.Fatalf("validation error: %v", err)
	}
	for _, ve := range validationErrors {
		log.Errorf("%v", ve)
	}
	if len(validationErrors) > 0 {
		os.Exit(1)
	}
}

func writeOutput(cmd *cobra.Command, shader *ir.Shader) {
	text := ir.Sprint(shader)
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := os.WriteFile(output, []byte(text), 0644); err != nil {
			log.Fatalf("writing output: %v", err)
		}
		return
	}
	fmt.Print(text)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().String("config", "", "driver configuration file (YAML)")
	optCmd.Flags().Bool("no-validate", false, "skip IR validation after the pipeline")
	optCmd.Flags().Bool("no-cleanup", false, "skip the cleanup fixpoint passes")
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(optCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
