// Command shapec compiles shape model files into Go source code.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mkwei/shapec/compiler/gen"
	"github.com/mkwei/shapec/compiler/gen/golang"
	"github.com/mkwei/shapec/compiler/load"
)

var version = "dev"

var (
	flagOut     string
	flagTarget  string
	flagPackage string
	flagHeader  string
	flagWorkers int
	flagWatch   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "shapec",
	Short: "shapec - shape model compiler for Go",
	Long: `shapec compiles shape model files (YAML) into Go source code:
structure types with builders, tagged unions with accessors, and
string-backed enums.

Examples:
  shapec generate model.yaml --out ./api           # Server-side types
  shapec generate model.yaml --out ./api -t client # With the catch-all union variant
  shapec generate model.yaml --out ./api --watch   # Regenerate on model changes`,
	SilenceUsage: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate MODEL",
	Short: "Generate Go code from a model file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		target := gen.Target(flagTarget)
		if err := target.Validate(); err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		modelPath := args[0]
		if err := generate(ctx, log, modelPath, target); err != nil {
			return err
		}
		if !flagWatch {
			return nil
		}

		w, err := gen.NewWatcher(func(path string) {
			if err := generate(ctx, log, path, target); err != nil {
				log.Error().Err(err).Msg("regeneration failed")
			}
		})
		if err != nil {
			return err
		}
		defer w.Close()
		w.WithLogger(log)
		if err := w.Add(modelPath); err != nil {
			return err
		}
		log.Info().Str("model", modelPath).Msg("watching for changes")
		if err := w.Start(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the shapec version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("shapec " + version)
	},
}

// generate runs one compilation of a model file into the output directory.
func generate(ctx context.Context, log zerolog.Logger, modelPath string, target gen.Target) error {
	start := time.Now()
	m, err := load.FromFile(modelPath)
	if err != nil {
		return err
	}
	g, err := gen.NewGraph(m)
	if err != nil {
		return err
	}
	gn := gen.NewGenerator(g, flagOut).
		WithPackage(flagPackage).
		WithLogger(log)
	if flagWorkers > 0 {
		gn.WithWorkers(flagWorkers)
	}
	backend := golang.New(g, gen.NewResolver(), gen.Config{
		Package: gn.Pkg(),
		Target:  target,
		Header:  flagHeader,
	})
	if err := gn.WithBackend(backend).Generate(ctx); err != nil {
		return err
	}
	log.Info().Str("model", modelPath).Dur("took", time.Since(start)).Msg("compiled")
	return nil
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func init() {
	generateCmd.Flags().StringVarP(&flagOut, "out", "o", ".", "output directory for generated code")
	generateCmd.Flags().StringVarP(&flagTarget, "target", "t", string(gen.TargetServer), "generation target: client or server")
	generateCmd.Flags().StringVarP(&flagPackage, "package", "p", "", "package name for generated code (default: model's package)")
	generateCmd.Flags().StringVar(&flagHeader, "header", "", "override the generated-file header comment")
	generateCmd.Flags().IntVar(&flagWorkers, "workers", 0, "number of parallel workers (default: GOMAXPROCS)")
	generateCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "watch the model file and regenerate on change")
	generateCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(generateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
