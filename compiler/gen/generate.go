package gen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Backend turns one shape into a generated file. Implementations must be
// pure per shape: generation reads the graph and resolver only, so the
// driver can run shapes concurrently without locking.
type Backend interface {
	// Name returns the backend name (e.g. "golang").
	Name() string
	// GenStruct generates the structure declaration ({shape}.go).
	GenStruct(s *Shape) *jen.File
	// GenBuilder generates the structure's builder ({shape}_builder.go).
	GenBuilder(s *Shape) *jen.File
	// GenUnion generates the union declaration ({shape}.go).
	GenUnion(s *Shape) *jen.File
	// GenEnum generates the enum declaration ({shape}.go).
	GenEnum(s *Shape) *jen.File
}

// Generator drives code generation over a shape graph. Each shape is
// generated independently; the graph and resolver are read-only for the
// duration of a run.
type Generator struct {
	graph   *Graph
	backend Backend
	workers int
	outDir  string
	pkg     string
	log     zerolog.Logger
}

// NewGenerator creates a generator for the given graph writing to outDir.
// A backend must be set with WithBackend before calling Generate.
func NewGenerator(g *Graph, outDir string) *Generator {
	pkg := g.Package
	if pkg == "" {
		pkg = filepath.Base(outDir)
	}
	return &Generator{
		graph:   g,
		workers: runtime.GOMAXPROCS(0),
		outDir:  outDir,
		pkg:     pkg,
		log:     zerolog.Nop(),
	}
}

// WithBackend sets the emission backend.
func (g *Generator) WithBackend(b Backend) *Generator {
	if b != nil {
		g.backend = b
	}
	return g
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithPackage sets the output package name.
func (g *Generator) WithPackage(pkg string) *Generator {
	if pkg != "" {
		g.pkg = pkg
	}
	return g
}

// WithLogger sets the logger used by the driver.
func (g *Generator) WithLogger(log zerolog.Logger) *Generator {
	g.log = log
	return g
}

// Pkg returns the output package name.
func (g *Generator) Pkg() string { return g.pkg }

// Generate generates code for every shape in the graph with parallel
// execution. Shapes whose kind emits no file (primitives, lists, maps) are
// skipped; they are composed inline by their referencing shapes.
func (g *Generator) Generate(ctx context.Context) error {
	if g.backend == nil {
		return NewConfigError("Backend", nil, "no backend set: call WithBackend() before Generate()")
	}
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return err
	}

	log := g.log.With().
		Str("run_id", uuid.NewString()).
		Str("backend", g.backend.Name()).
		Logger()
	log.Info().Int("shapes", len(g.graph.Shapes)).Int("workers", g.workers).Msg("generating")

	errg, _ := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)

	for _, t := range g.graph.Shapes {
		t := t
		switch t.Kind {
		case KindStructure:
			errg.Go(func() error {
				return g.writeFile(g.backend.GenStruct(t), strings.ToLower(t.Name)+".go")
			})
			errg.Go(func() error {
				return g.writeFile(g.backend.GenBuilder(t), strings.ToLower(t.Name)+"_builder.go")
			})
		case KindUnion:
			errg.Go(func() error {
				return g.writeFile(g.backend.GenUnion(t), strings.ToLower(t.Name)+".go")
			})
		case KindEnum:
			errg.Go(func() error {
				return g.writeFile(g.backend.GenEnum(t), strings.ToLower(t.Name)+".go")
			})
		case KindList, KindMap:
			// Composed inline, no standalone file.
		default:
			log.Debug().Str("shape", t.Name).Stringer("kind", t.Kind).Msg("skipping shape")
		}
	}

	if err := errg.Wait(); err != nil {
		log.Error().Err(err).Msg("generation failed")
		return err
	}
	log.Info().Str("dir", g.outDir).Msg("generation complete")
	return nil
}

// writeFile renders a jennifer file, runs it through the imports formatter
// as a syntax check, and writes it to the output directory.
func (g *Generator) writeFile(f *jen.File, filename string) error {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewSchemaError("", "", "rendering "+filename, err)
	}
	src, err := imports.Process(filename, buf.Bytes(), nil)
	if err != nil {
		return NewSchemaError("", "", "formatting "+filename, err)
	}
	path := filepath.Join(g.outDir, filename)
	// Skip identical rewrites so watch-driven runs do not churn mtimes.
	if prev, err := os.ReadFile(path); err == nil && bytes.Equal(prev, src) {
		g.log.Debug().Str("file", path).Msg("unchanged")
		return nil
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return err
	}
	g.log.Debug().Str("file", path).Msg("wrote file")
	return nil
}
