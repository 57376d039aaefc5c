// Package api is the public surface of the converter: a Converter bound to
// one configuration, exposing the three entry points (memory to memory, file
// to memory, file to disk) on top of the schema-driven core.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/ublgen/internal/batch"
	"github.com/agentic-research/ublgen/internal/config"
	"github.com/agentic-research/ublgen/internal/schema"
)

// Converter converts JSON documents to UBL 2.1 XML. It is safe for
// concurrent use; the only shared state is the read-only descriptor cache.
type Converter struct {
	cfg      config.Config
	log      *slog.Logger
	store    *schema.Store
	compiler *schema.Compiler
	cache    *schema.Cache
	proc     *batch.Processor
}

// New builds a Converter from a configuration. A descriptor store that
// cannot be opened is logged and skipped; descriptors are then compiled
// fresh per process.
func New(cfg config.Config) (*Converter, error) {
	log, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	var store *schema.Store
	if cfg.CachePath != "" {
		store, err = schema.OpenStore(cfg.CachePath)
		if err != nil {
			log.Warn("descriptor store unavailable, compiling fresh", "path", cfg.CachePath, "err", err)
			store = nil
		}
	}

	compiler := schema.NewCompiler(os.DirFS(cfg.SchemaRoot), cfg.MaxRecursionDepth)
	cache := schema.NewCache(compiler, store, log)
	return &Converter{
		cfg:      cfg,
		log:      log,
		store:    store,
		compiler: compiler,
		cache:    cache,
		proc:     batch.NewProcessor(cache, cfg.MaxRecursionDepth, cfg.MaxWorkers, log),
	}, nil
}

// Close releases the descriptor store, if any.
func (c *Converter) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Convert converts a single document already in memory. It returns the
// document id and the rendered XML.
func (c *Converter) Convert(ctx context.Context, doc map[string]any) (string, string, error) {
	outcome := c.proc.Run(ctx, []map[string]any{doc})
	if outcome.Err != nil {
		return "", "", outcome.Err
	}
	if len(outcome.Documents) == 0 {
		return "", "", fmt.Errorf("no document produced")
	}
	rec := outcome.Documents[0]
	if rec.Err != nil {
		return rec.ID, "", rec.Err
	}
	return rec.ID, rec.XML, nil
}

// ConvertFile reads a JSON file (one object or an array of fragments),
// groups fragments by identity, and returns the merged documents as an
// id-to-XML map. Per-document failures are reported in the returned
// Outcome, not as an error.
func (c *Converter) ConvertFile(ctx context.Context, path string) (map[string]string, *Outcome, error) {
	docs, err := readInput(path)
	if err != nil {
		return nil, nil, err
	}
	c.log.Info("converting", "file", path, "fragments", len(docs))

	b := c.proc.Run(ctx, docs)
	outcome := outcomeFrom(b)
	if b.Err != nil {
		return nil, outcome, b.Err
	}

	result := make(map[string]string)
	for _, rec := range b.Documents {
		if rec.Err == nil {
			result[rec.ID] = rec.XML
		}
	}
	return result, outcome, nil
}

// ConvertFileToDir converts a JSON file and writes each document to dir as
// {id}.xml with atomic per-file writes. The returned Outcome carries the
// summary counts.
func (c *Converter) ConvertFileToDir(ctx context.Context, path, dir string) (*Outcome, error) {
	docs, err := readInput(path)
	if err != nil {
		return nil, err
	}
	c.log.Info("converting", "file", path, "fragments", len(docs), "output", dir)

	b := c.proc.Run(ctx, docs)
	if b.Err != nil {
		return outcomeFrom(b), b.Err
	}
	if err := batch.WriteFiles(b, dir); err != nil {
		return outcomeFrom(b), err
	}
	c.log.Info("batch complete", "files", b.FilesCreated, "inputs", b.TotalInputs)
	return outcomeFrom(b), nil
}

// BuildCache compiles descriptors for every known document type whose
// maindoc XSD is present under the schema root, persisting them to the
// descriptor store. Returns the number of descriptors built.
func (c *Converter) BuildCache() (int, error) {
	built := 0
	for _, docType := range schema.KnownTypes() {
		if _, err := c.compiler.SourceModTime(docType); err != nil {
			continue // type not bundled with this schema set
		}
		if _, err := c.cache.Lookup(docType); err != nil {
			c.log.Warn("descriptor build failed", "doc_type", docType, "err", err)
			continue
		}
		built++
	}
	if built == 0 {
		return 0, fmt.Errorf("no document type XSDs found under %s", c.cfg.SchemaRoot)
	}
	return built, nil
}

// readInput parses an input file into fragments. A single top-level object
// counts as one fragment.
func readInput(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	parsed, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}

	switch v := parsed.(type) {
	case map[string]any:
		return []map[string]any{v}, nil
	case []any:
		docs := make([]map[string]any, 0, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("parse input %s: element %d is not an object", path, i)
			}
			docs = append(docs, obj)
		}
		return docs, nil
	default:
		return nil, fmt.Errorf("parse input %s: expected object or array", path)
	}
}
