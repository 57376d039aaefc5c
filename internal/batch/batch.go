// Package batch sequences the conversion pipeline (map, merge, validate,
// serialize) over a set of raw input documents, isolating failures at the
// document boundary and aggregating a batch summary.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agentic-research/ublgen/internal/engine"
	"github.com/agentic-research/ublgen/internal/schema"
)

// Record is one logical output document: the fragments grouped under an
// identity, their merged tree, and the conversion result. Err is set when
// this document failed mapping, merging, or validation; the rest of the
// batch is unaffected.
type Record struct {
	ID       string
	DocType  string
	Pages    []map[string]any
	Unmapped []string // union across pages, sorted
	Tree     *engine.Node
	XML      string
	Err      error
}

// Outcome aggregates a batch run. When Err is set the batch failed a
// structural precondition (unknown document type, schema compile failure)
// and Documents is empty.
type Outcome struct {
	Documents    []*Record
	TotalInputs  int
	FilesCreated int
	TypeCounts   map[string]int // successful documents per type
	Err          error
}

// Processor runs conversion batches against a shared descriptor cache.
// Independent identity groups run on separate goroutines; the only shared
// state is the read-only cache.
type Processor struct {
	cache    *schema.Cache
	maxDepth int
	workers  int
	log      *slog.Logger
}

// NewProcessor creates a batch processor. workers bounds pipeline
// concurrency; zero or negative means one worker.
func NewProcessor(cache *schema.Cache, maxDepth, workers int, log *slog.Logger) *Processor {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Processor{cache: cache, maxDepth: maxDepth, workers: workers, log: log}
}

// Run converts a set of raw fragments. Structural precondition failures
// (missing or unknown document_type, schema compile errors) abort the whole
// batch with a top-level error and no documents. Per-document failures are
// recorded on their Record and do not affect other documents. A cancelled
// context stops submitting new documents; in-flight ones complete.
func (p *Processor) Run(ctx context.Context, docs []map[string]any) *Outcome {
	out := &Outcome{TotalInputs: len(docs), TypeCounts: make(map[string]int)}

	records, err := p.group(docs)
	if err != nil {
		out.Err = err
		return out
	}

	// Compile every descriptor up front so schema failures stay batch-fatal
	// instead of surfacing mid-conversion.
	descriptors := make(map[string]*schema.Descriptor)
	for _, rec := range records {
		if rec.Err != nil || rec.DocType == "" {
			continue
		}
		if _, ok := descriptors[rec.DocType]; ok {
			continue
		}
		desc, err := p.cache.Lookup(rec.DocType)
		if err != nil {
			out.Err = err
			return out
		}
		descriptors[rec.DocType] = desc
	}

	g := &errgroup.Group{}
	g.SetLimit(p.workers)
	for _, rec := range records {
		if rec.Err != nil {
			continue
		}
		if ctx.Err() != nil {
			rec.Err = ctx.Err()
			continue
		}
		g.Go(func() error {
			p.convert(rec, descriptors[rec.DocType])
			return nil
		})
	}
	_ = g.Wait()

	for _, rec := range records {
		if rec.Err == nil {
			out.TypeCounts[rec.DocType]++
		} else {
			p.log.Warn("document failed", "id", rec.ID, "err", rec.Err)
		}
	}
	out.Documents = records
	return out
}

// group resolves identities and buckets fragments by lowercased id. The
// returned error is batch-fatal; recoverable problems (missing id,
// conflicting document types within one id) are recorded per document.
func (p *Processor) group(docs []map[string]any) ([]*Record, error) {
	var records []*Record
	byKey := make(map[string]*Record)

	for i, raw := range docs {
		docType, err := schema.ResolveType(lookupKey(raw, "documenttype"))
		if err != nil {
			return nil, fmt.Errorf("input[%d]: %w", i, err)
		}

		id := stringValue(lookupKey(raw, "id"))
		if id == "" {
			records = append(records, &Record{
				DocType: docType,
				Pages:   []map[string]any{raw},
				Err:     &engine.MappingError{Path: fmt.Sprintf("input[%d]", i), Reason: "fragment has no id"},
			})
			continue
		}

		key := strings.ToLower(id)
		rec, ok := byKey[key]
		if !ok {
			rec = &Record{ID: id, DocType: docType}
			byKey[key] = rec
			records = append(records, rec)
		}
		if rec.DocType != docType {
			rec.Err = &engine.MergeError{
				ID:     rec.ID,
				Reason: fmt.Sprintf("fragments declare conflicting document types %s and %s", rec.DocType, docType),
			}
		}
		rec.Pages = append(rec.Pages, raw)
	}
	return records, nil
}

// convert runs one identity group through the pipeline, storing either the
// rendered XML or the first error on the record.
func (p *Processor) convert(rec *Record, desc *schema.Descriptor) {
	mapper := engine.NewMapper(desc, p.maxDepth)

	unmapped := make(map[string]struct{})
	trees := make([]*engine.Node, 0, len(rec.Pages))
	for _, page := range rec.Pages {
		tree, dropped, err := mapper.Map(page)
		if err != nil {
			rec.Err = err
			return
		}
		for _, path := range dropped {
			unmapped[path] = struct{}{}
		}
		trees = append(trees, tree)
	}

	rec.Tree = engine.Merge(desc, trees)
	rec.Unmapped = sortedKeys(unmapped)
	if len(rec.Unmapped) > 0 {
		p.log.Debug("unmapped input fields", "id", rec.ID, "fields", rec.Unmapped)
	}

	xml, err := engine.Serialize(desc, rec.Tree)
	if err != nil {
		if verr, ok := err.(*engine.ValidationError); ok {
			verr.DocumentID = rec.ID
		}
		rec.Err = err
		return
	}
	rec.XML = xml
}

// lookupKey finds a value in a raw fragment by normalized key, so ID, Id and
// id are all accepted.
func lookupKey(raw map[string]any, normalized string) any {
	for k, v := range raw {
		if schema.NormalizeKey(k) == normalized {
			return v
		}
	}
	return nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", val), "0"), ".")
	default:
		return fmt.Sprintf("%v", val)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
