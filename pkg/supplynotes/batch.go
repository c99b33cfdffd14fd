package supplynotes

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/supplynotes/pkg/supplynotes/identity"
	"github.com/cognicore/supplynotes/pkg/supplynotes/ingest"
)

// BatchReport is the merged outcome of ingesting several documents
type BatchReport struct {
	Reports   []ingest.Report     // one per document, in input order
	Suppliers []identity.Identity // merged registry
	Notes     []ingest.NoteRecord // all notes, in input order
}

// IngestAll runs one pipeline pass per document concurrently. Each run owns
// its resolver; the registries are merged afterwards in input order and the
// first identity seen for a normalized key wins. Supplier ids are a pure
// function of the normalized key, so notes keep theirs; their supplier names
// are rewritten to the winning display name.
func IngestAll(ctx context.Context, p *ingest.Pipeline, docs []ingest.Document) (BatchReport, error) {
	reports := make([]ingest.Report, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = p.Run(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchReport{}, err
	}

	registries := make([][]identity.Identity, len(reports))
	for i, r := range reports {
		registries[i] = r.Suppliers
	}
	merged := identity.Merge(registries...)

	display := make(map[string]string, len(merged))
	for _, ident := range merged {
		display[ident.ID] = ident.DisplayName
	}

	out := BatchReport{Reports: reports, Suppliers: merged}
	for _, r := range reports {
		for _, rec := range r.Notes {
			if name, ok := display[rec.SupplierID]; ok {
				rec.SupplierName = name
			}
			out.Notes = append(out.Notes, rec)
		}
	}
	return out, nil
}
