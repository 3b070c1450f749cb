// Package pipeline runs bucketed validators over a document collection.
//
// A run has three phases, always in this order:
//
//  1. Document: every document validator over every document.
//  2. Section: section pre-processors over every section of every
//     document, then every section validator over every section.
//  3. Sentence: per section, sentence pre-processors over all sentences,
//     then every sentence validator over each sentence group (header,
//     paragraphs, list elements). A section's sentence findings are
//     distributed together once the section is done.
//
// Findings are tagged with their document's file name, streamed to the
// configured distributor and returned in the same order. Traversal is
// sequential and deterministic.
//
//	p, err := pipeline.New(buckets,
//	    pipeline.WithDistributor(distributor.NewPlain(os.Stdout)),
//	    pipeline.WithMetrics(collector),
//	)
//	findings, err := p.Check(ctx, collection)
package pipeline
