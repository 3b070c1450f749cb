// Package proofread assembles a validation pipeline from configuration.
//
// It registers the built-in validators and the Script validator, optionally
// synchronises rule scripts from a git repository, resolves the configured
// validators into granularity buckets and wires the result into a
// pipeline.Pipeline together with its distributor, metrics and tracer:
//
//	out, store, err := proofread.OpenDistributor(&cfg.Output, os.Stdout, logger)
//	if err != nil {
//		return err
//	}
//	if store != nil {
//		defer store.Close()
//	}
//
//	p, err := proofread.Build(ctx, cfg, proofread.Options{
//		Logger:      logger,
//		Distributor: out,
//	})
//	if err != nil {
//		return err
//	}
//
//	docs, err := proofread.LoadInputs("README.md", "guide.yaml")
//	if err != nil {
//		return err
//	}
//	findings, err := p.Check(ctx, docs)
package proofread
