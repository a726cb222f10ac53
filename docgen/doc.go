// Package docgen implements a documentation generation pipeline on top of
// the process engine: gather product information, generate customer facing
// documentation with a model, proofread the result with a structured
// evaluation, and publish on approval. Rejected drafts loop back into the
// generator together with the proofreader's suggestions until a draft passes
// review.
//
// NewPipeline wires the four steps into a ready-to-run process graph.
package docgen
