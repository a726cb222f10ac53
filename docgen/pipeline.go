package docgen

import (
	"github.com/hupe1980/procmesh/core"
	"github.com/hupe1980/procmesh/process"
)

// TriggerStart is the external trigger that kicks off the pipeline. Its
// payload is the product name.
const TriggerStart = "Start"

// NewPipeline wires the documentation generation process: gather → generate →
// proofread → publish, with rejected drafts routed back into the generator.
// Publish options (for example a capture writer in tests) are forwarded to
// every run's Publish instance.
func NewPipeline(publishOpts ...func(o *PublishOptions)) (*process.Graph, error) {
	b := process.NewBuilder("DocumentationGeneration")

	gather := b.AddStep(func() core.Step { return NewGatherProductInfo() })
	generate := b.AddStep(func() core.Step { return NewGenerateDocumentation() })
	proofread := b.AddStep(func() core.Step { return NewProofread() })
	publish := b.AddStep(func() core.Step { return NewPublish(publishOpts...) })

	b.OnInputEvent(TriggerStart).
		SendEventTo(gather, OpGatherProductInformation, "product_name")

	gather.OnOperationResult(OpGatherProductInformation).
		SendEventTo(generate, OpGenerateDocumentation, "product_info")

	generate.OnEvent(EventDocumentationGenerated).
		SendEventTo(proofread, OpProofreadDocumentation, "docs")

	proofread.OnEvent(EventDocumentationRejected).
		SendEventTo(generate, OpApplySuggestions, "suggestions")

	proofread.OnEvent(EventDocumentationApproved).
		SendEventTo(publish, OpPublishDocumentation, "docs")

	return b.Build()
}
