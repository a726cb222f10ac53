package docgen

import (
	"fmt"

	"github.com/hupe1980/procmesh/core"
)

// StepGatherProductInfo is the name of the information gathering step.
const StepGatherProductInfo = "GatherProductInfo"

// OpGatherProductInformation returns internal product documentation for the
// requested product. Its result event feeds the documentation generator.
const OpGatherProductInformation = "gather_product_information"

// productInfo stands in for a lookup against internal documentation systems.
const productInfo = `Below is information about the product in the form of internal
documentation, specs, and troubleshooting guides:

GlowBrew is an AI driven coffee machine with an industry leading number of
LEDs and programmable light shows. It can also make coffee.

Features:
1. Luminous Brew Technology: customize your morning ambiance with
   programmable LED lights that sync with the brewing process.
2. AI Taste Assistant: learns taste preferences over time and suggests new
   brew combinations to explore.
3. Gourmet Aroma Diffusion: built-in aroma diffusers enhance the coffee's
   scent profile before the first sip.

Troubleshooting:
- Issue: LED lights malfunctioning.
  Solution: reset the lighting settings via the mobile app and ensure the
  firmware is updated to the latest version.
`

// GatherProductInfo is a stateless step returning canned internal product
// documentation.
type GatherProductInfo struct{}

// NewGatherProductInfo constructs the step.
func NewGatherProductInfo() *GatherProductInfo { return &GatherProductInfo{} }

// Name implements core.Step.
func (s *GatherProductInfo) Name() string { return StepGatherProductInfo }

// Operations implements core.Step.
func (s *GatherProductInfo) Operations() []core.OperationSpec {
	return []core.OperationSpec{
		{Name: OpGatherProductInformation, Parameters: []string{"product_name"}},
	}
}

// Invoke implements core.Step.
func (s *GatherProductInfo) Invoke(rc *core.RunContext, operation string, params core.Params) ([]core.Event, error) {
	if operation != OpGatherProductInformation {
		return nil, core.NewConfigurationError("step %s has no operation %q", s.Name(), operation)
	}

	productName := params.String("product_name")
	rc.Logger.Info("gathering product information", "step", s.Name(), "product", productName)

	info := fmt.Sprintf("Product: %s\n\n%s", productName, productInfo)

	return []core.Event{core.NewResultEvent(operation, info)}, nil
}
