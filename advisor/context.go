// Package advisor holds the strategy-advisory domain: the business
// context, the generated strategy plan and its elaborations, the
// interactive session state, and the engine that drives each
// prompt → complete → normalize round.
package advisor

import "fmt"

// Industry is one of the fixed set of supported industry labels.
type Industry string

const (
	IndustrySaaS          Industry = "saas"
	IndustryEcommerce     Industry = "ecommerce"
	IndustryFintech       Industry = "fintech"
	IndustryHealthcare    Industry = "healthcare"
	IndustryManufacturing Industry = "manufacturing"
	IndustryRetail        Industry = "retail"
	IndustryEducation     Industry = "education"
	IndustryOther         Industry = "other"
)

// Industries lists all valid industry labels.
var Industries = []Industry{
	IndustrySaaS,
	IndustryEcommerce,
	IndustryFintech,
	IndustryHealthcare,
	IndustryManufacturing,
	IndustryRetail,
	IndustryEducation,
	IndustryOther,
}

// IsValid checks if the industry is a known label.
func (i Industry) IsValid() bool {
	for _, v := range Industries {
		if i == v {
			return true
		}
	}
	return false
}

// CompanySize is one of the fixed set of company-size bands.
type CompanySize string

const (
	SizeStartup    CompanySize = "startup"     // 1-10
	SizeSmall      CompanySize = "small"       // 11-50
	SizeMedium     CompanySize = "medium"      // 51-200
	SizeLarge      CompanySize = "large"       // 201-1000
	SizeEnterprise CompanySize = "enterprise"  // 1000+
)

// CompanySizes lists all valid size bands.
var CompanySizes = []CompanySize{
	SizeStartup,
	SizeSmall,
	SizeMedium,
	SizeLarge,
	SizeEnterprise,
}

// IsValid checks if the size is a known band.
func (s CompanySize) IsValid() bool {
	for _, v := range CompanySizes {
		if s == v {
			return true
		}
	}
	return false
}

// BusinessContext is the submitted analysis input. It is immutable for
// the lifetime of a session.
type BusinessContext struct {
	// Company is the client company name.
	Company string `json:"company"`

	// Industry is the industry label.
	Industry Industry `json:"industry"`

	// CompanySize is the company-size band.
	CompanySize CompanySize `json:"company_size"`

	// Challenge is the free-text business challenge.
	Challenge string `json:"challenge"`

	// FocusAreas are optional focus-area tags.
	FocusAreas []string `json:"focus_areas,omitempty"`

	// Model is the allow-listed model to use; empty uses the default.
	Model string `json:"model,omitempty"`
}

// Validate checks the context is well-formed for an analysis round.
func (c BusinessContext) Validate() error {
	if c.Company == "" {
		return fmt.Errorf("company name is required")
	}
	if c.Challenge == "" {
		return fmt.Errorf("challenge description is required")
	}
	if !c.Industry.IsValid() {
		return fmt.Errorf("unknown industry %q", c.Industry)
	}
	if !c.CompanySize.IsValid() {
		return fmt.Errorf("unknown company size %q", c.CompanySize)
	}
	return nil
}
