package types

// Classification is the output of one classifier pass over a script.
// Lists hold the names as they should be acquired (translated or pinned);
// Assignments holds the raw imported symbol and the single category it
// was placed in.
type Classification struct {
	StandardLibrary      []string
	MiddlewareCore       []string
	MiddlewareAdditional []string
	PackageIndex         []string
	SystemRepo           []string
	Unresolvable         []string

	Assignments map[string]ProvenanceCategory
}

func NewClassification() Classification {
	return Classification{Assignments: map[string]ProvenanceCategory{}}
}

// List returns the emitted names for a category.
func (c Classification) List(category ProvenanceCategory) []string {
	switch category {
	case ProvenanceStandardLibrary:
		return c.StandardLibrary
	case ProvenanceMiddlewareCore:
		return c.MiddlewareCore
	case ProvenanceMiddlewareAdditional:
		return c.MiddlewareAdditional
	case ProvenancePackageIndex:
		return c.PackageIndex
	case ProvenanceSystemRepo:
		return c.SystemRepo
	case ProvenanceUnresolvable:
		return c.Unresolvable
	default:
		return nil
	}
}

// Assign records symbol under category and appends the emitted name.
func (c *Classification) Assign(symbol string, category ProvenanceCategory, emitted string) {
	c.Assignments[symbol] = category
	switch category {
	case ProvenanceStandardLibrary:
		c.StandardLibrary = append(c.StandardLibrary, emitted)
	case ProvenanceMiddlewareCore:
		c.MiddlewareCore = append(c.MiddlewareCore, emitted)
	case ProvenanceMiddlewareAdditional:
		c.MiddlewareAdditional = append(c.MiddlewareAdditional, emitted)
	case ProvenancePackageIndex:
		c.PackageIndex = append(c.PackageIndex, emitted)
	case ProvenanceSystemRepo:
		c.SystemRepo = append(c.SystemRepo, emitted)
	case ProvenanceUnresolvable:
		c.Unresolvable = append(c.Unresolvable, emitted)
	}
}
