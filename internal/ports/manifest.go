package ports

import "rtsi-fw/internal/types"

// ManifestStorePort loads and persists versioned manifest documents.
type ManifestStorePort interface {
	Load(path string) (types.ManifestDocument, error)
	// Update applies mutate to the current document and writes the result
	// as a single unit.  It fails when the document changed on disk
	// between the read and the write.
	Update(path string, mutate func(*types.ManifestDocument) error) (types.ManifestDocument, error)
}

type ScenarioPort interface {
	LoadScenario(path string) (types.Scenario, error)
}

// ServiceDescriptorPort reads the engine service descriptor.
type ServiceDescriptorPort interface {
	EntryScript(path string) (string, error)
}
