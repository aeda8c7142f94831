package adapters

import (
	"encoding/xml"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rtsi-fw/internal/ports"
)

const gmlNamespace = "http://example.com/r/gml"

// ServiceDescriptorAdapter reads the engine's hri.xml service descriptor.
type ServiceDescriptorAdapter struct {
	mu    sync.Mutex
	cache map[string]descriptorCacheEntry
}

func NewServiceDescriptorAdapter() *ServiceDescriptorAdapter {
	return &ServiceDescriptorAdapter{cache: map[string]descriptorCacheEntry{}}
}

type serviceDescriptor struct {
	Filename []descriptorFilename `xml:"filename"`
}

type descriptorFilename struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type descriptorCacheEntry struct {
	modTime time.Time
	entry   string
}

// EntryScript returns the engine entry script named by the top-level
// gml:filename element, without extension.
func (a *ServiceDescriptorAdapter) EntryScript(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read service descriptor").
			WithCause(err)
	}
	a.mu.Lock()
	if cached, ok := a.cache[path]; ok && cached.modTime.Equal(info.ModTime()) {
		a.mu.Unlock()
		return cached.entry, nil
	}
	a.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read service descriptor").
			WithCause(err)
	}
	var descriptor serviceDescriptor
	if err := xml.Unmarshal(content, &descriptor); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse service descriptor").
			WithCause(err)
	}
	entry := ""
	for _, filename := range descriptor.Filename {
		if filename.XMLName.Space != gmlNamespace {
			continue
		}
		entry = strings.TrimSuffix(strings.TrimSpace(filename.Value), ".py")
		break
	}
	if entry == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("service descriptor has no gml:filename")
	}

	a.mu.Lock()
	a.cache[path] = descriptorCacheEntry{modTime: info.ModTime(), entry: entry}
	a.mu.Unlock()
	return entry, nil
}

var _ ports.ServiceDescriptorPort = (*ServiceDescriptorAdapter)(nil)
