package adapters

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"rtsi-fw/internal/ports"
	"rtsi-fw/internal/types"
)

// ManifestFileAdapter persists manifest documents as YAML.  Every write
// bumps the revision and replaces the file atomically.
type ManifestFileAdapter struct {
	Clock        func() time.Time
	InvocationID string
}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{
		Clock:        time.Now,
		InvocationID: uuid.NewString(),
	}
}

func (a ManifestFileAdapter) Load(path string) (types.ManifestDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ManifestDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("manifest file not found: " + path).
			WithCause(err)
	}
	var doc types.ManifestDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.ManifestDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse manifest yaml: " + path).
			WithCause(err)
	}
	if doc.SchemaVersion > types.ManifestSchemaVersion {
		return types.ManifestDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("manifest schema_version %d is newer than supported %d", doc.SchemaVersion, types.ManifestSchemaVersion))
	}
	return doc, nil
}

// Update reads the document at path (an absent file is an empty
// document), applies mutate and writes the result.  The write is refused
// if another writer bumped the revision in the meantime.
func (a ManifestFileAdapter) Update(path string, mutate func(*types.ManifestDocument) error) (types.ManifestDocument, error) {
	current, err := a.loadOrEmpty(path)
	if err != nil {
		return types.ManifestDocument{}, err
	}
	base := current.Revision
	if err := mutate(&current); err != nil {
		return types.ManifestDocument{}, err
	}

	now := a.clock().UTC()
	current.SchemaVersion = types.ManifestSchemaVersion
	current.Revision = base + 1
	current.UpdatedBy = a.InvocationID
	current.UpdatedAt = &now

	data, err := encodeManifest(current)
	if err != nil {
		return types.ManifestDocument{}, err
	}

	latest, err := a.loadOrEmpty(path)
	if err != nil {
		return types.ManifestDocument{}, err
	}
	if latest.Revision != base {
		return types.ManifestDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("manifest %s changed concurrently (revision %d, expected %d)", path, latest.Revision, base))
	}
	if err := writeFileAtomic(path, data); err != nil {
		return types.ManifestDocument{}, err
	}
	return current, nil
}

func (a ManifestFileAdapter) loadOrEmpty(path string) (types.ManifestDocument, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return types.ManifestDocument{}, nil
	}
	return a.Load(path)
}

func (a ManifestFileAdapter) clock() time.Time {
	if a.Clock == nil {
		return time.Now()
	}
	return a.Clock()
}

func encodeManifest(doc types.ManifestDocument) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode manifest").
			WithCause(err)
	}
	if err := encoder.Close(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode manifest").
			WithCause(err)
	}
	return buf.Bytes(), nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create manifest directory").
			WithCause(err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create temporary manifest").
			WithCause(err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write temporary manifest").
			WithCause(err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to set manifest permissions").
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to close temporary manifest").
			WithCause(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to replace manifest").
			WithCause(err)
	}
	return nil
}

var _ ports.ManifestStorePort = ManifestFileAdapter{}
