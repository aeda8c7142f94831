package adapters

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtsi-fw/internal/types"
)

const robotYAML = `collect:
  rtm:
    - MobileRobotControl
  apt:
    - libsfml-dev
  pip: []
  git:
    - url: https://github.com/example/nav.git
      repo: nav
      branch: noetic-devel
    - repo: local-only
  engine:
    - hri_engine
run:
  rtm:
    - MobileRobotControl
  roslaunch:
    - nav bringup.launch
  rosrun:
    - null
`

func fixedAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{
		Clock:        func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) },
		InvocationID: "test-invocation",
	}
}

func TestManifestFileAdapter_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(robotYAML), 0644))

	doc, err := fixedAdapter().Load(path)
	require.NoError(t, err)
	collect := doc.CollectOrEmpty()
	assert.Equal(t, []string{"MobileRobotControl"}, collect.RTM)
	want := []types.RepositoryDescriptor{
		{URL: "https://github.com/example/nav.git", Name: "nav", Branch: "noetic-devel"},
		{Name: "local-only"},
	}
	if diff := cmp.Diff(want, collect.Git); diff != "" {
		t.Fatalf("unexpected git list (-want +got):\n%s", diff)
	}
	run := doc.RunOrEmpty()
	assert.Equal(t, []string{"nav bringup.launch"}, run.Roslaunch)
	assert.Equal(t, []string{""}, run.Rosrun)
}

func TestManifestFileAdapter_UpdateBumpsRevision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system", "combined_collect.yaml")
	adapter := fixedAdapter()

	doc, err := adapter.Update(path, func(doc *types.ManifestDocument) error {
		doc.Collect = &types.CollectManifest{Apt: []string{"x"}}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Revision)
	assert.Equal(t, types.ManifestSchemaVersion, doc.SchemaVersion)
	assert.Equal(t, "test-invocation", doc.UpdatedBy)

	doc, err = adapter.Update(path, func(doc *types.ManifestDocument) error {
		doc.Collect.Pip = append(doc.Collect.Pip, "numpy")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Revision)

	loaded, err := adapter.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Revision)
	assert.Equal(t, []string{"x"}, loaded.CollectOrEmpty().Apt)
	assert.Equal(t, []string{"numpy"}, loaded.CollectOrEmpty().Pip)
	require.NotNil(t, loaded.UpdatedAt)
	assert.True(t, loaded.UpdatedAt.Equal(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)))
}

func TestManifestFileAdapter_UpdateDetectsConcurrentWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Launch.yaml")
	adapter := fixedAdapter()
	_, err := adapter.Update(path, func(doc *types.ManifestDocument) error { return nil })
	require.NoError(t, err)

	_, err = adapter.Update(path, func(doc *types.ManifestDocument) error {
		// another writer lands between our read and our write
		_, innerErr := adapter.Update(path, func(*types.ManifestDocument) error { return nil })
		return innerErr
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))

	loaded, err := adapter.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Revision)
}

func TestManifestFileAdapter_MutateErrorLeavesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Launch.yaml")
	adapter := fixedAdapter()
	_, err := adapter.Update(path, func(doc *types.ManifestDocument) error {
		return errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("nope")
	})
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestManifestFileAdapter_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema_version: 99\n"), 0644))
	_, err := fixedAdapter().Load(path)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestManifestFileAdapter_LoadMissing(t *testing.T) {
	_, err := fixedAdapter().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
