package core

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtsi-fw/internal/policies"
	"rtsi-fw/internal/types"
)

type fakeStdlib map[string]bool

func (f fakeStdlib) IsStandardLibrary(_ context.Context, symbol string) (bool, error) {
	return f[symbol], nil
}

type fakeIndex struct {
	available map[string]bool
	failing   map[string]bool
	calls     []string
}

func (f *fakeIndex) Exists(_ context.Context, name string) (bool, error) {
	f.calls = append(f.calls, name)
	if f.failing[name] {
		return false, errors.New("connection refused")
	}
	return f.available[name], nil
}

type fakeRepo map[string]bool

func (f fakeRepo) Search(_ context.Context, keyword string) (bool, error) {
	return f[keyword], nil
}

func newTestClassifier(index *fakeIndex, repo fakeRepo) Classifier {
	return NewClassifier(
		policies.DefaultClassifierPolicy(),
		fakeStdlib{"os": true, "sys": true, "json": true, "time": true},
		index,
		repo,
	)
}

func TestClassifyAssignsEverySymbolOnce(t *testing.T) {
	index := &fakeIndex{available: map[string]bool{
		"numpy": true, "openai": true, "opencv-python": true, "PyYAML": true,
	}}
	classifier := newTestClassifier(index, fakeRepo{"pyaudio": true})

	symbols := []string{
		"rospy", "os", "numpy", "openai", "cv2", "yaml", "cv_bridge",
		"pyaudio", "speech_recognition", "mystery", "modules", "time", "rospy",
	}
	result := classifier.Classify(context.Background(), symbols)

	want := map[string]types.ProvenanceCategory{
		"rospy":              types.ProvenanceMiddlewareCore,
		"modules":            types.ProvenanceMiddlewareCore,
		"os":                 types.ProvenanceStandardLibrary,
		"time":               types.ProvenanceStandardLibrary,
		"cv_bridge":          types.ProvenanceMiddlewareAdditional,
		"numpy":              types.ProvenancePackageIndex,
		"openai":             types.ProvenancePackageIndex,
		"cv2":                types.ProvenancePackageIndex,
		"yaml":               types.ProvenancePackageIndex,
		"pyaudio":            types.ProvenanceSystemRepo,
		"speech_recognition": types.ProvenanceUnresolvable,
		"mystery":            types.ProvenanceUnresolvable,
	}
	if diff := cmp.Diff(want, result.Assignments); diff != "" {
		t.Fatalf("unexpected assignments (-want +got):\n%s", diff)
	}

	total := 0
	for _, category := range types.AllProvenanceCategories {
		total += len(result.List(category))
	}
	assert.Equal(t, len(want), total)
}

func TestClassifyEmitsTranslatedAndPinnedNames(t *testing.T) {
	index := &fakeIndex{available: map[string]bool{"openai": true, "opencv-python": true, "PyYAML": true}}
	result := newTestClassifier(index, nil).Classify(context.Background(), []string{"openai", "cv2", "yaml", "moveit_commander"})

	if diff := cmp.Diff([]string{"opencv-python", "openai==0.27.8", "PyYAML"}, result.PackageIndex); diff != "" {
		t.Fatalf("unexpected package index list (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"moveit"}, result.MiddlewareAdditional); diff != "" {
		t.Fatalf("unexpected middleware list (-want +got):\n%s", diff)
	}
}

func TestClassifySpecialCaseProbesMappedName(t *testing.T) {
	index := &fakeIndex{available: map[string]bool{"cv2": true}}
	result := newTestClassifier(index, fakeRepo{"cv2": true}).Classify(context.Background(), []string{"cv2"})

	assert.Equal(t, types.ProvenanceUnresolvable, result.Assignments["cv2"])
	assert.Equal(t, []string{"opencv-python"}, index.calls)
	assert.Empty(t, result.SystemRepo)
}

func TestClassifyProbeFailureIsNotAvailable(t *testing.T) {
	index := &fakeIndex{failing: map[string]bool{"requests": true}}
	result := newTestClassifier(index, fakeRepo{"requests": true}).Classify(context.Background(), []string{"requests"})
	assert.Equal(t, types.ProvenanceSystemRepo, result.Assignments["requests"])
}

func TestClassifyExcludedNamesSkipIndex(t *testing.T) {
	index := &fakeIndex{available: map[string]bool{"time": true}}
	classifier := NewClassifier(policies.DefaultClassifierPolicy(), fakeStdlib{}, index, fakeRepo{})
	result := classifier.Classify(context.Background(), []string{"time"})
	assert.Equal(t, types.ProvenanceUnresolvable, result.Assignments["time"])
	assert.Empty(t, index.calls)
}

func TestClassifySourceScansImports(t *testing.T) {
	index := &fakeIndex{available: map[string]bool{"openai": true}}
	result, err := newTestClassifier(index, nil).ClassifySource(context.Background(), []byte("import openai\nimport rospy\n"))
	require.NoError(t, err)
	require.Len(t, result.Assignments, 2)
	assert.Equal(t, []string{"openai==0.27.8"}, result.PackageIndex)
}

func TestToCollectFragment(t *testing.T) {
	classification := types.NewClassification()
	classification.Assign("openai", types.ProvenancePackageIndex, "openai==0.27.8")
	classification.Assign("pyaudio", types.ProvenanceSystemRepo, "pyaudio")
	classification.Assign("cv_bridge", types.ProvenanceMiddlewareAdditional, "cv-bridge")
	classification.Assign("ros_arduino_bridge", types.ProvenanceMiddlewareAdditional, "ros_arduino_bridge")
	classification.Assign("mystery", types.ProvenanceUnresolvable, "mystery")
	classification.Assign("os", types.ProvenanceStandardLibrary, "os")

	got := ToCollectFragment(classification, "noetic")
	want := types.CollectManifest{
		Pip:   []string{"openai==0.27.8"},
		Apt:   []string{"pyaudio", "ros-noetic-cv-bridge", "ros-noetic-ros-arduino-bridge"},
		Other: []string{"mystery"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected fragment (-want +got):\n%s", diff)
	}

	got = ToCollectFragment(classification, "")
	assert.Equal(t, []string{"cv-bridge", "ros_arduino_bridge", "mystery"}, got.Other)
	assert.Equal(t, []string{"pyaudio"}, got.Apt)
}
