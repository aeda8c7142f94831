package policies

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultClassifierPolicyPinsOpenAI(t *testing.T) {
	policy := DefaultClassifierPolicy()
	if diff := cmp.Diff("openai==0.27.8", policy.Pin("openai")); diff != "" {
		t.Fatalf("unexpected pin (-want +got):\n%s", diff)
	}
	assert.Equal(t, "requests", policy.Pin("requests"))
}

func TestDefaultClassifierPolicyTables(t *testing.T) {
	policy := DefaultClassifierPolicy()
	assert.True(t, policy.IsMiddlewareCore("rospy"))
	assert.False(t, policy.IsMiddlewareCore("numpy"))

	pkg, ok := policy.MiddlewareAdditional("cv_bridge")
	require.True(t, ok)
	assert.Equal(t, "cv-bridge", pkg)

	pkg, ok = policy.SpecialCase("cv2")
	require.True(t, ok)
	assert.Equal(t, "opencv-python", pkg)

	assert.True(t, policy.IndexExcluded("time"))
	assert.True(t, policy.IndexExcluded("modules"))
}

func TestMergeClassifierTablesOverridesAndAppends(t *testing.T) {
	base := DefaultClassifierTables()
	merged, err := MergeClassifierTables(base, ClassifierTables{
		MiddlewareCore: []string{"visualization_msgs", "rospy"},
		SpecialCases:   map[string]string{"cv2": "opencv-contrib-python", "PIL": "Pillow"},
		Pins:           map[string]string{"numpy": "1.24.4"},
	})
	require.NoError(t, err)

	assert.Contains(t, merged.MiddlewareCore, "visualization_msgs")
	assert.Equal(t, len(base.MiddlewareCore)+1, len(merged.MiddlewareCore))
	assert.Equal(t, "opencv-contrib-python", merged.SpecialCases["cv2"])
	assert.Equal(t, "Pillow", merged.SpecialCases["PIL"])
	assert.Equal(t, "PyYAML", merged.SpecialCases["yaml"])
	assert.Equal(t, "0.27.8", merged.Pins["openai"])
	assert.Equal(t, "1.24.4", merged.Pins["numpy"])

	// defaults are left untouched
	assert.Equal(t, "opencv-python", base.SpecialCases["cv2"])
}

func TestNewClassifierPolicyRejectsInvalidPin(t *testing.T) {
	tables := DefaultClassifierTables()
	tables.Pins["openai"] = "not a version"
	_, err := NewClassifierPolicy(tables)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestPinMatchesNormalizedName(t *testing.T) {
	policy, err := NewClassifierPolicy(ClassifierTables{Pins: map[string]string{"Speech_Recognition": "3.10.0"}})
	require.NoError(t, err)
	assert.Equal(t, "SpeechRecognition", policy.Pin("SpeechRecognition"))
	assert.Equal(t, "speech-recognition==3.10.0", policy.Pin("speech-recognition"))
}

func TestParseFailurePolicy(t *testing.T) {
	policy, err := ParseFailurePolicy("")
	require.NoError(t, err)
	assert.False(t, policy.StopOnFailure())

	policy, err = ParseFailurePolicy("Abort")
	require.NoError(t, err)
	assert.True(t, policy.StopOnFailure())

	_, err = ParseFailurePolicy("retry")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
