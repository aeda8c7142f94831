package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"rtsi-fw/internal/types"
	"rtsi-fw/tests/testutil"
)

func TestAnalyzeCommandE2E(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 is required to probe the standard library")
	}
	root := testutil.RepoRoot(t)
	home := t.TempDir()
	indexURL := testutil.PackageIndexServer(t, "numpy", "opencv-python")

	script := testutil.WriteFile(t, filepath.Join(home, "scripts", "greet.py"),
		"import os\nimport rospy\nimport numpy as np\nimport cv2\nfrom moveit_commander import MoveGroupCommander\n")
	output := filepath.Join(home, "RTSI_FW", "combined_collect.yaml")

	cmd := exec.Command("go", "run", "./cmd/rtsi", "analyze", "--script", script)
	cmd.Dir = root
	cmd.Env = append(os.Environ(),
		"GO111MODULE=on",
		"HOME="+home,
		"RTSI_PACKAGE_INDEX_URL="+indexURL,
		"RTSI_ROS_DISTRO=",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	require.FileExists(t, output)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var doc types.ManifestDocument
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Equal(t, 1, doc.Revision)
	require.NotNil(t, doc.Collect)
	require.Equal(t, []string{"opencv-python", "numpy"}, doc.Collect.Pip)
	require.Contains(t, doc.Collect.Other, "moveit")
}

func TestCollectRequiresTwoArgumentsE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	cmd := exec.Command("go", "run", "./cmd/rtsi", "collect", "robot")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on", "HOME="+t.TempDir())
	out, err := cmd.CombinedOutput()
	require.Error(t, err, string(out))
}
