package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hriDescriptor = `<?xml version="1.0"?>
<rois:HRI_Engine xmlns:gml="http://example.com/r/gml" xmlns:rois="http://example.com/r/rois">
  <gml:filename>engine_main</gml:filename>
</rois:HRI_Engine>
`

func TestRunLaunchesRobotThenScenario(t *testing.T) {
	h := newHarness(t)
	h.write(t, "RTSI_FW/pepper.yaml", robotManifest)
	h.write(t, "RTSI_FW/reception.yaml", scenarioManifest)
	h.write(t, "RTSI_FW/seed_hri.yaml", "run:\n  rtm:\n    - Stale\n  rosrun:\n    - null\n  roslaunch:\n    - old.launch\n")
	h.write(t, "catkin_ws/src/hri_engine/hri.xml", hriDescriptor)

	result, err := h.service.Run(context.Background(), RunRequest{Robot: "pepper", Scenario: "reception", ServiceApp: true})
	require.NoError(t, err)
	require.Len(t, result.Phases, 2)

	want := []string{
		"roslaunch nav bringup.launch",
		"rosrun hri_engine engine_main.py",
		"rosrun hri_engine greet.py",
		"rosrun hri_engine navigate.py",
		"rosrun rois_env service_app.py",
	}
	if diff := cmp.Diff(want, h.spawner.commands); diff != "" {
		t.Fatalf("unexpected launches (-want +got):\n%s", diff)
	}
	require.Len(t, result.Processes, 5)
	assert.Equal(t, "roslaunch_0", result.Processes[0].Label)
	assert.Equal(t, "service_app", result.Processes[4].Label)

	launch, err := h.service.Manifests.Load(filepath.Join(h.env.SystemDir, "Launch.yaml"))
	require.NoError(t, err)
	run := launch.RunOrEmpty()
	assert.Empty(t, run.RTM)
	assert.Empty(t, run.Roslaunch)
	assert.Equal(t, []string{"hri_engine engine_main.py", "hri_engine greet.py", "hri_engine navigate.py"}, run.Rosrun)

	seed, err := h.service.Manifests.Load(filepath.Join(h.env.SystemDir, "seed_hri.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1, seed.Revision)
}

func TestRunLaunchesScenarioAfterRobotLaunchFailure(t *testing.T) {
	h := newHarness(t)
	h.write(t, "RTSI_FW/pepper.yaml", robotManifest)
	h.write(t, "RTSI_FW/reception.yaml", scenarioManifest)
	h.write(t, "catkin_ws/src/hri_engine/hri.xml", hriDescriptor)
	h.spawner.fail["roslaunch nav bringup.launch"] = true

	result, err := h.service.Run(context.Background(), RunRequest{Robot: "pepper", Scenario: "reception"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))

	want := []string{
		"roslaunch nav bringup.launch",
		"rosrun hri_engine engine_main.py",
		"rosrun hri_engine greet.py",
		"rosrun hri_engine navigate.py",
	}
	if diff := cmp.Diff(want, h.spawner.commands); diff != "" {
		t.Fatalf("unexpected launches (-want +got):\n%s", diff)
	}
	require.Len(t, result.Phases, 2)
	assert.Equal(t, 1, result.Phases[0].FailedCount())
	assert.Len(t, result.Processes, 3)
	assert.NotEmpty(t, result.LaunchPath)
}

func TestPrepareLaunchWithoutFunctions(t *testing.T) {
	h := newHarness(t)
	run, err := h.service.PrepareLaunch(context.Background(), "hri_engine", nil)
	require.NoError(t, err)
	assert.Empty(t, run.Rosrun)
	assert.Empty(t, run.Roslaunch)
}

func TestStopAndNameServer(t *testing.T) {
	h := newHarness(t)
	_, err := h.service.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"rosnode kill -a"}, h.runner.lines)

	require.NoError(t, h.service.NameServer(context.Background()))
	assert.Empty(t, h.spawner.commands)
}
