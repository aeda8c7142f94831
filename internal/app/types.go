package app

import "rtsi-fw/internal/types"

type CollectRequest struct {
	Robot    string
	Scenario string
}

type CollectResult struct {
	Engine       string
	Functions    []string
	CombinedPath string
	Phases       []types.PhaseResult
}

type BuildRequest struct {
	Robot string
}

type RunRequest struct {
	Robot      string
	Scenario   string
	ServiceApp bool
}

type RunResult struct {
	LaunchPath string
	Phases     []types.PhaseResult
	Processes  []types.ProcessHandle
}

type AnalyzeRequest struct {
	Scripts []string
	Engine  string
	Input   string
	Output  string
}

type AnalyzeResult struct {
	Output          string
	Revision        int
	Classifications map[string]types.Classification
	Fragment        types.CollectManifest
}

type MergeRequest struct {
	Kind   string
	Inputs []string
	Output string
}

type MergeResult struct {
	Output   string
	Revision int
}
