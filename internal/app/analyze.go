package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rtsi-fw/internal/core"
	"rtsi-fw/internal/types"
)

// Analyze classifies the imports of the given scripts (or of every
// script shipped by an engine) and merges the resulting acquisition list
// into a manifest.
func (s Service) Analyze(ctx context.Context, req AnalyzeRequest) (AnalyzeResult, error) {
	scripts := append([]string(nil), req.Scripts...)
	if engine := strings.TrimSpace(req.Engine); engine != "" {
		found, err := s.Workspace.FindScripts(s.enginePath(engine))
		if err != nil {
			return AnalyzeResult{}, err
		}
		scripts = append(scripts, found...)
	}
	if len(scripts) == 0 {
		return AnalyzeResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no scripts to analyze")
	}
	output := strings.TrimSpace(req.Output)
	if output == "" {
		output = s.systemPath(combinedCollectFile)
	}

	result := AnalyzeResult{Output: output, Classifications: map[string]types.Classification{}}
	fragments := make([]types.CollectManifest, 0, len(scripts))
	for _, script := range scripts {
		source, err := s.Workspace.ReadFile(script)
		if err != nil {
			return AnalyzeResult{}, err
		}
		classification, err := s.Classifier.ClassifySource(ctx, source)
		if err != nil {
			return AnalyzeResult{}, err
		}
		result.Classifications[filepath.Base(script)] = classification
		fragments = append(fragments, core.ToCollectFragment(classification, s.Env.ROSDistro))
	}
	result.Fragment = core.MergeCollect(types.CollectManifest{}, fragments...)

	var base *types.CollectManifest
	if input := strings.TrimSpace(req.Input); input != "" && input != output {
		doc, err := s.Manifests.Load(input)
		if err != nil {
			return AnalyzeResult{}, err
		}
		collect := doc.CollectOrEmpty()
		base = &collect
	}

	doc, err := s.Manifests.Update(output, func(doc *types.ManifestDocument) error {
		current := doc.CollectOrEmpty()
		if base != nil {
			current = *base
		}
		merged := core.MergeCollect(current, result.Fragment)
		doc.Collect = &merged
		return nil
	})
	if err != nil {
		return AnalyzeResult{}, err
	}
	result.Revision = doc.Revision
	return result, nil
}
