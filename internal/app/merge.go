package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rtsi-fw/internal/core"
	"rtsi-fw/internal/types"
)

const (
	MergeKindCollect = "collect"
	MergeKindRun     = "run"
)

// Merge combines the collect or run sections of several manifests into
// one output manifest, replacing that section of the output.
func (s Service) Merge(ctx context.Context, req MergeRequest) (MergeResult, error) {
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if kind != MergeKindCollect && kind != MergeKindRun {
		return MergeResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported merge kind: %s", req.Kind))
	}
	if len(req.Inputs) == 0 || strings.TrimSpace(req.Output) == "" {
		return MergeResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("merge needs inputs and an output")
	}

	docs := make([]types.ManifestDocument, 0, len(req.Inputs))
	for _, input := range req.Inputs {
		doc, err := s.Manifests.Load(s.systemFile(input))
		if err != nil {
			return MergeResult{}, err
		}
		docs = append(docs, doc)
	}

	output := s.systemFile(req.Output)
	doc, err := s.Manifests.Update(output, func(doc *types.ManifestDocument) error {
		switch kind {
		case MergeKindCollect:
			fragments := make([]types.CollectManifest, 0, len(docs))
			for _, input := range docs {
				fragments = append(fragments, input.CollectOrEmpty())
			}
			merged := core.MergeCollect(types.CollectManifest{}, fragments...)
			doc.Collect = &merged
		case MergeKindRun:
			fragments := make([]types.RunManifest, 0, len(docs))
			for _, input := range docs {
				fragments = append(fragments, input.RunOrEmpty())
			}
			merged := core.MergeRun(fragments...)
			doc.Run = &merged
		}
		return nil
	})
	if err != nil {
		return MergeResult{}, err
	}
	log.Ctx(ctx).Info().Str("kind", kind).Int("inputs", len(docs)).Str("output", output).Msg("manifests merged")
	return MergeResult{Output: output, Revision: doc.Revision}, nil
}
