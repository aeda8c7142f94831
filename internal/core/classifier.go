package core

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"rtsi-fw/internal/policies"
	"rtsi-fw/internal/ports"
	"rtsi-fw/internal/types"
)

// Classifier assigns every imported symbol to exactly one provenance
// category.  Probe failures are treated as "not available" and never
// abort classification.
type Classifier struct {
	Policy       policies.ClassifierPolicy
	Stdlib       ports.StdlibProbe
	PackageIndex ports.PackageIndexPort
	SystemRepo   ports.SystemRepoPort
}

func NewClassifier(policy policies.ClassifierPolicy, stdlib ports.StdlibProbe, index ports.PackageIndexPort, repo ports.SystemRepoPort) Classifier {
	return Classifier{
		Policy:       policy,
		Stdlib:       stdlib,
		PackageIndex: index,
		SystemRepo:   repo,
	}
}

func (c Classifier) ClassifySource(ctx context.Context, source []byte) (types.Classification, error) {
	symbols, err := ScanImports(source)
	if err != nil {
		return types.Classification{}, err
	}
	return c.Classify(ctx, symbols), nil
}

// Classify places each distinct symbol in its category.  Precedence is
// middleware core, middleware additional, standard library, then the
// external probes.
func (c Classifier) Classify(ctx context.Context, symbols []string) types.Classification {
	result := types.NewClassification()
	ordered := append([]string(nil), symbols...)
	sort.Strings(ordered)

	for _, symbol := range ordered {
		if _, done := result.Assignments[symbol]; done || symbol == "" {
			continue
		}
		if c.Policy.IsMiddlewareCore(symbol) {
			result.Assign(symbol, types.ProvenanceMiddlewareCore, symbol)
			continue
		}
		if pkg, ok := c.Policy.MiddlewareAdditional(symbol); ok {
			result.Assign(symbol, types.ProvenanceMiddlewareAdditional, pkg)
			continue
		}
		if c.isStdlib(ctx, symbol) {
			result.Assign(symbol, types.ProvenanceStandardLibrary, symbol)
			continue
		}
		c.classifyExternal(ctx, &result, symbol)
	}

	log.Ctx(ctx).Debug().
		Int("symbols", len(result.Assignments)).
		Int("package_index", len(result.PackageIndex)).
		Int("system_repo", len(result.SystemRepo)).
		Int("unresolvable", len(result.Unresolvable)).
		Msg("imports classified")
	return result
}

func (c Classifier) classifyExternal(ctx context.Context, result *types.Classification, symbol string) {
	if mapped, ok := c.Policy.SpecialCase(symbol); ok {
		if c.onIndex(ctx, mapped) {
			result.Assign(symbol, types.ProvenancePackageIndex, c.Policy.Pin(mapped))
			return
		}
		result.Assign(symbol, types.ProvenanceUnresolvable, symbol)
		return
	}
	if c.onIndex(ctx, symbol) {
		result.Assign(symbol, types.ProvenancePackageIndex, c.Policy.Pin(symbol))
		return
	}
	if c.inSystemRepo(ctx, symbol) {
		result.Assign(symbol, types.ProvenanceSystemRepo, symbol)
		return
	}
	result.Assign(symbol, types.ProvenanceUnresolvable, symbol)
}

func (c Classifier) isStdlib(ctx context.Context, symbol string) bool {
	if c.Stdlib == nil {
		return false
	}
	ok, err := c.Stdlib.IsStandardLibrary(ctx, symbol)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("symbol", symbol).Msg("stdlib probe failed")
		return false
	}
	return ok
}

func (c Classifier) onIndex(ctx context.Context, name string) bool {
	if c.Policy.IndexExcluded(name) || c.PackageIndex == nil {
		return false
	}
	ok, err := c.PackageIndex.Exists(ctx, name)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("package", name).Msg("package index probe failed")
		return false
	}
	return ok
}

func (c Classifier) inSystemRepo(ctx context.Context, name string) bool {
	if c.SystemRepo == nil {
		return false
	}
	ok, err := c.SystemRepo.Search(ctx, name)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("package", name).Msg("system repository probe failed")
		return false
	}
	return ok
}

// ToCollectFragment turns a classification into the collect manifest
// entries needed to acquire it.  Middleware additional packages become
// distro-prefixed apt packages when distro is known.
func ToCollectFragment(classification types.Classification, distro string) types.CollectManifest {
	fragment := types.CollectManifest{}
	fragment.Pip = append(fragment.Pip, classification.PackageIndex...)
	fragment.Apt = append(fragment.Apt, classification.SystemRepo...)
	for _, pkg := range classification.MiddlewareAdditional {
		if distro == "" {
			fragment.Other = append(fragment.Other, pkg)
			continue
		}
		fragment.Apt = append(fragment.Apt, "ros-"+distro+"-"+rosDebName(pkg))
	}
	fragment.Other = append(fragment.Other, classification.Unresolvable...)
	return fragment
}

func rosDebName(pkg string) string {
	out := []rune(pkg)
	for i, r := range out {
		if r == '_' {
			out[i] = '-'
		}
	}
	return string(out)
}
