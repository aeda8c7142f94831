package core

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"rtsi-fw/internal/types"
)

// MergeCollect unions collect manifests.  Flat lists keep first-seen
// order without repeats.  Git descriptors without a url are dropped and
// the rest are de-duplicated on (url, name, branch), which keeps the
// merge idempotent.
func MergeCollect(base types.CollectManifest, fragments ...types.CollectManifest) types.CollectManifest {
	merged := types.CollectManifest{}
	all := append([]types.CollectManifest{base}, fragments...)

	for key, target := range merged.FlatLists() {
		seen := sets.New[string]()
		for i := range all {
			for _, item := range *all[i].FlatLists()[key] {
				item = strings.TrimSpace(item)
				if item == "" || seen.Has(item) {
					continue
				}
				seen.Insert(item)
				*target = append(*target, item)
			}
		}
	}

	seenRepos := sets.New[string]()
	for _, manifest := range all {
		for _, repo := range manifest.Git {
			if !repo.Resolvable() {
				continue
			}
			key := repo.URL + "\x00" + repo.Name + "\x00" + repo.Branch
			if seenRepos.Has(key) {
				continue
			}
			seenRepos.Insert(key)
			merged.Git = append(merged.Git, repo)
		}
	}
	return merged
}

// MergeRun unions run manifests key by key.
func MergeRun(fragments ...types.RunManifest) types.RunManifest {
	merged := types.RunManifest{}
	for key, target := range merged.Lists() {
		seen := sets.New[string]()
		for i := range fragments {
			for _, item := range *fragments[i].Lists()[key] {
				item = strings.TrimSpace(item)
				if item == "" || seen.Has(item) {
					continue
				}
				seen.Insert(item)
				*target = append(*target, item)
			}
		}
	}
	return merged
}

// ResetRunLists empties the named run lists and leaves the others alone.
func ResetRunLists(run types.RunManifest, keys ...string) types.RunManifest {
	lists := run.Lists()
	for _, key := range keys {
		if target, ok := lists[key]; ok {
			*target = []string{}
		}
	}
	return run
}

// Compact removes empty placeholder entries from every run list.
func Compact(run types.RunManifest) types.RunManifest {
	for _, target := range run.Lists() {
		kept := []string{}
		for _, item := range *target {
			if strings.TrimSpace(item) != "" {
				kept = append(kept, item)
			}
		}
		*target = kept
	}
	return run
}

// AppendLaunchItems compacts run and appends each item to the list its
// suffix selects, skipping items already present.
func AppendLaunchItems(run types.RunManifest, items []string) types.RunManifest {
	run = Compact(run)
	for _, item := range items {
		descriptor, ok := ClassifyLaunchItem(item)
		if !ok {
			continue
		}
		target := &run.Rosrun
		if descriptor.Kind == types.LaunchKindStructured {
			target = &run.Roslaunch
		}
		if sets.New(*target...).Has(descriptor.Target) {
			continue
		}
		*target = append(*target, descriptor.Target)
	}
	return run
}
