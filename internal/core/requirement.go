package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"rtsi-fw/internal/types"
)

// opTokens is the ordered list of operators tried during parsing. Longer
// tokens must precede shorter ones (">=" before ">").
var opTokens = []types.ConstraintOp{
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpCompat,
	types.ConstraintOpNe,
	types.ConstraintOpEq2,
	types.ConstraintOpEq,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
}

// ParseRequirement splits a manifest item such as "openai==0.27.8" or
// "libsfml-dev=2.5.1+dfsg-2" and validates the version against the
// versioning scheme of depType.  Items without an operator are bare names.
func ParseRequirement(raw string, depType types.DependencyType) (types.Requirement, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Requirement{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty requirement")
	}
	for _, op := range opTokens {
		if !strings.Contains(raw, string(op)) {
			continue
		}
		parts := strings.SplitN(raw, string(op), 2)
		name := strings.TrimSpace(parts[0])
		version := strings.TrimSpace(parts[1])
		if name == "" || version == "" {
			return types.Requirement{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid requirement: %s", raw))
		}
		req := types.Requirement{Raw: raw, Name: name, Type: depType, Op: op, Version: version}
		if err := validateRequirementVersion(req); err != nil {
			return types.Requirement{}, err
		}
		return req, nil
	}
	return types.Requirement{Raw: raw, Name: raw, Type: depType, Op: types.ConstraintOpNone}, nil
}

func validateRequirementVersion(req types.Requirement) error {
	switch req.Type {
	case types.DependencyTypeApt:
		if req.Op != types.ConstraintOpEq {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("apt items only support exact pins: %s", req.Raw))
		}
		if _, err := debversion.NewVersion(req.Version); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid debian version: %s", req.Raw)).
				WithCause(err)
		}
	case types.DependencyTypePip:
		if req.Op == types.ConstraintOpEq {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("pip pins use '==': %s", req.Raw))
		}
		if _, err := pep440.NewSpecifiers(string(req.Op) + req.Version); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid python version specifier: %s", req.Raw)).
				WithCause(err)
		}
	}
	return nil
}
