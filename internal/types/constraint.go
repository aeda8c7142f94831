package types

type ConstraintOp string

const (
	ConstraintOpNone   ConstraintOp = ""
	ConstraintOpEq     ConstraintOp = "="
	ConstraintOpEq2    ConstraintOp = "=="
	ConstraintOpNe     ConstraintOp = "!="
	ConstraintOpCompat ConstraintOp = "~="
	ConstraintOpGte    ConstraintOp = ">="
	ConstraintOpLte    ConstraintOp = "<="
	ConstraintOpGt     ConstraintOp = ">"
	ConstraintOpLt     ConstraintOp = "<"
)

// Requirement is one apt or pip install item, optionally version pinned.
type Requirement struct {
	Raw     string
	Name    string
	Type    DependencyType
	Op      ConstraintOp
	Version string
}

func (r Requirement) Pinned() bool {
	return r.Op != ConstraintOpNone
}
