// Package policy holds the registry of node kinds, arc kinds and the (from, arc, to) triples a graph store accepts.
package policy

import (
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/specterops/tinygraph/format"
	"github.com/specterops/tinygraph/graph"
	"github.com/specterops/tinygraph/util"
)

var (
	constraintTag     = graph.StringKind("constraint")
	declarationTag    = graph.StringKind("declaration")
	arcDeclarationTag = graph.StringKind("arc declaration")
)

// Policy is the schema of a graph store. Constraint checks are linear scans; policies are expected to hold tens of
// entries.
type Policy struct {
	nodeKinds   map[string]graph.Kind
	arcKinds    map[string]graph.Kind
	constraints []graph.Constraint
}

func New() *Policy {
	return &Policy{
		nodeKinds: map[string]graph.Kind{},
		arcKinds:  map[string]graph.Kind{},
	}
}

// Clone returns an independent copy of the policy.
func (s *Policy) Clone() *Policy {
	clone := New()

	for name, kind := range s.nodeKinds {
		clone.nodeKinds[name] = kind
	}

	for name, kind := range s.arcKinds {
		clone.arcKinds[name] = kind
	}

	clone.constraints = slices.Clone(s.constraints)
	return clone
}

// AddNodeType registers a node kind. A nil kind is ignored.
func (s *Policy) AddNodeType(kind graph.Kind) {
	if kind != nil {
		s.nodeKinds[kind.String()] = kind
	}
}

// AddArcType registers an arc kind. A nil kind is ignored.
func (s *Policy) AddArcType(kind graph.Kind) {
	if kind != nil {
		s.arcKinds[kind.String()] = kind
	}
}

func (s *Policy) IsNodeType(kind graph.Kind) bool {
	if kind == nil {
		return false
	}

	_, found := s.nodeKinds[kind.String()]
	return found
}

func (s *Policy) IsArcType(kind graph.Kind) bool {
	if kind == nil {
		return false
	}

	_, found := s.arcKinds[kind.String()]
	return found
}

// AddConstraint declares that arcs of kind arc may run from nodes of kind from to nodes of kind to. Kinds not yet
// known to the policy are registered. Adding a triple that already exists has no effect and a triple with a nil kind
// is ignored.
func (s *Policy) AddConstraint(from, arc, to graph.Kind) {
	if from == nil || arc == nil || to == nil {
		return
	}

	s.AddNodeType(from)
	s.AddNodeType(to)
	s.AddArcType(arc)

	if !s.IsValid(from, arc, to) {
		s.constraints = append(s.constraints, graph.Constraint{
			From: from,
			Arc:  arc,
			To:   to,
		})
	}
}

// IsValid returns true if the exact triple has been declared.
func (s *Policy) IsValid(from, arc, to graph.Kind) bool {
	for _, constraint := range s.constraints {
		if constraint.Matches(from, arc, to) {
			return true
		}
	}

	return false
}

func sortedKinds(kinds map[string]graph.Kind) graph.Kinds {
	sorted := make(graph.Kinds, 0, len(kinds))

	for _, kind := range kinds {
		sorted = append(sorted, kind)
	}

	return sorted.Sorted()
}

// NodeTypes returns the registered node kinds sorted by name.
func (s *Policy) NodeTypes() graph.Kinds {
	return sortedKinds(s.nodeKinds)
}

// ArcTypes returns the registered arc kinds sorted by name.
func (s *Policy) ArcTypes() graph.Kinds {
	return sortedKinds(s.arcKinds)
}

// Constraints returns a copy of the declared triples in insertion order.
func (s *Policy) Constraints() []graph.Constraint {
	return slices.Clone(s.constraints)
}

func (s *Policy) NumConstraints() int {
	return len(s.constraints)
}

// canonical walks the policy in its persisted order: for each node kind in name order, the constraints starting at
// that kind in insertion order, then node kinds that take part in no constraint, then arc kinds used by no
// constraint.
func (s *Policy) canonical(constraintDelegate func(constraint graph.Constraint), declarationDelegate, arcDeclarationDelegate func(kind graph.Kind)) {
	var (
		constrained    = map[string]struct{}{}
		constrainedArc = map[string]struct{}{}
	)

	for _, constraint := range s.constraints {
		constrained[constraint.From.String()] = struct{}{}
		constrained[constraint.To.String()] = struct{}{}
		constrainedArc[constraint.Arc.String()] = struct{}{}
	}

	nodeKinds := s.NodeTypes()

	for _, kind := range nodeKinds {
		for _, constraint := range s.constraints {
			if constraint.From.String() == kind.String() {
				constraintDelegate(constraint)
			}
		}
	}

	for _, kind := range nodeKinds {
		if _, isConstrained := constrained[kind.String()]; !isConstrained {
			declarationDelegate(kind)
		}
	}

	for _, kind := range s.ArcTypes() {
		if _, isConstrained := constrainedArc[kind.String()]; !isConstrained {
			arcDeclarationDelegate(kind)
		}
	}
}

// Encode writes the Policy section to the given format writer.
func (s *Policy) Encode(writer *format.Writer) {
	writer.Section(format.SectionPolicy)
	s.canonical(writer.Constraint, writer.Declaration, writer.ArcDeclaration)
}

// Print writes the canonical Policy section to the output.
func (s *Policy) Print(output io.Writer) error {
	writer := format.NewWriter(output)
	s.Encode(writer)

	return writer.Flush()
}

func (s *Policy) String() string {
	builder := strings.Builder{}

	if err := s.Print(&builder); err != nil {
		return err.Error()
	}

	return builder.String()
}

// HashInto writes the canonical form of the policy into the digest.
func (s *Policy) HashInto(h *xxhash.Digest) error {
	var err error

	s.canonical(func(constraint graph.Constraint) {
		for _, kind := range []graph.Kind{constraintTag, constraint.From, constraint.Arc, constraint.To} {
			if err == nil {
				err = graph.HashString(h, kind.String())
			}
		}
	}, func(kind graph.Kind) {
		for _, next := range []graph.Kind{declarationTag, kind} {
			if err == nil {
				err = graph.HashString(h, next.String())
			}
		}
	}, func(kind graph.Kind) {
		for _, next := range []graph.Kind{arcDeclarationTag, kind} {
			if err == nil {
				err = graph.HashString(h, next.String())
			}
		}
	})

	return err
}

// Apply adds every entry of the given Policy section lines. Malformed lines are logged and skipped; the returned slice
// holds one error per rejected line.
func (s *Policy) Apply(lines []format.Line, logger *slog.Logger) []error {
	var rejected []error

	for _, line := range lines {
		if entry, err := format.ParsePolicyLine(line); err != nil {
			util.SLogWarn(logger, "Ignoring malformed policy line", err, slog.Int("line", line.Number))
			rejected = append(rejected, err)
		} else if entry.IsDeclaration() {
			s.AddNodeType(entry.Declared)
		} else if entry.IsArcDeclaration() {
			s.AddArcType(entry.DeclaredArc)
		} else {
			s.AddConstraint(entry.Constraint.From, entry.Constraint.Arc, entry.Constraint.To)
		}
	}

	return rejected
}

// Read builds a policy from the Policy section of a document. Only a failure to read the input is returned as an
// error; malformed lines are logged and skipped.
func Read(input io.Reader, logger *slog.Logger) (*Policy, error) {
	if document, err := format.ReadDocument(input); err != nil {
		return nil, err
	} else {
		policy := New()
		policy.Apply(document.Policy, logger)

		return policy, nil
	}
}
