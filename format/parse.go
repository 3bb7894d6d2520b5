package format

import (
	"errors"
	"fmt"

	"github.com/specterops/tinygraph/graph"
)

var (
	ErrMissingField       = errors.New("missing field")
	ErrInvalidID          = errors.New("id is not a decimal integer")
	ErrIncompleteProperty = errors.New("property name without a value")
	ErrEmptyField         = errors.New("empty field")
	ErrBadEscape          = errors.New("invalid escape sequence")
	ErrNoSection          = errors.New("line outside of any section")
)

const (
	policyDeclarationFields = 1
	policyConstraintFields  = 3
	minNodeFields           = 2
	minArcFields            = 3
)

// ParseError describes a rejected line. Kind is one of the sentinel errors of this package and is matched by
// errors.Is.
type ParseError struct {
	Line   int
	Text   string
	Kind   error
	Detail string
}

func (s *ParseError) Error() string {
	message := s.Kind.Error()

	if s.Detail != "" {
		message += ": " + s.Detail
	}

	if s.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", s.Line, message, s.Text)
	}

	return fmt.Sprintf("%s: %q", message, s.Text)
}

func (s *ParseError) Unwrap() error {
	return s.Kind
}

func newParseError(line Line, kind error, detail string) *ParseError {
	return &ParseError{
		Line:   line.Number,
		Text:   line.Text,
		Kind:   kind,
		Detail: detail,
	}
}

// NoSectionError builds the error reported for content found before the first section header.
func NoSectionError(line Line) error {
	return newParseError(line, ErrNoSection, "")
}

// PolicyEntry is a parsed Policy section line. A constraint line sets Constraint; a declaration line carries only a
// node kind in Declared and an arc declaration line only an arc kind in DeclaredArc.
type PolicyEntry struct {
	Constraint  graph.Constraint
	Declared    graph.Kind
	DeclaredArc graph.Kind
}

func (s PolicyEntry) IsDeclaration() bool {
	return s.Declared != nil
}

func (s PolicyEntry) IsArcDeclaration() bool {
	return s.DeclaredArc != nil
}

// NodeRecord is a parsed node line.
type NodeRecord struct {
	ID         graph.ID
	Kind       graph.Kind
	Properties graph.Properties
}

// ArcRecord is a parsed arc line.
type ArcRecord struct {
	From       graph.ID
	Kind       graph.Kind
	To         graph.ID
	Properties graph.Properties
}

func unescapeAll(line Line, fields []string) ([]string, error) {
	values := make([]string, len(fields))

	for idx, field := range fields {
		if value, err := UnescapeField(field); err != nil {
			return nil, newParseError(line, ErrBadEscape, fmt.Sprintf("field %d", idx+1))
		} else {
			values[idx] = value
		}
	}

	return values, nil
}

func requireKind(line Line, value, name string) (graph.Kind, error) {
	if value == "" {
		return nil, newParseError(line, ErrEmptyField, name)
	}

	return graph.StringKind(value), nil
}

func parseID(line Line, value, name string) (graph.ID, error) {
	if id, err := graph.ParseID(value); err != nil {
		return 0, newParseError(line, ErrInvalidID, fmt.Sprintf("%s %q", name, value))
	} else {
		return id, nil
	}
}

func parseProperties(line Line, values []string) (graph.Properties, error) {
	if len(values)%2 != 0 {
		return nil, newParseError(line, ErrIncompleteProperty, fmt.Sprintf("property %q", values[len(values)-1]))
	}

	properties := make(graph.Properties, len(values)/2)

	for idx := 0; idx < len(values); idx += 2 {
		if values[idx] == "" {
			return nil, newParseError(line, ErrEmptyField, "property name")
		}

		properties[values[idx]] = values[idx+1]
	}

	return properties, nil
}

// ParsePolicyLine parses a constraint line (from, arc, to), a single field node kind declaration or an arc kind
// declaration (empty, arc, empty).
func ParsePolicyLine(line Line) (PolicyEntry, error) {
	fields := splitFields(line.Text)

	switch len(fields) {
	case policyDeclarationFields, policyConstraintFields:
	default:
		return PolicyEntry{}, newParseError(line, ErrMissingField, fmt.Sprintf("expected 1 or 3 fields, found %d", len(fields)))
	}

	values, err := unescapeAll(line, fields)
	if err != nil {
		return PolicyEntry{}, err
	}

	if len(values) == policyDeclarationFields {
		if kind, err := requireKind(line, values[0], "node type"); err != nil {
			return PolicyEntry{}, err
		} else {
			return PolicyEntry{Declared: kind}, nil
		}
	}

	// An arc kind used by no constraint is written with empty from and to fields
	if values[0] == "" && values[2] == "" {
		if arc, err := requireKind(line, values[1], "arc type"); err != nil {
			return PolicyEntry{}, err
		} else {
			return PolicyEntry{DeclaredArc: arc}, nil
		}
	}

	if from, err := requireKind(line, values[0], "from type"); err != nil {
		return PolicyEntry{}, err
	} else if arc, err := requireKind(line, values[1], "arc type"); err != nil {
		return PolicyEntry{}, err
	} else if to, err := requireKind(line, values[2], "to type"); err != nil {
		return PolicyEntry{}, err
	} else {
		return PolicyEntry{
			Constraint: graph.Constraint{From: from, Arc: arc, To: to},
		}, nil
	}
}

// ParseNode parses a node line of the form type<TAB>id[<TAB>name<TAB>value]*.
func ParseNode(line Line) (NodeRecord, error) {
	fields := splitFields(line.Text)

	if len(fields) < minNodeFields {
		return NodeRecord{}, newParseError(line, ErrMissingField, fmt.Sprintf("expected at least %d fields, found %d", minNodeFields, len(fields)))
	}

	values, err := unescapeAll(line, fields)
	if err != nil {
		return NodeRecord{}, err
	}

	if kind, err := requireKind(line, values[0], "node type"); err != nil {
		return NodeRecord{}, err
	} else if id, err := parseID(line, values[1], "node id"); err != nil {
		return NodeRecord{}, err
	} else if properties, err := parseProperties(line, values[minNodeFields:]); err != nil {
		return NodeRecord{}, err
	} else {
		return NodeRecord{
			ID:         id,
			Kind:       kind,
			Properties: properties,
		}, nil
	}
}

// ParseArc parses an arc line of the form fromId<TAB>arcType<TAB>toId[<TAB>name<TAB>value]*.
func ParseArc(line Line) (ArcRecord, error) {
	fields := splitFields(line.Text)

	if len(fields) < minArcFields {
		return ArcRecord{}, newParseError(line, ErrMissingField, fmt.Sprintf("expected at least %d fields, found %d", minArcFields, len(fields)))
	}

	values, err := unescapeAll(line, fields)
	if err != nil {
		return ArcRecord{}, err
	}

	if from, err := parseID(line, values[0], "from id"); err != nil {
		return ArcRecord{}, err
	} else if kind, err := requireKind(line, values[1], "arc type"); err != nil {
		return ArcRecord{}, err
	} else if to, err := parseID(line, values[2], "to id"); err != nil {
		return ArcRecord{}, err
	} else if properties, err := parseProperties(line, values[minArcFields:]); err != nil {
		return ArcRecord{}, err
	} else {
		return ArcRecord{
			From:       from,
			Kind:       kind,
			To:         to,
			Properties: properties,
		}, nil
	}
}
