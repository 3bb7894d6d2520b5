package format

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specterops/tinygraph/graph"
)

// ErrUnrepresentable is returned when a value cannot be written in a form the reader would accept back.
var ErrUnrepresentable = errors.New("value cannot be represented")

// Writer emits the canonical form of a document. Errors are sticky: after the first failure every call is a no-op
// and Flush returns the failure.
type Writer struct {
	output   *bufio.Writer
	fields   []string
	sections int
	err      error
}

func NewWriter(output io.Writer) *Writer {
	return &Writer{
		output: bufio.NewWriter(output),
	}
}

func (s *Writer) Err() error {
	return s.err
}

func (s *Writer) writeString(value string) {
	if s.err == nil {
		_, s.err = s.output.WriteString(value)
	}
}

func (s *Writer) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Header writes the format version comment.
func (s *Writer) Header() {
	s.writeString(VersionHeader + "\n")
}

// Section writes a section header. Every section after the first is separated from the previous one by a blank line.
func (s *Writer) Section(section Section) {
	if s.sections > 0 {
		s.writeString("\n")
	}

	s.sections++
	s.writeString(section.String() + "\n")
}

func (s *Writer) line(values ...string) {
	s.fields = s.fields[:0]

	for _, value := range values {
		s.fields = append(s.fields, EscapeField(value))
	}

	s.writeString(strings.Join(s.fields, fieldSeparator) + "\n")
}

func (s *Writer) requireName(value, name string) bool {
	if value == "" {
		s.fail(fmt.Errorf("%w: empty %s", ErrUnrepresentable, name))
		return false
	}

	return true
}

func propertyFields(properties graph.Properties, fields []string) []string {
	for _, key := range properties.Keys() {
		fields = append(fields, key, properties[key])
	}

	return fields
}

func (s *Writer) requireProperties(properties graph.Properties) bool {
	if _, hasEmptyName := properties[""]; hasEmptyName {
		s.fail(fmt.Errorf("%w: empty property name", ErrUnrepresentable))
		return false
	}

	return true
}

// Constraint writes a policy constraint line.
func (s *Writer) Constraint(constraint graph.Constraint) {
	if s.requireName(constraint.From.String(), "from type") &&
		s.requireName(constraint.Arc.String(), "arc type") &&
		s.requireName(constraint.To.String(), "to type") {
		s.line(constraint.From.String(), constraint.Arc.String(), constraint.To.String())
	}
}

// Declaration writes a single field node kind declaration. Kinds that would read back as a section header or as a
// blank line are rejected.
func (s *Writer) Declaration(kind graph.Kind) {
	escaped := EscapeField(kind.String())

	if _, isHeader := ParseSection(escaped); isHeader {
		s.fail(fmt.Errorf("%w: node type %q collides with a section header", ErrUnrepresentable, kind.String()))
	} else if s.requireName(kind.String(), "node type") {
		s.writeString(escaped + "\n")
	}
}

// ArcDeclaration writes an arc kind declaration with empty from and to fields. Kinds that would read back as a
// section header are rejected.
func (s *Writer) ArcDeclaration(kind graph.Kind) {
	escaped := EscapeField(kind.String())

	if _, isHeader := ParseSection(escaped); isHeader {
		s.fail(fmt.Errorf("%w: arc type %q collides with a section header", ErrUnrepresentable, kind.String()))
	} else if s.requireName(kind.String(), "arc type") {
		s.writeString(fieldSeparator + escaped + fieldSeparator + "\n")
	}
}

// Node writes a node line. Properties are written in sorted name order.
func (s *Writer) Node(record NodeRecord) {
	if s.requireName(record.Kind.String(), "node type") && s.requireProperties(record.Properties) {
		s.line(propertyFields(record.Properties, []string{record.Kind.String(), record.ID.String()})...)
	}
}

// Arc writes an arc line. Properties are written in sorted name order.
func (s *Writer) Arc(record ArcRecord) {
	if s.requireName(record.Kind.String(), "arc type") && s.requireProperties(record.Properties) {
		s.line(propertyFields(record.Properties, []string{record.From.String(), record.Kind.String(), record.To.String()})...)
	}
}

func (s *Writer) Flush() error {
	if s.err != nil {
		return s.err
	}

	return s.output.Flush()
}
