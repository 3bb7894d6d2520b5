// Package format implements the line-oriented, tab-delimited text representation of a graph store.
//
// A document is made of three sections introduced by header lines: Policy, Nodes and Relations. Lines whose first
// non-blank character is '#' are comments and blank lines are ignored anywhere.
//
//	Policy
//	fromType<TAB>arcType<TAB>toType
//	nodeType
//	<TAB>arcType<TAB>
//
//	Nodes
//	type<TAB>id[<TAB>name<TAB>value]*
//
//	Relations
//	fromId<TAB>arcType<TAB>toId[<TAB>name<TAB>value]*
//
// Fields are escaped so that any string survives a write followed by a read. Only format version 1 exists.
package format

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	Version       = 1
	VersionHeader = "# tinygraph format 1"

	fieldSeparator = "\t"
	commentPrefix  = '#'
)

type Section int

const (
	SectionNone Section = iota
	SectionPolicy
	SectionNodes
	SectionRelations
)

func (s Section) String() string {
	switch s {
	case SectionPolicy:
		return "Policy"
	case SectionNodes:
		return "Nodes"
	case SectionRelations:
		return "Relations"
	default:
		return "none"
	}
}

// ParseSection recognizes a section header. "Database" is accepted as an alias for Nodes since it opened the data
// portion of earlier documents.
func ParseSection(text string) (Section, bool) {
	switch strings.TrimSpace(text) {
	case "Policy":
		return SectionPolicy, true
	case "Nodes", "Database":
		return SectionNodes, true
	case "Relations":
		return SectionRelations, true
	default:
		return SectionNone, false
	}
}

// Line is a single content line of a document along with its 1-based position and enclosing section.
type Line struct {
	Number  int
	Section Section
	Text    string
}

// IsIgnored returns true for blank lines and comment lines.
func IsIgnored(text string) bool {
	trimmed := strings.TrimLeft(text, " \t\r")
	return len(trimmed) == 0 || trimmed[0] == commentPrefix
}

// Document holds the content lines of a document grouped by section, in file order.
type Document struct {
	Policy    []Line
	Nodes     []Line
	Relations []Line

	// Unsectioned holds content lines that appear before the first section header.
	Unsectioned []Line
}

func (s *Document) add(line Line) {
	switch line.Section {
	case SectionPolicy:
		s.Policy = append(s.Policy, line)
	case SectionNodes:
		s.Nodes = append(s.Nodes, line)
	case SectionRelations:
		s.Relations = append(s.Relations, line)
	default:
		s.Unsectioned = append(s.Unsectioned, line)
	}
}

// NumLines returns the number of content lines in the document.
func (s Document) NumLines() int {
	return len(s.Policy) + len(s.Nodes) + len(s.Relations) + len(s.Unsectioned)
}

// ReadDocument reads every line of the reader, dropping blank and comment lines and grouping the rest by section.
// Only a failure of the underlying reader is returned as an error; content is validated later by the line parsers.
func ReadDocument(reader io.Reader) (Document, error) {
	var (
		document Document
		buffered = bufio.NewReader(reader)
		section  = SectionNone
	)

	for number := 1; ; number++ {
		text, err := buffered.ReadString('\n')

		if err != nil && !errors.Is(err, io.EOF) {
			return Document{}, err
		}

		if len(text) == 0 && err != nil {
			break
		}

		text = strings.TrimSuffix(text, "\n")
		text = strings.TrimSuffix(text, "\r")

		if !IsIgnored(text) {
			if nextSection, isHeader := ParseSection(text); isHeader {
				section = nextSection
			} else {
				document.add(Line{
					Number:  number,
					Section: section,
					Text:    text,
				})
			}
		}

		if err != nil {
			break
		}
	}

	return document, nil
}
