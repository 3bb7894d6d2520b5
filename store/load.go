package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specterops/tinygraph/format"
	"github.com/specterops/tinygraph/policy"
	"github.com/specterops/tinygraph/util"
)

// LoadReport summarizes the outcome of reading a document into a store.
type LoadReport struct {
	// Counts reflect what the loaded store holds. Duplicate lines are not counted twice.
	Constraints int
	Nodes       int
	Arcs        int

	// Rejected holds one error per line that could not be applied, in the order the lines were processed.
	Rejected []error
}

func (s LoadReport) NumRejected() int {
	return len(s.Rejected)
}

// Err joins every rejection into a single error. It returns nil when every line was applied.
func (s LoadReport) Err() error {
	return errors.Join(s.Rejected...)
}

func (s *LoadReport) reject(logger *slog.Logger, msg string, line format.Line, err error) {
	var parseErr *format.ParseError

	if !errors.As(err, &parseErr) {
		err = fmt.Errorf("line %d: %w", line.Number, err)
	}

	util.SLogWarn(logger, msg, err, slog.Int("line", line.Number))
	s.Rejected = append(s.Rejected, err)
}

// Open reads the document at the given path into a new store. See Read.
func Open(path string, config Config) (*Store, LoadReport, error) {
	if input, err := os.Open(path); err != nil {
		return nil, LoadReport{}, err
	} else {
		defer input.Close()
		return Read(input, config)
	}
}

// Read builds a new store from a document. The Policy section is applied first, then every node line and finally
// every arc line, regardless of where the sections appear in the input. Lines that cannot be parsed or applied are
// logged, recorded in the returned report and skipped. Only a failure to read the input is returned as an error.
func Read(input io.Reader, config Config) (*Store, LoadReport, error) {
	var (
		logger     = util.LoggerOrDefault(config.Logger)
		measure    = util.SLogMeasureFunction(logger, "Read")
		report     LoadReport
		readPolicy = policy.New()
	)

	document, err := format.ReadDocument(input)
	if err != nil {
		util.SLogError(logger, "Failed reading graph document", err)
		return nil, report, err
	}

	for _, line := range document.Unsectioned {
		report.reject(logger, "Ignoring line outside of any section", line, format.NoSectionError(line))
	}

	report.Rejected = append(report.Rejected, readPolicy.Apply(document.Policy, logger)...)
	report.Constraints = readPolicy.NumConstraints()

	store := New(readPolicy, Config{
		Logger: logger,
	})

	for _, line := range document.Nodes {
		if record, err := format.ParseNode(line); err != nil {
			report.reject(logger, "Ignoring malformed node line", line, err)
		} else if err := store.NewNodeWithID(record.ID, record.Kind, record.Properties); err != nil {
			report.reject(logger, "Ignoring node line", line, err)
		}
	}

	for _, line := range document.Relations {
		if record, err := format.ParseArc(line); err != nil {
			report.reject(logger, "Ignoring malformed relation line", line, err)
		} else if _, err := store.AddArc(record.From, record.Kind, record.To, record.Properties); err != nil {
			report.reject(logger, "Ignoring relation line", line, err)
		}
	}

	report.Nodes = store.NumNodes()
	report.Arcs = store.NumArcs()

	measure(
		slog.Int("nodes", report.Nodes),
		slog.Int("arcs", report.Arcs),
		slog.Int("rejected", report.NumRejected()),
	)

	return store, report, nil
}
