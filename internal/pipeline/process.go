package pipeline

import (
	"log/slog"

	"github.com/nao1215/auditcsv/internal/ansi"
	"github.com/nao1215/auditcsv/internal/extract"
	"github.com/nao1215/auditcsv/internal/filter"
	"github.com/nao1215/auditcsv/internal/model"
	"github.com/nao1215/auditcsv/internal/table"
)

// Processor runs one line at a time through every stage up to, but not
// including, the report writer. It is not safe for concurrent use.
type Processor struct {
	parser  *table.Parser
	deps    *filter.Dependencies
	unique  *filter.UniqueBy[model.Vulnerability, string]
	summary *model.Summary
	logger  *slog.Logger
}

// NewProcessor returns a Processor keeping records whose dependency is in deps.
func NewProcessor(deps filter.DependencySet, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		parser:  table.NewParser(),
		deps:    filter.NewDependencies(deps),
		unique:  filter.NewUniqueBy(model.Vulnerability.DedupKey),
		summary: model.NewSummary(),
		logger:  logger,
	}
}

// ProcessLine feeds one raw input line. It returns a record when the line
// completes a table whose advisory survives filtering and deduplication.
func (p *Processor) ProcessLine(line string) (model.Vulnerability, bool) {
	block, ok := p.parser.Feed(ansi.Strip(line))
	if !ok {
		return model.Vulnerability{}, false
	}
	return p.ProcessBlock(block)
}

// ProcessBlock runs a completed table through extraction, filtering and
// deduplication.
func (p *Processor) ProcessBlock(block table.Block) (model.Vulnerability, bool) {
	p.summary.Blocks++

	v, err := extract.Extract(block)
	if err != nil {
		p.summary.Malformed++
		p.logger.Debug("skipping table", "rows", block.Len(), "error", err)
		return model.Vulnerability{}, false
	}

	if !p.deps.Keep(v) {
		p.summary.Filtered++
		p.logger.Debug("not a direct dependency",
			"package", v.Package,
			"dependency", v.Dependency,
		)
		return model.Vulnerability{}, false
	}

	if !p.unique.Admit(v) {
		p.summary.Duplicates++
		p.logger.Debug("duplicate advisory", "package", v.Package, "reason", v.Reason)
		return model.Vulnerability{}, false
	}

	p.summary.AddEmitted(v)
	return v, true
}

// Pending reports whether the input so far ends inside an unclosed table.
func (p *Processor) Pending() bool {
	return p.parser.Pending()
}

// Summary returns the counters accumulated so far.
func (p *Processor) Summary() *model.Summary {
	return p.summary
}
