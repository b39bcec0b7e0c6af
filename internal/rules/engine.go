package rules

import (
	"go.uber.org/zap"

	"github.com/yacobolo/cssguide/internal/order"
	"github.com/yacobolo/cssguide/internal/parser"
)

// Options configures the checks. The engine never modifies it.
type Options struct {
	MaxNestingDepth int
	Order           *order.Table
	ZIndexBands     []Band
	// Enabled limits the run to these rule ids. Empty means every rule.
	Enabled  []string
	Disabled []string
}

// DefaultOptions returns options with every rule enabled.
func DefaultOptions() Options {
	return Options{
		MaxNestingDepth: 1,
		Order:           order.DefaultTable(),
		ZIndexBands:     DefaultBands(),
	}
}

// Engine runs the enabled rules over parsed stylesheets. It is safe for
// concurrent use.
type Engine struct {
	opts    Options
	enabled map[string]bool
	byKind  map[NodeKind][]*RuleDef
	log     *zap.Logger
}

// NewEngine builds an engine. A nil logger disables logging.
func NewEngine(opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Order == nil {
		opts.Order = order.DefaultTable()
	}
	if opts.ZIndexBands == nil {
		opts.ZIndexBands = DefaultBands()
	}

	e := &Engine{
		opts:    opts,
		enabled: make(map[string]bool),
		byKind:  make(map[NodeKind][]*RuleDef),
		log:     log.Named("rules"),
	}

	only := make(map[string]bool, len(opts.Enabled))
	for _, id := range opts.Enabled {
		only[id] = true
	}
	off := make(map[string]bool, len(opts.Disabled))
	for _, id := range opts.Disabled {
		off[id] = true
	}

	for _, r := range registry {
		if (len(only) > 0 && !only[r.ID]) || off[r.ID] {
			continue
		}
		e.enabled[r.ID] = true
		if r.Check != nil {
			e.byKind[r.Kind] = append(e.byKind[r.Kind], r)
		}
	}
	return e
}

// Enabled reports whether a rule is switched on.
func (e *Engine) Enabled(id string) bool {
	return e.enabled[id]
}

// Check runs every enabled rule over sheet and returns the violations
// ordered by position and rule id.
func (e *Engine) Check(sheet *parser.Stylesheet) []Violation {
	var out []Violation

	for _, a := range sheet.Anomalies {
		v := FromAnomaly(sheet.Filename, a)
		if e.enabled[v.Rule] {
			out = append(out, v)
		}
	}

	passes := make(map[*RuleDef]*Pass)
	pass := func(r *RuleDef) *Pass {
		p, ok := passes[r]
		if !ok {
			p = &Pass{Rule: r, Options: &e.opts, Sheet: sheet}
			passes[r] = p
		}
		return p
	}
	run := func(kind NodeKind, n Node) {
		for _, r := range e.byKind[kind] {
			r.Check(pass(r), n)
		}
	}

	run(KindStylesheet, Node{Sheet: sheet})

	sheet.Walk(func(b *parser.RuleBlock) {
		run(KindBlock, Node{Sheet: sheet, Block: b})

		if b.IsRule() && !b.InKeyframes() {
			for _, sel := range b.Selectors {
				run(KindSelector, Node{Sheet: sheet, Block: b, Selector: sel})
			}
		}
		for _, d := range b.Declarations {
			run(KindDeclaration, Node{Sheet: sheet, Block: b, Declaration: d})
		}
	})

	for _, c := range sheet.AllComments() {
		run(KindComment, Node{Sheet: sheet, Comment: c})
	}

	for _, r := range registry {
		if p, ok := passes[r]; ok {
			out = append(out, p.violations...)
		}
	}

	Sort(out)

	e.log.Debug("Checked stylesheet",
		zap.String("file", sheet.Filename),
		zap.Int("violations", len(out)))
	return out
}
