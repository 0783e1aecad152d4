package rewrite

import "fmt"

// Rule is one substitution in an ordered table.
type Rule struct {
	Pattern     string
	Replacement string
	Flags       Flags
}

// Table is an ordered list of compiled rules. Each rule completes over the
// whole text before the next one starts.
type Table struct {
	rules    []Rule
	patterns []*Pattern
}

// NewTable compiles rules in order.
func NewTable(rules []Rule) (*Table, error) {
	t := &Table{
		rules:    make([]Rule, len(rules)),
		patterns: make([]*Pattern, len(rules)),
	}
	copy(t.rules, rules)
	for i, rule := range rules {
		p, err := Compile(rule.Pattern, rule.Flags)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		t.patterns[i] = p
	}
	return t, nil
}

// MustTable is NewTable for package-level tables; it panics on a bad rule.
func MustTable(rules []Rule) *Table {
	t, err := NewTable(rules)
	if err != nil {
		panic(err)
	}
	return t
}

// Apply runs every rule against text in order.
func (t *Table) Apply(text string) string {
	if t == nil {
		return text
	}
	for i, p := range t.patterns {
		text = p.Replace(text, t.rules[i].Replacement)
	}
	return text
}

// ApplyEach runs every rule in order and passes the result of each one
// through after before the next rule starts.
func (t *Table) ApplyEach(text string, after func(string) string) string {
	if t == nil {
		return text
	}
	for i, p := range t.patterns {
		text = after(p.Replace(text, t.rules[i].Replacement))
	}
	return text
}

// Len returns the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Rules returns a copy of the table's rule records.
func (t *Table) Rules() []Rule {
	if t == nil {
		return nil
	}
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Concat joins tables into one ordered table.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	for _, t := range tables {
		if t == nil {
			continue
		}
		out.rules = append(out.rules, t.rules...)
		out.patterns = append(out.patterns, t.patterns...)
	}
	return out
}
