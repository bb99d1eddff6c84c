package tables

import (
	"fmt"
	"regexp"
)

// ws matches one whitespace character: ASCII whitespace including vertical tab,
// unicode space separators, line and paragraph separators and the BOM.
const ws = `[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

// Rule is one independent table-row heuristic.
type Rule struct {
	Name  string
	Match func(line string) bool
}

// Rule names, in evaluation order.
const (
	RuleWideSpacing = "wide-spacing"
	RulePipes       = "pipes"
	RulePositional  = "positional"
	RuleCurrency    = "currency"
	RulePercentage  = "percentage"
)

// DefaultRules returns the classifier rule table. A line is table-like when any
// rule matches; evaluation stops at the first match.
func DefaultRules(opts Options) []Rule {
	opts = opts.withDefaults()
	field := fmt.Sprintf(`.{%d,%d}`, opts.MinFieldLength, opts.MaxFieldLength)

	return []Rule{
		regexpRule(RuleWideSpacing, `^.+`+ws+`{3,}.+`+ws+`{3,}.+$`),
		regexpRule(RulePipes, `^.*\|.*\|.*$`),
		regexpRule(RulePositional, `^`+field+ws+`+`+field+ws+`+`+field+`.*$`),
		regexpRule(RuleCurrency, `^.*\$\d+.*\$\d+.*$`),
		regexpRule(RulePercentage, `^.*\d+%.*\d+%.*$`),
	}
}

func regexpRule(name, expr string) Rule {
	re := regexp.MustCompile(expr)
	return Rule{Name: name, Match: re.MatchString}
}
