// Package cssinfo summarizes a stylesheet for diagnostics. It never rejects
// input: the provider is the judge of what it can convert.
package cssinfo

import (
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Stats counts the constructs that need Tailwind prefixes or utilities.
type Stats struct {
	Bytes        int
	Rulesets     int
	Declarations int
	MediaQueries int
	AtRules      int
	PseudoRules  int
	ParseError   string
}

// Fields renders the stats as log fields.
func (s Stats) Fields() logrus.Fields {
	f := logrus.Fields{
		"css_bytes":        s.Bytes,
		"css_rulesets":     s.Rulesets,
		"css_declarations": s.Declarations,
		"css_media":        s.MediaQueries,
		"css_at_rules":     s.AtRules,
		"css_pseudo_rules": s.PseudoRules,
	}
	if s.ParseError != "" {
		f["css_parse_error"] = s.ParseError
	}
	return f
}

// Inspect walks src with the tdewolff CSS grammar parser. Bare declaration
// lists such as "display: flex; padding: 1rem" are parsed inline.
func Inspect(src string) Stats {
	stats := Stats{Bytes: len(src)}
	if strings.TrimSpace(src) == "" {
		return stats
	}

	p := css.NewParser(parse.NewInputString(src), !strings.Contains(src, "{"))
	// grouped selectors arrive as QualifiedRuleGrammar before their ruleset
	pseudo := false
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				stats.ParseError = err.Error()
			}
			return stats
		case css.QualifiedRuleGrammar:
			pseudo = pseudo || hasPseudo(data, p.Values())
		case css.BeginRulesetGrammar:
			stats.Rulesets++
			if pseudo || hasPseudo(data, p.Values()) {
				stats.PseudoRules++
			}
			pseudo = false
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			stats.Declarations++
		case css.BeginAtRuleGrammar, css.AtRuleGrammar:
			if strings.EqualFold(string(data), "@media") {
				stats.MediaQueries++
			} else {
				stats.AtRules++
			}
		}
	}
}

func hasPseudo(data []byte, values []css.Token) bool {
	if strings.Contains(string(data), ":") {
		return true
	}
	for _, t := range values {
		if t.TokenType == css.ColonToken {
			return true
		}
	}
	return false
}
