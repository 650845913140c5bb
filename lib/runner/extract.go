package runner

import (
	"encoding/json"
	"strings"

	"github.com/titanous/json5"
)

// ExtractLastObject pulls the final {...} object out of arbitrary
// script output. Scrapers print diagnostic log lines before their
// result, so lines are scanned newest first and the first parseable
// object wins, an earlier unrelated object must never shadow the final
// one.
//
// Parse precedence per line:
//  1. a clean single-line object (starts with "{", ends with "}") is
//     tried with strict JSON, then with permissive json5 (tolerates
//     single quotes and unquoted keys, aka python dict repr output).
//  2. a line merely containing "{" and "}" has the greedy substring
//     between the first "{" and the last "}" retried with both
//     parsers, which recovers objects glued onto log prefixes.
func ExtractLastObject(text string) (map[string]any, error) {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOutput
	}

	for i := len(lines) - 1; i >= 0; i-- {
		ln := lines[i]

		if strings.HasPrefix(ln, "{") && strings.HasSuffix(ln, "}") {
			obj, ok := parseObject(ln)
			if ok {
				return obj, nil
			}
		}

		open := strings.Index(ln, "{")
		close := strings.LastIndex(ln, "}")
		if open >= 0 && close > open {
			obj, ok := parseObject(ln[open : close+1])
			if ok {
				return obj, nil
			}
		}
	}

	return nil, &ParseError{Raw: text}
}

func parseObject(chunk string) (map[string]any, bool) {
	var strict map[string]any
	if err := json.Unmarshal([]byte(chunk), &strict); err == nil {
		return strict, true
	}

	var permissive map[string]any
	if err := json5.Unmarshal([]byte(chunk), &permissive); err == nil {
		return permissive, true
	}
	return nil, false
}
