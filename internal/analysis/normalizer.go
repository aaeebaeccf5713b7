package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

const (
	defaultSummary     = "Analysis completed successfully."
	emptyOutputSummary = "The analysis service returned no readable content."
	summaryPreviewLen  = 300
)

var folder = cases.Fold()

// statusAliases maps case-folded model wording onto the fixed status set.
var statusAliases = map[string]MetricStatus{
	"normal":     StatusNormal,
	"ok":         StatusNormal,
	"within":     StatusNormal,
	"borderline": StatusBorderline,
	"moderate":   StatusBorderline,
	"abnormal":   StatusAbnormal,
	"high":       StatusAbnormal,
	"low":        StatusAbnormal,
	"elevated":   StatusAbnormal,
	"critical":   StatusAbnormal,
	"good":       StatusGood,
	"optimal":    StatusGood,
	"excellent":  StatusGood,
}

var urgencyAliases = map[string]Urgency{
	"low":       UrgencyLow,
	"medium":    UrgencyMedium,
	"moderate":  UrgencyMedium,
	"high":      UrgencyHigh,
	"critical":  UrgencyCritical,
	"urgent":    UrgencyCritical,
	"emergency": UrgencyCritical,
}

// Normalize converts raw model output into an Analysis. It never fails:
// the whole input is tried as JSON, then each embedded top-level object,
// and finally a placeholder is synthesized from the raw text.
func Normalize(raw string) Analysis {
	text := stripCodeFence(raw)

	if a, ok := decodeAnalysis([]byte(text)); ok {
		return a
	}

	for _, candidate := range jsonObjectCandidates(text) {
		if a, ok := decodeAnalysis([]byte(candidate)); ok {
			return a
		}
	}

	return placeholderAnalysis(raw)
}

// decodeAnalysis decodes a JSON object field by field so a single
// malformed field falls back to its default instead of failing the object.
func decodeAnalysis(data []byte) (Analysis, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &fields); err != nil || fields == nil {
		return Analysis{}, false
	}

	a := newAnalysis()
	a.Summary = defaultSummary

	if s := decodeText(fields["summary"]); strings.TrimSpace(s) != "" {
		a.Summary = strings.TrimSpace(s)
	}
	a.KeyMetrics = decodeMetrics(fields["keyMetrics"])
	a.RiskFactors = decodeStrings(fields["riskFactors"])
	a.Recommendations = decodeStrings(fields["recommendations"])
	a.Urgency = normalizeUrgency(decodeText(fields["urgency"]))

	return a, true
}

// decodeText renders a JSON scalar as text. Objects and arrays yield "".
func decodeText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case '{', '[':
		return ""
	case 'n':
		return ""
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return strconv.FormatBool(b)
		}
	}
	return ""
}

func decodeStrings(raw json.RawMessage) []string {
	out := []string{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return out
	}
	if raw[0] != '[' {
		if s := strings.TrimSpace(decodeText(raw)); s != "" {
			out = append(out, s)
		}
		return out
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		if s := strings.TrimSpace(decodeText(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func decodeMetrics(raw json.RawMessage) []KeyMetric {
	out := []KeyMetric{}
	var elems []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(raw), &elems); err != nil {
		return out
	}
	for _, elem := range elems {
		var item map[string]json.RawMessage
		if err := json.Unmarshal(elem, &item); err != nil || item == nil {
			continue
		}
		name := strings.TrimSpace(decodeText(item["name"]))
		if name == "" {
			continue
		}
		out = append(out, KeyMetric{
			Name:   name,
			Value:  strings.TrimSpace(decodeText(item["value"])),
			Status: normalizeStatus(decodeText(item["status"])),
		})
	}
	return out
}

func normalizeStatus(s string) MetricStatus {
	key := folder.String(strings.TrimSpace(s))
	if st, ok := statusAliases[key]; ok {
		return st
	}
	return StatusBorderline
}

func normalizeUrgency(s string) Urgency {
	key := folder.String(strings.TrimSpace(s))
	if u, ok := urgencyAliases[key]; ok {
		return u
	}
	return UrgencyMedium
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// jsonObjectCandidates returns every balanced top-level {...} span in s,
// in order. Braces inside JSON strings are ignored.
func jsonObjectCandidates(s string) []string {
	var out []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				out = append(out, s[start:i+1])
				start = -1
			}
		}
	}
	return out
}

// placeholderAnalysis is the last-resort structure for unparseable output.
func placeholderAnalysis(raw string) Analysis {
	a := newAnalysis()

	text := strings.TrimSpace(raw)
	switch {
	case text == "":
		a.Summary = emptyOutputSummary
	case utf8.RuneCountInString(text) > summaryPreviewLen:
		a.Summary = string([]rune(text)[:summaryPreviewLen]) + "..."
	default:
		a.Summary = text
	}

	lines := 0
	if text != "" {
		lines = strings.Count(text, "\n") + 1
	}
	a.KeyMetrics = []KeyMetric{
		{Name: "Analysis Status", Value: "Completed", Status: StatusNormal},
		{Name: "Data Extracted", Value: fmt.Sprintf("%d lines processed", lines), Status: StatusNormal},
	}
	a.RiskFactors = []string{"Please review the detailed analysis for specific risk factors"}
	a.Recommendations = []string{
		"Consult with healthcare provider for detailed interpretation",
		"Follow up with regular health monitoring",
	}
	return a
}
