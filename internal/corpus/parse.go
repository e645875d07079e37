package corpus

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ConvTurn is one message extracted from a serialized conversation record.
// Source records are inconsistent about field names, so both role and text
// are resolved from several candidate keys.
type ConvTurn struct {
	From  string
	Value string
}

// A parse strategy attempts to decode a serialized conversation list and
// returns nil when it cannot produce a non-empty result. Strategies are
// pure and independently testable.
type parseStrategy func(string) []ConvTurn

var parseStrategies = []parseStrategy{
	parseStrictJSON,
	parseRepairedJSON,
	parseObjectScan,
}

// ParseConversations decodes a conversation cell using each strategy in
// order, taking the first non-empty result. Records that defeat every
// strategy yield nil rather than an error.
func ParseConversations(s string) []ConvTurn {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	for _, strategy := range parseStrategies {
		if turns := strategy(s); len(turns) > 0 {
			return turns
		}
	}
	return nil
}

// parseStrictJSON handles well-formed JSON arrays.
func parseStrictJSON(s string) []ConvTurn {
	var raw []map[string]interface{}
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil
	}
	return decodeTurns(raw)
}

// parseRepairedJSON handles Python-flavored serializations: single quotes,
// None/True/False literals.
func parseRepairedJSON(s string) []ConvTurn {
	repaired := strings.NewReplacer(
		"None", "null",
		"True", "true",
		"False", "false",
	).Replace(s)
	repaired = strings.ReplaceAll(repaired, "'", `"`)

	var raw []map[string]interface{}
	if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
		return nil
	}
	return decodeTurns(raw)
}

var objectRe = regexp.MustCompile(`\{[^}]*\}`)

// parseObjectScan salvages individual {...} objects from otherwise
// unparseable text.
func parseObjectScan(s string) []ConvTurn {
	var raw []map[string]interface{}
	for _, obj := range objectRe.FindAllString(s, -1) {
		repaired := strings.ReplaceAll(obj, "'", `"`)
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(repaired), &m); err != nil {
			continue
		}
		raw = append(raw, m)
	}
	return decodeTurns(raw)
}

func decodeTurns(raw []map[string]interface{}) []ConvTurn {
	turns := make([]ConvTurn, 0, len(raw))
	for _, m := range raw {
		turns = append(turns, ConvTurn{
			From:  strings.ToLower(firstString(m, "from", "role")),
			Value: firstString(m, "value", "text", "message"),
		})
	}
	if len(turns) == 0 {
		return nil
	}
	return turns
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// PairTurns extracts adjacent human-to-assistant exchanges from a
// conversation. A pair is emitted whenever a human turn is immediately
// followed by an assistant, bot or therapist turn.
func PairTurns(turns []ConvTurn) [][2]string {
	var pairs [][2]string
	for i := 0; i+1 < len(turns); i++ {
		a, b := turns[i], turns[i+1]
		if !strings.Contains(a.From, "human") {
			continue
		}
		if strings.Contains(b.From, "assistant") ||
			strings.Contains(b.From, "bot") ||
			strings.Contains(b.From, "therapist") {
			pairs = append(pairs, [2]string{
				strings.TrimSpace(a.Value),
				strings.TrimSpace(b.Value),
			})
		}
	}
	return pairs
}
