package confidence

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Token is one entry of a model's token-level log-probability trace, in
// emission order. Text is the token's surface form as it appears in the
// raw completion.
type Token struct {
	Text    string  `json:"token"`
	LogProb float64 `json:"logprob"`
}

// Evaluate walks an extracted payload (the decoded JSON form of a model's
// structured output) and scores every leaf scalar against the token trace.
//
// A field's confidence is the minimum of the linear probabilities
// (exp(logprob)) of the tokens spanning its serialized value in the raw
// output text: a multi-token value is only as trustworthy as its weakest
// token. The overall confidence, recorded under OverallKey, is the
// arithmetic mean across all scored field paths.
//
// A leaf whose text cannot be located among the emitted tokens scores 0.0
// and is still recorded. A payload with no scorable leaves yields an
// overall confidence of 1.0: there is nothing to doubt. Evaluate never
// fails; malformed input degrades to low scores rather than an error.
func Evaluate(fields any, trace []Token) map[string]float64 {
	scores := make(map[string]float64)

	var raw strings.Builder
	spans := make([]int, len(trace)+1)
	for i, tok := range trace {
		spans[i] = raw.Len()
		raw.WriteString(tok.Text)
	}
	spans[len(trace)] = raw.Len()

	walk(fields, "", raw.String(), spans, trace, scores)

	scores[OverallKey] = overall(scores)
	return scores
}

func overall(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return 1.0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func walk(value any, path, raw string, spans []int, trace []Token, scores map[string]float64) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(v[k], joinPath(path, k), raw, spans, trace, scores)
		}
	case []any:
		for i, item := range v {
			walk(item, fmt.Sprintf("%s[%d]", path, i), raw, spans, trace, scores)
		}
	case nil:
		// Null leaves carry no emitted value text and are not scored.
	default:
		text := leafText(v)
		if text == "" {
			return
		}
		scores[path] = scoreSpan(text, raw, spans, trace)
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// leafText returns the textual form of a scalar as the model emitted it.
// Integral floats are rendered without a decimal point since JSON numbers
// decode to float64.
func leafText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// scoreSpan locates the first occurrence of text in the raw completion,
// maps that character span onto the contiguous tokens overlapping it, and
// returns the minimum linear probability among them. Unlocatable text
// scores 0.
func scoreSpan(text, raw string, spans []int, trace []Token) float64 {
	start := strings.Index(raw, text)
	if start < 0 {
		return 0
	}
	end := start + len(text)

	minProb := math.Inf(1)
	for i, tok := range trace {
		tokStart, tokEnd := spans[i], spans[i+1]
		if tokEnd <= start || tokStart >= end {
			continue
		}
		p := math.Exp(tok.LogProb)
		if p > 1 {
			p = 1
		}
		if p < minProb {
			minProb = p
		}
	}

	if math.IsInf(minProb, 1) {
		return 0
	}
	return minProb
}
