package shell

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Kind separates failures that abort a statement from recoverable ones
type Kind string

const (
	KindError   Kind = "Error"
	KindWarning Kind = "Warning"
)

// Report codes
const (
	CodeDataframeNotFound = "E001"
	CodeParameterNotFound = "E002"
	CodePluginNotFound    = "E003"
	CodeSeriesMismatch    = "E004"
	CodeIO                = "E005"
	CodeInvalidSetting    = "E006"
	CodeSeriesNotFound    = "E007"
	CodeNoResults         = "E008"
	CodeNoScripting       = "E009"
	CodeNameInUse         = "E010"
	CodePluginFailed      = "E011"
	CodeInternal          = "E012"

	CodeMissingSource    = "W001"
	CodeNameSuffixed     = "W002"
	CodeSeriesCollision  = "W003"
	CodeCastMissing      = "W004"
	CodeCastInvalid      = "W005"
	CodeFilterSeriesGone = "W006"
)

// Report is a coded diagnostic shown to the user
type Report struct {
	Kind    Kind
	Code    string
	Message string
}

func (r *Report) Error() string {
	return fmt.Sprintf("%s/%s: %s", r.Kind, r.Code, r.Message)
}

func errorf(code, format string, args ...any) *Report {
	return &Report{Kind: KindError, Code: code, Message: fmt.Sprintf(format, args...)}
}

func warnf(code, format string, args ...any) *Report {
	return &Report{Kind: KindWarning, Code: code, Message: fmt.Sprintf(format, args...)}
}

// notFound builds a missing-name report, suggesting the closest candidate
func notFound(code, what, name string, candidates []string) *Report {
	msg := fmt.Sprintf("%s %s not found", what, name)
	if match := suggest(name, candidates); match != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", match)
	}
	return errorf(code, "%s", msg)
}

// suggest returns the candidate closest to name, or "" when none is close
func suggest(name string, candidates []string) string {
	if name == "" || len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	// fall back to edit distance for typos that drop or swap characters
	best, bestDist := "", len(name)/3+1
	for _, c := range slices.Sorted(slices.Values(candidates)) {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c)); d <= bestDist && (best == "" || d < bestDist) {
			best, bestDist = c, d
		}
	}
	return best
}
