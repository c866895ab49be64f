package diagnosis

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

const (
	defaultSummary     = "Analysis complete. The pipeline metrics have been evaluated."
	defaultCause       = "Abnormal pressure-to-flow ratio indicating potential blockage or valve malfunction"
	fallbackAnswer     = "Unable to generate answer."
	maxRecommendations = 3
	minLineLength      = 10
)

var defaultRecommendations = []string{
	"Conduct immediate inspection of pipeline joints, welds, and high-stress areas.",
	"Implement real-time monitoring systems to track pressure and flow anomalies.",
	"Schedule preventive maintenance and leak detection assessment within 48 hours.",
}

var supplementalRecommendations = []string{
	"Implement continuous monitoring and establish alert thresholds.",
	"Document current conditions and schedule follow-up inspection.",
}

var (
	numberedLine = regexp.MustCompile(`^\d+\.`)
	numberPrefix = regexp.MustCompile(`^\d+\.\s*`)
	causeToken   = regexp.MustCompile(`(?i)CAUSE:[ \t]*([^\n]+)`)
	confToken    = regexp.MustCompile(`(?i)CONFIDENCE:\s*(\d+)`)
	factorsToken = regexp.MustCompile(`(?i)FACTORS:\s*(\d+)`)
	markdown     = strings.NewReplacer("**", "", "##", "", "*", "")
)

// ParseDiagnosis splits a completion into a summary and up to three
// recommendations. Lines before the first numbered item (or a "recommended
// action" header) form the summary; numbered items become recommendations and
// longer unnumbered lines after them continue the previous one. Missing parts
// are filled with fixed defaults.
func ParseDiagnosis(text string) Diagnosis {
	cleaned := strings.TrimSpace(markdown.Replace(text))

	var summary []string
	var recs []string
	inRecs := false

	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		numbered := numberedLine.MatchString(line)

		switch {
		case numbered || strings.Contains(strings.ToLower(line), "recommended action"):
			inRecs = true
			if numbered {
				item := strings.TrimSpace(numberPrefix.ReplaceAllString(line, ""))
				if len(item) > minLineLength {
					recs = append(recs, item)
				}
			}
		case !inRecs:
			summary = append(summary, line)
		case len(line) > minLineLength && len(recs) > 0:
			recs[len(recs)-1] += " " + line
		}
	}

	d := Diagnosis{Summary: strings.TrimSpace(strings.Join(summary, " "))}
	if d.Summary == "" {
		d.Summary = defaultSummary
	}

	switch len(recs) {
	case 0:
		recs = append(recs, defaultRecommendations...)
	case 1:
		recs = append(recs, supplementalRecommendations...)
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	d.Recommendations = recs
	return d
}

// ParseRootCause extracts the CAUSE, CONFIDENCE and FACTORS tokens. Missing
// confidence falls back to 75–94 and missing factors to 2–4, drawn from src in
// that order before the repair and failure cost draws.
func ParseRootCause(text string, leakProb float64, src domain.RandomSource) RootCause {
	rc := RootCause{Cause: defaultCause}

	if m := causeToken.FindStringSubmatch(text); m != nil {
		if cause := strings.TrimSpace(m[1]); cause != "" {
			rc.Cause = cause
		}
	}

	if n, ok := intToken(confToken, text); ok {
		rc.Confidence = n
	} else {
		rc.Confidence = 75 + int(math.Floor(src.Float64()*20))
	}

	if n, ok := intToken(factorsToken, text); ok {
		rc.Factors = n
	} else {
		rc.Factors = 2 + int(math.Floor(src.Float64()*3))
	}

	rc.RepairCost, rc.FailureCost = estimateCosts(leakProb, src)
	return rc
}

// estimateCosts returns a repair cost of 45k–75k USD scaled by severity and a
// failure cost of three to five times that.
func estimateCosts(leakProb float64, src domain.RandomSource) (repair, failure float64) {
	severity := 1.2
	if leakProb > 0.5 {
		severity = 1.5
	}
	repair = math.Floor((45000+src.Float64()*30000)*severity + 0.5)
	failure = math.Floor(repair*(3+src.Float64()*2) + 0.5)
	return repair, failure
}

func intToken(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
