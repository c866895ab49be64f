package diagnosis

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

const (
	diagnoseTemperature = 0.2
	followUpTemperature = 0.3
	minQuestionLength   = 3
)

const diagnoseSystemPrompt = "You are a senior pipeline reliability engineer. Provide a concise diagnostic summary " +
	"followed by 2-3 specific actionable recommendations. Format your response as: First, a brief summary paragraph. " +
	"Then, list each recommendation starting with a number (1., 2., 3.). Do not use markdown formatting like ** or ##. " +
	"Be direct and professional."

func diagnosePrompt(p domain.PipelineEntity) CompletionRequest {
	user := fmt.Sprintf(`Analyze this pipeline:
- Name: %s
- ID: %d
- Pressure: %s bar
- Flow Rate: %s m³/h
- Calculated Leak Probability: %s

Provide a concise diagnostic summary and 2-3 specific recommended actions.`,
		p.Name, p.ID, formatNumber(p.PressureBar), formatNumber(p.FlowM3h), percent(p.LeakProb))

	return CompletionRequest{
		System:      diagnoseSystemPrompt,
		User:        user,
		Temperature: diagnoseTemperature,
	}
}

func rootCausePrompt(p domain.PipelineEntity) CompletionRequest {
	system := fmt.Sprintf(`You are a senior pipeline reliability engineer performing root cause analysis.

Pipeline Details:
%s

Analyze the root cause and provide:
1. Primary root cause (one sentence)
2. Confidence level (0-100%%)
3. Number of contributing factors

Format your response as:
CAUSE: [root cause]
CONFIDENCE: [number]
FACTORS: [number]`, pipelineDetails(p))

	return CompletionRequest{
		System:      system,
		User:        "Perform root cause analysis",
		Temperature: diagnoseTemperature,
	}
}

func followUpPrompt(req FollowUpRequest) CompletionRequest {
	var b strings.Builder
	b.WriteString("You are a senior pipeline reliability engineer answering follow-up questions about a specific pipeline.\n\n")
	b.WriteString("Pipeline Details:\n")
	b.WriteString(pipelineDetails(req.Pipeline))
	b.WriteString("\n\n")
	if req.PreviousDiagnosis != nil && req.PreviousDiagnosis.Summary != "" {
		fmt.Fprintf(&b, "Previous Diagnosis: %s\n\n", req.PreviousDiagnosis.Summary)
	}
	b.WriteString("Provide a clear, concise answer to the user's question. Be technical but understandable.")

	return CompletionRequest{
		System:      b.String(),
		User:        strings.TrimSpace(req.Question),
		Temperature: followUpTemperature,
	}
}

func pipelineDetails(p domain.PipelineEntity) string {
	return fmt.Sprintf(`- Name: %s
- Pressure: %s bar
- Flow Rate: %s m³/h
- Leak Probability: %s`, p.Name, formatNumber(p.PressureBar), formatNumber(p.FlowM3h), percent(p.LeakProb))
}

// percent renders a probability as a percentage with one decimal, e.g. 14.4%.
func percent(prob float64) string {
	return fmt.Sprintf("%.1f%%", prob*100)
}

// formatNumber prints the shortest representation, so 68.4 stays "68.4" and
// 1200 stays "1200".
func formatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}
