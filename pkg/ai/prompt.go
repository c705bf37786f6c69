package ai

import (
	"fmt"
	"strings"

	"github.com/matzehuels/gitseeker/pkg/project"
)

// MaxReadmeChars is the README length passed to the model.
const MaxReadmeChars = 6000

const truncationMarker = "\n\n[Documentation truncated...]"

// SystemPrompt instructs the model how to analyze project documentation.
const SystemPrompt = `You are an expert software engineer and technical analyst. Your task is to analyze project documentation and provide actionable insights.

ANALYSIS GUIDELINES:
1. Focus on WHAT the project does (core purpose)
2. Highlight KEY features or unique capabilities
3. Explain WHO should use it and WHEN
4. Mention technical requirements or prerequisites if critical
5. Be concise but informative - aim for 3-4 bullet points
6. Use clear, professional language
7. If it's an AI model, mention the model type and use cases

Format your response as bullet points starting with • or -`

// TruncateReadme cuts readme to [MaxReadmeChars] characters and marks the
// cut.
func TruncateReadme(readme string) string {
	r := []rune(readme)
	if len(r) <= MaxReadmeChars {
		return readme
	}
	return string(r[:MaxReadmeChars]) + truncationMarker
}

// AnalysisMessages builds the conversation asking the model to summarize p
// from its README.
func AnalysisMessages(p project.Project, readme string) []Message {
	description := p.Description
	if description == "" {
		description = "No description provided"
	}
	language := p.Language
	if language == "" {
		language = "Not specified"
	}
	topics := strings.Join(p.Topics, ", ")
	if topics == "" {
		topics = "None"
	}

	user := fmt.Sprintf(`Analyze this %s project: %q

Project Description: %s
Language/Framework: %s
Topics/Tags: %s

Documentation:
%s

Provide a clear, actionable analysis in 3-4 bullet points.`,
		p.Source.Label(), p.FullName, description, language, topics, TruncateReadme(readme))

	return []Message{
		{Role: RoleSystem, Content: SystemPrompt},
		{Role: RoleUser, Content: user},
	}
}
