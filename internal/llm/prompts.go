package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/expand_v1.txt
	promptExpandV1 string
	//go:embed prompts/explain_v1.txt
	promptExplainV1 string
)

const (
	SystemExpand  = "You are a search assistant for a software tool catalog. Answer with plain text only."
	SystemExplain = "You are a software advisor. You write short, factual markdown and never invent facts."
)

// PromptTemplate returns the prompt template text and whether the name was recognized.
func PromptTemplate(name string) (string, bool) {
	switch name {
	case "expand_v1":
		return promptExpandV1, true
	case "explain_v1":
		return promptExplainV1, true
	default:
		return "", false
	}
}

// RenderPrompt fills {{key}} placeholders in the named template.
func RenderPrompt(name string, vars map[string]string) (string, bool) {
	tmpl, ok := PromptTemplate(name)
	if !ok {
		return "", false
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl), true
}
