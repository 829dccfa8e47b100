package summarizer

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const promptTemplate = `
You are a financial data analyst. Analyze the provided transaction reports and follow these instructions:
1. Identify any critical errors or anomalies in the data.
2. Highlight banks or countries with the lowest conversion rates.
3. Provide a brief summary of the business performance based on these files.

CRITICAL REQUIREMENT: Your entire response must be in %s.
Use professional financial terminology.

Data for analysis:
%s
`

// BuildPrompt embeds the corpus verbatim into the analysis instructions.
func BuildPrompt(languageTag, corpus string) string {
	return fmt.Sprintf(promptTemplate, LanguageName(languageTag), corpus)
}

// LanguageName renders a BCP-47 tag as its English name ("ru" -> "Russian").
// Unparseable tags are used as given.
func LanguageName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	if name := display.English.Languages().Name(t); name != "" {
		return name
	}
	return tag
}
