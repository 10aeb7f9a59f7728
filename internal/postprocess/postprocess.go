// Package postprocess removes common LLM artifacts from translation output.
//
// It is applied to the raw text returned by every generative backend (Ollama,
// OpenAI, OpenRouter, Gemini) before the translation is returned.
package postprocess

import (
	"regexp"
	"strings"
)

// steps run in order, each on trimmed text.
var steps = []func(string) string{
	removeThinkingBlocks,
	removeCodeFence,
	removeInstructionEchoes,
	removeTrailingNotes,
	removeQuoteWrapping,
}

// Clean strips reasoning blocks, a wrapping code fence, leading answer labels
// (including the "Text:" and "Summary:" labels of the prompt templates), a
// trailing note paragraph and wrapping quotes.
func Clean(text string) string {
	text = strings.TrimSpace(text)
	for _, step := range steps {
		text = strings.TrimSpace(step(text))
	}
	return text
}

// RE2 has no backreferences, so each tag pair is listed.
var (
	thinkingBlockRe = regexp.MustCompile(
		`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
	)
	// An opening tag whose block was cut off by max_tokens.
	truncatedThinkingRe = regexp.MustCompile(`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`)
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	return truncatedThinkingRe.ReplaceAllString(text, "")
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:[A-Za-z0-9_-]*[ \\t]*\\n)?(.*?)\\n?```$")

func removeCodeFence(text string) string {
	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// echoPatterns are anchored at the start and need a colon.
var echoPatterns = []*regexp.Regexp{
	// Here is / Here's [the] [translated] translation:
	regexp.MustCompile(`(?i)^(?:(?:certainly|sure|of course)[,.!]?\s+)?here(?:'s| is)(?: the| your)? (?:refined |polished |translated |formal |poetic |romantic )?(?:translation|text|summary)\s*:`),
	// [The] translation: / Translated text:
	regexp.MustCompile(`(?i)^(?:the )?(?:refined |polished )?(?:translation|translated text)\s*:`),
	// Translation into German: / German translation: / Formal translation:
	regexp.MustCompile(`(?i)^(?:translation (?:in|into|to) [a-z]+|[a-z]+ translation)\s*:`),
	// Labels the templates end with.
	regexp.MustCompile(`(?i)^(?:text|summary|translation and summary)\s*:`),
}

// removeInstructionEchoes drops leading labels until none is left, so a
// "Text:" echo followed by "Summary:" loses both.
func removeInstructionEchoes(text string) string {
	for stripped := true; stripped; {
		stripped = false
		for _, re := range echoPatterns {
			if loc := re.FindStringIndex(text); loc != nil {
				text = strings.TrimSpace(text[loc[1]:])
				stripped = true
			}
		}
	}
	return text
}

// trailingNoteRe matches a final paragraph of commentary, which every
// template asks the model to omit.
var trailingNoteRe = regexp.MustCompile(`(?is)\n\s*\n\s*\(?(?:note|notes|explanation|translator's note)\s*:.*$`)

func removeTrailingNotes(text string) string {
	return trailingNoteRe.ReplaceAllString(text, "")
}

// quotePairs maps opening to closing quotes, including German „…“.
var quotePairs = map[rune]rune{
	'"':      '"',
	'\'':     '\'',
	'\u00AB': '\u00BB',
	'\u201C': '\u201D',
	'\u2018': '\u2019',
	'\u201E': '\u201C',
}

// removeQuoteWrapping strips one pair of outer quotes around the whole text.
func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}
	if closing, ok := quotePairs[runes[0]]; ok && runes[len(runes)-1] == closing {
		return string(runes[1 : len(runes)-1])
	}
	return text
}
