// Package prompt builds the text sent to the language model.
package prompt

const (
	MaxTranscriptChars = 10000
	MaxSummaryChars    = 2500
	MaxQuestionChars   = 500
)

const summaryInstruction = "Summarize this video transcript in 3 paragraphs. " +
	"Focus on the main topic and conclusion. " +
	"List out the main points in list form which must be bullet list form. " +
	"Give significance to main points. " +
	"STAY ONLY ACCORDING TO THE TRANSCRIPT GIVEN AND NOTHING ELSE.\n\n"

// Refusal is the sentence the model is told to use for out-of-context
// questions. Nothing enforces it.
const Refusal = "I cannot answer this question as it is out of context."

const answerInstruction = "Answer the question of the user based off the summary. " +
	"Use the summary as the context. " +
	"List out the main points in list form which must be bullet list form. " +
	"The answer MUST STAY ONLY ACCORDING TO THE QUESTION GIVEN AND NOTHING ELSE. " +
	"If the user asks questions outside the context provided, response by saying: " +
	Refusal + " \n\n"

// Summary returns the summarization prompt for a transcript.
func Summary(transcript string) string {
	return summaryInstruction + Truncate(transcript, MaxTranscriptChars)
}

// Answer returns the question-answering prompt.
func Answer(summary, question string) string {
	return answerInstruction +
		"Summary: " + Truncate(summary, MaxSummaryChars) + "\n" +
		"Question: " + Truncate(question, MaxQuestionChars)
}

// Truncate keeps the first n characters of s, counting runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
