package qa

import "strings"

// maxExcerptChars caps each summary excerpt included in the prompt. Longer
// texts are cut and marked with an ellipsis.
const maxExcerptChars = 600

const excerptSeparator = "\n\n---\n\n"

const promptHeader = "Tu es un assistant littéraire. Tu n'as accès qu'à des résumés dérivés " +
	"d'un livre (pas au texte original). Tu dois respecter le droit d'auteur : " +
	"ne copie jamais de longs passages textuels et ne tente pas de reconstituer " +
	"le texte original.\n\n"

const promptFooter = "Réponds en français, de façon claire et concise (5 à 10 lignes)."

// buildPrompt assembles the generation prompt from the book title, the
// question and the retrieved summary excerpts.
func buildPrompt(question, bookTitle string, excerpts []string) string {
	parts := make([]string, len(excerpts))
	for i, text := range excerpts {
		parts[i] = truncateExcerpt(text)
	}
	context := strings.Join(parts, excerptSeparator)

	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("Livre : " + bookTitle + "\n\n")
	b.WriteString("Contexte (résumés dérivés) :\n" + context + "\n\n")
	b.WriteString("Question : " + question + "\n\n")
	b.WriteString(promptFooter)
	return b.String()
}

// truncateExcerpt counts characters, not bytes, so accented French text keeps
// its full allowance and a cut never splits a rune.
func truncateExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) > maxExcerptChars {
		return string(runes[:maxExcerptChars]) + "..."
	}
	return text
}
