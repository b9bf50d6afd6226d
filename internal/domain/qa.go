package domain

// DefaultTopK is the number of sections retrieved when the caller does not
// specify top_k.
const DefaultTopK = 3

// SourceNote is the fixed provenance disclosure attached to every answer:
// answers come from derived summaries and metadata, never from reproduced
// copyrighted text.
const SourceNote = "Réponse générée à partir de résumés et de métadonnées, " +
	"sans reproduction du texte original protégé par le droit d'auteur."

// QARequest is an ephemeral question-answering request. A nil BookID means no
// explicit book was chosen; any supplied id, including zero, is looked up as
// given. An empty TitleHint means no hint was given.
type QARequest struct {
	Question  string
	BookID    *int
	TitleHint string
	TopK      int
}

// QAAnswer is the ephemeral answer to a QARequest. Confidence is the cosine
// similarity of the best-matching section, clamped to [0, 1].
type QAAnswer struct {
	Answer     string
	BookID     int
	BookTitle  string
	Confidence float64
	SourceNote string
}
