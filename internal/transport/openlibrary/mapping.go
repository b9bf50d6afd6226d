package openlibrary

import (
	"regexp"
	"strings"
)

// iso639-2 to iso639-1. Unknown codes fall back to their first two letters.
var languageCodes = map[string]string{
	"eng": "en", "fre": "fr", "fra": "fr", "spa": "es", "ita": "it",
	"por": "pt", "ger": "de", "deu": "de", "rus": "ru", "jpn": "ja",
	"chi": "zh", "zho": "zh", "kor": "ko", "tur": "tr", "ara": "ar",
	"hin": "hi", "urd": "ur", "per": "fa", "fas": "fa", "pes": "fa",
	"dan": "da", "nor": "no", "nob": "no", "fin": "fi", "swe": "sv",
	"nep": "ne", "bul": "bg", "rum": "ro", "ron": "ro", "ukr": "uk",
	"vie": "vi", "cat": "ca", "lat": "la", "heb": "he", "gre": "el",
	"ell": "el", "gla": "gd", "yid": "yi", "lit": "lt", "lav": "lv",
	"hun": "hu", "ice": "is", "isl": "is", "hrv": "hr", "gle": "ga",
	"afr": "af", "dut": "nl", "nld": "nl", "pol": "pl", "cze": "cs",
	"ces": "cs", "alb": "sq", "ben": "bn", "tam": "ta", "tel": "te",
	"mar": "mr", "tha": "th", "tib": "bo", "grc": "el", "kal": "kl",
	"ltz": "lb", "wel": "cy", "cym": "cy",
}

// convertLanguage maps a three-letter ISO 639-2 code to its two-letter form.
// An empty code defaults to "fr".
func convertLanguage(code string) string {
	if code == "" {
		return "fr"
	}
	code = strings.ToLower(code)
	if len(code) == 2 {
		return code
	}
	if short, ok := languageCodes[code]; ok {
		return short
	}
	if len(code) > 2 {
		return code[:2]
	}
	return code
}

var tagStopwords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "a": {}, "an": {}, "for": {}, "in": {},
	"on": {}, "to": {}, "from": {}, "with": {}, "without": {}, "into": {},
	"by": {}, "le": {}, "la": {}, "les": {}, "un": {}, "une": {}, "des": {},
	"et": {}, "dans": {}, "en": {}, "du": {}, "de": {}, "der": {}, "die": {},
	"das": {}, "und": {}, "el": {}, "los": {}, "las": {}, "y": {}, "del": {},
	"por": {},
}

var nonWordRE = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// generateTags derives tags from the title and subject list: lowercased tokens
// with punctuation and stopwords removed, deduplicated in order.
func generateTags(title string, subjects []string) []string {
	var tags []string
	seen := make(map[string]struct{})

	add := func(text string) {
		cleaned := nonWordRE.ReplaceAllString(strings.ToLower(text), " ")
		for _, token := range strings.Fields(cleaned) {
			if _, stop := tagStopwords[token]; stop {
				continue
			}
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			tags = append(tags, token)
		}
	}

	add(title)
	for _, subj := range subjects {
		add(subj)
	}
	return tags
}

var yearRE = regexp.MustCompile(`^\d{4}`)

// parseYear extracts a leading four-digit year from a date string, 0 when absent.
func parseYear(date string) int {
	m := yearRE.FindString(date)
	if m == "" {
		return 0
	}
	year := 0
	for _, r := range m {
		year = year*10 + int(r-'0')
	}
	return year
}
