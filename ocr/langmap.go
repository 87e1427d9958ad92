package ocr

// Tesseract and ISO-639-1 use different language vocabularies; requests
// may carry either. Unmapped codes pass through unchanged.
var isoToTesseract = map[string]string{
	"en": "eng",
	"fr": "fra",
	"de": "deu",
	"es": "spa",
	"it": "ita",
	"pt": "por",
	"zh": "chi_sim",
	"ja": "jpn",
	"ko": "kor",
}

var tesseractToISO = func() map[string]string {
	m := make(map[string]string, len(isoToTesseract))
	for iso, tess := range isoToTesseract {
		m[tess] = iso
	}
	return m
}()

// NormalizeTesseract converts a language code to the Tesseract
// vocabulary. Codes already in Tesseract form, and unmapped codes, pass
// through.
func NormalizeTesseract(lang string) string {
	if lang == "" {
		return "eng"
	}
	if t, ok := isoToTesseract[lang]; ok {
		return t
	}
	return lang
}

// NormalizeISO converts a language code to ISO-639-1 form where a
// mapping exists; unmapped codes pass through.
func NormalizeISO(lang string) string {
	if lang == "" {
		return "en"
	}
	if iso, ok := tesseractToISO[lang]; ok {
		return iso
	}
	return lang
}
