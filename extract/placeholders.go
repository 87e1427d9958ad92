package extract

// Bracketed placeholder markers returned in place of real content when
// a strategy chain is exhausted. Display layers key off these exact
// strings, so they are part of the output contract; the orchestrator
// additionally tags such results so machine consumers never need to
// sniff brackets.
const (
	PlaceholderPDFNoText = "[No text could be extracted from this PDF. It may be scanned, image-based, or protected.]"

	PlaceholderDocLegacy = "[DOC (legacy format) file detected. For best results, convert to DOCX format.]"
	PlaceholderDocFailed = "[Could not extract text from this document. It may be protected or corrupted.]"

	PlaceholderPPTLegacy = "[PPT (legacy format) file detected. For best results, convert to PPTX format.]"
	PlaceholderPPTNoText = "[No text found in this presentation. It may contain only images or other non-text elements.]"

	PlaceholderSheetFailed = "[Unsupported spreadsheet format or extraction failed.]"

	PlaceholderODFFailed = "[Could not extract text from ODF document. The file may be corrupted.]"

	PlaceholderImageNoOCR = "[Image file - OCR not enabled]"

	PlaceholderMSGFailed = "[Could not extract text from MSG file. The file may be corrupted or non-standard.]"
)
