//go:build !ocr

package capability

const gosseractCompiled = false
