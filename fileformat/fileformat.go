// Package fileformat maps file paths to the format tags used to route
// extraction. Tags are lowercase extensions from a fixed supported-format
// table; unrecognized extensions fall back to content sniffing and
// finally to the sentinel "unknown".
package fileformat

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Unknown is the sentinel tag for files no table or sniffer resolves.
const Unknown = "unknown"

// supported groups every recognized extension by display category.
var supported = map[string][]string{
	"Documents":     {"pdf", "doc", "docx", "rtf", "odt", "txt"},
	"Images":        {"jpg", "jpeg", "png", "tiff", "tif", "bmp", "gif", "webp", "heic", "heif"},
	"Presentations": {"ppt", "pptx", "odp"},
	"Spreadsheets":  {"xls", "xlsx", "ods", "csv"},
	"Web":           {"html", "htm", "xml"},
	"Email":         {"eml", "msg"},
	"Ebooks":        {"epub"},
}

// extCategory is the inverted lookup, built once at init.
var extCategory = func() map[string]string {
	m := make(map[string]string)
	for cat, exts := range supported {
		for _, ext := range exts {
			m[ext] = cat
		}
	}
	return m
}()

// Detect returns the format tag for a file path. It first matches the
// lowercase extension against the supported-format table, then falls
// back to content-type sniffing mapped to a coarse tag, and finally
// returns Unknown. Detect never fails; an unreadable file simply cannot
// be sniffed and resolves to Unknown.
func Detect(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if _, ok := extCategory[ext]; ok {
		return ext
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return Unknown
	}
	return mapMIME(mt.String())
}

// mapMIME reduces a sniffed MIME type to one of the coarse routing tags.
func mapMIME(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "text/"):
		return "text"
	case strings.Contains(contentType, "pdf"):
		return "pdf"
	case strings.Contains(contentType, "msword"),
		strings.Contains(contentType, "vnd.openxmlformats-officedocument.wordprocessingml"):
		return "doc"
	case strings.Contains(contentType, "vnd.ms-powerpoint"),
		strings.Contains(contentType, "vnd.openxmlformats-officedocument.presentationml"):
		return "ppt"
	case strings.Contains(contentType, "vnd.ms-excel"),
		strings.Contains(contentType, "vnd.openxmlformats-officedocument.spreadsheetml"):
		return "xls"
	default:
		return Unknown
	}
}

// Supported returns a copy of the category table for display layers.
func Supported() map[string][]string {
	out := make(map[string][]string, len(supported))
	for cat, exts := range supported {
		out[cat] = append([]string(nil), exts...)
	}
	return out
}

// Category returns the display category for a tag, or "" if the tag is
// not in the supported table (coarse sniffed tags have no category).
func Category(tag string) string {
	return extCategory[strings.ToLower(tag)]
}

// IsImage reports whether the tag is one of the supported image formats.
func IsImage(tag string) bool {
	return extCategory[strings.ToLower(tag)] == "Images"
}
