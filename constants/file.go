package constants

import "strings"

// AllowedExtensions holds the file extensions the pipeline will pick up when
// scanning an input directory.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFExt reports whether ext (with or without dot) names a PDF file.
func IsPDFExt(ext string) bool {
	return NormalizeExt(ext) == "pdf"
}
