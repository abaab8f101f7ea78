package dom

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16Length returns the length of a string in UTF-16 code units.
// Text offsets are counted in UTF-16 code units, as the DOM defines them,
// not in bytes or grapheme clusters.
func UTF16Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16RuneLen(r)
	}
	return n
}

// UTF16OffsetToByteOffset converts a UTF-16 code unit offset to a byte offset.
// Returns -1 if the offset is out of bounds or splits a surrogate pair.
func UTF16OffsetToByteOffset(s string, utf16Offset int) int {
	if utf16Offset < 0 {
		return -1
	}
	units := 0
	for i := 0; i < len(s); {
		if units == utf16Offset {
			return i
		}
		if units > utf16Offset {
			return -1
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		units += utf16RuneLen(r)
		i += size
	}
	if units == utf16Offset {
		return len(s)
	}
	return -1
}

// UTF16Substring extracts a substring using UTF-16 code unit offsets.
func UTF16Substring(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end < start {
		return ""
	}
	startByte := UTF16OffsetToByteOffset(s, start)
	if startByte < 0 {
		return ""
	}
	endByte := UTF16OffsetToByteOffset(s, end)
	if endByte < 0 {
		endByte = len(s)
	}
	return s[startByte:endByte]
}

func utf16RuneLen(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	// invalid UTF-8 decodes to U+FFFD
	return 1
}
