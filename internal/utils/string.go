package utils

import (
	"unicode/utf8"
)

// IsWordByte reports whether b belongs to a completable word: [A-Za-z0-9_].
func IsWordByte(b byte) bool {
	return b == '_' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}

// LeadingWord returns the maximal word run at the very start of s.
func LeadingWord(s string) string {
	i := 0
	for i < len(s) && IsWordByte(s[i]) {
		i++
	}
	return s[:i]
}

// TrailingWord returns the maximal word run at the very end of s.
func TrailingWord(s string) string {
	i := len(s)
	for i > 0 && IsWordByte(s[i-1]) {
		i--
	}
	return s[i:]
}

// FirstWord returns the first word run anywhere in s and its byte index.
// The index is -1 when s holds no word bytes.
func FirstWord(s string) (string, int) {
	start := -1
	for i := 0; i < len(s); i++ {
		if IsWordByte(s[i]) {
			start = i
			break
		}
	}
	if start < 0 {
		return "", -1
	}
	return LeadingWord(s[start:]), start
}

// ClampOffset clamps offset into [0, len(s)].
func ClampOffset(s string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(s) {
		return len(s)
	}
	return offset
}

// RuneToByteOffset converts a rune index into a byte offset in s.
// Indexes past the end map to len(s).
func RuneToByteOffset(s string, runeIdx int) int {
	if runeIdx <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == runeIdx {
			return i
		}
		n++
	}
	return len(s)
}

// ByteToRuneOffset converts a byte offset in s into a rune index.
// Offsets inside a multi-byte rune count that rune as not yet reached.
func ByteToRuneOffset(s string, byteOffset int) int {
	byteOffset = ClampOffset(s, byteOffset)
	return utf8.RuneCountInString(s[:byteOffset])
}
