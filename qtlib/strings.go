package qtlib

import "unicode/utf16"

// StringFromUTF16 copies QString code units into a Go string.
// Unpaired surrogates are replaced with U+FFFD.
func StringFromUTF16(units []uint16) string {
	if len(units) == 0 {
		return ""
	}
	return string(utf16.Decode(units))
}

// StringToUTF16 encodes a Go string as the code units used to construct a QString.
func StringToUTF16(value string) []uint16 {
	if value == "" {
		return nil
	}
	return utf16.Encode([]rune(value))
}
