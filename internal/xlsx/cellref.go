package xlsx

// ColumnLetter converts a 1-based column index to its spreadsheet letters
// using bijective base-26 encoding: 1 -> "A", 26 -> "Z", 27 -> "AA".
func ColumnLetter(index int) string {
	var buf [8]byte
	n := len(buf)
	for index > 0 {
		index--
		n--
		buf[n] = byte('A' + index%26)
		index /= 26
	}
	return string(buf[n:])
}

// ColumnIndex decodes the leading alphabetic run of a cell reference such as
// "C7" back to its 1-based column index. A reference with no letters decodes
// to column 1 so that a malformed cell never aborts a whole-sheet parse.
func ColumnIndex(ref string) int {
	index := 0
	for i := 0; i < len(ref); i++ {
		ch := ref[i]
		switch {
		case ch >= 'A' && ch <= 'Z':
			index = index*26 + int(ch-'A') + 1
		case ch >= 'a' && ch <= 'z':
			index = index*26 + int(ch-'a') + 1
		default:
			if index == 0 {
				return 1
			}
			return index
		}
	}
	if index == 0 {
		return 1
	}
	return index
}
