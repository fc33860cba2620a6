package scenario

import "fmt"

// scanBrackets verifies that every bracket-delimited voice/emotion directive
// in the text is well formed: each '[' is closed by a ']' before the next one
// opens, and no ']' appears without an opener. Downstream rendering
// highlights bracketed spans, so an unterminated tag would corrupt the
// highlighted region.
func scanBrackets(text string) error {
	depth := 0
	openAt := -1
	for i, r := range text {
		switch r {
		case '[':
			if depth > 0 {
				return fmt.Errorf("nested '[' at offset %d inside tag opened at offset %d", i, openAt)
			}
			depth++
			openAt = i
		case ']':
			if depth == 0 {
				return fmt.Errorf("']' at offset %d without matching '['", i)
			}
			depth--
		}
	}
	if depth != 0 {
		return fmt.Errorf("unterminated '[' at offset %d", openAt)
	}
	return nil
}
