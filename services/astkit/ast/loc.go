// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

// LocateTrailingComma finds the comma that terminates a list element.
//
// Description:
//
//	Scans code[start:end] for the first ',' that is not inside one of
//	comments. Reaching a closing '}' or ')' first means the element is the
//	last one without a trailing comma.
//
// Inputs:
//
//	code     - Source text. Offsets are byte offsets.
//	start    - First offset to inspect.
//	end      - Offset one past the last to inspect.
//	comments - Comments to skip over. May be nil.
//
// Outputs:
//
//	int - Offset of the comma, or -1.
func LocateTrailingComma(code string, start, end int, comments []Comment) int {
	if end > len(code) {
		end = len(code)
	}
	for i := max(start, 0); i < end; i++ {
		if inComment(i, comments) {
			continue
		}
		switch code[i] {
		case '}', ')':
			return -1
		case ',':
			return i
		}
	}
	return -1
}

func inComment(i int, comments []Comment) bool {
	for _, c := range comments {
		if i >= c.Start && i < c.End {
			return true
		}
	}
	return false
}
