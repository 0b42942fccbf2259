package main

// globMatch ports stringmatchlen() from original_source/redis.c
// byte-for-byte, case-sensitive only (spec.md §4.5's KEYS never asks for
// the C function's nocase mode). pattern and s are walked with index
// cursors standing in for the original's pointer-advance/length-decrement
// pairs.
func globMatch(pattern, s string) bool {
	pi, si := 0, 0
	pl, sl := len(pattern), len(s)

	for pl > 0 {
		switch pattern[pi] {
		case '*':
			for pl > 1 && pattern[pi+1] == '*' {
				pi++
				pl--
			}
			if pl == 1 {
				return true
			}
			for sl > 0 {
				if globMatch(pattern[pi+1:pi+pl], s[si:si+sl]) {
					return true
				}
				si++
				sl--
			}
			return false

		case '?':
			if sl == 0 {
				return false
			}
			si++
			sl--

		case '[':
			pi++
			pl--
			var not, match bool
			if pl > 0 && pattern[pi] == '^' {
				not = true
				pi++
				pl--
			}
			for {
				if pl == 0 {
					pi--
					pl++
					break
				}
				if pattern[pi] == '\\' {
					pi++
					pl--
					if pl > 0 && sl > 0 && pattern[pi] == s[si] {
						match = true
					}
				} else if pattern[pi] == ']' {
					break
				} else if pl >= 3 && pattern[pi+1] == '-' {
					start, end := pattern[pi], pattern[pi+2]
					if start > end {
						start, end = end, start
					}
					if sl > 0 {
						c := s[si]
						if c >= start && c <= end {
							match = true
						}
					}
					pi += 2
					pl -= 2
				} else {
					if sl > 0 && pattern[pi] == s[si] {
						match = true
					}
				}
				pi++
				pl--
			}
			if not {
				match = !match
			}
			if !match {
				return false
			}
			si++
			sl--

		case '\\':
			if pl >= 2 {
				pi++
				pl--
			}
			fallthrough

		default:
			if sl == 0 || pattern[pi] != s[si] {
				return false
			}
			si++
			sl--
		}
		pi++
		pl--
		if sl == 0 {
			for pl > 0 && pattern[pi] == '*' {
				pi++
				pl--
			}
			break
		}
	}
	return pl == 0 && sl == 0
}
