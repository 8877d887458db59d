// Package match implements Ant-style path pattern matching for include regions.
//
// Semantics: '?' matches exactly one character except the separator, '*'
// matches any run of characters except the separator, and a '**' segment
// matches any number of whole path segments. Matching is case-sensitive,
// anchored (the whole path must match), and uses '/' as the separator.
// All functions are pure and safe for concurrent use.
package match

import "strings"

// Matches reports whether path matches the Ant-style pattern.
// A pattern ending in "/" is shorthand for pattern + "**".
func Matches(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/") {
		pattern += "**"
	}

	patSegs := splitSegments(pattern)
	pathSegs := splitSegments(path)
	return matchSegments(patSegs, pathSegs)
}

// MatchesAny reports whether path matches at least one of the patterns,
// testing them in input order and short-circuiting on the first match.
func MatchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if Matches(pattern, path) {
			return true
		}
	}
	return false
}

// splitSegments splits a slash-separated path into its segments,
// dropping empty segments produced by leading or doubled slashes.
func splitSegments(s string) []string {
	parts := strings.Split(s, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// matchSegments matches pattern segments against path segments, handling
// '**' segments that span any number of directories. The shape follows the
// classic three-phase algorithm: consume literal segments from the front up
// to the first '**', then from the back up to the last '**', then place the
// groups between consecutive '**' anywhere in the remaining path.
func matchSegments(pat, path []string) bool {
	patStart, patEnd := 0, len(pat)-1
	pathStart, pathEnd := 0, len(path)-1

	// Front: literal segments before the first '**'.
	for patStart <= patEnd && pathStart <= pathEnd {
		if pat[patStart] == "**" {
			break
		}
		if !matchSegment(pat[patStart], path[pathStart]) {
			return false
		}
		patStart++
		pathStart++
	}

	if pathStart > pathEnd {
		// Path exhausted: any remaining pattern segments must all be '**'.
		return allDoubleStar(pat[patStart : patEnd+1])
	}
	if patStart > patEnd {
		// Pattern exhausted but path is not.
		return false
	}

	// Back: literal segments after the last '**'.
	for patStart <= patEnd && pathStart <= pathEnd {
		if pat[patEnd] == "**" {
			break
		}
		if !matchSegment(pat[patEnd], path[pathEnd]) {
			return false
		}
		patEnd--
		pathEnd--
	}

	if pathStart > pathEnd {
		return allDoubleStar(pat[patStart : patEnd+1])
	}

	// Middle: groups of literal segments between consecutive '**' may float
	// to any position in the remaining path.
	for patStart != patEnd && pathStart <= pathEnd {
		next := -1
		for i := patStart + 1; i <= patEnd; i++ {
			if pat[i] == "**" {
				next = i
				break
			}
		}
		if next == patStart+1 {
			// '**/**' collapses to '**'.
			patStart++
			continue
		}

		groupLen := next - patStart - 1
		avail := pathEnd - pathStart + 1
		found := -1
	search:
		for i := 0; i <= avail-groupLen; i++ {
			for j := 0; j < groupLen; j++ {
				if !matchSegment(pat[patStart+j+1], path[pathStart+i+j]) {
					continue search
				}
			}
			found = pathStart + i
			break
		}
		if found == -1 {
			return false
		}

		patStart = next
		pathStart = found + groupLen
	}

	return allDoubleStar(pat[patStart : patEnd+1])
}

// allDoubleStar reports whether every segment is '**'.
func allDoubleStar(segs []string) bool {
	for _, s := range segs {
		if s != "**" {
			return false
		}
	}
	return true
}

// matchSegment matches one pattern segment containing '*' and '?' wildcards
// against one path segment, using iterative star backtracking.
func matchSegment(pattern, segment string) bool {
	if pattern == "**" {
		return true
	}

	pIdx, sIdx := 0, 0
	starPattern, starSegment := -1, 0

	for sIdx < len(segment) {
		if pIdx < len(pattern) && (pattern[pIdx] == '?' || pattern[pIdx] == segment[sIdx]) {
			pIdx++
			sIdx++
			continue
		}

		if pIdx < len(pattern) && pattern[pIdx] == '*' {
			starPattern = pIdx
			pIdx++
			starSegment = sIdx
			continue
		}

		if starPattern >= 0 {
			// Mismatch after a star: let the star consume one more byte.
			pIdx = starPattern + 1
			starSegment++
			sIdx = starSegment
			continue
		}

		return false
	}

	for pIdx < len(pattern) && pattern[pIdx] == '*' {
		pIdx++
	}

	return pIdx == len(pattern)
}
