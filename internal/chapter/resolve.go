package chapter

// ResolveRanges computes the [start, end) range of every chapter in the
// submission list. The end of a chapter is the start of the next chapter
// that belongs to the same source file anywhere later in the list, or the
// file's total duration when none exists. The scan deliberately covers the
// whole list rather than one file's slice: callers may reorder or filter
// chapters across files before submission, so only SourceFile identity is
// trustworthy.
//
// Negative start times clamp to zero and an end that would invert the range
// clamps to the start.
func ResolveRanges(chapters []Chapter, totalDurations map[string]float64) []Chapter {
	resolved := make([]Chapter, len(chapters))
	copy(resolved, chapters)

	for i := range resolved {
		if resolved[i].StartTime < 0 {
			resolved[i].StartTime = 0
		}

		end, found := nextStartInFile(resolved, i)
		if !found {
			end = totalDurations[resolved[i].SourceFile]
		}
		if end < resolved[i].StartTime {
			end = resolved[i].StartTime
		}
		resolved[i].EndTime = end
	}
	return resolved
}

func nextStartInFile(chapters []Chapter, index int) (float64, bool) {
	for j := index + 1; j < len(chapters); j++ {
		if chapters[j].SourceFile == chapters[index].SourceFile {
			start := chapters[j].StartTime
			if start < 0 {
				start = 0
			}
			return start, true
		}
	}
	return 0, false
}
