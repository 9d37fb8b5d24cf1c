package changedetect

import (
	"fmt"
	"strconv"
	"strings"
)

// maxDiffCells bounds the O(len(old)*len(new)) LCS table. Above this, the
// diff is treated the same way spec §4.3 treats a failing diff engine: fall
// back to "1-EOF" rather than spend unbounded time/memory on one tool call.
const maxDiffCells = 4_000_000

// ChangedLineRanges compares old and new file content and returns the
// changed line numbers (1-indexed, on the new side) compressed into a
// comma-separated list of closed ranges, e.g. "2,4-6". See spec §4.3 for
// the edge-case policy this function implements verbatim.
func ChangedLineRanges(old, new string) (result string) {
	if old == "" && new == "" {
		return "1-EOF"
	}

	defer func() {
		if recover() != nil {
			result = "1-EOF"
		}
	}()

	oldLines := splitLines(old)
	newLines := splitLines(new)

	if len(oldLines)*len(newLines) > maxDiffCells {
		return "1-EOF"
	}

	changed := changedNewLineNumbers(oldLines, newLines)
	if len(changed) == 0 {
		if len(newLines) == 0 {
			return "1-EOF"
		}
		return fmt.Sprintf("1-%d", len(newLines))
	}

	return compressRanges(changed)
}

// splitLines mimics Python's str.splitlines(keepends=False): content is
// split on "\n" and a single trailing empty element (from a trailing
// newline) is dropped.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// changedNewLineNumbers runs an LCS alignment between oldLines and
// newLines and returns the 1-indexed line numbers on the new side that are
// NOT part of the longest common subsequence — i.e. inserted or changed
// lines.
func changedNewLineNumbers(oldLines, newLines []string) []int {
	m, n := len(oldLines), len(newLines)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if oldLines[i-1] == newLines[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	matchedNew := make(map[int]bool, n)
	i, j := m, n
	for i > 0 && j > 0 {
		switch {
		case oldLines[i-1] == newLines[j-1] && dp[i][j] == dp[i-1][j-1]+1:
			matchedNew[j-1] = true
			i--
			j--
		case dp[i-1][j] >= dp[i][j-1]:
			i--
		default:
			j--
		}
	}

	var changed []int
	for k := 0; k < n; k++ {
		if !matchedNew[k] {
			changed = append(changed, k+1)
		}
	}
	return changed
}

// compressRanges renders ascending, already-sorted line numbers as
// comma-separated closed ranges, e.g. [2,4,5,6] -> "2,4-6".
func compressRanges(nums []int) string {
	var parts []string
	i := 0
	for i < len(nums) {
		start := nums[i]
		end := start
		for i+1 < len(nums) && nums[i+1] == end+1 {
			i++
			end = nums[i]
		}
		if start == end {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, end))
		}
		i++
	}
	return strings.Join(parts, ",")
}
