package game

import "sort"

// colIndexFor maps a number to its decade column (0: 1-9, 8: 80-90).
func colIndexFor(n int) int {
	if n <= 9 {
		return 0
	}
	if n >= 80 {
		return 8
	}
	return n / 10
}

// rangeForCol returns the inclusive numeric range of a column.
func rangeForCol(col int) (int, int) {
	switch col {
	case 0:
		return 1, 9
	case 8:
		return 80, 90
	default:
		return col * 10, col*10 + 9
	}
}

// GenerateCard produces a structurally valid card: 15 numbers banded
// over the 9 decade columns (1-3 per column), balanced onto 3 rows of
// 5, each row ordered by column then value. Always passes ValidateCard.
func GenerateCard(rng Rand) [][]int {
	for {
		if rows, ok := tryGenerateCard(rng); ok {
			return rows
		}
		// Row balancing can't actually fail with 9 columns of 1-3
		// cells summing to 15; regenerate anyway rather than trust it.
	}
}

func tryGenerateCard(rng Rand) ([][]int, bool) {
	// Cells per column: seed each with 1, scatter the 6 extra, max 3.
	counts := [9]int{1, 1, 1, 1, 1, 1, 1, 1, 1}
	remaining := 15 - 9
	for remaining > 0 {
		c := rng.Intn(9)
		if counts[c] < 3 {
			counts[c]++
			remaining--
		}
	}

	// Distinct numbers per column, ascending.
	used := make(map[int]struct{}, 15)
	var cols [9][]int
	for c := 0; c < 9; c++ {
		lo, hi := rangeForCol(c)
		for len(cols[c]) < counts[c] {
			n := randInt(rng, lo, hi)
			if _, taken := used[n]; !taken {
				used[n] = struct{}{}
				cols[c] = append(cols[c], n)
			}
		}
		sort.Ints(cols[c])
	}

	// Balance onto 3 rows: always the least-filled row with space,
	// lowest index on ties.
	rows := [][]int{{}, {}, {}}
	rowCount := [3]int{}
	for c := 0; c < 9; c++ {
		for _, n := range cols[c] {
			r := -1
			for i := 0; i < 3; i++ {
				if rowCount[i] >= 5 {
					continue
				}
				if r == -1 || rowCount[i] < rowCount[r] {
					r = i
				}
			}
			if r == -1 {
				return nil, false
			}
			rows[r] = append(rows[r], n)
			rowCount[r]++
		}
	}
	for _, count := range rowCount {
		if count != 5 {
			return nil, false
		}
	}

	for _, row := range rows {
		row := row
		sort.Slice(row, func(i, j int) bool {
			ci, cj := colIndexFor(row[i]), colIndexFor(row[j])
			if ci != cj {
				return ci < cj
			}
			return row[i] < row[j]
		})
	}
	return rows, true
}
