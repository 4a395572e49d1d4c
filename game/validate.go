package game

import "errors"

// Card validation failure reasons, in check order.
var (
	ErrCardRows       = errors.New("a card must have exactly 3 rows")
	ErrCardRowLength  = errors.New("each row must have exactly 5 numbers")
	ErrCardRange      = errors.New("numbers must be between 1 and 90")
	ErrCardDuplicates = errors.New("no duplicate numbers within the same card")
)

// ValidateCard checks a candidate card's shape and contents. Checks
// short-circuit in order: row count, row length, range, uniqueness
// across all 15 entries. Integrality is guaranteed by the type.
func ValidateCard(numbers [][]int) error {
	if len(numbers) != 3 {
		return ErrCardRows
	}
	for _, row := range numbers {
		if len(row) != 5 {
			return ErrCardRowLength
		}
	}
	seen := make(map[int]struct{}, 15)
	for _, row := range numbers {
		for _, n := range row {
			if n < 1 || n > 90 {
				return ErrCardRange
			}
		}
	}
	for _, row := range numbers {
		for _, n := range row {
			if _, dup := seen[n]; dup {
				return ErrCardDuplicates
			}
			seen[n] = struct{}{}
		}
	}
	return nil
}
