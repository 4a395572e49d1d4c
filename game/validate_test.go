package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCard(t *testing.T) {
	tests := []struct {
		name    string
		numbers [][]int
		wantErr error
	}{
		{
			name: "valid card",
			numbers: [][]int{
				{1, 10, 20, 30, 40},
				{2, 11, 21, 31, 41},
				{3, 12, 22, 32, 42},
			},
			wantErr: nil,
		},
		{
			name: "two rows",
			numbers: [][]int{
				{1, 10, 20, 30, 40},
				{2, 11, 21, 31, 41},
			},
			wantErr: ErrCardRows,
		},
		{
			name: "four rows",
			numbers: [][]int{
				{1, 10, 20, 30, 40},
				{2, 11, 21, 31, 41},
				{3, 12, 22, 32, 42},
				{4, 13, 23, 33, 43},
			},
			wantErr: ErrCardRows,
		},
		{
			name: "short row",
			numbers: [][]int{
				{1, 10, 20, 30},
				{2, 11, 21, 31, 41},
				{3, 12, 22, 32, 42},
			},
			wantErr: ErrCardRowLength,
		},
		{
			name: "long row",
			numbers: [][]int{
				{1, 10, 20, 30, 40, 50},
				{2, 11, 21, 31, 41},
				{3, 12, 22, 32, 42},
			},
			wantErr: ErrCardRowLength,
		},
		{
			name: "zero out of range",
			numbers: [][]int{
				{0, 10, 20, 30, 40},
				{2, 11, 21, 31, 41},
				{3, 12, 22, 32, 42},
			},
			wantErr: ErrCardRange,
		},
		{
			name: "above ninety",
			numbers: [][]int{
				{1, 10, 20, 30, 91},
				{2, 11, 21, 31, 41},
				{3, 12, 22, 32, 42},
			},
			wantErr: ErrCardRange,
		},
		{
			name: "duplicate across rows",
			numbers: [][]int{
				{1, 10, 20, 30, 40},
				{2, 11, 21, 31, 41},
				{1, 12, 22, 32, 42},
			},
			wantErr: ErrCardDuplicates,
		},
		{
			name: "duplicate within a row",
			numbers: [][]int{
				{1, 1, 20, 30, 40},
				{2, 11, 21, 31, 41},
				{3, 12, 22, 32, 42},
			},
			wantErr: ErrCardDuplicates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCard(tt.numbers)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCardRangeBeforeDuplicates(t *testing.T) {
	// Range is checked before uniqueness: a card that breaks both
	// reports the range failure.
	numbers := [][]int{
		{91, 91, 20, 30, 40},
		{2, 11, 21, 31, 41},
		{3, 12, 22, 32, 42},
	}
	assert.ErrorIs(t, ValidateCard(numbers), ErrCardRange)
}
