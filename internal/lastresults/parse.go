package lastresults

import (
	"fmt"
	"strconv"
	"strings"
)

// maxRange bounds a single "a-b" range so a typo cannot allocate millions
// of numbers.
const maxRange = 10000

// ParseNumbers parses list numbers such as "2", "1,3", "4-6" or "1 3-5".
// Numbers are 1-indexed, returned in the order given with repeats dropped.
func ParseNumbers(input string) ([]int, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no numbers given", ErrInvalidNumber)
	}

	var nums []int
	seen := make(map[int]bool)
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			nums = append(nums, n)
		}
	}

	for _, field := range fields {
		lo, hi, err := parseField(field)
		if err != nil {
			return nil, err
		}
		// hi may be math.MaxInt, so stop on equality rather than n <= hi.
		for n := lo; ; n++ {
			add(n)
			if n == hi {
				break
			}
		}
	}
	return nums, nil
}

// parseField parses "n" as [n, n] and "a-b" as [a, b].
func parseField(field string) (int, int, error) {
	first, last, isRange := strings.Cut(field, "-")
	lo, err := parsePositive(first, field)
	if err != nil {
		return 0, 0, err
	}
	if !isRange {
		return lo, lo, nil
	}
	hi, err := parsePositive(last, field)
	if err != nil {
		return 0, 0, err
	}
	if hi < lo {
		return 0, 0, fmt.Errorf("%w: range %q runs backwards", ErrInvalidNumber, field)
	}
	if hi-lo >= maxRange {
		return 0, 0, fmt.Errorf("%w: range %q is too large", ErrInvalidNumber, field)
	}
	return lo, hi, nil
}

func parsePositive(s, field string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number or range", ErrInvalidNumber, field)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %d (numbers start at 1)", ErrInvalidNumber, n)
	}
	return n, nil
}

// ParseNumberArgs parses command arguments, each of which may hold several
// numbers.
func ParseNumberArgs(args []string) ([]int, error) {
	return ParseNumbers(strings.Join(args, ","))
}
