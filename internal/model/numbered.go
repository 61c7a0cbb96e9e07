package model

// Numbered pairs an item with its 1-based position in printed output, the
// number `rolo show 3` refers back to.
type Numbered[T any] struct {
	Num  int `json:"num"`
	Item T   `json:"item"`
}

// NumberedList numbers items from 1.
func NumberedList[T any](items []T) []Numbered[T] {
	out := make([]Numbered[T], 0, len(items))
	for i, item := range items {
		out = append(out, Numbered[T]{Num: i + 1, Item: item})
	}
	return out
}
