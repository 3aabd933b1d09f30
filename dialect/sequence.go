package dialect

import (
	"github.com/ava12/syntaxdoc/model"
)

// Sequence joins source elements of an alternative. Empty elements are dropped, nested sequences
// are flattened. Soft line breaks separate source elements, default ones separate items
// of a nested sequence.
func Sequence(elements []model.Content) model.Content {
	var items []model.Content
	var breaks []model.LineBreak

	for _, c := range elements {
		if model.IsEmpty(c) {
			continue
		}

		sub := []model.Content{c}
		if s, ok := c.(*model.Sequence); ok {
			sub = s.Items
		}
		for i, item := range sub {
			if len(items) > 0 {
				if i == 0 {
					breaks = append(breaks, model.LineBreakSoft)
				} else {
					breaks = append(breaks, model.LineBreakDefault)
				}
			}
			items = append(items, item)
		}
	}

	return model.NewSequence(items, breaks)
}
