package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Apply(t *testing.T) {
	s := Snapshot{
		{ID: "regular", Format: "Barre", Teacher: "Anisha Shah", Day: Monday, Location: "Kenkere House"},
		{ID: "top", Format: "HIIT", Teacher: "Rhea Kapoor", Day: Monday, IsTopPerformer: true, Location: "Supreme HQ, Bandra"},
		{ID: "private", Format: "Pilates", Teacher: Unassigned, Day: Tuesday, IsPrivate: true},
	}

	ids := func(s Snapshot) []string {
		out := make([]string, 0, len(s))
		for _, c := range s {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []string{"regular", "top", "private"}, ids(Filter{}.Apply(s)))
	assert.Equal(t, []string{"regular", "private"}, ids(Filter{HideTopPerformers: true}.Apply(s)))
	assert.Equal(t, []string{"top", "private"}, ids(Filter{HideRegular: true}.Apply(s)))
	assert.Equal(t, []string{"regular"}, ids(Filter{Teacher: "anisha"}.Apply(s)))
	assert.Equal(t, []string{"private"}, ids(Filter{Teacher: "unassigned"}.Apply(s)))
	assert.Equal(t, []string{"top"}, ids(Filter{Format: "hiit"}.Apply(s)))
	assert.Equal(t, []string{"private"}, ids(Filter{Day: Tuesday}.Apply(s)))
	assert.Equal(t, []string{"top"}, ids(Filter{Location: "bandra"}.Apply(s)))
}
