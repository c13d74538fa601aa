package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext_Continue(t *testing.T) {
	next := Continue(7)

	assert.False(t, next.Terminal())
	id, ok := next.QuestionID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestNext_Terminal(t *testing.T) {
	next := Terminal()

	assert.True(t, next.Terminal())
	_, ok := next.QuestionID()
	assert.False(t, ok)
}

func TestNext_ZeroValueIsTerminal(t *testing.T) {
	var next Next
	assert.True(t, next.Terminal())
}

func TestNextFromID(t *testing.T) {
	assert.True(t, nextFromID(0).Terminal())
	assert.False(t, nextFromID(3).Terminal())
}

func TestQuestion_FreeText(t *testing.T) {
	cases := []struct {
		name     string
		options  []Option
		freeText bool
	}{
		{"no options", nil, false},
		{"single marker option", []Option{{Key: "opt.next", Next: Continue(2)}}, true},
		{"fixed choice", []Option{{Key: "a"}, {Key: "b"}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Question{ID: 1, Key: "q", Options: tc.options}
			assert.Equal(t, tc.freeText, q.FreeText())
		})
	}
}
