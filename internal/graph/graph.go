package graph

import (
	"context"
	"errors"
)

// FirstQuestionID is the entry node of the questionnaire.
const FirstQuestionID int64 = 1

var ErrNotFound = errors.New("graph: not found")

// Question is a node of the question graph. Options are in display order.
type Question struct {
	ID      int64
	Key     string
	Options []Option
}

// FreeText reports whether the question takes the user's raw message as the
// answer instead of presenting buttons. Such a question carries exactly one
// pass-through option whose key is never shown.
func (q Question) FreeText() bool {
	return len(q.Options) == 1
}

// Option is an edge of the question graph.
type Option struct {
	Key  string
	Next Next
}

// Next says where an option leads: either on to another question or to the
// end of the conversation. The zero value is terminal.
type Next struct {
	questionID int64
}

func Continue(questionID int64) Next { return Next{questionID: questionID} }

func Terminal() Next { return Next{} }

// QuestionID returns the target question id, with ok=false when the option
// is terminal.
func (n Next) QuestionID() (int64, bool) {
	if n.questionID == 0 {
		return 0, false
	}
	return n.questionID, true
}

func (n Next) Terminal() bool { return n.questionID == 0 }

// Store reads the question graph. The graph is immutable while conversations
// run; a reference that does not resolve is ErrNotFound.
type Store interface {
	QuestionByID(ctx context.Context, id int64) (Question, error)
	QuestionByKey(ctx context.Context, key string) (Question, error)
	OptionsOf(ctx context.Context, questionID int64) ([]Option, error)
	OptionByKey(ctx context.Context, key string) (Option, error)
}
