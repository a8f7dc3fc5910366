package script

import (
	"context"

	"github.com/kasuganosora/aitoolkit/bt"
	"github.com/kasuganosora/aitoolkit/utility"
)

// Condition returns a behavior tree leaf whose predicate is a script.
// bind extracts the blackboard accessors for the current tick. Script
// errors are treated as a false condition.
func Condition[T any](sb *Sandbox, src string, bind func(*T) *Binding) bt.Node[T] {
	return &bt.ConditionNode[T]{Fn: func(bb *T) bool {
		ok, err := sb.Check(context.Background(), src, bind(bb))
		return err == nil && ok
	}}
}

// Task returns a behavior tree leaf that executes a script. A falsy result
// or a script error reads as Failure, anything else as Success.
func Task[T any](sb *Sandbox, src string, bind func(*T) *Binding) bt.Node[T] {
	return &bt.ActionNode[T]{Fn: func(bb *T) bt.Status {
		ok, err := sb.Check(context.Background(), src, bind(bb))
		if err != nil || !ok {
			return bt.StatusFailure
		}
		return bt.StatusSuccess
	}}
}

// UtilityAction returns a utility action whose score and effect are scripts.
// A score script error reads as a zero score.
func UtilityAction[T any](sb *Sandbox, scoreSrc, applySrc string, bind func(*T) *Binding) utility.Action[T] {
	return &scriptedUtilityAction[T]{sb: sb, scoreSrc: scoreSrc, applySrc: applySrc, bind: bind}
}

type scriptedUtilityAction[T any] struct {
	sb       *Sandbox
	scoreSrc string
	applySrc string
	bind     func(*T) *Binding
}

func (a *scriptedUtilityAction[T]) Score(bb T) float64 {
	score, err := a.sb.Score(context.Background(), a.scoreSrc, a.bind(&bb))
	if err != nil {
		return 0
	}
	return score
}

func (a *scriptedUtilityAction[T]) Apply(bb *T) {
	_, _ = a.sb.Eval(context.Background(), a.applySrc, a.bind(bb))
}
