package script

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kasuganosora/aitoolkit/bt"
	"github.com/kasuganosora/aitoolkit/utility"
)

func newTestSandbox(t *testing.T) *Sandbox {
	t.Helper()
	return NewSandbox(2, 200*time.Millisecond, zap.NewNop())
}

func TestSandboxBasicArithmetic(t *testing.T) {
	sb := newTestSandbox(t)
	out, err := sb.Eval(context.Background(), "1 + 2", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out)
}

func TestSandboxNullAndUndefined(t *testing.T) {
	sb := newTestSandbox(t)

	out, err := sb.Eval(context.Background(), "null", nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = sb.Eval(context.Background(), "undefined", nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestSandboxSyntaxError(t *testing.T) {
	sb := newTestSandbox(t)
	_, err := sb.Eval(context.Background(), "{{{{ broken", nil)
	assert.Error(t, err)
}

func TestSandboxRuntimeException(t *testing.T) {
	sb := newTestSandbox(t)
	_, err := sb.Eval(context.Background(), `throw new Error("boom")`, nil)
	assert.Error(t, err)
}

func TestSandboxTimeout(t *testing.T) {
	sb := NewSandbox(1, 50*time.Millisecond, zap.NewNop())
	_, err := sb.Eval(context.Background(), `while(true){}`, nil)
	assert.True(t, errors.Is(err, ErrTimeout), "expected ErrTimeout, got %v", err)

	// The tainted VM was replaced; the pool still works.
	out, err := sb.Eval(context.Background(), "40 + 2", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), out)
}

func TestSandboxBlackboardBinding(t *testing.T) {
	sb := newTestSandbox(t)
	store := map[string]interface{}{"hp": int64(30), "max_hp": int64(100)}
	b := &Binding{
		Get: func(key string) interface{} { return store[key] },
		Set: func(key string, v interface{}) { store[key] = v },
	}

	out, err := sb.Eval(context.Background(), `$bb.get("hp") < $bb.get("max_hp") / 2`, b)
	require.NoError(t, err)
	assert.Equal(t, true, out)

	_, err = sb.Eval(context.Background(), `$bb.set("fleeing", true)`, b)
	require.NoError(t, err)
	assert.Equal(t, true, store["fleeing"])
}

func TestSandboxCheckCoercion(t *testing.T) {
	sb := newTestSandbox(t)
	cases := []struct {
		src  string
		want bool
	}{
		{"true", true},
		{"false", false},
		{"1", true},
		{"0", false},
		{`"x"`, true},
		{`""`, false},
		{"null", false},
	}
	for _, tc := range cases {
		got, err := sb.Check(context.Background(), tc.src, nil)
		require.NoError(t, err, tc.src)
		assert.Equal(t, tc.want, got, tc.src)
	}
}

func TestSandboxScore(t *testing.T) {
	sb := newTestSandbox(t)
	store := map[string]interface{}{"hunger": int64(7)}
	b := &Binding{Get: func(key string) interface{} { return store[key] }}

	score, err := sb.Score(context.Background(), `$bb.get("hunger") * 10`, b)
	require.NoError(t, err)
	assert.Equal(t, 70.0, score)
}

func TestSandboxDeterministicRandom(t *testing.T) {
	sb := newTestSandbox(t)
	out, err := sb.Eval(context.Background(), "Math.random()", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out)
}

// ---- Scripted behavior tree leaves ----

type guardBB struct {
	HP    int
	MaxHP int
	Fled  bool
}

func bindGuard(bb *guardBB) *Binding {
	return &Binding{
		Get: func(key string) interface{} {
			switch key {
			case "hp":
				return bb.HP
			case "max_hp":
				return bb.MaxHP
			}
			return nil
		},
		Set: func(key string, v interface{}) {
			if key == "fled" {
				bb.Fled = v == true
			}
		},
	}
}

func TestScriptedConditionLeaf(t *testing.T) {
	sb := newTestSandbox(t)
	lowHP := Condition[guardBB](sb, `$bb.get("hp") < $bb.get("max_hp") / 2`, bindGuard)

	bb := guardBB{HP: 10, MaxHP: 100}
	assert.Equal(t, bt.StatusSuccess, lowHP.Tick(&bb))

	bb.HP = 90
	assert.Equal(t, bt.StatusFailure, lowHP.Tick(&bb))
}

func TestScriptedTaskLeaf(t *testing.T) {
	sb := newTestSandbox(t)
	flee := Task[guardBB](sb, `$bb.set("fled", true); true`, bindGuard)

	bb := guardBB{HP: 5, MaxHP: 100}
	assert.Equal(t, bt.StatusSuccess, flee.Tick(&bb))
	assert.True(t, bb.Fled)
}

func TestScriptedConditionErrorIsFalse(t *testing.T) {
	sb := newTestSandbox(t)
	broken := Condition[guardBB](sb, `{{{ nope`, bindGuard)

	bb := guardBB{}
	assert.Equal(t, bt.StatusFailure, broken.Tick(&bb))
}

// ---- Scripted utility actions ----

type needsBB struct {
	Hunger int
	Energy int
	Did    string
}

func bindNeeds(bb *needsBB) *Binding {
	return &Binding{
		Get: func(key string) interface{} {
			switch key {
			case "hunger":
				return bb.Hunger
			case "energy":
				return bb.Energy
			}
			return nil
		},
		Set: func(key string, v interface{}) {
			if key == "did" {
				if s, ok := v.(string); ok {
					bb.Did = s
				}
			}
		},
	}
}

func TestScriptedUtilityActions(t *testing.T) {
	sb := newTestSandbox(t)
	eat := UtilityAction[needsBB](sb, `$bb.get("hunger")`, `$bb.set("did", "eat")`, bindNeeds)
	rest := UtilityAction[needsBB](sb, `10 - $bb.get("energy")`, `$bb.set("did", "rest")`, bindNeeds)
	ev := utility.NewEvaluator[needsBB](eat, rest)

	bb := needsBB{Hunger: 9, Energy: 8}
	ev.Run(&bb)
	assert.Equal(t, "eat", bb.Did)

	bb = needsBB{Hunger: 1, Energy: 1}
	ev.Run(&bb)
	assert.Equal(t, "rest", bb.Did)
}

func TestScriptedUtilityBrokenScorerScoresZero(t *testing.T) {
	sb := newTestSandbox(t)
	broken := UtilityAction[needsBB](sb, `{{{ nope`, `$bb.set("did", "broken")`, bindNeeds)
	eat := UtilityAction[needsBB](sb, `$bb.get("hunger")`, `$bb.set("did", "eat")`, bindNeeds)
	ev := utility.NewEvaluator[needsBB](broken, eat)

	bb := needsBB{Hunger: 5}
	ev.Run(&bb)
	assert.Equal(t, "eat", bb.Did)
}
