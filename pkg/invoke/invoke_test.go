package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/simple-eca/pkg/argpool"
	"github.com/jdziat/simple-eca/pkg/coerce"
	"github.com/jdziat/simple-eca/pkg/core"
	"github.com/jdziat/simple-eca/pkg/registry"
)

// ---------------------------------------------------------------------------
// Helper types used across multiple tests
// ---------------------------------------------------------------------------

type player struct {
	Name string
	HP   int
}

func (p *player) Heal(n int) int {
	p.HP += n
	return p.HP
}

func (p *player) IsAlive() bool { return p.HP > 0 }

type point struct{ X, Y int }

type greeting struct {
	Name  string
	Times int
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func newTestInvoker(t *testing.T, opts ...Option) *Invoker {
	t.Helper()
	reg := registry.New()
	reg.Register("Add", func(a, b int) int { return a + b }, registry.Description("adds two numbers"))
	reg.Register("Greet", func(name string, times int) greeting {
		return greeting{Name: name, Times: times}
	}, registry.Defaults(1))
	reg.Register("Sum", sum)
	reg.Register("SumVariadic", func(values ...int) int { return sum(values) })
	reg.Register("Join", func(sep string, parts ...string) string { return strings.Join(parts, sep) })
	reg.Register("Scale", func(factor float64, values []float64) []float64 {
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = v * factor
		}
		return out
	})
	reg.Register("Echo", func(v any) any { return v })
	reg.Register("Tick", func() {})
	reg.Register("Triple", func(a, b, c int) [3]int { return [3]int{a, b, c} })
	reg.Register("Wait", func(d time.Duration, at time.Time) string {
		return fmt.Sprintf("%s@%s", d, at.Format(time.DateOnly))
	})
	reg.Register("Locate", func(p point) point { return p })
	reg.Register("Count", func(n int) int { return n })
	reg.Register("Bytes", func(b []byte) int { return len(b) })
	reg.Register("IsEven", func(n int) bool { return n%2 == 0 })
	reg.Register("NotAChecker", func() string { return "yes" })
	reg.Register("Fail", func() error { return errBoom })
	reg.Register("Divide", func(a, b int) (int, error) {
		if b == 0 {
			return 0, errDivZero
		}
		return a / b, nil
	})
	reg.Register("Deadline", func(ctx context.Context, label string) string {
		if v, ok := ctx.Value(ctxKey{}).(string); ok {
			return label + ":" + v
		}
		return label
	})
	reg.RegisterMethod("Heal", (*player).Heal, registry.Defaults(10))
	reg.RegisterMethod("IsAlive", (*player).IsAlive)
	return New(reg, opts...)
}

type ctxKey struct{}

var (
	errBoom    = errors.New("boom")
	errDivZero = errors.New("divide by zero")
)

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func TestInvoke_InlineArguments(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), nil, "Add(3,4)")
	require.NoError(t, err)
	assert.Equal(t, 7, result)
}

func TestInvoke_InlineArgumentsWithSpaces(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), nil, "Add(3, 4)")
	require.NoError(t, err)
	assert.Equal(t, 7, result)
}

func TestInvoke_DefaultFill(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), nil, "Greet", "Bob")
	require.NoError(t, err)
	assert.Equal(t, greeting{Name: "Bob", Times: 1}, result)
}

func TestInvoke_PacksTrailingSlice(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), nil, "Sum", 1, 2, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 10, result)
}

func TestInvoke_UnknownCallable(t *testing.T) {
	inv := newTestInvoker(t)

	_, err := inv.Invoke(context.Background(), nil, "Missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownCallable)

	var invErr *core.InvocationError
	require.True(t, errors.As(err, &invErr))
	assert.Equal(t, "Missing", invErr.Key)
}

func TestCheck_UnexpectedReturnType(t *testing.T) {
	inv := newTestInvoker(t)

	_, err := inv.Check(context.Background(), nil, "NotAChecker")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnexpectedReturnType)
	assert.Contains(t, err.Error(), "string")

	_, err = inv.Check(context.Background(), nil, "Tick")
	assert.ErrorIs(t, err, core.ErrUnexpectedReturnType)
}

func TestCheck_UnexpectedReturnTypeReportsParsedKey(t *testing.T) {
	inv := newTestInvoker(t)

	_, err := inv.Check(context.Background(), nil, "Count(3)")
	require.ErrorIs(t, err, core.ErrUnexpectedReturnType)

	var invErr *core.InvocationError
	require.True(t, errors.As(err, &invErr))
	assert.Equal(t, "Count", invErr.Key)
}

func TestInvoke_TextDefaultsUseInvokerCoercer(t *testing.T) {
	type color string
	c := coerce.New()
	coerce.RegisterParser(c, func(s string) (color, error) {
		switch s {
		case "red", "blue":
			return color(s), nil
		}
		return "", fmt.Errorf("unknown color %q", s)
	})

	reg := registry.New()
	require.NoError(t, reg.Add("Paint", func(col color) string { return "painted " + string(col) }, registry.Defaults("red")))
	inv := New(reg, WithCoercer(c))

	result, err := inv.Invoke(context.Background(), nil, "Paint")
	require.NoError(t, err)
	assert.Equal(t, "painted red", result)

	result, err = inv.Invoke(context.Background(), nil, "Paint(blue)")
	require.NoError(t, err)
	assert.Equal(t, "painted blue", result)
}

func TestInvoke_BadTextDefaultFailsAtInvoke(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Add("Repeat", func(n int) int { return n }, registry.Defaults("often")))
	inv := New(reg)

	_, err := inv.Invoke(context.Background(), nil, "Repeat")
	require.Error(t, err)

	var coerceErr *core.CoercionError
	require.True(t, errors.As(err, &coerceErr))
	assert.Equal(t, "often", coerceErr.Input)

	var invErr *core.InvocationError
	require.True(t, errors.As(err, &invErr))
	assert.Equal(t, "Repeat", invErr.Key)
	assert.Contains(t, err.Error(), "default for parameter 0")
}

// ---------------------------------------------------------------------------
// Argument distribution
// ---------------------------------------------------------------------------

func TestInvoke_ArityMismatchWithoutTrailingSlice(t *testing.T) {
	inv := newTestInvoker(t)

	for _, key := range []string{"Add", "Greet", "Count", "Triple", "Locate"} {
		e, _ := inv.Registry().Lookup(key)
		args := make([]any, e.Arity()+1)
		for i := range args {
			args[i] = "1"
		}

		_, err := inv.Invoke(context.Background(), nil, key, args...)
		assert.ErrorIs(t, err, core.ErrArityMismatch, "key %s", key)
	}
}

func TestInvoke_ArityMismatchForNoParams(t *testing.T) {
	inv := newTestInvoker(t)

	_, err := inv.Invoke(context.Background(), nil, "Tick", 1)
	assert.ErrorIs(t, err, core.ErrArityMismatch)

	_, err = inv.Invoke(context.Background(), nil, "Tick(1)")
	assert.ErrorIs(t, err, core.ErrArityMismatch)
}

func TestInvoke_MissingDefault(t *testing.T) {
	inv := newTestInvoker(t)

	_, err := inv.Invoke(context.Background(), nil, "Add", 1)
	assert.ErrorIs(t, err, core.ErrMissingDefault)

	_, err = inv.Invoke(context.Background(), nil, "Greet")
	assert.ErrorIs(t, err, core.ErrMissingDefault)
}

func TestInvoke_DefaultsFillOmittedPositions(t *testing.T) {
	reg := registry.New()
	var got []any
	reg.Register("Configure", func(name string, retries int, ratio float64, tags []string) {
		got = []any{name, retries, ratio, tags}
	}, registry.Defaults(3, 0.5, []string{"a"}))
	inv := New(reg)

	require.NoError(t, inv.Do(context.Background(), nil, "Configure", "svc"))
	assert.Equal(t, []any{"svc", 3, 0.5, []string{"a"}}, got)

	require.NoError(t, inv.Do(context.Background(), nil, "Configure", "svc", "7"))
	assert.Equal(t, []any{"svc", 7, 0.5, []string{"a"}}, got)
}

func TestInvoke_PacksTrailingScalarsInOrder(t *testing.T) {
	inv := newTestInvoker(t)

	for n := 0; n <= 6; n++ {
		args := []any{"-"}
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = fmt.Sprintf("p%d", i)
			args = append(args, parts[i])
		}

		result, err := inv.Invoke(context.Background(), nil, "Join", args...)
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, strings.Join(parts, "-"), result, "n=%d", n)
	}
}

func TestInvoke_SingleScalarForSliceParam(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), nil, "Sum", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, result)

	result, err = inv.Invoke(context.Background(), nil, "Sum(5)")
	require.NoError(t, err)
	assert.Equal(t, 5, result)
}

func TestInvoke_SliceInputIsDirect(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), nil, "Sum", []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 6, result)

	result, err = inv.Invoke(context.Background(), nil, "Sum", []string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, 3, result)

	result, err = inv.Invoke(context.Background(), nil, "Scale", 2.0, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, result)
}

func TestInvoke_PackedTextIsCoercedToElementType(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), nil, "Scale(2,1.5,3)")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 6}, result)
}

func TestInvoke_VariadicFunction(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), nil, "SumVariadic", 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, result)

	result, err = inv.Invoke(context.Background(), nil, "SumVariadic")
	require.NoError(t, err)
	assert.Equal(t, 0, result)

	result, err = inv.Invoke(context.Background(), nil, "SumVariadic", []int{4, 5})
	require.NoError(t, err)
	assert.Equal(t, 9, result)
}

func TestInvoke_TextIntoWholeSliceType(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), nil, "Bytes", "hello")
	require.NoError(t, err)
	assert.Equal(t, 5, result)
}

func TestInvoke_InlineMatchesExplicit(t *testing.T) {
	inv := newTestInvoker(t)

	inline, err := inv.Invoke(context.Background(), nil, "Triple(1,2,3)")
	require.NoError(t, err)

	explicit, err := inv.Invoke(context.Background(), nil, "Triple", 1, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, explicit, inline)
	assert.Equal(t, [3]int{1, 2, 3}, inline)
}

func TestInvoke_ExplicitArgumentsBypassParsing(t *testing.T) {
	inv := newTestInvoker(t)

	_, err := inv.Invoke(context.Background(), nil, "Add(3,4)", 1, 2)
	assert.ErrorIs(t, err, core.ErrUnknownCallable)
}

func TestInvoke_TypedValuesPassThrough(t *testing.T) {
	inv := newTestInvoker(t)
	p := point{1, 2}

	result, err := inv.Invoke(context.Background(), nil, "Locate", p)
	require.NoError(t, err)
	assert.Equal(t, p, result)

	result, err = inv.Invoke(context.Background(), nil, "Echo", p)
	require.NoError(t, err)
	assert.Equal(t, p, result)
}

func TestInvoke_TimeArguments(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), nil, "Wait(1m30s,2024-03-01)")
	require.NoError(t, err)
	assert.Equal(t, "1m30s@2024-03-01", result)
}

// ---------------------------------------------------------------------------
// Coercion failures and nil handling
// ---------------------------------------------------------------------------

func TestInvoke_UnsupportedCoercion(t *testing.T) {
	inv := newTestInvoker(t, WithCoercer(coerce.New()))

	_, err := inv.Invoke(context.Background(), nil, "Locate(1)")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnsupportedCoercion)
	assert.Contains(t, err.Error(), "argument 0")
}

func TestInvoke_UnsupportedCoercionDiscoveredOnce(t *testing.T) {
	discoveries := 0
	c := coerce.New(coerce.WithDiscoverHook(func(t reflect.Type) {
		if t == reflect.TypeFor[point]() {
			discoveries++
		}
	}))
	inv := newTestInvoker(t, WithCoercer(c))

	for i := 0; i < 4; i++ {
		_, err := inv.Invoke(context.Background(), nil, "Locate", "1,2")
		assert.ErrorIs(t, err, core.ErrUnsupportedCoercion)
	}
	assert.Equal(t, 1, discoveries)
}

func TestInvoke_ParseFailure(t *testing.T) {
	inv := newTestInvoker(t)

	_, err := inv.Invoke(context.Background(), nil, "Add(one,two)")
	require.Error(t, err)

	var coerceErr *core.CoercionError
	require.True(t, errors.As(err, &coerceErr))
	assert.Equal(t, "one", coerceErr.Input)
}

func TestInvoke_NilBecomesZeroValue(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), nil, "Add", nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, result)

	result, err = inv.Invoke(context.Background(), nil, "Echo", nil)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestInvoke_StrictRejectsNilForValueTypes(t *testing.T) {
	inv := newTestInvoker(t, Strict())

	_, err := inv.Invoke(context.Background(), nil, "Add", nil, 5)
	assert.ErrorIs(t, err, core.ErrNilArgument)

	// Nillable parameters still accept nil.
	result, err := inv.Invoke(context.Background(), nil, "Echo", nil)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestInvoke_NilLastInputIsPacked(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), nil, "Sum", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result)
}

func TestInvoke_PacksManyTrailingInputs(t *testing.T) {
	inv := newTestInvoker(t)

	args := make([]any, 300)
	for i := range args {
		args[i] = 1
	}
	result, err := inv.Invoke(context.Background(), nil, "Sum", args...)
	require.NoError(t, err)
	assert.Equal(t, 300, result)

	parts := []any{"+"}
	for range args {
		parts = append(parts, "1")
	}
	result, err = inv.Invoke(context.Background(), nil, "Join", parts...)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("1+", 299)+"1", result)
}

func TestInvoke_PackedElementFailureNamesItsPosition(t *testing.T) {
	inv := newTestInvoker(t)

	_, err := inv.Invoke(context.Background(), nil, "Sum", 1, 2, "x")
	require.Error(t, err)

	var coerceErr *core.CoercionError
	require.True(t, errors.As(err, &coerceErr))
	assert.Equal(t, "x", coerceErr.Input)
	assert.Contains(t, err.Error(), "argument 2")
}

func TestInvoke_SingleTextForSliceDoesNotDiscoverSliceType(t *testing.T) {
	var discovered []reflect.Type
	c := coerce.New(coerce.WithDiscoverHook(func(t reflect.Type) {
		discovered = append(discovered, t)
	}))
	inv := newTestInvoker(t, WithCoercer(c))

	result, err := inv.Invoke(context.Background(), nil, "Sum", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, result)
	assert.NotContains(t, discovered, reflect.TypeFor[[]int]())
}

// ---------------------------------------------------------------------------
// Callable results, owners and context
// ---------------------------------------------------------------------------

func TestInvoke_CallableErrorIsNotWrapped(t *testing.T) {
	inv := newTestInvoker(t)

	_, err := inv.Invoke(context.Background(), nil, "Fail")
	assert.Same(t, errBoom, err)

	_, err = inv.Invoke(context.Background(), nil, "Divide(1,0)")
	assert.Same(t, errDivZero, err)

	result, err := inv.Invoke(context.Background(), nil, "Divide(9,3)")
	require.NoError(t, err)
	assert.Equal(t, 3, result)
}

func TestInvoke_CallablePanicPropagates(t *testing.T) {
	reg := registry.New()
	reg.Register("Panic", func() { panic("kaboom") })
	inv := New(reg)

	assert.PanicsWithValue(t, "kaboom", func() {
		_, _ = inv.Invoke(context.Background(), nil, "Panic")
	})
}

func TestInvoke_InstanceBound(t *testing.T) {
	inv := newTestInvoker(t)
	p := &player{Name: "ann", HP: 5}

	result, err := inv.Invoke(context.Background(), p, "Heal(3)")
	require.NoError(t, err)
	assert.Equal(t, 8, result)

	result, err = inv.Invoke(context.Background(), p, "Heal")
	require.NoError(t, err)
	assert.Equal(t, 18, result, "default heal amount")

	alive, err := inv.Check(context.Background(), p, "IsAlive")
	require.NoError(t, err)
	assert.True(t, alive)
}

func TestInvoke_InstanceBoundRequiresOwner(t *testing.T) {
	inv := newTestInvoker(t)

	_, err := inv.Invoke(context.Background(), nil, "Heal(3)")
	assert.ErrorIs(t, err, core.ErrInvalidOwner)

	_, err = inv.Invoke(context.Background(), "someone", "Heal(3)")
	assert.ErrorIs(t, err, core.ErrInvalidOwner)
}

func TestInvoke_FreeCallableIgnoresOwner(t *testing.T) {
	inv := newTestInvoker(t)

	result, err := inv.Invoke(context.Background(), &player{}, "Add(1,1)")
	require.NoError(t, err)
	assert.Equal(t, 2, result)
}

func TestInvoke_PassesContext(t *testing.T) {
	inv := newTestInvoker(t)
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")

	result, err := inv.Invoke(ctx, nil, "Deadline(task)")
	require.NoError(t, err)
	assert.Equal(t, "task:v", result)
}

func TestCheck(t *testing.T) {
	inv := newTestInvoker(t)

	ok, err := inv.Check(context.Background(), nil, "IsEven(4)")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = inv.Check(context.Background(), nil, "IsEven", 3)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = inv.Check(context.Background(), nil, "Missing")
	assert.ErrorIs(t, err, core.ErrUnknownCallable)
}

func TestCheck_NamedBool(t *testing.T) {
	type verdict bool
	reg := registry.New()
	reg.Register("Verdict", func() verdict { return true })
	inv := New(reg)

	ok, err := inv.Check(context.Background(), nil, "Verdict")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDo(t *testing.T) {
	inv := newTestInvoker(t)

	assert.NoError(t, inv.Do(context.Background(), nil, "Tick"))
	assert.Same(t, errBoom, inv.Do(context.Background(), nil, "Fail"))
}

func TestDescribe(t *testing.T) {
	inv := newTestInvoker(t)

	desc, ok := inv.Describe("Add")
	assert.True(t, ok)
	assert.Equal(t, "adds two numbers", desc)

	_, ok = inv.Describe("Tick")
	assert.False(t, ok)
}

// ---------------------------------------------------------------------------
// Buffers and concurrency
// ---------------------------------------------------------------------------

func TestInvoke_ReturnsBuffersToPool(t *testing.T) {
	pool := argpool.New(4, 4)
	inv := newTestInvoker(t, WithPool(pool))

	_, err := inv.Invoke(context.Background(), nil, "Triple(1,2,3)")
	require.NoError(t, err)

	// One scratch buffer and one call vector, both of length 3.
	assert.Equal(t, 2, pool.Idle(3))
}

func TestInvoke_NestedInvocation(t *testing.T) {
	reg := registry.New()
	var inv *Invoker
	reg.Register("Outer", func(ctx context.Context, a, b int) (int, error) {
		inner, err := inv.Invoke(ctx, nil, "Inner", a*10, b*10)
		if err != nil {
			return 0, err
		}
		return a + b + inner.(int), nil
	})
	reg.Register("Inner", func(a, b int) int { return a + b })
	inv = New(reg)

	result, err := inv.Invoke(context.Background(), nil, "Outer(1,2)")
	require.NoError(t, err)
	assert.Equal(t, 33, result)
}

func TestInvoke_Concurrent(t *testing.T) {
	inv := newTestInvoker(t)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := inv.Invoke(context.Background(), nil, "Triple", i, i+1, i+2)
			if err != nil {
				errs <- err
				return
			}
			if result != [3]int{i, i + 1, i + 2} {
				errs <- fmt.Errorf("call %d got %v", i, result)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

// ---------------------------------------------------------------------------
// Hooks and logging
// ---------------------------------------------------------------------------

func TestHooks(t *testing.T) {
	inv := newTestInvoker(t)

	var started, completed, failed []*core.Invocation
	var results []any
	var errs []error
	inv.OnInvokeStart(func(ctx context.Context, c *core.Invocation) { started = append(started, c) })
	inv.OnInvokeComplete(func(ctx context.Context, c *core.Invocation, r any) {
		completed = append(completed, c)
		results = append(results, r)
	})
	inv.OnInvokeFail(func(ctx context.Context, c *core.Invocation, err error) {
		failed = append(failed, c)
		errs = append(errs, err)
	})

	_, err := inv.Invoke(context.Background(), nil, "Add(2,3)")
	require.NoError(t, err)
	_, err = inv.Invoke(context.Background(), nil, "Missing")
	require.Error(t, err)

	require.Len(t, started, 2)
	require.Len(t, completed, 1)
	require.Len(t, failed, 1)

	assert.Equal(t, "Add", started[0].Key)
	assert.Equal(t, []any{"2", "3"}, started[0].Args)
	assert.NotEmpty(t, started[0].ID)
	assert.NotEqual(t, started[0].ID, started[1].ID)
	assert.Same(t, started[0], completed[0])
	assert.Equal(t, 5, results[0])
	assert.Equal(t, "Missing", failed[0].Key)
	assert.ErrorIs(t, errs[0], core.ErrUnknownCallable)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inv := newTestInvoker(t, WithLogger(logger))

	_, err := inv.Invoke(context.Background(), nil, "Add(1,2)")
	require.NoError(t, err)
	_, _ = inv.Invoke(context.Background(), nil, "Missing")

	out := buf.String()
	assert.Contains(t, out, "invoking callable")
	assert.Contains(t, out, "key=Add")
	assert.Contains(t, out, "invocation rejected")
	assert.Contains(t, out, "key=Missing")
}
