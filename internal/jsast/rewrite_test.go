package jsast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wncli/wn/internal/jsast"
	"github.com/wncli/wn/internal/jsparse"
)

func TestRewriterDoesNotModifyInput(t *testing.T) {
	prog, err := jsparse.New().Parse("m.js", []byte(`const a = b + c; f(b)`))
	require.NoError(t, err)

	r := &jsast.Rewriter{Leave: func(n jsast.Node) jsast.Node {
		if id, ok := n.(*jsast.Ident); ok && id.Name == "b" {
			return &jsast.Ident{Name: "x"}
		}
		return n
	}}
	out := r.Program(prog)

	var before, after []string
	collect := func(dst *[]string) func(jsast.Node) bool {
		return func(n jsast.Node) bool {
			if id, ok := n.(*jsast.Ident); ok {
				*dst = append(*dst, id.Name)
			}
			return true
		}
	}
	jsast.Inspect(prog, collect(&before))
	jsast.Inspect(out, collect(&after))

	assert.Equal(t, []string{"a", "b", "c", "f", "b"}, before)
	assert.Equal(t, []string{"a", "x", "c", "f", "x"}, after)
}

func TestRewriterEnterSkipsSubtree(t *testing.T) {
	prog, err := jsparse.New().Parse("m.js", []byte(`function f() { inner }; outer`))
	require.NoError(t, err)

	var seen []string
	jsast.Inspect(prog, func(n jsast.Node) bool {
		switch v := n.(type) {
		case *jsast.Function:
			return false
		case *jsast.Ident:
			seen = append(seen, v.Name)
		}
		return true
	})
	assert.Equal(t, []string{"outer"}, seen)
}

func TestRewriterIgnoresMistypedReplacement(t *testing.T) {
	x, err := jsparse.ParseExpression(`a.b`)
	require.NoError(t, err)

	// Replacing an expression with a statement is not possible; the copy is
	// kept instead.
	r := &jsast.Rewriter{Leave: func(n jsast.Node) jsast.Node {
		if _, ok := n.(*jsast.Member); ok {
			return &jsast.Empty{}
		}
		return n
	}}
	out := r.Expr(x)
	assert.Equal(t, x, out)
	assert.NotSame(t, x, out)
}

func TestPropName(t *testing.T) {
	assert.Equal(t, "a", jsast.PropName(&jsast.Ident{Name: "a"}))
	assert.Equal(t, "b-c", jsast.PropName(&jsast.String{Value: "b-c", Raw: "'b-c'"}))
	assert.Equal(t, "1", jsast.PropName(&jsast.Number{Raw: "1"}))
	assert.Equal(t, "", jsast.PropName(&jsast.This{}))
}
