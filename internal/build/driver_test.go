package build_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wncli/wn/internal/build"
	werrors "github.com/wncli/wn/internal/errors"
	"github.com/wncli/wn/internal/jsparse"
	"github.com/wncli/wn/internal/transform"
)

func code(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "\n"), "\n")
}

// countingTransformer records how often each module is transformed.
type countingTransformer struct {
	inner build.Transformer
	calls map[string]int
}

func newCounting() *countingTransformer {
	return &countingTransformer{
		inner: transform.New(transform.DefaultOptions()),
		calls: make(map[string]int),
	}
}

func (c *countingTransformer) Transform(in transform.Input) (*transform.Output, error) {
	c.calls[in.ID]++
	return c.inner.Transform(in)
}

type recordingSink struct {
	written []string
	fail    string
}

func (s *recordingSink) Write(_ context.Context, out *transform.Output) error {
	if out.ID == s.fail {
		return errors.New("disk full")
	}
	s.written = append(s.written, out.ID)
	return nil
}

type mapStyles map[string]string

func (m mapStyles) Stylesheet(id string) (string, bool) {
	css, ok := m[id]
	return css, ok
}

func appGraph() *build.Graph {
	return &build.Graph{
		Modules: map[string]build.Module{
			"app.jsx": {
				Depended: []string{"pages/index/index.jsx"},
				Code: []byte(`
import { App } from 'wn'
import './pages/index/index.jsx'
export default class extends App {}
`),
			},
			"pages/index/index.jsx": {
				Depended: []string{"components/card/card.jsx", "utils/format.js"},
				Code: []byte(`
import { Page } from 'wn'
import Card from '../../components/card/card.jsx'
import format from '../../utils/format.js'
export default class extends Page {
  render() { return <Card>{format(1)}</Card> }
}
`),
			},
			"components/card/card.jsx": {
				Depended: []string{"utils/format.js"},
				Code: []byte(`
import { Component } from 'wn'
import format from '../../utils/format.js'
export default class extends Component {
  render() { return <view>{format(2)}</view> }
}
`),
			},
			"utils/format.js": {
				Code: []byte(`export default function format(v) { return String(v) }`),
			},
		},
		Referenced: map[string][]string{
			"pages/index/index.jsx":    {"app.jsx"},
			"components/card/card.jsx": {"pages/index/index.jsx"},
			"utils/format.js":          {"pages/index/index.jsx", "components/card/card.jsx"},
		},
	}
}

func TestRunCompilesDependenciesFirst(t *testing.T) {
	tr := newCounting()
	sink := &recordingSink{}
	d := build.NewDriver(jsparse.New(), tr, build.WithSink(sink))

	res, err := d.Run(context.Background(), appGraph(), "app.jsx")
	require.NoError(t, err)
	assert.False(t, res.HasErrors())

	want := []string{"utils/format.js", "components/card/card.jsx", "pages/index/index.jsx", "app.jsx"}
	assert.Equal(t, want, res.Order)
	assert.Equal(t, want, sink.written)
	for _, id := range want {
		assert.Equal(t, 1, tr.calls[id], "%s compiled once", id)
	}

	assert.Equal(t, `{"pages":["pages/index/index"]}`, res.Outputs["app.jsx"].ConfigJSON())
	assert.Equal(t, `{"usingComponents":{"Card":"../../../components/card/card/card"}}`,
		res.Outputs["pages/index/index.jsx"].ConfigJSON())
	assert.Equal(t, transform.RoleLocalModule, res.Outputs["utils/format.js"].Role)

	roles := res.Roles()
	assert.Equal(t, 1, roles[transform.RolePage])
	assert.Equal(t, 1, roles[transform.RoleComponent])
}

func TestRunAll(t *testing.T) {
	g := appGraph()
	g.Modules["orphan.js"] = build.Module{Code: []byte(`export const a = 1`)}

	res, err := build.NewDriver(jsparse.New(), newCounting()).RunAll(context.Background(), g)
	require.NoError(t, err)
	assert.Len(t, res.Outputs, 5)
	assert.Contains(t, res.Order, "orphan.js")
}

func TestRunCycle(t *testing.T) {
	g := &build.Graph{Modules: map[string]build.Module{
		"a.js": {Depended: []string{"b.js"}, Code: []byte(`import './b.js'`)},
		"b.js": {Depended: []string{"a.js"}, Code: []byte(`import './a.js'`)},
	}}

	_, err := build.NewDriver(jsparse.New(), newCounting()).Run(context.Background(), g, "a.js")
	require.Error(t, err)
	assert.True(t, errors.Is(err, werrors.ErrCycle))

	var cycle *build.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a.js", "b.js", "a.js"}, cycle.Path)
	assert.Equal(t, "dependency cycle: a.js -> b.js -> a.js", err.Error())
	assert.True(t, build.IsFatal(err))
}

func TestRunMissingModule(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		referrer string
		missing  string
	}{
		{"missing dependency", "a.js", "a.js", "gone.js"},
		{"missing entry", "nope.js", "", "nope.js"},
	}
	g := &build.Graph{Modules: map[string]build.Module{
		"a.js": {Depended: []string{"gone.js"}, Code: []byte(`import './gone.js'`)},
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build.NewDriver(jsparse.New(), newCounting()).Run(context.Background(), g, tt.entry)
			require.Error(t, err)
			assert.True(t, errors.Is(err, werrors.ErrMissingModule))

			var missing *build.MissingModuleError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.missing, missing.ID)
			assert.Equal(t, tt.referrer, missing.Referrer)
			assert.Equal(t, tt.missing, missing.Module())
		})
	}
}

func TestRunModuleFailureIsLocal(t *testing.T) {
	g := &build.Graph{Modules: map[string]build.Module{
		"page.jsx": {
			Depended: []string{"broken.jsx", "item.jsx"},
			Code: []byte(`
import Broken from './broken.jsx'
import Item from './item.jsx'
export default class extends Page {}
`),
		},
		"broken.jsx": {Code: []byte(`export default class extends Component {`)},
		"item.jsx":   {Code: []byte(`export default ({ a }) => <text>{a}</text>`)},
	}}

	res, err := build.NewDriver(jsparse.New(), newCounting()).Run(context.Background(), g, "page.jsx")
	require.NoError(t, err)

	require.Len(t, res.Failed, 2)
	assert.True(t, errors.Is(res.Failed["broken.jsx"], werrors.ErrSyntax))
	assert.True(t, errors.Is(res.Failed["item.jsx"], werrors.ErrStructural))
	assert.False(t, build.IsFatal(res.Failed["broken.jsx"]))

	var modErr *build.ModuleError
	require.ErrorAs(t, res.Errors()[0], &modErr)
	assert.Equal(t, "broken.jsx", modErr.Module())

	page := res.Outputs["page.jsx"]
	require.NotNil(t, page)
	assert.Equal(t, code(`
var _broken = require("../broken.js");
var _item = require("../item.js");

Page({});
`), page.Behavior)
}

func TestRunSinkFailure(t *testing.T) {
	sink := &recordingSink{fail: "components/card/card.jsx"}
	res, err := build.NewDriver(jsparse.New(), newCounting(), build.WithSink(sink)).
		Run(context.Background(), appGraph(), "app.jsx")
	require.NoError(t, err)

	assert.Contains(t, res.Failed, "components/card/card.jsx")
	assert.NotContains(t, res.Outputs, "components/card/card.jsx")
	assert.Equal(t, []string{"utils/format.js", "pages/index/index.jsx", "app.jsx"}, sink.written)
}

func TestRunStyleSource(t *testing.T) {
	styles := mapStyles{"utils/format.js": ".a {}"}
	res, err := build.NewDriver(jsparse.New(), newCounting(), build.WithStyleSource(styles)).
		Run(context.Background(), appGraph(), "app.jsx")
	require.NoError(t, err)
	assert.Equal(t, ".a {}", res.Outputs["utils/format.js"].RawStylesheet)
	assert.Empty(t, res.Outputs["app.jsx"].RawStylesheet)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := build.NewDriver(jsparse.New(), newCounting()).Run(ctx, appGraph(), "app.jsx")
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, build.IsFatal(err))
}
