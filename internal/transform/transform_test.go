package transform_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/wncli/wn/internal/errors"
	"github.com/wncli/wn/internal/jsast"
	"github.com/wncli/wn/internal/jsparse"
	"github.com/wncli/wn/internal/transform"
)

// code trims the leading and trailing newline of a raw string literal.
func code(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "\n"), "\n")
}

func parse(t *testing.T, id, src string) *jsast.Program {
	t.Helper()
	prog, err := jsparse.New().Parse(id, []byte(src))
	require.NoError(t, err)
	return prog
}

func compile(t *testing.T, in transform.Input, src string) *transform.Output {
	t.Helper()
	if in.ID == "" {
		in.ID = "test.jsx"
	}
	in.Program = parse(t, in.ID, src)
	out, err := transform.New(transform.DefaultOptions()).Transform(in)
	require.NoError(t, err)
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want transform.Role
	}{
		{"app", "export default class extends App {}", transform.RoleApp},
		{"page", "export default class Index extends Page {}", transform.RolePage},
		{"component", "export default class extends Component {}", transform.RoleComponent},
		{"game", "export default class extends Game {}", transform.RoleGame},
		{"template function", "export default function Item() { return <view /> }", transform.RoleTemplate},
		{"template arrow", "export default () => <view />", transform.RoleTemplate},
		{"plain function", "export default function f() { return 1 }", transform.RoleLocalModule},
		{"unknown superclass", "export default class extends Base {}", transform.RoleLocalModule},
		{"no default export", "export const a = 1", transform.RoleLocalModule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parse(t, "m.jsx", tt.src)
			assert.Equal(t, tt.want, transform.Classify(prog))
			assert.Equal(t, tt.want, transform.Classify(prog), "classification must be stable")
		})
	}
}

func TestComponentMethods(t *testing.T) {
	out := compile(t, transform.Input{}, `
export default class Test extends Component {
  onClick(event) {
    console.log(event)
    this.setState({ open: true })
    this.setData({ open: true })
  }
}
`)
	assert.Equal(t, `{"component":true}`, out.ConfigJSON())
	assert.Equal(t, code(`
Component({
  methods: {
    onClick: function (event) {
      console.log(event);
      this.setData({
        open: true
      });
      this.setData({
        open: true
      });
    }
  }
});
`), out.Behavior)
}

func TestComponentProperties(t *testing.T) {
	out := compile(t, transform.Input{}, `
export default class Test extends Component {
  static propTypes = {
    b: PropTypes.string,
    a: PropTypes.array,
    c: PropTypes.func,
  }
  static defaultProps = {
    a: {},
    b: 'hi',
  }
}
`)
	assert.Equal(t, `{"component":true}`, out.ConfigJSON())
	assert.Equal(t, code(`
Component({
  properties: {
    b: {
      type: String,
      value: 'hi'
    },
    a: {
      type: Array,
      value: {}
    },
    c: {
      type: null
    }
  }
});
`), out.Behavior)
	require.Len(t, out.Warnings, 1)
	assert.True(t, errors.Is(out.Warnings[0], werrors.ErrAuthoring))
	assert.Contains(t, out.Warnings[0].Error(), "propTypes.c")
}

func TestComponentStateAndLifecycle(t *testing.T) {
	out := compile(t, transform.Input{}, `
export default class Test extends Component {
  state = {
    open: false,
  }
  onClick(event) { return true }
  created() { return true }
  attached() { return true }
  detached() { return true }
  moved() { return true }
}
`)
	assert.Equal(t, code(`
Component({
  data: {
    open: false
  },
  created: function () {
    return true;
  },
  attached: function () {
    return true;
  },
  detached: function () {
    return true;
  },
  moved: function () {
    return true;
  },
  methods: {
    onClick: function (event) {
      return true;
    }
  }
});
`), out.Behavior)
}

func TestLifecycleNamesOnPageAreOrdinary(t *testing.T) {
	out := compile(t, transform.Input{}, `
export default class extends Page {
  created() { this.setState({ a: 1 }) }
}
`)
	assert.Equal(t, code(`
Page({
  created: function () {
    this.setData({
      a: 1
    });
  }
});
`), out.Behavior)
}

func TestComponentRender(t *testing.T) {
	out := compile(t, transform.Input{}, `
export default class Test extends Component {
  render() {
    return (
      <view>hi</view>
    )
  }
}
`)
	assert.Equal(t, `{"component":true}`, out.ConfigJSON())
	assert.Equal(t, "<view>hi</view>", out.Markup)
	assert.Equal(t, "Component({});", out.Behavior)
}

func TestRenderWithSeveralStatementsWarns(t *testing.T) {
	out := compile(t, transform.Input{}, `
export default class extends Page {
  render() {
    const x = 1
    return <view>{x}</view>
  }
}
`)
	assert.Equal(t, "<view>{{x}}</view>", out.Markup)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0].Error(), "render")
}

func TestComponentRelations(t *testing.T) {
	child := compile(t, transform.Input{ID: "child.jsx", SourceRoot: ".", ReferencedBy: []string{"parent.jsx"}}, `
export default class extends Component {
  render() {
    return (
      <view>
        子级组件
      </view>
    )

  }
}
`)
	assert.Equal(t, `{"component":true}`, child.ConfigJSON())
	assert.Equal(t, code(`
<view>
  子级组件
</view>
`), child.Markup)
	assert.Equal(t, code(`
Component({
  relations: {
    "../parent/parent": {
      type: "parent"
    }
  }
});
`), child.Behavior)

	parent := compile(t, transform.Input{
		ID:         "parent.jsx",
		SourceRoot: ".",
		Deps:       map[string]*transform.Output{"child.jsx": child},
	}, `
import child from './child.jsx'
export default class parent extends Component {
  render() {
    return (
      <view>
        <child>hi</child>
      </view>
    )
  }
}
`)
	assert.Equal(t, `{"component":true,"usingComponents":{"child":"../child/child"}}`, parent.ConfigJSON())
	assert.Equal(t, code(`
<view>
  <child>hi</child>
</view>
`), parent.Markup)
	assert.Equal(t, code(`
Component({
  relations: {
    "../child/child": {
      type: "child"
    }
  }
});
`), parent.Behavior)
}

func TestRelationsToPagesAreSuppressed(t *testing.T) {
	out := compile(t, transform.Input{
		ID:           "components/card.jsx",
		SourceRoot:   ".",
		ReferencedBy: []string{"pages/index.jsx", "components/list.jsx"},
	}, `export default class extends Component {}`)
	assert.Equal(t, code(`
Component({
  relations: {
    "../list/list": {
      type: "parent"
    }
  }
});
`), out.Behavior)
}

func TestAppConfig(t *testing.T) {
	index := compile(t, transform.Input{ID: "pages/index.jsx", SourceRoot: "."}, `export default class extends Page {}`)
	out := compile(t, transform.Input{
		ID:         "app.jsx",
		SourceRoot: ".",
		Deps:       map[string]*transform.Output{"pages/index.jsx": index},
	}, `
import { App } from 'wn';
import './pages/index.jsx';

export default class extends App {
  debug = true

  window = {
    navigationBarTitleText: '问塔',
    backgroundColor: "#f4f5f6",
  }

  tabBar = {
    list: [
      { pagePath: 'pages/index/index', text: '塔' },
    ],
  }

  myData = 'shared'

  hello() { return 'shared' }
  onLaunch() { console.log('app: hello world') }
}
`)
	assert.Equal(t,
		`{"pages":["pages/index/index"],"debug":true,"window":{"navigationBarTitleText":"问塔","backgroundColor":"#f4f5f6"},"tabBar":{"list":[{"pagePath":"pages/index/index","text":"塔"}]}}`,
		out.ConfigJSON())
	assert.Equal(t, code(`
App({
  myData: 'shared',
  hello: function () {
    return 'shared';
  },
  onLaunch: function () {
    console.log('app: hello world');
  }
});
`), out.Behavior)
}

func TestAppWithoutPagesOrConfigHasNoConfig(t *testing.T) {
	out := compile(t, transform.Input{}, `export default class extends App {}`)
	assert.Nil(t, out.Config)
	assert.Equal(t, "", out.ConfigJSON())
}

func TestPageConfigFlattensWindow(t *testing.T) {
	out := compile(t, transform.Input{}, `
export default class extends Page {
  window = {
    navigationBarTitleText: 'hello'
  }
  navigationBarTextStyle = 'black'
  enablePullDownRefresh = true
  onReachBottomDistance = 50
}
`)
	assert.Equal(t,
		`{"navigationBarTitleText":"hello","navigationBarTextStyle":"black","enablePullDownRefresh":true,"onReachBottomDistance":50}`,
		out.ConfigJSON())
	assert.Equal(t, "Page({});", out.Behavior)
}

func TestGameConfig(t *testing.T) {
	out := compile(t, transform.Input{}, `
export default class extends Game {
  deviceOrientation = 'landscape'
  showStatusBar = false
  workers = 'workers'
  score = 0
}
`)
	assert.Equal(t, `{"deviceOrientation":"landscape","showStatusBar":false,"workers":"workers"}`, out.ConfigJSON())
	assert.Equal(t, code(`
Game({
  score: 0
});
`), out.Behavior)
}

func TestNonLiteralConfigFieldIsDropped(t *testing.T) {
	out := compile(t, transform.Input{}, `
export default class extends App {
  debug = isDebug()
  networkTimeout = { request: 1000 }
}
`)
	assert.Equal(t, `{"networkTimeout":{"request":1000}}`, out.ConfigJSON())
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0].Error(), "debug")
}

func TestImportVirtualCompatModule(t *testing.T) {
	out := compile(t, transform.Input{}, `
import { Page } from 'wn'
export default class extends Page {
}
`)
	assert.Equal(t, "Page({});", out.Behavior)
	assert.Nil(t, out.Config)
	assert.Empty(t, out.Markup)
}

func TestImportNodeModules(t *testing.T) {
	out := compile(t, transform.Input{ID: "app.jsx", SourceRoot: "."}, `
import { App } from 'wn'
import { createStore } from 'redux'
export default class extends App {
  onLaunch() {
    createStore(state => state, { value: 1 })
  }
}
`)
	assert.Equal(t, code(`
var _redux = require("modules/redux.js");

App({
  onLaunch: function () {
    (0, _redux.createStore)(state => state, {
      value: 1
    });
  }
});
`), out.Behavior)
}

func TestImportLocalModules(t *testing.T) {
	reducer := compile(t, transform.Input{ID: "reducer.jsx", SourceRoot: ".", ReferencedBy: []string{"app.jsx"}}, `
const rootReducer = state => state
export default rootReducer
`)
	assert.Equal(t, transform.RoleLocalModule, reducer.Role)
	assert.Equal(t, code(`
const rootReducer = state => state;
exports.default = rootReducer;
`), reducer.Behavior)

	out := compile(t, transform.Input{
		ID:         "app.jsx",
		SourceRoot: ".",
		Deps:       map[string]*transform.Output{"reducer.jsx": reducer},
	}, `
import rootReducer from './reducer'
export default class extends Page {
  onLoad() {
    rootReducer()
  }
}
`)
	assert.Equal(t, code(`
var _reducer = require("../reducer.js");

Page({
  onLoad: function () {
    (0, _reducer.default)();
  }
});
`), out.Behavior)
}

func TestImportFromProjectRoot(t *testing.T) {
	card := compile(t, transform.Input{
		ID:           "components/card.jsx",
		SourceRoot:   ".",
		ReferencedBy: []string{"pages/index.jsx"},
	}, `export default class extends Component {}`)
	require.Equal(t, transform.RoleComponent, card.Role)

	out := compile(t, transform.Input{
		ID:         "pages/index.jsx",
		SourceRoot: ".",
		Deps:       map[string]*transform.Output{"components/card.jsx": card},
	}, `
import Card from '/components/card'
export default class extends Page {
}
`)
	assert.Equal(t, `{"usingComponents":{"Card":"../../components/card/card"}}`, out.ConfigJSON())
	assert.Equal(t, "Page({});", out.Behavior)
}

func TestBlockDeclarationsShadowOnlyInsideTheirBlock(t *testing.T) {
	out := compile(t, transform.Input{ID: "app.jsx", SourceRoot: "."}, `
import { App } from 'wn'
import { createStore } from 'redux'
export default class extends App {
  onLaunch() {
    if (debug) {
      const createStore = null
      createStore()
    }
    createStore()
  }
}
`)
	assert.Equal(t, code(`
var _redux = require("modules/redux.js");

App({
  onLaunch: function () {
    if (debug) {
      const createStore = null;
      createStore();
    }
    (0, _redux.createStore)();
  }
});
`), out.Behavior)
}

func TestVarDeclarationsShadowWholeFunction(t *testing.T) {
	out := compile(t, transform.Input{ID: "app.jsx", SourceRoot: "."}, `
import { App } from 'wn'
import { createStore } from 'redux'
export default class extends App {
  onLaunch() {
    if (debug) {
      var createStore = null
    }
    createStore()
  }
}
`)
	assert.NotContains(t, out.Behavior, "_redux.createStore")
	assert.Contains(t, out.Behavior, "    createStore();")
}

func TestImportRuntimeBindingFromCompatModule(t *testing.T) {
	out := compile(t, transform.Input{ID: "page.jsx", SourceRoot: "."}, `
import { Page, wx } from 'wn'
export default class extends Page {
}
`)
	assert.Equal(t, code(`
var _wn = require("../modules/wn.js");

Page({});
`), out.Behavior)
}

func TestImportPathsFromNestedPage(t *testing.T) {
	out := compile(t, transform.Input{ID: "pages/index/index.jsx", SourceRoot: "."}, `
import { Page, wx } from 'wn'
import util, { format as fmt } from '../../utils/util.js'
import * as dates from 'date-fns'

export default class extends Page {
  async onShow() {
    const info = await wx.getSystemInfo()
    const wx2 = fmt(info, dates.today())
    console.log(util, wx2)
  }
  onHide(util) {
    return util
  }
}
`)
	assert.Equal(t, code(`
var _wn = require("../../../modules/wn.js");
var _util = require("../../../utils/util.js");
var _dateFns = require("../../../modules/date-fns.js");

Page({
  onShow: async function () {
    const info = await _wn.wx.getSystemInfo();
    const wx2 = (0, _util.format)(info, _dateFns.today());
    console.log(_util.default, wx2);
  },
  onHide: function (util) {
    return util;
  }
});
`), out.Behavior)
}

func TestLocalModuleExports(t *testing.T) {
	out := compile(t, transform.Input{ID: "utils/index.js", SourceRoot: "."}, `
import { clamp } from './math'
export const min = 0, max = 10
export function limit(v) {
  return clamp(v, min, max)
}
export { clamp }
export * from './format'
`)
	assert.Equal(t, code(`
var _math = require("./math.js");
var _format = require("./format.js");

const min = 0, max = 10;
exports.min = min;
exports.max = max;
function limit(v) {
  return (0, _math.clamp)(v, min, max);
}
exports.limit = limit;
exports.clamp = _math.clamp;
Object.keys(_format).forEach(function (key) {
  if (key === "default" || key === "__esModule") return;
  exports[key] = _format[key];
});
`), out.Behavior)
}

func TestTemplateFunction(t *testing.T) {
	out := compile(t, transform.Input{}, `
export default function template({index, msg, time}) {
  return (
    <view>
      <text> {index}: {msg} </text>
      <text> Time: {time} </text>
    </view>
  )
}
`)
	assert.Equal(t, transform.RoleTemplate, out.Role)
	assert.Equal(t, "template", out.Name)
	assert.Empty(t, out.Behavior)
	assert.Equal(t, code(`
<template name="template">
  <view>
    <text> {{index}}: {{msg}} </text>
    <text> Time: {{time}} </text>
  </view>
</template>
`), out.Markup)
}

func TestUnnamedTemplateFails(t *testing.T) {
	prog := parse(t, "anon.jsx", `export default ({ msg }) => <view>{msg}</view>`)
	_, err := transform.New(transform.Options{}).Transform(transform.Input{ID: "anon.jsx", Program: prog})
	require.Error(t, err)

	var nameErr *transform.TemplateNameError
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, "anon.jsx", nameErr.Module)
	assert.True(t, errors.Is(err, werrors.ErrStructural))
}

func TestTemplateInvocation(t *testing.T) {
	item := compile(t, transform.Input{ID: "msg-item.jsx"}, `
export default function MsgItem({index, msg, time}) {
  return (
    <view>
      <text> {index}: {msg} </text>
      <text> Time: {time} </text>
    </view>
  )
}
`)
	out := compile(t, transform.Input{
		ID:   "page.jsx",
		Deps: map[string]*transform.Output{"msg-item.jsx": item},
	}, `
import MsgItem from './msg-item.jsx'

export default class Test extends Page {
  data = {
    x: 'hi',
  }
  render() {
    return (
      <view>
        <MsgItem {...item} {...rest} title="hi" index={1} x={x} maybeNot={x}/>
      </view>
    )
  }
}
`)
	assert.Equal(t, code(`
<import src="../msg-item.wxml" />
<view>
  <template is="MsgItem" data="{{...item, ...rest, title: 'hi', index: 1, x}}">
  </template>
</view>
`), out.Markup)
	assert.Equal(t, code(`
Page({
  data: {
    x: 'hi'
  }
});
`), out.Behavior)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0].Error(), "maybeNot")
}

func TestStylesheetBlocks(t *testing.T) {
	out := compile(t, transform.Input{Stylesheet: ".page { color: red; }"}, `
import { Page, WXSS } from 'wn'

WXSS`+"`"+`
.title { font-size: 16px; }
`+"`"+`

export default class extends Page {}
`)
	assert.Equal(t, "Page({});", out.Behavior)
	assert.Equal(t, "\n.title { font-size: 16px; }\n", out.Style)
	assert.Equal(t, ".page { color: red; }\n\n.title { font-size: 16px; }\n", out.Stylesheet())
}

func TestTransformIsIdempotent(t *testing.T) {
	src := `
import { createStore } from 'redux'
export default class extends Component {
  static propTypes = { a: PropTypes.number }
  render() { return <view onTap={this.tap}>{a}</view> }
  tap() { this.setState({ a: createStore() }) }
}
`
	prog := parse(t, "c.jsx", src)
	tr := transform.New(transform.DefaultOptions())
	first, err := tr.Transform(transform.Input{ID: "c.jsx", Program: prog})
	require.NoError(t, err)
	second, err := tr.Transform(transform.Input{ID: "c.jsx", Program: prog})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
