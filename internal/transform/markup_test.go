package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wncli/wn/internal/transform"
)

// renderPage compiles a page whose render method returns markup.
func renderPage(t *testing.T, markup string) *transform.Output {
	t.Helper()
	return compile(t, transform.Input{ID: "page.jsx"}, `
export default class extends Page {
  render() {
    return (
      `+markup+`
    )
  }
}
`)
}

func TestMarkup(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "data binding",
			markup: `<view>{message}</view>`,
			want:   `<view>{{message}}</view>`,
		},
		{
			name: "template string attributes",
			markup: "<view>\n" +
				"  <view id={`item-${id}`}></view>\n" +
				"  <view id={`${prefix}item-${id}-${index}`}></view>\n" +
				"</view>",
			want: code(`
<view>
  <view id="item-{{id}}">
  </view>
  <view id="{{prefix}}item-{{id}}-{{index}}">
  </view>
</view>
`),
		},
		{
			name:   "directive",
			markup: `<view if={condition}></view>`,
			want:   "<view wx:if=\"{{condition}}\">\n</view>",
		},
		{
			name:   "boolean literal",
			markup: `<checkbox checked={false}></checkbox>`,
			want:   "<checkbox checked=\"{{false}}\">\n</checkbox>",
		},
		{
			name:   "valueless attribute",
			markup: `<checkbox checked />`,
			want:   `<checkbox checked="{{true}}" />`,
		},
		{
			name:   "ternary",
			markup: `<view hidden={flag ? true : false}></view>`,
			want:   "<view hidden=\"{{flag ? true : false}}\">\n</view>",
		},
		{
			name:   "arithmetic",
			markup: `<view>{a + b} + {c} + d</view>`,
			want:   `<view>{{a + b}} + {{c}} + d</view>`,
		},
		{
			name:   "comparison",
			markup: `<view if={length > 5}></view>`,
			want:   "<view wx:if=\"{{length > 5}}\">\n</view>",
		},
		{
			name:   "string concatenation",
			markup: `<view>{"hello " + name}</view>`,
			want:   `<view>{{"hello " + name}}</view>`,
		},
		{
			name:   "member access",
			markup: `<view>{object.key} {array[0]}</view>`,
			want:   `<view>{{object.key}} {{array[0]}}</view>`,
		},
		{
			name:   "array literal",
			markup: `<view for={[zero, 1, 2, 3, 4]}> {item} </view>`,
			want:   `<view wx:for="{{[zero, 1, 2, 3, 4]}}"> {{item}} </view>`,
		},
		{
			name: "block list",
			markup: "<block for={[1, 2, 3]}>\n" +
				"  <view> {index}: {item} </view>\n" +
				"</block>",
			want: code(`
<block wx:for="{{[1, 2, 3]}}">
  <view> {{index}}: {{item}} </view>
</block>
`),
		},
		{
			name:   "list key",
			markup: `<view for={array} key="message"> {index}: {item.message} </view>`,
			want:   `<view wx:for="{{array}}" wx:key="message"> {{index}}: {{item.message}} </view>`,
		},
		{
			name:   "object literal",
			markup: `<view data={{ foo: 0, bar: 1 }}></view>`,
			want:   "<view data=\"{{ foo: 0, bar: 1 }}\">\n</view>",
		},
		{
			name: "conditional chain",
			markup: "<view>\n" +
				"  <view if={length > 5}> 1 </view>\n" +
				"  <view elif={length > 2}> 2 </view>\n" +
				"  <view else> 3 </view>\n" +
				"</view>",
			want: code(`
<view>
  <view wx:if="{{length > 5}}"> 1 </view>
  <view wx:elif="{{length > 2}}"> 2 </view>
  <view wx:else> 3 </view>
</view>
`),
		},
		{
			name:   "fragment",
			markup: `<><view /></>`,
			want:   "<block>\n  <view />\n</block>",
		},
		{
			name:   "lower-case event",
			markup: `<view ontap={this.select}></view>`,
			want:   "<view bindtap=\"select\">\n</view>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderPage(t, tt.markup)
			assert.Equal(t, tt.want, out.Markup)
			assert.Equal(t, "Page({});", out.Behavior)
			assert.Empty(t, out.Warnings)
		})
	}
}

func TestMarkupEventHandler(t *testing.T) {
	out := compile(t, transform.Input{}, `
export default class extends Page {
  count = 1

  handleTap(event) {
    this.count++
  }

  render() {
    return <button onTap={this.handleTap}>click</button>
  }
}
`)
	assert.Equal(t, `<button bindtap="handleTap">click</button>`, out.Markup)
	assert.Equal(t, code(`
Page({
  count: 1,
  handleTap: function (event) {
    this.count++;
  }
});
`), out.Behavior)
}

func TestMarkupArrayData(t *testing.T) {
	out := compile(t, transform.Input{}, `
export default class extends Page {
  data = {
    array: [{ message: 'foo' }, { message: 'bar' }]
  }
  render() {
    return <view for={array}>{item.message}</view>
  }
}
`)
	assert.Equal(t, `<view wx:for="{{array}}">{{item.message}}</view>`, out.Markup)
	assert.Equal(t, code(`
Page({
  data: {
    array: [{
      message: 'foo'
    }, {
      message: 'bar'
    }]
  }
});
`), out.Behavior)
}

func TestMarkupSpreadAttributeWarns(t *testing.T) {
	out := renderPage(t, `<view {...props} id="a" />`)
	assert.Equal(t, `<view id="a" />`, out.Markup)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0].Error(), "{...props}")
}

func TestMarkupTemplateImportsAreDeduplicated(t *testing.T) {
	item := compile(t, transform.Input{ID: "item.jsx"}, `export default function Item({ a }) { return <text>{a}</text> }`)
	out := compile(t, transform.Input{
		ID:   "list.jsx",
		Deps: map[string]*transform.Output{"item.jsx": item},
	}, `
import Item from './item'
export default class extends Component {
  render() {
    return (
      <view>
        <Item a={a} />
        <Item a={a} />
      </view>
    )
  }
}
`)
	assert.Equal(t, code(`
<import src="../item.wxml" />
<view>
  <template is="Item" data="{{a}}">
  </template>
  <template is="Item" data="{{a}}">
  </template>
</view>
`), out.Markup)
	assert.Equal(t, `{"component":true}`, out.ConfigJSON())
}
