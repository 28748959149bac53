package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wncli/wn/internal/jsparse"
)

func TestObjectKeepsInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("z", 1)
	o.Set("a", "x<y>")
	o.Set("z", 2)

	assert.Equal(t, []string{"z", "a"}, o.Keys())
	assert.Equal(t, 2, o.Len())
	v, ok := o.Get("z")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	b, err := o.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":2,"a":"x<y>"}`, string(b))

	var nilObj *Object
	assert.Equal(t, 0, nilObj.Len())
}

func TestConfigValue(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    string
		wantErr bool
	}{
		{name: "string", src: `'问塔'`, want: `"问塔"`},
		{name: "numeric string stays a string", src: `'10'`, want: `"10"`},
		{name: "yaml keyword stays a string", src: `'yes'`, want: `"yes"`},
		{name: "integer", src: `50`, want: `50`},
		{name: "negative", src: `-1.5`, want: `-1.5`},
		{name: "boolean", src: `true`, want: `true`},
		{name: "null", src: `null`, want: `null`},
		{
			name: "nested object keeps order",
			src:  `{ z: 1, a: { list: ['b', 'a'] }, 'quoted-key': false }`,
			want: `{"z":1,"a":{"list":["b","a"]},"quoted-key":false}`,
		},
		{name: "call", src: `isDebug()`, wantErr: true},
		{name: "identifier", src: `debug`, wantErr: true},
		{name: "template", src: "`x`", wantErr: true},
		{name: "shorthand property", src: `{ debug }`, wantErr: true},
		{name: "hole", src: `[1, , 2]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := jsparse.ParseExpression(tt.src)
			require.NoError(t, err)

			v, err := configValue(x)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			b, err := marshalJSON(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestPrettifyMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single line", "<view>hi</view>", "<view>hi</view>"},
		{"empty element", "<view></view>", "<view>\n</view>"},
		{"nested", "<a><b><c /></b></a>", "<a>\n  <b>\n    <c />\n  </b>\n</a>"},
		{"blank lines removed", "<a>\n\n   <b>x</b>\n\n</a>", "<a>\n  <b>x</b>\n</a>"},
		{"unbalanced closing", "</a></b>", "</a>\n</b>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prettifyMarkup(tt.in))
		})
	}
}

func TestAttrName(t *testing.T) {
	tests := map[string]string{
		"if":          "wx:if",
		"for-item":    "wx:for-item",
		"else":        "wx:else",
		"onTap":       "bindtap",
		"onLongPress": "bindlongpress",
		"ontouchend":  "bindtouchend",
		"on":          "on",
		"one-way":     "one-way",
		"class":       "class",
		"iffy":        "iffy",
	}
	for in, want := range tests {
		assert.Equal(t, want, attrName(in), in)
	}
}

func TestQuoteAttr(t *testing.T) {
	assert.Equal(t, `"a"`, quoteAttr("a"))
	assert.Equal(t, `'{{"x"}}'`, quoteAttr(`{{"x"}}`))
	assert.Equal(t, `"{{'a' + &quot;b&quot;}}"`, quoteAttr(`{{'a' + "b"}}`))
}

func TestRouteMember(t *testing.T) {
	tests := []struct {
		role  Role
		shape memberShape
		name  string
		want  route
	}{
		{RoleComponent, shapeField, "state", routeData},
		{RoleComponent, shapeMethod, "attached", routeLifecycle},
		{RoleComponent, shapeMethod, "onTap", routeMethods},
		{RoleComponent, shapeField, "window", routeBehavior},
		{RolePage, shapeMethod, "attached", routeBehavior},
		{RolePage, shapeField, "window", routeConfigFlatten},
		{RoleApp, shapeField, "window", routeConfig},
		{RoleApp, shapeMethod, "window", routeBehavior},
		{RoleGame, shapeField, "workers", routeConfig},
		{RoleGame, shapeMethod, "render", routeMarkup},
		{RoleApp, shapeMethod, "constructor", routeDrop},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, routeMember(tt.role, tt.shape, tt.name), "%s %s", tt.role, tt.name)
	}
}
