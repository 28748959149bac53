package transform

import (
	"github.com/wncli/wn/internal/jsast"
)

// propDescriptor is one entry of a component's `properties` bucket.
type propDescriptor struct {
	name  string
	typ   jsast.Expr
	value jsast.Expr
}

// interpretation is the result of routing every member of the exported
// class. Each routing step returns an updated copy.
type interpretation struct {
	attrs      []jsast.Expr
	methods    []jsast.Expr
	properties []propDescriptor
	config     *Object
	render     *jsast.Function
}

func (in interpretation) withAttr(p jsast.Expr) interpretation {
	in.attrs = append(append([]jsast.Expr(nil), in.attrs...), p)
	return in
}

func (in interpretation) withMethod(p jsast.Expr) interpretation {
	in.methods = append(append([]jsast.Expr(nil), in.methods...), p)
	return in
}

func (in interpretation) withConfig(key string, value any) interpretation {
	cfg := NewObject()
	for _, k := range in.config.Keys() {
		v, _ := in.config.Get(k)
		cfg.Set(k, v)
	}
	cfg.Set(key, value)
	in.config = cfg
	return in
}

// withProperty updates the descriptor for name, creating it at the end of
// the bucket on first use.
func (in interpretation) withProperty(name string, update func(*propDescriptor)) interpretation {
	props := append([]propDescriptor(nil), in.properties...)
	for i := range props {
		if props[i].name == name {
			update(&props[i])
			in.properties = props
			return in
		}
	}
	d := propDescriptor{name: name}
	update(&d)
	in.properties = append(props, d)
	return in
}

// interpretMembers routes the members of the exported class in
// declaration order.
func interpretMembers(role Role, class *jsast.Class, warn *warnings) interpretation {
	in := interpretation{config: NewObject()}
	for _, m := range class.Members {
		in = interpretMember(in, role, m, warn)
	}
	return in
}

func interpretMember(in interpretation, role Role, m *jsast.ClassMember, warn *warnings) interpretation {
	name := m.KeyName()
	shape := shapeField
	if m.Kind != jsast.MemberField {
		shape = shapeMethod
	}
	r := routeBehavior
	if !m.Computed {
		r = routeMember(role, shape, name)
	}

	switch r {
	case routeData:
		return in.withAttr(&jsast.Property{Key: &jsast.Ident{Name: "data"}, Value: fieldValue(m)})

	case routeDefaults:
		obj, ok := m.Value.(*jsast.Object)
		if !ok {
			warn.add(name, "expected an object literal")
			return in
		}
		for _, p := range staticProps(obj) {
			value := p.Value
			in = in.withProperty(jsast.PropName(p.Key), func(d *propDescriptor) { d.value = value })
		}
		return in

	case routeTypes:
		obj, ok := m.Value.(*jsast.Object)
		if !ok {
			warn.add(name, "expected an object literal")
			return in
		}
		for _, p := range staticProps(obj) {
			key := jsast.PropName(p.Key)
			token, ok := propTypeToken(p.Value)
			if !ok {
				warn.add(name+"."+key, "unrecognized property type")
			}
			in = in.withProperty(key, func(d *propDescriptor) {
				if ok {
					d.typ = &jsast.Ident{Name: token}
				}
			})
		}
		return in

	case routeConfig:
		v, err := configValue(m.Value)
		if err != nil {
			warn.add(name, "dropped from configuration: %v", err)
			return in
		}
		return in.withConfig(name, v)

	case routeConfigFlatten:
		v, err := configValue(m.Value)
		if err != nil {
			warn.add(name, "dropped from configuration: %v", err)
			return in
		}
		obj, ok := v.(*Object)
		if !ok {
			warn.add(name, "expected an object literal")
			return in
		}
		for _, k := range obj.Keys() {
			value, _ := obj.Get(k)
			in = in.withConfig(k, value)
		}
		return in

	case routeMarkup:
		fn, ok := m.Value.(*jsast.Function)
		if !ok {
			return in
		}
		if fn.Body != nil && len(fn.Body.Body) > 1 {
			warn.add(name, "must contain a single return statement")
		}
		in.render = fn
		return in

	case routeDrop:
		warn.add(name, "not supported on %s modules, dropped", role)
		return in

	case routeLifecycle:
		return in.withAttr(memberProperty(m))

	case routeMethods:
		return in.withMethod(memberProperty(m))
	}
	return in.withAttr(memberProperty(m))
}

// memberProperty converts a class member into a behavior-object property.
// Methods become `name: function () {}`; accessors keep their kind.
func memberProperty(m *jsast.ClassMember) *jsast.Property {
	p := &jsast.Property{Key: m.Key, Computed: m.Computed}
	fn, isFn := m.Value.(*jsast.Function)
	switch {
	case m.Kind == jsast.MemberGet && isFn:
		p.Kind, p.Value = jsast.PropGet, fn
	case m.Kind == jsast.MemberSet && isFn:
		p.Kind, p.Value = jsast.PropSet, fn
	case m.Kind == jsast.MemberMethod && isFn:
		p.Value = &jsast.Function{Params: fn.Params, Body: fn.Body, Async: fn.Async, Generator: fn.Generator}
	default:
		p.Value = fieldValue(m)
	}
	return p
}

func fieldValue(m *jsast.ClassMember) jsast.Expr {
	if m.Value == nil {
		return &jsast.Ident{Name: "undefined"}
	}
	return m.Value
}

// staticProps returns the plain `key: value` properties of an object.
func staticProps(obj *jsast.Object) []*jsast.Property {
	var props []*jsast.Property
	for _, x := range obj.Props {
		p, ok := x.(*jsast.Property)
		if !ok || p.Computed || p.Kind != jsast.PropInit || jsast.PropName(p.Key) == "" {
			continue
		}
		props = append(props, p)
	}
	return props
}

// propTypeToken reads `PropTypes.<token>` with an optional trailing
// `.isRequired`.
func propTypeToken(x jsast.Expr) (string, bool) {
	m, ok := x.(*jsast.Member)
	if !ok {
		return "", false
	}
	if m.Name == "isRequired" {
		if inner, ok := m.X.(*jsast.Member); ok {
			m = inner
		}
	}
	id, ok := m.X.(*jsast.Ident)
	if !ok || id.Name != "PropTypes" {
		return "", false
	}
	token, ok := propTypeTokens[m.Name]
	return token, ok
}

// rewriteSetState renames `this.setState(...)` calls to `this.setData(...)`.
func rewriteSetState(class *jsast.Class) *jsast.Class {
	r := &jsast.Rewriter{
		Leave: func(n jsast.Node) jsast.Node {
			call, ok := n.(*jsast.Call)
			if !ok {
				return n
			}
			callee, ok := call.Callee.(*jsast.Member)
			if !ok || callee.Name != "setState" {
				return n
			}
			if _, ok := callee.X.(*jsast.This); !ok {
				return n
			}
			c := *call
			c.Callee = &jsast.Member{X: callee.X, Name: "setData", Optional: callee.Optional}
			return &c
		},
	}
	out, _ := r.Expr(class).(*jsast.Class)
	return out
}

// descriptorProps renders the `properties` bucket.
func descriptorProps(props []propDescriptor) []jsast.Expr {
	out := make([]jsast.Expr, 0, len(props))
	for _, d := range props {
		typ := d.typ
		if typ == nil {
			typ = &jsast.Null{}
		}
		fields := []jsast.Expr{&jsast.Property{Key: &jsast.Ident{Name: "type"}, Value: typ}}
		if d.value != nil {
			fields = append(fields, &jsast.Property{Key: &jsast.Ident{Name: "value"}, Value: d.value})
		}
		out = append(out, &jsast.Property{Key: keyExpr(d.name), Value: &jsast.Object{Props: fields}})
	}
	return out
}
