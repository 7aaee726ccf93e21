package shader

import (
	"log"
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/glmandel/gfx"
)

// Binding maps the `uniform:"name"` tagged fields of a struct to the
// locations they resolved to in one program.
type Binding struct {
	program   gfx.Program
	typ       reflect.Type
	fields    map[string]int
	locations map[string]int32
}

// Bind resolves the uniform locations of every tagged field in uniforms,
// which must be a struct or a pointer to one.
func Bind(dev gfx.Device, program gfx.Program, uniforms any) *Binding {
	t := reflect.TypeOf(uniforms)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	b := &Binding{
		program:   program,
		typ:       t,
		fields:    make(map[string]int),
		locations: make(map[string]int32),
	}

	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("uniform")
		if name == "" {
			continue
		}
		b.fields[name] = i
		b.locations[name] = dev.UniformLocation(program, name)
	}

	return b
}

// Location returns the resolved location of name, or -1.
func (b *Binding) Location(name string) int32 {
	loc, ok := b.locations[name]
	if !ok {
		return -1
	}
	return loc
}

// Push uploads the named uniforms from uniforms, or all of them if no names are given.
// The bound program is made current.
func (b *Binding) Push(dev gfx.Device, uniforms any, names ...string) {
	v := reflect.ValueOf(uniforms)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Type() != b.typ {
		log.Printf("uniforms of type %v pushed to binding for %v", v.Type(), b.typ)
		return
	}

	dev.UseProgram(b.program)

	if len(names) == 0 {
		for name := range b.fields {
			b.push(dev, v, name)
		}
		return
	}

	for _, name := range names {
		b.push(dev, v, name)
	}
}

func (b *Binding) push(dev gfx.Device, v reflect.Value, name string) {
	i, ok := b.fields[name]
	if !ok {
		log.Printf("no uniform %q in %v", name, b.typ)
		return
	}

	loc := b.locations[name]
	switch f := v.Field(i).Interface().(type) {
	case float32:
		dev.Uniform1f(loc, f)
	case int32:
		dev.Uniform1i(loc, f)
	case mgl32.Vec2:
		dev.Uniform2f(loc, f)
	default:
		log.Printf("unsupported uniform type %v", v.Field(i).Type())
	}
}
