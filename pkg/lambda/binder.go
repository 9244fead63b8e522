package lambda

import (
	"fmt"
	"math"
	"reflect"
	"runtime"
	"strings"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// binder resolves declared parameter names to handler arguments. It is built
// once per wrapped handler and only read afterwards.
type binder struct {
	names   []string
	fn      reflect.Value
	in      []reflect.Type
	results int
	errOut  bool
}

// newBinder checks the handler against the declared parameter names. The
// handler must be a non-variadic func taking exactly one argument per name and
// returning (code), (code, body) or (code, body, headers), optionally followed
// by an error.
func newBinder(params []string, handler any) (*binder, error) {
	fn := reflect.ValueOf(handler)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fmt.Errorf("%w: handler must be a func, got %T", ErrConfig, handler)
	}

	ft := fn.Type()
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%w: handler %s must not be variadic", ErrConfig, funcName(fn))
	}
	if ft.NumIn() != len(params) {
		return nil, fmt.Errorf("%w: handler %s takes %d arguments but %d parameter names were declared",
			ErrConfig, funcName(fn), ft.NumIn(), len(params))
	}

	seen := make(map[string]bool, len(params))
	in := make([]reflect.Type, len(params))
	for i, name := range params {
		if name == "" {
			return nil, fmt.Errorf("%w: handler %s parameter %d has no name", ErrConfig, funcName(fn), i)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: handler %s declares parameter %q twice", ErrConfig, funcName(fn), name)
		}
		seen[name] = true
		in[i] = ft.In(i)
	}

	results := ft.NumOut()
	errOut := results > 0 && ft.Out(results-1) == errorType
	if errOut {
		results--
	}
	if results < 1 || results > 3 {
		return nil, fmt.Errorf("%w: handler %s must return (code[, body[, headers]][, error])", ErrConfig, funcName(fn))
	}

	return &binder{
		names:   append([]string(nil), params...),
		fn:      fn,
		in:      in,
		results: results,
		errOut:  errOut,
	}, nil
}

// bind resolves every declared name in order. Path parameters take
// precedence over reserved names; jwt_payload resolves only when allowed.
func (b *binder) bind(req *Request, reserved map[string]any, payloadAllowed bool, payload JWTPayload) ([]reflect.Value, error) {
	pathParams := req.PathParams()
	args := make([]reflect.Value, len(b.names))

	for i, name := range b.names {
		var value any
		if v, ok := pathParams[name]; ok {
			value = v
		} else if v, ok := reserved[name]; ok {
			value = v
		} else if name == ParamJWTPayload {
			if !payloadAllowed {
				return nil, fmt.Errorf("%w: handler got an unexpected argument %q, the route is not restricted by a bearer scheme", ErrBinding, name)
			}
			value = payload
		} else {
			return nil, fmt.Errorf("%w: handler got an unexpected argument %q", ErrBinding, name)
		}

		arg, err := assign(value, b.in[i])
		if err != nil {
			return nil, fmt.Errorf("%w: argument %q: %v", ErrBinding, name, err)
		}
		args[i] = arg
	}

	return args, nil
}

// call invokes the handler and spreads its results positionally into
// code, body and headers. A non-nil trailing error is returned as is.
func (b *binder) call(args []reflect.Value) (code, body, headers any, err error) {
	out := b.fn.Call(args)

	if b.errOut {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			return nil, nil, nil, last.Interface().(error)
		}
	}

	values := make([]any, 3)
	for i, v := range out {
		values[i] = v.Interface()
	}
	if isNil(values[1]) {
		values[1] = nil
	}

	return values[0], values[1], values[2], nil
}

func (b *binder) name() string {
	return funcName(b.fn)
}

func assign(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(value)
	switch {
	case v.Type().AssignableTo(t):
		return v, nil
	case isNumber(v.Kind()) && isNumber(t.Kind()):
		return convertNumber(v, t)
	case v.Kind() == t.Kind() && v.Type().ConvertibleTo(t):
		return v.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), t)
}

func convertNumber(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	overflow := fmt.Errorf("%v does not fit in %s", v.Interface(), t)

	var f float64
	switch {
	case isInt(v.Kind()):
		i := v.Int()
		switch {
		case isInt(t.Kind()):
			if out.OverflowInt(i) {
				return reflect.Value{}, overflow
			}
			out.SetInt(i)
			return out, nil
		case isUint(t.Kind()):
			if i < 0 || out.OverflowUint(uint64(i)) {
				return reflect.Value{}, overflow
			}
			out.SetUint(uint64(i))
			return out, nil
		}
		f = float64(i)
	case isUint(v.Kind()):
		u := v.Uint()
		switch {
		case isUint(t.Kind()):
			if out.OverflowUint(u) {
				return reflect.Value{}, overflow
			}
			out.SetUint(u)
			return out, nil
		case isInt(t.Kind()):
			if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
				return reflect.Value{}, overflow
			}
			out.SetInt(int64(u))
			return out, nil
		}
		f = float64(u)
	default:
		f = v.Float()
	}

	switch {
	case isFloat(t.Kind()):
		if out.OverflowFloat(f) {
			return reflect.Value{}, overflow
		}
		out.SetFloat(f)
	case isInt(t.Kind()):
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
			return reflect.Value{}, overflow
		}
		out.SetInt(int64(f))
	default:
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
			return reflect.Value{}, overflow
		}
		out.SetUint(uint64(f))
	}

	return out, nil
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumber(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k)
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func funcName(fn reflect.Value) string {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return "handler"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
