package eval

import (
	"fmt"

	"github.com/leafo/mfc/internal/ast"
	"github.com/leafo/mfc/internal/pitch"
	"github.com/leafo/mfc/internal/value"
)

// evalExpr evaluates an expression-position AST node against scope.
func (e *Evaluator) evalExpr(node ast.Node, scope *value.Scope) (value.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return e.evalLiteral(n)
	case *ast.Identifier:
		v, ok := scope.Lookup(n.Name)
		if !ok {
			return nil, fmt.Errorf("unresolved identifier %q", n.Name)
		}
		return v, nil
	case *ast.ArrayLit:
		arr := &value.Array{}
		for _, el := range n.Elements {
			v, err := e.evalExpr(el, scope)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, v)
		}
		return arr, nil
	case *ast.Call:
		return e.evalCall(n, scope)
	case *ast.MemberAccess:
		return e.evalMemberAccess(n, scope)
	default:
		return nil, &InternalError{Detail: fmt.Sprintf("unexpected expression node %T", node)}
	}
}

func (e *Evaluator) evalLiteral(n *ast.Literal) (value.Value, error) {
	switch n.Kind {
	case "number":
		switch v := n.Value.(type) {
		case int64:
			return value.Int{V: v}, nil
		case float64:
			return value.Number{V: v}, nil
		default:
			return nil, &InternalError{Detail: "number literal with unexpected Go type"}
		}
	case "string":
		return value.Str{V: n.Value.(string)}, nil
	case "pitch":
		p, err := pitch.Parse(n.Value.(string))
		if err != nil {
			return nil, err
		}
		return value.PitchV{V: p}, nil
	case "duration":
		d, err := pitch.ParseDuration(n.Value.(string))
		if err != nil {
			return nil, err
		}
		return value.DurationV{V: d}, nil
	default:
		return nil, &InternalError{Detail: "literal with unknown kind " + n.Kind}
	}
}

// evalMemberAccess reads a field off a module object, e.g. a plain
// constant exported by an imported file's header assignments.
func (e *Evaluator) evalMemberAccess(n *ast.MemberAccess, scope *value.Scope) (value.Value, error) {
	modVal, ok := scope.Lookup(n.Module)
	if !ok {
		return nil, fmt.Errorf("unresolved module %q", n.Module)
	}
	mod, ok := modVal.(*value.Object)
	if !ok {
		return nil, fmt.Errorf("%q is not a module", n.Module)
	}
	v, ok := mod.Get(n.Name)
	if !ok {
		return nil, fmt.Errorf("%s.%s is not defined", n.Module, n.Name)
	}
	return v, nil
}

// evalCall resolves and invokes a qualified (module.fn) or
// unqualified (fn) native-function call.
func (e *Evaluator) evalCall(n *ast.Call, scope *value.Scope) (value.Value, error) {
	args := make([]value.Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := e.evalExpr(a, scope)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	var target value.Value
	if n.Module != "" {
		modVal, ok := scope.Lookup(n.Module)
		if !ok {
			return nil, fmt.Errorf("unresolved module %q", n.Module)
		}
		mod, ok := modVal.(*value.Object)
		if !ok {
			return nil, fmt.Errorf("%q is not a module", n.Module)
		}
		fnVal, ok := mod.Get(n.Name)
		if !ok {
			return nil, fmt.Errorf("%s.%s is not defined", n.Module, n.Name)
		}
		target = fnVal
	} else {
		fnVal, ok := scope.Lookup(n.Name)
		if !ok {
			return nil, fmt.Errorf("%s is not defined", n.Name)
		}
		target = fnVal
	}

	switch fn := target.(type) {
	case *value.NativeFunc:
		return fn.Fn(args)
	default:
		return nil, fmt.Errorf("%s is not callable", n.Name)
	}
}
