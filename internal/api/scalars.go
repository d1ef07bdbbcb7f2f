package api

import (
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// ObjectScalar is a free-form JSON object, used for options arguments.
var ObjectScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Object",
	Description: "A free-form JSON object.",
	Serialize: func(value interface{}) interface{} {
		if m, ok := value.(map[string]interface{}); ok {
			return m
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		if m, ok := value.(map[string]interface{}); ok {
			return m
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		obj, ok := valueAST.(*ast.ObjectValue)
		if !ok {
			return nil
		}
		return literalValue(obj)
	},
})

// literalValue converts an inline GraphQL literal to its Go value.
func literalValue(v ast.Value) interface{} {
	switch v := v.(type) {
	case *ast.ObjectValue:
		out := make(map[string]interface{}, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Name.Value] = literalValue(f.Value)
		}
		return out
	case *ast.ListValue:
		out := make([]interface{}, 0, len(v.Values))
		for _, item := range v.Values {
			out = append(out, literalValue(item))
		}
		return out
	case *ast.StringValue:
		return v.Value
	case *ast.EnumValue:
		return v.Value
	case *ast.BooleanValue:
		return v.Value
	case *ast.IntValue:
		if n, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			return n
		}
		return v.Value
	case *ast.FloatValue:
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			return f
		}
		return v.Value
	default:
		return nil
	}
}
