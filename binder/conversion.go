package binder

import (
	"fmt"

	"github.com/viant/svlang/eval"
)

// ConversionExpr is the binder's explicit widening/narrowing node (spec
// section 3.6's ConversionExpression): every context-determined operand
// that doesn't already match the expression's combined width is wrapped
// in one of these rather than silently resized inside the evaluator.
type ConversionExpr struct {
	Inner  eval.Expr
	Width  int
	Signed bool
}

func (c ConversionExpr) Eval(env *eval.Env, fns *eval.FunctionTable) (eval.ConstantValue, error) {
	v, err := c.Inner.Eval(env, fns)
	if err != nil {
		return eval.ConstantValue{}, err
	}
	if v.Kind != eval.KindInt {
		return eval.ConstantValue{}, fmt.Errorf("eval: conversion applied to non-integral operand")
	}
	return eval.IntValue(v.Int.Resize(c.Width, c.Signed)), nil
}
