package interpreter

import (
	"github.com/Peter-Roger/relathon/pkg/runtime"
)

type breakSignal struct{}

func (breakSignal) Error() string {
	return "break"
}

type continueSignal struct{}

func (continueSignal) Error() string {
	return "continue"
}

type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return"
}
