package codegen

import (
	"fmt"
	"strings"

	"github.com/monadlang/monad/internal/vm"
)

// RegisterRuntime wires the host-side implementation of every runtime
// helper external a compiled module may reference into machine. Every
// print_* helper writes one line to machine's output writer; print_raw
// is the exception, writing its argument's bytes verbatim since the
// quoted-show caller already appended the trailing newline itself.
func RegisterRuntime(machine *vm.VM) {
	machine.RegisterExternal("print_int", printf1("%d\n", func(a vm.Value) any { return a.I }))
	machine.RegisterExternal("print_float", printf1("%g\n", func(a vm.Value) any { return a.F }))
	machine.RegisterExternal("print_hex", printf1("0x%X\n", func(a vm.Value) any { return a.I }))
	machine.RegisterExternal("print_oct", printf1("0o%o\n", func(a vm.Value) any { return a.I }))
	machine.RegisterExternal("print_char", func(v *vm.VM, args []vm.Value) (vm.Value, error) {
		fmt.Fprintf(v.Output(), "%c\n", byte(args[0].I))
		return vm.Value{}, nil
	})
	machine.RegisterExternal("print_string", func(v *vm.VM, args []vm.Value) (vm.Value, error) {
		fmt.Fprintf(v.Output(), "%s\n", args[0].S)
		return vm.Value{}, nil
	})
	machine.RegisterExternal("print_raw", func(v *vm.VM, args []vm.Value) (vm.Value, error) {
		fmt.Fprint(v.Output(), args[0].S)
		return vm.Value{}, nil
	})
	machine.RegisterExternal("print_bin", func(v *vm.VM, args []vm.Value) (vm.Value, error) {
		fmt.Fprint(v.Output(), formatBinary(args[0].I)+"\n")
		return vm.Value{}, nil
	})
}

func printf1(format string, extract func(vm.Value) any) vm.ExternalFunc {
	return func(v *vm.VM, args []vm.Value) (vm.Value, error) {
		fmt.Fprintf(v.Output(), format, extract(args[0]))
		return vm.Value{}, nil
	}
}

// formatBinary renders n MSB-first with a "0b" prefix and no leading
// zero padding; zero renders as "0b0".
func formatBinary(n int64) string {
	u := uint64(n)
	if u == 0 {
		return "0b0"
	}
	highest := 63
	for highest > 0 && u&(1<<uint(highest)) == 0 {
		highest--
	}
	var sb strings.Builder
	sb.WriteString("0b")
	for i := highest; i >= 0; i-- {
		if u&(1<<uint(i)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
