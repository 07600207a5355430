// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"fmt"
	"strings"

	"github.com/peter-r-g/inputactions/pkg/inputaction"
)

const (
	// RuntimeNamespace is the host runtime namespace that declares GamepadCode.
	RuntimeNamespace = "Sandbox"

	// ContainerType is the generated class holding the accessors.
	ContainerType = "InputActions"
	// ValueType is the generated struct each accessor returns.
	ValueType = "InputAction"

	header = "// <auto-generated/>\n" +
		"// Generated from the project's InputSettings. Changes to this file are overwritten.\n"
)

// Emit renders actions into C# source under rootNamespace. Actions without a
// name are skipped; the rest keep their order.
func Emit(actions []inputaction.Action, rootNamespace string) []byte {
	var sb strings.Builder

	sb.WriteString(header)
	sb.WriteString("\n")

	if NeedsRuntimeImport(rootNamespace) {
		sb.WriteString(fmt.Sprintf("using %s;\n\n", RuntimeNamespace))
	}
	sb.WriteString(fmt.Sprintf("namespace %s;\n\n", rootNamespace))

	// Container
	sb.WriteString(fmt.Sprintf("public static class %s\n{\n", ContainerType))
	for _, a := range actions {
		ident, ok := Identifier(a.Name)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("\tpublic static %s %s { get; } = new( %s, %s, %s, GamepadCode.%s );\n",
			ValueType, ident,
			Quote(a.Name), Quote(a.GroupName), Quote(a.KeyboardCode), a.GamepadCode))
	}
	sb.WriteString("}\n\n")

	// Value type
	sb.WriteString(fmt.Sprintf("public readonly struct %s\n{\n", ValueType))
	sb.WriteString("\tpublic readonly string Name;\n")
	sb.WriteString("\tpublic readonly string GroupName;\n")
	sb.WriteString("\tpublic readonly string KeyboardCode;\n")
	sb.WriteString("\tpublic readonly GamepadCode GamepadCode;\n\n")
	sb.WriteString(fmt.Sprintf("\tpublic %s( string name, string groupName, string keyboardCode, GamepadCode gamepadCode )\n", ValueType))
	sb.WriteString("\t{\n")
	sb.WriteString("\t\tName = name;\n")
	sb.WriteString("\t\tGroupName = groupName;\n")
	sb.WriteString("\t\tKeyboardCode = keyboardCode;\n")
	sb.WriteString("\t\tGamepadCode = gamepadCode;\n")
	sb.WriteString("\t}\n\n")
	sb.WriteString(fmt.Sprintf("\tpublic static implicit operator string( %s action ) => action.Name;\n", ValueType))
	sb.WriteString("}\n")

	return []byte(sb.String())
}

// NeedsRuntimeImport reports whether generated code under ns must import the
// runtime namespace, i.e. ns is neither the runtime namespace nor nested in it.
func NeedsRuntimeImport(ns string) bool {
	return ns != RuntimeNamespace && !strings.HasPrefix(ns, RuntimeNamespace+".")
}

// Identifier derives the accessor name for an action name. It reports false
// for an empty name. A name starting with a digit gets a leading underscore.
func Identifier(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "_" + name, true
	}
	return name, true
}

// Quote renders s as a C# regular string literal.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		case '\u0085', '\u2028', '\u2029':
			// C# treats these as line terminators inside literals.
			sb.WriteString(fmt.Sprintf(`\u%04X`, r))
		default:
			if r < 0x20 || r == 0x7f {
				sb.WriteString(fmt.Sprintf(`\u%04X`, r))
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
