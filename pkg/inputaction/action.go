// SPDX-License-Identifier: MPL-2.0

// Package inputaction defines the input action model shared by the config
// reader and the code emitter.
//
// An Action is built fresh from the project config on every regeneration pass
// and is never mutated afterwards.
package inputaction

// Action is one named input binding read from a project's InputSettings.
type Action struct {
	// Name is both the generated accessor identifier and the runtime lookup
	// key. Actions with an empty name are not emitted.
	Name string `json:"name"`
	// GroupName is a free-form grouping label.
	GroupName string `json:"groupName"`
	// KeyboardCode is the raw keyboard binding identifier. It is not
	// validated against any keyboard enumeration.
	KeyboardCode string `json:"keyboardCode"`
	// GamepadCode is the gamepad binding.
	GamepadCode GamepadCode `json:"gamepadCode"`
}

// New returns an Action with the given attributes in emitter argument order.
func New(name, groupName, keyboardCode string, gamepadCode GamepadCode) Action {
	return Action{
		Name:         name,
		GroupName:    groupName,
		KeyboardCode: keyboardCode,
		GamepadCode:  gamepadCode,
	}
}

// Emittable reports whether the action produces an accessor.
func (a Action) Emittable() bool {
	return a.Name != ""
}
