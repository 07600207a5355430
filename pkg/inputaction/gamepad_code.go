// SPDX-License-Identifier: MPL-2.0

package inputaction

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// GamepadNone binds no gamepad button. It is the zero value.
	GamepadNone GamepadCode = "None"
	// GamepadA is the bottom face button.
	GamepadA GamepadCode = "A"
	// GamepadB is the right face button.
	GamepadB GamepadCode = "B"
	// GamepadX is the left face button.
	GamepadX GamepadCode = "X"
	// GamepadY is the top face button.
	GamepadY GamepadCode = "Y"
	// GamepadSwitchLeftMenu is the left menu button (Back/Select/Share).
	GamepadSwitchLeftMenu GamepadCode = "SwitchLeftMenu"
	// GamepadSwitchRightMenu is the right menu button (Start/Options).
	GamepadSwitchRightMenu GamepadCode = "SwitchRightMenu"
	// GamepadGuide is the vendor logo button.
	GamepadGuide GamepadCode = "Guide"
	// GamepadLeftJoystickButton is a press on the left stick.
	GamepadLeftJoystickButton GamepadCode = "LeftJoystickButton"
	// GamepadRightJoystickButton is a press on the right stick.
	GamepadRightJoystickButton GamepadCode = "RightJoystickButton"
	// GamepadSwitchLeftBumper is the left shoulder button.
	GamepadSwitchLeftBumper GamepadCode = "SwitchLeftBumper"
	// GamepadSwitchRightBumper is the right shoulder button.
	GamepadSwitchRightBumper GamepadCode = "SwitchRightBumper"
	// GamepadDpadNorth is d-pad up.
	GamepadDpadNorth GamepadCode = "DpadNorth"
	// GamepadDpadSouth is d-pad down.
	GamepadDpadSouth GamepadCode = "DpadSouth"
	// GamepadDpadWest is d-pad left.
	GamepadDpadWest GamepadCode = "DpadWest"
	// GamepadDpadEast is d-pad right.
	GamepadDpadEast GamepadCode = "DpadEast"
	// GamepadMisc1 is the extra button on some controllers (capture, mic).
	GamepadMisc1 GamepadCode = "Misc1"
	// GamepadPaddle1 is the upper right paddle.
	GamepadPaddle1 GamepadCode = "Paddle1"
	// GamepadPaddle2 is the upper left paddle.
	GamepadPaddle2 GamepadCode = "Paddle2"
	// GamepadPaddle3 is the lower right paddle.
	GamepadPaddle3 GamepadCode = "Paddle3"
	// GamepadPaddle4 is the lower left paddle.
	GamepadPaddle4 GamepadCode = "Paddle4"
	// GamepadTouchpad is a touchpad click.
	GamepadTouchpad GamepadCode = "Touchpad"
	// GamepadLeftTrigger is the left analog trigger.
	GamepadLeftTrigger GamepadCode = "LeftTrigger"
	// GamepadRightTrigger is the right analog trigger.
	GamepadRightTrigger GamepadCode = "RightTrigger"
)

// ErrInvalidGamepadCode is the sentinel error wrapped by InvalidGamepadCodeError.
var ErrInvalidGamepadCode = errors.New("invalid gamepad code")

// gamepadCodes lists every member of the enumeration in declaration order.
var gamepadCodes = []GamepadCode{
	GamepadNone,
	GamepadA,
	GamepadB,
	GamepadX,
	GamepadY,
	GamepadSwitchLeftMenu,
	GamepadSwitchRightMenu,
	GamepadGuide,
	GamepadLeftJoystickButton,
	GamepadRightJoystickButton,
	GamepadSwitchLeftBumper,
	GamepadSwitchRightBumper,
	GamepadDpadNorth,
	GamepadDpadSouth,
	GamepadDpadWest,
	GamepadDpadEast,
	GamepadMisc1,
	GamepadPaddle1,
	GamepadPaddle2,
	GamepadPaddle3,
	GamepadPaddle4,
	GamepadTouchpad,
	GamepadLeftTrigger,
	GamepadRightTrigger,
}

type (
	// GamepadCode names a gamepad button from the host's closed enumeration.
	// The empty string is treated as GamepadNone.
	GamepadCode string

	// InvalidGamepadCodeError is returned when text does not name a member of
	// the GamepadCode enumeration. It wraps ErrInvalidGamepadCode for errors.Is().
	InvalidGamepadCodeError struct {
		Value string
	}
)

// GamepadCodes returns a copy of all valid gamepad codes in declaration order.
func GamepadCodes() []GamepadCode {
	return slices.Clone(gamepadCodes)
}

// ParseGamepadCode converts text into a GamepadCode. Matching is exact.
// Empty text yields GamepadNone.
func ParseGamepadCode(s string) (GamepadCode, error) {
	if s == "" {
		return GamepadNone, nil
	}
	c := GamepadCode(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// String returns the enumeration member name.
func (c GamepadCode) String() string {
	if c == "" {
		return string(GamepadNone)
	}
	return string(c)
}

// Validate returns nil if c is a member of the enumeration (or empty).
func (c GamepadCode) Validate() error {
	if c == "" || slices.Contains(gamepadCodes, c) {
		return nil
	}
	return &InvalidGamepadCodeError{Value: string(c)}
}

// UnmarshalText implements encoding.TextUnmarshaler so decoders reject
// values outside the enumeration.
func (c *GamepadCode) UnmarshalText(text []byte) error {
	parsed, err := ParseGamepadCode(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c GamepadCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Error implements the error interface.
func (e *InvalidGamepadCodeError) Error() string {
	names := make([]string, len(gamepadCodes))
	for i, c := range gamepadCodes {
		names[i] = string(c)
	}
	return fmt.Sprintf("invalid gamepad code %q (valid: %s)", e.Value, strings.Join(names, ", "))
}

// Unwrap returns ErrInvalidGamepadCode for errors.Is() compatibility.
func (e *InvalidGamepadCodeError) Unwrap() error { return ErrInvalidGamepadCode }
