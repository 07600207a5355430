// SPDX-License-Identifier: MPL-2.0

// Package tui provides the live status board shown by 'inputactions watch
// --board'.
//
// The board is a Bubble Tea program with one notice per regeneration pass.
// Passes report progress through the regen.Observer returned by
// Board.ObserverFactory; each notice retires on its own once its pass has
// finished or errored.
package tui
