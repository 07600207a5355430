// SPDX-License-Identifier: MPL-2.0

// Package regen keeps generated input action code in sync with project
// configuration.
//
// A Scheduler watches every gamemode project's root directory for .addon
// changes, queues a regeneration request per accepted change, and runs each
// request as an asynchronous Pass: read the actions, render them with
// codegen, and write <code>/Generated/InputActions.generated.cs. Progress is
// reported stage by stage to an Observer created for that pass.
package regen
