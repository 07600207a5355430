// SPDX-License-Identifier: MPL-2.0

// Package project models the game projects the generator works on.
//
// Project is the read-only view the regeneration pipeline depends on. The
// file-backed implementation, AddonProject, reads a project's .addon file
// (JSON, compiled with CUE) and refreshes its snapshot whenever the file
// changes on disk. Workspace discovers .addon files under configured search
// roots and tells subscribers when the set of known projects changes.
package project
