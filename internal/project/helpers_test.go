// SPDX-License-Identifier: MPL-2.0

package project

import "cuelang.org/go/cue"

func cuePath(fields ...string) cue.Path {
	sels := make([]cue.Selector, len(fields))
	for i, f := range fields {
		sels[i] = cue.Str(f)
	}
	return cue.MakePath(sels...)
}
