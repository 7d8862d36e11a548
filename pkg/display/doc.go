// Package display adapts rendered circuits to the places they are shown: a
// notebook cell or a browser tab.
//
// Two Inline implementations share one interface. Base always hands back the
// HTML string. Offline, when asked for notebook output, serves the document
// from a temporary file next to the notebook through an iframe, because large
// HTML+JS payloads do not survive being embedded in cell output.
//
// The notebook capability is not linked in here. It is supplied as a Resolver
// and looked up the first time notebook output is requested, so using this
// package outside a notebook never fails until inline display is asked for.
package display
