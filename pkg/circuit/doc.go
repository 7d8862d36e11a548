// Package circuit holds the circuit data structure handed to the renderer.
//
// The renderer treats circuits as opaque: anything implementing Source can be
// rendered, and Source only promises a conversion to the JSON payload the
// templates and the browser-side renderer consume. Circuit is the bundled
// implementation; Dict wraps a circuit that is already in serialised form.
package circuit
