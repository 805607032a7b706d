package topo

// RangeError reports an index that doesn't resolve to a live neuron or a dimension
// mismatch between a value vector and the layer it's meant for
type RangeError string

func (e RangeError) Error() string { return string(e) }

// LogicError reports API misuse: reading an unfixed cache slot through the read-only
// accessor, re-fixing a hard-fixed value, propagating error through an output neuron
// or building a net without enough layers. These aren't recoverable at runtime
type LogicError string

func (e LogicError) Error() string { return string(e) }
