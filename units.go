package msize

// Per-unit byte costs assigned to primitive value categories. These are
// fixed modelling constants, not measurements: they describe a conceptual
// per-unit cost and make no promise of byte-exact agreement with the
// allocator.
const (
	BoolSize   = 4 // a boolean value
	NumberSize = 8 // any numeric kind, regardless of width or magnitude
	BigIntSize = 8 // an arbitrary-precision integer
	CharSize   = 2 // each character of string data
	DateSize   = 8 // a calendar timestamp
	RefSize    = 8 // a reference to an already-visited composite
	AbsentSize = 1 // no value at all
	NullSize   = 8 // a typed nil
)

// Base overheads charged once per composite value, independent of its
// contents. An empty container still costs its base overhead.
const (
	ObjectOverhead  = 16 // structured objects (the catch-all shape)
	ArrayOverhead   = 16 // ordered collections
	MapOverhead     = 48 // keyed collections
	SetOverhead     = 32 // unique-value collections
	RegexpOverhead  = 16 // compiled regular expressions
	WeakRefOverhead = 16 // weak references, beyond the reference slot
	FuncOverhead    = 32 // callable values, beyond their name text
)
