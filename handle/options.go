package handle

// MaxSlots is the largest number of live handles a table can address.
const MaxSlots = 1 << 16

// Options configures a Table.
type Options struct {
	// MaxHandles limits the number of live handles. Values outside
	// (0, MaxSlots] mean MaxSlots.
	MaxHandles int

	// Mask is XORed into every handle. Zero picks a random mask.
	Mask uint32
}

// DefaultOptions contains the default table configuration.
var DefaultOptions = Options{
	MaxHandles: MaxSlots,
}
