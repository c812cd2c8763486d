package harness

// Write is a single little-endian memory write of Size bytes (1, 2 or 4).
type Write struct {
	Address uint32 `yaml:"address" json:"address"`
	Size    int    `yaml:"size,omitempty" json:"size,omitempty"`
	Value   uint32 `yaml:"value" json:"value"`
}

// Apply performs the write. A zero Size writes one byte.
func (w Write) Apply(m *Memory) {
	switch w.Size {
	case 0, 1:
		m.Write8(w.Address, uint8(w.Value))
	case 2:
		m.Write16(w.Address, uint16(w.Value))
	case 4:
		m.Write32(w.Address, w.Value)
	}
}

// W8 writes one byte.
func W8(address uint32, value uint8) Write {
	return Write{Address: address, Size: 1, Value: uint32(value)}
}

// W16 writes two bytes.
func W16(address uint32, value uint16) Write {
	return Write{Address: address, Size: 2, Value: uint32(value)}
}

// W32 writes four bytes.
func W32(address uint32, value uint32) Write {
	return Write{Address: address, Size: 4, Value: value}
}

// Writes returns a Mutation applying ws in order.
func Writes(ws ...Write) Mutation {
	return func(m *Memory) {
		for _, w := range ws {
			w.Apply(m)
		}
	}
}

// StandardCases returns the built-in regression suite covering read sizes,
// endianness, every comparison operator, delta values, AND/OR groups, bit
// reads and memory-to-memory comparisons.
func StandardCases() []Case {
	return []Case{
		// Basic reads
		{"8-bit read - basic", "0xH0001=5", Writes(W8(0x0001, 0)), Writes(W8(0x0001, 5)), true},
		{"8-bit read - max value 255", "0xH0002=255", Writes(W8(0x0002, 0)), Writes(W8(0x0002, 255)), true},
		{"8-bit read - zero value", "0xH0003=0", Writes(W8(0x0003, 99)), Writes(W8(0x0003, 0)), true},
		{"16-bit read - basic", "0x 0010=1000", Writes(W16(0x0010, 0)), Writes(W16(0x0010, 1000)), true},
		{"16-bit read - max value 65535", "0x 0012=65535", Writes(W16(0x0012, 0)), Writes(W16(0x0012, 65535)), true},
		{
			"16-bit read - little-endian verify", "0x 0014=513",
			Writes(W8(0x0014, 0), W8(0x0015, 0)),
			Writes(W8(0x0014, 0x01), W8(0x0015, 0x02)),
			true,
		},
		{"32-bit read - basic", "0xX0020=305419896", Writes(W32(0x0020, 0)), Writes(W32(0x0020, 0x12345678)), true},
		{"32-bit read - max value", "0xX0024=4294967295", Writes(W32(0x0024, 0)), Writes(W32(0x0024, 0xFFFFFFFF)), true},
		{
			"32-bit read - little-endian verify", "0xX0028=67305985",
			Writes(W32(0x0028, 0)),
			Writes(W8(0x0028, 0x01), W8(0x0029, 0x02), W8(0x002A, 0x03), W8(0x002B, 0x04)),
			true,
		},
		{"Address 0x0000 - read from start of memory", "0xH0000=42", Writes(W8(0x0000, 0)), Writes(W8(0x0000, 42)), true},

		// Comparison operators
		{"Equals (=) - match", "0xH0100=50", Writes(W8(0x0100, 0)), Writes(W8(0x0100, 50)), true},
		{"Not equals (!=) - different value", "0xH0101!=0", Writes(W8(0x0101, 0)), Writes(W8(0x0101, 1)), true},
		{"Less than (<) - below threshold", "0xH0102<100", Writes(W8(0x0102, 200)), Writes(W8(0x0102, 50)), true},
		{"Less than or equal (<=) - equal to threshold", "0xH0103<=100", Writes(W8(0x0103, 200)), Writes(W8(0x0103, 100)), true},
		{"Less than or equal (<=) - below threshold", "0xH0104<=100", Writes(W8(0x0104, 200)), Writes(W8(0x0104, 50)), true},
		{"Greater than (>) - above threshold", "0xH0105>100", Writes(W8(0x0105, 50)), Writes(W8(0x0105, 150)), true},
		{"Greater than or equal (>=) - equal to threshold", "0xH0106>=100", Writes(W8(0x0106, 50)), Writes(W8(0x0106, 100)), true},
		{"Greater than or equal (>=) - above threshold", "0xH0107>=100", Writes(W8(0x0107, 50)), Writes(W8(0x0107, 150)), true},

		// Conditions that must not fire
		{"FAIL: Equals - off by one (too low)", "0xH0200=100", Writes(W8(0x0200, 0)), Writes(W8(0x0200, 99)), false},
		{"FAIL: Equals - off by one (too high)", "0xH0201=100", Writes(W8(0x0201, 0)), Writes(W8(0x0201, 101)), false},
		{"FAIL: Not equals - same value", "0xH0202!=50", Writes(W8(0x0202, 0)), Writes(W8(0x0202, 50)), false},
		{"FAIL: Less than - equal (boundary)", "0xH0203<100", Writes(W8(0x0203, 50)), Writes(W8(0x0203, 100)), false},
		{"FAIL: Less than - above threshold", "0xH0204<100", Writes(W8(0x0204, 50)), Writes(W8(0x0204, 150)), false},
		{"FAIL: Greater than - equal (boundary)", "0xH0205>100", Writes(W8(0x0205, 150)), Writes(W8(0x0205, 100)), false},
		{"FAIL: Greater than - below threshold", "0xH0206>100", Writes(W8(0x0206, 150)), Writes(W8(0x0206, 50)), false},
		{
			"FAIL: 16-bit partial match - only low byte correct", "0x 0210=1000",
			Writes(W16(0x0210, 0)),
			Writes(W8(0x0210, 0xE8), W8(0x0211, 0x00)),
			false,
		},
		{
			"FAIL: 32-bit partial match - only 3 bytes correct", "0xX0220=305419896",
			Writes(W32(0x0220, 0)),
			Writes(W8(0x0220, 0x78), W8(0x0221, 0x56), W8(0x0222, 0x34), W8(0x0223, 0x00)),
			false,
		},

		// Delta and prior values
		{"Delta - value increased", "0xH0300>d0xH0300", Writes(W8(0x0300, 10)), Writes(W8(0x0300, 11)), true},
		{"Delta - value decreased", "0xH0301<d0xH0301", Writes(W8(0x0301, 100)), Writes(W8(0x0301, 50)), true},
		{"FAIL: Delta - value unchanged", "0xH0302>d0xH0302", Writes(W8(0x0302, 50)), Writes(W8(0x0302, 50)), false},
		{"FAIL: Delta - value decreased when expecting increase", "0xH0303>d0xH0303", Writes(W8(0x0303, 100)), Writes(W8(0x0303, 50)), false},
		{"Delta equals - value changed to specific", "d0xH0304=10_0xH0304=20", Writes(W8(0x0304, 10)), Writes(W8(0x0304, 20)), true},

		// AND and OR groups
		{
			"AND - both conditions true", "0xH0400=1_0xH0401=2",
			Writes(W8(0x0400, 0), W8(0x0401, 0)),
			Writes(W8(0x0400, 1), W8(0x0401, 2)),
			true,
		},
		{
			"FAIL: AND - first condition false", "0xH0402=1_0xH0403=2",
			Writes(W8(0x0402, 0), W8(0x0403, 0)),
			Writes(W8(0x0402, 99), W8(0x0403, 2)),
			false,
		},
		{
			"FAIL: AND - second condition false", "0xH0404=1_0xH0405=2",
			Writes(W8(0x0404, 0), W8(0x0405, 0)),
			Writes(W8(0x0404, 1), W8(0x0405, 99)),
			false,
		},
		{
			"FAIL: AND - both conditions false", "0xH0406=1_0xH0407=2",
			Writes(W8(0x0406, 0), W8(0x0407, 0)),
			Writes(W8(0x0406, 99), W8(0x0407, 99)),
			false,
		},
		{
			"AND - three conditions all true", "0xH0408=1_0xH0409=2_0xH040A=3",
			Writes(W8(0x0408, 0), W8(0x0409, 0), W8(0x040A, 0)),
			Writes(W8(0x0408, 1), W8(0x0409, 2), W8(0x040A, 3)),
			true,
		},
		{
			"OR - first alt group true", "S0xH0410=1S0xH0411=2",
			Writes(W8(0x0410, 0), W8(0x0411, 0)),
			Writes(W8(0x0410, 1)),
			true,
		},
		{
			"OR - second alt group true", "S0xH0412=1S0xH0413=2",
			Writes(W8(0x0412, 0), W8(0x0413, 0)),
			Writes(W8(0x0413, 2)),
			true,
		},
		{
			"OR - both alt groups true", "S0xH0414=1S0xH0415=2",
			Writes(W8(0x0414, 0), W8(0x0415, 0)),
			Writes(W8(0x0414, 1), W8(0x0415, 2)),
			true,
		},
		{
			"FAIL: OR - neither alt group true", "S0xH0416=1S0xH0417=2",
			Writes(W8(0x0416, 0), W8(0x0417, 0)),
			Writes(W8(0x0416, 99), W8(0x0417, 99)),
			false,
		},

		// Bit reads
		{"Bit0 set (value & 0x01)", "0xM0500=1", Writes(W8(0x0500, 0)), Writes(W8(0x0500, 0x01)), true},
		{"Bit7 set (value & 0x80)", "0xT0501=1", Writes(W8(0x0501, 0)), Writes(W8(0x0501, 0x80)), true},
		{"FAIL: Bit0 not set", "0xM0502=1", Writes(W8(0x0502, 0)), Writes(W8(0x0502, 0xFE)), false},
		{"Lower nibble check", "0xL0503=15", Writes(W8(0x0503, 0)), Writes(W8(0x0503, 0xFF)), true},
		{"Upper nibble check", "0xU0504=15", Writes(W8(0x0504, 0)), Writes(W8(0x0504, 0xF0)), true},

		// Memory to memory
		{
			"Mem-to-mem: two addresses equal", "0xH0600=0xH0601",
			Writes(W8(0x0600, 0), W8(0x0601, 99)),
			Writes(W8(0x0600, 42), W8(0x0601, 42)),
			true,
		},
		{
			"FAIL: Mem-to-mem: addresses not equal", "0xH0602=0xH0603",
			Writes(W8(0x0602, 0), W8(0x0603, 0)),
			Writes(W8(0x0602, 10), W8(0x0603, 20)),
			false,
		},
		{
			"Mem-to-mem: first greater than second", "0xH0604>0xH0605",
			Writes(W8(0x0604, 0), W8(0x0605, 100)),
			Writes(W8(0x0604, 50), W8(0x0605, 25)),
			true,
		},

		// Edge cases
		{"High address read (0xFF00)", "0xH FF00=123", Writes(W8(0xFF00, 0)), Writes(W8(0xFF00, 123)), true},
		{
			"16-bit spanning two different values", "0x 0700=4660",
			Writes(W8(0x0700, 0), W8(0x0701, 0)),
			Writes(W8(0x0700, 0x34), W8(0x0701, 0x12)),
			true,
		},
		{"Value transition from max to min", "0xH0710=0_d0xH0710=255", Writes(W8(0x0710, 255)), Writes(W8(0x0710, 0)), true},
	}
}
