package protocol

// Packet is a declared packet type. Schema lists pointers to the packet's
// wire fields in the order they appear on the wire.
type Packet interface {
	ID() PacketID
	State() ConnectionState
	Direction() Direction
	Name() string
	Schema() []FieldSpec
}

// FieldSpec names one wire field of a packet.
type FieldSpec struct {
	Name  string
	Value Field
}

// PacketInfo describes a registered packet without an instance of it.
type PacketInfo struct {
	ID        PacketID
	State     ConnectionState
	Direction Direction
	Name      string
	Fields    []string
}

// Describe returns the metadata of p.
func Describe(p Packet) PacketInfo {
	schema := p.Schema()
	fields := make([]string, len(schema))
	for i, f := range schema {
		fields[i] = f.Name
	}
	return PacketInfo{
		ID:        p.ID(),
		State:     p.State(),
		Direction: p.Direction(),
		Name:      p.Name(),
		Fields:    fields,
	}
}
