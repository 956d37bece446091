package protocol

import (
	"sort"

	"github.com/gear6io/mcwire/pkg/errors"
)

// Constructor returns a zero value of one packet type.
type Constructor func() Packet

// Registry maps (state, id) to packet constructors for one direction.
// Register is not safe for concurrent use: build a registry fully, then share
// it read-only.
type Registry struct {
	direction Direction
	packets   map[ConnectionState]map[PacketID]Constructor
}

func NewRegistry(direction Direction) *Registry {
	return &Registry{
		direction: direction,
		packets:   make(map[ConnectionState]map[PacketID]Constructor),
	}
}

func (r *Registry) Direction() Direction {
	return r.direction
}

// Register adds the packet type built by ctor.
func (r *Registry) Register(ctor Constructor) error {
	p := ctor()

	if p.Direction() != r.direction {
		return errors.Newf(ErrWrongDirection, "%s is %s, registry is %s", p.Name(), p.Direction(), r.direction)
	}

	byID, ok := r.packets[p.State()]
	if !ok {
		byID = make(map[PacketID]Constructor)
		r.packets[p.State()] = byID
	}

	if existing, exists := byID[p.ID()]; exists {
		return errors.Newf(ErrDuplicatePacket, "%s %s already registered by %s", p.State(), p.ID(), existing().Name())
	}

	byID[p.ID()] = ctor
	return nil
}

// Lookup returns the constructor registered for (state, id).
func (r *Registry) Lookup(state ConnectionState, id PacketID) (Constructor, bool) {
	ctor, ok := r.packets[state][id]
	return ctor, ok
}

// Decode builds the packet registered for (state, id) and unpacks payload
// into it.
func (r *Registry) Decode(state ConnectionState, id PacketID, payload []byte) (Packet, error) {
	ctor, ok := r.Lookup(state, id)
	if !ok {
		return nil, errors.Newf(ErrUnsupportedPacket, "no %s packet %s in state %s", r.direction, id, state).
			AddContext("state", state.String()).
			AddContext("id", id.String())
	}

	p := ctor()
	if err := Unpack(p, payload); err != nil {
		return nil, err
	}
	return p, nil
}

// Packets lists the packets registered for state, ordered by id.
func (r *Registry) Packets(state ConnectionState) []PacketInfo {
	byID := r.packets[state]
	infos := make([]PacketInfo, 0, len(byID))
	for _, ctor := range byID {
		infos = append(infos, Describe(ctor()))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
