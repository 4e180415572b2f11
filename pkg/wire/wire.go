// Package wire marshals and demarshals the UDP payloads exchanged between a
// live plant and controller, mirroring original_source/src/apps/marshaling.cc:
// a big-endian uint64 timestamp (microseconds) followed by big-endian
// IEEE-754 doubles.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Profile names the two state-packet layouts. MarshalState/DemarshalState
// always use ProfileCanonical; MarshalStateLegacy/DemarshalStateLegacy use
// ProfileLegacy. No function in this package takes a Profile argument.
type Profile int

const (
	// ProfileCanonical is the 5-field state packet (time, angle, omega, x,
	// v) — the default profile, since LQR and cascade control need the full
	// state, not just the angle.
	ProfileCanonical Profile = iota
	// ProfileLegacy is the 1-field state packet (time, angle only), for
	// interoperating with an angle-only PID controller.
	ProfileLegacy
)

const (
	sizeU64    = 8
	sizeDouble = 8

	// StatePacketSize is the wire size of a canonical state packet.
	StatePacketSize = sizeU64 + 4*sizeDouble
	// LegacyStatePacketSize is the wire size of a legacy (angle-only) state
	// packet.
	LegacyStatePacketSize = sizeU64 + sizeDouble
	// UpdatePacketSize is the wire size of an update packet.
	UpdatePacketSize = sizeU64 + sizeDouble
)

// State is the plant-side measurement carried in a state packet.
type State struct {
	TimeUsec uint64
	Angle    float64
	Omega    float64
	X        float64
	V        float64
}

// Update is the controller-side actuation carried in an update packet.
type Update struct {
	TimeUsec uint64
	U        float64
}

func putDouble(buf []byte, v float64) {
	binary.BigEndian.PutUint64(buf, math.Float64bits(v))
}

func getDouble(buf []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(buf))
}

// MarshalState encodes s as a 5-field canonical state packet.
func MarshalState(s State) []byte {
	buf := make([]byte, StatePacketSize)
	binary.BigEndian.PutUint64(buf[0:8], s.TimeUsec)
	putDouble(buf[8:16], s.Angle)
	putDouble(buf[16:24], s.Omega)
	putDouble(buf[24:32], s.X)
	putDouble(buf[32:40], s.V)
	return buf
}

// DemarshalState decodes a 5-field canonical state packet.
func DemarshalState(data []byte) (State, error) {
	if len(data) < StatePacketSize {
		return State{}, fmt.Errorf("demarshal state: need %d bytes, got %d", StatePacketSize, len(data))
	}
	return State{
		TimeUsec: binary.BigEndian.Uint64(data[0:8]),
		Angle:    getDouble(data[8:16]),
		Omega:    getDouble(data[16:24]),
		X:        getDouble(data[24:32]),
		V:        getDouble(data[32:40]),
	}, nil
}

// MarshalStateLegacy encodes an angle-only state packet (time, angle),
// for controllers that only ever consumed original_source's single-field
// plant.cc/controller_pid.cc wire format.
func MarshalStateLegacy(timeUsec uint64, angle float64) []byte {
	buf := make([]byte, LegacyStatePacketSize)
	binary.BigEndian.PutUint64(buf[0:8], timeUsec)
	putDouble(buf[8:16], angle)
	return buf
}

// DemarshalStateLegacy decodes an angle-only state packet.
func DemarshalStateLegacy(data []byte) (timeUsec uint64, angle float64, err error) {
	if len(data) < LegacyStatePacketSize {
		return 0, 0, fmt.Errorf("demarshal legacy state: need %d bytes, got %d", LegacyStatePacketSize, len(data))
	}
	return binary.BigEndian.Uint64(data[0:8]), getDouble(data[8:16]), nil
}

// MarshalUpdate encodes u as an update packet (time, u).
func MarshalUpdate(u Update) []byte {
	buf := make([]byte, UpdatePacketSize)
	binary.BigEndian.PutUint64(buf[0:8], u.TimeUsec)
	putDouble(buf[8:16], u.U)
	return buf
}

// DemarshalUpdate decodes an update packet.
func DemarshalUpdate(data []byte) (Update, error) {
	if len(data) < UpdatePacketSize {
		return Update{}, fmt.Errorf("demarshal update: need %d bytes, got %d", UpdatePacketSize, len(data))
	}
	return Update{
		TimeUsec: binary.BigEndian.Uint64(data[0:8]),
		U:        getDouble(data[8:16]),
	}, nil
}
