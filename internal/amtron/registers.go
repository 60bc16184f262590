// Package amtron maps the Mennekes AMTRON Modbus register layout onto typed
// charger operations.
package amtron

// Holding register addresses. Floats span the given register and the next one.
const (
	RegEVSEStatus          uint16 = 0x0100
	RegAuthorizationStatus uint16 = 0x0101
	RegCurrentLimit        uint16 = 0x0302
	RegSessionPower        uint16 = 0x0512
	RegSessionEnergy       uint16 = 0x0B02
	RegSessionDuration     uint16 = 0x0B04
	RegChargingRelease     uint16 = 0x0D05
)

type Kind int

const (
	KindUint16 Kind = iota
	KindFloat32
)

type Access int

const (
	ReadOnly Access = iota
	ReadWrite
)

type Register struct {
	Name    string
	Address uint16
	Kind    Kind
	Access  Access
}

// Count is the number of 16-bit registers the value occupies.
func (r Register) Count() uint16 {
	if r.Kind == KindFloat32 {
		return 2
	}
	return 1
}

var Registers = []Register{
	{Name: "evse_status", Address: RegEVSEStatus, Kind: KindUint16, Access: ReadOnly},
	{Name: "authorization_status", Address: RegAuthorizationStatus, Kind: KindUint16, Access: ReadOnly},
	{Name: "current_limit", Address: RegCurrentLimit, Kind: KindFloat32, Access: ReadWrite},
	{Name: "current_power", Address: RegSessionPower, Kind: KindFloat32, Access: ReadOnly},
	{Name: "current_energy", Address: RegSessionEnergy, Kind: KindFloat32, Access: ReadOnly},
	{Name: "session_duration", Address: RegSessionDuration, Kind: KindFloat32, Access: ReadOnly},
	{Name: "charging_release", Address: RegChargingRelease, Kind: KindUint16, Access: ReadWrite},
}
