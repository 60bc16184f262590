package modbus

//go:generate mockgen -destination=../../../mocks/modbus/mock_modbus.go -package=mockmodbus . API,Client

type Client interface {
	ReadInt(addr uint16) (uint16, error)
	ReadFloat(addr uint16) (float32, error)
	WriteInt(addr uint16, value uint16) error
	WriteFloat(addr uint16, value float32) error
	Close() error
}

// API is the part of the goburrow client used by the register client.
type API interface {
	ReadHoldingRegisters(address, quantity uint16) (results []byte, err error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) (results []byte, err error)
}
