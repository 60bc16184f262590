package modbus

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	log "github.com/sirupsen/logrus"

	modbusIface "github.com/tetragramaton/amtron-api/internal/interface/modbus"
	"github.com/tetragramaton/amtron-api/internal/metrics"
)

// Serial line parameters fixed by the charger vendor.
const (
	BaudRate = 57600
	DataBits = 8
	Parity   = "N"
	StopBits = 2
)

type Config struct {
	Port    string
	SlaveID int
	Timeout time.Duration
}

type handler struct {
	modbusIface.API
	mu      sync.Mutex
	closeFn func() error
}

// NewHandler opens the RTU connection to the charger.
func NewHandler(cfg Config) (modbusIface.Client, error) {
	if cfg.Port == "" {
		return nil, fmt.Errorf("missing serial port")
	}
	if cfg.SlaveID < 1 || cfg.SlaveID > 247 {
		return nil, fmt.Errorf("slave address %d out of range 1..247", cfg.SlaveID)
	}

	rh := modbus.NewRTUClientHandler(cfg.Port)
	rh.BaudRate = BaudRate
	rh.DataBits = DataBits
	rh.Parity = Parity
	rh.StopBits = StopBits
	rh.SlaveId = byte(cfg.SlaveID)
	rh.Timeout = cfg.Timeout
	if err := rh.Connect(); err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Port, err)
	}
	log.Infof("modbus rtu connected on %s (slave %d, %d baud)", cfg.Port, cfg.SlaveID, BaudRate)

	return NewWithAPI(modbus.NewClient(rh), rh.Close), nil
}

// NewWithAPI wraps an already connected client. closeFn may be nil.
func NewWithAPI(api modbusIface.API, closeFn func() error) modbusIface.Client {
	return &handler{
		API:     api,
		closeFn: closeFn,
	}
}

func (h *handler) ReadInt(addr uint16) (uint16, error) {
	res, err := h.readHolding("read_int", addr, 1)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(res), nil
}

// ReadFloat decodes an IEEE-754 single spanning addr and addr+1, high word first.
func (h *handler) ReadFloat(addr uint16) (float32, error) {
	res, err := h.readHolding("read_float", addr, 2)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(res)), nil
}

func (h *handler) WriteInt(addr uint16, value uint16) error {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, value)
	return h.writeMultiple("write_int", addr, 1, buf)
}

func (h *handler) WriteFloat(addr uint16, value float32) error {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, math.Float32bits(value))
	return h.writeMultiple("write_float", addr, 2, buf)
}

func (h *handler) Close() error {
	if h.closeFn == nil {
		return nil
	}
	return h.closeFn()
}

func (h *handler) readHolding(op string, addr, quantity uint16) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	res, err := h.API.ReadHoldingRegisters(addr, quantity)
	observe(op, start, err)
	if err != nil {
		return nil, fmt.Errorf("read register 0x%04X: %w", addr, err)
	}
	if want := int(quantity) * 2; len(res) < want {
		return nil, fmt.Errorf("read register 0x%04X: short response: expected %d bytes, got %d", addr, want, len(res))
	}
	log.Debugf("modbus read 0x%04X x%d -> % X", addr, quantity, res)
	return res, nil
}

func (h *handler) writeMultiple(op string, addr, quantity uint16, value []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	_, err := h.API.WriteMultipleRegisters(addr, quantity, value)
	observe(op, start, err)
	if err != nil {
		return fmt.Errorf("write register 0x%04X: %w", addr, err)
	}
	log.Debugf("modbus write 0x%04X x%d <- % X", addr, quantity, value)
	return nil
}

func observe(op string, start time.Time, err error) {
	metrics.BusDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.BusTransactions.WithLabelValues(op, metrics.ResultLabel(err)).Inc()
}
