package amtron

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	modbusIface "github.com/tetragramaton/amtron-api/internal/interface/modbus"
)

// Current limit bounds in amps. 0 disables limiting.
const (
	CurrentLimitDisabled float64 = 0
	MinCurrentLimit      float64 = 6
	MaxCurrentLimit      float64 = 16
)

var (
	ErrInvalidCurrentLimit    = errors.New("current limit must be 0 or between 6 and 16 A")
	ErrInvalidChargingRelease = errors.New("charging release must be 0 or 1")
)

// ValidateCurrentLimit accepts 0 or a value within [MinCurrentLimit, MaxCurrentLimit].
func ValidateCurrentLimit(amps float64) error {
	if amps == CurrentLimitDisabled || (amps >= MinCurrentLimit && amps <= MaxCurrentLimit) {
		return nil
	}
	return fmt.Errorf("%w: got %v", ErrInvalidCurrentLimit, amps)
}

func ValidateChargingRelease(mode int64) error {
	if mode == int64(ChargingNotAllowed) || mode == int64(ChargingAllowed) {
		return nil
	}
	return fmt.Errorf("%w: got %d", ErrInvalidChargingRelease, mode)
}

// Charger performs one register transaction per call against the charger.
type Charger struct {
	client modbusIface.Client
}

func NewCharger(client modbusIface.Client) *Charger {
	return &Charger{client: client}
}

func (c *Charger) EVSEStatus() (EVSEStatus, error) {
	v, err := c.client.ReadInt(RegEVSEStatus)
	if err != nil {
		return 0, err
	}
	s := EVSEStatus(v)
	if !s.Known() {
		log.Warnf("unrecognized evse status code %d", v)
	}
	return s, nil
}

func (c *Charger) AuthorizationStatus() (AuthorizationStatus, error) {
	v, err := c.client.ReadInt(RegAuthorizationStatus)
	if err != nil {
		return 0, err
	}
	s := AuthorizationStatus(v)
	if !s.Known() {
		log.Warnf("unrecognized authorization status code %d", v)
	}
	return s, nil
}

func (c *Charger) CurrentLimit() (float32, error) {
	return c.client.ReadFloat(RegCurrentLimit)
}

// SetCurrentLimit validates amps at full precision before touching the bus.
// -0 is written as +0.
func (c *Charger) SetCurrentLimit(amps float64) error {
	if err := ValidateCurrentLimit(amps); err != nil {
		return err
	}
	if amps == CurrentLimitDisabled {
		amps = 0
	}
	log.Infof("setting current limit to %v A", amps)
	return c.client.WriteFloat(RegCurrentLimit, float32(amps))
}

func (c *Charger) ChargingRelease() (ChargingRelease, error) {
	v, err := c.client.ReadInt(RegChargingRelease)
	if err != nil {
		return 0, err
	}
	r := ChargingRelease(v)
	if !r.Known() {
		log.Warnf("unrecognized charging release code %d", v)
	}
	return r, nil
}

func (c *Charger) SetChargingRelease(mode int64) error {
	if err := ValidateChargingRelease(mode); err != nil {
		return err
	}
	log.Infof("setting charging release to %d", mode)
	return c.client.WriteInt(RegChargingRelease, uint16(mode))
}

// SessionPower returns the raw register value; the unit is device defined.
func (c *Charger) SessionPower() (float32, error) {
	return c.client.ReadFloat(RegSessionPower)
}

func (c *Charger) SessionEnergy() (float32, error) {
	return c.client.ReadFloat(RegSessionEnergy)
}

func (c *Charger) SessionDuration() (float32, error) {
	return c.client.ReadFloat(RegSessionDuration)
}
