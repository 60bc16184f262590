package ha

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/tetragramaton/amtron-api/internal/amtron"
	mqttIface "github.com/tetragramaton/amtron-api/internal/interface/mqtt"
)

// Publisher mirrors charger settings to MQTT after they were written.
type Publisher interface {
	Announce() error
	PublishSetting(field string, payload any)
	Close()
}

type sensorMeta struct {
	name string
	unit string
	tpl  string
}

var settingSensors = map[string]sensorMeta{
	"current_limit":    {name: "current limit", unit: "A", tpl: "{{ value_json.current_limit }}"},
	"charging_release": {name: "charging release", tpl: "{{ value_json.charging_release }}"},
}

type mqttPublisher struct {
	client   mqttIface.Client
	deviceID string
}

// NewPublisher returns a no-op publisher when client is nil.
func NewPublisher(client mqttIface.Client, deviceID string) Publisher {
	if client == nil {
		return noopPublisher{}
	}
	return &mqttPublisher{client: client, deviceID: deviceID}
}

// Announce publishes retained discovery configs for every writable register.
func (p *mqttPublisher) Announce() error {
	unique := sanitize(p.deviceID)
	device := &Device{
		Identifiers:  []string{p.deviceID},
		Manufacturer: "Mennekes",
		Model:        "AMTRON",
		Name:         p.deviceID,
	}

	for _, r := range amtron.Registers {
		if r.Access != amtron.ReadWrite {
			continue
		}
		meta, ok := settingSensors[r.Name]
		if !ok {
			continue
		}
		cfg := &SensorConfig{
			Name:       fmt.Sprintf("%s %s", p.deviceID, meta.name),
			UniqueID:   unique + "_" + r.Name,
			StateTopic: TopicState(p.deviceID, r.Name),
			ValueTpl:   meta.tpl,
			UnitOfMeas: meta.unit,
			Device:     device,
			QoS:        1,
			Extra:      map[string]interface{}{"icon": "mdi:ev-station"},
		}
		b, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("marshal %s discovery: %w", r.Name, err)
		}
		if err := p.client.PublishEvent(mqttIface.Message{
			Topic:   TopicSensorConfig(r.Name, unique),
			Payload: b,
			QoS:     1,
			Retain:  true,
		}); err != nil {
			return fmt.Errorf("publish %s discovery: %w", r.Name, err)
		}
	}
	log.Infof("HA discovery published for %s", p.deviceID)
	return nil
}

// PublishSetting logs failures instead of returning them.
func (p *mqttPublisher) PublishSetting(field string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		log.Warnf("marshal %s state: %v", field, err)
		return
	}
	if err := p.client.PublishEvent(mqttIface.Message{
		Topic:   TopicState(p.deviceID, field),
		Payload: b,
		QoS:     1,
		Retain:  true,
	}); err != nil {
		log.Warnf("publish %s state: %v", field, err)
	}
}

func (p *mqttPublisher) Close() {
	if err := p.client.Close(250); err != nil {
		log.Warnf("mqtt close: %v", err)
	}
}

type noopPublisher struct{}

func (noopPublisher) Announce() error            { return nil }
func (noopPublisher) PublishSetting(string, any) {}
func (noopPublisher) Close()                     {}
