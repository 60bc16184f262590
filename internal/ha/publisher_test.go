package ha

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mqttIface "github.com/tetragramaton/amtron-api/internal/interface/mqtt"
	mockmqtt "github.com/tetragramaton/amtron-api/mocks/mqtt"
)

func TestAnnounce(t *testing.T) {
	client := mockmqtt.NewMockClient(gomock.NewController(t))
	var msgs []mqttIface.Message
	client.EXPECT().PublishEvent(gomock.Any()).DoAndReturn(func(m mqttIface.Message) error {
		msgs = append(msgs, m)
		return nil
	}).Times(2)

	require.NoError(t, NewPublisher(client, "Garage Charger").Announce())

	require.Len(t, msgs, 2)
	topics := []string{msgs[0].Topic, msgs[1].Topic}
	assert.Contains(t, topics, "homeassistant/sensor/garage_charger/current_limit/config")
	assert.Contains(t, topics, "homeassistant/sensor/garage_charger/charging_release/config")

	for _, m := range msgs {
		assert.True(t, m.Retain)
		var cfg map[string]interface{}
		require.NoError(t, json.Unmarshal(m.Payload, &cfg))
		assert.Equal(t, "mdi:ev-station", cfg["icon"])
		assert.Contains(t, cfg["state_topic"], "amtron/Garage Charger/")
	}
}

func TestAnnounce_PublishError(t *testing.T) {
	client := mockmqtt.NewMockClient(gomock.NewController(t))
	client.EXPECT().PublishEvent(gomock.Any()).Return(errors.New("offline"))

	assert.Error(t, NewPublisher(client, "amtron").Announce())
}

func TestPublishSetting(t *testing.T) {
	client := mockmqtt.NewMockClient(gomock.NewController(t))
	client.EXPECT().PublishEvent(mqttIface.Message{
		Topic:   "amtron/amtron/current_limit",
		Payload: []byte(`{"current_limit":10}`),
		QoS:     1,
		Retain:  true,
	}).Return(nil)

	NewPublisher(client, "amtron").PublishSetting("current_limit", map[string]float32{"current_limit": 10})
}

func TestPublishSetting_ErrorIsSwallowed(t *testing.T) {
	client := mockmqtt.NewMockClient(gomock.NewController(t))
	client.EXPECT().PublishEvent(gomock.Any()).Return(errors.New("offline"))

	NewPublisher(client, "amtron").PublishSetting("charging_release", map[string]int{"charging_release": 1})
}

func TestNoopPublisher(t *testing.T) {
	p := NewPublisher(nil, "amtron")
	assert.NoError(t, p.Announce())
	p.PublishSetting("current_limit", nil)
	p.Close()
}

func TestSensorConfigMarshal_Extra(t *testing.T) {
	cfg := &SensorConfig{Name: "n", UniqueID: "u", StateTopic: "s", Extra: map[string]interface{}{"icon": "i"}}
	b, err := cfg.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"n","unique_id":"u","state_topic":"s","icon":"i"}`, string(b))
}
