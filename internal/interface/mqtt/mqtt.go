package mqtt

import mqtt "github.com/eclipse/paho.mqtt.golang"

//go:generate mockgen -destination=../../../mocks/mqtt/mock_mqtt.go -package=mockmqtt . Client

type Message struct {
	Topic   string `json:"topic"`
	Payload []byte `json:"payload"`
	QoS     byte   `json:"qos"`
	Retain  bool   `json:"retain"`
}

type Client interface {
	PublishEvent(message Message) error
	Close(quiesce uint) error
}

type API interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
	IsConnectionOpen() bool
}
