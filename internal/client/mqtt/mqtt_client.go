package mqtt

import (
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	mqttIface "github.com/tetragramaton/amtron-api/internal/interface/mqtt"
)

const publishTimeout = 5 * time.Second

type mqttClient struct {
	mqttIface.API
}

type Config struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
	TLS       bool
}

func (c Config) Enabled() bool { return c.BrokerURL != "" }

func NewClient(cfg Config) (mqttIface.Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("missing MQTT broker url")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("missing MQTT client id")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetKeepAlive(30 * time.Second).
		SetConnectTimeout(5 * time.Second).
		SetPingTimeout(3 * time.Second).
		SetAutoReconnect(true).
		SetOrderMatters(false)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	client := mqtt.NewClient(opts)
	t := client.Connect()
	if ok := t.WaitTimeout(10 * time.Second); !ok {
		return nil, fmt.Errorf("mqtt connect to %s: timeout", cfg.BrokerURL)
	}
	if err := t.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", cfg.BrokerURL, err)
	}
	log.Infof("mqtt connected to %s as %s", cfg.BrokerURL, cfg.ClientID)
	return NewWithAPI(client), nil
}

func NewWithAPI(api mqttIface.API) mqttIface.Client {
	return &mqttClient{API: api}
}

func (c *mqttClient) PublishEvent(message mqttIface.Message) error {
	t := c.API.Publish(message.Topic, message.QoS, message.Retain, message.Payload)
	if !t.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", message.Topic)
	}
	return t.Error()
}

func (c *mqttClient) Close(quiesce uint) error {
	if c.IsConnectionOpen() {
		c.Disconnect(quiesce)
	}
	return nil
}
