package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"github.com/tetragramaton/amtron-api/internal/api"
	"github.com/tetragramaton/amtron-api/internal/client/modbus"
	"github.com/tetragramaton/amtron-api/internal/client/mqtt"
	"github.com/tetragramaton/amtron-api/internal/ha"
	modbusIface "github.com/tetragramaton/amtron-api/internal/interface/modbus"
	mqttIface "github.com/tetragramaton/amtron-api/internal/interface/mqtt"
	"github.com/tetragramaton/amtron-api/internal/metrics"
)

type MainHandler struct {
	Options   *Options
	Server    *api.Server
	Publisher ha.Publisher
}

func NewMainHandler(
	opts *Options,
	server *api.Server,
	publisher ha.Publisher,
) *MainHandler {
	return &MainHandler{
		Options:   opts,
		Server:    server,
		Publisher: publisher,
	}
}

func ProvideModbusClient(opts *Options) (modbusIface.Client, func(), error) {
	client, err := modbus.NewHandler(opts.modbusConfig())
	if err != nil {
		return nil, nil, err
	}
	return client, func() {
		if err := client.Close(); err != nil {
			log.Warnf("modbus client close: %v", err)
		}
	}, nil
}

// ProvideMqttClient returns a nil client when no broker is configured.
func ProvideMqttClient(opts *Options) (mqttIface.Client, error) {
	cfg := opts.mqttConfig()
	if !cfg.Enabled() {
		log.Debug("mqtt disabled")
		return nil, nil
	}
	return mqtt.NewClient(cfg)
}

func ProvidePublisher(client mqttIface.Client, opts *Options) (ha.Publisher, func()) {
	p := ha.NewPublisher(client, opts.DeviceID)
	return p, p.Close
}

func ProvideRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := metrics.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
