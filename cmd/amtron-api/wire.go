//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tetragramaton/amtron-api/internal/amtron"
	"github.com/tetragramaton/amtron-api/internal/api"
)

func InitMainHandler(opts *Options) (*MainHandler, func(), error) {
	wire.Build(
		NewMainHandler,
		ProvideModbusClient,
		ProvideMqttClient,
		ProvidePublisher,
		ProvideRegistry,
		amtron.NewCharger,
		api.NewServer,
		wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
	)
	return nil, nil, nil // wire will generate the result
}
