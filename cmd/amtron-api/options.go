package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	modbus "github.com/tetragramaton/amtron-api/internal/client/modbus"
	mqtt "github.com/tetragramaton/amtron-api/internal/client/mqtt"
)

const (
	ProjectName    = "amtron-api"
	ProjectVersion = "1.0.0"
)

type MQTTOptions struct {
	URL      string `long:"url" env:"URL" description:"MQTT broker url, e.g. tcp://mqtt:1883 (publishing disabled when empty)"`
	ClientID string `long:"client-id" env:"CLIENT_ID" default:"amtron-api" description:"MQTT client id"`
	Username string `long:"username" env:"USERNAME" description:"MQTT username"`
	Password string `long:"password" env:"PASSWORD" description:"MQTT password"`
	TLS      bool   `long:"tls" env:"TLS" description:"use TLS for the broker connection"`
}

// Options defines command line options. Every option can also be set from the environment.
type Options struct {
	Serial       string        `long:"serial" env:"AMTRON_SERIAL" description:"path to the serial RS-485 adapter (required)"`
	SlaveAddress int           `long:"slave-address" env:"AMTRON_SLAVE_ADDRESS" default:"1" description:"Modbus slave address of the charger"`
	Host         string        `long:"host" env:"AMTRON_HOST" default:"0.0.0.0" description:"host to run the API on"`
	Port         int           `long:"port" env:"AMTRON_PORT" default:"8000" description:"port to run the API on"`
	Timeout      time.Duration `long:"timeout" env:"AMTRON_TIMEOUT" default:"500ms" description:"Modbus response timeout"`
	LogLevel     string        `long:"log-level" env:"AMTRON_LOG_LEVEL" default:"info" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"log level"`
	DeviceID     string        `long:"device-id" env:"AMTRON_DEVICE_ID" default:"amtron" description:"device id used in MQTT topics"`
	Version      bool          `short:"v" long:"version" description:"display the version and exit"`

	MQTT MQTTOptions `group:"MQTT Options" namespace:"mqtt" env-namespace:"AMTRON_MQTT"`
}

var errMissingSerial = errors.New("the required flag `--serial' was not specified")

// parseOptions returns parsed command-line flags. --serial is checked by validate
// so that --version works without it.
func parseOptions(args []string) (*Options, error) {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.Default)
	parser.Name = ProjectName
	parser.NamespaceDelimiter = "-"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func isHelp(err error) bool {
	return flags.WroteHelp(err)
}

func (o *Options) validate() error {
	if o.Serial == "" {
		return errMissingSerial
	}
	if o.SlaveAddress < 1 || o.SlaveAddress > 247 {
		return fmt.Errorf("slave address %d out of range 1..247", o.SlaveAddress)
	}
	if o.Port < 1 || o.Port > 65535 {
		return fmt.Errorf("port %d out of range", o.Port)
	}
	return nil
}

func (o *Options) modbusConfig() modbus.Config {
	return modbus.Config{
		Port:    o.Serial,
		SlaveID: o.SlaveAddress,
		Timeout: o.Timeout,
	}
}

func (o *Options) mqttConfig() mqtt.Config {
	return mqtt.Config{
		BrokerURL: o.MQTT.URL,
		ClientID:  o.MQTT.ClientID,
		Username:  o.MQTT.Username,
		Password:  o.MQTT.Password,
		TLS:       o.MQTT.TLS,
	}
}

func setupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}
