package instance

import (
	"fmt"
	"time"

	gravity_adapter "github.com/BrobridgeOrg/gravity-sdk/v2/adapter"
	"github.com/BrobridgeOrg/gravity-sdk/v2/core"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DefaultGravityPort         = 32803
	DefaultPingInterval        = 10
	DefaultMaxPingsOutstanding = 3
	DefaultMaxReconnects       = -1
)

// initEventConnector connects to gravity when evaluation events are enabled.
func (a *AppInstance) initEventConnector() error {

	viper.SetDefault("gravity.enabled", false)
	if !viper.GetBool("gravity.enabled") {
		log.Debug("Evaluation events are disabled")
		return nil
	}

	// default settings
	viper.SetDefault("gravity.domain", "gravity")
	viper.SetDefault("gravity.host", "127.0.0.1")
	viper.SetDefault("gravity.port", DefaultGravityPort)
	viper.SetDefault("gravity.pingInterval", DefaultPingInterval)
	viper.SetDefault("gravity.maxPingsOutstanding", DefaultMaxPingsOutstanding)
	viper.SetDefault("gravity.maxReconnects", DefaultMaxReconnects)
	viper.SetDefault("gravity.accessToken", "")

	domain := viper.GetString("gravity.domain")
	address := fmt.Sprintf("%s:%d", viper.GetString("gravity.host"), viper.GetInt("gravity.port"))

	options := core.NewOptions()
	options.PingInterval = time.Duration(viper.GetInt64("gravity.pingInterval")) * time.Second
	options.MaxPingsOutstanding = viper.GetInt("gravity.maxPingsOutstanding")
	options.MaxReconnects = viper.GetInt("gravity.maxReconnects")
	options.Token = viper.GetString("gravity.accessToken")

	log.WithFields(log.Fields{
		"address":             address,
		"domain":              domain,
		"pingInterval":        options.PingInterval,
		"maxPingsOutstanding": options.MaxPingsOutstanding,
		"maxReconnects":       options.MaxReconnects,
	}).Info("Connecting to gravity...")

	client := core.NewClient()
	err := client.Connect(address, options)
	if err != nil {
		return err
	}

	// Evaluation events go through the adapter connector's JetStream publisher
	opts := gravity_adapter.NewOptions()
	opts.Domain = domain

	connector := gravity_adapter.NewAdapterConnectorWithClient(client, opts)
	err = connector.Connect(address, options)
	if err != nil {
		return err
	}

	a.eventConnector = connector

	return nil
}

func (a *AppInstance) GetEventConnector() *gravity_adapter.AdapterConnector {
	return a.eventConnector
}
