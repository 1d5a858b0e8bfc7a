package app

import (
	gravity_adapter "github.com/BrobridgeOrg/gravity-sdk/v2/adapter"
)

type App interface {
	// GetEventConnector returns nil when event publishing is disabled.
	GetEventConnector() *gravity_adapter.AdapterConnector
}
