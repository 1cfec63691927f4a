package instance

import (
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/env"
)

// GetID returns the process instance identifier or a default value.
func GetID() string {
	return env.Get(config.EnvInstanceID, "local")
}
