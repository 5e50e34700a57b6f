// Package timezone pins every timestamp the service produces to one configured
// location (APP_TIMEZONE, IANA names such as "UTC" or "Asia/Jakarta").
// Until Init runs, everything falls back to UTC.
package timezone

import (
	"sync/atomic"
	"time"
	"todolist/config"

	"github.com/rs/zerolog/log"
)

var appLocation atomic.Pointer[time.Location]

// Init loads the configured location. Unknown names fall back to UTC.
func Init(cfg *config.Config) {
	name := cfg.App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		appLocation.Store(time.UTC)

		return
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC")
		appLocation.Store(time.UTC)

		return
	}

	appLocation.Store(loc)
	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	if loc := appLocation.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
