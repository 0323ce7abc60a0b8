package redis

import "fmt"

const ns = "skybook:v1"

func KeyFlightSummary(flightID int64) string {
	return fmt.Sprintf("%s:flight:%d:summary", ns, flightID)
}

func KeyAirplanes() string {
	return ns + ":airplanes"
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelFlightsChanged() string {
	return ns + ":flights:changed"
}
