package redisx

import "fmt"

const ns = "cinetix:v1"

func KeyShowtimeSummary(showtimeID int64) string {
	return fmt.Sprintf("%s:showtime:%d:summary", ns, showtimeID)
}

func KeyShowtimeSeats(showtimeID int64) string {
	return fmt.Sprintf("%s:showtime:%d:seats", ns, showtimeID)
}

func KeyUserStats(userID int64) string {
	return fmt.Sprintf("%s:user:%d:stats", ns, userID)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelShowtimesChanged() string {
	return ns + ":showtimes:changed"
}
