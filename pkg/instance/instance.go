package instance

import "os"

// GetID identifies this process in logs: DYNO on managed hosts, then HOSTNAME, else "local".
func GetID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
