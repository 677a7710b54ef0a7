package instance

import "os"

// GetID returns an identifier for this gateway process, preferring the
// platform's dyno name over the host name.
func GetID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
