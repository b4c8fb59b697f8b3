package internal

import (
	"fmt"
	"log"
	"os"
	"os/user"
	"regexp"
	"slices"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
)

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

func Version() string {
	return versioninfo.Short()
}

// StartupInfo logs the build version and process identity, and when verbose
// is set, the environment with secret-looking values masked.
func StartupInfo(verbose bool) {
	log.Printf("Version: %s", Version())
	log.Printf("PID: %d", os.Getpid())
	if u, err := user.Current(); err != nil {
		log.Printf("Error getting current user: %v", err)
	} else {
		log.Printf("User: uid=%s(%s) gid=%s", u.Uid, u.Username, u.Gid)
	}

	if !verbose {
		return
	}
	log.Println("Environment variables")
	for _, line := range MaskedEnvironment(os.Environ()) {
		log.Printf("  %s", line)
	}
}

// MaskedEnvironment sorts KEY=value pairs by key and hides the values of
// keys that look like credentials.
func MaskedEnvironment(environ []string) []string {
	sorted := slices.Clone(environ)
	slices.SortFunc(sorted, func(a, b string) int {
		keyA, _, _ := strings.Cut(a, "=")
		keyB, _, _ := strings.Cut(b, "=")
		return strings.Compare(keyA, keyB)
	})

	out := make([]string, 0, len(sorted))
	for _, entry := range sorted {
		key, value, _ := strings.Cut(entry, "=")
		if sensitiveRegex.MatchString(key) {
			value = "********"
		}
		out = append(out, fmt.Sprintf("%s: %s", key, value))
	}
	return out
}
