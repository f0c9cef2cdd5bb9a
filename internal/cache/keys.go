package cache

import (
	"fmt"
	"net/url"
	"strings"
)

// Subdomain spellings that resolve to the same logical instance as the API
// host. The UI-experience domain and the setup domain are collapsed so every
// spelling of one org shares a cache entry.
var hostAliases = map[string]string{
	".lightning.force.com":               ".my.salesforce.com",
	".my.salesforce-setup.com":           ".my.salesforce.com",
	".builder.salesforce-experience.com": ".my.salesforce.com",
}

// CanonicalHost normalizes any accepted spelling of an instance address
// (bare host, full URL, mixed case, trailing port or path) to one canonical
// cache partition key.
func CanonicalHost(instance string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(instance))
	if s == "" {
		return "", fmt.Errorf("empty instance address")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid instance address %q: %w", instance, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("invalid instance address %q: no host", instance)
	}

	for alias, canonical := range hostAliases {
		if strings.HasSuffix(host, alias) {
			return strings.TrimSuffix(host, alias) + canonical, nil
		}
	}
	return host, nil
}
