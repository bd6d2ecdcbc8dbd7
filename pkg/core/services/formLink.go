package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/energiefixers071/fixerdesk/internal/config"
)

// DefaultFormURL is the public intake form used when none is configured
const DefaultFormURL = "https://ee-eu.kobotoolbox.org/x/Evnz0R4w"

// formHosts are the KoboToolbox domains a form link may point at
var formHosts = []string{"kobotoolbox.org"}

// FormLinkFields are the intake answers that can be pre-filled
type FormLinkFields struct {
	Address     string
	VisitTime   string
	PerformedBy []string
}

// ValidateFormURL checks that the URL points at a KoboToolbox form
func ValidateFormURL(formURL string) error {
	u, err := url.Parse(strings.TrimSpace(formURL))
	if err != nil {
		return fmt.Errorf("invalid form url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("invalid form url %q: expected an http(s) link", formURL)
	}

	host := strings.ToLower(u.Hostname())
	for _, domain := range formHosts {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return nil
		}
	}
	return fmt.Errorf("invalid form url %q: host %s is not a KoboToolbox domain", formURL, u.Hostname())
}

// GenerateFormLink builds a form link with the intake group pre-filled.
// Empty answers are left out; without answers the form URL is returned as is.
func GenerateFormLink(formURL, group string, fields FormLinkFields) (string, error) {
	formURL = strings.TrimSpace(formURL)
	if formURL == "" {
		formURL = DefaultFormURL
	}
	if err := ValidateFormURL(formURL); err != nil {
		return "", err
	}
	if group == "" {
		group = config.DefaultKoboGroup
	}

	answers := []struct{ key, value string }{
		{fieldAddress, fields.Address},
		{fieldVisitTime, fields.VisitTime},
		{fieldPerformedBy, strings.Join(trimAll(fields.PerformedBy), ", ")},
	}

	var params []string
	for _, a := range answers {
		value := strings.TrimSpace(a.value)
		if value == "" {
			continue
		}
		params = append(params, fmt.Sprintf("d[%s/%s]=%s", group, a.key, url.QueryEscape(value)))
	}
	if len(params) == 0 {
		return formURL, nil
	}

	sep := "?"
	if strings.Contains(formURL, "?") {
		sep = "&"
	}
	return formURL + sep + strings.Join(params, "&"), nil
}

func trimAll(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			trimmed = append(trimmed, v)
		}
	}
	return trimmed
}
