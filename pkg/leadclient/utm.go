package leadclient

import "net/url"

// Attributes carries campaign attribution for a submission.
type Attributes struct {
	Source   string `json:"source"`
	Medium   string `json:"medium,omitempty"`
	Campaign string `json:"campaign,omitempty"`
	Content  string `json:"content,omitempty"`
	Term     string `json:"term,omitempty"`
	Referrer string `json:"referrer,omitempty"`
	Page     string `json:"page,omitempty"`
}

// CollectUTM derives attribution from the page URL and the document referrer.
// Missing utm_source falls back to "direct". Page keeps only path and query,
// never the host.
func CollectUTM(pageURL, referrer string) Attributes {
	attrs := Attributes{Source: "direct", Referrer: referrer}

	u, err := url.Parse(pageURL)
	if err != nil || pageURL == "" {
		return attrs
	}

	q := u.Query()
	if v := q.Get("utm_source"); v != "" {
		attrs.Source = v
	}
	attrs.Medium = q.Get("utm_medium")
	attrs.Campaign = q.Get("utm_campaign")
	attrs.Content = q.Get("utm_content")
	attrs.Term = q.Get("utm_term")

	attrs.Page = u.Path
	if u.RawQuery != "" {
		attrs.Page += "?" + u.RawQuery
	}
	return attrs
}
