// Package toggl is the HTTP client for the Toggl Track endpoints the report
// tool needs: the shared-report CSV export and the current-user lookup.
//
// Requests authenticate with HTTP basic auth built from the API token and the
// literal password "api_token". A Client can talk to the upstream API directly
// or through the relay served by package relay, in which case every path is
// sent as the endpoint query parameter of the relay root:
//
//	c, err := toggl.NewClient("http://127.0.0.1:8787", creds, toggl.WithRelay())
//	raw, err := c.FetchCSV(ctx, toggl.MonthRequest(time.Now()))
//
// Non-2xx answers surface as *StatusError. Validate maps authentication
// failures to ErrInvalidToken or ErrInvalidReportID so the caller knows which
// stored credential to clear. The client never retries.
package toggl
