// Package csrfclient obtains CSRF tokens from the issuance endpoint and
// attaches them to mutating requests.
//
// The client keeps a single cached token for 23 hours, an hour less than the
// server-side lifetime. GET requests never trigger a fetch:
//
//	c, err := csrfclient.New("https://acme.example.com", csrfclient.WithHTTPClient(sessionClient))
//	if err != nil {
//		return err
//	}
//	api := c.HTTPClient()
//	resp, err := api.Post(url, "application/json", body) // carries X-CSRF-Token
//
// Call ClearToken on logout.
package csrfclient
