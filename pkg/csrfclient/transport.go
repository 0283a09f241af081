package csrfclient

import (
	"net/http"
)

// Transport attaches the CSRF header to every non-GET request before handing
// it to Base.
type Transport struct {
	Client *Client
	Base   http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out, err := t.Client.AttachToken(req)
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, err
	}
	return t.base().RoundTrip(out)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// HTTPClient returns an *http.Client that sends the CSRF header on mutating
// requests. It shares the cookie jar, timeout and transport of the client
// used for issuance so both see the same session.
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{
		Transport:     &Transport{Client: c, Base: c.http.Transport},
		Jar:           c.http.Jar,
		Timeout:       c.http.Timeout,
		CheckRedirect: c.http.CheckRedirect,
	}
}
