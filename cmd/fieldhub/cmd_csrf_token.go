package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fieldhub/pkg/csrfclient"
)

var errBadCookieFlag = errors.New("cookie must be name=value")

func newCSRFTokenCmd() *cobra.Command {
	var (
		baseURL string
		admin   bool
		cookies []string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "csrf-token",
		Short: "Fetch a CSRF token from a running server",
		Long:  "Request a token from the issuance endpoint and print it. Session cookies can be passed with --cookie, e.g. --cookie super_admin_token=<jwt> together with --admin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hc, err := httpClientWithCookies(baseURL, cookies, timeout)
			if err != nil {
				return err
			}

			opts := []csrfclient.Option{csrfclient.WithHTTPClient(hc)}
			if admin {
				opts = append(opts, csrfclient.WithAdminEndpoint())
			}
			client, err := csrfclient.New(baseURL, opts...)
			if err != nil {
				return err
			}

			token, err := client.GetToken(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "server base URL")
	cmd.Flags().BoolVar(&admin, "admin", false, "use the super-admin endpoint")
	cmd.Flags().StringArrayVar(&cookies, "cookie", nil, "session cookie as name=value (repeatable)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}

func httpClientWithCookies(baseURL string, raw []string, timeout time.Duration) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	if len(raw) > 0 {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, err
		}
		cs := make([]*http.Cookie, 0, len(raw))
		for _, kv := range raw {
			name, value, ok := strings.Cut(kv, "=")
			if !ok || name == "" {
				return nil, fmt.Errorf("%w: %q", errBadCookieFlag, kv)
			}
			cs = append(cs, &http.Cookie{Name: name, Value: value})
		}
		jar.SetCookies(u, cs)
	}

	return &http.Client{Jar: jar, Timeout: timeout}, nil
}
