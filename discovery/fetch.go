package discovery

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/pevans/ussdcodes/internal/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
)

// DefaultTimeout bounds each request unless FetcherOptions overrides it.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is a common desktop browser user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// browserHeaders is sent with every request, along with the User-Agent.
var browserHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Connection":      "keep-alive",
}

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	Timeout          time.Duration
	UserAgent        string
	CloudflareBypass bool
}

// Fetcher retrieves pages with a browser-like header set. Failures are
// logged and reported as an empty page, so one failing site never aborts a
// batch.
type Fetcher struct {
	secure   *resty.Client
	insecure *resty.Client
	log      *logrus.Entry
}

// NewFetcher creates a fetcher with one client that verifies TLS
// certificates and one that does not.
func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	log := logger.New("fetch")
	return &Fetcher{
		secure:   newClient(opts, true, log),
		insecure: newClient(opts, false, log),
		log:      log,
	}
}

func newClient(opts FetcherOptions, verifyTLS bool, log *logrus.Entry) *resty.Client {
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeaders(browserHeaders).
		SetHeader("User-Agent", opts.UserAgent).
		SetLogger(log)

	if !opts.CloudflareBypass {
		if !verifyTLS {
			// Some directory sites serve broken certificate chains
			client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
		}
		return client
	}

	// The bypass replaces the transport's TLS config, so the verification
	// flag is applied to the transport after wrapping it.
	transport, ok := client.GetClient().Transport.(*http.Transport)
	if !ok {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(transport)
	transport.TLSClientConfig.InsecureSkipVerify = !verifyTLS

	return client
}

// Fetch GETs url and returns the decoded response body. Network errors,
// timeouts and non-2xx statuses are logged and yield an empty string.
func (f *Fetcher) Fetch(ctx context.Context, url string, verifyTLS bool) string {
	client := f.secure
	if !verifyTLS {
		client = f.insecure
	}

	log := f.log.WithField("url", url)

	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		log.WithError(err).Warn("fetch failed")
		return ""
	}

	if !resp.IsSuccess() {
		log.WithField("status", resp.StatusCode()).Warn("fetch failed")
		return ""
	}

	body, err := decodeBody(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		log.WithError(err).Warn("failed to decode response")
		return ""
	}

	log.WithField("bytes", len(body)).Debug("fetched page")
	return body
}

// decodeBody converts body to UTF-8 using the Content-Type header or any
// charset declared in the document itself.
func decodeBody(body []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to determine charset: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	return string(data), nil
}
