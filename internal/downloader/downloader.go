// Package downloader obtains one Y-9C bulk archive per (year, quarter).
//
// Acquisition order: existing local cache, a manually staged file matching
// known naming variants, then the network sources. Quarters before 2021 try
// the Chicago Fed historical endpoint first and fall back to the FFIEC NIC
// direct-download URL; 2021 onward goes straight to NIC.
package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bhcwatch/y9c/internal/common"
	"github.com/bhcwatch/y9c/internal/model"
)

const (
	// LegacyCutoffYear is the first year served by the NIC bulk endpoint.
	// Earlier quarters live on the Chicago Fed historical archive.
	LegacyCutoffYear = 2021

	// FFIECDownloadPage is the interactive page referenced in manual
	// download instructions.
	FFIECDownloadPage = "https://www.ffiec.gov/npw/FinancialReport/FinancialDataDownload"

	defaultChicagoURL = "https://www.chicagofed.org/api/sitecore/BHCHome/BHCDownload?SelectedQuarter=%d&SelectedYear=%d"
	defaultNICURL     = "https://www.ffiec.gov/npw/FinancialReport/ReturnFinancialReportZip?rpt=BHCF&date=%s"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// Chicago Fed answers errors with tiny HTML bodies and status 200;
	// anything under this size is not an archive.
	minChicagoArchiveSize = 1000
)

// Downloader fetches quarterly archives into a local data directory.
type Downloader struct {
	client     *http.Client
	dataDir    string
	manualDir  string
	chicagoURL string
	nicURL     string
	retry      common.RetryOptions
	delay      time.Duration
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Downloader) { d.client = client }
}

// WithSourceURLs overrides the source URL templates.
func WithSourceURLs(chicagoURL, nicURL string) Option {
	return func(d *Downloader) {
		d.chicagoURL = chicagoURL
		d.nicURL = nicURL
	}
}

// WithRetryOptions overrides the retry policy.
func WithRetryOptions(opts common.RetryOptions) Option {
	return func(d *Downloader) { d.retry = opts }
}

// WithPoliteDelay overrides the pause between quarters in DownloadAll.
func WithPoliteDelay(delay time.Duration) Option {
	return func(d *Downloader) { d.delay = delay }
}

// New creates a Downloader writing archives under dataDir and reading
// manually staged files from manualDir.
func New(dataDir, manualDir string, opts ...Option) *Downloader {
	d := &Downloader{
		dataDir:    dataDir,
		manualDir:  manualDir,
		chicagoURL: defaultChicagoURL,
		nicURL:     defaultNICURL,
		client:     &http.Client{Timeout: 120 * time.Second},
		retry: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
		delay: time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ArchivePath is the canonical cache location for a quarter's archive.
func (d *Downloader) ArchivePath(year, quarter int) string {
	return filepath.Join(d.dataDir, fmt.Sprintf("BHCF_%dQ%d.zip", year, quarter))
}

// chicagoArchivePath is the cache location for the legacy-source variant.
func (d *Downloader) chicagoArchivePath(year, quarter int) string {
	return filepath.Join(d.dataDir, fmt.Sprintf("BHCF_%dQ%d_chicago.zip", year, quarter))
}

// Fetch obtains the archive for one quarter, returning its local path.
// A 404 from every source surfaces as common.ErrNotAvailable; a 403 as
// common.ErrBlocked, for which the caller should emit manual instructions.
func (d *Downloader) Fetch(ctx context.Context, year, quarter int) (string, error) {
	if err := os.MkdirAll(d.dataDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	for _, cached := range []string{d.ArchivePath(year, quarter), d.chicagoArchivePath(year, quarter)} {
		if _, err := os.Stat(cached); err == nil {
			common.LogDebug("Archive already cached", common.Fields{"path": cached})
			return cached, nil
		}
	}

	if staged := d.findManualDownload(year, quarter); staged != "" {
		target := d.ArchivePath(year, quarter)
		if err := copyFile(staged, target); err != nil {
			return "", fmt.Errorf("failed to copy staged file: %w", err)
		}
		slog.Info("Using manually staged archive", "source", staged, "target", target)
		return target, nil
	}

	if year < LegacyCutoffYear {
		path, err := d.fetchChicago(ctx, year, quarter)
		if err == nil {
			return path, nil
		}
		slog.Debug("Chicago Fed download failed, trying NIC", "year", year, "quarter", quarter, "error", err)
	}

	return d.fetchNIC(ctx, year, quarter)
}

// manualVariants lists the accepted staged-file names for one quarter.
func manualVariants(year, quarter int) []string {
	return []string{
		fmt.Sprintf("BHCF_%dQ%d.zip", year, quarter),
		fmt.Sprintf("BHCF_%d%d.zip", year, quarter),
		fmt.Sprintf("bhcf_%dq%d.zip", year, quarter),
		fmt.Sprintf("BHCF%dQ%d.zip", year, quarter),
	}
}

// findManualDownload returns the path of a staged archive for the quarter,
// matching exact naming variants first and any zip containing both the year
// and quarter digits second.
func (d *Downloader) findManualDownload(year, quarter int) string {
	for _, name := range manualVariants(year, quarter) {
		candidate := filepath.Join(d.manualDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	entries, err := os.ReadDir(d.manualDir)
	if err != nil {
		return ""
	}
	yearStr := strconv.Itoa(year)
	quarterStr := strconv.Itoa(quarter)
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".zip") {
			continue
		}
		if strings.Contains(name, yearStr) && strings.Contains(name, quarterStr) {
			return filepath.Join(d.manualDir, name)
		}
	}

	return ""
}

// fetchNIC downloads from the FFIEC NIC direct endpoint.
func (d *Downloader) fetchNIC(ctx context.Context, year, quarter int) (string, error) {
	reportDate, err := model.ReportDate(year, quarter)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(d.nicURL, reportDate.Format("20060102"))
	target := d.ArchivePath(year, quarter)

	err = common.WithRetry(ctx, func() error {
		body, fetchErr := d.get(ctx, url)
		if fetchErr != nil {
			return fetchErr
		}
		// The direct endpoint answers non-archive content with 200 when
		// it declines a request.
		if !bytes.HasPrefix(body, []byte("PK")) {
			return fmt.Errorf("%w: response is not a zip archive", common.ErrBlocked)
		}
		return os.WriteFile(target, body, 0644)
	}, d.retry)
	if err != nil {
		return "", fmt.Errorf("NIC download for %d Q%d: %w", year, quarter, err)
	}

	slog.Info("Downloaded archive", "source", "nic", "year", year, "quarter", quarter, "path", target)
	return target, nil
}

// fetchChicago downloads from the Chicago Fed historical endpoint.
func (d *Downloader) fetchChicago(ctx context.Context, year, quarter int) (string, error) {
	url := fmt.Sprintf(d.chicagoURL, quarter, year)
	target := d.chicagoArchivePath(year, quarter)

	err := common.WithRetry(ctx, func() error {
		body, fetchErr := d.get(ctx, url)
		if fetchErr != nil {
			return fetchErr
		}
		if len(body) < minChicagoArchiveSize {
			return fmt.Errorf("%w: response too small (%d bytes)", common.ErrNotAvailable, len(body))
		}
		return os.WriteFile(target, body, 0644)
	}, d.retry)
	if err != nil {
		return "", fmt.Errorf("Chicago Fed download for %d Q%d: %w", year, quarter, err)
	}

	slog.Info("Downloaded archive", "source", "chicago_fed", "year", year, "quarter", quarter, "path", target)
	return target, nil
}

// get performs one GET, classifying the response: 404 is terminal
// not-available, 403 is terminal blocked, other failures are retryable.
func (d *Downloader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/zip, application/octet-stream, */*")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &common.RetryableError{Err: err, Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, &common.RetryableError{Err: readErr, Retryable: true}
		}
		return body, nil
	case http.StatusNotFound:
		return nil, common.ErrNotAvailable
	case http.StatusForbidden:
		return nil, common.ErrBlocked
	default:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url),
			Retryable: true,
		}
	}
}

// DownloadAll fetches every quarter in [startYear, endYear], capped at the
// current quarter in the current year, pausing politely between requests.
// Per-quarter failures are logged and do not stop the batch; the count of
// archives now present is returned.
func (d *Downloader) DownloadAll(ctx context.Context, startYear, endYear int) (int, error) {
	now := time.Now()
	if endYear <= 0 {
		endYear = now.Year()
	}

	downloaded := 0
	for year := startYear; year <= endYear; year++ {
		maxQuarter := model.QuartersElapsed(year, now)

		for quarter := 1; quarter <= maxQuarter; quarter++ {
			if ctx.Err() != nil {
				return downloaded, ctx.Err()
			}

			path, err := d.Fetch(ctx, year, quarter)
			if err != nil {
				common.LogError(err, "Archive unavailable", common.Fields{
					"year": year, "quarter": quarter,
				})
			} else if path != "" {
				downloaded++
			}

			select {
			case <-ctx.Done():
				return downloaded, ctx.Err()
			case <-time.After(d.delay):
			}
		}
	}

	return downloaded, nil
}

// copyFile copies a staged archive into the cache directory.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
