package downloader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bhcwatch/y9c/internal/model"
)

// Archive describes one cached quarterly archive.
type Archive struct {
	Path    string
	Year    int
	Quarter int
}

// Existing inventories the cached archives, sorted by period.
func (d *Downloader) Existing() []Archive {
	entries, err := os.ReadDir(d.dataDir)
	if err != nil {
		return nil
	}

	var archives []Archive
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "BHCF_") || !strings.HasSuffix(name, ".zip") {
			continue
		}

		stem := strings.TrimSuffix(strings.TrimPrefix(name, "BHCF_"), ".zip")
		stem = strings.TrimSuffix(stem, "_chicago")
		parts := strings.Split(stem, "Q")
		if len(parts) != 2 {
			continue
		}

		year, yearErr := strconv.Atoi(parts[0])
		quarter, quarterErr := strconv.Atoi(parts[1])
		if yearErr != nil || quarterErr != nil {
			continue
		}

		archives = append(archives, Archive{
			Year:    year,
			Quarter: quarter,
			Path:    filepath.Join(d.dataDir, name),
		})
	}

	sort.Slice(archives, func(i, j int) bool {
		if archives[i].Year != archives[j].Year {
			return archives[i].Year < archives[j].Year
		}
		return archives[i].Quarter < archives[j].Quarter
	})

	return archives
}

// MissingQuarters lists the periods in [startYear, endYear] with no cached
// archive, capped at the current quarter in the current year.
func (d *Downloader) MissingQuarters(startYear, endYear int) []Archive {
	now := time.Now()
	if endYear <= 0 {
		endYear = now.Year()
	}

	existing := make(map[[2]int]bool)
	for _, a := range d.Existing() {
		existing[[2]int{a.Year, a.Quarter}] = true
	}

	var missing []Archive
	for year := startYear; year <= endYear; year++ {
		maxQuarter := model.QuartersElapsed(year, now)
		for quarter := 1; quarter <= maxQuarter; quarter++ {
			if !existing[[2]int{year, quarter}] {
				missing = append(missing, Archive{Year: year, Quarter: quarter})
			}
		}
	}

	return missing
}

// WriteInstructions writes a manual-download instruction file for the
// missing quarters and returns its path. An empty path writes to the
// manual staging directory. Returns an empty path when nothing is missing.
func (d *Downloader) WriteInstructions(path string, startYear, endYear int) (string, error) {
	missing := d.MissingQuarters(startYear, endYear)
	if len(missing) == 0 {
		return "", nil
	}
	if path == "" {
		path = filepath.Join(d.manualDir, "DOWNLOAD_INSTRUCTIONS.txt")
	}

	var b strings.Builder
	rule := strings.Repeat("=", 70)

	fmt.Fprintf(&b, "%s\nY-9C DATA MANUAL DOWNLOAD INSTRUCTIONS\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Missing quarters: %d\n\n", len(missing))
	fmt.Fprintf(&b, "STEP 1: Go to the FFIEC Financial Data Download page:\n        %s\n\n", FFIECDownloadPage)
	b.WriteString("STEP 2: For each quarter below, do the following:\n")
	b.WriteString("        a) Select Report Type: BHCF (FR Y-9C)\n")
	b.WriteString("        b) Select the Year\n")
	b.WriteString("        c) Select the Quarter\n")
	b.WriteString("        d) Click 'Download'\n")
	b.WriteString("        e) Save the ZIP file\n\n")
	fmt.Fprintf(&b, "STEP 3: Place all downloaded files in:\n        %s\n\n", d.manualDir)
	b.WriteString("STEP 4: Re-run: y9c init\n\n")
	fmt.Fprintf(&b, "%s\nQUARTERS TO DOWNLOAD:\n%s\n\n", strings.Repeat("-", 70), strings.Repeat("-", 70))

	for _, m := range missing {
		date, err := model.ReportDate(m.Year, m.Quarter)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "  [ ] %d Q%d  (Report Date: %s)\n", m.Year, m.Quarter, date.Format("2006-01-02"))
	}

	fmt.Fprintf(&b, "\n%s\nTotal files to download: %d\n%s\n", rule, len(missing), rule)

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write instructions: %w", err)
	}

	return path, nil
}
