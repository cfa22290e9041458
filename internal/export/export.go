package export

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"leadgen-engine/internal/domain"
)

// Columns is the fixed export projection, a subset of the full lead record.
var Columns = []string{
	"niche", "city", "business_name",
	"phone", "google_maps_url", "website_url",
	"emails_found",
}

// WriteCSV serializes leads to a UTF-8 CSV at path. The header row is always
// written, even for zero rows. With requireContactable, only leads with a
// real email list and a real website make it out.
func WriteCSV(leads []domain.Lead, path string, requireContactable bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}

	rows := 0
	for _, l := range leads {
		if requireContactable && !l.Contactable() {
			continue
		}
		rec := []string{l.Niche, l.City, l.BusinessName, l.Phone, l.MapURL, l.WebsiteURL, l.EmailsFound}
		if err := w.Write(rec); err != nil {
			_ = f.Close()
			return fmt.Errorf("write row: %w", err)
		}
		rows++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}

	log.Printf("[export] wrote %d leads to %s", rows, path)
	return nil
}
