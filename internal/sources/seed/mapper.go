package seed

import (
	"fmt"

	"github.com/MrSnakeDoc/resnav/internal/importer"
)

// Mapper converts seed entries to import records.
type Mapper struct{}

// NewMapper creates a new seed mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map converts a seed file to importer records. The records run through
// the same validation and batch-timestamp semantics as a manual import.
func (m *Mapper) Map(f File) ([]importer.Record, error) {
	if len(f.Resources) == 0 {
		return nil, fmt.Errorf("no resources found in seed file")
	}

	records := make([]importer.Record, 0, len(f.Resources))
	for _, entry := range f.Resources {
		records = append(records, importer.Record{
			Title:    entry.Title,
			URL:      entry.URL,
			Category: entry.Category,
			Level:    entry.Level,
			Tags:     importer.TagList(entry.Tags),
		})
	}
	return records, nil
}
