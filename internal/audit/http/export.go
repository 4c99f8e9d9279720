package audithttp

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"time"

	"github.com/helmsman-kit/helmsman/internal/audit"
)

// WriteCSV renders timeline entries as a CSV document.
func WriteCSV(rows []audit.Entry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"at", "actor_id", "action", "entity", "entity_id", "meta"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		meta := ""
		if len(row.Meta) > 0 {
			data, err := json.Marshal(row.Meta)
			if err != nil {
				return nil, err
			}
			meta = string(data)
		}
		record := []string{
			row.At.Format(time.RFC3339),
			strconv.FormatInt(row.ActorID, 10),
			row.Action,
			row.Entity,
			row.EntityID,
			meta,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
