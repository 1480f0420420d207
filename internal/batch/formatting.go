package batch

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/scrub/internal/pipeline"
)

// formatText renders one line per file with the detection counts.
func formatText(items []FileResult) string {
	var output strings.Builder
	for i := range items {
		item := &items[i]
		if item.Failed() {
			output.WriteString(fmt.Sprintf("%s: ERROR %s\n", item.Path, item.Error))
			continue
		}
		text, face, body := 0, 0, 0
		for _, det := range item.Detections {
			switch det.Kind {
			case pipeline.KindText:
				text++
			case pipeline.KindFace:
				face++
			case pipeline.KindBody:
				body++
			}
		}
		output.WriteString(fmt.Sprintf("%s -> %s (%d text, %d face, %d body, %dms)\n",
			item.Path, item.OutputPath, text, face, body, item.DurationMs))
	}
	return output.String()
}

// formatCSV renders one row per detection, plus a summary row for files
// without any.
func formatCSV(items []FileResult) (string, error) {
	rows := [][]string{
		{"file", "output", "status", "kind", "x", "y", "w", "h", "confidence"},
	}
	for i := range items {
		item := &items[i]
		if item.Failed() {
			rows = append(rows, []string{item.Path, "", "error: " + item.Error, "", "", "", "", "", ""})
			continue
		}
		if len(item.Detections) == 0 {
			rows = append(rows, []string{item.Path, item.OutputPath, "ok", "", "", "", "", "", ""})
			continue
		}
		for _, det := range item.Detections {
			rows = append(rows, []string{
				item.Path,
				item.OutputPath,
				"ok",
				det.Kind,
				strconv.Itoa(det.Box.X),
				strconv.Itoa(det.Box.Y),
				strconv.Itoa(det.Box.W),
				strconv.Itoa(det.Box.H),
				fmt.Sprintf("%.3f", det.Confidence),
			})
		}
	}

	var output strings.Builder
	writer := csv.NewWriter(&output)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), writer.Error()
}
