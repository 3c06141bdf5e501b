package indicator

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

type Renderer interface {
	Render(indicators []Indicator) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

var csvHeader = []string{"id", "indicatorName", "value", "year", "month", "dataSource", "createdDate", "lastUpdatedDate"}

func (r *CsvRendererImpl) Render(indicators []Indicator) (string, error) {
	data := make([][]string, 0, len(indicators)+1)
	data = append(data, csvHeader)
	for _, indicator := range indicators {
		month := ""
		if indicator.Month != nil {
			month = strconv.Itoa(*indicator.Month)
		}
		data = append(data, []string{
			strconv.Itoa(indicator.Id),
			indicator.Name,
			indicator.Value.String(),
			strconv.Itoa(indicator.Year),
			month,
			indicator.DataSource,
			indicator.CreatedDate.UTC().Format(time.RFC3339),
			indicator.LastUpdatedDate.UTC().Format(time.RFC3339),
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
