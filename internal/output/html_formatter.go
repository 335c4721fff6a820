package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/goccy/go-json"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

// HTMLFormatter produces a standalone HTML report with a balance chart.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
	"json": func(v any) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.ForecastReport) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.ForecastReport
		Assessment  Assessment
		Assumptions []string
	}{report, AssessForecast(report), GenerateAssumptions(report.Forecast)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
