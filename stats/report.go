package stats

import (
	"html/template"
	"io"
	"math"

	"github.com/minios-linux/relkit/langmeta"
)

// Band colors, checked from the top; the first match wins.
const (
	ColorComplete = "#00B015" // 100%
	ColorNearly   = "#FF9900" // >= 95%
	ColorGood     = "#6600FF" // >= 75%
	ColorHalf     = "#000000" // >= 50%
	ColorPoor     = "#FF0000"
)

// BandColor maps a shown percentage to its row color.
func BandColor(percent float64) string {
	switch {
	case percent == 100:
		return ColorComplete
	case percent >= 95:
		return ColorNearly
	case percent >= 75:
		return ColorGood
	case percent >= 50:
		return ColorHalf
	default:
		return ColorPoor
	}
}

// Row is one language line of the report.
type Row struct {
	Lang         string
	Name         string
	Color        string
	Fuzzy        int
	Untranslated int
	NotShown     int
	// Shown is the exact percentage; Percent is its floor.
	Shown   float64
	Percent int
	// Degenerate rows had no messages or no readable statistics.
	Degenerate bool
}

// NewRow builds the row for lang from its counts.
func NewRow(lang string, c Counts) Row {
	shown := c.ShownPercent()
	name := langmeta.Resolve(lang).Name
	if name == lang {
		name = ""
	}
	return Row{
		Lang:         lang,
		Name:         name,
		Color:        BandColor(shown),
		Fuzzy:        c.Fuzzy,
		Untranslated: c.Untranslated,
		NotShown:     c.NotShown(),
		Shown:        shown,
		Percent:      int(math.Floor(shown)),
		Degenerate:   c.Total() == 0,
	}
}

// Aggregate accumulates the report footer across rows.
type Aggregate struct {
	SumFuzzy        int
	SumUntranslated int
	SumNotShown     int
	// AveragePercent is folded pairwise: each new language is averaged with
	// the previous value, so later languages weigh more than earlier ones.
	// A previous value of exactly 0 is replaced rather than averaged.
	AveragePercent float64
	Languages      int
}

// Add folds row into the aggregate.
func (a *Aggregate) Add(row Row) {
	a.SumFuzzy += row.Fuzzy
	a.SumUntranslated += row.Untranslated
	a.SumNotShown += row.NotShown
	if a.AveragePercent == 0 {
		a.AveragePercent = row.Shown
	} else {
		a.AveragePercent = (a.AveragePercent + row.Shown) / 2
	}
	a.Languages++
}

// Percent returns the floored average.
func (a Aggregate) Percent() int {
	return int(math.Floor(a.AveragePercent))
}

// Report is the whole coverage document.
type Report struct {
	Product string
	Version string
	Rows    []Row
	Total   Aggregate
}

// Add appends a row and updates the totals.
func (r *Report) Add(row Row) {
	r.Rows = append(r.Rows, row)
	r.Total.Add(row)
}

// Render writes the report as HTML.
func (r *Report) Render(w io.Writer) error {
	return reportTemplate.Execute(w, r)
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN" "http://www.w3.org/TR/html4/loose.dtd">
<html>
<head>
<meta http-equiv="Content-Type" content="text/html; charset=UTF-8">
<title>Statistics of {{.Product}} {{.Version}} translations</title>
</head>
<body>
<a name="__top"></a>
<p align="center">
<h1>Statistics of {{.Product}} {{.Version}} translations</h1><br>
<table border="1" cellspacing="0" dir="ltr">
<tr><td align="left" valign="middle" width="60" height="12">
<font color="#196aff"><i><b>Language</b></i></font>
</td><td align="center" valign="middle" width="142" height="12">
<font color="#196aff"><i><b>Fuzzy Strings</b></i></font>
</td><td align="center" valign="middle" width="168" height="12">
<font color="#196aff"><i><b>Untranslated Strings</b></i></font>
</td><td align="center" valign="middle" width="163" height="12">
<font color="#196aff"><i><b>All Not Shown Strings</b></i></font>
</td><td align="center" valign="middle" width="163" height="12">
<font color="#196aff"><i><b>Translated %</b></i></font>
</td></tr>
{{- range .Rows}}
<tr><td align="left" valign="middle" width="60" height="12"{{if .Name}} title="{{.Name}}"{{end}}>
<font color="{{.Color}}">{{.Lang}}</font></td>
<td align="center" valign="middle" width="142" height="12">
<font color="{{.Color}}">{{.Fuzzy}}</font></td>
<td align="center" valign="middle" width="168" height="12">
<font color="{{.Color}}">{{.Untranslated}}</font></td>
<td align="center" valign="middle" width="163" height="12">
<font color="{{.Color}}">{{.NotShown}}</font></td>
<td align="center" valign="middle" width="163" height="12">
<font color="{{.Color}}">{{.Percent}} %</font></td></tr>
{{- end}}
<tr><td align="left" valign="middle" width="60" height="12">
<u><i><b>{{.Total.Languages}}</b></i></u></td>
<td align="center" valign="middle" width="142" height="12"><u><i><b>{{.Total.SumFuzzy}}</b></i></u></td>
<td align="center" valign="middle" width="168" height="12"><u><i><b>{{.Total.SumUntranslated}}</b></i></u></td>
<td align="center" valign="middle" width="163" height="12"><u><i><b>{{.Total.SumNotShown}}</b></i></u></td>
<td align="center" valign="middle" width="163" height="12"><u><i><b>{{.Total.Percent}} %</b></i></u></td></tr>
</table>
</p>
</body>
</html>
`))
