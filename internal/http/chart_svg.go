package http

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"expenses/internal/report"
)

const (
	chartWidth  = 640
	chartHeight = 400
	chartCX     = 200.0
	chartCY     = 210.0
	chartR      = 150.0
)

// renderPieSVG draws the chart with its legend to the right of the pie.
func renderPieSVG(w io.Writer, chart report.PieChart) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		chartWidth, chartHeight, chartWidth, chartHeight)
	fmt.Fprintf(&b, `<text x="%d" y="30" text-anchor="middle" font-family="sans-serif" font-size="18" font-weight="bold">%s</text>`+"\n",
		chartWidth/2, html.EscapeString(chart.Title))

	if chart.Empty() {
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-family="sans-serif" font-size="14">No expenses to display</text>`+"\n",
			chartWidth/2, chartHeight/2)
	}

	for i, s := range chart.Slices {
		b.WriteString(slicePath(s))
		y := 80 + i*24
		fmt.Fprintf(&b, `<rect x="390" y="%d" width="14" height="14" fill="%s"/>`+"\n", y, s.Color)
		fmt.Fprintf(&b, `<text x="412" y="%d" font-family="sans-serif" font-size="13">%s</text>`+"\n",
			y+12, html.EscapeString(s.Legend))
	}

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// slicePath emits one wedge. A full-circle wedge is drawn as a circle since
// an arc cannot start and end on the same point.
func slicePath(s report.Slice) string {
	if s.Sweep >= 359.999 {
		return fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="#fff"/>`+"\n", chartCX, chartCY, chartR, s.Color)
	}
	x1, y1 := polar(s.Start)
	x2, y2 := polar(s.Start + s.Sweep)
	large := 0
	if s.Sweep > 180 {
		large = 1
	}
	return fmt.Sprintf(`<path d="M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z" fill="%s" stroke="#fff"/>`+"\n",
		chartCX, chartCY, x1, y1, chartR, chartR, large, x2, y2, s.Color)
}

// polar maps degrees clockwise from twelve o'clock to SVG coordinates.
func polar(deg float64) (float64, float64) {
	rad := (deg - 90) * math.Pi / 180
	return chartCX + chartR*math.Cos(rad), chartCY + chartR*math.Sin(rad)
}
