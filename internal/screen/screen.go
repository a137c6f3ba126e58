// Package screen renders a crash report as a full-screen image: a header
// bar, the report text and a QR code carrying the report id.
package screen

import (
	"image"
	"io"
	"strings"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font/basicfont"
)

const (
	SCREEN_WIDTH  = 640
	SCREEN_HEIGHT = 480
	HEADER_HEIGHT = 36
	QR_SIZE       = 120
	MARGIN        = 12
	LINE_SPACING  = 1.3
)

// Theme is the color set of the crash screen.
type Theme struct {
	BG        string
	HeaderBG  string
	HeaderTxt string
	Text      string
	Dim       string
}

var ThemeCrash = Theme{
	BG:        "#101014",
	HeaderBG:  "#B3261E",
	HeaderTxt: "#FFFFFF",
	Text:      "#E6E6E6",
	Dim:       "#8A8A8A",
}

// Screen is a rendered crash screen.
type Screen struct {
	dc *gg.Context
}

// Render draws title, report and reportID.
func Render(title, report, reportID string, theme Theme) *Screen {
	dc := gg.NewContext(SCREEN_WIDTH, SCREEN_HEIGHT)
	dc.SetFontFace(basicfont.Face7x13)

	// Background
	dc.SetHexColor(theme.BG)
	dc.Clear()

	// Header bar
	dc.SetHexColor(theme.HeaderBG)
	dc.DrawRectangle(0, 0, SCREEN_WIDTH, HEADER_HEIGHT)
	dc.Fill()
	dc.SetHexColor(theme.HeaderTxt)
	dc.DrawStringAnchored(title, SCREEN_WIDTH/2, HEADER_HEIGHT/2, 0.5, 0.5)

	// Report body, left of the QR code
	textWidth := float64(SCREEN_WIDTH - QR_SIZE - 3*MARGIN)
	_, lineHeight := dc.MeasureString("M")
	lineHeight *= LINE_SPACING
	y := float64(HEADER_HEIGHT + MARGIN)
	maxY := float64(SCREEN_HEIGHT - MARGIN)

	dc.SetHexColor(theme.Text)
	for _, line := range strings.Split(strings.TrimRight(report, "\n"), "\n") {
		for _, wrapped := range wrap(dc, line, textWidth) {
			if y+lineHeight > maxY {
				dc.SetHexColor(theme.Dim)
				dc.DrawString("...", MARGIN, y+lineHeight)
				goto body_done
			}
			y += lineHeight
			dc.DrawString(wrapped, MARGIN, y)
		}
	}
body_done:

	// QR code with the report id
	if reportID != "" {
		qr, err := qrcode.New(reportID, qrcode.Medium)
		if err == nil {
			qrX := SCREEN_WIDTH - QR_SIZE - MARGIN
			qrY := HEADER_HEIGHT + MARGIN
			dc.DrawImage(qr.Image(QR_SIZE), qrX, qrY)

			dc.SetHexColor(theme.Dim)
			dc.DrawStringWrapped("Report "+reportID, float64(qrX), float64(qrY+QR_SIZE+MARGIN), 0, 0, QR_SIZE, LINE_SPACING, gg.AlignLeft)
		}
	}

	return &Screen{dc: dc}
}

// wrap splits line into pieces no wider than width. Lines without spaces,
// such as long paths, are cut by character.
func wrap(dc *gg.Context, line string, width float64) []string {
	if line == "" {
		return []string{""}
	}
	var out []string
	for _, l := range dc.WordWrap(line, width) {
		for {
			w, _ := dc.MeasureString(l)
			if w <= width || len(l) <= 1 {
				break
			}
			cut := len(l) - 1
			for cut > 1 {
				if w, _ := dc.MeasureString(l[:cut]); w <= width {
					break
				}
				cut--
			}
			out = append(out, l[:cut])
			l = l[cut:]
		}
		out = append(out, l)
	}
	return out
}

// Image is the rendered frame.
func (s *Screen) Image() image.Image {
	return s.dc.Image()
}

// EncodePNG writes the frame as PNG.
func (s *Screen) EncodePNG(w io.Writer) error {
	return errors.Wrap(s.dc.EncodePNG(w), "encode crash screen")
}

// SavePNG writes the frame to path.
func (s *Screen) SavePNG(path string) error {
	return errors.Wrapf(s.dc.SavePNG(path), "save crash screen %s", path)
}
