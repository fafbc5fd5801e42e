package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
	"github.com/yungbote/lovepattern-backend/internal/modules/report/render"
)

// A4 at 2x: 210x297mm pages rasterized at 1654x2339 px.
const (
	pageWidth   = 1654
	pageHeight  = 2339
	pageMargin  = 120
	jpegQuality = 98
	photoSize   = 300

	a4WidthMM  = 210.0
	a4HeightMM = 297.0

	rasterWorkers = 4
)

// buildPDF rasterizes every section to a JPEG page and stacks them into an
// A4 portrait document.
func buildPDF(ctx context.Context, f *truetype.Font, doc render.Document, photo []byte) ([]byte, error) {
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("document has no sections")
	}
	var photoImg image.Image
	if len(photo) > 0 {
		img, _, err := image.Decode(bytes.NewReader(photo))
		if err != nil {
			return nil, fmt.Errorf("decode photo: %w", err)
		}
		photoImg = img
	}

	pages := make([][]byte, len(doc.Sections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rasterWorkers)
	for i := range doc.Sections {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var img image.Image
			if doc.Sections[i].Key == pattern.LayerPersona {
				img = photoImg
			}
			raw, err := rasterizePage(f, doc.Sections[i], img)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			pages[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(render.CoverHeading, true)
	pdf.SetCreator("LovePattern", true)
	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	for i, raw := range pages {
		name := fmt.Sprintf("page-%d", i+1)
		pdf.AddPage()
		if info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw)); info == nil {
			return nil, fmt.Errorf("register page %d: %v", i+1, pdf.Error())
		}
		pdf.ImageOptions(name, 0, 0, a4WidthMM, a4HeightMM, false, opts, 0, "")
	}
	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type pageFaces struct {
	heading font.Face
	title   font.Face
	label   font.Face
	body    font.Face
	quote   font.Face
	chrome  font.Face
}

func newPageFaces(f *truetype.Font, scale float64) pageFaces {
	face := func(size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{Size: size * scale, DPI: 72, Hinting: font.HintingFull})
	}
	return pageFaces{
		heading: face(64),
		title:   face(52),
		label:   face(22),
		body:    face(28),
		quote:   face(34),
		chrome:  truetype.NewFace(f, &truetype.Options{Size: 22, DPI: 72, Hinting: font.HintingFull}),
	}
}

// rasterizePage shrinks the text until the section fits between header and
// footer. Faces are not safe for concurrent use, so each page builds its own.
func rasterizePage(f *truetype.Font, s render.Section, photo image.Image) ([]byte, error) {
	dc := gg.NewContext(pageWidth, pageHeight)
	bottom := float64(pageHeight - pageMargin - 80)

	scale := 1.0
	var faces pageFaces
	for attempt := 0; attempt < 6; attempt++ {
		faces = newPageFaces(f, scale)
		p := &painter{dc: dc, faces: faces, dry: true}
		p.section(s, photo)
		if p.y <= bottom {
			break
		}
		scale *= 0.85
	}

	dc.SetHexColor("#ffffff")
	dc.Clear()
	drawChrome(dc, faces.chrome, s)
	p := &painter{dc: dc, faces: faces}
	p.section(s, photo)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode page: %w", err)
	}
	return buf.Bytes(), nil
}

func drawChrome(dc *gg.Context, face font.Face, s render.Section) {
	left := float64(pageMargin)
	right := float64(pageWidth - pageMargin)

	dc.SetFontFace(face)
	dc.SetHexColor("#a8a29e")
	dc.DrawStringAnchored(strings.ToUpper(render.HeaderLeft), left, pageMargin, 0, 1)
	dc.SetHexColor("#1c1917")
	dc.DrawStringAnchored(render.HeaderRight, right, pageMargin, 1, 1)
	dc.SetLineWidth(4)
	dc.DrawLine(left, pageMargin+44, right, pageMargin+44)
	dc.Stroke()

	footerY := float64(pageHeight - pageMargin)
	dc.SetHexColor("#e7e5e4")
	dc.SetLineWidth(2)
	dc.DrawLine(left, footerY-40, right, footerY-40)
	dc.Stroke()
	dc.SetHexColor("#a8a29e")
	dc.DrawStringAnchored(render.FooterLeft, left, footerY, 0, 0)
	dc.DrawStringAnchored(s.Footer(), right, footerY, 1, 0)
}

// painter lays out blocks top to bottom. With dry set it only measures.
type painter struct {
	dc    *gg.Context
	faces pageFaces
	y     float64
	dry   bool
}

func (p *painter) left() float64  { return pageMargin }
func (p *painter) width() float64 { return pageWidth - 2*pageMargin }

func (p *painter) section(s render.Section, photo image.Image) {
	p.y = pageMargin + 100
	if s.Heading != "" {
		p.paragraph(p.faces.heading, s.Heading, "#1c1917", 1.2)
		p.paragraph(p.faces.label, s.Subtitle, "#78716c", 1.5)
		p.y += 24
	}
	p.paragraph(p.faces.title, s.Title, "#1c1917", 1.25)
	p.y += 32
	if photo != nil {
		p.photo(photo)
	}
	for _, b := range s.Blocks {
		p.block(b)
		p.y += 28
	}
}

func (p *painter) block(b render.Block) {
	p.paragraph(p.faces.label, strings.ToUpper(b.Label), "#78716c", 1.6)
	switch b.Kind {
	case render.BlockQuote:
		if b.Text != "" {
			p.paragraph(p.faces.quote, "“"+b.Text+"”", "#881337", 1.4)
		}
	case render.BlockList:
		for _, it := range b.Items {
			p.paragraph(p.faces.body, "• "+it, "#292524", 1.5)
		}
	case render.BlockNumbered:
		for i, it := range b.Items {
			p.paragraph(p.faces.body, fmt.Sprintf("%02d  %s", i+1, it), "#292524", 1.5)
		}
	case render.BlockRows:
		for _, r := range b.Rows {
			for _, c := range r.Cells {
				line := c.Text
				if c.Label != "" {
					line = c.Label + ": " + c.Text
				}
				p.paragraph(p.faces.body, line, "#292524", 1.5)
			}
			p.y += 12
		}
	default:
		p.paragraph(p.faces.body, b.Text, "#292524", 1.5)
	}
}

func (p *painter) paragraph(face font.Face, text, color string, spacing float64) {
	if strings.TrimSpace(text) == "" {
		return
	}
	p.dc.SetFontFace(face)
	lineHeight := p.dc.FontHeight() * spacing
	for _, line := range p.dc.WordWrap(text, p.width()) {
		if !p.dry {
			p.dc.SetHexColor(color)
			p.dc.DrawStringAnchored(line, p.left(), p.y, 0, 1)
		}
		p.y += lineHeight
	}
}

// photo draws a centered, circle-clipped square crop of the user's photo.
func (p *painter) photo(img image.Image) {
	if !p.dry {
		b := img.Bounds()
		side := b.Dx()
		if b.Dy() < side {
			side = b.Dy()
		}
		x0 := b.Min.X + (b.Dx()-side)/2
		y0 := b.Min.Y + (b.Dy()-side)/2
		src := image.Rect(x0, y0, x0+side, y0+side)
		scaled := image.NewRGBA(image.Rect(0, 0, photoSize, photoSize))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, src, draw.Over, nil)

		cx := float64(pageWidth) / 2
		cy := p.y + photoSize/2
		p.dc.Push()
		p.dc.DrawCircle(cx, cy, photoSize/2)
		p.dc.Clip()
		p.dc.DrawImageAnchored(scaled, int(cx), int(cy), 0.5, 0.5)
		p.dc.ResetClip()
		p.dc.Pop()
		p.dc.SetHexColor("#e7e5e4")
		p.dc.SetLineWidth(8)
		p.dc.DrawCircle(cx, cy, photoSize/2)
		p.dc.Stroke()
	}
	p.y += photoSize + 40
}
