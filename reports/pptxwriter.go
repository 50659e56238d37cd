package reports

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// pptxDeck assembles a PresentationML package by hand: a single master and
// layout, one part per slide, images as media parts. Office and LibreOffice
// both accept this minimal shape.
type pptxDeck struct {
	slides []pptxSlide
	images [][]byte
}

type pptxSlide struct {
	xml      string
	imageRef int // 1-based media index, 0 means none
}

type pptxBullet struct {
	Text   string
	Level  int
	Bold   bool
	Italic bool
	Size   int // hundredths of a point, 0 means default
}

const (
	emuPerInch     = 914400
	slideWidthEMU  = 10 * emuPerInch
	slideHeightEMU = 15 * emuPerInch / 2 // 7.5 inches
)

func esc(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func (d *pptxDeck) addSlide(body string, imageRef int) {
	d.slides = append(d.slides, pptxSlide{xml: body, imageRef: imageRef})
}

// AddTitleSlide puts a centered title near the top and subtitle lines below.
func (d *pptxDeck) AddTitleSlide(title string, subtitle []string) {
	var sub strings.Builder
	for _, line := range subtitle {
		sub.WriteString(`<a:p><a:pPr algn="ctr"/><a:r><a:rPr lang="en-US" sz="1800" i="1"/><a:t>` + esc(line) + `</a:t></a:r></a:p>`)
	}
	body := titleShape(title, 2200, true) + textBoxShape(3, sub.String(), inchesBox(1, 3, 8, 2))
	d.addSlide(slideXML(body), 0)
}

// AddBulletSlide renders a heading and a bulleted body.
func (d *pptxDeck) AddBulletSlide(title string, bullets []pptxBullet) {
	var b strings.Builder
	for _, bullet := range bullets {
		props := fmt.Sprintf(`lvl="%d"`, bullet.Level)
		run := `<a:rPr lang="en-US"`
		if bullet.Size > 0 {
			run += fmt.Sprintf(` sz="%d"`, bullet.Size)
		}
		if bullet.Bold {
			run += ` b="1"`
		}
		if bullet.Italic {
			run += ` i="1"`
		}
		run += `/>`
		b.WriteString(`<a:p><a:pPr ` + props + `/><a:r>` + run + `<a:t>` + esc(bullet.Text) + `</a:t></a:r></a:p>`)
	}
	body := titleShape(title, 1800, false) + textBoxShape(3, b.String(), inchesBox(0.75, 1.5, 8.5, 5.5))
	d.addSlide(slideXML(body), 0)
}

// AddImageSlide centers a PNG under the heading, scaled to fit 9x5 inches.
func (d *pptxDeck) AddImageSlide(title string, png []byte, widthPx, heightPx int) {
	d.images = append(d.images, png)
	ref := len(d.images)

	maxW, maxH := 9.0, 5.0
	w, h := maxW, maxH
	if widthPx > 0 && heightPx > 0 {
		ratio := float64(heightPx) / float64(widthPx)
		w = maxW
		h = w * ratio
		if h > maxH {
			h = maxH
			w = h / ratio
		}
	}
	left := (10.0 - w) / 2
	top := 1.5

	pic := fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="4" name="Chart"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="rId2"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		emu(left), emu(top), emu(w), emu(h))

	d.addSlide(slideXML(titleShape(title, 1800, false)+pic), ref)
}

// AddTableSlide lays out a bounded table with a header row.
func (d *pptxDeck) AddTableSlide(title string, headers []string, rows [][]string, note string) {
	if len(headers) == 0 {
		return
	}
	colWidth := emu(9.0) / len(headers)
	rowHeight := emu(0.35)

	var tbl strings.Builder
	tbl.WriteString(`<a:tbl><a:tblPr firstRow="1" bandRow="1"/><a:tblGrid>`)
	for range headers {
		tbl.WriteString(fmt.Sprintf(`<a:gridCol w="%d"/>`, colWidth))
	}
	tbl.WriteString(`</a:tblGrid>`)

	writeRow := func(cells []string, header bool) {
		tbl.WriteString(fmt.Sprintf(`<a:tr h="%d">`, rowHeight))
		for _, cell := range cells {
			run := `<a:rPr lang="en-US" sz="1000"/>`
			if header {
				run = `<a:rPr lang="en-US" sz="1100" b="1"><a:solidFill><a:srgbClr val="FFFFFF"/></a:solidFill></a:rPr>`
			}
			tbl.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:p><a:r>` + run + `<a:t>` + esc(cell) + `</a:t></a:r></a:p></a:txBody>`)
			if header {
				tbl.WriteString(`<a:tcPr><a:solidFill><a:srgbClr val="0070C0"/></a:solidFill></a:tcPr>`)
			} else {
				tbl.WriteString(`<a:tcPr/>`)
			}
			tbl.WriteString(`</a:tc>`)
		}
		tbl.WriteString(`</a:tr>`)
	}
	writeRow(headers, true)
	for _, row := range rows {
		writeRow(row, false)
	}
	tbl.WriteString(`</a:tbl>`)

	frame := fmt.Sprintf(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="5" name="Table"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`+
		`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">%s</a:graphicData></a:graphic></p:graphicFrame>`,
		emu(0.5), emu(1.5), emu(9.0), emu(5.0), tbl.String())

	body := titleShape(title, 1800, false) + frame
	if note != "" {
		noteXML := `<a:p><a:pPr algn="ctr"/><a:r><a:rPr lang="en-US" sz="1000" i="1"/><a:t>` + esc(note) + `</a:t></a:r></a:p>`
		body += textBoxShape(6, noteXML, inchesBox(0.5, 6.7, 9, 0.5))
	}
	d.addSlide(slideXML(body), 0)
}

func emu(inches float64) int {
	return int(inches * emuPerInch)
}

func inchesBox(left, top, width, height float64) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		emu(left), emu(top), emu(width), emu(height))
}

func titleShape(title string, size int, centered bool) string {
	algn := ""
	if centered {
		algn = ` algn="ctr"`
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s</p:spPr><p:txBody><a:bodyPr/>`+
		`<a:p><a:pPr%s/><a:r><a:rPr lang="en-US" sz="%d" b="1"/><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		inchesBox(0.5, 0.4, 9, 1), algn, size, esc(title))
}

func textBoxShape(id int, paragraphs string, xfrm string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Content"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s</p:spPr><p:txBody><a:bodyPr wrap="square"><a:normAutofit/></a:bodyPr>%s</p:txBody></p:sp>`,
		id, xfrm, paragraphs)
}

func slideXML(shapes string) string {
	return xmlHeader + `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
		shapes +
		`</p:spTree></p:cSld><p:clrMapOvr><a:overrideClrMapping bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/></p:clrMapOvr></p:sld>`
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Bytes zips the package together.
func (d *pptxDeck) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write([]byte(content))
		return err
	}

	var types strings.Builder
	types.WriteString(xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Default Extension="png" ContentType="image/png"/>` +
		`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
		`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>` +
		`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
		`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := range d.slides {
		types.WriteString(fmt.Sprintf(`<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1))
	}
	types.WriteString(`</Types>`)
	if err := write("[Content_Types].xml", types.String()); err != nil {
		return nil, err
	}

	if err := write("_rels/.rels", xmlHeader+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>`+
		`</Relationships>`); err != nil {
		return nil, err
	}

	var pres strings.Builder
	pres.WriteString(xmlHeader + `<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst><p:sldIdLst>`)
	for i := range d.slides {
		pres.WriteString(fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2))
	}
	pres.WriteString(fmt.Sprintf(`</p:sldIdLst><p:sldSz cx="%d" cy="%d"/><p:notesSz cx="%d" cy="%d"/></p:presentation>`,
		slideWidthEMU, slideHeightEMU, slideHeightEMU, slideWidthEMU))
	if err := write("ppt/presentation.xml", pres.String()); err != nil {
		return nil, err
	}

	var presRels strings.Builder
	presRels.WriteString(xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := range d.slides {
		presRels.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+2, i+1))
	}
	presRels.WriteString(`</Relationships>`)
	if err := write("ppt/_rels/presentation.xml.rels", presRels.String()); err != nil {
		return nil, err
	}

	if err := write("ppt/slideMasters/slideMaster1.xml", slideMasterXML); err != nil {
		return nil, err
	}
	if err := write("ppt/slideMasters/_rels/slideMaster1.xml.rels", xmlHeader+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`+
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>`+
		`</Relationships>`); err != nil {
		return nil, err
	}
	if err := write("ppt/slideLayouts/slideLayout1.xml", slideLayoutXML); err != nil {
		return nil, err
	}
	if err := write("ppt/slideLayouts/_rels/slideLayout1.xml.rels", xmlHeader+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>`+
		`</Relationships>`); err != nil {
		return nil, err
	}
	if err := write("ppt/theme/theme1.xml", themeXML); err != nil {
		return nil, err
	}

	for i, slide := range d.slides {
		if err := write(fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slide.xml); err != nil {
			return nil, err
		}
		rels := xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`
		if slide.imageRef > 0 {
			rels += fmt.Sprintf(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image%d.png"/>`, slide.imageRef)
		}
		rels += `</Relationships>`
		if err := write(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), rels); err != nil {
			return nil, err
		}
	}

	for i, img := range d.images {
		w, err := zw.Create(fmt.Sprintf("ppt/media/image%d.png", i+1))
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(img); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const slideMasterXML = xmlHeader + `<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld><p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/><p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst></p:sldMaster>`

const slideLayoutXML = xmlHeader + `<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" type="blank"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`

const themeXML = xmlHeader + `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Default"><a:themeElements><a:clrScheme name="Default"><a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1><a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1><a:dk2><a:srgbClr val="44546A"/></a:dk2><a:lt2><a:srgbClr val="E7E6E6"/></a:lt2><a:accent1><a:srgbClr val="4472C4"/></a:accent1><a:accent2><a:srgbClr val="ED7D31"/></a:accent2><a:accent3><a:srgbClr val="A5A5A5"/></a:accent3><a:accent4><a:srgbClr val="FFC000"/></a:accent4><a:accent5><a:srgbClr val="5B9BD5"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6><a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink></a:clrScheme><a:fontScheme name="Default"><a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont><a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont></a:fontScheme><a:fmtScheme name="Default"><a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst><a:lnStyleLst><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst><a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst><a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst></a:fmtScheme></a:themeElements></a:theme>`
