package xlsx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

const (
	workbookPart      = "xl/workbook.xml"
	workbookRelsPart  = "xl/_rels/workbook.xml.rels"
	sharedStringsPart = "xl/sharedStrings.xml"
)

type workbookXML struct {
	Sheets []struct {
		Name  string `xml:"name,attr"`
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sheets>sheet"`
}

type relationshipsXML struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type worksheetXML struct {
	Rows []struct {
		Cells []cellXML `xml:"c"`
	} `xml:"sheetData>row"`
}

type cellXML struct {
	Ref    string     `xml:"r,attr"`
	Type   string     `xml:"t,attr"`
	Value  *string    `xml:"v"`
	Inline *inlineXML `xml:"is"`
}

type inlineXML struct {
	Text []string `xml:"t"`
	Runs []string `xml:"r>t"`
}

// Read parses a spreadsheet package from raw bytes.
//
// It fails with *FormatError only when the bytes are not a zip archive, the
// workbook descriptor or its relationship part is missing, or a declared
// sheet references a relationship id that the relationship part does not
// define. A missing shared-string table is treated as an empty table, and a
// sheet whose target part is absent is silently dropped from the result so
// the caller can surface it as a warning.
func Read(data []byte) (*Workbook, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, formatErr("not a valid workbook archive", err)
	}

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	var wbDesc workbookXML
	if err := decodePart(parts, workbookPart, &wbDesc); err != nil {
		return nil, formatErr("workbook descriptor missing or unreadable", err)
	}

	var rels relationshipsXML
	if err := decodePart(parts, workbookRelsPart, &rels); err != nil {
		return nil, formatErr("workbook relationship part missing or unreadable", err)
	}
	targets := make(map[string]string, len(rels.Rels))
	for _, rel := range rels.Rels {
		targets[rel.ID] = rel.Target
	}

	shared, err := readSharedStrings(parts)
	if err != nil {
		// Malformed shared strings degrade to an empty table rather than
		// failing the whole read.
		shared = nil
	}

	wb := &Workbook{}
	for _, sheet := range wbDesc.Sheets {
		target, ok := targets[sheet.RelID]
		if !ok {
			return nil, formatErr(fmt.Sprintf("sheet %q references undefined relationship %q", sheet.Name, sheet.RelID), nil)
		}
		part, ok := parts[resolveTarget(target)]
		if !ok {
			continue
		}
		grid, err := readSheet(part, shared)
		if err != nil {
			continue
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: sheet.Name, Rows: grid})
	}
	return wb, nil
}

// resolveTarget maps a relationship target to a zip part name. Targets are
// either root-relative ("/xl/worksheets/sheet1.xml") or relative to the
// workbook directory ("worksheets/sheet1.xml").
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	return path.Clean(path.Join("xl", target))
}

func decodePart(parts map[string]*zip.File, name string, v any) error {
	part, ok := parts[name]
	if !ok {
		return fmt.Errorf("part %s not found", name)
	}
	rc, err := part.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// readSharedStrings loads the shared-string table, concatenating the text
// runs inside each <si> entry. A package without the part uses inline
// strings only, so its absence simply yields an empty table.
func readSharedStrings(parts map[string]*zip.File) ([]string, error) {
	part, ok := parts[sharedStringsPart]
	if !ok {
		return nil, nil
	}
	rc, err := part.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var (
		strs   []string
		sb     strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "si":
				sb.Reset()
			case "t":
				inText = true
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "si":
				strs = append(strs, sb.String())
			}
		}
	}
	return strs, nil
}

func readSheet(part *zip.File, shared []string) (Grid, error) {
	rc, err := part.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var ws worksheetXML
	if err := xml.NewDecoder(rc).Decode(&ws); err != nil {
		return nil, err
	}

	grid := make(Grid, 0, len(ws.Rows))
	for _, row := range ws.Rows {
		cells := make(map[int]Cell, len(row.Cells))
		maxCol := 0
		for _, c := range row.Cells {
			col := ColumnIndex(c.Ref)
			cells[col] = resolveCell(c, shared)
			if col > maxCol {
				maxCol = col
			}
		}
		out := make(Row, maxCol)
		for i := range out {
			out[i] = Absent()
		}
		for col, cell := range cells {
			out[col-1] = cell
		}
		grid = append(grid, out)
	}
	return grid, nil
}

// resolveCell converts one raw cell to its value according to the declared
// cell type: shared-string index, literal boolean, inline string run, or raw
// text/number fallback. An unresolvable shared-string index yields empty
// text instead of an error.
func resolveCell(c cellXML, shared []string) Cell {
	switch c.Type {
	case "s":
		idx := 0
		if c.Value != nil {
			if n, err := strconv.Atoi(strings.TrimSpace(*c.Value)); err == nil {
				idx = n
			}
		}
		if idx >= 0 && idx < len(shared) {
			return Text(shared[idx])
		}
		return Text("")
	case "b":
		if c.Value == nil {
			return Bool(false)
		}
		v := strings.TrimSpace(*c.Value)
		return Bool(v == "1" || strings.EqualFold(v, "true"))
	case "inlineStr":
		if c.Inline == nil {
			return Text("")
		}
		var sb strings.Builder
		for _, t := range c.Inline.Text {
			sb.WriteString(t)
		}
		for _, t := range c.Inline.Runs {
			sb.WriteString(t)
		}
		return Text(sb.String())
	default:
		if c.Value == nil {
			return Absent()
		}
		return Text(*c.Value)
	}
}
