package xlsx

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	sheets := []Sheet{
		{
			Name: "Subjects",
			Rows: Grid{
				{Text("Name"), Text("Description"), Text("Icon")},
				{Text("General Knowledge"), Text("Mixed trivia"), Text("sparkles")},
				{Text("Math & Logic"), Absent(), Text("abacus")},
			},
		},
		{
			Name: "Quizzes",
			Rows: Grid{
				{Text("Title"), Text("Is Active")},
				{Text("Starter"), Bool(true)},
				{Text("Archived <old>"), Bool(false)},
			},
		},
	}

	data, err := Write(sheets)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	wb, err := Read(data)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if len(wb.Sheets) != len(sheets) {
		t.Fatalf("got %d sheets, want %d", len(wb.Sheets), len(sheets))
	}
	for i, want := range sheets {
		got := wb.Sheets[i]
		if got.Name != want.Name {
			t.Errorf("sheet %d name = %q, want %q", i, got.Name, want.Name)
		}
		if len(got.Rows) != len(want.Rows) {
			t.Fatalf("sheet %q: got %d rows, want %d", want.Name, len(got.Rows), len(want.Rows))
		}
		for ri, wantRow := range want.Rows {
			for ci, wantCell := range wantRow {
				gotCell := got.Rows[ri].Cell(ci + 1)
				if wantCell.IsAbsent() {
					if !gotCell.IsAbsent() {
						t.Errorf("sheet %q row %d col %d: got %+v, want absent", want.Name, ri, ci+1, gotCell)
					}
					continue
				}
				if gotCell != wantCell {
					t.Errorf("sheet %q row %d col %d: got %+v, want %+v", want.Name, ri, ci+1, gotCell, wantCell)
				}
			}
		}
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	var fmtErr *FormatError
	if _, err := Read([]byte("this is not a workbook")); !errors.As(err, &fmtErr) {
		t.Fatalf("Read(garbage) error = %v, want *FormatError", err)
	}
}

func TestReadMissingWorkbookDescriptor(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("unrelated.txt")
	w.Write([]byte("hello"))
	zw.Close()

	var fmtErr *FormatError
	if _, err := Read(buf.Bytes()); !errors.As(err, &fmtErr) {
		t.Fatalf("Read() error = %v, want *FormatError", err)
	}
}

func TestReadUndefinedSheetRelationship(t *testing.T) {
	data := buildPackage(t, map[string]string{
		workbookPart: `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<sheets><sheet name="Orphan" sheetId="1" r:id="rId9"/></sheets></workbook>`,
		workbookRelsPart: `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	})

	var fmtErr *FormatError
	if _, err := Read(data); !errors.As(err, &fmtErr) {
		t.Fatalf("Read() error = %v, want *FormatError", err)
	}
}

func TestReadSharedStringsAndRawCells(t *testing.T) {
	data := buildPackage(t, map[string]string{
		workbookPart: `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<sheets><sheet name="Data" sheetId="1" r:id="rId1"/></sheets></workbook>`,
		workbookRelsPart: `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="/xl/worksheets/sheet1.xml"/>` +
			`</Relationships>`,
		sharedStringsPart: `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
			`<si><t>plain</t></si><si><r><t>two </t></r><r><t>runs</t></r></si></sst>`,
		"xl/worksheets/sheet1.xml": `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
			`<row r="1">` +
			`<c r="A1" t="s"><v>0</v></c>` +
			`<c r="B1" t="s"><v>1</v></c>` +
			`<c r="C1" t="s"><v>99</v></c>` +
			`<c r="D1"><v>3.5</v></c>` +
			`<c r="E1" t="b"><v>1</v></c>` +
			`</row>` +
			`</sheetData></worksheet>`,
	})

	wb, err := Read(data)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	grid, ok := wb.Sheet("Data")
	if !ok {
		t.Fatal("sheet Data not found")
	}
	row := grid[0]

	tests := []struct {
		col  int
		want Cell
	}{
		{1, Text("plain")},
		{2, Text("two runs")},
		{3, Text("")}, // out-of-range shared string index
		{4, Text("3.5")},
		{5, Bool(true)},
	}
	for _, tt := range tests {
		if got := row.Cell(tt.col); got != tt.want {
			t.Errorf("col %d = %+v, want %+v", tt.col, got, tt.want)
		}
	}
}

func TestReadWithoutSharedStrings(t *testing.T) {
	data := buildPackage(t, map[string]string{
		workbookPart: `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<sheets><sheet name="Inline" sheetId="1" r:id="rId1"/></sheets></workbook>`,
		workbookRelsPart: `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>` +
			`</Relationships>`,
		"xl/worksheets/sheet1.xml": `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
			`<row r="1"><c r="B1" t="inlineStr"><is><t>hello</t></is></c></row>` +
			`</sheetData></worksheet>`,
	})

	wb, err := Read(data)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	grid, _ := wb.Sheet("Inline")
	if got := grid[0].Cell(2); got != Text("hello") {
		t.Errorf("B1 = %+v, want text %q", got, "hello")
	}
	if got := grid[0].Cell(1); !got.IsAbsent() {
		t.Errorf("A1 = %+v, want absent", got)
	}
}

// buildPackage assembles a zip archive from part name to XML body.
func buildPackage(t *testing.T, extra map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range extra {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}
