package tables_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/tables"
)

type CompileTestSuite struct {
	suite.Suite
}

func TestCompileTestSuite(t *testing.T) {
	suite.Run(t, new(CompileTestSuite))
}

func (s *CompileTestSuite) TestSingleEntry() {
	table := tables.Compile("Wald (Stufe 1-4)\n05-12 Ein Wolf taucht auf")

	s.Equal([]string{"Wald"}, table.Categories())
	s.Equal([]string{"1-4"}, table.Tiers("Wald"))
	s.Equal([]tables.Entry{{Low: 5, High: 12, Text: "Ein Wolf taucht auf"}}, table.Entries("Wald", "1-4"))
}

func (s *CompileTestSuite) TestEmptyInput() {
	for _, raw := range []string{"", "   ", "\n\n\t\n"} {
		table := tables.Compile(raw)
		s.True(table.Empty())
		s.Equal(0, table.Len())
		s.Empty(table.Categories())
	}
}

func (s *CompileTestSuite) TestFullTable() {
	raw := `Wald (Stufe 1-4)
W100
01-04 Ein Rudel Wölfe
      umkreist das Lager

05-12: Ein Wolf taucht auf
13 Ein einzelner Jäger
14-95 Nichts passiert
96-00 2W6 Goblins
Gebirge (Stufe 5 bis 10)
Wurf: W100
01-50 Steinschlag
51-00 Ein Bergtroll`

	table := tables.Compile(raw)

	s.Equal([]string{"Wald", "Gebirge"}, table.Categories())
	s.Equal(7, table.Len())

	wald := table.Entries("Wald", "1-4")
	s.Require().Len(wald, 5)
	s.Equal(tables.Entry{Low: 1, High: 4, Text: "Ein Rudel Wölfe umkreist das Lager"}, wald[0])
	s.Equal(tables.Entry{Low: 5, High: 12, Text: "Ein Wolf taucht auf"}, wald[1])
	s.Equal(tables.Entry{Low: 13, High: 13, Text: "Ein einzelner Jäger"}, wald[2])
	s.Equal(tables.Entry{Low: 96, High: 100, Text: "2W6 Goblins"}, wald[4])

	gebirge := table.Entries("Gebirge", "5-10")
	s.Require().Len(gebirge, 2)
	s.Equal(100, gebirge[1].High)

	s.Empty(table.Warnings())
}

func (s *CompileTestSuite) TestHeadingCanonicalization() {
	raw := "wälder (Stufe 6-10)\n01-00 Bäume\nHUEGEL (stufe 11\u201316)\n01-00 Schafe"
	table := tables.Compile(raw)

	s.Equal([]string{"Wald", "Hügel"}, table.Categories())
	s.Equal([]string{"5-10"}, table.Tiers("Wald"))
	s.Equal([]string{"11-16"}, table.Tiers("Hügel"))
}

func (s *CompileTestSuite) TestInvertedBoundsSwapped() {
	table := tables.Compile("Sumpf (Stufe 1-4)\n20-10 Nebel")
	s.Equal([]tables.Entry{{Low: 10, High: 20, Text: "Nebel"}}, table.Entries("Sumpf", "1-4"))
}

func (s *CompileTestSuite) TestDroppedLines() {
	raw := `Einleitung ohne Tabelle
01-10 Eintrag vor jeder Überschrift
Wald (Stufe 1-4)
Text ohne offenen Eintrag
11-20
21-30 Behalten`

	table := tables.Compile(raw)

	s.Equal([]tables.Entry{{Low: 21, High: 30, Text: "Behalten"}}, table.Entries("Wald", "1-4"))
}

func (s *CompileTestSuite) TestEntryTextOnFollowingLine() {
	table := tables.Compile("Wald (Stufe 1-4)\n01-10\nDer Text folgt\nin zwei Zeilen")
	s.Equal([]tables.Entry{{Low: 1, High: 10, Text: "Der Text folgt in zwei Zeilen"}}, table.Entries("Wald", "1-4"))
}

func (s *CompileTestSuite) TestUnicodeDashesAndSpaces() {
	table := tables.Compile("Wald (Stufe 1\u20134)\r\n01\u201410\u00a0Ein B\u00e4r\r\n")
	s.Equal([]tables.Entry{{Low: 1, High: 10, Text: "Ein B\u00e4r"}}, table.Entries("Wald", "1-4"))
}

func (s *CompileTestSuite) TestWarnings() {
	raw := "Wald (Stufe 1-4)\n01-50 A\n40-60 B\n61-98 C"
	table := tables.Compile(raw)

	warnings := table.Warnings()
	s.Require().Len(warnings, 2)
	s.Contains(warnings[0].Message, "40-60 overlaps 01-50")
	s.Equal("no entry for rolls 99-00", warnings[1].Message)

	// data is kept in authored order, first match still wins
	s.Len(table.Entries("Wald", "1-4"), 3)
}

func TestMerge(t *testing.T) {
	a := tables.Compile("Wald (Stufe 1-4)\n01-50 A")
	b := tables.Compile("Wald (Stufe 1-4)\n51-00 B\nSumpf (Stufe 17-20)\n01-00 C")

	merged := tables.Merge(a, nil, b)

	assert.Equal(t, []string{"Wald", "Sumpf"}, merged.Categories())
	entries := merged.Entries("Wald", "1-4")
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].Text)
	assert.Equal(t, "B", entries[1].Text)
	assert.Empty(t, merged.Warnings())

	// sources are untouched
	assert.Len(t, a.Entries("Wald", "1-4"), 1)
}

func TestLookup_IgnoresCase(t *testing.T) {
	table := tables.Compile("Drachenhort (Stufe 17-20)\n01-00 Gold")

	key, ok := table.Lookup("DRACHENHORT")
	assert.True(t, ok)
	assert.Equal(t, "Drachenhort", key)

	_, ok = table.Lookup("Höhle")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		line string
		kind tables.LineKind
	}{
		{name: "heading", line: "Wald (Stufe 1-4)", kind: tables.LineHeading},
		{name: "heading with bis", line: "Küste (Stufe 11 bis 20):", kind: tables.LineHeading},
		{name: "range", line: "05-12 Ein Wolf", kind: tables.LineRangeStart},
		{name: "single roll", line: "07 Ein Reh", kind: tables.LineRangeStart},
		{name: "bare range", line: "05-12", kind: tables.LineRangeStart},
		{name: "marker", line: "W100", kind: tables.LineMarker},
		{name: "marker with count", line: "1W100", kind: tables.LineMarker},
		{name: "percent marker", line: "d%", kind: tables.LineMarker},
		{name: "labelled marker", line: "Wurf: W100", kind: tables.LineMarker},
		{name: "three digits", line: "100 Goldstücke", kind: tables.LineContinuation},
		{name: "dice in text", line: "1W6 Wölfe heulen", kind: tables.LineContinuation},
		{name: "blank", line: " \t ", kind: tables.LineBlank},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tables.Classify(tc.line).Kind, "kind of %q", tc.line)
		})
	}
}

func TestEntry_Bounds(t *testing.T) {
	assert.Equal(t, "05-12", tables.Entry{Low: 5, High: 12}.Bounds())
	assert.Equal(t, "96-00", tables.Entry{Low: 96, High: 100}.Bounds())
	assert.Equal(t, "07", tables.Entry{Low: 7, High: 7}.Bounds())
}
