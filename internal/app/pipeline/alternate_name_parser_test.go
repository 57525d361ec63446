package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile_Fields(t *testing.T) {
	path := writeDump(t,
		"# comment line",
		"1284819\t2994701\tfr\tRoc Meler\t1\t0\t0\t1\t1920\t1991-05-01",
		"",
		"1284820\t2994701\t\tPic de Font Blanca\t\t\t\t\t\t",
		"1284821\t2994701\tlink\t",
	)

	recs, stats, err := newTestParser().ParseFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	first := recs[0]
	assert.EqualValues(t, 1284819, first.ID)
	assert.EqualValues(t, 2994701, first.GeonameID)
	assert.Equal(t, "fr", first.ISOLanguage)
	assert.Equal(t, "Roc Meler", first.Name)
	assert.True(t, first.IsPreferredName)
	assert.False(t, first.IsShortName)
	assert.False(t, first.IsColloquial)
	assert.True(t, first.IsHistoric)
	require.NotNil(t, first.From)
	assert.Equal(t, time.Date(1920, 1, 1, 0, 0, 0, 0, time.UTC), *first.From)
	require.NotNil(t, first.To)
	assert.Equal(t, time.Date(1991, 5, 1, 0, 0, 0, 0, time.UTC), *first.To)

	second := recs[1]
	assert.Empty(t, second.ISOLanguage)
	assert.Nil(t, second.From)
	assert.Nil(t, second.To)
	assert.False(t, second.IsPreferredName)

	// Короткая строка без флагов и периодов
	third := recs[2]
	assert.Equal(t, "link", third.ISOLanguage)
	assert.Empty(t, third.Name)

	assert.EqualValues(t, 3, stats.Records)
	assert.Zero(t, stats.Malformed)
}

func TestParseFile_KeepsNameVerbatim(t *testing.T) {
	path := writeDump(t,
		"5\t50\t en \t  Padded Name \t1\t\t\t\t\t",
		"6\t60\tde\tCRLF Line\r",
	)

	recs, _, err := newTestParser().ParseFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "  Padded Name ", recs[0].Name)
	assert.Equal(t, "en", recs[0].ISOLanguage)
	assert.True(t, recs[0].IsPreferredName)

	// CRLF не попадает в последнее поле
	assert.Equal(t, "CRLF Line", recs[1].Name)
}

func TestParseFile_SkipsMalformedLines(t *testing.T) {
	path := writeDump(t,
		"abc\t1\ten\tBad id",
		"2\tx\ten\tBad geonameid",
		"3\t1",
		"4\t1\ten\tGood",
	)

	recs, stats, err := newTestParser().ParseFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.EqualValues(t, 4, recs[0].ID)
	assert.EqualValues(t, 3, stats.Malformed)
}

func TestParseFile_UnparsedPeriodKeepsRecord(t *testing.T) {
	path := writeDump(t, "5\t1\ten\tOld Town\t0\t0\t0\t1\tmedieval\t\\N")

	recs, stats, err := newTestParser().ParseFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].From)
	assert.Nil(t, recs[0].To)
	assert.EqualValues(t, 1, stats.UnparsedPeriods)
}

func TestParseFile_MissingFile(t *testing.T) {
	_, _, err := newTestParser().ParseFile(context.Background(), "/nonexistent/alternateNamesV2.txt")
	require.Error(t, err)
}

func TestParsePeriod(t *testing.T) {
	p := NewBaseParser(nil)
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"empty", "", "", true},
		{"null marker", "\\N", "", true},
		{"year", "1920", "1920-01-01", true},
		{"year month", "1920-07", "1920-07-01", true},
		{"full date", "1920-07-14", "1920-07-14", true},
		{"garbage", "20th century", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.ParsePeriod(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}
