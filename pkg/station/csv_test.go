package station

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const csvHeader = "OPIS Truckstop ID,Truckstop Name,Address,City,State,Rack ID,Retail Price\n"

func TestLoadCSV(t *testing.T) {
	data := csvHeader +
		"100,PILOT TRAVEL CENTER,I-40 EXIT 53,Big Cabin,OK,307,3.119\n" +
		"101,LOVES TRAVEL STOP,US-287,Amarillo,TX,309,2.989\n"

	records, err := LoadCSV(strings.NewReader(data), 0)
	assert.NoError(t, err)
	if assert.Len(t, records, 2) {
		assert.Equal(t, int64(100), records[0].OpisID)
		assert.Equal(t, "PILOT TRAVEL CENTER", records[0].Name)
		assert.Equal(t, int64(307), records[0].RackID)
		assert.InDelta(t, 3.119, records[0].PricePerGallon, 1e-9)
		assert.False(t, records[0].HasCoordinates())
	}
}

func TestLoadCSVSkipsBadRows(t *testing.T) {
	data := csvHeader +
		"not-a-number,BROKEN,addr,city,ST,1,3.0\n" +
		"102,OK STOP,addr,city,ST,1,3.0\n" +
		"103,FREE FUEL,addr,city,ST,1,0\n"

	records, err := LoadCSV(strings.NewReader(data), 0)
	assert.NoError(t, err)
	if assert.Len(t, records, 1) {
		assert.Equal(t, int64(102), records[0].OpisID)
	}
}

func TestLoadCSVLimit(t *testing.T) {
	data := csvHeader +
		"100,A,addr,city,ST,1,3.0\n" +
		"101,B,addr,city,ST,1,3.0\n" +
		"102,C,addr,city,ST,1,3.0\n"

	records, err := LoadCSV(strings.NewReader(data), 2)
	assert.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLoadCSVMissingColumn(t *testing.T) {
	data := "OPIS Truckstop ID,Truckstop Name\n100,A\n"

	_, err := LoadCSV(strings.NewReader(data), 0)
	assert.Error(t, err)
}
