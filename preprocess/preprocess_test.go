package preprocess

import (
	"errors"
	"testing"

	"github.com/zicanl-amazon/abalone-pipeline/dataset"
	"gotest.tools/assert"
)

func TestCleanDropsZeroHeight(t *testing.T) {
	d := dataset.Dataset{
		{Sex: "M", Height: 0.095, Rings: 15},
		{Sex: "I", Height: 0, Rings: 8},
		{Sex: "F", Height: 0.135, Rings: 9},
		{Sex: "F", Height: 0, Rings: 6},
	}
	cleaned := Clean(d, NonZeroHeight)
	assert.Equal(t, len(cleaned), 2)
	assert.Equal(t, cleaned[0].Rings, 15)
	assert.Equal(t, cleaned[1].Rings, 9)
}

func TestCleanNoFilters(t *testing.T) {
	d := dataset.Dataset{{Sex: "M"}, {Sex: "F"}}
	assert.Equal(t, len(Clean(d)), 2)
}

func TestEncode(t *testing.T) {
	d := dataset.Dataset{
		{Sex: "M", Length: 0.455, Diameter: 0.365, Height: 0.095, WholeWeight: 0.514, ShuckedWeight: 0.2245, VisceraWeight: 0.101, ShellWeight: 0.15, Rings: 15},
		{Sex: "F", Length: 0.53, Height: 0.135, Rings: 9},
		{Sex: "I", Length: 0.33, Height: 0.08, Rings: 7},
	}
	encoded, err := Encode(d)
	assert.NilError(t, err)
	assert.Equal(t, len(encoded), 3)

	assert.Equal(t, encoded[0], dataset.EncodedRecord{
		Rings: 15, Male: 1,
		Length: 0.455, Diameter: 0.365, Height: 0.095,
		WholeWeight: 0.514, ShuckedWeight: 0.2245, VisceraWeight: 0.101, ShellWeight: 0.15,
	})
	assert.Equal(t, encoded[1].Female, 1)
	assert.Equal(t, encoded[2].Infant, 1)

	// Exactly one indicator is set per record.
	for _, e := range encoded {
		assert.Equal(t, e.Female+e.Male+e.Infant, 1)
	}
}

func TestEncodeUnknownSex(t *testing.T) {
	d := dataset.Dataset{
		{Sex: "M", Rings: 15},
		{Sex: "f", Rings: 9},
	}
	_, err := Encode(d)
	var integrity *DataIntegrityError
	assert.Assert(t, errors.As(err, &integrity))
	assert.Equal(t, integrity.Row, 2)
	assert.Equal(t, integrity.Value, "f")
}
