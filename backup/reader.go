package backup

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// ReadBatch loads every game Record from a file saved by Writer.
func ReadBatch(filename string) ([]Record, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %v", filename)
	}
	defer r.Close()

	var result []Record
	dec := jsoniter.ConfigFastest.NewDecoder(r)
	for dec.More() {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, errors.Wrapf(err, "decoding record %d of %v", len(result), filename)
		}
		result = append(result, rec)
	}

	return result, nil
}
