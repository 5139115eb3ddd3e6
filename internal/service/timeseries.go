package service

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CMSToCFS converts cubic meters per second to cubic feet per second.
const CMSToCFS = 35.314

// Output CSV columns. Column 0 is an unused row index.
const (
	timeColumn  = 1
	valueColumn = 2
)

// TimeSeries holds the time and value columns of a model output file.
type TimeSeries struct {
	X []string
	Y []float64
}

// Len returns the number of samples.
func (ts TimeSeries) Len() int {
	return len(ts.Y)
}

// Scale returns a copy with every value multiplied by factor.
func (ts TimeSeries) Scale(factor float64) TimeSeries {
	y := make([]float64, len(ts.Y))
	for i, v := range ts.Y {
		y[i] = v * factor
	}
	return TimeSeries{X: ts.X, Y: y}
}

// ReadSeries reads a model output CSV. The first row is a header; columns are
// taken by position, not by name.
func ReadSeries(path string) (TimeSeries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TimeSeries{}, fmt.Errorf("reading series: %w", err)
	}

	ts, err := parseSeries(bytes.NewReader(stripBOM(data)))
	if err != nil {
		return TimeSeries{}, fmt.Errorf("parsing series %s: %w", path, err)
	}
	return ts, nil
}

func parseSeries(r io.Reader) (TimeSeries, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return TimeSeries{}, errors.New("missing header row")
		}
		return TimeSeries{}, err
	}

	ts := TimeSeries{X: []string{}, Y: []float64{}}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return TimeSeries{}, err
		}

		line, _ := cr.FieldPos(0)
		if len(rec) <= valueColumn {
			return TimeSeries{}, fmt.Errorf("line %d: expected at least %d columns, got %d", line, valueColumn+1, len(rec))
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(rec[valueColumn]), 64)
		if err != nil {
			return TimeSeries{}, fmt.Errorf("line %d column %d: %w", line, valueColumn, err)
		}

		ts.X = append(ts.X, rec[timeColumn])
		ts.Y = append(ts.Y, v)
	}
	return ts, nil
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
}
