// Package flyspec reads FlySpec plain-text instrument logs into dataset
// buffers. Importing the package registers the "flyspec" format:
//
//	import _ "github.com/geogaslab/spectra/flyspec"
//
//	bufs, err := d.ReadFile("scan.txt", "flyspec",
//	    dataset.WithTimeshift(12*time.Hour))
//
// A log is line-oriented: '#' starts a comment, blank lines are skipped,
// and every data row carries at least four whitespace-separated columns
//
//	date time scan-angle so2-column
//
// with the timestamp as "2006-01-02 15:04:05" plus optional fractional
// seconds, interpreted as UTC. Trailing columns are ignored. The reader
// yields a RawDataBuffer (timestamps, scan angles, raw column amounts), a
// ConcentrationBuffer (SO2 values with per-value sample indices) and a
// RawDataTypeBuffer; the caller links and commits them.
package flyspec

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/geogaslab/spectra/dataset"
	"github.com/geogaslab/spectra/errs"
)

// FormatName is the name the reader registers under.
const FormatName = "flyspec"

// Buffer keys in the mapping returned by Read.
const (
	KeyRawData       = "RawDataBuffer"
	KeyConcentration = "ConcentrationBuffer"
	KeyRawDataType   = "RawDataTypeBuffer"
)

const timeLayout = "2006-01-02 15:04:05"

func init() {
	dataset.RegisterFormat(FormatName, Reader{})
}

// Reader parses FlySpec logs. The zero value is ready to use.
type Reader struct{}

// Read implements dataset.FormatReader.
func (Reader) Read(filename string, opts dataset.ReadOptions) (map[string]dataset.Buffer, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open flyspec log: %w", err)
	}
	defer f.Close()

	var (
		stamps  []time.Time
		angles  []float64
		columns [][]float64
		values  []float64
		indices []int64
	)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Fields(line)
		if len(cols) < 4 {
			return nil, fmt.Errorf("%w: %s:%d: %d columns, want at least 4",
				errs.ErrMalformedInput, filename, lineNo, len(cols))
		}

		stamp, err := parseTimestamp(cols[0], cols[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %v", errs.ErrMalformedInput, filename, lineNo, err)
		}
		angle, err := strconv.ParseFloat(cols[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: scan angle %q",
				errs.ErrMalformedInput, filename, lineNo, cols[2])
		}
		so2, err := strconv.ParseFloat(cols[3], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: so2 column %q",
				errs.ErrMalformedInput, filename, lineNo, cols[3])
		}

		indices = append(indices, int64(len(stamps)))
		stamps = append(stamps, stamp.Add(opts.Timeshift))
		angles = append(angles, angle)
		columns = append(columns, []float64{so2})
		values = append(values, so2)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read flyspec log: %w", err)
	}
	if len(stamps) == 0 {
		return nil, fmt.Errorf("%w: %s: no data rows", errs.ErrMalformedInput, filename)
	}

	return map[string]dataset.Buffer{
		KeyRawData: &dataset.RawDataBuffer{
			DVar:     columns,
			Datetime: stamps,
			IncAngle: angles,
		},
		KeyConcentration: &dataset.ConcentrationBuffer{
			GasSpecies:     "SO2",
			Value:          values,
			RawDataIndices: indices,
		},
		KeyRawDataType: &dataset.RawDataTypeBuffer{
			Name:        "measurement",
			Acquisition: "stationary",
		},
	}, nil
}

// parseTimestamp parses the date and time columns as UTC, with optional
// fractional seconds down to microseconds.
func parseTimestamp(date, clock string) (time.Time, error) {
	base := clock
	var frac float64
	if dot := strings.IndexByte(clock, '.'); dot >= 0 {
		base = clock[:dot]
		f, err := strconv.ParseFloat(clock[dot:], 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp %q", date+" "+clock)
		}
		frac = f
	}
	t, err := time.ParseInLocation(timeLayout, date+" "+base, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q", date+" "+clock)
	}
	return t.Add(time.Duration(frac * float64(time.Second))).Truncate(time.Microsecond), nil
}
