// Reads and writes process definitions in the plain stream format: one record per
// process, three whitespace-separated integers (arrival, service, priority).

package sim

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// LegacyProcessCount is the number of records the classic input format carries.
const LegacyProcessCount = 6

var recordFields = [3]string{"arrival", "service", "priority"}

// ReadProcessSpecs parses process records from r in ID order.
// With n > 0 exactly n records are required and anything after them is ignored;
// with n <= 0 records are read until EOF and at least one is required.
// A short, partial or non-numeric stream fails with ErrMalformedInput before any
// process is built.
func ReadProcessSpecs(r io.Reader, n int) ([]ProcessSpec, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var specs []ProcessSpec
	var fields [3]int64
	for n <= 0 || len(specs) < n {
		field := 0
		for ; field < len(fields); field++ {
			if !scanner.Scan() {
				break
			}
			v, err := strconv.ParseInt(scanner.Text(), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: record %d field %s: %q is not an integer",
					ErrMalformedInput, len(specs), recordFields[field], scanner.Text())
			}
			fields[field] = v
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading process input: %w", err)
		}
		if field == 0 {
			break // clean EOF between records
		}
		if field < len(fields) {
			return nil, fmt.Errorf("%w: record %d is truncated after field %s",
				ErrMalformedInput, len(specs), recordFields[field-1])
		}
		specs = append(specs, ProcessSpec{ArrivalTime: fields[0], ServiceTime: fields[1], Priority: int(fields[2])})
	}

	if n > 0 && len(specs) < n {
		return nil, fmt.Errorf("%w: expected %d records, got %d", ErrMalformedInput, n, len(specs))
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no process records", ErrMalformedInput)
	}
	return specs, nil
}

// WriteProcessSpecs writes specs in the format ReadProcessSpecs accepts.
func WriteProcessSpecs(w io.Writer, specs []ProcessSpec) error {
	bw := bufio.NewWriter(w)
	for _, s := range specs {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", s.ArrivalTime, s.ServiceTime, s.Priority); err != nil {
			return err
		}
	}
	return bw.Flush()
}
