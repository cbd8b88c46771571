package utils

import (
	"errors"
	"io"
)

var ErrTooLarge = errors.New("input exceeds size limit")

// ReadAllLimit reads r to the end but refuses inputs larger than max bytes,
// so an oversized upload cannot balloon memory past the route's cap.
func ReadAllLimit(r io.Reader, max int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, ErrTooLarge
	}
	return b, nil
}
