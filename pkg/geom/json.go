package geom

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes p as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes [x, y].
func (p *Point) UnmarshalJSON(data []byte) error {
	v, err := decodePair(data, "point")
	if err != nil {
		return err
	}
	p.X, p.Y = v[0], v[1]
	return nil
}

// MarshalJSON encodes s as [w, h].
func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{s.W, s.H})
}

// UnmarshalJSON decodes [w, h]. Negative dimensions are rejected.
func (s *Size) UnmarshalJSON(data []byte) error {
	v, err := decodePair(data, "size")
	if err != nil {
		return err
	}
	if v[0] < 0 || v[1] < 0 {
		return fmt.Errorf("size must be non-negative, got [%g, %g]", v[0], v[1])
	}
	s.W, s.H = v[0], v[1]
	return nil
}

func decodePair(data []byte, what string) ([2]float64, error) {
	var v []float64
	if err := json.Unmarshal(data, &v); err != nil {
		return [2]float64{}, fmt.Errorf("decode %s: %w", what, err)
	}
	if len(v) != 2 {
		return [2]float64{}, fmt.Errorf("decode %s: want 2 numbers, got %d", what, len(v))
	}
	return [2]float64{v[0], v[1]}, nil
}

// MarshalJSON encodes s as [x, y, pressure].
func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{s.X, s.Y, s.Pressure})
}

// UnmarshalJSON decodes [x, y] or [x, y, pressure]. A missing pressure is
// stored as -1 (unknown).
func (s *Sample) UnmarshalJSON(data []byte) error {
	var v []float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode sample: %w", err)
	}
	switch len(v) {
	case 2:
		s.X, s.Y, s.Pressure = v[0], v[1], -1
	case 3:
		s.X, s.Y, s.Pressure = v[0], v[1], v[2]
	default:
		return fmt.Errorf("decode sample: want 2 or 3 numbers, got %d", len(v))
	}
	return nil
}
