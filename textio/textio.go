// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package textio reads and writes the whitespace separated line formats used
// to exchange balls, contacts and vertices.
package textio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/2dChan/apollonius/contacts"
	"github.com/2dChan/apollonius/geom"
	"github.com/2dChan/apollonius/triangulation"
	"github.com/2dChan/apollonius/tuple"
)

const commentPrefix = "#"

var ErrMalformedLine = errors.New("textio: malformed line")

// scanFields calls fn with the fields of every non-empty line of r with
// comments stripped.
func scanFields(r io.Reader, fn func(fields []string) error) error {
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if i := strings.Index(text, commentPrefix); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if err := fn(fields); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return sc.Err()
}

func parseFloats(fields []string) ([]float64, error) {
	res := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrMalformedLine, f)
		}
		res[i] = v
	}
	return res, nil
}

// ReadSpheres reads balls given as "x y z r" lines.
func ReadSpheres(r io.Reader) ([]geom.Sphere, error) {
	var spheres []geom.Sphere
	err := scanFields(r, func(fields []string) error {
		if len(fields) != 4 {
			return fmt.Errorf("%w: want 4 fields, got %d", ErrMalformedLine, len(fields))
		}
		v, err := parseFloats(fields)
		if err != nil {
			return err
		}
		spheres = append(spheres, geom.NewSphere(v[0], v[1], v[2], v[3]))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return spheres, nil
}

func WriteSpheres(w io.Writer, spheres []geom.Sphere) error {
	bw := bufio.NewWriter(w)
	for _, s := range spheres {
		writeFloats(bw, s.Center.X, s.Center.Y, s.Center.Z, s.R)
	}
	return bw.Flush()
}

// WriteContacts writes "a b area" lines. A solvent contact of a is written
// as "a a area". Tags follow the area when present.
func WriteContacts(w io.Writer, cs []contacts.Contact) error {
	bw := bufio.NewWriter(w)
	for _, c := range cs {
		b := c.B
		if c.IsSolvent() {
			b = c.A
		}
		bw.WriteString(strconv.Itoa(c.A))
		bw.WriteByte(' ')
		bw.WriteString(strconv.Itoa(b))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(c.Area))
		if len(c.Tags) > 0 {
			bw.WriteByte(' ')
			bw.WriteString(strings.Join(c.Tags, ";"))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadContacts parses the output of WriteContacts.
func ReadContacts(r io.Reader) ([]contacts.Contact, error) {
	var cs []contacts.Contact
	err := scanFields(r, func(fields []string) error {
		if len(fields) != 3 && len(fields) != 4 {
			return fmt.Errorf("%w: want 3 or 4 fields, got %d", ErrMalformedLine, len(fields))
		}
		a, errA := strconv.Atoi(fields[0])
		b, errB := strconv.Atoi(fields[1])
		if errA != nil || errB != nil || a < 0 || b < 0 {
			return fmt.Errorf("%w: bad ids %q %q", ErrMalformedLine, fields[0], fields[1])
		}
		area, err := parseFloats(fields[2:3])
		if err != nil {
			return err
		}
		c := contacts.Contact{A: a, B: b, Area: area[0]}
		if a == b {
			c.B = contacts.Solvent
		}
		if len(fields) == 4 {
			c.Tags = strings.Split(fields[3], ";")
		}
		cs = append(cs, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// WriteVertices writes "i0 i1 i2 i3 x y z r volume" lines.
func WriteVertices(w io.Writer, vertices []triangulation.Vertex) error {
	bw := bufio.NewWriter(w)
	for _, v := range vertices {
		for _, id := range v.Quadruple {
			bw.WriteString(strconv.Itoa(id))
			bw.WriteByte(' ')
		}
		t := v.Tangent
		writeFloats(bw, t.Center.X, t.Center.Y, t.Center.Z, t.R, v.Volume)
	}
	return bw.Flush()
}

func ReadVertices(r io.Reader) ([]triangulation.Vertex, error) {
	var vertices []triangulation.Vertex
	err := scanFields(r, func(fields []string) error {
		if len(fields) != 9 {
			return fmt.Errorf("%w: want 9 fields, got %d", ErrMalformedLine, len(fields))
		}
		var ids [4]int
		for i := range ids {
			id, err := strconv.Atoi(fields[i])
			if err != nil || id < 0 {
				return fmt.Errorf("%w: bad id %q", ErrMalformedLine, fields[i])
			}
			ids[i] = id
		}
		q := tuple.NewQuadruple(ids[0], ids[1], ids[2], ids[3])
		if q.HasRepetitions() {
			return fmt.Errorf("%w: repeated ids in %v", ErrMalformedLine, q)
		}
		v, err := parseFloats(fields[4:])
		if err != nil {
			return err
		}
		vertices = append(vertices, triangulation.Vertex{
			Quadruple: q,
			Tangent:   geom.NewSphere(v[0], v[1], v[2], v[3]),
			Volume:    v[4],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vertices, nil
}

// WriteVolumes writes "id volume" lines ordered by id.
func WriteVolumes(w io.Writer, volumes map[int]float64) error {
	ids := make([]int, 0, len(volumes))
	for id := range volumes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	bw := bufio.NewWriter(w)
	for _, id := range ids {
		bw.WriteString(strconv.Itoa(id))
		bw.WriteByte(' ')
		writeFloats(bw, volumes[id])
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeFloats(bw *bufio.Writer, vs ...float64) {
	for i, v := range vs {
		if i > 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(formatFloat(v))
	}
	bw.WriteByte('\n')
}
