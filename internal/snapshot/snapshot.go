// Package snapshot saves and restores the values of a hastack.Stack as CBOR.
//
// An image lists values bottom to top, flattened pre-order: a List record
// carries its element count and is followed by its elements. Quotes are
// stored by name, and resolved by the loader when restoring.
package snapshot

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/jcorbin/hastack"
)

// Version of the image format written by Save.
const Version = 1

type image struct {
	Version  int      `cbor:"1,keyasint"`
	Capacity int      `cbor:"2,keyasint"`
	Count    int      `cbor:"3,keyasint"`
	Records  []record `cbor:"4,keyasint,omitempty"`
}

type record struct {
	Kind  hastack.Kind `cbor:"1,keyasint"`
	Int   int64        `cbor:"2,keyasint,omitempty"`
	Bool  bool         `cbor:"3,keyasint,omitempty"`
	Char  rune         `cbor:"4,keyasint,omitempty"`
	Quote string       `cbor:"5,keyasint,omitempty"`
	Len   int          `cbor:"6,keyasint,omitempty"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

var (
	errTruncated = errors.New("snapshot: truncated image")
	errTrailing  = errors.New("snapshot: trailing records in image")
)

// Resolver maps a quote name back to a Quote when loading.
type Resolver func(name string) (*hastack.Quote, error)

// Save writes an image of the values on s to w.
func Save(w io.Writer, s *hastack.Stack) error {
	vals := s.Values()
	recs, err := flatten(nil, vals)
	if err != nil {
		return err
	}
	return encMode.NewEncoder(w).Encode(image{
		Version:  Version,
		Capacity: s.Cap(),
		Count:    len(vals),
		Records:  recs,
	})
}

func flatten(recs []record, vals []hastack.Value) ([]record, error) {
	for _, v := range vals {
		switch v := v.(type) {
		case hastack.Int:
			recs = append(recs, record{Kind: hastack.IntKind, Int: int64(v)})
		case hastack.Bool:
			recs = append(recs, record{Kind: hastack.BoolKind, Bool: bool(v)})
		case hastack.Char:
			recs = append(recs, record{Kind: hastack.CharKind, Char: rune(v)})
		case *hastack.Quote:
			if v.Name == "" {
				return nil, errors.New("snapshot: cannot save an unnamed quote")
			}
			recs = append(recs, record{Kind: hastack.QuoteKind, Quote: v.Name})
		case hastack.List:
			var elems []hastack.Value
			if v.Stack != nil {
				elems = v.Values()
			}
			recs = append(recs, record{Kind: hastack.ListKind, Len: len(elems)})
			var err error
			if recs, err = flatten(recs, elems); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("snapshot: cannot save %T value", v)
		}
	}
	return recs, nil
}

// Load reads an image from r and pushes its values onto s, resolving quotes
// by name. Nothing is pushed unless the whole image decodes and fits within
// the capacity of s.
func Load(r io.Reader, s *hastack.Stack, resolve Resolver) error {
	var img image
	if err := cbor.NewDecoder(r).Decode(&img); err != nil {
		return fmt.Errorf("snapshot: decode image: %w", err)
	}
	if img.Version != Version {
		return fmt.Errorf("snapshot: unsupported image version %v", img.Version)
	}
	if free := s.Cap() - s.Len(); img.Count > free {
		return fmt.Errorf("snapshot: %v values do not fit in %v free slots: %w", img.Count, free, hastack.ErrOverflow)
	}

	ld := loader{recs: img.Records, resolve: resolve, within: s}
	vals, err := ld.values(img.Count)
	if err != nil {
		return err
	}
	if ld.i < len(ld.recs) {
		return errTrailing
	}
	for _, v := range vals {
		s.Push(v)
	}
	return nil
}

type loader struct {
	recs    []record
	i       int
	resolve Resolver
	within  *hastack.Stack
}

func (ld *loader) values(n int) ([]hastack.Value, error) {
	if n < 0 || n > ld.within.Cap() {
		return nil, fmt.Errorf("snapshot: invalid value count %v: %w", n, hastack.ErrOverflow)
	}
	vals := make([]hastack.Value, 0, n)
	for len(vals) < n {
		if ld.i >= len(ld.recs) {
			return nil, errTruncated
		}
		rec := ld.recs[ld.i]
		ld.i++
		v, err := ld.value(rec)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func (ld *loader) value(rec record) (hastack.Value, error) {
	switch rec.Kind {
	case hastack.IntKind:
		return hastack.Int(rec.Int), nil
	case hastack.BoolKind:
		return hastack.Bool(rec.Bool), nil
	case hastack.CharKind:
		return hastack.Char(rec.Char), nil

	case hastack.QuoteKind:
		if ld.resolve == nil {
			return nil, fmt.Errorf("snapshot: no resolver for quote %q", rec.Quote)
		}
		q, err := ld.resolve(rec.Quote)
		if err != nil {
			return nil, fmt.Errorf("snapshot: resolve quote %q: %w", rec.Quote, err)
		}
		if q == nil {
			return nil, fmt.Errorf("snapshot: unresolved quote %q", rec.Quote)
		}
		return q, nil

	case hastack.ListKind:
		elems, err := ld.values(rec.Len)
		if err != nil {
			return nil, err
		}
		list := ld.within.Nest()
		for _, v := range elems {
			list.Push(v)
		}
		return hastack.List{Stack: list}, nil
	}
	return nil, fmt.Errorf("snapshot: invalid value kind %v", rec.Kind)
}
