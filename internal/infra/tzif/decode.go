// Package tzif reads zoneinfo files in the TZif format (RFC 9636, versions 1
// through 4) from a caller-supplied directory.
package tzif

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/infra/posixtz"
)

const magic = "TZif"

// maxFileSize bounds what we are willing to read; real files are a few KB.
const maxFileSize = 1 << 20

var errBadData = errors.New("malformed TZif data")

type localType struct {
	offset domain.Offset
	isDST  bool
	abbr   string
}

type transition struct {
	when  int64 // Unix seconds
	index uint8 // into Zone.types
}

// Zone is a decoded TZif file. It is immutable and safe for concurrent use.
type Zone struct {
	Name    domain.ZoneID
	Version int

	types       []localType
	transitions []transition

	// Footer is the POSIX TZ string that governs instants after the last
	// transition. Empty for version 1 files and for zones that have none.
	Footer string
	footer *posixtz.Rule
}

// Transitions reports how many explicit transitions the file carries.
func (z *Zone) Transitions() int { return len(z.transitions) }

// FooterRule is the parsed footer, when there is one.
func (z *Zone) FooterRule() (posixtz.Rule, bool) {
	if z.footer == nil {
		return posixtz.Rule{}, false
	}
	return *z.footer, true
}

// Lookup returns the local time type in effect at the instant.
func (z *Zone) Lookup(at domain.Instant) domain.ZoneOffset {
	sec := at.UnixSeconds()
	n := len(z.transitions)

	switch {
	case n == 0:
		if z.footer != nil {
			return z.footer.Lookup(at)
		}
		return z.types[0].zoneOffset()
	case sec < z.transitions[0].when:
		return z.types[0].zoneOffset()
	case sec >= z.transitions[n-1].when && z.footer != nil:
		return z.footer.Lookup(at)
	}

	// First transition strictly after sec; the one before it applies.
	i := sort.Search(n, func(i int) bool { return z.transitions[i].when > sec })
	return z.types[z.transitions[i-1].index].zoneOffset()
}

func (t localType) zoneOffset() domain.ZoneOffset {
	return domain.ZoneOffset{Offset: t.offset, IsDST: t.isDST, Abbreviation: t.abbr}
}

// reader is a cursor over the file; after the first short read every
// further read fails.
type reader struct {
	p   []byte
	bad bool
}

func (r *reader) read(n int) []byte {
	if n < 0 || len(r.p) < n {
		r.p = nil
		r.bad = true
		return nil
	}
	out := r.p[:n]
	r.p = r.p[n:]
	return out
}

func (r *reader) big4() uint32 {
	p := r.read(4)
	if p == nil {
		return 0
	}
	return uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
}

func (r *reader) big8() uint64 {
	hi := r.big4()
	lo := r.big4()
	return uint64(hi)<<32 | uint64(lo)
}

// header counts, in file order.
type counts struct {
	isUTC, isStd, leap, time, typ, char int
}

func (r *reader) header() (version int, c counts, err error) {
	if string(r.read(4)) != magic {
		return 0, c, fmt.Errorf("%w: missing magic", errBadData)
	}
	p := r.read(16)
	if p == nil {
		return 0, c, errBadData
	}
	switch p[0] {
	case 0:
		version = 1
	case '2', '3', '4':
		version = int(p[0] - '0')
	default:
		return 0, c, fmt.Errorf("%w: unsupported version %q", errBadData, p[0])
	}

	vals := [6]int{}
	for i := range vals {
		vals[i] = int(r.big4())
	}
	if r.bad {
		return 0, c, errBadData
	}
	c = counts{isUTC: vals[0], isStd: vals[1], leap: vals[2], time: vals[3], typ: vals[4], char: vals[5]}
	return version, c, nil
}

// blockSize is the length of a data block following a header.
func (c counts) blockSize(timeSize int) int {
	return c.time*timeSize + c.time + c.typ*6 + c.char + c.leap*(timeSize+4) + c.isStd + c.isUTC
}

// Decode parses a TZif file. For version 2 and later the 64-bit block and
// footer are used and the legacy 32-bit block is skipped.
func Decode(name domain.ZoneID, data []byte) (*Zone, error) {
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("%w: file too large", errBadData)
	}
	r := &reader{p: data}

	version, c, err := r.header()
	if err != nil {
		return nil, err
	}

	timeSize := 4
	if version > 1 {
		r.read(c.blockSize(4))
		if _, c, err = r.header(); err != nil {
			return nil, err
		}
		timeSize = 8
	}

	times := &reader{p: r.read(c.time * timeSize)}
	indices := r.read(c.time)
	typeData := &reader{p: r.read(c.typ * 6)}
	abbrevs := r.read(c.char)
	r.read(c.leap*(timeSize+4) + c.isStd + c.isUTC)
	if r.bad {
		return nil, fmt.Errorf("%w: truncated data block", errBadData)
	}
	if c.typ == 0 {
		return nil, fmt.Errorf("%w: no local time types", errBadData)
	}

	z := &Zone{Name: name, Version: version}

	z.types = make([]localType, c.typ)
	for i := range z.types {
		off := int32(typeData.big4())
		dst := typeData.read(1)
		idx := typeData.read(1)
		if typeData.bad || int(idx[0]) >= len(abbrevs) {
			return nil, fmt.Errorf("%w: bad local time type %d", errBadData, i)
		}
		z.types[i] = localType{
			offset: domain.Offset(off),
			isDST:  dst[0] != 0,
			abbr:   cString(abbrevs[idx[0]:]),
		}
	}

	z.transitions = make([]transition, c.time)
	for i := range z.transitions {
		var when int64
		if timeSize == 4 {
			when = int64(int32(times.big4()))
		} else {
			when = int64(times.big8())
		}
		if int(indices[i]) >= len(z.types) {
			return nil, fmt.Errorf("%w: transition %d names type %d", errBadData, i, indices[i])
		}
		if i > 0 && when <= z.transitions[i-1].when {
			return nil, fmt.Errorf("%w: transitions out of order at %d", errBadData, i)
		}
		z.transitions[i] = transition{when: when, index: indices[i]}
	}

	if version > 1 {
		rest := r.p
		if len(rest) >= 2 && rest[0] == '\n' && rest[len(rest)-1] == '\n' {
			z.Footer = string(rest[1 : len(rest)-1])
		}
		if z.Footer != "" {
			rule, err := posixtz.Parse(z.Footer)
			if err != nil {
				return nil, fmt.Errorf("%w: footer: %v", errBadData, err)
			}
			z.footer = &rule
		}
	}
	return z, nil
}

// cString stops at the first NUL.
func cString(p []byte) string {
	if i := bytes.IndexByte(p, 0); i != -1 {
		p = p[:i]
	}
	return string(p)
}
