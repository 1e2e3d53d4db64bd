package mem

// DefaultBytesPageSize provides a default for Bytes.PageSize.
const DefaultBytesPageSize = 4096

// Bytes implements a byte-oriented paged memory, suitable for backing an
// unbounded tape that starts small and grows only where touched.
// Pages may not necessarily be the same size, but usually are in practice.
type Bytes struct {
	PagedCore
	pages [][]byte
}

// Size returns an address one position higher than the last position in the
// last page allocated so far.
func (m *Bytes) Size() uint {
	if i := len(m.bases) - 1; i >= 0 {
		return m.bases[i] + uint(len(m.pages[i]))
	}
	return 0
}

// Load returns a single byte from the given address.
// Unallocated pages are left unallocated, resulting in implicit 0 values.
// Returns an error if addr exceeds any Limit.
func (m *Bytes) Load(addr uint) (byte, error) {
	if err := m.checkLimit(addr+1, "load"); err != nil {
		return 0, err
	}

	if m.PageSize == 0 || len(m.pages) == 0 {
		return 0, nil
	}

	pageID := m.findPage(addr)
	base := m.bases[pageID]
	page := m.pages[pageID]
	if i := int(addr) - int(base); 0 <= i && i < len(page) {
		return page[i], nil
	}

	return 0, nil
}

// LoadInto reads len(buf) bytes from memory starting at addr.
// Skips any unallocated pages, zeroing the result buffer where encountered.
// Returns an error if Limit would be exceeded; no partial load is done.
func (m *Bytes) LoadInto(addr uint, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	end := addr + uint(len(buf))
	if err := m.checkLimit(end, "load"); err != nil {
		return err
	}

	for pageID := m.findPage(addr); addr < end && pageID < len(m.bases); pageID++ {
		base := m.bases[pageID]
		if base > end {
			break
		}

		if skip := int(base) - int(addr); skip > 0 {
			if skip >= len(buf) {
				break
			}
			addr += uint(skip)
			for i := range buf[:skip] {
				buf[i] = 0
			}
			buf = buf[skip:]
		}

		page := m.pages[pageID]
		if skip := int(addr) - int(base); skip > 0 {
			if skip >= len(page) {
				continue
			}
			base += uint(skip)
			page = page[skip:]
		}

		n := copy(buf, page)
		buf = buf[n:]
		addr += uint(n)
	}

	for i := range buf {
		buf[i] = 0
	}

	return nil
}

// Stor stores a single byte at addr, allocating pages if necessary.
// Returns an error if Limit would be exceeded.
func (m *Bytes) Stor(addr uint, val byte) error {
	end := addr + 1
	if err := m.checkLimit(end, "stor"); err != nil {
		return err
	}

	if m.PageSize == 0 {
		m.PageSize = DefaultBytesPageSize
	}

	for pageID := m.findPage(addr); ; pageID++ {
		base, size, page := m.allocPage(pageID, addr)
		if skip := addr - base; skip > 0 {
			if skip >= size {
				continue
			}
			page = page[skip:]
		}
		page[0] = val
		return nil
	}
}

// Grow extends Size() to at least size by allocating the page that holds
// address size-1, without changing any already-stored values. Pages below
// that one are not allocated; they read as 0 until stored to.
func (m *Bytes) Grow(size uint) error {
	if size == 0 {
		return nil
	}
	if err := m.checkLimit(size, "grow"); err != nil {
		return err
	}
	if m.Size() >= size {
		return nil
	}
	return m.Stor(size-1, 0)
}

func (m *Bytes) allocPage(pageID int, addr uint) (base, size uint, page []byte) {
	base, size, isNew := m.PagedCore.allocPage(pageID, addr)
	if isNew {
		page = make([]byte, size)
		if pageID == len(m.bases) {
			m.pages = append(m.pages, page)
		} else {
			m.pages = append(m.pages, nil)
			copy(m.pages[pageID+1:], m.pages[pageID:])
			m.pages[pageID] = page
		}
	} else {
		page = m.pages[pageID]
	}
	return base, size, page
}

// BytesDump provides data for testing.
type BytesDump struct {
	Bases []uint
	Sizes []uint
	Pages [][]byte
}

// Dump memory layout data for testing.
func (m *Bytes) Dump() (d BytesDump) {
	d.Bases = m.bases
	d.Sizes = m.sizes
	d.Pages = m.pages
	return d
}
