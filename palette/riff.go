package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/image/riff"
)

/*
Microsoft RIFF palette, one "data" chunk per palette:

typedef struct tagLOGPALETTE {
  WORD         palVersion;      // 0x0300
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

type RIFFReaderWriter interface {
	ReadRIFF(io.Reader) (int64, error)
	WriteRIFF(io.Writer) (int64, error)
}

var _ RIFFReaderWriter = &Palette{}

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

const palVersion = 0x0300

// ReadRIFF appends every palette found in the RIFF stream to p and returns the
// number of colours read.
func (p *Palette) ReadRIFF(r io.Reader) (int64, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return 0, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	return p.readChunks(rd, string(formType[:]))
}

func (p *Palette) readChunks(r *riff.Reader, ident string) (int64, error) {
	var n int64
	for i := 0; ; i++ {
		id, size, data, err := r.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		} else if err != nil {
			return n, fmt.Errorf("could not read chunk %q#%d: %w", ident, i, err)
		}

		switch id {
		case riff.LIST:
			listType, list, lerr := riff.NewListReader(size, data)
			if lerr != nil {
				return n, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, i, lerr)
			} else if listType != palType {
				return n, fmt.Errorf("chunk %q#%d unsupported type: %s", ident, i, string(listType[:]))
			}
			m, lerr := p.readChunks(list, fmt.Sprintf("%s%d.%s", ident, i, listType[:]))
			n += m
			if lerr != nil {
				return n, lerr
			}
		case dataType:
			m, err := p.readData(data, fmt.Sprintf("%s%d", ident, i))
			n += m
			if err != nil {
				return n, err
			}
		default:
			return n, fmt.Errorf("unsupported chunk type in %q#%d: %s", ident, i, string(id[:]))
		}
	}
}

func (p *Palette) readData(r io.Reader, ident string) (int64, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, fmt.Errorf("could not read header from chunk %s: %w", ident, err)
	}

	if ver := binary.BigEndian.Uint16(hdr[:2]); ver != 3 && ver != palVersion {
		return 0, fmt.Errorf("unsupported palette version in chunk %s: %d", ident, ver)
	}

	count := binary.LittleEndian.Uint16(hdr[2:])
	var entry [4]byte
	for i := range count {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return int64(i), fmt.Errorf("could not read color %d/%d from chunk %s: %w", i, count, ident, err)
		}
		*p = append(*p, RGB{entry[0], entry[1], entry[2]})
	}

	return int64(count), nil
}

// WriteRIFF writes p as a single-chunk RIFF palette and returns the number of
// colours written.
func (p *Palette) WriteRIFF(w io.Writer) (int64, error) {
	pal := *p
	chunkLen := 4 + len(pal)*4 // palVersion + palNumEntries + 4 bytes/color

	buf := make([]byte, 0, 20+len(pal)*4)
	buf = append(buf, riffType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+8+chunkLen))
	buf = append(buf, palType[:]...)
	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(chunkLen))
	buf = binary.BigEndian.AppendUint16(buf, 3)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(pal)))
	for _, c := range pal {
		buf = append(buf, c.R, c.G, c.B, 0x00)
	}

	if err := writeBytes(w, buf); err != nil {
		return 0, fmt.Errorf("could not save palette: %w", err)
	}
	return int64(len(pal)), nil
}

func writeBytes(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	} else if n != len(b) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}

	return nil
}
