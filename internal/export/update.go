package export

import (
	"fmt"
	"io"

	"github.com/digitorus/pdf"
	"github.com/mattetti/filebuffer"
)

type xrefEntry struct {
	ID     uint32
	Offset int64
}

// updateContext accumulates an incremental update: the original document
// bytes followed by new and rewritten objects, a cross-reference section
// and a trailer. Nothing in the original file is touched; readers resolve
// the newest definition of each object through the /Prev chain.
type updateContext struct {
	reader *pdf.Reader
	output *filebuffer.Buffer

	nextID             uint32
	newXrefEntries     []xrefEntry
	updatedXrefEntries []xrefEntry
	newXrefStart       int64
}

func newUpdateContext(reader *pdf.Reader, original []byte) (*updateContext, error) {
	out := filebuffer.New(nil)
	if _, err := out.Write(original); err != nil {
		return nil, err
	}
	// The original may end exactly at %%EOF; appended objects need their
	// own line.
	if _, err := out.Write([]byte("\n")); err != nil {
		return nil, err
	}

	return &updateContext{
		reader: reader,
		output: out,
		nextID: uint32(reader.XrefInformation.ItemCount),
	}, nil
}

// addObject appends a new indirect object and returns its assigned ID.
// The body excludes the "N 0 obj" / "endobj" framing.
func (u *updateContext) addObject(body []byte) (uint32, error) {
	id := u.nextID
	u.nextID++

	offset, err := u.output.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	u.newXrefEntries = append(u.newXrefEntries, xrefEntry{ID: id, Offset: offset})

	return id, u.writeObject(id, body)
}

// updateObject appends a replacement definition for an existing object.
func (u *updateContext) updateObject(id uint32, body []byte) error {
	offset, err := u.output.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	u.updatedXrefEntries = append(u.updatedXrefEntries, xrefEntry{ID: id, Offset: offset})

	return u.writeObject(id, body)
}

func (u *updateContext) writeObject(id uint32, body []byte) error {
	if _, err := fmt.Fprintf(u.output, "%d 0 obj\n", id); err != nil {
		return err
	}
	if _, err := u.output.Write(body); err != nil {
		return err
	}
	if len(body) > 0 && body[len(body)-1] != '\n' {
		if _, err := u.output.Write([]byte("\n")); err != nil {
			return err
		}
	}
	_, err := u.output.Write([]byte("endobj\n"))
	return err
}

// writeXref emits the incremental cross-reference table: one single-entry
// subsection per rewritten object, then one subsection covering the block
// of new objects.
func (u *updateContext) writeXref() error {
	start, err := u.output.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	u.newXrefStart = start

	if _, err := u.output.Write([]byte("xref\n")); err != nil {
		return err
	}

	for _, entry := range u.updatedXrefEntries {
		if _, err := fmt.Fprintf(u.output, "%d 1\n%010d 00000 n \n", entry.ID, entry.Offset); err != nil {
			return err
		}
	}

	if len(u.newXrefEntries) > 0 {
		if _, err := fmt.Fprintf(u.output, "%d %d\n", u.newXrefEntries[0].ID, len(u.newXrefEntries)); err != nil {
			return err
		}
		for _, entry := range u.newXrefEntries {
			if _, err := fmt.Fprintf(u.output, "%010d 00000 n \n", entry.Offset); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeTrailer emits the trailer dictionary chaining back to the previous
// xref section, then startxref and the end-of-file marker.
func (u *updateContext) writeTrailer() error {
	trailer := u.reader.Trailer()

	root := trailer.Key("Root")
	rootPtr := root.GetPtr()
	size := u.reader.XrefInformation.ItemCount + int64(len(u.newXrefEntries))

	if _, err := fmt.Fprintf(u.output, "trailer\n<< /Size %d /Root %d %d R /Prev %d",
		size, rootPtr.GetID(), rootPtr.GetGen(), u.reader.XrefInformation.StartPos); err != nil {
		return err
	}

	if info := trailer.Key("Info"); !info.IsNull() {
		if ptr := info.GetPtr(); ptr.GetID() != 0 {
			if _, err := fmt.Fprintf(u.output, " /Info %d %d R", ptr.GetID(), ptr.GetGen()); err != nil {
				return err
			}
		}
	}
	if id := trailer.Key("ID"); id.Kind() == pdf.Array && id.Len() == 2 {
		if _, err := fmt.Fprintf(u.output, " /ID %s", serializeValue(id)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(u.output, " >>\nstartxref\n%d\n%%%%EOF\n", u.newXrefStart)
	return err
}

// bytes finalizes the update and returns the full document.
func (u *updateContext) bytes() []byte {
	return u.output.Buff.Bytes()
}
