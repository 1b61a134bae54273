package archivetest

import (
	"bytes"
	"time"

	"github.com/blakesmith/ar"
)

// ArFile lays members out the way dpkg-deb does: flat, in order.
func ArFile(members []Entry) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	aw := ar.NewWriter(buf)
	if err := aw.WriteGlobalHeader(); err != nil {
		return nil, err
	}
	for _, m := range members {
		hdr := &ar.Header{
			Name:    m.Name,
			ModTime: time.Unix(0, 0),
			Mode:    0644,
			Size:    int64(len(m.Body)),
		}
		if err := aw.WriteHeader(hdr); err != nil {
			return nil, err
		}
		if _, err := aw.Write(m.Body); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// DebFile wraps data, an already compressed tarball named dataName, into a
// .deb with the usual metadata members around it.
func DebFile(dataName string, data []byte) (*bytes.Buffer, error) {
	return ArFile([]Entry{
		{Name: "debian-binary", Body: []byte("2.0\n")},
		{Name: "_gpgorigin", Body: []byte("-----BEGIN PGP SIGNATURE-----\n")},
		{Name: dataName, Body: data},
	})
}
