package closestpos

import (
	"os"

	"github.com/hupe1980/closestpos/cellarray"
)

func writeRecords(path string, list *cellarray.Array) error {
	var buf []byte
	for i := range list.Len() {
		buf = append(buf, list.Record(i)...)
	}
	return os.WriteFile(path, buf, 0o600)
}
