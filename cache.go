package anvil

import (
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// blobCache interns blob content by its xxh3 hash so repeated identical
// blobs across a parse (or across parses, within a process) share one
// backing string. Opt-in via WithBlobInterning(true); disabled parses
// never touch this map.
var blobCache sync.Map // map[string]string, keyed by hash

func internBlob(content string) string {
	key := strconv.FormatUint(xxh3.HashString(content), 36)
	if existing, ok := blobCache.Load(key); ok {
		return existing.(string)
	}
	blobCache.Store(key, content)
	return content
}
