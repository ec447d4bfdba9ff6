package index

var (
	bScripts = []byte("scripts") // key(rel, mode, preserve) -> Entry JSON
	bMeta    = []byte("meta")    // engine/schema markers
)

var metaEngineKey = []byte("engine")
